package model

// SeatAssignment is the persisted form of one seated passenger.  A saved
// cabin is an ordered list of these; restoring replays them in order.
// The file store writes one per line as
//
//	name,isEconomy,row,column,isGrouped,groupName|seatPreference
//
// and the MySQL store keeps one per seat_assignments row.
//
// Fields:
//  Seq        – position in the saved list (0-based).
//  Name       – passenger name; never contains a comma.
//  Economy    – true for standard class, false for premium.
//  Row        – printed row number.
//  Column     – zero-based column within the row.
//  Grouped    – whether the passenger was seated as part of a group.
//  GroupName  – group name when Grouped.
//  Preference – seat type letter (W, C, A) for individuals.
type SeatAssignment struct {
	Seq        int    // seat_assignments.seq
	Name       string // seat_assignments.name
	Economy    bool   // seat_assignments.is_economy
	Row        int    // seat_assignments.seat_row
	Column     int    // seat_assignments.col
	Grouped    bool   // seat_assignments.is_grouped
	GroupName  string // seat_assignments.group_name
	Preference string // seat_assignments.seat_pref
}
