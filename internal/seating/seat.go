// Package seating holds the cabin inventory and allocation engine.  It
// owns the per-row occupancy map, the per-type vacancy counters, the
// single-seat search and the group bin-packing allocator.  The package
// performs no I/O and assumes a single sequential caller.
package seating

import (
	"fmt"
	"strconv"
	"strings"
)

// SeatType classifies a column of a row template.
type SeatType int

const (
	NoPreference SeatType = iota // zero value: no type requested
	Window
	Center
	Aisle
)

// String returns the one-letter code used by prompts and persisted records.
func (t SeatType) String() string {
	switch t {
	case Window:
		return "W"
	case Center:
		return "C"
	case Aisle:
		return "A"
	}
	return " "
}

// ParseSeatType accepts W, C or A (case-insensitive, surrounding spaces ignored).
func ParseSeatType(s string) (SeatType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "W", "WINDOW":
		return Window, nil
	case "C", "CENTER":
		return Center, nil
	case "A", "AISLE":
		return Aisle, nil
	}
	return NoPreference, fmt.Errorf("unknown seat type %q", s)
}

// Class is the service class a row belongs to.
type Class int

const (
	Premium Class = iota
	Standard
)

// String returns the display name of the class.
func (c Class) String() string {
	if c == Premium {
		return "First Class"
	}
	return "Economy Class"
}

// IsEconomy reports whether c is the standard class.  The persisted record
// format stores the class as this flag.
func (c Class) IsEconomy() bool { return c == Standard }

// ClassFromEconomy converts the persisted flag back to a Class.
func ClassFromEconomy(economy bool) Class {
	if economy {
		return Standard
	}
	return Premium
}

// ParseClass accepts F/first/premium and E/economy/standard.
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "f", "first", "premium":
		return Premium, nil
	case "e", "economy", "standard":
		return Standard, nil
	}
	return Standard, fmt.Errorf("unknown service class %q", s)
}

// Row templates, fixed per class.
var (
	StandardTemplate = []SeatType{Window, Center, Aisle, Aisle, Center, Window}
	PremiumTemplate  = []SeatType{Window, Aisle, Aisle, Window}
)

// Template returns the row template of the class.  The returned slice is
// shared and must not be modified.
func (c Class) Template() []SeatType {
	if c == Premium {
		return PremiumTemplate
	}
	return StandardTemplate
}

// Slot addresses one seat of the cabin.
type Slot struct {
	Row    int
	Column int
	Type   SeatType
}

// Label renders the slot the way passengers read it, e.g. "10C".
func (s Slot) Label() string {
	return fmt.Sprintf("%d%s", s.Row, ColumnLetter(s.Column))
}

// ColumnLetter converts a zero-based column to its seat letter.
func ColumnLetter(col int) string {
	if col < 0 || col > 25 {
		return "?"
	}
	return string(rune('A' + col))
}

// ParseColumnLetter is the inverse of ColumnLetter.
func ParseColumnLetter(s string) (int, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 1 || s[0] < 'A' || s[0] > 'Z' {
		return -1, false
	}
	return int(s[0] - 'A'), true
}

// ParseLabel splits a seat label such as "10C" into its row number and
// zero-based column.  It does not check the row exists.
func ParseLabel(label string) (row, col int, err error) {
	label = strings.TrimSpace(label)
	if len(label) < 2 {
		return 0, 0, fmt.Errorf("seat %q: %w", label, ErrInvalidColumn)
	}
	col, ok := ParseColumnLetter(label[len(label)-1:])
	if !ok {
		return 0, 0, fmt.Errorf("seat %q: %w", label, ErrInvalidColumn)
	}
	row, err = strconv.Atoi(label[:len(label)-1])
	if err != nil {
		return 0, 0, fmt.Errorf("seat %q: %w", label, ErrInvalidRow)
	}
	return row, col, nil
}
