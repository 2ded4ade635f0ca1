package seating

// Passenger is a reservation holder.  The caller builds it; the engine
// only sets or clears Slot.
type Passenger struct {
	Name       string
	Class      Class
	Preference SeatType // individual reservations only
	Group      string   // group name, empty for individuals
	Slot       *Slot    // nil until seated
}

// NewPassenger builds an individual passenger record.
func NewPassenger(name string, class Class, pref SeatType) *Passenger {
	return &Passenger{Name: name, Class: class, Preference: pref}
}

// IsGrouped reports whether the passenger belongs to a group.
func (p *Passenger) IsGrouped() bool { return p.Group != "" }

// Seated reports whether the passenger currently holds a slot.
func (p *Passenger) Seated() bool { return p.Slot != nil }

// Group is a named, ordered set of passengers sharing a class.  It is
// either fully seated or not seated at all.
type Group struct {
	Name    string
	Class   Class
	Members []*Passenger
}

// NewGroup creates the member records for the given names, in order.
func NewGroup(name string, class Class, names []string) *Group {
	g := &Group{Name: name, Class: class, Members: make([]*Passenger, 0, len(names))}
	for _, n := range names {
		g.Members = append(g.Members, &Passenger{Name: n, Class: class, Group: name})
	}
	return g
}

// Size returns the number of members.
func (g *Group) Size() int { return len(g.Members) }
