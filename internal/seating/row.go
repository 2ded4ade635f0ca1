package seating

import "fmt"

// Row owns the occupancy of one physical row.  Vacancy counters are
// maintained on every mutation and every error is detected before the
// row is touched, so the counters always match a recount of the slots.
type Row struct {
	number    int
	class     Class
	template  []SeatType
	occupants []*Passenger
	vacantBy  map[SeatType]int
	vacant    int
}

// NewRow returns an empty row of the given class.
func NewRow(number int, class Class) *Row {
	tmpl := class.Template()
	r := &Row{
		number:    number,
		class:     class,
		template:  tmpl,
		occupants: make([]*Passenger, len(tmpl)),
		vacantBy:  make(map[SeatType]int, 3),
		vacant:    len(tmpl),
	}
	for _, t := range tmpl {
		r.vacantBy[t]++
	}
	return r
}

// Number returns the row number printed on the cabin.
func (r *Row) Number() int { return r.number }

// Class returns the service class of the row.
func (r *Row) Class() Class { return r.class }

// Len returns the number of columns.
func (r *Row) Len() int { return len(r.template) }

// Vacant returns the number of empty columns.
func (r *Row) Vacant() int { return r.vacant }

// VacantOf returns the number of empty columns of type t.
func (r *Row) VacantOf(t SeatType) int { return r.vacantBy[t] }

// TypeAt returns the template type of column col.
func (r *Row) TypeAt(col int) SeatType { return r.template[col] }

// OccupantAt returns the passenger in column col, or nil.
func (r *Row) OccupantAt(col int) *Passenger {
	if col < 0 || col >= len(r.occupants) {
		return nil
	}
	return r.occupants[col]
}

// IsAvailable reports whether a seat of type t is free.
func (r *Row) IsAvailable(t SeatType) bool { return r.vacantBy[t] > 0 }

// AssignSingle seats p in the first empty column matching its preference,
// scanning in template order.
func (r *Row) AssignSingle(p *Passenger) (Slot, error) {
	if p.Slot != nil {
		return Slot{}, ErrAlreadySeated
	}
	if !r.IsAvailable(p.Preference) {
		return Slot{}, ErrNoMatchingSeat
	}
	for col, t := range r.template {
		if t == p.Preference && r.occupants[col] == nil {
			r.occupy(p, col)
			return *p.Slot, nil
		}
	}
	// counters claimed a vacancy the slots do not have
	return Slot{}, fmt.Errorf("row %d: %w", r.number, ErrNoMatchingSeat)
}

// MaxContiguousFree returns the length of the longest run of empty
// columns, 0 when the row is full.
func (r *Row) MaxContiguousFree() int {
	if r.vacant == 0 {
		return 0
	}
	best, run := 0, 0
	for _, p := range r.occupants {
		if p != nil {
			run = 0
			continue
		}
		run++
		if run > best {
			best = run
		}
	}
	return best
}

// ReserveBlock seats the passengers side by side, in order, at the first
// run of empty columns long enough to hold all of them.  Nothing is
// occupied when no such run exists.
func (r *Row) ReserveBlock(ps []*Passenger) error {
	if len(ps) == 0 {
		return nil
	}
	for _, p := range ps {
		if p.Slot != nil {
			return ErrAlreadySeated
		}
	}
	if len(ps) > r.MaxContiguousFree() {
		return ErrInsufficientRun
	}
	start, run := 0, 0
	for col, p := range r.occupants {
		if p != nil {
			run = 0
			continue
		}
		if run == 0 {
			start = col
		}
		run++
		if run == len(ps) {
			break
		}
	}
	if run < len(ps) {
		return ErrInsufficientRun
	}
	for i, p := range ps {
		r.occupy(p, start+i)
	}
	return nil
}

// Occupy seats p at col directly, without any search.  It is the
// restore path for persisted reservations.
func (r *Row) Occupy(p *Passenger, col int) error {
	if col < 0 || col >= len(r.occupants) {
		return fmt.Errorf("row %d column %d: %w", r.number, col, ErrInvalidColumn)
	}
	if r.occupants[col] != nil {
		return fmt.Errorf("row %d column %d: %w", r.number, col, ErrSeatTaken)
	}
	if p.Slot != nil {
		return ErrAlreadySeated
	}
	r.occupy(p, col)
	return nil
}

// Release empties col and returns the passenger that held it.  The
// passenger's slot is cleared.
func (r *Row) Release(col int) (*Passenger, error) {
	if col < 0 || col >= len(r.occupants) {
		return nil, fmt.Errorf("row %d column %d: %w", r.number, col, ErrInvalidColumn)
	}
	p := r.occupants[col]
	if p == nil {
		return nil, ErrSeatNotOccupied
	}
	r.occupants[col] = nil
	r.vacantBy[r.template[col]]++
	r.vacant++
	p.Slot = nil
	return p, nil
}

// EmptyColumns lists the empty columns in ascending order.  It returns
// nil when the row has no vacancy.
func (r *Row) EmptyColumns() []int {
	if r.vacant == 0 {
		return nil
	}
	cols := make([]int, 0, r.vacant)
	for col, p := range r.occupants {
		if p == nil {
			cols = append(cols, col)
		}
	}
	return cols
}

// Occupants returns the seated passengers ordered by column.
func (r *Row) Occupants() []*Passenger {
	out := make([]*Passenger, 0, len(r.occupants)-r.vacant)
	for _, p := range r.occupants {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (r *Row) occupy(p *Passenger, col int) {
	r.occupants[col] = p
	r.vacantBy[r.template[col]]--
	r.vacant--
	p.Slot = &Slot{Row: r.number, Column: col, Type: r.template[col]}
}

// audit recounts the slots and compares them with the counters.
func (r *Row) audit() error {
	vacant := 0
	byType := make(map[SeatType]int, 3)
	for col, p := range r.occupants {
		if p == nil {
			vacant++
			byType[r.template[col]]++
			continue
		}
		if p.Slot == nil || p.Slot.Row != r.number || p.Slot.Column != col {
			return fmt.Errorf("row %d column %d: occupant %q has slot %v", r.number, col, p.Name, p.Slot)
		}
	}
	if vacant != r.vacant {
		return fmt.Errorf("row %d: vacant counter %d, recount %d", r.number, r.vacant, vacant)
	}
	for _, t := range []SeatType{Window, Center, Aisle} {
		if byType[t] != r.vacantBy[t] {
			return fmt.Errorf("row %d: vacant %s counter %d, recount %d", r.number, t, r.vacantBy[t], byType[t])
		}
	}
	return nil
}
