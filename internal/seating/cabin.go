package seating

import (
	"errors"
	"fmt"
)

// Cabin geometry.  Premium rows are numbered from 1 and standard rows
// from 10; the numbering gap is not stored.
const (
	PremiumFirstRow  = 1
	PremiumRowCount  = 2
	StandardFirstRow = 10
	StandardRowCount = 20
)

// section maps one class's row numbers onto a dense slice of rows.  Every
// row number lookup goes through it.
type section struct {
	class    Class
	firstRow int
	rows     []*Row
}

func (s *section) contains(number int) bool {
	return number >= s.firstRow && number < s.firstRow+len(s.rows)
}

func (s *section) row(number int) *Row { return s.rows[number-s.firstRow] }

// RowVacancy lists the empty columns of one row.
type RowVacancy struct {
	Row     int
	Columns []int
}

// Cabin owns every row of the aircraft, routes requests to the rows of
// the requested class and keeps per-class vacancy aggregates.
type Cabin struct {
	sections [2]*section // indexed by Class
	vacant   [2]int      // indexed by Class
}

// NewCabin returns an empty cabin with the fixed two-class layout.
func NewCabin() *Cabin {
	c := &Cabin{}
	c.sections[Premium] = newSection(Premium, PremiumFirstRow, PremiumRowCount)
	c.sections[Standard] = newSection(Standard, StandardFirstRow, StandardRowCount)
	c.vacant[Premium] = PremiumRowCount * len(PremiumTemplate)
	c.vacant[Standard] = StandardRowCount * len(StandardTemplate)
	return c
}

func newSection(class Class, first, count int) *section {
	s := &section{class: class, firstRow: first, rows: make([]*Row, count)}
	for i := range s.rows {
		s.rows[i] = NewRow(first+i, class)
	}
	return s
}

func (c *Cabin) section(class Class) *section {
	if class == Premium {
		return c.sections[Premium]
	}
	return c.sections[Standard]
}

// Rows returns the rows of a class in ascending row number.
func (c *Cabin) Rows(class Class) []*Row { return c.section(class).rows }

// VacantSeats returns the maintained vacancy aggregate of the class.
func (c *Cabin) VacantSeats(class Class) int { return c.vacant[c.section(class).class] }

// IsFull reports whether no seat is left in either class.
func (c *Cabin) IsFull() bool { return c.vacant[Premium]+c.vacant[Standard] == 0 }

// RowByNumber maps a printed row number to its row.
func (c *Cabin) RowByNumber(number int) (*Row, error) {
	for _, s := range c.sections {
		if s.contains(number) {
			return s.row(number), nil
		}
	}
	return nil, fmt.Errorf("row %d: %w", number, ErrInvalidRow)
}

// SeatAt returns the slot at row and col and its occupant, or nil when
// the seat is free.
func (c *Cabin) SeatAt(row, col int) (Slot, *Passenger, error) {
	r, err := c.RowByNumber(row)
	if err != nil {
		return Slot{}, nil, err
	}
	if col < 0 || col >= r.Len() {
		return Slot{}, nil, fmt.Errorf("row %d column %d: %w", row, col, ErrInvalidColumn)
	}
	return Slot{Row: row, Column: col, Type: r.TypeAt(col)}, r.OccupantAt(col), nil
}

// FindRowFor returns the lowest-numbered row of the class with a free
// seat of type t, or nil.
func (c *Cabin) FindRowFor(class Class, t SeatType) *Row {
	for _, r := range c.section(class).rows {
		if r.IsAvailable(t) {
			return r
		}
	}
	return nil
}

// ReserveIndividual seats p in the first row of its class offering its
// preferred seat type.
func (c *Cabin) ReserveIndividual(p *Passenger) (Slot, error) {
	if p.Slot != nil {
		return Slot{}, ErrAlreadySeated
	}
	if c.IsFull() {
		return Slot{}, ErrCabinFull
	}
	r := c.FindRowFor(p.Class, p.Preference)
	if r == nil {
		return Slot{}, ErrNoMatchingSeat
	}
	slot, err := r.AssignSingle(p)
	if err != nil {
		return Slot{}, err
	}
	c.vacant[r.class]--
	return slot, nil
}

// CancelIndividual releases the slot held by p.
func (c *Cabin) CancelIndividual(p *Passenger) error {
	if p == nil || p.Slot == nil {
		return ErrNotSeated
	}
	r, err := c.RowByNumber(p.Slot.Row)
	if err != nil {
		return err
	}
	if r.OccupantAt(p.Slot.Column) != p {
		return ErrNotSeated
	}
	if _, err := r.Release(p.Slot.Column); err != nil {
		return err
	}
	c.vacant[r.class]++
	return nil
}

type placement struct {
	row   *Row
	block []*Passenger
}

// ReserveGroup seats every member of g or none of them.
//
// Members are placed in order, block by block.  Each round picks the
// first row whose longest empty run can take all remaining members; if
// none can, the first row with the longest run takes as many as fit.
// Every round seats at least one member, so the loop is bounded by the
// number of seats in the class.  On failure every committed block is
// released before returning.
func (c *Cabin) ReserveGroup(g *Group) error {
	if g.Size() == 0 {
		return ErrEmptyGroup
	}
	for _, p := range g.Members {
		if p.Slot != nil {
			return ErrAlreadySeated
		}
	}
	if c.IsFull() {
		return ErrCabinFull
	}
	s := c.section(g.Class)
	capacity := make([]int, len(s.rows))
	maxRounds := 0
	for i, r := range s.rows {
		capacity[i] = r.MaxContiguousFree()
		maxRounds += r.Len()
	}

	remaining := g.Members
	var assigned []placement
	for round := 0; len(remaining) > 0; round++ {
		if round >= maxRounds {
			c.rollback(assigned)
			return ErrInsufficientCapacity
		}
		k := pickRow(capacity, len(remaining))
		if capacity[k] == 0 {
			c.rollback(assigned)
			return ErrInsufficientCapacity
		}
		n := min(capacity[k], len(remaining))
		block := remaining[:n]
		if err := s.rows[k].ReserveBlock(block); err != nil {
			c.rollback(assigned)
			return ErrInsufficientCapacity
		}
		assigned = append(assigned, placement{row: s.rows[k], block: block})
		remaining = remaining[n:]
		capacity[k] = s.rows[k].MaxContiguousFree()
	}
	c.vacant[s.class] -= g.Size()
	return nil
}

// pickRow returns the first index whose capacity covers need, otherwise
// the first index holding the largest capacity.
func pickRow(capacity []int, need int) int {
	best := 0
	for i, n := range capacity {
		if n >= need {
			return i
		}
		if n > capacity[best] {
			best = i
		}
	}
	return best
}

func (c *Cabin) rollback(assigned []placement) {
	for i := len(assigned) - 1; i >= 0; i-- {
		pl := assigned[i]
		for _, p := range pl.block {
			if p.Slot != nil {
				_, _ = pl.row.Release(p.Slot.Column)
			}
		}
	}
}

// CancelGroup releases every member of g that can be released.  Members
// without a seat are reported in a *PartialCancellationError.
func (c *Cabin) CancelGroup(g *Group) error {
	var failed []string
	for _, p := range g.Members {
		if err := c.CancelIndividual(p); err != nil {
			failed = append(failed, p.Name)
		}
	}
	if len(failed) > 0 {
		return &PartialCancellationError{Group: g.Name, Failed: failed}
	}
	return nil
}

// Seat places p at (row, col) without searching.  It is the bypass used
// to rebuild a cabin from persisted reservations.
func (c *Cabin) Seat(p *Passenger, row, col int) error {
	r, err := c.RowByNumber(row)
	if err != nil {
		return err
	}
	if r.class != p.Class {
		return fmt.Errorf("row %d is not %s: %w", row, p.Class, ErrInvalidRow)
	}
	if err := r.Occupy(p, col); err != nil {
		return err
	}
	c.vacant[r.class]--
	return nil
}

// AllVacantSlots lists, in ascending row order, the empty columns of each
// row of the class.  Rows without vacancy are omitted.
func (c *Cabin) AllVacantSlots(class Class) []RowVacancy {
	var out []RowVacancy
	for _, r := range c.section(class).rows {
		cols := r.EmptyColumns()
		if cols == nil {
			continue
		}
		out = append(out, RowVacancy{Row: r.number, Columns: cols})
	}
	return out
}

// AllOccupants returns the seated passengers of the class in row order.
func (c *Cabin) AllOccupants(class Class) []*Passenger {
	var out []*Passenger
	for _, r := range c.section(class).rows {
		out = append(out, r.Occupants()...)
	}
	return out
}

// Audit recounts every row and checks the class aggregates against the
// sum of row vacancies.
func (c *Cabin) Audit() error {
	var errs []error
	for _, s := range c.sections {
		sum := 0
		for _, r := range s.rows {
			if err := r.audit(); err != nil {
				errs = append(errs, err)
			}
			sum += r.vacant
		}
		if sum != c.vacant[s.class] {
			errs = append(errs, fmt.Errorf("%s: vacant aggregate %d, rows sum %d", s.class, c.vacant[s.class], sum))
		}
	}
	return errors.Join(errs...)
}
