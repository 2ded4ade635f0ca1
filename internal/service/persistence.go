package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/iliyamo/cabin-seat-reservation/internal/model"
	"github.com/iliyamo/cabin-seat-reservation/internal/seating"
)

// ErrClassMismatch is returned by Restore when members of one saved group
// sit in different classes.
var ErrClassMismatch = errors.New("group members span classes")

// Snapshot returns one record per seated passenger, premium rows first,
// each section in row and column order.
func (m *Manager) Snapshot() []model.SeatAssignment {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.SeatAssignment
	for _, class := range []seating.Class{seating.Premium, seating.Standard} {
		for _, p := range m.cabin.AllOccupants(class) {
			rec := model.SeatAssignment{
				Seq:     len(out),
				Name:    p.Name,
				Economy: class.IsEconomy(),
				Row:     p.Slot.Row,
				Column:  p.Slot.Column,
				Grouped: p.IsGrouped(),
			}
			if rec.Grouped {
				rec.GroupName = p.Group
			} else {
				rec.Preference = p.Preference.String()
			}
			out = append(out, rec)
		}
	}
	return out
}

// Restore replaces the cabin with the saved records, placing each
// passenger at its recorded seat without searching.  The rebuilt cabin
// must pass Audit.  Nothing changes when any record is rejected.
func (m *Manager) Restore(records []model.SeatAssignment) error {
	cabin := seating.NewCabin()
	individuals := make(map[string]*seating.Passenger)
	groups := make(map[string]*seating.Group)

	for i, rec := range records {
		class := seating.ClassFromEconomy(rec.Economy)
		p := &seating.Passenger{Name: rec.Name, Class: class}
		if rec.Grouped {
			g, ok := groups[rec.GroupName]
			if !ok {
				g = &seating.Group{Name: rec.GroupName, Class: class}
				groups[rec.GroupName] = g
			} else if g.Class != class {
				return fmt.Errorf("record %d (%s): %w", i, rec.Name, ErrClassMismatch)
			}
			p.Group = rec.GroupName
			g.Members = append(g.Members, p)
		} else {
			pref, err := seating.ParseSeatType(rec.Preference)
			if err != nil {
				return fmt.Errorf("record %d (%s): %w", i, rec.Name, err)
			}
			if _, dup := individuals[rec.Name]; dup {
				return fmt.Errorf("record %d: %w: %s", i, ErrNameTaken, rec.Name)
			}
			p.Preference = pref
			individuals[rec.Name] = p
		}
		if err := cabin.Seat(p, rec.Row, rec.Column); err != nil {
			return fmt.Errorf("record %d (%s): %w", i, rec.Name, err)
		}
	}

	if err := m.audit(cabin); err != nil {
		return fmt.Errorf("restored cabin fails audit: %w", err)
	}

	m.mu.Lock()
	m.cabin = cabin
	m.individuals = individuals
	m.groups = groups
	m.mu.Unlock()
	m.version.Add(1)
	return nil
}

// Load restores the cabin from store.
func (m *Manager) Load(ctx context.Context, store Store) error {
	records, err := store.Load(ctx)
	if err != nil {
		return err
	}
	if err := m.Restore(records); err != nil {
		return err
	}
	log.Printf("reservations: restored %d seat assignments", len(records))
	return nil
}

// Save writes the current snapshot to store.
func (m *Manager) Save(ctx context.Context, store Store) error {
	records := m.Snapshot()
	if err := store.Save(ctx, records); err != nil {
		return err
	}
	log.Printf("reservations: saved %d seat assignments", len(records))
	return nil
}
