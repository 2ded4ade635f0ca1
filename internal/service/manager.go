// Package service wraps the seating engine with everything a front end
// needs: name and group indices, text reports, persistence round trips
// and event publishing.  Both the console and the HTTP server drive the
// cabin through a Manager.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iliyamo/cabin-seat-reservation/internal/model"
	q "github.com/iliyamo/cabin-seat-reservation/internal/queue"
	"github.com/iliyamo/cabin-seat-reservation/internal/seating"
)

// ErrNameTaken is returned when an individual or group name is already
// holding a reservation.
var ErrNameTaken = errors.New("name already reserved")

// ErrInvalidName is returned for empty names and names containing a
// comma or line break, which the save format cannot hold.
var ErrInvalidName = errors.New("invalid name")

// ErrInvalidPreference is returned when an individual reservation names
// no seat type.
var ErrInvalidPreference = errors.New("seat preference required")

// Store loads and saves the ordered list of seat assignments.
type Store interface {
	Load(ctx context.Context) ([]model.SeatAssignment, error)
	Save(ctx context.Context, records []model.SeatAssignment) error
}

// Manager serializes access to one cabin.  The engine assumes a single
// caller; the mutex provides that for concurrent front ends.
type Manager struct {
	mu          sync.Mutex
	cabin       *seating.Cabin
	individuals map[string]*seating.Passenger
	groups      map[string]*seating.Group

	version atomic.Uint64
	events  *outbox
	now     func() time.Time
	audit   func(*seating.Cabin) error
}

// NewManager returns a Manager over an empty cabin.  publisher may be nil.
// Events are queued while the cabin lock is held, so they reach the
// publisher in the order the changes were made.
func NewManager(publisher Publisher) *Manager {
	m := &Manager{
		cabin:       seating.NewCabin(),
		individuals: make(map[string]*seating.Passenger),
		groups:      make(map[string]*seating.Group),
		now:         time.Now,
		audit:       (*seating.Cabin).Audit,
	}
	if publisher != nil {
		m.events = newOutbox(publisher)
	}
	return m
}

// Close flushes queued events to the publisher.  Changes made after Close
// are not published.
func (m *Manager) Close(ctx context.Context) error {
	if m.events == nil {
		return nil
	}
	return m.events.close(ctx)
}

// Version increases after every change to the cabin.  Caches key on it.
func (m *Manager) Version() uint64 { return m.version.Load() }

// VacantSeats returns the number of free seats in class.
func (m *Manager) VacantSeats(class seating.Class) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cabin.VacantSeats(class)
}

// IsFull reports whether every seat in both classes is taken.
func (m *Manager) IsFull() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cabin.IsFull()
}

// HasCapacity reports whether class has at least n free seats.
func (m *Manager) HasCapacity(class seating.Class, n int) bool {
	return m.VacantSeats(class) >= n
}

// IsNameTaken reports whether name already holds an individual (or, when
// group is true, a group) reservation.
func (m *Manager) IsNameTaken(group bool, name string) bool {
	name = strings.TrimSpace(name)
	m.mu.Lock()
	defer m.mu.Unlock()
	if group {
		_, ok := m.groups[name]
		return ok
	}
	_, ok := m.individuals[name]
	return ok
}

// Audit checks the engine counters against a recount.
func (m *Manager) Audit() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.audit(m.cabin)
}

func validName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, ",\r\n") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return name, nil
}

// ReserveIndividual seats one passenger of class in the first row
// offering pref.  It returns a copy of the seated record.
func (m *Manager) ReserveIndividual(ctx context.Context, name string, class seating.Class, pref seating.SeatType) (seating.Passenger, error) {
	name, err := validName(name)
	if err != nil {
		return seating.Passenger{}, err
	}
	if pref == seating.NoPreference {
		return seating.Passenger{}, ErrInvalidPreference
	}
	m.mu.Lock()
	if _, ok := m.individuals[name]; ok {
		m.mu.Unlock()
		return seating.Passenger{}, fmt.Errorf("%w: %s", ErrNameTaken, name)
	}
	p := seating.NewPassenger(name, class, pref)
	if _, err := m.cabin.ReserveIndividual(p); err != nil {
		m.mu.Unlock()
		return seating.Passenger{}, err
	}
	m.individuals[name] = p
	m.version.Add(1)
	out := clonePassenger(p)
	m.publish(ctx, q.KindSeatReserved, name, false, class, []seating.Passenger{out})
	m.mu.Unlock()
	return out, nil
}

// ReserveGroup seats every named member of a new group side by side as
// far as the rows allow, or nobody.
func (m *Manager) ReserveGroup(ctx context.Context, groupName string, class seating.Class, names []string) ([]seating.Passenger, error) {
	groupName, err := validName(groupName)
	if err != nil {
		return nil, err
	}
	members := make([]string, 0, len(names))
	for _, n := range names {
		n, err := validName(n)
		if err != nil {
			return nil, err
		}
		members = append(members, n)
	}
	if len(members) == 0 {
		return nil, seating.ErrEmptyGroup
	}

	m.mu.Lock()
	if _, ok := m.groups[groupName]; ok {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrNameTaken, groupName)
	}
	g := seating.NewGroup(groupName, class, members)
	if err := m.cabin.ReserveGroup(g); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	m.groups[groupName] = g
	m.version.Add(1)
	out := cloneAll(g.Members)
	m.publish(ctx, q.KindSeatReserved, groupName, true, class, out)
	m.mu.Unlock()
	return out, nil
}

// CancelIndividual releases the seat held by name and returns the seat
// that was freed.
func (m *Manager) CancelIndividual(ctx context.Context, name string) (seating.Slot, error) {
	name = strings.TrimSpace(name)
	m.mu.Lock()
	p, ok := m.individuals[name]
	if !ok {
		m.mu.Unlock()
		return seating.Slot{}, fmt.Errorf("%s: %w", name, seating.ErrNotSeated)
	}
	before := clonePassenger(p)
	if err := m.cabin.CancelIndividual(p); err != nil {
		m.mu.Unlock()
		return seating.Slot{}, err
	}
	delete(m.individuals, name)
	m.version.Add(1)
	m.publish(ctx, q.KindSeatCancelled, name, false, before.Class, []seating.Passenger{before})
	m.mu.Unlock()
	return *before.Slot, nil
}

// CancelGroup releases every member of the group.  The group is dropped
// from the index even when some members could not be released; the
// returned records carry the seats that were freed.
func (m *Manager) CancelGroup(ctx context.Context, groupName string) ([]seating.Passenger, error) {
	groupName = strings.TrimSpace(groupName)
	m.mu.Lock()
	g, ok := m.groups[groupName]
	if !ok {
		m.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", groupName, seating.ErrNotSeated)
	}
	before := cloneAll(g.Members)
	cancelErr := m.cabin.CancelGroup(g)
	delete(m.groups, groupName)
	m.version.Add(1)

	released := make([]seating.Passenger, 0, len(before))
	for _, p := range before {
		if p.Slot != nil {
			released = append(released, p)
		}
	}
	if len(released) > 0 {
		m.publish(ctx, q.KindSeatCancelled, groupName, true, g.Class, released)
	}
	m.mu.Unlock()
	return released, cancelErr
}

// Availability lists the free columns of every row of class that has any.
func (m *Manager) Availability(class seating.Class) []seating.RowVacancy {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cabin.AllVacantSlots(class)
}

// Manifest returns copies of the seated passengers of class in seat order.
func (m *Manager) Manifest(class seating.Class) []seating.Passenger {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneAll(m.cabin.AllOccupants(class))
}

// SeatAt looks up a seat by its label, e.g. "10C".  The passenger is nil
// when the seat is free.
func (m *Manager) SeatAt(label string) (seating.Slot, *seating.Passenger, error) {
	row, col, err := seating.ParseLabel(label)
	if err != nil {
		return seating.Slot{}, nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, p, err := m.cabin.SeatAt(row, col)
	if err != nil || p == nil {
		return slot, nil, err
	}
	cp := clonePassenger(p)
	return slot, &cp, nil
}

// reservationCount returns the number of individual plus group bookings.
func (m *Manager) reservationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.individuals) + len(m.groups)
}

// publish queues an event describing a change.  Callers hold m.mu.
func (m *Manager) publish(ctx context.Context, kind, name string, group bool, class seating.Class, ps []seating.Passenger) {
	if m.events == nil {
		return
	}
	ev := q.ReservationEvent{
		Kind:       kind,
		Name:       name,
		Group:      group,
		Class:      class.String(),
		OccurredAt: m.now().UTC().Format(time.RFC3339),
	}
	for _, p := range ps {
		ev.Passengers = append(ev.Passengers, p.Name)
		if p.Slot != nil {
			ev.Seats = append(ev.Seats, p.Slot.Label())
		}
	}
	m.events.enqueue(ctx, ev)
}

func clonePassenger(p *seating.Passenger) seating.Passenger {
	out := *p
	if p.Slot != nil {
		s := *p.Slot
		out.Slot = &s
	}
	return out
}

func cloneAll(ps []*seating.Passenger) []seating.Passenger {
	out := make([]seating.Passenger, 0, len(ps))
	for _, p := range ps {
		out = append(out, clonePassenger(p))
	}
	return out
}
