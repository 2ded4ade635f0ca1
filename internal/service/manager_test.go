package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cabin-seat-reservation/internal/model"
	q "github.com/iliyamo/cabin-seat-reservation/internal/queue"
	"github.com/iliyamo/cabin-seat-reservation/internal/seating"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []q.ReservationEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev q.ReservationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) last() q.ReservationEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[len(p.events)-1]
}

// flush waits for every queued event to reach the publisher.
func flush(t *testing.T, m *Manager) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, m.Close(ctx))
}

type memStore struct {
	records []model.SeatAssignment
	err     error
}

func (s *memStore) Load(context.Context) ([]model.SeatAssignment, error) { return s.records, s.err }

func (s *memStore) Save(_ context.Context, recs []model.SeatAssignment) error {
	if s.err != nil {
		return s.err
	}
	s.records = recs
	return nil
}

func TestReserveIndividualValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewManager(nil)

	_, err := m.ReserveIndividual(ctx, "  ", seating.Standard, seating.Window)
	assert.ErrorIs(t, err, ErrInvalidName)
	_, err = m.ReserveIndividual(ctx, "Smith, J", seating.Standard, seating.Window)
	assert.ErrorIs(t, err, ErrInvalidName)
	_, err = m.ReserveIndividual(ctx, "Ada", seating.Standard, seating.NoPreference)
	assert.ErrorIs(t, err, ErrInvalidPreference)

	_, err = m.ReserveIndividual(ctx, "Ada", seating.Standard, seating.Window)
	require.NoError(t, err)
	_, err = m.ReserveIndividual(ctx, " Ada ", seating.Premium, seating.Aisle)
	assert.ErrorIs(t, err, ErrNameTaken)

	assert.Equal(t, 119, m.VacantSeats(seating.Standard))
	assert.Equal(t, 8, m.VacantSeats(seating.Premium))
}

func TestReserveIndividualPublishesAndBumpsVersion(t *testing.T) {
	t.Parallel()
	pub := &recordingPublisher{}
	m := NewManager(pub)
	v0 := m.Version()

	p, err := m.ReserveIndividual(context.Background(), "Ada", seating.Standard, seating.Center)
	require.NoError(t, err)
	require.NotNil(t, p.Slot)
	assert.Equal(t, seating.Slot{Row: 10, Column: 1, Type: seating.Center}, *p.Slot)
	assert.Greater(t, m.Version(), v0)
	assert.True(t, m.IsNameTaken(false, "Ada"))
	assert.False(t, m.IsNameTaken(true, "Ada"))

	flush(t, m)
	ev := pub.last()
	assert.Equal(t, q.KindSeatReserved, ev.Kind)
	assert.Equal(t, "Ada", ev.Name)
	assert.False(t, ev.Group)
	assert.Equal(t, "Economy Class", ev.Class)
	assert.Equal(t, []string{"10B"}, ev.Seats)
}

func TestReservationSurvivesPublishFailure(t *testing.T) {
	t.Parallel()
	m := NewManager(&recordingPublisher{err: errors.New("broker down")})

	_, err := m.ReserveIndividual(context.Background(), "Ada", seating.Premium, seating.Window)
	require.NoError(t, err)
	assert.Equal(t, 7, m.VacantSeats(seating.Premium))
}

func TestReturnedPassengerIsACopy(t *testing.T) {
	t.Parallel()
	m := NewManager(nil)

	p, err := m.ReserveIndividual(context.Background(), "Ada", seating.Premium, seating.Window)
	require.NoError(t, err)
	p.Slot.Row = 2
	p.Name = "Mallory"

	got := m.Manifest(seating.Premium)
	require.Len(t, got, 1)
	assert.Equal(t, "Ada", got[0].Name)
	assert.Equal(t, 1, got[0].Slot.Row)
}

func TestReserveGroup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	pub := &recordingPublisher{}
	m := NewManager(pub)

	members, err := m.ReserveGroup(ctx, "crew", seating.Standard, []string{" Ann ", "Bob", "Cy"})
	require.NoError(t, err)
	require.Len(t, members, 3)
	for i, p := range members {
		assert.Equal(t, "crew", p.Group)
		assert.Equal(t, seating.Slot{Row: 10, Column: i, Type: seating.StandardTemplate[i]}, *p.Slot)
	}
	assert.Equal(t, "Ann", members[0].Name)

	flush(t, m)
	ev := pub.last()
	assert.True(t, ev.Group)
	assert.Equal(t, []string{"Ann", "Bob", "Cy"}, ev.Passengers)
	assert.Equal(t, []string{"10A", "10B", "10C"}, ev.Seats)

	_, err = m.ReserveGroup(ctx, "crew", seating.Premium, []string{"Dee"})
	assert.ErrorIs(t, err, ErrNameTaken)
	_, err = m.ReserveGroup(ctx, "band", seating.Standard, []string{"Dee", ""})
	assert.ErrorIs(t, err, ErrInvalidName)
	_, err = m.ReserveGroup(ctx, "band", seating.Standard, nil)
	assert.ErrorIs(t, err, seating.ErrEmptyGroup)
	assert.False(t, m.IsNameTaken(true, "band"))
}

func TestReserveGroupTooLargeLeavesNoTrace(t *testing.T) {
	t.Parallel()
	m := NewManager(nil)
	v0 := m.Version()

	names := make([]string, 9)
	for i := range names {
		names[i] = fmt.Sprintf("p%d", i)
	}
	_, err := m.ReserveGroup(context.Background(), "big", seating.Premium, names)
	require.Error(t, err)
	assert.Equal(t, 8, m.VacantSeats(seating.Premium))
	assert.Equal(t, v0, m.Version())
	assert.False(t, m.IsNameTaken(true, "big"))
	assert.NoError(t, m.Audit())
}

func TestCancelIndividual(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	pub := &recordingPublisher{}
	m := NewManager(pub)

	_, err := m.CancelIndividual(ctx, "ghost")
	assert.ErrorIs(t, err, seating.ErrNotSeated)

	_, err = m.ReserveIndividual(ctx, "Ada", seating.Premium, seating.Aisle)
	require.NoError(t, err)
	slot, err := m.CancelIndividual(ctx, "Ada")
	require.NoError(t, err)
	assert.Equal(t, "1B", slot.Label())
	assert.Equal(t, 8, m.VacantSeats(seating.Premium))
	assert.False(t, m.IsNameTaken(false, "Ada"))

	flush(t, m)
	ev := pub.last()
	assert.Equal(t, q.KindSeatCancelled, ev.Kind)
	assert.Equal(t, []string{"1B"}, ev.Seats)

	// the name can be booked again
	_, err = m.ReserveIndividual(ctx, "Ada", seating.Premium, seating.Aisle)
	assert.NoError(t, err)
}

func TestCancelGroup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewManager(nil)

	_, err := m.CancelGroup(ctx, "crew")
	assert.ErrorIs(t, err, seating.ErrNotSeated)

	_, err = m.ReserveGroup(ctx, "crew", seating.Standard, []string{"Ann", "Bob"})
	require.NoError(t, err)
	released, err := m.CancelGroup(ctx, "crew")
	require.NoError(t, err)
	require.Len(t, released, 2)
	assert.Equal(t, "10A", released[0].Slot.Label())
	assert.Equal(t, "10B", released[1].Slot.Label())
	assert.Equal(t, 120, m.VacantSeats(seating.Standard))
	assert.False(t, m.IsNameTaken(true, "crew"))
	assert.NoError(t, m.Audit())
}

func TestHasCapacityAndIsFull(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewManager(nil)

	assert.True(t, m.HasCapacity(seating.Premium, 8))
	assert.False(t, m.HasCapacity(seating.Premium, 9))
	assert.False(t, m.IsFull())

	_, err := m.ReserveGroup(ctx, "front", seating.Premium, []string{"a", "b", "c", "d", "e", "f", "g", "h"})
	require.NoError(t, err)
	assert.False(t, m.HasCapacity(seating.Premium, 1))
	assert.False(t, m.IsFull())
}

func TestAvailabilityChart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewManager(nil)

	_, err := m.ReserveGroup(ctx, "front", seating.Premium, []string{"a", "b", "c", "d"})
	require.NoError(t, err)
	_, err = m.ReserveIndividual(ctx, "Ada", seating.Premium, seating.Window)
	require.NoError(t, err)

	assert.Equal(t, "First Class:\n2:\tB\tC\tD\t\n\n", m.AvailabilityChart(seating.Premium))
}

func TestManifestList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewManager(nil)

	assert.Equal(t, EmptyManifest, m.ManifestList(seating.Premium))
	assert.Equal(t, EmptyManifest, m.ManifestList(seating.Standard))

	_, err := m.ReserveIndividual(ctx, "Ada", seating.Premium, seating.Window)
	require.NoError(t, err)
	_, err = m.ReserveIndividual(ctx, "Bo", seating.Premium, seating.Window)
	require.NoError(t, err)

	assert.Equal(t, "First Class:\n1A: Ada  \n1D: Bo  \n\n", m.ManifestList(seating.Premium))
	assert.Equal(t, "Economy Class:\n\n", m.ManifestList(seating.Standard))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	src := NewManager(nil)

	_, err := src.ReserveIndividual(ctx, "Ada", seating.Standard, seating.Center)
	require.NoError(t, err)
	_, err = src.ReserveGroup(ctx, "crew", seating.Standard, []string{"Ann", "Bob", "Cy", "Dee"})
	require.NoError(t, err)
	_, err = src.ReserveIndividual(ctx, "Eve", seating.Premium, seating.Aisle)
	require.NoError(t, err)

	store := &memStore{}
	require.NoError(t, src.Save(ctx, store))
	require.Len(t, store.records, 6)
	assert.Equal(t, model.SeatAssignment{Seq: 0, Name: "Eve", Row: 1, Column: 1, Preference: "A"}, store.records[0])

	dst := NewManager(nil)
	require.NoError(t, dst.Load(ctx, store))
	assert.Equal(t, store.records, dst.Snapshot())
	assert.Equal(t, src.ManifestList(seating.Standard), dst.ManifestList(seating.Standard))
	assert.Equal(t, src.AvailabilityChart(seating.Premium), dst.AvailabilityChart(seating.Premium))
	assert.True(t, dst.IsNameTaken(true, "crew"))
	assert.True(t, dst.IsNameTaken(false, "Eve"))
	assert.NoError(t, dst.Audit())

	_, err = dst.CancelGroup(ctx, "crew")
	require.NoError(t, err)
	assert.Equal(t, 119, dst.VacantSeats(seating.Standard))
}

func TestRestoreIsAllOrNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewManager(nil)
	_, err := m.ReserveIndividual(ctx, "Ada", seating.Premium, seating.Window)
	require.NoError(t, err)
	before := m.Snapshot()

	cases := []struct {
		name    string
		records []model.SeatAssignment
		want    error
	}{
		{"seat taken", []model.SeatAssignment{
			{Name: "A", Economy: true, Row: 10, Column: 0, Preference: "W"},
			{Name: "B", Economy: true, Row: 10, Column: 0, Preference: "W"},
		}, seating.ErrSeatTaken},
		{"row outside cabin", []model.SeatAssignment{
			{Name: "A", Economy: true, Row: 31, Column: 0, Preference: "W"},
		}, seating.ErrInvalidRow},
		{"row of the other class", []model.SeatAssignment{
			{Name: "A", Economy: false, Row: 10, Column: 0, Preference: "W"},
		}, seating.ErrInvalidRow},
		{"column outside row", []model.SeatAssignment{
			{Name: "A", Economy: false, Row: 1, Column: 4, Preference: "W"},
		}, seating.ErrInvalidColumn},
		{"duplicate individual", []model.SeatAssignment{
			{Name: "A", Economy: true, Row: 10, Column: 0, Preference: "W"},
			{Name: "A", Economy: true, Row: 10, Column: 5, Preference: "W"},
		}, ErrNameTaken},
		{"group spans classes", []model.SeatAssignment{
			{Name: "A", Economy: false, Row: 1, Column: 0, Grouped: true, GroupName: "g"},
			{Name: "B", Economy: true, Row: 10, Column: 0, Grouped: true, GroupName: "g"},
		}, ErrClassMismatch},
	}
	for _, tc := range cases {
		err := m.Restore(tc.records)
		assert.ErrorIs(t, err, tc.want, tc.name)
		assert.Equal(t, before, m.Snapshot(), tc.name)
	}
	assert.NoError(t, m.Audit())
}

func TestLoadPropagatesStoreError(t *testing.T) {
	t.Parallel()
	boom := errors.New("disk gone")
	m := NewManager(nil)

	assert.ErrorIs(t, m.Load(context.Background(), &memStore{err: boom}), boom)
	assert.ErrorIs(t, m.Save(context.Background(), &memStore{err: boom}), boom)
}

func TestConcurrentReservations(t *testing.T) {
	t.Parallel()
	m := NewManager(&recordingPublisher{})

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := m.ReserveIndividual(context.Background(), fmt.Sprintf("pax-%02d", i), seating.Standard, seating.Aisle)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 90, m.VacantSeats(seating.Standard))
	assert.Len(t, m.Manifest(seating.Standard), 30)
	assert.NoError(t, m.Audit())
}

func TestRestoreRejectsCabinFailingAudit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewManager(nil)
	_, err := m.ReserveIndividual(ctx, "Ada", seating.Premium, seating.Window)
	require.NoError(t, err)
	before := m.Snapshot()
	v := m.Version()

	broken := errors.New("vacant aggregate 7, rows sum 8")
	var audited *seating.Cabin
	m.audit = func(c *seating.Cabin) error {
		audited = c
		return broken
	}
	err = m.Restore([]model.SeatAssignment{{Name: "Bo", Economy: true, Row: 10, Column: 0, Preference: "W"}})
	assert.ErrorIs(t, err, broken)
	require.NotNil(t, audited)
	assert.Equal(t, 119, audited.VacantSeats(seating.Standard))

	m.audit = (*seating.Cabin).Audit
	assert.Equal(t, before, m.Snapshot())
	assert.Equal(t, v, m.Version())
	assert.False(t, m.IsNameTaken(false, "Bo"))
}

func TestSeatAt(t *testing.T) {
	t.Parallel()
	m := NewManager(nil)
	_, err := m.ReserveGroup(context.Background(), "crew", seating.Standard, []string{"Ann", "Bob"})
	require.NoError(t, err)

	slot, p, err := m.SeatAt(" 10b ")
	require.NoError(t, err)
	assert.Equal(t, seating.Slot{Row: 10, Column: 1, Type: seating.Center}, slot)
	require.NotNil(t, p)
	assert.Equal(t, "Bob", p.Name)
	assert.Equal(t, "crew", p.Group)

	p.Name = "Mallory"
	_, again, err := m.SeatAt("10B")
	require.NoError(t, err)
	assert.Equal(t, "Bob", again.Name)

	slot, p, err = m.SeatAt("2D")
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Equal(t, seating.Window, slot.Type)

	_, _, err = m.SeatAt("5A")
	assert.ErrorIs(t, err, seating.ErrInvalidRow)
	_, _, err = m.SeatAt("1E")
	assert.ErrorIs(t, err, seating.ErrInvalidColumn)
	_, _, err = m.SeatAt("x")
	assert.ErrorIs(t, err, seating.ErrInvalidColumn)
}
