package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	q "github.com/iliyamo/cabin-seat-reservation/internal/queue"
	"github.com/iliyamo/cabin-seat-reservation/internal/seating"
)

// blockingPublisher holds every Publish until release is closed.
type blockingPublisher struct {
	recordingPublisher
	release chan struct{}
}

func (p *blockingPublisher) Publish(ctx context.Context, ev q.ReservationEvent) error {
	select {
	case <-p.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	return p.recordingPublisher.Publish(ctx, ev)
}

func TestEventsFollowCommitOrder(t *testing.T) {
	t.Parallel()
	pub := &recordingPublisher{}
	m := NewManager(pub)
	ctx := context.Background()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			name := fmt.Sprintf("pax-%d", w)
			for i := 0; i < 25; i++ {
				_, err := m.ReserveIndividual(ctx, name, seating.Standard, seating.Aisle)
				assert.NoError(t, err)
				_, err = m.CancelIndividual(ctx, name)
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()
	flush(t, m)

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.events, 4*25*2)
	next := map[string]string{}
	for _, ev := range pub.events {
		want, ok := next[ev.Name]
		if !ok {
			want = q.KindSeatReserved
		}
		require.Equal(t, want, ev.Kind, "event for %s out of order", ev.Name)
		if ev.Kind == q.KindSeatReserved {
			next[ev.Name] = q.KindSeatCancelled
		} else {
			next[ev.Name] = q.KindSeatReserved
		}
	}
}

func TestSlowPublisherDoesNotHoldReservations(t *testing.T) {
	t.Parallel()
	pub := &blockingPublisher{release: make(chan struct{})}
	m := NewManager(pub)

	done := make(chan error, 1)
	go func() {
		_, err := m.ReserveGroup(context.Background(), "crew", seating.Premium, []string{"Ann", "Bob"})
		done <- err
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("reservation waited on the publisher")
	}

	close(pub.release)
	flush(t, m)
	assert.Equal(t, "crew", pub.last().Name)
}

func TestCloseStopsPublishing(t *testing.T) {
	t.Parallel()
	pub := &recordingPublisher{}
	m := NewManager(pub)
	ctx := context.Background()

	_, err := m.ReserveIndividual(ctx, "Ada", seating.Premium, seating.Window)
	require.NoError(t, err)
	flush(t, m)
	flush(t, m)

	_, err = m.ReserveIndividual(ctx, "Bea", seating.Premium, seating.Window)
	require.NoError(t, err)

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.events, 1)
	assert.Equal(t, "Ada", pub.events[0].Name)
}

func TestCloseGivesUpWithContext(t *testing.T) {
	t.Parallel()
	pub := &blockingPublisher{release: make(chan struct{})}
	defer close(pub.release)
	m := NewManager(pub)

	_, err := m.ReserveIndividual(context.Background(), "Ada", seating.Premium, seating.Window)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, m.Close(ctx), context.DeadlineExceeded)
}
