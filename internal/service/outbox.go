package service

import (
	"context"
	"log"
	"sync"
	"time"

	q "github.com/iliyamo/cabin-seat-reservation/internal/queue"
)

const (
	outboxSize     = 256
	publishTimeout = 5 * time.Second
)

type envelope struct {
	ctx context.Context
	ev  q.ReservationEvent
}

// outbox hands events to a Publisher from a single goroutine so a slow
// broker never holds up a reservation.  Events leave in the order they
// were queued.
type outbox struct {
	pub     Publisher
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	queue  chan envelope
	done   chan struct{}
}

func newOutbox(pub Publisher) *outbox {
	o := &outbox{
		pub:     pub,
		timeout: publishTimeout,
		queue:   make(chan envelope, outboxSize),
		done:    make(chan struct{}),
	}
	go o.run()
	return o
}

// enqueue never blocks.  When the queue is full or closed the event is
// dropped and logged.
func (o *outbox) enqueue(ctx context.Context, ev q.ReservationEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		log.Printf("reservations: outbox closed, dropping %s for %s", ev.Kind, ev.Name)
		return
	}
	select {
	case o.queue <- envelope{ctx: context.WithoutCancel(ctx), ev: ev}:
	default:
		log.Printf("reservations: outbox full, dropping %s for %s", ev.Kind, ev.Name)
	}
}

func (o *outbox) run() {
	defer close(o.done)
	for env := range o.queue {
		ctx, cancel := context.WithTimeout(env.ctx, o.timeout)
		if err := o.pub.Publish(ctx, env.ev); err != nil {
			log.Printf("reservations: publish %s for %s failed: %v", env.ev.Kind, env.ev.Name, err)
		}
		cancel()
	}
}

// close stops accepting events and waits until the queued ones are sent
// or ctx ends.
func (o *outbox) close(ctx context.Context) error {
	o.mu.Lock()
	if !o.closed {
		o.closed = true
		close(o.queue)
	}
	o.mu.Unlock()

	select {
	case <-o.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
