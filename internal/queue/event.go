// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationQueue is the durable queue seat events are published to.
const ReservationQueue = "cabin.reservations"

// Event kinds.
const (
	KindSeatReserved  = "seat.reserved"
	KindSeatCancelled = "seat.cancelled"
)

// ReservationEvent is published after every successful reservation or
// cancellation.  Seats carries the seat labels (e.g. "10C") affected, in
// passenger order.
type ReservationEvent struct {
	Kind       string   `json:"kind"`
	Name       string   `json:"name"`  // passenger or group name
	Group      bool     `json:"group"` // true when Name is a group
	Class      string   `json:"class"`
	Passengers []string `json:"passengers"`
	Seats      []string `json:"seats"`
	OccurredAt string   `json:"occurred_at"`
}
