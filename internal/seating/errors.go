package seating

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoMatchingSeat is returned when the preferred seat type has no
// vacancy in the requested class.  Callers may retry with another
// preference or class.
var ErrNoMatchingSeat = errors.New("no matching seat")

// ErrInsufficientRun is returned by Row.ReserveBlock when the row has no
// contiguous run long enough for the block.  The cabin allocator never
// lets it escape ReserveGroup.
var ErrInsufficientRun = errors.New("insufficient contiguous seats")

// ErrInsufficientCapacity is returned when a whole class cannot seat a
// group, even spread over several rows.
var ErrInsufficientCapacity = errors.New("insufficient capacity")

// ErrCabinFull is returned when both classes have zero vacancy.
var ErrCabinFull = errors.New("cabin full")

// ErrSeatNotOccupied is returned when releasing an empty column.
var ErrSeatNotOccupied = errors.New("seat not occupied")

// ErrNotSeated is returned when cancelling a passenger the engine has no
// seat for.
var ErrNotSeated = errors.New("passenger not seated")

// ErrPartialCancellation is wrapped by PartialCancellationError.
var ErrPartialCancellation = errors.New("partial cancellation")

// ErrInvalidRow signals a row number outside the cabin, or a row of the
// wrong class.  It points at a caller or integration bug such as
// malformed persisted data.
var ErrInvalidRow = errors.New("invalid row")

// ErrInvalidColumn signals a column outside the row template.
var ErrInvalidColumn = errors.New("invalid column")

// ErrSeatTaken is returned by the restore path when the column is
// already occupied.
var ErrSeatTaken = errors.New("seat already taken")

// ErrAlreadySeated is returned when a passenger that already holds a
// slot is submitted for another reservation.
var ErrAlreadySeated = errors.New("passenger already seated")

// ErrEmptyGroup is returned for a group without members.
var ErrEmptyGroup = errors.New("group has no members")

// PartialCancellationError lists the group members that could not be
// released.  Every other member was released.
type PartialCancellationError struct {
	Group  string
	Failed []string
}

func (e *PartialCancellationError) Error() string {
	return fmt.Sprintf("group %s: %s: %s", e.Group, ErrPartialCancellation, strings.Join(e.Failed, ", "))
}

func (e *PartialCancellationError) Unwrap() error { return ErrPartialCancellation }
