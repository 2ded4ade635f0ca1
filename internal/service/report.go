package service

import (
	"fmt"
	"strings"

	"github.com/iliyamo/cabin-seat-reservation/internal/seating"
)

// EmptyManifest is printed instead of a manifest when nobody holds a
// reservation in either class.
const EmptyManifest = "Manifest is Empty"

// AvailabilityChart renders the free seats of class, one line per row
// with at least one free seat:
//
//	Economy Class:
//	10:	A	B
func (m *Manager) AvailabilityChart(class seating.Class) string {
	var b strings.Builder
	b.WriteString(class.String())
	b.WriteString(":\n")
	for _, rv := range m.Availability(class) {
		fmt.Fprintf(&b, "%d:\t", rv.Row)
		for _, col := range rv.Columns {
			b.WriteString(seating.ColumnLetter(col))
			b.WriteByte('\t')
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return b.String()
}

// ManifestList renders the seated passengers of class in seat order, or
// EmptyManifest when there are no reservations at all.
func (m *Manager) ManifestList(class seating.Class) string {
	if m.reservationCount() == 0 {
		return EmptyManifest
	}
	var b strings.Builder
	b.WriteString(class.String())
	b.WriteString(":\n")
	for _, p := range m.Manifest(class) {
		fmt.Fprintf(&b, "%s: %s  \n", p.Slot.Label(), p.Name)
	}
	b.WriteByte('\n')
	return b.String()
}
