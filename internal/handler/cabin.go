package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cabin-seat-reservation/internal/seating"
	"github.com/iliyamo/cabin-seat-reservation/internal/service"
)

// CabinHandler serves the read-only views of the cabin.  Both report
// endpoints answer with JSON, or with the plain text chart when called
// with ?format=text.
type CabinHandler struct {
	Mgr *service.Manager
}

func NewCabinHandler(mgr *service.Manager) *CabinHandler {
	if mgr == nil {
		panic("nil manager passed to NewCabinHandler")
	}
	return &CabinHandler{Mgr: mgr}
}

type classSummary struct {
	Class    string `json:"class"`
	Vacant   int    `json:"vacant"`
	Capacity int    `json:"capacity"`
}

type rowVacancy struct {
	Row   int      `json:"row"`
	Seats []string `json:"seats"`
}

type manifestEntry struct {
	Seat  string `json:"seat"`
	Name  string `json:"name"`
	Group string `json:"group,omitempty"`
}

type seatInfo struct {
	Seat     string `json:"seat"`
	Class    string `json:"class"`
	Type     string `json:"type"`
	Occupied bool   `json:"occupied"`
	Name     string `json:"name,omitempty"`
	Group    string `json:"group,omitempty"`
}

// Summary reports the vacancy of both classes.
func (h *CabinHandler) Summary(c echo.Context) error {
	first := classSummary{
		Class:    seating.Premium.String(),
		Vacant:   h.Mgr.VacantSeats(seating.Premium),
		Capacity: seating.PremiumRowCount * len(seating.PremiumTemplate),
	}
	economy := classSummary{
		Class:    seating.Standard.String(),
		Vacant:   h.Mgr.VacantSeats(seating.Standard),
		Capacity: seating.StandardRowCount * len(seating.StandardTemplate),
	}
	return c.JSON(http.StatusOK, echo.Map{
		"first":   first,
		"economy": economy,
		"full":    h.Mgr.IsFull(),
	})
}

// Availability lists the free seats of a class, row by row.
func (h *CabinHandler) Availability(c echo.Context) error {
	class, ok := classParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "class must be first or economy"})
	}
	if c.QueryParam("format") == "text" {
		return c.String(http.StatusOK, h.Mgr.AvailabilityChart(class))
	}
	rows := []rowVacancy{}
	for _, rv := range h.Mgr.Availability(class) {
		seats := make([]string, len(rv.Columns))
		for i, col := range rv.Columns {
			seats[i] = seating.ColumnLetter(col)
		}
		rows = append(rows, rowVacancy{Row: rv.Row, Seats: seats})
	}
	return c.JSON(http.StatusOK, echo.Map{"class": class.String(), "rows": rows})
}

// Manifest lists the seated passengers of a class in seat order.
func (h *CabinHandler) Manifest(c echo.Context) error {
	class, ok := classParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "class must be first or economy"})
	}
	if c.QueryParam("format") == "text" {
		return c.String(http.StatusOK, h.Mgr.ManifestList(class))
	}
	entries := []manifestEntry{}
	for _, p := range h.Mgr.Manifest(class) {
		entries = append(entries, manifestEntry{Seat: p.Slot.Label(), Name: p.Name, Group: p.Group})
	}
	return c.JSON(http.StatusOK, echo.Map{"class": class.String(), "passengers": entries})
}

// Seat describes one seat, addressed by its label such as "10C".
func (h *CabinHandler) Seat(c echo.Context) error {
	slot, p, err := h.Mgr.SeatAt(c.Param("label"))
	switch {
	case errors.Is(err, seating.ErrInvalidRow), errors.Is(err, seating.ErrInvalidColumn):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seat lookup failed"})
	}
	class := seating.Standard
	if slot.Row < seating.PremiumFirstRow+seating.PremiumRowCount {
		class = seating.Premium
	}
	info := seatInfo{Seat: slot.Label(), Class: class.String(), Type: slot.Type.String()}
	if p != nil {
		info.Occupied = true
		info.Name = p.Name
		info.Group = p.Group
	}
	return c.JSON(http.StatusOK, info)
}
