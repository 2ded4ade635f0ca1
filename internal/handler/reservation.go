package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cabin-seat-reservation/internal/seating"
	"github.com/iliyamo/cabin-seat-reservation/internal/service"
)

// ReservationHandler creates and cancels reservations for agents.
type ReservationHandler struct {
	Mgr *service.Manager
}

func NewReservationHandler(mgr *service.Manager) *ReservationHandler {
	if mgr == nil {
		panic("nil manager passed to NewReservationHandler")
	}
	return &ReservationHandler{Mgr: mgr}
}

type individualReq struct {
	Name       string `json:"name"`
	Class      string `json:"class"`      // first | economy
	Preference string `json:"preference"` // W | C | A
}

type groupReq struct {
	Name    string   `json:"name"`
	Class   string   `json:"class"`
	Members []string `json:"members"`
}

type seatResp struct {
	Name     string `json:"name"`
	Seat     string `json:"seat"`
	SeatType string `json:"seat_type"`
}

func toSeatResp(p seating.Passenger) seatResp {
	return seatResp{Name: p.Name, Seat: p.Slot.Label(), SeatType: p.Slot.Type.String()}
}

// CreateIndividual seats one passenger.
func (h *ReservationHandler) CreateIndividual(c echo.Context) error {
	var req individualReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	class, err := seating.ParseClass(req.Class)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	pref, err := seating.ParseSeatType(req.Preference)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	p, err := h.Mgr.ReserveIndividual(c.Request().Context(), req.Name, class, pref)
	if err != nil {
		return reservationError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"class": class.String(), "passenger": toSeatResp(p)})
}

// CreateGroup seats every member of a new group.
func (h *ReservationHandler) CreateGroup(c echo.Context) error {
	var req groupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	class, err := seating.ParseClass(req.Class)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	members, err := h.Mgr.ReserveGroup(c.Request().Context(), req.Name, class, req.Members)
	if err != nil {
		return reservationError(c, err)
	}
	seats := make([]seatResp, len(members))
	for i, p := range members {
		seats[i] = toSeatResp(p)
	}
	return c.JSON(http.StatusCreated, echo.Map{"group": members[0].Group, "class": class.String(), "passengers": seats})
}

// CancelIndividual releases the seat of the named passenger.
func (h *ReservationHandler) CancelIndividual(c echo.Context) error {
	name := c.Param("name")
	slot, err := h.Mgr.CancelIndividual(c.Request().Context(), name)
	if err != nil {
		return reservationError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"name": name, "released": slot.Label()})
}

// CancelGroup releases every seat of the named group.  Members that could
// not be released are reported with status 207.
func (h *ReservationHandler) CancelGroup(c echo.Context) error {
	name := c.Param("name")
	released, err := h.Mgr.CancelGroup(c.Request().Context(), name)
	seats := make([]string, len(released))
	for i, p := range released {
		seats[i] = p.Slot.Label()
	}

	var partial *seating.PartialCancellationError
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"group": name, "released": seats})
	case errors.As(err, &partial):
		return c.JSON(http.StatusMultiStatus, echo.Map{"group": name, "released": seats, "failed": partial.Failed})
	}
	return reservationError(c, err)
}
