package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cabin-seat-reservation/internal/seating"
	"github.com/iliyamo/cabin-seat-reservation/internal/service"
)

// classParam reads the :class path parameter ("first" or "economy").
func classParam(c echo.Context) (seating.Class, bool) {
	class, err := seating.ParseClass(c.Param("class"))
	return class, err == nil
}

// reservationError maps manager and engine errors onto HTTP statuses.
func reservationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrInvalidPreference),
		errors.Is(err, seating.ErrEmptyGroup):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNameTaken):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, seating.ErrNoMatchingSeat),
		errors.Is(err, seating.ErrInsufficientCapacity),
		errors.Is(err, seating.ErrCabinFull):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, seating.ErrNotSeated):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	}
	log.Printf("handler: %s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
