package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/TarekGohar/cleano-software-sub002/calendar"
	"github.com/TarekGohar/cleano-software-sub002/middlewares"
)

// CalendarHandler exposes the calendar data synchronization layer over
// HTTP: a per-day query and a cached, coalesced range query.
type CalendarHandler struct {
	svc *calendar.Service
}

func NewCalendarHandler(svc *calendar.Service) *CalendarHandler {
	return &CalendarHandler{svc: svc}
}

// Service exposes the underlying calendar service so mutation handlers
// can invalidate affected days.
func (h *CalendarHandler) Service() *calendar.Service { return h.svc }

// parseBound accepts RFC3339 timestamps or bare YYYY-MM-DD dates.
func (h *CalendarHandler) parseBound(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", s, h.svc.Location())
}

// GET /calendar/day?date=YYYY-MM-DD
func (h *CalendarHandler) Day(c echo.Context) error {
	day, err := calendar.ParseDay(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_DATE"})
	}

	events, err := h.svc.Day(c.Request().Context(), day, middlewares.CallerIdentity(c))
	if err != nil {
		return calendarHTTPError(err)
	}
	return c.JSON(http.StatusOK, events)
}

// GET /calendar/range?start=...&end=...
//
// The response always carries the continuously-displayable event list:
// on a failed revalidation the previously loaded events are returned
// with state "stale" and the error message alongside, never a blank
// list.
func (h *CalendarHandler) Range(c echo.Context) error {
	start, err := h.parseBound(c.QueryParam("start"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_START"})
	}
	end, err := h.parseBound(c.QueryParam("end"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_END"})
	}

	snap, err := h.svc.Range(c.Request().Context(), start, end, middlewares.CallerIdentity(c))
	if err != nil && snap.State == "" {
		// Nothing displayable at all (bad range, unauthenticated).
		return calendarHTTPError(err)
	}

	body := map[string]any{
		"state":   snap.State,
		"events":  snap.Events,
		"loading": snap.Loading,
	}
	if snap.Err != nil {
		body["error"] = snap.Err.Error()
	}
	return c.JSON(http.StatusOK, body)
}

// POST /calendar/invalidate?date=YYYY-MM-DD
//
// Explicit cache busting for callers that mutate schedule data outside
// the job endpoints (imports, admin scripts).
func (h *CalendarHandler) InvalidateDay(c echo.Context) error {
	day, err := calendar.ParseDay(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_DATE"})
	}
	h.svc.InvalidateDay(day)
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}

func calendarHTTPError(err error) error {
	var agg *calendar.AggregateFetchError
	var dae *calendar.DataAccessError
	switch {
	case errors.Is(err, calendar.ErrUnauthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "UNAUTHENTICATED"})
	case errors.Is(err, calendar.ErrInvalidRange):
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_RANGE"})
	case errors.As(err, &agg):
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "RANGE_FETCH_FAILED", "detail": agg.Error()})
	case errors.As(err, &dae):
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED", "detail": dae.Error()})
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
	}
}
