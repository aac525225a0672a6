package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/BariVakhidov/guestlist/internal/lib/api/response"
	"github.com/BariVakhidov/guestlist/internal/lib/logger/sl"
	"github.com/BariVakhidov/guestlist/internal/services/checkin"
	"github.com/BariVakhidov/guestlist/internal/services/guests"
)

// Service renders a service error with the matching status. Unexpected
// errors are logged and reported without details.
func Service(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, guests.ErrEventNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("Event not found"))
	case errors.Is(err, guests.ErrGuestNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("Guest not found"))
	case errors.Is(err, guests.ErrGuestAdmitted):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error("Guest already checked in"))
	case errors.Is(err, guests.ErrInvalidGuest), errors.Is(err, guests.ErrInvalidRoster):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
	case errors.Is(err, checkin.ErrSystem):
		log.Error("check-in unavailable", sl.Err(err))
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("Check-in unavailable, retry the scan"))
	default:
		log.Error("request failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Internal error"))
	}
}

func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, response.Error(message))
}
