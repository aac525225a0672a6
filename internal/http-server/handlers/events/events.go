package events

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/BariVakhidov/guestlist/internal/domain/models"
	"github.com/BariVakhidov/guestlist/internal/http-server/handlers/errors"
	"github.com/BariVakhidov/guestlist/internal/lib/api/response"
	"github.com/BariVakhidov/guestlist/internal/lib/logger/sl"
	"github.com/BariVakhidov/guestlist/internal/lib/validate"
)

type Core interface {
	CreateEvent(ctx context.Context, event models.Event) (models.Event, error)
	Event(ctx context.Context, id uuid.UUID) (models.Event, error)
	Stats(ctx context.Context, eventID uuid.UUID) (models.Stats, error)
}

type CreateRequest struct {
	Name              string   `json:"name" validate:"required,max=200"`
	Date              string   `json:"date,omitempty"`
	Time              string   `json:"time,omitempty"`
	Venue             string   `json:"venue,omitempty"`
	Honoree           string   `json:"honoree,omitempty"`
	DressCode         string   `json:"dress_code,omitempty"`
	Colors            string   `json:"colors,omitempty"`
	EnabledCategories []string `json:"enabled_categories,omitempty" validate:"dive,required,max=50"`
}

func (c *CreateRequest) Bind(_ *http.Request) error {
	return validate.Struct(c)
}

func Create(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.events"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req CreateRequest
		if err := render.Bind(r, &req); err != nil {
			log.Warn("invalid request body", sl.Err(err))
			errors.BadRequest(w, r, fmt.Sprintf("Invalid request: %v", err))
			return
		}

		event, err := handler.CreateEvent(r.Context(), models.Event{
			Name:              req.Name,
			Date:              req.Date,
			Time:              req.Time,
			Venue:             req.Venue,
			Honoree:           req.Honoree,
			DressCode:         req.DressCode,
			Colors:            req.Colors,
			EnabledCategories: req.EnabledCategories,
		})
		if err != nil {
			errors.Service(log, w, r, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Ok(event))
	}
}

func Get(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.events"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			errors.BadRequest(w, r, "Invalid event id")
			return
		}

		event, err := handler.Event(r.Context(), id)
		if err != nil {
			errors.Service(log, w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(event))
	}
}

func Stats(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.events"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			errors.BadRequest(w, r, "Invalid event id")
			return
		}

		stats, err := handler.Stats(r.Context(), id)
		if err != nil {
			errors.Service(log, w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(stats))
	}
}
