package guests

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/BariVakhidov/guestlist/internal/domain/models"
	"github.com/BariVakhidov/guestlist/internal/http-server/handlers/errors"
	"github.com/BariVakhidov/guestlist/internal/lib/api/response"
	"github.com/BariVakhidov/guestlist/internal/lib/logger/sl"
	"github.com/BariVakhidov/guestlist/internal/lib/validate"
	"github.com/BariVakhidov/guestlist/internal/services/guests"
)

// maxImportSize caps uploaded guest lists.
const maxImportSize = 5 << 20

type Core interface {
	AddGuest(ctx context.Context, eventID uuid.UUID, in guests.NewGuest) (models.Guest, error)
	Roster(ctx context.Context, eventID uuid.UUID) ([]models.RosterEntry, error)
	UpdateGuest(ctx context.Context, id uuid.UUID, update models.GuestUpdate) (models.Guest, error)
	DeleteGuest(ctx context.Context, id uuid.UUID) error
	Import(ctx context.Context, eventID uuid.UUID, r io.Reader) (guests.ImportResult, error)
	Export(ctx context.Context, eventID uuid.UUID, w io.Writer) error
	CardURL(accessToken string) string
}

type AddRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Category string `json:"category,omitempty" validate:"omitempty,max=50"`
}

func (a *AddRequest) Bind(_ *http.Request) error {
	return validate.Struct(a)
}

// AddResponse is the new guest with the link to their card.
type AddResponse struct {
	models.Guest
	CardURL string `json:"card_url"`
}

func Add(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.guests"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		eventID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			errors.BadRequest(w, r, "Invalid event id")
			return
		}

		var req AddRequest
		if err := render.Bind(r, &req); err != nil {
			log.Warn("invalid request body", sl.Err(err))
			errors.BadRequest(w, r, fmt.Sprintf("Invalid request: %v", err))
			return
		}

		guest, err := handler.AddGuest(r.Context(), eventID, guests.NewGuest{
			Name:     req.Name,
			Phone:    req.Phone,
			Email:    req.Email,
			Category: req.Category,
		})
		if err != nil {
			errors.Service(log, w, r, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Ok(AddResponse{Guest: guest, CardURL: handler.CardURL(guest.AccessToken)}))
	}
}

func List(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.guests"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		eventID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			errors.BadRequest(w, r, "Invalid event id")
			return
		}

		list, err := handler.Roster(r.Context(), eventID)
		if err != nil {
			errors.Service(log, w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(list))
	}
}

// UpdateRequest changes only the fields present in the body.
type UpdateRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Category *string `json:"category,omitempty" validate:"omitempty,max=50"`
}

func (u *UpdateRequest) Bind(_ *http.Request) error {
	return validate.Struct(u)
}

func Update(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.guests"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			errors.BadRequest(w, r, "Invalid guest id")
			return
		}

		var req UpdateRequest
		if err := render.Bind(r, &req); err != nil {
			log.Warn("invalid request body", sl.Err(err))
			errors.BadRequest(w, r, fmt.Sprintf("Invalid request: %v", err))
			return
		}

		guest, err := handler.UpdateGuest(r.Context(), id, models.GuestUpdate{
			Name:     req.Name,
			Category: req.Category,
			Phone:    req.Phone,
			Email:    req.Email,
		})
		if err != nil {
			errors.Service(log, w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(guest))
	}
}

func Delete(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.guests"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			errors.BadRequest(w, r, "Invalid guest id")
			return
		}

		if err := handler.DeleteGuest(r.Context(), id); err != nil {
			errors.Service(log, w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(nil))
	}
}

// Import accepts a CSV guest list either as the request body or as the "file"
// field of a multipart form.
func Import(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.guests"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		eventID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			errors.BadRequest(w, r, "Invalid event id")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

		var body io.Reader = r.Body
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			file, _, err := r.FormFile("file")
			if err != nil {
				log.Warn("missing upload", sl.Err(err))
				errors.BadRequest(w, r, "CSV file is required")
				return
			}
			defer file.Close()
			body = file
		}

		result, err := handler.Import(r.Context(), eventID, body)
		if err != nil {
			errors.Service(log, w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(result))
	}
}

func Export(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.guests"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		eventID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			errors.BadRequest(w, r, "Invalid event id")
			return
		}

		var buf strings.Builder
		if err := handler.Export(r.Context(), eventID, &buf); err != nil {
			errors.Service(log, w, r, err)
			return
		}

		filename := fmt.Sprintf("guests-export-%s.csv", time.Now().UTC().Format(time.DateOnly))
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		if _, err := io.WriteString(w, buf.String()); err != nil {
			log.Warn("failed to write export", sl.Err(err))
		}
	}
}
