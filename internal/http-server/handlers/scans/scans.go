package scans

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/BariVakhidov/guestlist/internal/domain/models"
	"github.com/BariVakhidov/guestlist/internal/http-server/handlers/errors"
	"github.com/BariVakhidov/guestlist/internal/lib/api/response"
	"github.com/BariVakhidov/guestlist/internal/lib/logger/sl"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

type Core interface {
	Scans(ctx context.Context, operatorID string, limit int64) ([]models.ScanRecord, error)
}

type scanView struct {
	OperatorID string             `json:"operator_id"`
	Token      string             `json:"token"`
	Kind       models.OutcomeKind `json:"kind,omitempty"`
	GuestID    string             `json:"guest_id,omitempty"`
	Error      string             `json:"error,omitempty"`
	ScannedAt  string             `json:"scanned_at"`
}

// List returns the latest scans, optionally of one operator.
func List(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.scans"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			render.Status(r, http.StatusNotImplemented)
			render.JSON(w, r, response.Error("Scan log not enabled"))
			return
		}

		limit := int64(defaultLimit)
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || n <= 0 {
				errors.BadRequest(w, r, "Invalid limit")
				return
			}
			limit = min(n, maxLimit)
		}

		records, err := handler.Scans(r.Context(), r.URL.Query().Get("operator"), limit)
		if err != nil {
			errors.Service(log, w, r, err)
			return
		}

		views := make([]scanView, len(records))
		for i, rec := range records {
			views[i] = scanView{
				OperatorID: rec.OperatorID,
				Token:      rec.Token,
				Kind:       rec.Kind,
				Error:      rec.Error,
				ScannedAt:  rec.ScannedAt.UTC().Format(time.RFC3339),
			}
			if rec.GuestID != uuid.Nil {
				views[i].GuestID = rec.GuestID.String()
			}
		}

		render.JSON(w, r, response.Ok(views))
	}
}
