package card

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/BariVakhidov/guestlist/internal/domain/models"
	"github.com/BariVakhidov/guestlist/internal/http-server/handlers/errors"
	"github.com/BariVakhidov/guestlist/internal/lib/api/response"
	"github.com/BariVakhidov/guestlist/internal/lib/logger/sl"
)

type Core interface {
	PublicCard(ctx context.Context, accessToken string) (models.PublicCard, error)
	CardQR(ctx context.Context, accessToken string) ([]byte, error)
}

// Card serves the guest's own card: name, category, event details and the
// short code for manual entry. Contact details are never included.
func Card(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.card"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		accessToken := chi.URLParam(r, "token")

		card, err := handler.PublicCard(r.Context(), accessToken)
		if err != nil {
			errors.Service(log, w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(card))
	}
}

func QR(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.card"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		accessToken := chi.URLParam(r, "token")

		png, err := handler.CardQR(r.Context(), accessToken)
		if err != nil {
			errors.Service(log, w, r, err)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(png)))
		w.Header().Set("Cache-Control", "private, max-age=3600")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(png); err != nil {
			log.Warn("failed to write qr code", sl.Err(err))
		}
	}
}
