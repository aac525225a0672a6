package checkin

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/BariVakhidov/guestlist/internal/domain/models"
	"github.com/BariVakhidov/guestlist/internal/http-server/handlers/errors"
	"github.com/BariVakhidov/guestlist/internal/lib/api/cont"
	"github.com/BariVakhidov/guestlist/internal/lib/api/response"
	"github.com/BariVakhidov/guestlist/internal/lib/logger/sl"
	"github.com/BariVakhidov/guestlist/internal/lib/validate"
)

type Core interface {
	Resolve(ctx context.Context, token, operatorID string) (models.Outcome, error)
}

type ResolveRequest struct {
	Token string `json:"token" validate:"required,max=2048"`
}

func (req *ResolveRequest) Bind(_ *http.Request) error {
	return validate.Struct(req)
}

// Resolve checks a guest in. Expected outcomes, including not found and
// already admitted, are successful responses; only a failed lookup or write
// is an error.
func Resolve(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.checkin"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		operator, ok := cont.GetOperator(r.Context())
		if !ok {
			log.Error("operator not found")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("Operator not found"))
			return
		}

		var req ResolveRequest
		if err := render.Bind(r, &req); err != nil {
			log.Warn("invalid request body", sl.Err(err))
			errors.BadRequest(w, r, fmt.Sprintf("Invalid request: %v", err))
			return
		}

		outcome, err := handler.Resolve(r.Context(), req.Token, operator.ID)
		if err != nil {
			errors.Service(log, w, r, err)
			return
		}

		render.JSON(w, r, response.Ok(outcome))
	}
}
