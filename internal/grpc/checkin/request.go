package checkin

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BariVakhidov/guestlist/internal/domain/models"
	checkinv1 "github.com/BariVakhidov/guestlist/protos/gen/go/checkin"
)

func outcomeToResponse(o models.Outcome) *checkinv1.ResolveResponse {
	resp := &checkinv1.ResolveResponse{Kind: string(o.Kind)}
	if o.Guest.ID != uuid.Nil {
		resp.GuestId = o.Guest.ID.String()
		resp.Name = o.Guest.Name
		resp.Category = o.Guest.Category
	}
	if !o.Timestamp.IsZero() {
		resp.Timestamp = o.Timestamp.UTC().Format(time.RFC3339Nano)
	}

	return resp
}

// OutcomeFromResponse decodes a Resolve response.
func OutcomeFromResponse(resp *checkinv1.ResolveResponse) (models.Outcome, error) {
	const op = "grpc.checkin.OutcomeFromResponse"

	o := models.Outcome{Kind: models.OutcomeKind(resp.GetKind())}
	switch o.Kind {
	case models.OutcomeAdmitted, models.OutcomeAlreadyAdmitted, models.OutcomeNotFound, models.OutcomeInvalidInput:
	default:
		return models.Outcome{}, fmt.Errorf("%s: unknown outcome %q", op, o.Kind)
	}

	if raw := resp.GetGuestId(); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return models.Outcome{}, fmt.Errorf("%s: %w", op, err)
		}
		o.Guest = models.GuestCard{ID: id, Name: resp.GetName(), Category: resp.GetCategory()}
	}

	if raw := resp.GetTimestamp(); raw != "" {
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return models.Outcome{}, fmt.Errorf("%s: %w", op, err)
		}
		o.Timestamp = ts
	}

	return o, nil
}
