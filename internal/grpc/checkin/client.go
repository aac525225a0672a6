package checkin

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/BariVakhidov/guestlist/internal/domain/models"
	checkinv1 "github.com/BariVakhidov/guestlist/protos/gen/go/checkin"
)

// Client calls checkin.v1.CheckIn. It satisfies the scan session's resolver.
type Client struct {
	api checkinv1.CheckInClient
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{api: checkinv1.NewCheckInClient(conn)}
}

func (c *Client) Resolve(ctx context.Context, token, operatorID string) (models.Outcome, error) {
	const op = "grpc.checkin.Client.Resolve"

	resp, err := c.api.Resolve(ctx, &checkinv1.ResolveRequest{Token: token, OperatorId: operatorID})
	if err != nil {
		if status.Code(err) == codes.InvalidArgument {
			return models.InvalidInput(), nil
		}

		return models.Outcome{}, fmt.Errorf("%s: %w", op, err)
	}

	outcome, err := OutcomeFromResponse(resp)
	if err != nil {
		return models.Outcome{}, fmt.Errorf("%s: %w", op, err)
	}

	return outcome, nil
}
