package checkin

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/BariVakhidov/guestlist/internal/domain/models"
	"github.com/BariVakhidov/guestlist/internal/lib/api/cont"
	"github.com/BariVakhidov/guestlist/internal/services/checkin"
	checkinv1 "github.com/BariVakhidov/guestlist/protos/gen/go/checkin"
)

type Resolver interface {
	Resolve(ctx context.Context, token, operatorID string) (models.Outcome, error)
}

type ServerAPI struct {
	validator *validator.Validate
	resolver  Resolver
	checkinv1.UnimplementedCheckInServer
}

func Register(gRPCServer *grpc.Server, resolver Resolver) {
	checkinv1.RegisterCheckInServer(gRPCServer, InitializeServerAPI(resolver))
}

func InitializeServerAPI(resolver Resolver) *ServerAPI {
	return &ServerAPI{
		resolver:  resolver,
		validator: validator.New(),
	}
}

func (s *ServerAPI) Resolve(ctx context.Context, req *checkinv1.ResolveRequest) (*checkinv1.ResolveResponse, error) {
	if err := s.validateResolveReq(req); err != nil {
		return nil, err
	}

	operator, ok := cont.GetOperator(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, ErrUnauthenticated)
	}

	outcome, err := s.resolver.Resolve(ctx, req.GetToken(), operator.ID)
	if err != nil {
		if errors.Is(err, checkin.ErrSystem) {
			return nil, status.Error(codes.Unavailable, ErrUnavailable)
		}

		return nil, status.Error(codes.Internal, ErrInternal)
	}

	return outcomeToResponse(outcome), nil
}

func (s *ServerAPI) validateResolveReq(req *checkinv1.ResolveRequest) error {
	if req.GetToken() == "" {
		return status.Error(codes.InvalidArgument, ErrTokenRequired)
	}

	if err := s.validator.Var(req.GetToken(), "max=2048"); err != nil {
		return status.Error(codes.InvalidArgument, ErrTokenTooLong)
	}

	return nil
}
