// Package auth authenticates operators on the gRPC transport with the same
// bearer tokens the HTTP API accepts.
package auth

import (
	"context"
	"log/slog"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/BariVakhidov/guestlist/internal/domain/models"
	"github.com/BariVakhidov/guestlist/internal/lib/api/cont"
	"github.com/BariVakhidov/guestlist/internal/lib/logger/sl"
)

const (
	authorizationHeader = "authorization"
	bearerPrefix        = "Bearer "
)

type Authenticator interface {
	AuthenticateByToken(token string) (models.Operator, error)
}

// UnaryServerInterceptor puts the operator of a valid bearer token into the
// request context and rejects everything else.
func UnaryServerInterceptor(log *slog.Logger, authenticator Authenticator) grpc.UnaryServerInterceptor {
	log = log.With(sl.Module("grpc.auth"))

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, ErrTokenRequired)
		}

		values := md.Get(authorizationHeader)
		if len(values) == 0 || !strings.HasPrefix(values[0], bearerPrefix) {
			return nil, status.Error(codes.Unauthenticated, ErrTokenRequired)
		}

		tokenString := strings.TrimPrefix(values[0], bearerPrefix)
		operator, err := authenticator.AuthenticateByToken(tokenString)
		if err != nil {
			log.Warn("rejected bearer token",
				slog.String("method", info.FullMethod),
				sl.Secret("token", tokenString),
				sl.Err(err),
			)
			return nil, status.Error(codes.Unauthenticated, ErrInvalidToken)
		}

		return handler(cont.PutOperator(ctx, operator), req)
	}
}

// BearerCredentials attaches an operator token to every call.
type BearerCredentials struct {
	Token    string
	Insecure bool
}

var _ credentials.PerRPCCredentials = BearerCredentials{}

func (c BearerCredentials) GetRequestMetadata(context.Context, ...string) (map[string]string, error) {
	return map[string]string{authorizationHeader: bearerPrefix + c.Token}, nil
}

func (c BearerCredentials) RequireTransportSecurity() bool {
	return !c.Insecure
}
