package checkin_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/BariVakhidov/guestlist/internal/domain/models"
	"github.com/BariVakhidov/guestlist/internal/grpc/auth"
	checkingrpc "github.com/BariVakhidov/guestlist/internal/grpc/checkin"
	"github.com/BariVakhidov/guestlist/internal/lib/jwt"
	"github.com/BariVakhidov/guestlist/internal/services/checkin"
	"github.com/BariVakhidov/guestlist/internal/services/operators"
	checkinv1 "github.com/BariVakhidov/guestlist/protos/gen/go/checkin"
)

const secret = "test-secret"

type stubResolver struct {
	mu         sync.Mutex
	outcome    models.Outcome
	err        error
	operatorID string
}

func (r *stubResolver) Resolve(_ context.Context, _ string, operatorID string) (models.Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operatorID = operatorID

	return r.outcome, r.err
}

func startServer(t *testing.T, resolver checkingrpc.Resolver, opts ...grpc.DialOption) *grpc.ClientConn {
	t.Helper()

	listener := bufconn.Listen(1 << 20)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	authenticator := operators.New(log, secret, time.Hour)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(auth.UnaryServerInterceptor(log, authenticator)))
	checkingrpc.Register(srv, resolver)

	go func() { _ = srv.Serve(listener) }()
	t.Cleanup(srv.Stop)

	opts = append(opts,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	conn, err := grpc.NewClient("passthrough:///bufnet", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func bearer(t *testing.T, id string) auth.BearerCredentials {
	t.Helper()

	token, err := jwt.NewToken(models.Operator{ID: id, Name: "Door One", Role: models.RoleOperator}, secret, time.Hour)
	require.NoError(t, err)

	return auth.BearerCredentials{Token: token, Insecure: true}
}

func TestResolve_Admitted(t *testing.T) {
	t1 := time.Date(2026, 6, 20, 19, 4, 0, 0, time.UTC)
	guest := models.GuestCard{ID: uuid.New(), Name: "Ada Obi", Category: models.CategoryVIP}
	resolver := &stubResolver{outcome: models.Admitted(guest, t1)}
	conn := startServer(t, resolver)

	resp, err := checkinv1.NewCheckInClient(conn).Resolve(context.Background(),
		&checkinv1.ResolveRequest{Token: "tok_9f8e7d6c5b4a", OperatorId: "spoofed"}, grpc.PerRPCCredentials(bearer(t, "door-1")))
	require.NoError(t, err)
	assert.Equal(t, "2026-06-20T19:04:00Z", resp.GetTimestamp())

	outcome, err := checkingrpc.OutcomeFromResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeAdmitted, outcome.Kind)
	assert.Equal(t, guest, outcome.Guest)
	assert.True(t, t1.Equal(outcome.Timestamp))

	assert.Equal(t, "door-1", resolver.operatorID, "operator comes from the bearer token")
}

func TestClient_RequiresCredentials(t *testing.T) {
	resolver := &stubResolver{outcome: models.NotFound()}
	client := checkingrpc.NewClient(startServer(t, resolver))

	outcome, err := client.Resolve(context.Background(), "abcdef1234567890", "door-1")
	require.Error(t, err)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Empty(t, outcome.Kind)
	assert.Empty(t, resolver.operatorID, "resolver must not be reached")
}

func TestClient(t *testing.T) {
	tests := []struct {
		name     string
		resolver *stubResolver
		token    string
		wantKind models.OutcomeKind
		wantCode codes.Code
	}{
		{
			name:     "already admitted",
			resolver: &stubResolver{outcome: models.AlreadyAdmitted(models.GuestCard{ID: uuid.New(), Name: "Ada Obi"}, time.Now())},
			token:    "abcdef1234567890",
			wantKind: models.OutcomeAlreadyAdmitted,
		},
		{
			name:     "not found",
			resolver: &stubResolver{outcome: models.NotFound()},
			token:    "abcdef1234567890",
			wantKind: models.OutcomeNotFound,
		},
		{
			name:     "empty token is invalid input",
			resolver: &stubResolver{},
			token:    "",
			wantKind: models.OutcomeInvalidInput,
		},
		{
			name:     "system error is retryable",
			resolver: &stubResolver{err: fmt.Errorf("checkin.Resolve: %w", checkin.ErrSystem)},
			token:    "abcdef1234567890",
			wantCode: codes.Unavailable,
		},
		{
			name:     "unexpected error",
			resolver: &stubResolver{err: fmt.Errorf("boom")},
			token:    "abcdef1234567890",
			wantCode: codes.Internal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := startServer(t, tt.resolver, grpc.WithPerRPCCredentials(bearer(t, "door-1")))
			client := checkingrpc.NewClient(conn)

			outcome, err := client.Resolve(context.Background(), tt.token, "door-1")
			if tt.wantCode != codes.OK {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, status.Code(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, outcome.Kind)
		})
	}
}

func TestResolve_RejectsBadToken(t *testing.T) {
	conn := startServer(t, &stubResolver{outcome: models.NotFound()})

	_, err := checkinv1.NewCheckInClient(conn).Resolve(context.Background(),
		&checkinv1.ResolveRequest{Token: "abcdef1234567890"},
		grpc.PerRPCCredentials(auth.BearerCredentials{Token: "garbage", Insecure: true}))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestCheckInDescriptor(t *testing.T) {
	svc := checkinv1.File_checkin_checkin_proto.Services().ByName("CheckIn")
	require.NotNil(t, svc)
	assert.Equal(t, checkinv1.CheckIn_ServiceDesc.ServiceName, string(svc.FullName()))

	method := svc.Methods().ByName("Resolve")
	require.NotNil(t, method)
	assert.Equal(t, checkinv1.CheckIn_Resolve_FullMethodName, "/"+string(svc.FullName())+"/"+string(method.Name()))
	assert.Equal(t, (&checkinv1.ResolveRequest{}).ProtoReflect().Descriptor().FullName(), method.Input().FullName())
	assert.Equal(t, (&checkinv1.ResolveResponse{}).ProtoReflect().Descriptor().FullName(), method.Output().FullName())
}

func TestOutcomeFromResponse(t *testing.T) {
	_, err := checkingrpc.OutcomeFromResponse(&checkinv1.ResolveResponse{Kind: "teleported"})
	require.Error(t, err)

	_, err = checkingrpc.OutcomeFromResponse(&checkinv1.ResolveResponse{Kind: string(models.OutcomeAdmitted), GuestId: "not-a-uuid"})
	require.Error(t, err)

	outcome, err := checkingrpc.OutcomeFromResponse(&checkinv1.ResolveResponse{Kind: string(models.OutcomeNotFound)})
	require.NoError(t, err)
	assert.Equal(t, models.NotFound(), outcome)
}
