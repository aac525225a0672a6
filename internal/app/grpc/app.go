package grpcapp

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"

	"github.com/BariVakhidov/guestlist/internal/grpc/auth"
	checkingrpc "github.com/BariVakhidov/guestlist/internal/grpc/checkin"
)

type AppOpts struct {
	Log           *slog.Logger
	Port          int
	Authenticator auth.Authenticator
}

type Metrics interface {
	Initialize(srv *grpc.Server)
}

type App struct {
	AppOpts
	gRPCServer *grpc.Server
}

func New(opts AppOpts, resolver checkingrpc.Resolver, metrics Metrics, recoveryOpt recovery.Option, metricsInterceptor grpc.UnaryServerInterceptor) *App {
	// payloads carry access tokens, so only call boundaries are logged
	logOpts := []logging.Option{
		logging.WithLogOnEvents(logging.StartCall, logging.FinishCall),
	}

	gRPCServer := grpc.NewServer(grpc.ChainUnaryInterceptor(
		metricsInterceptor,
		logging.UnaryServerInterceptor(InterceptorLogger(opts.Log), logOpts...),
		recovery.UnaryServerInterceptor(recoveryOpt),
		auth.UnaryServerInterceptor(opts.Log, opts.Authenticator),
	))

	checkingrpc.Register(gRPCServer, resolver)

	metrics.Initialize(gRPCServer)

	return &App{gRPCServer: gRPCServer, AppOpts: opts}
}

// MustRun runs gRPC server and panic if any error occurs
func (a *App) MustRun() {
	if err := a.Run(); err != nil {
		panic(err)
	}
}

func (a *App) Run() error {
	const op = "grpcapp.Run"
	log := a.Log.With(slog.String("op", op), slog.Int("port", a.Port))

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", a.Port))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("gRPC server is running", slog.String("addr", listener.Addr().String()))

	if err := a.gRPCServer.Serve(listener); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (a *App) Stop() {
	const op = "grpcapp.Stop"

	a.Log.With(slog.String("op", op), slog.Int("port", a.Port)).
		Info("stopping gRPC server")

	a.gRPCServer.GracefulStop()
}

// InterceptorLogger adapts slog logger to interceptor logger.
// This code is simple enough to be copied and not imported.
func InterceptorLogger(l *slog.Logger) logging.Logger {
	return logging.LoggerFunc(func(ctx context.Context, lvl logging.Level, msg string, fields ...any) {
		l.Log(ctx, slog.Level(lvl), msg, fields...)
	})
}
