package prometheusapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	grpcprom "github.com/grpc-ecosystem/go-grpc-middleware/providers/prometheus"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	checkingrpc "github.com/BariVakhidov/guestlist/internal/grpc/checkin"
	"github.com/BariVakhidov/guestlist/internal/lib/logger/sl"
)

type App struct {
	log                *slog.Logger
	port               int
	reg                *prometheus.Registry
	serverMetrics      *grpcprom.ServerMetrics
	server             *http.Server
	RecoveryOpt        recovery.Option
	MetricsInterceptor grpc.UnaryServerInterceptor
	Outcomes           *OutcomeCounter
}

// OutcomeCounter counts scan resolutions by outcome.
type OutcomeCounter struct {
	vec *prometheus.CounterVec
}

func (c *OutcomeCounter) Inc(outcome string) {
	c.vec.WithLabelValues(outcome).Inc()
}

func New(log *slog.Logger, port int) *App {
	// Setup metrics.
	srvMetrics := grpcprom.NewServerMetrics(
		grpcprom.WithServerHandlingTimeHistogram(
			grpcprom.WithHistogramBuckets([]float64{0.001, 0.01, 0.1, 0.3, 0.6, 1, 3, 6, 9, 20, 30, 60, 90, 120}),
		),
	)
	reg := prometheus.NewRegistry()
	reg.MustRegister(srvMetrics)

	exemplarFromContext := func(ctx context.Context) prometheus.Labels {
		if span := trace.SpanContextFromContext(ctx); span.IsSampled() {
			return prometheus.Labels{"traceID": span.TraceID().String()}
		}
		return nil
	}

	panicsTotal := promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "grpc_req_panics_recovered_total",
		Help: "Total number of gRPC requests recovered from internal panic.",
	})
	outcomes := promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
		Name: "checkin_scans_total",
		Help: "Total number of resolved scans by outcome.",
	}, []string{"outcome"})

	grpcPanicRecoveryHandler := recovery.WithRecoveryHandler(func(p any) (err error) {
		panicsTotal.Inc()
		log.Error("recovered from panic", slog.Any("panic", p), slog.String("stack", string(debug.Stack())))
		return status.Error(codes.Internal, checkingrpc.ErrInternal)
	})

	metricsInterceptor := srvMetrics.UnaryServerInterceptor(grpcprom.WithExemplarFromContext(exemplarFromContext))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(
		reg,
		promhttp.HandlerOpts{
			// Opt into OpenMetrics e.g. to support exemplars.
			EnableOpenMetrics: true,
		},
	))

	return &App{
		log:                log,
		port:               port,
		reg:                reg,
		serverMetrics:      srvMetrics,
		server:             &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		RecoveryOpt:        grpcPanicRecoveryHandler,
		MetricsInterceptor: metricsInterceptor,
		Outcomes:           &OutcomeCounter{vec: outcomes},
	}
}

func (a *App) MustRun() {
	err := a.Run()
	if errors.Is(err, http.ErrServerClosed) {
		a.log.Info("Prometheus server closed", sl.Err(err))
	} else if err != nil {
		a.log.Error("Failed to start Prometheus", sl.Err(err))
		panic(err)
	}
}

func (a *App) Run() error {
	const op = "prometheusapp.Run"
	log := a.log.With(slog.String("op", op), slog.Int("port", a.port))

	log.Info("exposing Prometheus metrics")

	return a.server.ListenAndServe()
}

func (a *App) Initialize(srv *grpc.Server) {
	a.serverMetrics.InitializeMetrics(srv)
}

func (a *App) Stop(ctx context.Context) error {
	const op = "prometheusapp.Stop"

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
