package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	grpcapp "github.com/BariVakhidov/guestlist/internal/app/grpc"
	prometheusapp "github.com/BariVakhidov/guestlist/internal/app/prometheus"
	storageapp "github.com/BariVakhidov/guestlist/internal/app/storage"
	mongoapp "github.com/BariVakhidov/guestlist/internal/app/storage/mongo"
	redisapp "github.com/BariVakhidov/guestlist/internal/app/storage/redis"
	"github.com/BariVakhidov/guestlist/internal/config"
	"github.com/BariVakhidov/guestlist/internal/http-server/api"
	"github.com/BariVakhidov/guestlist/internal/kafka"
	"github.com/BariVakhidov/guestlist/internal/lib/logger/sl"
	"github.com/BariVakhidov/guestlist/internal/services/checkin"
	eventsender "github.com/BariVakhidov/guestlist/internal/services/event_sender"
	"github.com/BariVakhidov/guestlist/internal/services/guests"
	"github.com/BariVakhidov/guestlist/internal/services/operators"
)

type App struct {
	log          *slog.Logger
	cfg          *config.Config
	grpcServer   *grpcapp.App
	httpServer   *api.Server
	metrics      *prometheusapp.App
	storage      *storageapp.App
	redisStorage *redisapp.App
	scanLog      *mongoapp.App
	producer     *kafka.Producer
	eventSender  *eventsender.Sender
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) *App {
	a := &App{log: log, cfg: cfg}

	a.metrics = prometheusapp.New(log, cfg.Metrics.Port)
	a.storage = storageapp.MustCreateApp(ctx, log, cfg.Storage)

	authenticator := operators.New(log, cfg.Auth.Secret, cfg.Auth.TokenTTL)

	checkinOpts := []checkin.Option{checkin.WithOutcomeCounter(a.metrics.Outcomes)}
	guestOpts := guests.Opts{
		Log:        log,
		Events:     a.storage.Storage,
		Guests:     a.storage.Storage,
		Attendance: a.storage.Storage,
		PublicURL:  cfg.HTTP.PublicURL,
	}
	services := api.Services{Auth: authenticator}

	if cfg.Redis.Addr != "" {
		a.redisStorage = redisapp.New(log, cfg.Redis)
		checkinOpts = append(checkinOpts, checkin.WithCache(a.redisStorage.Storage))
		guestOpts.Cache = a.redisStorage.Storage
	}

	if cfg.Mongo.URI != "" {
		a.scanLog = mongoapp.MustCreateApp(ctx, log, cfg.Mongo)
		checkinOpts = append(checkinOpts, checkin.WithScanRecorder(a.scanLog.Storage))
		services.Scans = a.scanLog.Storage
	}

	if len(cfg.Kafka.Brokers) > 0 {
		a.producer = kafka.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.WriteTimeout)
		a.eventSender = eventsender.NewSender(log, a.producer, a.storage.Storage)
	}

	checkinService := checkin.New(log, a.storage.Storage, a.storage.Storage, a.storage.Storage, checkinOpts...)
	guestService := guests.New(guestOpts)

	services.Guests = guestService
	services.CheckIn = checkinService

	grpcappOpts := grpcapp.AppOpts{
		Log:           log,
		Port:          cfg.GRPC.Port,
		Authenticator: authenticator,
	}
	a.grpcServer = grpcapp.New(grpcappOpts, checkinService, a.metrics, a.metrics.RecoveryOpt, a.metrics.MetricsInterceptor)
	a.httpServer = api.New(cfg.HTTP, log, services)

	return a
}

func (a *App) MustRun(ctx context.Context) {
	go a.grpcServer.MustRun()
	go a.metrics.MustRun()
	go func() {
		if err := a.httpServer.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("api server failed", sl.Err(err))
			panic(err)
		}
	}()

	if a.eventSender != nil {
		go a.eventSender.StartProducing(ctx, a.cfg.Kafka.BatchLimit, a.cfg.Kafka.Interval)
	}
}

// Stop shuts the servers down first, then the background sender, then the
// stores they use.
func (a *App) Stop(ctx context.Context) error {
	const op = "app.Stop"

	var errs []error

	a.grpcServer.Stop()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.metrics.Stop(ctx); err != nil {
		errs = append(errs, err)
	}

	if a.eventSender != nil {
		a.eventSender.StopSending()
		if err := a.producer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.redisStorage != nil {
		if err := a.redisStorage.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.scanLog != nil {
		if err := a.scanLog.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.storage.Stop(); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
