package storageapp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BariVakhidov/guestlist/internal/config"
	"github.com/BariVakhidov/guestlist/internal/services/checkin"
	eventsender "github.com/BariVakhidov/guestlist/internal/services/event_sender"
	"github.com/BariVakhidov/guestlist/internal/services/guests"
	"github.com/BariVakhidov/guestlist/internal/storage/postgres"
	"github.com/BariVakhidov/guestlist/internal/storage/sqlite"
)

// Storage is everything the services need from the relational backend.
type Storage interface {
	guests.EventStorage
	guests.GuestStorage
	guests.AttendanceProvider
	checkin.GuestProvider
	checkin.AdmissionSaver
	checkin.AdmissionProvider
	eventsender.EventProvider
}

type App struct {
	Storage Storage
	log     *slog.Logger
	driver  string
	close   func() error
}

func MustCreateApp(ctx context.Context, log *slog.Logger, cfg config.StorageConfig) *App {
	app, err := New(ctx, log, cfg)
	if err != nil {
		panic(err)
	}

	return app
}

func New(ctx context.Context, log *slog.Logger, cfg config.StorageConfig) (*App, error) {
	const op = "storageapp.New"

	app := &App{log: log, driver: cfg.Driver}

	switch cfg.Driver {
	case config.DriverPostgres:
		pg, err := postgres.New(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.Storage = pg
		app.close = func() error {
			pg.ClosePool()
			return nil
		}
	case config.DriverSQLite:
		lite, err := sqlite.New(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		// the local backend bootstraps its own schema
		if err := lite.Migrate(ctx); err != nil {
			_ = lite.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.Storage = lite
		app.close = lite.Close
	default:
		return nil, fmt.Errorf("%s: unknown storage driver %q", op, cfg.Driver)
	}

	log.Info("storage initialized", slog.String("driver", cfg.Driver))

	return app, nil
}

func (a *App) Stop() error {
	const op = "storageapp.Stop"
	a.log.With(slog.String("op", op), slog.String("driver", a.driver)).Info("stopping storage app")

	if err := a.close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
