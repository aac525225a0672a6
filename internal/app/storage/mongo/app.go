package mongoapp

import (
	"context"
	"log/slog"

	"github.com/BariVakhidov/guestlist/internal/config"
	"github.com/BariVakhidov/guestlist/internal/storage/mongo"
)

type App struct {
	Storage *mongo.Storage
	log     *slog.Logger
}

func MustCreateApp(ctx context.Context, log *slog.Logger, cfg config.MongoConfig) *App {
	storage, err := mongo.New(ctx, cfg.URI, cfg.User, cfg.Password, cfg.Database)
	if err != nil {
		panic(err)
	}

	log.Info("scan log enabled", slog.String("database", cfg.Database))

	return &App{Storage: storage, log: log}
}

func (a *App) Stop(ctx context.Context) error {
	const op = "mongoapp.Stop"
	a.log.With(slog.String("op", op)).Info("stopping mongo app")
	return a.Storage.Stop(ctx)
}
