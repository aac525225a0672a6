package redisapp

import (
	"log/slog"

	"github.com/BariVakhidov/guestlist/internal/config"
	"github.com/BariVakhidov/guestlist/internal/storage/redis"
)

type App struct {
	Storage *redis.Storage
	log     *slog.Logger
}

func New(log *slog.Logger, cfg config.RedisConfig) *App {
	redisStorage := redis.New(cfg.Addr, cfg.Password, cfg.TTL)

	log.Info("guest cache enabled", slog.String("addr", cfg.Addr), slog.Duration("ttl", cfg.TTL))

	return &App{Storage: redisStorage, log: log}
}

func (a *App) Stop() error {
	const op = "redisapp.Stop"
	a.log.With(slog.String("op", op)).Info("stopping redis app")
	return a.Storage.Stop()
}
