package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BariVakhidov/guestlist/internal/domain/models"
	"github.com/BariVakhidov/guestlist/internal/lib/token"
	"github.com/BariVakhidov/guestlist/internal/storage"
)

// Storage caches guest cards by lookup key. Only the card projection is
// cached, never contact details.
type Storage struct {
	client *redis.Client
	ttl    time.Duration
}

func New(addr, password string, ttl time.Duration) *Storage {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	return &Storage{client: client, ttl: ttl}
}

func (s *Storage) CachedGuest(ctx context.Context, key token.Key) (models.GuestCard, error) {
	const op = "storage.redis.CachedGuest"

	data, err := s.client.Get(ctx, cacheKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.GuestCard{}, fmt.Errorf("%s: %w", op, storage.ErrCacheMiss)
		}

		return models.GuestCard{}, fmt.Errorf("%s: %w", op, err)
	}

	var card models.GuestCard
	if err := json.Unmarshal(data, &card); err != nil {
		return models.GuestCard{}, fmt.Errorf("%s: %w", op, err)
	}

	return card, nil
}

func (s *Storage) CacheGuest(ctx context.Context, key token.Key, card models.GuestCard) error {
	const op = "storage.redis.CacheGuest"

	data, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.client.Set(ctx, cacheKey(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ForgetGuest drops both cache entries of a deleted guest.
func (s *Storage) ForgetGuest(ctx context.Context, accessToken string) error {
	const op = "storage.redis.ForgetGuest"

	keys := []string{
		cacheKey(token.Key{Value: accessToken, Kind: token.KindAccessToken}),
		cacheKey(token.Key{Value: token.ShortCode(accessToken), Kind: token.KindShortCode}),
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) Stop() error {
	const op = "storage.redis.Stop"

	if err := s.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func cacheKey(key token.Key) string {
	return fmt.Sprintf("guest:%s:%s", key.Kind, key.Value)
}
