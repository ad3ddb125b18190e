package cart

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by Storage.Load when no cart exists for the owner.
var ErrNotFound = errors.New("cart not found")

// Storage is the durable side-channel for cart state. The store treats it as
// best-effort: load failures reset to an empty cart, save failures are logged
// and ignored.
type Storage interface {
	Load(ctx context.Context, ownerID string) ([]byte, error)
	Save(ctx context.Context, ownerID string, data []byte) error
	Delete(ctx context.Context, ownerID string) error
}

// RedisStorage keeps one JSON blob per cart owner under cart:{ownerID}.
type RedisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStorage(client *redis.Client, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, ttl: ttl}
}

func (s *RedisStorage) Load(ctx context.Context, ownerID string) ([]byte, error) {
	data, err := s.client.Get(ctx, key(ownerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *RedisStorage) Save(ctx context.Context, ownerID string, data []byte) error {
	return s.client.Set(ctx, key(ownerID), data, s.ttl).Err()
}

func (s *RedisStorage) Delete(ctx context.Context, ownerID string) error {
	return s.client.Del(ctx, key(ownerID)).Err()
}

func key(ownerID string) string {
	return "cart:" + ownerID
}
