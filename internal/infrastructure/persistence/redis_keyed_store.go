package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopfront/backend/internal/domain/shared"
)

// defaultRedisKeyPrefix namespaces shopper state away from other users of
// the same Redis database.
const defaultRedisKeyPrefix = "shopfront:state:"

// RedisKeyedStore implements shared.KeyedStore on Redis. It is suitable
// for deployments where several instances share shopper state. Values
// never expire; lifecycle is owned entirely by the calling stores.
type RedisKeyedStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisKeyedStore creates a new Redis-backed keyed store
func NewRedisKeyedStore(cfg RedisConfig) (*RedisKeyedStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("persistence: failed to connect to Redis: %w", err)
	}

	return &RedisKeyedStore{
		client:    client,
		keyPrefix: defaultRedisKeyPrefix,
	}, nil
}

// NewRedisKeyedStoreWithClient creates a store with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisKeyedStoreWithClient(client *redis.Client, keyPrefix string) *RedisKeyedStore {
	if keyPrefix == "" {
		keyPrefix = defaultRedisKeyPrefix
	}
	return &RedisKeyedStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get implements shared.KeyedStore
func (s *RedisKeyedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("persistence: failed to read key %q: %w", key, err)
	}
	return value, true, nil
}

// Set implements shared.KeyedStore
func (s *RedisKeyedStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.keyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("persistence: failed to write key %q: %w", key, err)
	}
	return nil
}

// Delete implements shared.KeyedStore. Deleting a missing key is a no-op.
func (s *RedisKeyedStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("persistence: failed to delete key %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying Redis client
func (s *RedisKeyedStore) Close() error {
	return s.client.Close()
}

// Ensure RedisKeyedStore implements KeyedStore
var _ shared.KeyedStore = (*RedisKeyedStore)(nil)
