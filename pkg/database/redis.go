package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"workforce-portal/configs"
)

func ConnectRedis(ctx context.Context, cfg configs.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Password: "",
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

// LimiterStorage keeps rate-limiter counters in Redis so several API
// instances share one budget per client. It satisfies fiber.Storage.
type LimiterStorage struct {
	client *redis.Client
	prefix string
}

func NewLimiterStorage(client *redis.Client, prefix string) *LimiterStorage {
	return &LimiterStorage{client: client, prefix: prefix}
}

func (s *LimiterStorage) key(k string) string {
	return s.prefix + k
}

// Get returns nil without error for missing keys, as fiber expects.
func (s *LimiterStorage) Get(key string) ([]byte, error) {
	val, err := s.client.Get(context.Background(), s.key(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return val, err
}

func (s *LimiterStorage) Set(key string, val []byte, exp time.Duration) error {
	if len(key) == 0 || len(val) == 0 {
		return nil
	}
	return s.client.Set(context.Background(), s.key(key), val, exp).Err()
}

func (s *LimiterStorage) Delete(key string) error {
	return s.client.Del(context.Background(), s.key(key)).Err()
}

// Reset deletes only the keys under the storage prefix.
func (s *LimiterStorage) Reset() error {
	ctx := context.Background()
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (s *LimiterStorage) Close() error {
	return s.client.Close()
}
