// Package redis provides Redis-backed storage for builder session records.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/flowsmith/flowsmith/pkg/persistence"
)

const keyPrefix = "flowsmith:progress:"

// Store persists records as JSON strings in Redis.
type Store struct {
	client *redis.Client
}

// NewStore wraps an existing Redis client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// NewStoreFromAddr connects to a Redis server address.
func NewStoreFromAddr(addr string) *Store {
	return &Store{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func (s *Store) Save(ctx context.Context, key string, record *persistence.Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write record to redis: %w", err)
	}

	return nil
}

func (s *Store) Load(ctx context.Context, key string) (*persistence.Record, error) {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, persistence.ErrRecordNotFound
		}

		return nil, fmt.Errorf("failed to read record from redis: %w", err)
	}

	var record persistence.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse record: %w", err)
	}

	return &record, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete record from redis: %w", err)
	}

	return nil
}

func (s *Store) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close(_ context.Context) error {
	return s.client.Close()
}
