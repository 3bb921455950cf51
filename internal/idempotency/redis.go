package idempotency

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const pendingValue = "pending"

// RedisStore shares keys between API instances
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisStore creates a store on top of an existing client
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttlOrDefault(ttl)}
}

// NewRedisClient builds a client and verifies it responds
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return client, nil
}

// Name identifies the backend in logs and health output
func (s *RedisStore) Name() string {
	return "redis"
}

// Reserve claims key with SET NX
func (s *RedisStore) Reserve(ctx context.Context, key string) (*Prior, error) {
	k, err := storageKey(key)
	if err != nil {
		return nil, err
	}

	ok, err := s.client.SetNX(ctx, k, pendingValue, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	if ok {
		return nil, nil
	}

	value, err := s.client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// released or expired after SETNX lost the race
		return &Prior{Pending: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read idempotency key: %w", err)
	}
	return parseValue(value), nil
}

func parseValue(value string) *Prior {
	if value == pendingValue {
		return &Prior{Pending: true}
	}
	leadID, err := strconv.ParseInt(value, 10, 64)
	if err != nil || leadID <= 0 {
		return &Prior{Pending: true}
	}
	return &Prior{LeadID: leadID}
}

// Complete stores the lead id for key, refreshing the TTL
func (s *RedisStore) Complete(ctx context.Context, key string, leadID int64) error {
	k, err := storageKey(key)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, k, strconv.FormatInt(leadID, 10), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to complete idempotency key: %w", err)
	}
	return nil
}

// Release deletes key
func (s *RedisStore) Release(ctx context.Context, key string) error {
	k, err := storageKey(key)
	if err != nil {
		return err
	}
	if err := s.client.Del(ctx, k).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}
