package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const defaultRedisPrefix = "jpv:"

// RedisKV implements KV interface for redis string keys
type RedisKV struct {
	db     *redis.Client
	prefix string
}

// Get value from redis
func (s *RedisKV) Get(key string) ([]byte, error) {
	data, err := s.db.Get(context.Background(), s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetching %s: %w", key, err)
	}
	return data, nil
}

// Put value to redis
func (s *RedisKV) Put(key string, value []byte) error {
	set := s.db.Set(context.Background(), s.prefix+key, string(value), 0)
	if err := set.Err(); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// NewRedisKV creates RedisKV with given url
func NewRedisKV(url string) (*RedisKV, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisKV{db: rdb, prefix: defaultRedisPrefix}, nil
}

// Close closes redis client
func (s *RedisKV) Close() error {
	return s.db.Close()
}
