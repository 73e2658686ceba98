package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultOpTimeout = 2 * time.Second

// Storage adapts a go-redis client to fiber.Storage so session and limiter
// middleware can keep their state in Redis. Keys are namespaced by prefix.
type Storage struct {
	rdb    *redis.Client
	prefix string
}

// NewStorage returns a Storage writing keys under prefix.
func NewStorage(rdb *redis.Client, prefix string) *Storage {
	return &Storage{rdb: rdb, prefix: prefix}
}

func (s *Storage) key(k string) string {
	return s.prefix + k
}

// Get returns nil, nil for a missing key.
func (s *Storage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultOpTimeout)
	defer cancel()

	val, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

// Set stores val; a zero exp keeps the key until deleted.
func (s *Storage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultOpTimeout)
	defer cancel()
	return s.rdb.Set(ctx, s.key(key), val, exp).Err()
}

func (s *Storage) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultOpTimeout)
	defer cancel()
	return s.rdb.Del(ctx, s.key(key)).Err()
}

// Reset removes every key under the prefix.
func (s *Storage) Reset() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	iter := s.rdb.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := s.rdb.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return s.rdb.Del(ctx, batch...).Err()
	}
	return nil
}

// Close is a no-op; the client is owned by the caller.
func (s *Storage) Close() error {
	return nil
}
