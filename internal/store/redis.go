package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mmcdole/locker/internal/domain"
)

const defaultRedisKey = "locker:thumbnails"

// RedisOptions configures the Redis backend
type RedisOptions struct {
	Addr        string
	Password    string
	DB          int
	Key         string        // hash holding the locker; defaults to locker:thumbnails
	PingTimeout time.Duration // defaults to 2s
}

// RedisStore implements domain.LockerStore as one Redis hash keyed by Thumbnail.Key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects and pings the server once.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	if opts.Key == "" {
		opts.Key = defaultRedisKey
	}
	if opts.PingTimeout <= 0 {
		opts.PingTimeout = 2 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, opts.PingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}

	return &RedisStore{client: client, key: opts.Key}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) All(ctx context.Context) ([]domain.Thumbnail, error) {
	values, err := s.client.HVals(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []domain.Thumbnail{}, nil
		}
		return nil, fmt.Errorf("redis hvals %s: %w", s.key, err)
	}

	items := make([]domain.Thumbnail, 0, len(values))
	for _, v := range values {
		var item domain.Thumbnail
		if err := json.Unmarshal([]byte(v), &item); err != nil {
			return nil, fmt.Errorf("decode thumbnail: %w", err)
		}
		items = append(items, item)
	}
	return domain.SortByDateTimeDesc(items), nil
}

func (s *RedisStore) Put(ctx context.Context, item domain.Thumbnail) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	if err := s.client.HSet(ctx, s.key, item.Key(), data).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w", item.Key(), err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, item domain.Thumbnail) error {
	if err := s.client.HDel(ctx, s.key, item.Key()).Err(); err != nil {
		return fmt.Errorf("redis hdel %s: %w", item.Key(), err)
	}
	return nil
}
