package preset

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis constructs a redis-backed preset store. A positive TTL makes
// presets expire server-side; zero keeps them forever.
func NewRedis(cfg Config) (Store, error) {
	if cfg.Redis == nil {
		return nil, fmt.Errorf("redis configuration missing")
	}
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis address required")
	}

	opts := &redis.Options{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.Redis.Prefix
	if prefix == "" {
		prefix = "glitch:preset:"
	}

	return &redisStore{
		client: client,
		ttl:    cfg.TTL,
		prefix: prefix,
	}, nil
}

func (s *redisStore) key(name string) string {
	return s.prefix + name
}

func (s *redisStore) Save(ctx context.Context, p Preset) error {
	if p.Name == "" {
		return fmt.Errorf("preset name required")
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(p.Name), data, s.ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, name string) (Preset, error) {
	raw, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return Preset{}, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return Preset{}, err
	}
	var p Preset
	if err := json.Unmarshal(raw, &p); err != nil {
		return Preset{}, err
	}
	return p, nil
}

func (s *redisStore) List(ctx context.Context) ([]Preset, error) {
	var cursor uint64
	names := make([]string, 0)
	pattern := s.prefix + "*"
	for {
		res, nextCursor, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, err
		}
		for _, key := range res {
			names = append(names, strings.TrimPrefix(key, s.prefix))
		}
		if nextCursor == 0 {
			break
		}
		cursor = nextCursor
	}

	out := make([]Preset, 0, len(names))
	for _, name := range names {
		p, err := s.Get(ctx, name)
		if err != nil {
			continue // expired between scan and get
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *redisStore) Remove(ctx context.Context, name string) error {
	return s.client.Del(ctx, s.key(name)).Err()
}

func (s *redisStore) Close(context.Context) error {
	return s.client.Close()
}
