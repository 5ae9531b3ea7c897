package store

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "time"

    "github.com/jaminalder/codex-othello/internal/domain"
    "github.com/redis/go-redis/v9"
)

const defaultRedisTTL = 24 * time.Hour

// RedisStore keeps snapshots as JSON strings with a TTL.
type RedisStore struct {
    rdb *redis.Client
    ttl time.Duration
}

// NewRedisStore wraps an existing client. ttl <= 0 means one day.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
    if ttl <= 0 {
        ttl = defaultRedisTTL
    }
    return &RedisStore{rdb: rdb, ttl: ttl}
}

// OpenRedis parses url, pings the server and returns a store.
func OpenRedis(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
    opts, err := redis.ParseURL(url)
    if err != nil {
        return nil, fmt.Errorf("parse redis url: %w", err)
    }
    rdb := redis.NewClient(opts)
    if err := rdb.Ping(ctx).Err(); err != nil {
        _ = rdb.Close()
        return nil, fmt.Errorf("ping redis: %w", err)
    }
    return NewRedisStore(rdb, ttl), nil
}

func (s *RedisStore) key(id string) string { return "othello:snapshot:" + id }

func (s *RedisStore) Save(ctx context.Context, id string, snap domain.Snapshot) error {
    if err := checkID(id); err != nil {
        return err
    }
    raw, err := json.Marshal(snap)
    if err != nil {
        return err
    }
    return s.rdb.Set(ctx, s.key(id), raw, s.ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context, id string) (domain.Snapshot, error) {
    if err := checkID(id); err != nil {
        return domain.Snapshot{}, err
    }
    raw, err := s.rdb.Get(ctx, s.key(id)).Bytes()
    if errors.Is(err, redis.Nil) {
        return domain.Snapshot{}, ErrNotFound
    }
    if err != nil {
        return domain.Snapshot{}, err
    }
    var snap domain.Snapshot
    if err := json.Unmarshal(raw, &snap); err != nil {
        return domain.Snapshot{}, fmt.Errorf("%w: %v", domain.ErrInvalidSnapshot, err)
    }
    return snap, nil
}

func (s *RedisStore) Close() error { return s.rdb.Close() }
