package session

import (
    "context"
    "time"

    "github.com/redis/go-redis/v9"
)

// RedisKV adapts a go-redis client to the KV interface. The driver's miss
// sentinel is translated so the cache never imports redis directly.
type RedisKV struct {
    Client *redis.Client
}

func NewRedisKV(client *redis.Client) *RedisKV { return &RedisKV{Client: client} }

func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
    raw, err := r.Client.Get(ctx, key).Bytes()
    if err == redis.Nil {
        return nil, ErrKeyNotFound
    }
    return raw, err
}

func (r *RedisKV) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
    return r.Client.Set(ctx, key, val, ttl).Err()
}

func (r *RedisKV) Del(ctx context.Context, key string) error {
    return r.Client.Del(ctx, key).Err()
}
