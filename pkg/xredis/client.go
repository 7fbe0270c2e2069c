package xredis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fundraisely/backend/pkg/xcontext"

	"github.com/redis/go-redis/v9"
)

type Client interface {
	Exist(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, key ...string) error

	// Sorted list
	ZAdd(ctx context.Context, key string, z redis.Z) error
	ZRangeByScore(ctx context.Context, key string, min, max string) ([]string, error)
	ZRemRangeByRank(ctx context.Context, key string, start, stop int64) error
	ZCard(ctx context.Context, key string) (int64, error)

	// Single object
	Set(ctx context.Context, key, value string) error
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	GetObj(ctx context.Context, key string, v any) error

	Unwrap() *redis.Client
}

type client struct {
	redisClient *redis.Client
}

func NewClient(ctx context.Context) (*client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:            xcontext.Configs(ctx).Redis.Addr,
		MaxRetries:      5,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		PoolFIFO:        false,
		PoolSize:        5,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &client{redisClient: redisClient}, nil
}

func (c *client) Exist(ctx context.Context, key string) (bool, error) {
	n, err := c.redisClient.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (c *client) Del(ctx context.Context, key ...string) error {
	return c.redisClient.Del(ctx, key...).Err()
}

func (c *client) ZAdd(ctx context.Context, key string, z redis.Z) error {
	return c.redisClient.ZAdd(ctx, key, z).Err()
}

func (c *client) ZRangeByScore(
	ctx context.Context, key string, min, max string,
) ([]string, error) {
	return c.redisClient.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min: min,
		Max: max,
	}).Result()
}

func (c *client) ZRemRangeByRank(ctx context.Context, key string, start, stop int64) error {
	return c.redisClient.ZRemRangeByRank(ctx, key, start, stop).Err()
}

func (c *client) ZCard(ctx context.Context, key string) (int64, error) {
	return c.redisClient.ZCard(ctx, key).Result()
}

func (c *client) Set(ctx context.Context, key, value string) error {
	return c.redisClient.Set(ctx, key, value, 0).Err()
}

func (c *client) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return c.redisClient.SetNX(ctx, key, value, ttl).Result()
}

func (c *client) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	return c.redisClient.Set(ctx, key, b, ttl).Err()
}

func (c *client) Get(ctx context.Context, key string) (string, error) {
	return c.redisClient.Get(ctx, key).Result()
}

func (c *client) GetObj(ctx context.Context, key string, v any) error {
	s, err := c.redisClient.Get(ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(s), v)
}

func (c *client) Unwrap() *redis.Client {
	return c.redisClient
}
