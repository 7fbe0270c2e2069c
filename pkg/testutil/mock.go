package testutil

import (
	"context"
	"time"

	chain "github.com/fundraisely/backend/internal/domain/chain/solana"
	"github.com/fundraisely/backend/pkg/errorx"
	"github.com/fundraisely/backend/pkg/pubsub"

	"github.com/redis/go-redis/v9"
)

type MockDispatcher struct {
	DispatchFunc    func(ctx context.Context, req *chain.DispatchedTxRequest) *chain.DispatchedTxResult
	CurrentSlotFunc func(ctx context.Context) (uint64, error)
}

func (m *MockDispatcher) Dispatch(
	ctx context.Context, req *chain.DispatchedTxRequest,
) *chain.DispatchedTxResult {
	if m.DispatchFunc != nil {
		return m.DispatchFunc(ctx, req)
	}

	return chain.NewDispatchTxSuccess(req, "mock-tx-hash")
}

func (m *MockDispatcher) CurrentSlot(ctx context.Context) (uint64, error) {
	if m.CurrentSlotFunc != nil {
		return m.CurrentSlotFunc(ctx)
	}

	return 1000, nil
}

type MockPublisher struct {
	PublishFunc func(context.Context, string, *pubsub.Pack) error
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	return nil
}

type MockRedisClient struct {
	ExistFunc           func(ctx context.Context, key string) (bool, error)
	DelFunc             func(ctx context.Context, key ...string) error
	ZAddFunc            func(ctx context.Context, key string, z redis.Z) error
	ZRangeByScoreFunc   func(ctx context.Context, key string, min, max string) ([]string, error)
	ZRemRangeByRankFunc func(ctx context.Context, key string, start, stop int64) error
	ZCardFunc           func(ctx context.Context, key string) (int64, error)
	SetFunc             func(ctx context.Context, key, value string) error
	SetNXFunc           func(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	SetObjFunc          func(ctx context.Context, key string, obj any, ttl time.Duration) error
	GetFunc             func(ctx context.Context, key string) (string, error)
	GetObjFunc          func(ctx context.Context, key string, v any) error
}

func (m *MockRedisClient) Exist(ctx context.Context, key string) (bool, error) {
	if m.ExistFunc != nil {
		return m.ExistFunc(ctx, key)
	}

	return false, nil
}

func (m *MockRedisClient) Del(ctx context.Context, key ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, key...)
	}

	return nil
}

func (m *MockRedisClient) ZAdd(ctx context.Context, key string, z redis.Z) error {
	if m.ZAddFunc != nil {
		return m.ZAddFunc(ctx, key, z)
	}

	return nil
}

func (m *MockRedisClient) ZRangeByScore(
	ctx context.Context, key string, min, max string,
) ([]string, error) {
	if m.ZRangeByScoreFunc != nil {
		return m.ZRangeByScoreFunc(ctx, key, min, max)
	}

	return nil, nil
}

func (m *MockRedisClient) ZRemRangeByRank(
	ctx context.Context, key string, start, stop int64,
) error {
	if m.ZRemRangeByRankFunc != nil {
		return m.ZRemRangeByRankFunc(ctx, key, start, stop)
	}

	return nil
}

func (m *MockRedisClient) ZCard(ctx context.Context, key string) (int64, error) {
	if m.ZCardFunc != nil {
		return m.ZCardFunc(ctx, key)
	}

	return 0, nil
}

func (m *MockRedisClient) Set(ctx context.Context, key, value string) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value)
	}

	return nil
}

func (m *MockRedisClient) SetNX(
	ctx context.Context, key, value string, ttl time.Duration,
) (bool, error) {
	if m.SetNXFunc != nil {
		return m.SetNXFunc(ctx, key, value, ttl)
	}

	return true, nil
}

func (m *MockRedisClient) SetObj(
	ctx context.Context, key string, obj any, ttl time.Duration,
) error {
	if m.SetObjFunc != nil {
		return m.SetObjFunc(ctx, key, obj, ttl)
	}

	return nil
}

func (m *MockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}

	return "", errorx.New(errorx.NotFound, "Not found key %s", key)
}

func (m *MockRedisClient) GetObj(ctx context.Context, key string, v any) error {
	if m.GetObjFunc != nil {
		return m.GetObjFunc(ctx, key, v)
	}

	return errorx.New(errorx.NotFound, "Not found key %s", key)
}

func (m *MockRedisClient) Unwrap() *redis.Client {
	return nil
}
