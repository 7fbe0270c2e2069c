package pubsub

import (
	"context"
	"time"
)

type SubscribeHandler func(context.Context, string, *Pack, time.Time)

type Subscriber interface {
	Subscribe(ctx context.Context)
	Stop(ctx context.Context) error
}
