package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

// EventBus carries JSON messages over a single redis pub/sub channel.
type EventBus interface {
	Publish(ctx context.Context, msg any) error
	StartForwarder(ctx context.Context, onMessage func(payload []byte)) error
	Channel() string
	Close() error
}

type eventBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewEventBus(log *logger.Logger, addr, channel string) (EventBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = "coursework-events"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return newEventBus(log, rdb, channel), nil
}

func newEventBus(log *logger.Logger, rdb *goredis.Client, channel string) *eventBus {
	return &eventBus{
		log:     log.With("service", "RedisEventBus"),
		rdb:     rdb,
		channel: channel,
	}
}

func (b *eventBus) Channel() string { return b.channel }

func (b *eventBus) Publish(ctx context.Context, msg any) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis event bus not initialized")
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

// StartForwarder subscribes and hands every JSON payload to onMessage
// until ctx is done.
func (b *eventBus) StartForwarder(ctx context.Context, onMessage func(payload []byte)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis event bus not initialized")
	}
	if onMessage == nil {
		return fmt.Errorf("onMessage callback required")
	}
	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				if !json.Valid([]byte(m.Payload)) {
					b.log.Warn("dropping non-JSON redis payload", "channel", m.Channel)
					continue
				}
				onMessage([]byte(m.Payload))
			}
		}
	}()
	return nil
}

func (b *eventBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
