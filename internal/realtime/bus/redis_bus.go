package bus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kajkor/kajkor-backend/internal/platform/logger"
	"github.com/kajkor/kajkor-backend/internal/realtime"
)

const redisConnectTimeout = 5 * time.Second

var errRedisBusClosed = errors.New("redis notification bus not initialized")

// redisBus publishes notification events on a single pub/sub channel so every
// API replica (and `kajkor notifications tail`) sees them.
type redisBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewRedisBus(log *logger.Logger, addr, channel string) (Bus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if addr = strings.TrimSpace(addr); addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}
	if channel = strings.TrimSpace(channel); channel == "" {
		channel = DefaultChannel
	}

	rdb := goredis.NewClient(&goredis.Options{Addr: addr, DialTimeout: redisConnectTimeout})
	ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	return &redisBus{
		log:     log.With("service", "RedisNotificationBus", "channel", channel),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (b *redisBus) Publish(ctx context.Context, ev realtime.Event) error {
	if b == nil || b.rdb == nil {
		return errRedisBusClosed
	}
	raw, err := encodeEvent(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

// StartForwarder returns once the subscription is confirmed; delivery runs
// until ctx ends or the client is closed.
func (b *redisBus) StartForwarder(ctx context.Context, onEvent func(ev realtime.Event)) error {
	if b == nil || b.rdb == nil {
		return errRedisBusClosed
	}
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}
	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}
	go b.forward(ctx, sub, onEvent)
	return nil
}

func (b *redisBus) forward(ctx context.Context, sub *goredis.PubSub, onEvent func(realtime.Event)) {
	defer sub.Close()
	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-msgs:
			if !ok {
				return
			}
			if m == nil {
				continue
			}
			ev, err := decodeEvent(m.Payload)
			if err != nil {
				b.log.Warn("Dropping malformed notification payload", "error", err)
				continue
			}
			onEvent(ev)
		}
	}
}

func (b *redisBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}

// RedisClient returns the client behind a redis bus, or nil for any other bus.
func RedisClient(b Bus) *goredis.Client {
	if rb, ok := b.(*redisBus); ok {
		return rb.rdb
	}
	return nil
}

func encodeEvent(ev realtime.Event) ([]byte, error) {
	raw, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode notification event: %w", err)
	}
	return raw, nil
}

func decodeEvent(payload string) (realtime.Event, error) {
	var ev realtime.Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return realtime.Event{}, fmt.Errorf("decode notification event: %w", err)
	}
	return ev, nil
}
