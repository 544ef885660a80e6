package bus

import (
	"context"
	"sync"

	"github.com/kajkor/kajkor-backend/internal/platform/logger"
	"github.com/kajkor/kajkor-backend/internal/realtime"
)

const DefaultChannel = "notifications"

// logBus is the in-process fallback used when no redis address is configured.
// Events are logged and fanned out to local forwarders.
type logBus struct {
	log *logger.Logger

	mu        sync.RWMutex
	listeners []func(ev realtime.Event)
}

func NewLogBus(log *logger.Logger) Bus {
	return &logBus{log: log.With("service", "LogNotificationBus")}
}

func (b *logBus) Publish(ctx context.Context, ev realtime.Event) error {
	b.log.Info("notification queued",
		"notification_id", ev.NotificationID,
		"user_id", ev.UserID,
		"type", ev.Type,
		"scheduled_at", ev.ScheduledAt,
	)
	b.mu.RLock()
	listeners := append([]func(realtime.Event){}, b.listeners...)
	b.mu.RUnlock()
	for _, fn := range listeners {
		fn(ev)
	}
	return nil
}

func (b *logBus) StartForwarder(ctx context.Context, onEvent func(ev realtime.Event)) error {
	if onEvent == nil {
		return nil
	}
	b.mu.Lock()
	b.listeners = append(b.listeners, onEvent)
	b.mu.Unlock()
	return nil
}

func (b *logBus) Close() error {
	b.mu.Lock()
	b.listeners = nil
	b.mu.Unlock()
	return nil
}

// New picks the redis bus when addr is set and the log bus otherwise.
func New(log *logger.Logger, addr, channel string) (Bus, error) {
	if addr == "" {
		return NewLogBus(log), nil
	}
	return NewRedisBus(log, addr, channel)
}
