package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	types "github.com/kajkor/kajkor-backend/internal/domain"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
	"github.com/kajkor/kajkor-backend/internal/realtime"
)

const publishTimeout = 2 * time.Second

// EventPublisher is the publishing half of the notification bus.
type EventPublisher interface {
	Publish(ctx context.Context, ev realtime.Event) error
}

// NotificationNotifier announces queued notifications. It never reports failure
// to the caller; the request that queued the row has already succeeded.
type NotificationNotifier interface {
	Queued(ctx context.Context, n *types.Notification)
}

// PublishCounter records publish outcomes. *observability.Metrics satisfies it.
type PublishCounter interface {
	IncNotificationPublished(notificationType string, ok bool)
}

type notificationNotifier struct {
	pub     EventPublisher
	log     *logger.Logger
	counter PublishCounter
}

func NewNotificationNotifier(pub EventPublisher, log *logger.Logger, counter PublishCounter) NotificationNotifier {
	return &notificationNotifier{pub: pub, log: log.With("service", "NotificationNotifier"), counter: counter}
}

func (n *notificationNotifier) Queued(ctx context.Context, row *types.Notification) {
	if n == nil || n.pub == nil || row == nil || row.UserID == uuid.Nil {
		return
	}
	ev := realtime.Event{
		NotificationID: row.ID,
		UserID:         row.UserID,
		TargetID:       row.TargetID,
		Type:           row.Type,
		Title:          row.Title,
		Body:           row.Body,
		ScheduledAt:    row.ScheduledAt,
	}
	if len(row.Payload) > 0 {
		var payload map[string]any
		if err := json.Unmarshal(row.Payload, &payload); err == nil {
			ev.Payload = payload
		}
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	err := n.pub.Publish(pubCtx, ev)
	if err != nil {
		n.log.Warn("Notification publish failed", "notification_id", row.ID, "type", row.Type, "error", err)
	}
	if n.counter != nil {
		n.counter.IncNotificationPublished(row.Type, err == nil)
	}
}
