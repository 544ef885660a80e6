package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kajkor/kajkor-backend/internal/domain/notification"
)

var NotificationAggregateContract = Contract{
	Name:       "Notification",
	LockPrefix: "notification",
	Tables:     []string{"notification"},
}

// NotificationAggregate owns status transitions of queued notifications.
type NotificationAggregate interface {
	Aggregate

	// Cancel moves a queued notification to cancelled. Any other status is CodeConflict.
	Cancel(ctx context.Context, in CancelNotificationInput) (*notification.Notification, error)
}

type CancelNotificationInput struct {
	UserID         uuid.UUID
	NotificationID uuid.UUID
	At             time.Time
}
