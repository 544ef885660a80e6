package realtime

import (
	"time"

	"github.com/google/uuid"
)

// Event is the payload published for every queued notification.
type Event struct {
	NotificationID uuid.UUID      `json:"notificationId"`
	UserID         uuid.UUID      `json:"userId"`
	TargetID       *uuid.UUID     `json:"targetId,omitempty"`
	Type           string         `json:"type"`
	Title          string         `json:"title"`
	Body           string         `json:"body"`
	ScheduledAt    time.Time      `json:"scheduledAt"`
	Payload        map[string]any `json:"payload,omitempty"`
}
