package aggregates

import (
	"context"

	"github.com/google/uuid"

	"github.com/kajkor/kajkor-backend/internal/data/repos"
	types "github.com/kajkor/kajkor-backend/internal/domain"
	domainagg "github.com/kajkor/kajkor-backend/internal/domain/aggregates"
	"github.com/kajkor/kajkor-backend/internal/domain/notification"
	"github.com/kajkor/kajkor-backend/internal/platform/dbctx"
)

type NotificationAggregateDeps struct {
	Base BaseDeps

	Notifications repos.NotificationRepo
}

type notificationAggregate struct {
	deps NotificationAggregateDeps
}

func NewNotificationAggregate(deps NotificationAggregateDeps) domainagg.NotificationAggregate {
	deps.Base = deps.Base.withDefaults()
	return &notificationAggregate{deps: deps}
}

func (a *notificationAggregate) Contract() domainagg.Contract {
	return domainagg.NotificationAggregateContract
}

func (a *notificationAggregate) Cancel(ctx context.Context, in domainagg.CancelNotificationInput) (*types.Notification, error) {
	op := domainagg.NotificationAggregateContract.Op("Cancel")
	if in.UserID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if in.NotificationID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing notification_id", nil)
	}
	if a.deps.Notifications == nil {
		return nil, domainagg.NewError(domainagg.CodeInternal, op, "notification repo not configured", nil)
	}
	at := in.At.UTC()
	if in.At.IsZero() {
		at = a.deps.Base.Clock.Now().UTC()
	}

	var out *types.Notification
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		row, err := a.deps.Notifications.GetByIDForUser(dbc, in.UserID, in.NotificationID)
		if err != nil {
			return err
		}
		err = a.deps.Base.CASGuard.Transition(dbc, StatusTransition{
			Table: types.Notification{}.TableName(),
			ID:    row.ID,
			From:  []string{notification.StatusQueued},
			To:    notification.StatusCancelled,
			At:    at,
		}, "Only queued notifications can be cancelled")
		if err != nil {
			return err
		}
		row.Status = notification.StatusCancelled
		row.UpdatedAt = at
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
