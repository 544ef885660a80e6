package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/kajkor/kajkor-backend/internal/data/repos"
	types "github.com/kajkor/kajkor-backend/internal/domain"
	"github.com/kajkor/kajkor-backend/internal/domain/feedback"
	"github.com/kajkor/kajkor-backend/internal/platform/apierr"
	"github.com/kajkor/kajkor-backend/internal/platform/clock"
	"github.com/kajkor/kajkor-backend/internal/platform/ctxutil"
	"github.com/kajkor/kajkor-backend/internal/platform/dbctx"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
)

type FeedbackRequest struct {
	Message string `json:"message"`
	Source  string `json:"source"`
}

type FeedbackService interface {
	Submit(ctx context.Context, req FeedbackRequest) (*types.Feedback, error)
}

type feedbackService struct {
	log      *logger.Logger
	feedback repos.FeedbackRepo
	clock    clock.Clock
}

func NewFeedbackService(log *logger.Logger, feedbackRepo repos.FeedbackRepo, clk clock.Clock) FeedbackService {
	if clk == nil {
		clk = clock.System()
	}
	return &feedbackService{log: log.With("service", "FeedbackService"), feedback: feedbackRepo, clock: clk}
}

func (s *feedbackService) Submit(ctx context.Context, req FeedbackRequest) (*types.Feedback, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized(errUnauthorizedUser)
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return nil, apierr.Validation("Feedback message is required")
	}
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = feedback.DefaultSource
	}
	row := &types.Feedback{
		UserID:    userID,
		Message:   msg,
		Source:    source,
		CreatedAt: s.clock.Now().UTC(),
	}
	if _, err := s.feedback.Create(dbctx.Context{Ctx: ctx}, []*types.Feedback{row}); err != nil {
		return nil, internalError(s.log, "feedback.submit", err)
	}
	s.log.Info("Feedback received", "feedback_id", row.ID, "source", row.Source)
	return row, nil
}
