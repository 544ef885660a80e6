package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/kajkor/kajkor-backend/internal/data/repos"
	types "github.com/kajkor/kajkor-backend/internal/domain"
	domainagg "github.com/kajkor/kajkor-backend/internal/domain/aggregates"
	"github.com/kajkor/kajkor-backend/internal/domain/progress"
	"github.com/kajkor/kajkor-backend/internal/modules/progression"
	"github.com/kajkor/kajkor-backend/internal/platform/apierr"
	"github.com/kajkor/kajkor-backend/internal/platform/clock"
	"github.com/kajkor/kajkor-backend/internal/platform/ctxutil"
	"github.com/kajkor/kajkor-backend/internal/platform/dbctx"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
)

var targetTracer = otel.Tracer("github.com/kajkor/kajkor-backend/internal/services/target")

type CreateTargetRequest struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Type         string       `json:"type"`
	SkillName    string       `json:"skillName"`
	Total        int          `json:"total"`
	TotalDays    int          `json:"totalDays"`
	DailyMinutes int          `json:"dailyMinutes"`
	Deadline     OptionalTime `json:"deadline"`
	DayPlans     OptionalJSON `json:"dayPlans"`
}

// TargetPatch is the body of PATCH /targets/:id. Counters and logs are not patchable.
type TargetPatch struct {
	Title        OptionalString `json:"title"`
	Description  OptionalString `json:"description"`
	Type         OptionalString `json:"type"`
	SkillName    OptionalString `json:"skillName"`
	Deadline     OptionalTime   `json:"deadline"`
	DailyMinutes OptionalInt    `json:"dailyMinutes"`
	Total        OptionalInt    `json:"total"`
	TotalDays    OptionalInt    `json:"totalDays"`
	DayPlans     OptionalJSON   `json:"dayPlans"`
	Status       OptionalString `json:"status"`
}

type CompleteDayRequest struct {
	Notes     string `json:"notes"`
	TimeSpent *int   `json:"timeSpent"`
}

type MilestoneRequest struct {
	Day   int    `json:"day"`
	Title string `json:"title"`
}

// TodayTarget is a target as shown on the today screen.
type TodayTarget struct {
	*types.Target
	IsCompletedToday bool               `json:"isCompletedToday"`
	TodayLog         *progress.DailyLog `json:"todayLog"`
}

type StartNextResult struct {
	Target   *types.Target
	Advanced bool
	Message  string
}

type TargetService interface {
	List(ctx context.Context) ([]*types.Target, error)
	Get(ctx context.Context, targetID uuid.UUID) (*types.Target, error)
	Checkins(ctx context.Context, targetID uuid.UUID) ([]*types.Checkin, error)
	Create(ctx context.Context, req CreateTargetRequest) (*types.Target, error)
	Today(ctx context.Context) ([]TodayTarget, error)

	CompleteDay(ctx context.Context, targetID uuid.UUID, req CompleteDayRequest) (*types.Target, error)
	SkipDay(ctx context.Context, targetID uuid.UUID) (*types.Target, error)
	StartNextDay(ctx context.Context, targetID uuid.UUID) (*StartNextResult, error)
	CanStartNextDay(ctx context.Context, targetID uuid.UUID) (progression.NextDayStatus, error)

	Update(ctx context.Context, targetID uuid.UUID, patch TargetPatch) (*types.Target, error)
	AddMilestone(ctx context.Context, targetID uuid.UUID, req MilestoneRequest) (*types.Target, error)
	Increment(ctx context.Context, targetID uuid.UUID) (*types.Target, error)
}

type targetService struct {
	db        *gorm.DB
	log       *logger.Logger
	targets   repos.TargetRepo
	checkins  repos.CheckinRepo
	aggregate domainagg.TargetAggregate
	locations LocationResolver
	notifier  NotificationNotifier
	clock     clock.Clock
}

func NewTargetService(
	db *gorm.DB,
	log *logger.Logger,
	targets repos.TargetRepo,
	checkins repos.CheckinRepo,
	aggregate domainagg.TargetAggregate,
	locations LocationResolver,
	notifier NotificationNotifier,
	clk clock.Clock,
) TargetService {
	if clk == nil {
		clk = clock.System()
	}
	return &targetService{
		db:        db,
		log:       log.With("service", "TargetService"),
		targets:   targets,
		checkins:  checkins,
		aggregate: aggregate,
		locations: locations,
		notifier:  notifier,
		clock:     clk,
	}
}

func (s *targetService) owner(ctx context.Context) (uuid.UUID, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return uuid.Nil, apierr.Unauthorized(errUnauthorizedUser)
	}
	return userID, nil
}

func (s *targetService) ref(ctx context.Context, userID, targetID uuid.UUID) domainagg.TargetRef {
	ref := domainagg.TargetRef{UserID: userID, TargetID: targetID, Now: s.clock.Now()}
	if s.locations != nil {
		ref.Location = s.locations.Location(dbctx.Context{Ctx: ctx}, userID)
	}
	return ref
}

func (s *targetService) startSpan(ctx context.Context, name string, targetID uuid.UUID) (context.Context, trace.Span) {
	return targetTracer.Start(ctx, name, trace.WithAttributes(attribute.String("target.id", targetID.String())))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("outcome", string(domainagg.CodeOf(err))))
	} else {
		span.SetAttributes(attribute.String("outcome", "ok"))
	}
	span.End()
}

// normalizeForRead repairs day plan drift on the returned copy without writing it back.
// A nil state means the row could not be decoded and is returned as stored.
func (s *targetService) normalizeForRead(t *types.Target) *progression.State {
	state, err := progression.Load(t)
	if err != nil {
		s.log.Warn("Target state could not be decoded", "target_id", t.ID, "error", err)
		return nil
	}
	if err := state.Store(t); err != nil {
		s.log.Warn("Target state could not be encoded", "target_id", t.ID, "error", err)
	}
	return state
}

func (s *targetService) List(ctx context.Context) ([]*types.Target, error) {
	userID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.targets.ListByUser(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, internalError(s.log, "target.list", err)
	}
	for _, t := range rows {
		s.normalizeForRead(t)
	}
	return rows, nil
}

func (s *targetService) Get(ctx context.Context, targetID uuid.UUID) (*types.Target, error) {
	userID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}
	row, err := s.targets.GetByIDForUser(dbctx.Context{Ctx: ctx}, userID, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.Missing(msgTargetNotFound)
		}
		return nil, internalError(s.log, "target.get", err)
	}
	s.normalizeForRead(row)
	return row, nil
}

// Checkins lists the per-date history of one target, oldest first.
func (s *targetService) Checkins(ctx context.Context, targetID uuid.UUID) ([]*types.Checkin, error) {
	userID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := s.targets.GetByIDForUser(dbc, userID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.Missing(msgTargetNotFound)
		}
		return nil, internalError(s.log, "target.checkins", err)
	}
	rows, err := s.checkins.ListByTarget(dbc, targetID)
	if err != nil {
		return nil, internalError(s.log, "target.checkins", err)
	}
	return rows, nil
}

func (s *targetService) Create(ctx context.Context, req CreateTargetRequest) (*types.Target, error) {
	userID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	switch {
	case title == "":
		return nil, apierr.Validation("Title is required")
	case req.Total < 0 || req.TotalDays < 0:
		return nil, apierr.Validation("total and totalDays must not be negative")
	case req.DailyMinutes < 0:
		return nil, apierr.Validation("dailyMinutes must not be negative")
	}

	state := progression.NewState(req.Total, req.TotalDays, req.DailyMinutes, req.DayPlans.Value)
	row := &types.Target{
		UserID:      userID,
		Title:       title,
		Description: req.Description,
		Type:        strings.TrimSpace(req.Type),
		SkillName:   strings.TrimSpace(req.SkillName),
		Deadline:    req.Deadline.Value,
	}
	if err := state.Store(row); err != nil {
		return nil, internalError(s.log, "target.create", err)
	}
	if _, err := s.targets.Create(dbctx.Context{Ctx: ctx}, []*types.Target{row}); err != nil {
		return nil, internalError(s.log, "target.create", err)
	}
	s.log.Info("Target created", "target_id", row.ID, "user_id", userID, "total_days", state.Days())
	return row, nil
}

func (s *targetService) Today(ctx context.Context) ([]TodayTarget, error) {
	userID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.targets.ListByUser(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, internalError(s.log, "target.today", err)
	}
	ref := s.ref(ctx, userID, uuid.Nil)
	eng := progression.New(ref.Now, ref.Location)
	out := make([]TodayTarget, 0, len(rows))
	for _, t := range rows {
		view := TodayTarget{Target: t}
		if state := s.normalizeForRead(t); state != nil {
			view.IsCompletedToday, view.TodayLog = eng.IsCompletedToday(state)
		}
		out = append(out, view)
	}
	return out, nil
}

func (s *targetService) CompleteDay(ctx context.Context, targetID uuid.UUID, req CompleteDayRequest) (_ *types.Target, err error) {
	ctx, span := s.startSpan(ctx, "target.complete_day", targetID)
	defer func() { endSpan(span, err) }()

	userID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.aggregate.CompleteDay(ctx, domainagg.CompleteDayInput{
		TargetRef: s.ref(ctx, userID, targetID),
		Notes:     req.Notes,
		TimeSpent: req.TimeSpent,
	})
	if err != nil {
		return nil, apiErrorFromAggregate(s.log, "target.complete_day", err, msgTargetNotFound)
	}
	span.SetAttributes(
		attribute.Int("target.current_day", res.Target.CurrentDay),
		attribute.Int("target.streak", res.Target.Streak),
	)
	if res.StreakNotification != nil && s.notifier != nil {
		s.notifier.Queued(ctx, res.StreakNotification)
	}
	return res.Target, nil
}

func (s *targetService) SkipDay(ctx context.Context, targetID uuid.UUID) (_ *types.Target, err error) {
	ctx, span := s.startSpan(ctx, "target.skip_day", targetID)
	defer func() { endSpan(span, err) }()

	userID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.aggregate.SkipDay(ctx, s.ref(ctx, userID, targetID))
	if err != nil {
		return nil, apiErrorFromAggregate(s.log, "target.skip_day", err, msgTargetNotFound)
	}
	return res.Target, nil
}

func (s *targetService) StartNextDay(ctx context.Context, targetID uuid.UUID) (_ *StartNextResult, err error) {
	ctx, span := s.startSpan(ctx, "target.start_next_day", targetID)
	defer func() { endSpan(span, err) }()

	userID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.aggregate.StartNextDay(ctx, s.ref(ctx, userID, targetID))
	if err != nil {
		return nil, apiErrorFromAggregate(s.log, "target.start_next_day", err, msgTargetNotFound)
	}
	span.SetAttributes(attribute.Bool("target.advanced", res.Advanced))
	return &StartNextResult{Target: res.Target, Advanced: res.Advanced, Message: res.Message}, nil
}

func (s *targetService) CanStartNextDay(ctx context.Context, targetID uuid.UUID) (progression.NextDayStatus, error) {
	userID, err := s.owner(ctx)
	if err != nil {
		return progression.NextDayStatus{}, err
	}
	row, err := s.targets.GetByIDForUser(dbctx.Context{Ctx: ctx}, userID, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return progression.NextDayStatus{}, apierr.Missing(msgTargetNotFound)
		}
		return progression.NextDayStatus{}, internalError(s.log, "target.can_start_next_day", err)
	}
	state, err := progression.Load(row)
	if err != nil {
		return progression.NextDayStatus{}, apiErrorFromAggregate(s.log, "target.can_start_next_day", err, msgTargetNotFound)
	}
	ref := s.ref(ctx, userID, targetID)
	return progression.New(ref.Now, ref.Location).CanStartNextDay(state), nil
}

func (s *targetService) Update(ctx context.Context, targetID uuid.UUID, patch TargetPatch) (_ *types.Target, err error) {
	ctx, span := s.startSpan(ctx, "target.update", targetID)
	defer func() { endSpan(span, err) }()

	userID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}
	in := domainagg.UpdateTargetInput{TargetRef: s.ref(ctx, userID, targetID)}
	if patch.Title.Set {
		if patch.Title.Value == nil {
			return nil, apierr.Validation("Title must not be empty")
		}
		in.Title = patch.Title.Value
	}
	if patch.Description.Set {
		desc := ""
		if patch.Description.Value != nil {
			desc = *patch.Description.Value
		}
		in.Description = &desc
	}
	if patch.Type.Set && patch.Type.Value != nil {
		in.Type = patch.Type.Value
	}
	if patch.SkillName.Set {
		skill := ""
		if patch.SkillName.Value != nil {
			skill = *patch.SkillName.Value
		}
		in.SkillName = &skill
	}
	if patch.Deadline.Set {
		if patch.Deadline.Value == nil {
			in.ClearDeadline = true
		} else {
			in.Deadline = patch.Deadline.Value
		}
	}
	if patch.DailyMinutes.Set && patch.DailyMinutes.Value != nil {
		in.DailyMinutes = patch.DailyMinutes.Value
	}
	if patch.Total.Set && patch.Total.Value != nil {
		in.Total = patch.Total.Value
	}
	if patch.TotalDays.Set && patch.TotalDays.Value != nil {
		in.TotalDays = patch.TotalDays.Value
	}
	if patch.DayPlans.Set {
		in.DayPlans = patch.DayPlans.Value
		if in.DayPlans == nil {
			in.DayPlans = []byte("null")
		}
	}
	if patch.Status.Set && patch.Status.Value != nil {
		status := strings.ToLower(strings.TrimSpace(*patch.Status.Value))
		in.Status = &status
	}

	res, err := s.aggregate.Update(ctx, in)
	if err != nil {
		return nil, apiErrorFromAggregate(s.log, "target.update", err, msgTargetNotFound)
	}
	return res.Target, nil
}

func (s *targetService) AddMilestone(ctx context.Context, targetID uuid.UUID, req MilestoneRequest) (_ *types.Target, err error) {
	ctx, span := s.startSpan(ctx, "target.add_milestone", targetID)
	defer func() { endSpan(span, err) }()

	userID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.aggregate.AddMilestone(ctx, domainagg.AddMilestoneInput{
		TargetRef: s.ref(ctx, userID, targetID),
		Day:       req.Day,
		Title:     req.Title,
	})
	if err != nil {
		return nil, apiErrorFromAggregate(s.log, "target.add_milestone", err, msgTargetNotFound)
	}
	return res.Target, nil
}

func (s *targetService) Increment(ctx context.Context, targetID uuid.UUID) (_ *types.Target, err error) {
	ctx, span := s.startSpan(ctx, "target.increment", targetID)
	defer func() { endSpan(span, err) }()

	userID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.aggregate.Increment(ctx, s.ref(ctx, userID, targetID))
	if err != nil {
		return nil, apiErrorFromAggregate(s.log, "target.increment", err, msgTargetNotFound)
	}
	span.SetAttributes(attribute.Bool("target.changed", res.Changed))
	return res.Target, nil
}
