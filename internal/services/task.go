package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kajkor/kajkor-backend/internal/data/repos"
	types "github.com/kajkor/kajkor-backend/internal/domain"
	"github.com/kajkor/kajkor-backend/internal/platform/apierr"
	"github.com/kajkor/kajkor-backend/internal/platform/clock"
	"github.com/kajkor/kajkor-backend/internal/platform/ctxutil"
	"github.com/kajkor/kajkor-backend/internal/platform/dbctx"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"

	msgTaskNotFound = "Task not found"
)

type TaskRequest struct {
	Title    string `json:"title"`
	Deadline string `json:"deadline"`
	Date     string `json:"date"`
}

type TaskService interface {
	List(ctx context.Context, date string) ([]*types.Task, error)
	Create(ctx context.Context, req TaskRequest) (*types.Task, error)
	Update(ctx context.Context, taskID uuid.UUID, req TaskRequest) (*types.Task, error)
	Toggle(ctx context.Context, taskID uuid.UUID) (*types.Task, error)
	Delete(ctx context.Context, taskID uuid.UUID) error
}

type taskService struct {
	log       *logger.Logger
	tasks     repos.TaskRepo
	locations LocationResolver
	clock     clock.Clock
}

func NewTaskService(log *logger.Logger, tasks repos.TaskRepo, locations LocationResolver, clk clock.Clock) TaskService {
	if clk == nil {
		clk = clock.System()
	}
	return &taskService{
		log:       log.With("service", "TaskService"),
		tasks:     tasks,
		locations: locations,
		clock:     clk,
	}
}

func (s *taskService) owner(ctx context.Context) (uuid.UUID, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return uuid.Nil, apierr.Unauthorized(errUnauthorizedUser)
	}
	return userID, nil
}

func (s *taskService) today(ctx context.Context, userID uuid.UUID) string {
	loc := time.UTC
	if s.locations != nil {
		loc = s.locations.Location(dbctx.Context{Ctx: ctx}, userID)
	}
	return s.clock.Now().In(loc).Format(dateLayout)
}

func validDate(v string) bool {
	_, err := time.Parse(dateLayout, v)
	return err == nil
}

func validClock(v string) bool {
	_, err := time.Parse(clockLayout, v)
	return err == nil && len(v) == len(clockLayout)
}

func (s *taskService) List(ctx context.Context, date string) ([]*types.Task, error) {
	userID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}
	date = strings.TrimSpace(date)
	if date != "" && !validDate(date) {
		return nil, apierr.Validation("date must be YYYY-MM-DD")
	}
	rows, err := s.tasks.ListByUser(dbctx.Context{Ctx: ctx}, userID, date)
	if err != nil {
		return nil, internalError(s.log, "task.list", err)
	}
	if rows == nil {
		rows = []*types.Task{}
	}
	return rows, nil
}

// normalize trims the request and checks title, deadline and date.
func (s *taskService) normalize(req *TaskRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.Deadline = strings.TrimSpace(req.Deadline)
	req.Date = strings.TrimSpace(req.Date)
	if req.Title == "" {
		return apierr.Validation("Title is required")
	}
	if req.Deadline != "" && !validClock(req.Deadline) {
		return apierr.Validation("Deadline must be HH:MM")
	}
	if req.Date != "" && !validDate(req.Date) {
		return apierr.Validation("Date must be YYYY-MM-DD")
	}
	return nil
}

func (s *taskService) Create(ctx context.Context, req TaskRequest) (*types.Task, error) {
	userID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.normalize(&req); err != nil {
		return nil, err
	}
	if req.Date == "" {
		req.Date = s.today(ctx, userID)
	}
	now := s.clock.Now().UTC()
	row := &types.Task{
		UserID:    userID,
		Title:     req.Title,
		Date:      req.Date,
		Deadline:  req.Deadline,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.tasks.Create(dbctx.Context{Ctx: ctx}, []*types.Task{row}); err != nil {
		return nil, internalError(s.log, "task.create", err)
	}
	return row, nil
}

func (s *taskService) load(ctx context.Context, userID, taskID uuid.UUID, op string) (*types.Task, error) {
	row, err := s.tasks.GetByIDForUser(dbctx.Context{Ctx: ctx}, userID, taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.Missing(msgTaskNotFound)
	}
	if err != nil {
		return nil, internalError(s.log, op, err)
	}
	return row, nil
}

func (s *taskService) Update(ctx context.Context, taskID uuid.UUID, req TaskRequest) (*types.Task, error) {
	userID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.normalize(&req); err != nil {
		return nil, err
	}
	row, err := s.load(ctx, userID, taskID, "task.update")
	if err != nil {
		return nil, err
	}
	row.Title = req.Title
	row.Deadline = req.Deadline
	if req.Date != "" {
		row.Date = req.Date
	}
	row.UpdatedAt = s.clock.Now().UTC()
	if err := s.tasks.Save(dbctx.Context{Ctx: ctx}, row); err != nil {
		return nil, internalError(s.log, "task.update", err)
	}
	return row, nil
}

func (s *taskService) Toggle(ctx context.Context, taskID uuid.UUID) (*types.Task, error) {
	userID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}
	row, err := s.load(ctx, userID, taskID, "task.toggle")
	if err != nil {
		return nil, err
	}
	now := s.clock.Now().UTC()
	row.IsCompleted = !row.IsCompleted
	if row.IsCompleted {
		row.CompletedAt = &now
	} else {
		row.CompletedAt = nil
	}
	row.UpdatedAt = now
	if err := s.tasks.Save(dbctx.Context{Ctx: ctx}, row); err != nil {
		return nil, internalError(s.log, "task.toggle", err)
	}
	return row, nil
}

func (s *taskService) Delete(ctx context.Context, taskID uuid.UUID) error {
	userID, err := s.owner(ctx)
	if err != nil {
		return err
	}
	deleted, err := s.tasks.DeleteByIDForUser(dbctx.Context{Ctx: ctx}, userID, taskID)
	if err != nil {
		return internalError(s.log, "task.delete", err)
	}
	if !deleted {
		return apierr.Missing(msgTaskNotFound)
	}
	return nil
}
