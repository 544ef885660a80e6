package services

import (
	"context"
	"math"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kajkor/kajkor-backend/internal/data/repos"
	types "github.com/kajkor/kajkor-backend/internal/domain"
	"github.com/kajkor/kajkor-backend/internal/platform/apierr"
	"github.com/kajkor/kajkor-backend/internal/platform/clock"
	"github.com/kajkor/kajkor-backend/internal/platform/ctxutil"
	"github.com/kajkor/kajkor-backend/internal/platform/dbctx"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
)

type ProgressSummary struct {
	TotalTargets     int   `json:"totalTargets"`
	TotalUnits       int   `json:"totalUnits"`
	CompletedUnits   int   `json:"completedUnits"`
	CompletedTargets int   `json:"completedTargets"`
	DueTargets       int   `json:"dueTargets"`
	MissedDeadlines  int   `json:"missedDeadlines"`
	CompletionRate   int   `json:"completionRate"`
	LongestStreak    int   `json:"longestStreak"`
	ActiveStreaks    int   `json:"activeStreaks"`
	OpenTasks        int64 `json:"openTasks"`
	CompletedTasks   int64 `json:"completedTasks"`
}

type ProgressDashboard struct {
	Targets []*types.Target `json:"targets"`
	Summary ProgressSummary `json:"summary"`
}

type ProgressService interface {
	Dashboard(ctx context.Context) (*ProgressDashboard, error)
}

type progressService struct {
	log     *logger.Logger
	targets repos.TargetRepo
	tasks   repos.TaskRepo
	clock   clock.Clock
}

func NewProgressService(log *logger.Logger, targets repos.TargetRepo, tasks repos.TaskRepo, clk clock.Clock) ProgressService {
	if clk == nil {
		clk = clock.System()
	}
	return &progressService{
		log:     log.With("service", "ProgressService"),
		targets: targets,
		tasks:   tasks,
		clock:   clk,
	}
}

func (s *progressService) Dashboard(ctx context.Context) (*ProgressDashboard, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized(errUnauthorizedUser)
	}

	var (
		rows       []*types.Target
		open, done int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.targets.ListByUser(dbctx.Context{Ctx: gctx}, userID)
		return err
	})
	if s.tasks != nil {
		g.Go(func() error {
			var err error
			open, done, err = s.tasks.CountByUser(dbctx.Context{Ctx: gctx}, userID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, internalError(s.log, "progress.dashboard", err)
	}

	summary := summarize(rows, s.clock)
	summary.OpenTasks = open
	summary.CompletedTasks = done
	if rows == nil {
		rows = []*types.Target{}
	}
	return &ProgressDashboard{Targets: rows, Summary: summary}, nil
}

func summarize(rows []*types.Target, clk clock.Clock) ProgressSummary {
	now := clk.Now()
	out := ProgressSummary{TotalTargets: len(rows)}
	for _, t := range rows {
		days := t.EffectiveTotalDays()
		completed := min(t.Completed, max(days, 0))
		out.TotalUnits += days
		out.CompletedUnits += completed
		finished := days > 0 && completed >= days
		if finished {
			out.CompletedTargets++
		}
		if t.Deadline != nil && !finished {
			if t.Deadline.Before(now) {
				out.MissedDeadlines++
			} else {
				out.DueTargets++
			}
		}
		if t.Streak > out.LongestStreak {
			out.LongestStreak = t.Streak
		}
		if t.Streak > 0 {
			out.ActiveStreaks++
		}
	}
	if out.TotalUnits > 0 {
		out.CompletionRate = int(math.Round(float64(out.CompletedUnits) / float64(out.TotalUnits) * 100))
	}
	return out
}
