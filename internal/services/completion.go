package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/praxishq/praxis-backend/internal/content"
	"github.com/praxishq/praxis-backend/internal/pkg/dbctx"
	"github.com/praxishq/praxis-backend/internal/platform/logger"
	"github.com/praxishq/praxis-backend/internal/types"
)

// CompletionService fires the side effects of a completed simulation:
// debrief-scoring job, user notification, and a seeded forum thread. Every
// effect is best-effort; failures are logged and swallowed because the
// completion transition has already committed.
type CompletionService interface {
	Fire(ctx context.Context, sim *types.Simulation, c *content.Case)
}

type completionService struct {
	log           *logger.Logger
	jobs          JobService
	notifications NotificationService
	forum         ForumService
	notify        SimulationNotifier
	timeout       time.Duration
}

func NewCompletionService(
	baseLog *logger.Logger,
	jobs JobService,
	notifications NotificationService,
	forum ForumService,
	notify SimulationNotifier,
	timeout time.Duration,
) CompletionService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &completionService{
		log:           baseLog.With("service", "CompletionService"),
		jobs:          jobs,
		notifications: notifications,
		forum:         forum,
		notify:        notify,
		timeout:       timeout,
	}
}

func (s *completionService) Fire(ctx context.Context, sim *types.Simulation, c *content.Case) {
	if sim == nil || c == nil {
		return
	}

	// Detach from the request's cancellation but keep a hard bound; a slow
	// side effect must not hold the completion response hostage.
	effectCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	var g errgroup.Group

	g.Go(func() error {
		if s.jobs == nil {
			return nil
		}
		if _, err := s.jobs.EnqueueDebriefScore(effectCtx, sim.UserID, sim.ID); err != nil {
			s.log.Warn("Debrief job enqueue failed after completion", "simulation_id", sim.ID, "error", err)
		}
		return nil
	})

	g.Go(func() error {
		if s.notifications == nil {
			return nil
		}
		dbc := dbctx.Context{Ctx: effectCtx}
		_, err := s.notifications.Create(dbc, sim.UserID, types.NotificationTypeSimulationCompleted,
			"Case completed",
			fmt.Sprintf("You finished %q. Your debrief is being scored.", c.Title),
			fmt.Sprintf("/cases/%s/debrief", c.ID),
		)
		if err != nil {
			s.log.Warn("Completion notification failed", "simulation_id", sim.ID, "error", err)
		}
		s.notify.SimulationCompleted(sim.UserID, sim, c.Title)
		return nil
	})

	g.Go(func() error {
		if s.forum == nil {
			return nil
		}
		dbc := dbctx.Context{Ctx: effectCtx}
		if _, err := s.forum.SeedCaseThread(dbc, sim.UserID, c); err != nil {
			s.log.Warn("Forum thread seed failed after completion", "simulation_id", sim.ID, "case_id", c.ID, "error", err)
		}
		return nil
	})

	_ = g.Wait()
}
