package app

import (
	"github.com/praxishq/praxis-backend/internal/content"
	"github.com/praxishq/praxis-backend/internal/handlers"
	"github.com/praxishq/praxis-backend/internal/platform/logger"
	"github.com/praxishq/praxis-backend/internal/realtime"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Case         *handlers.CaseHandler
	Simulation   *handlers.SimulationHandler
	Lesson       *handlers.LessonHandler
	Notification *handlers.NotificationHandler
	Forum        *handlers.ForumHandler
	SSE          *handlers.SSEHandler
}

func wireHandlers(log *logger.Logger, serviceset Services, reposet Repos, cases content.Store, hub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers")
	return Handlers{
		Auth:         handlers.NewAuthHandler(serviceset.Auth),
		User:         handlers.NewUserHandler(serviceset.User),
		Case:         handlers.NewCaseHandler(cases, serviceset.Prereq),
		Simulation:   handlers.NewSimulationHandler(serviceset.Simulation, reposet.Debrief, serviceset.Job),
		Lesson:       handlers.NewLessonHandler(serviceset.Lesson),
		Notification: handlers.NewNotificationHandler(serviceset.Notification),
		Forum:        handlers.NewForumHandler(serviceset.Forum),
		SSE:          handlers.NewSSEHandler(hub),
	}
}
