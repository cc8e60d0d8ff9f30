package app

import (
	"gorm.io/gorm"

	"github.com/praxishq/praxis-backend/internal/content"
	"github.com/praxishq/praxis-backend/internal/platform/logger"
	"github.com/praxishq/praxis-backend/internal/realtime"
	"github.com/praxishq/praxis-backend/internal/services"
	"github.com/praxishq/praxis-backend/internal/temporalx"
)

type Services struct {
	Auth         services.AuthService
	User         services.UserService
	Prereq       services.PrereqService
	Simulation   services.SimulationService
	Completion   services.CompletionService
	Job          services.JobService
	Notification services.NotificationService
	Forum        services.ForumService
	Lesson       services.LessonService
	Notifier     services.SimulationNotifier
}

func wireServices(
	db *gorm.DB,
	log *logger.Logger,
	cfg Config,
	reposet Repos,
	clients Clients,
	cases content.Store,
	hub *realtime.SSEHub,
) Services {
	log.Info("Wiring services")

	var emitter services.SSEEmitter
	if clients.SSEBus != nil {
		emitter = &services.RedisEmitter{Bus: clients.SSEBus}
	} else {
		emitter = &services.HubEmitter{Hub: hub}
	}
	notifier := services.NewSimulationNotifier(emitter)

	jobSvc := services.NewJobService(db, log, reposet.JobRun, clients.Temporal, temporalx.LoadConfig().TaskQueue)
	notificationSvc := services.NewNotificationService(db, log, reposet.Notification, notifier)
	forumSvc := services.NewForumService(db, log, reposet.ForumThread, reposet.ForumPost)
	completionSvc := services.NewCompletionService(log, jobSvc, notificationSvc, forumSvc, notifier, cfg.CompletionTimeout)
	prereqSvc := services.NewPrereqService(db, log, cases, reposet.Lesson, reposet.LessonCompletion)
	simulationSvc := services.NewSimulationService(db, log, cases, reposet.Simulation, reposet.UserEvent, prereqSvc, completionSvc, notifier)

	return Services{
		Auth:         services.NewAuthService(db, log, reposet.User, reposet.UserToken, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		User:         services.NewUserService(db, log, reposet.User),
		Prereq:       prereqSvc,
		Simulation:   simulationSvc,
		Completion:   completionSvc,
		Job:          jobSvc,
		Notification: notificationSvc,
		Forum:        forumSvc,
		Lesson:       services.NewLessonService(db, log, reposet.Lesson, reposet.LessonCompletion),
		Notifier:     notifier,
	}
}
