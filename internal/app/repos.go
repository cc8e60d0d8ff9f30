package app

import (
	"gorm.io/gorm"

	"github.com/praxishq/praxis-backend/internal/platform/logger"
	"github.com/praxishq/praxis-backend/internal/repos"
)

type Repos struct {
	User             repos.UserRepo
	UserToken        repos.UserTokenRepo
	Lesson           repos.LessonRepo
	LessonCompletion repos.LessonCompletionRepo
	Simulation       repos.SimulationRepo
	JobRun           repos.JobRunRepo
	Debrief          repos.DebriefRepo
	Notification     repos.NotificationRepo
	ForumThread      repos.ForumThreadRepo
	ForumPost        repos.ForumPostRepo
	UserEvent        repos.UserEventRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos")
	return Repos{
		User:             repos.NewUserRepo(db, log),
		UserToken:        repos.NewUserTokenRepo(db, log),
		Lesson:           repos.NewLessonRepo(db, log),
		LessonCompletion: repos.NewLessonCompletionRepo(db, log),
		Simulation:       repos.NewSimulationRepo(db, log),
		JobRun:           repos.NewJobRunRepo(db, log),
		Debrief:          repos.NewDebriefRepo(db, log),
		Notification:     repos.NewNotificationRepo(db, log),
		ForumThread:      repos.NewForumThreadRepo(db, log),
		ForumPost:        repos.NewForumPostRepo(db, log),
		UserEvent:        repos.NewUserEventRepo(db, log),
	}
}
