package app

import (
	"github.com/gin-gonic/gin"

	"github.com/praxishq/praxis-backend/internal/server"
)

func wireRouter(handlerset Handlers, mw Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:         handlerset.Auth,
		AuthMiddleware:      mw.Auth,
		UserHandler:         handlerset.User,
		CaseHandler:         handlerset.Case,
		SimulationHandler:   handlerset.Simulation,
		LessonHandler:       handlerset.Lesson,
		NotificationHandler: handlerset.Notification,
		ForumHandler:        handlerset.Forum,
		SSEHandler:          handlerset.SSE,
	})
}
