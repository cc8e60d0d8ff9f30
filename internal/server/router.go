package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/praxishq/praxis-backend/internal/handlers"
	"github.com/praxishq/praxis-backend/internal/middleware"
	"github.com/praxishq/praxis-backend/internal/platform/envutil"
)

type RouterConfig struct {
	AuthHandler         *handlers.AuthHandler
	AuthMiddleware      *middleware.AuthMiddleware
	UserHandler         *handlers.UserHandler
	CaseHandler         *handlers.CaseHandler
	SimulationHandler   *handlers.SimulationHandler
	LessonHandler       *handlers.LessonHandler
	NotificationHandler *handlers.NotificationHandler
	ForumHandler        *handlers.ForumHandler
	SSEHandler          *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("praxis-backend"))

	origins := strings.Split(envutil.String("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173"), ",")
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// Protected
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	protected.GET("/sse/stream", cfg.SSEHandler.Stream)

	api := protected.Group("/api")

	api.GET("/me", cfg.UserHandler.GetMe)

	api.GET("/cases", cfg.CaseHandler.List)
	api.GET("/cases/:id", cfg.CaseHandler.Get)
	api.GET("/cases/:id/gate", cfg.CaseHandler.Gate)
	api.POST("/cases/:id/simulation", cfg.SimulationHandler.Start)

	api.GET("/simulations/:id", cfg.SimulationHandler.Get)
	api.POST("/simulations/:id/stages/:stageId", cfg.SimulationHandler.SubmitStage)
	api.POST("/simulations/:id/complete", cfg.SimulationHandler.Complete)
	api.GET("/simulations/:id/debrief", cfg.SimulationHandler.GetDebrief)
	api.GET("/jobs/:id", cfg.SimulationHandler.GetJob)

	api.GET("/lessons", cfg.LessonHandler.List)
	api.GET("/lessons/completions", cfg.LessonHandler.ListCompletions)
	api.POST("/lessons/:id/complete", cfg.LessonHandler.Complete)

	api.GET("/notifications", cfg.NotificationHandler.List)
	api.POST("/notifications/:id/read", cfg.NotificationHandler.MarkRead)

	api.GET("/forum/threads", cfg.ForumHandler.ListThreads)
	api.POST("/forum/threads", cfg.ForumHandler.CreateThread)
	api.GET("/forum/threads/:id/posts", cfg.ForumHandler.GetThread)
	api.POST("/forum/threads/:id/posts", cfg.ForumHandler.CreatePost)

	return router
}
