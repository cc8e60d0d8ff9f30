package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/praxishq/praxis-backend/internal/content"
	"github.com/praxishq/praxis-backend/internal/db"
	"github.com/praxishq/praxis-backend/internal/platform/envutil"
	"github.com/praxishq/praxis-backend/internal/platform/logger"
	"github.com/praxishq/praxis-backend/internal/realtime"
	"github.com/praxishq/praxis-backend/internal/realtime/bus"
	"github.com/praxishq/praxis-backend/internal/repos"
	"github.com/praxishq/praxis-backend/internal/services"
	"github.com/praxishq/praxis-backend/internal/temporalx"
	"github.com/praxishq/praxis-backend/internal/temporalx/temporalworker"
)

func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	theDB := pg.DB()

	contentDir := envutil.String("CASE_CONTENT_DIR", "./content/cases")
	cases, err := content.NewStoreFromDir(log, contentDir)
	if err != nil {
		log.Error("Failed to load case content", "error", err)
		os.Exit(1)
	}

	tc, err := temporalx.NewClient(log)
	if err != nil {
		log.Error("Temporal client init failed", "error", err)
		os.Exit(1)
	}
	if tc == nil {
		log.Error("TEMPORAL_ADDRESS is not set; worker has nothing to poll")
		os.Exit(1)
	}
	defer tc.Close()

	// Debrief pushes go through the shared Redis bus so API instances can
	// forward them to connected clients. Without Redis the rows still land
	// in postgres; the push is just a local no-op.
	var emitter services.SSEEmitter
	var sseBus bus.Bus
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		sseBus, err = bus.NewRedisBus(log)
		if err != nil {
			log.Error("Redis bus init failed", "error", err)
			os.Exit(1)
		}
		defer sseBus.Close()
		emitter = &services.RedisEmitter{Bus: sseBus}
	} else {
		emitter = &services.HubEmitter{Hub: realtime.NewSSEHub(log)}
	}
	notifier := services.NewSimulationNotifier(emitter)

	jobRepo := repos.NewJobRunRepo(theDB, log)
	simulationRepo := repos.NewSimulationRepo(theDB, log)
	debriefRepo := repos.NewDebriefRepo(theDB, log)
	notificationRepo := repos.NewNotificationRepo(theDB, log)

	runner, err := temporalworker.NewRunner(log, tc, theDB, jobRepo, simulationRepo, debriefRepo, notificationRepo, cases, notifier)
	if err != nil {
		log.Error("Worker init failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runner.Start(ctx); err != nil {
		log.Error("Worker failed to start", "error", err)
		os.Exit(1)
	}

	log.Info("Debrief worker running")
	<-ctx.Done()
	log.Info("Shutting down worker")
}
