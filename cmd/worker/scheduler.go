package main

import (
	"os"

	"pointhub-backend/internal/infrastructure/queue"
	"pointhub-backend/pkg/container"
	"pointhub-backend/pkg/logger"
)

// asynqScheduler wraps queue.Scheduler with additional functionality
type asynqScheduler struct {
	*queue.Scheduler
}

func setupScheduler(c *container.Container) *asynqScheduler {
	scheduler := queue.NewScheduler(c.RedisClientOpt(), c.Config.Jobs)

	if err := scheduler.RegisterJobs(); err != nil {
		logger.Error("failed to register periodic jobs", err)
		os.Exit(1)
	}

	go func() {
		logger.Info("scheduler starting", nil)
		if err := scheduler.Start(); err != nil {
			logger.Error("scheduler failed", err)
			os.Exit(1)
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

func (s *asynqScheduler) Shutdown() {
	s.Scheduler.Shutdown()
	logger.Info("scheduler stopped", nil)
}
