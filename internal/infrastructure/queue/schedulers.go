package queue

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"pointhub-backend/internal/config"
	"pointhub-backend/internal/shared"
	"pointhub-backend/internal/shared/utils"
	"pointhub-backend/pkg/logger"
)

// Scheduler enqueues the periodic loyalty jobs.
type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobsConfig
}

func NewScheduler(redisOpt asynq.RedisClientOpt, jobConfig config.JobsConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

// RegisterJobs registers every periodic job.
func (s *Scheduler) RegisterJobs() error {
	return s.registerVoucherSweepJob()
}

// ================================================
// Voucher expiry sweep (VOUCHER_SWEEP_CRON, default every 15 minutes)
// ================================================
// Reads derive EXPIRED on their own; the sweep only keeps the stored
// status in line for reports and SQL consumers.
func (s *Scheduler) registerVoucherSweepJob() error {
	task, err := utils.NewTask(shared.TypeSweepExpiredVoucher, shared.SweepExpiredPayload{
		BatchSize: s.jobConfig.VoucherSweepBatch,
	})
	if err != nil {
		return err
	}

	_, err = s.scheduler.Register(
		s.jobConfig.VoucherSweepCron,
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		logger.Error("failed to register voucher sweep job", err)
		return fmt.Errorf("register %s: %w", shared.TypeSweepExpiredVoucher, err)
	}

	logger.Info("registered voucher sweep job", map[string]interface{}{
		"cron": s.jobConfig.VoucherSweepCron,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
