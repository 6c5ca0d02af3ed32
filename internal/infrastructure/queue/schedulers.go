package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"bookbuddy-backend/internal/config"
	"bookbuddy-backend/internal/shared"
	"bookbuddy-backend/pkg/logger"
)

// Scheduler wraps asynq.Scheduler and owns the cron registrations for
// recurring jobs.
type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redisAddress string, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
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

// RegisterJobs registers all recurring jobs with the scheduler.
func (s *Scheduler) RegisterJobs() error {
	return s.registerDailyDigestJob()
}

// registerDailyDigestJob schedules the recommendation sweep. The task
// carries an empty user id, which the worker treats as "fan out to every
// user with preference history".
func (s *Scheduler) registerDailyDigestJob() error {
	payload, err := json.Marshal(shared.DailyDigestPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeDailyDigest, payload)

	_, err = s.scheduler.Register(
		s.jobConfig.DailyDigestCron, // default: daily at 9 AM UTC
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Minute),
	)

	if err != nil {
		logger.Error("Failed to register DailyDigest job", err)
		return err
	}

	logger.Info("Registered DailyDigest job", map[string]interface{}{
		"cron": s.jobConfig.DailyDigestCron,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
