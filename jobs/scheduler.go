package jobs

import (
	"context"
	"time"

	"github.com/billix/billix-be/logging"
	"github.com/billix/billix-be/metrics"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds a single run of any job
const DefaultTimeout = 2 * time.Minute

type Job struct {
	Name string
	// Spec is a robfig/cron spec such as "@every 15m" or "0 * * * *"
	Spec string
	Run  func(ctx context.Context) error
}

// Scheduler runs background maintenance on cron specs. A run that is still
// going when the next one is due is skipped.
type Scheduler struct {
	cron    *cron.Cron
	log     *logrus.Entry
	timeout time.Duration
}

func NewScheduler() *Scheduler {
	log := logging.Component("scheduler")
	cronLogger := cron.PrintfLogger(log)
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLogger),
			cron.SkipIfStillRunning(cronLogger),
		)),
		log:     log,
		timeout: DefaultTimeout,
	}
}

func (s *Scheduler) Register(job Job) error {
	_, err := s.cron.AddFunc(job.Spec, func() {
		s.RunOnce(context.Background(), job)
	})
	return err
}

// RunOnce executes the job immediately and records its outcome
func (s *Scheduler) RunOnce(ctx context.Context, job Job) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := job.Run(ctx)
	duration := time.Since(start)
	metrics.RecordJobRun(job.Name, err == nil, duration)

	entry := s.log.WithFields(logrus.Fields{
		"job":      job.Name,
		"duration": duration.String(),
	})
	if err != nil {
		entry.WithError(err).Error("job failed")
		return err
	}
	entry.Debug("job finished")
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish or ctx to expire
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("gave up waiting for running jobs")
	}
}
