package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job is one periodic unit of work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler runs jobs on cron specs. A run still in progress when the next
// tick fires is skipped.
type Scheduler struct {
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	log     *logrus.Entry
}

func NewScheduler(timeout time.Duration) *Scheduler {
	log := logrus.WithField("component", "scheduler")
	cronLog := cron.PrintfLogger(log)
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		ctx:     ctx,
		cancel:  cancel,
		timeout: timeout,
		log:     log,
	}
}

// Add schedules job on spec, e.g. "@every 10m" or "*/5 * * * *".
func (s *Scheduler) Add(spec string, job Job) error {
	if _, err := s.cron.AddFunc(spec, func() { s.runOnce(job) }); err != nil {
		return fmt.Errorf("schedule %s: %w", job.Name(), err)
	}
	s.log.WithFields(logrus.Fields{"job": job.Name(), "spec": spec}).Info("Job scheduled")
	return nil
}

func (s *Scheduler) runOnce(job Job) {
	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	entry := s.log.WithField("job", job.Name())
	if err := job.Run(ctx); err != nil {
		entry.WithError(err).Error("Job failed")
		return
	}
	entry.WithField("took", time.Since(started).String()).Debug("Job finished")
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}
