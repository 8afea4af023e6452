// Package schedule runs the in-process cron jobs for deployments that have
// no external scheduler hitting the HTTP endpoints.
package schedule

import (
	"github.com/robfig/cron/v3"

	"expensebot/internal/logging"
)

// Scheduler wraps a cron runner with logging.
type Scheduler struct {
	cron   *cron.Cron
	logger logging.Logger
}

// New creates an idle scheduler.
func New(logger logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
	}
}

// Add registers a job under a standard 5-field cron expression.
func (s *Scheduler) Add(spec, name string, fn func()) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.logger.WithField("job", name).Info("Running scheduled job")
		fn()
	})
	if err != nil {
		return err
	}
	s.logger.WithFields(
		logging.Field{Key: "job", Value: name},
		logging.Field{Key: "spec", Value: spec},
	).Info("Scheduled job registered")
	return nil
}

// Start launches the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
