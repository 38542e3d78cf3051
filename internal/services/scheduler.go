package services

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// NightlyJob is what the scheduler runs on its cron spec. Wired to the
// ingestion pipeline plus analytics precompute in main.
type NightlyJob func(ctx context.Context)

// Scheduler runs the nightly refresh on a cron spec, always in UTC so the
// run time does not drift with host timezone.
type Scheduler struct {
	cron      *cron.Cron
	logger    *logrus.Logger
	spec      string
	job       NightlyJob
	mu        sync.Mutex
	isRunning bool
}

func NewScheduler(spec string, job NightlyJob, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		logger: logger,
		spec:   spec,
		job:    job,
	}
}

func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}

	_, err := s.cron.AddFunc(s.spec, func() {
		// Bound each nightly run so a wedged upstream cannot overlap the
		// next night's run.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
		defer cancel()

		started := time.Now()
		s.logger.Info("Nightly refresh starting")
		s.job(ctx)
		s.logger.WithField("duration", time.Since(started).String()).Info("Nightly refresh finished")
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("spec", s.spec).Info("Scheduler started")
	return nil
}

// Status reports whether the scheduler is running and when the next run is
// due.
func (s *Scheduler) Status() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]interface{}{
		"running": s.isRunning,
		"spec":    s.spec,
	}
	if entries := s.cron.Entries(); len(entries) > 0 {
		status["next_run"] = entries[0].Next.UTC().Format(time.RFC3339)
	}
	return status
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
}
