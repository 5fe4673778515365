package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the recurring maintenance jobs: refreshing currency rates,
// pruning old query history, and the nightly usage report.
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc

	refreshEvery time.Duration
	refreshFunc  func(ctx context.Context) error
	cleanupFunc  func(ctx context.Context) error
	reportFunc   func(ctx context.Context) error
}

// New creates a scheduler; refreshEvery is the rate-refresh interval.
func New(refreshEvery time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(time.UTC)),
		ctx:          ctx,
		cancel:       cancel,
		refreshEvery: refreshEvery,
	}
}

// SetRefreshFunc sets the currency-rate refresh job.
func (s *Scheduler) SetRefreshFunc(f func(ctx context.Context) error) {
	s.refreshFunc = f
}

// SetCleanupFunc sets the query-history retention job, run nightly.
func (s *Scheduler) SetCleanupFunc(f func(ctx context.Context) error) {
	s.cleanupFunc = f
}

// SetReportFunc sets the daily usage-report job, run at 21:00 UTC.
func (s *Scheduler) SetReportFunc(f func(ctx context.Context) error) {
	s.reportFunc = f
}

// Start registers the configured jobs and starts the cron loop. Jobs left
// unset are simply skipped.
func (s *Scheduler) Start() error {
	if s.refreshFunc != nil {
		spec := fmt.Sprintf("@every %s", s.refreshEvery)
		_, err := s.cron.AddFunc(spec, func() {
			log.Printf("💱 Refreshing currency rates (%s interval)", s.refreshEvery)
			if err := s.refreshFunc(s.ctx); err != nil {
				log.Printf("❌ Rate refresh failed: %v", err)
			}
		})
		if err != nil {
			return fmt.Errorf("schedule refresh: %w", err)
		}
	}

	if s.cleanupFunc != nil {
		// Nightly, before the report.
		_, err := s.cron.AddFunc("0 3 * * *", func() {
			log.Println("🧹 Running query-history cleanup")
			if err := s.cleanupFunc(s.ctx); err != nil {
				log.Printf("❌ History cleanup failed: %v", err)
			}
		})
		if err != nil {
			return fmt.Errorf("schedule cleanup: %w", err)
		}
	}

	if s.reportFunc != nil {
		_, err := s.cron.AddFunc("0 21 * * *", func() {
			log.Println("🕘 Generating daily usage report")
			if err := s.reportFunc(s.ctx); err != nil {
				log.Printf("❌ Daily report failed: %v", err)
			}
		})
		if err != nil {
			return fmt.Errorf("schedule report: %w", err)
		}
	}

	s.cron.Start()
	log.Println("📅 Scheduler started")
	return nil
}

// Stop waits for running jobs to finish and cancels their context.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	log.Println("📅 Scheduler stopped")
}

// IsRunning reports whether any job is registered and the loop started.
func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
