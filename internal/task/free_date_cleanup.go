package task

import (
	"context"
	"fmt"
	"time"

	"github.com/adityasiriexporters/MonthlyOrganics/internal/domain"
	"github.com/adityasiriexporters/MonthlyOrganics/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Store is the slice of the zone store the cleanup job needs.
type Store interface {
	DeleteFreeDatesBefore(ctx context.Context, cutoff domain.Date) (int64, error)
}

// Invalidator drops cached free-date lookups after a cleanup pass.
type Invalidator interface {
	Invalidate()
}

// FreeDateCleanup deletes expired free-delivery dates once a day. Past
// dates are inert for the resolver either way (it filters on >= today);
// this job just keeps the table from growing forever.
type FreeDateCleanup struct {
	store Store
	index Invalidator
	cron  *cron.Cron
}

// NewFreeDateCleanup schedules the job with a standard cron expression
// (e.g. "0 2 * * *" for 02:00 daily).
func NewFreeDateCleanup(store Store, index Invalidator, schedule string) (*FreeDateCleanup, error) {
	job := &FreeDateCleanup{
		store: store,
		index: index,
		cron:  cron.New(),
	}
	if _, err := job.cron.AddFunc(schedule, job.Run); err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q: %w", schedule, err)
	}
	return job, nil
}

// Start begins the cron scheduler in its own goroutine.
func (j *FreeDateCleanup) Start() {
	j.cron.Start()
}

// Stop halts the scheduler; a running pass finishes on its own.
func (j *FreeDateCleanup) Stop() {
	j.cron.Stop()
}

// Run executes one cleanup pass.
func (j *FreeDateCleanup) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	today := domain.DateOf(time.Now())
	deleted, err := j.store.DeleteFreeDatesBefore(ctx, today)
	if err != nil {
		logger.Error().Err(err).Msg("free-date cleanup failed")
		return
	}

	if deleted > 0 {
		j.index.Invalidate()
	}
	logger.Info().Int64("deleted", deleted).Str("cutoff", today.String()).Msg("free-date cleanup completed")
}
