// Package cleanup provides the retention job for billing events and audit
// log entries. Rows older than the retention window are purged once a day.
package cleanup

import (
	"context"
	"log/slog"
	"time"
)

const defaultRetentionDays = 90

// Purger deletes rows created before the cutoff. Both
// repository.SubscriptionEventRepository and repository.AuditLogRepository
// satisfy it.
type Purger interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Job purges subscription events and audit log entries past retention.
// Designed as an idempotent daily batch; a run with nothing to delete is
// not an error.
type Job struct {
	events        Purger
	audit         Purger
	logger        *slog.Logger
	RetentionDays int
	now           func() time.Time
}

// NewJob creates a Job with the default 90 day retention.
func NewJob(events, audit Purger, logger *slog.Logger) *Job {
	return &Job{
		events:        events,
		audit:         audit,
		logger:        logger,
		RetentionDays: defaultRetentionDays,
		now:           time.Now,
	}
}

// Start runs the job once per interval until the context is canceled.
func (j *Job) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.logger.Info("cleanup job started",
		slog.Duration("interval", interval),
		slog.Int("retention_days", j.RetentionDays),
	)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("cleanup job stopped")
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Error("cleanup run failed",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// Run purges both tables. A failure on one table still attempts the other.
func (j *Job) Run(ctx context.Context) error {
	start := j.now()
	cutoff := start.AddDate(0, 0, -j.RetentionDays)

	var firstErr error

	eventsDeleted, err := j.events.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		firstErr = err
		j.logger.Error("failed to purge subscription events",
			slog.String("error", err.Error()),
		)
	}

	auditDeleted, err := j.audit.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		if firstErr == nil {
			firstErr = err
		}
		j.logger.Error("failed to purge audit log entries",
			slog.String("error", err.Error()),
		)
	}

	j.logger.Info("cleanup run completed",
		slog.Int64("events_deleted", eventsDeleted),
		slog.Int64("audit_deleted", auditDeleted),
		slog.Int("retention_days", j.RetentionDays),
		slog.Float64("duration_ms", float64(j.now().Sub(start).Milliseconds())),
	)

	return firstErr
}
