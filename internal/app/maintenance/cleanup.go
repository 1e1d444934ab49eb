package maintenance

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/deskward/deskward/internal/monitoring"
	"github.com/deskward/deskward/internal/services"
	"github.com/deskward/deskward/pkg/logger"
)

// Job names reported to the JobTracker.
const (
	JobOverridePurge = "override_purge"
	JobAuditPrune    = "audit_prune"
)

const (
	defaultAuditRetentionDays = 90
	defaultOverrideSpec       = "@hourly"
	defaultAuditSpec          = "@daily"
)

// Cleaner coordinates background maintenance: purging expired permission overrides and
// pruning audit logs past their retention window.
type Cleaner struct {
	overrides *services.PermissionService
	audit     *services.AuditService
	cron      *cron.Cron
	now       func() time.Time
	log       *zap.Logger
	retention int
	jobs      *monitoring.JobTracker

	overrideSchedule string
	auditSchedule    string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithNow overrides the clock used for expiry comparisons.
func WithNow(now func() time.Time) Option {
	return func(cleaner *Cleaner) {
		if now != nil {
			cleaner.now = now
		}
	}
}

// WithJobTracker reports every job run to tracker.
func WithJobTracker(tracker *monitoring.JobTracker) Option {
	return func(cleaner *Cleaner) {
		cleaner.jobs = tracker
	}
}

// WithAuditRetentionDays adjusts how long audit logs are retained before cleanup.
func WithAuditRetentionDays(days int) Option {
	return func(cleaner *Cleaner) {
		if days > 0 {
			cleaner.retention = days
		}
	}
}

// WithOverrideSchedule overrides the cron specification for the expired override purge.
func WithOverrideSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.overrideSchedule = spec
		}
	}
}

// WithAuditSchedule overrides the cron specification for audit retention enforcement.
func WithAuditSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.auditSchedule = spec
		}
	}
}

// NewCleaner constructs a Cleaner. A nil service skips the corresponding job.
func NewCleaner(overrides *services.PermissionService, audit *services.AuditService, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		overrides:        overrides,
		audit:            audit,
		now:              time.Now,
		retention:        defaultAuditRetentionDays,
		overrideSchedule: defaultOverrideSpec,
		auditSchedule:    defaultAuditSpec,
		log:              logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}
	return cleaner
}

// Start registers the cleanup jobs and launches the scheduler when at least one job exists.
func (c *Cleaner) Start() error {
	if c.overrides == nil && c.audit == nil {
		return nil
	}

	if c.overrides != nil {
		c.expect(JobOverridePurge)
		if _, err := c.cron.AddFunc(c.overrideSchedule, func() {
			if _, err := c.purgeOverrides(context.Background()); err != nil {
				c.log.Warn("override purge failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}

	if c.audit != nil {
		c.expect(JobAuditPrune)
		if _, err := c.cron.AddFunc(c.auditSchedule, func() {
			if _, err := c.pruneAudit(context.Background()); err != nil {
				c.log.Warn("audit cleanup failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// Stats reports what a cleanup pass removed.
type Stats struct {
	Overrides   int64
	AuditEvents int64
}

// RunOnce executes every configured cleanup sequentially. Failures of one job do not stop
// the others; all errors are returned together.
func (c *Cleaner) RunOnce(ctx context.Context) (Stats, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		stats Stats
		errs  error
	)

	if c.overrides != nil {
		removed, err := c.purgeOverrides(ctx)
		stats.Overrides = removed
		errs = multierr.Append(errs, err)
	}

	if c.audit != nil {
		removed, err := c.pruneAudit(ctx)
		stats.AuditEvents = removed
		errs = multierr.Append(errs, err)
	}

	return stats, errs
}

func (c *Cleaner) expect(job string) {
	if c.jobs != nil {
		c.jobs.Expect(job)
	}
}

func (c *Cleaner) track(job string, started time.Time, err error) {
	if c.jobs != nil {
		c.jobs.Record(job, err, time.Since(started))
	}
}

func (c *Cleaner) purgeOverrides(ctx context.Context) (int64, error) {
	started := time.Now()
	removed, err := c.overrides.PurgeExpired(ctx, c.now())
	c.track(JobOverridePurge, started, err)
	if err == nil && removed > 0 {
		c.log.Info("purged expired permission overrides", zap.Int64("count", removed))
	}
	return removed, err
}

func (c *Cleaner) pruneAudit(ctx context.Context) (int64, error) {
	started := time.Now()
	removed, err := c.audit.CleanupOlderThan(ctx, c.retention)
	c.track(JobAuditPrune, started, err)
	if err == nil && removed > 0 {
		c.log.Info("pruned audit logs", zap.Int64("count", removed), zap.Int("retention_days", c.retention))
	}
	return removed, err
}
