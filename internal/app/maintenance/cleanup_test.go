package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	testutil "github.com/deskward/deskward/internal/database/testutil"
	"github.com/deskward/deskward/internal/models"
	"github.com/deskward/deskward/internal/monitoring"
	"github.com/deskward/deskward/internal/permissions"
	"github.com/deskward/deskward/internal/services"
)

func TestCleanerRunOnce(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	testutil.MustCreateOrganization(t, db, "org-1")
	testutil.MustCreateUser(t, db, "user-1", "org-1", permissions.RoleAgent)

	auditSvc, err := services.NewAuditService(db)
	require.NoError(t, err)
	permSvc, err := services.NewPermissionService(db, auditSvc)
	require.NoError(t, err)

	clock := fixedClock{current: time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC)}

	expired := seedOverride(t, db, "user-1", permissions.TicketDelete, clock.Now().Add(-time.Hour))
	active := seedOverride(t, db, "user-1", permissions.TicketAssign, clock.Now().Add(time.Hour))

	require.NoError(t, auditSvc.Log(context.Background(), services.AuditEntry{
		OrganizationID: "org-1",
		Action:         "scope.cross_tenant",
		Result:         "denied",
	}))
	var auditLog models.AuditLog
	require.NoError(t, db.First(&auditLog).Error)
	require.NoError(t, db.Model(&auditLog).Update("created_at", time.Now().AddDate(0, 0, -10)).Error)

	c := NewCleaner(permSvc, auditSvc,
		WithNow(clock.Now),
		WithAuditRetentionDays(7),
		WithCron(cron.New(cron.WithLogger(cron.DiscardLogger))),
	)

	stats, err := c.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, Stats{Overrides: 1, AuditEvents: 1}, stats)

	err = db.First(&models.UserPermissionOverride{}, "id = ?", expired.ID).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, db.First(&models.UserPermissionOverride{}, "id = ?", active.ID).Error)

	var auditCount int64
	require.NoError(t, db.Model(&models.AuditLog{}).Count(&auditCount).Error)
	require.Zero(t, auditCount)
}

func TestCleanerKeepsRecentAuditLogs(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	auditSvc, err := services.NewAuditService(db)
	require.NoError(t, err)
	require.NoError(t, auditSvc.Log(context.Background(), services.AuditEntry{
		OrganizationID: "org-1",
		Action:         "gate.role_denied",
		Result:         "denied",
	}))

	stats, err := NewCleaner(nil, auditSvc).RunOnce(context.Background())
	require.NoError(t, err)
	require.Zero(t, stats.AuditEvents)
}

func TestCleanerStartRegistersJobs(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	auditSvc, err := services.NewAuditService(db)
	require.NoError(t, err)
	permSvc, err := services.NewPermissionService(db, auditSvc)
	require.NoError(t, err)

	scheduler := cron.New(cron.WithLogger(cron.DiscardLogger))
	c := NewCleaner(permSvc, auditSvc, WithCron(scheduler), WithOverrideSchedule("@every 1h"))
	require.NoError(t, c.Start())
	t.Cleanup(func() { <-c.Stop().Done() })

	require.Len(t, scheduler.Entries(), 2)
}

func TestCleanerStartRejectsInvalidSchedule(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	auditSvc, err := services.NewAuditService(db)
	require.NoError(t, err)

	c := NewCleaner(nil, auditSvc, WithAuditSchedule("not a schedule"))
	require.Error(t, c.Start())
}

func TestCleanerWithoutServicesIsNoop(t *testing.T) {
	c := NewCleaner(nil, nil)
	require.NoError(t, c.Start())

	stats, err := c.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, Stats{}, stats)
}

func TestCleanerReportsRunsToTracker(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	auditSvc, err := services.NewAuditService(db)
	require.NoError(t, err)

	tracker := monitoring.NewJobTracker()
	scheduler := cron.New(cron.WithLogger(cron.DiscardLogger))
	c := NewCleaner(nil, auditSvc, WithCron(scheduler), WithJobTracker(tracker))
	require.NoError(t, c.Start())
	t.Cleanup(func() { <-c.Stop().Done() })

	jobs := tracker.Snapshot()
	require.Len(t, jobs, 1)
	require.Equal(t, JobAuditPrune, jobs[0].Job)
	require.Zero(t, jobs[0].TotalRuns)

	_, err = c.RunOnce(context.Background())
	require.NoError(t, err)

	jobs = tracker.Snapshot()
	require.EqualValues(t, 1, jobs[0].TotalRuns)
	require.Zero(t, jobs[0].ConsecutiveFailures)
	require.False(t, jobs[0].LastRunAt.IsZero())
}

func seedOverride(t *testing.T, db *gorm.DB, userID, permissionID string, expiresAt time.Time) *models.UserPermissionOverride {
	t.Helper()

	override := &models.UserPermissionOverride{
		UserID:       userID,
		PermissionID: permissionID,
		Granted:      true,
		ExpiresAt:    &expiresAt,
	}
	require.NoError(t, db.Create(override).Error)
	return override
}

type fixedClock struct {
	current time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.current
}
