package checks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/deskward/deskward/internal/monitoring"
)

func TestDatabaseCheck(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	mock.ExpectPing()
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	result := Database(db, time.Second).Run(context.Background())
	require.Equal(t, monitoring.StatusDown, result.Status)
	require.Equal(t, "connection refused", result.Details)

	mock.ExpectPing()
	result = Database(db, time.Second).Run(context.Background())
	require.Equal(t, monitoring.StatusUp, result.Status)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Equal(t, monitoring.StatusDown, Database(nil, 0).Run(context.Background()).Status)
}

func TestDatabaseCheckReportsExhaustedPool(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	sqlDB.SetMaxOpenConns(1)

	mock.ExpectPing()
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	conn, err := sqlDB.Conn(context.Background())
	require.NoError(t, err)

	result := Database(db, time.Second).Run(context.Background())
	require.Equal(t, monitoring.StatusDegraded, result.Status)
	require.Contains(t, result.Details, "1/1 in use")

	require.NoError(t, conn.Close())
	mock.ExpectPing()
	require.Equal(t, monitoring.StatusUp, Database(db, time.Second).Run(context.Background()).Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMaintenanceCheck(t *testing.T) {
	require.Equal(t, monitoring.StatusUp, Maintenance(nil, 0).Run(context.Background()).Status)

	tracker := monitoring.NewJobTracker()
	tracker.Expect("audit_prune")
	result := Maintenance(tracker, time.Hour).Run(context.Background())
	require.Equal(t, monitoring.StatusUp, result.Status)
	require.Contains(t, result.Details, "pending first run")

	tracker.Record("audit_prune", nil, time.Millisecond)
	require.Equal(t, monitoring.StatusUp, Maintenance(tracker, time.Hour).Run(context.Background()).Status)
	time.Sleep(5 * time.Millisecond)
	require.Equal(t, monitoring.StatusDegraded, Maintenance(tracker, time.Millisecond).Run(context.Background()).Status)

	tracker.Record("override_purge", errors.New("database is locked"), time.Millisecond)
	result = Maintenance(tracker, time.Hour).Run(context.Background())
	require.Equal(t, monitoring.StatusDown, result.Status)
	require.Contains(t, result.Details, "override_purge: database is locked")
}

type fakeQueue struct{ queued, capacity int }

func (q fakeQueue) Backlog() (int, int) { return q.queued, q.capacity }

func TestAuditQueueCheck(t *testing.T) {
	cases := []struct {
		name   string
		queue  Backlogged
		status monitoring.ProbeStatus
	}{
		{name: "unconfigured", queue: nil, status: monitoring.StatusUp},
		{name: "idle", queue: fakeQueue{queued: 3, capacity: 100}, status: monitoring.StatusUp},
		{name: "filling", queue: fakeQueue{queued: 80, capacity: 100}, status: monitoring.StatusDegraded},
		{name: "full", queue: fakeQueue{queued: 100, capacity: 100}, status: monitoring.StatusDown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := AuditQueue(tc.queue, 0).Run(context.Background())
			require.Equal(t, tc.status, result.Status)
		})
	}
}
