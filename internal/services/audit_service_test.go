package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/deskward/deskward/internal/models"
	"github.com/deskward/deskward/internal/tenancy"
	"github.com/deskward/deskward/pkg/logger"
	"github.com/deskward/deskward/pkg/metrics"
)

func TestAuditServiceLogAndListScoped(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewAuditService(db)
	require.NoError(t, err)

	ctx := context.Background()
	userID := "user-1"
	require.NoError(t, svc.Log(ctx, AuditEntry{
		UserID:         &userID,
		Email:          "agent@example.com",
		OrganizationID: "org-1",
		Action:         tenancy.ActionCrossTenant,
		Resource:       "ticket",
		ResourceID:     "ticket-42",
		Result:         tenancy.ResultDenied,
		Metadata:       map[string]any{"role": "agent"},
	}))
	require.NoError(t, svc.Log(ctx, AuditEntry{OrganizationID: "org-2", Action: "user.create", Result: "success"}))

	logs, total, err := svc.List(ctx, "org-1", AuditListOptions{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "ticket-42", logs[0].ResourceID)

	var metadata map[string]any
	require.NoError(t, json.Unmarshal(logs[0].Metadata, &metadata))
	require.Equal(t, "agent", metadata["role"])

	filtered, total, err := svc.List(ctx, "org-1", AuditListOptions{Filters: AuditFilters{Result: "success"}})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, filtered)

	require.Error(t, svc.Log(ctx, AuditEntry{Result: "denied"}))
	require.Error(t, svc.Log(ctx, AuditEntry{Action: "x"}))
}

func TestAuditServiceCleanupOlderThan(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewAuditService(db)
	require.NoError(t, err)

	oldLog := models.AuditLog{
		BaseModel: models.BaseModel{
			CreatedAt: time.Now().AddDate(0, 0, -10),
		},
		Action: "old.action",
		Result: "success",
	}
	require.NoError(t, db.Create(&oldLog).Error)
	require.NoError(t, svc.Log(context.Background(), AuditEntry{Action: "new.action", Result: "success"}))

	rows, err := svc.CleanupOlderThan(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, int64(1), rows)

	_, err = svc.CleanupOlderThan(context.Background(), 0)
	require.Error(t, err)
}

func TestAuditRecorderPersistsAndLogs(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	restore := logger.Replace(zap.New(core))
	defer restore()

	db := openServiceTestDB(t)
	audit, err := NewAuditService(db)
	require.NoError(t, err)
	recorder, err := NewAuditRecorder(audit, 8)
	require.NoError(t, err)

	principal := &tenancy.Principal{UserID: "user-1", OrganizationID: "org-1", Role: "agent", Email: "agent@example.com"}
	event := tenancy.NewEvent(tenancy.ActionRoleDenied, tenancy.ResultDenied, principal, "/api/users")
	event.RequiredRoles = []string{"org-admin"}
	recorder.Record(event)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, recorder.Close(ctx))

	var stored []models.AuditLog
	require.NoError(t, db.Where("action = ?", tenancy.ActionRoleDenied).Find(&stored).Error)
	require.Len(t, stored, 1)
	require.Equal(t, "agent@example.com", stored[0].Email)
	require.Equal(t, "/api/users", stored[0].Path)

	entries := logs.FilterMessage("authorization event").All()
	require.Len(t, entries, 1)
	require.Equal(t, "org-1", entries[0].ContextMap()["organization_id"])
}

func TestAuditRecorderDropsAfterClose(t *testing.T) {
	db := openServiceTestDB(t)
	audit, err := NewAuditService(db)
	require.NoError(t, err)
	recorder, err := NewAuditRecorder(audit, 1)
	require.NoError(t, err)
	require.NoError(t, recorder.Close(context.Background()))

	before := testutil.ToFloat64(metrics.AuditDropped)
	recorder.Record(tenancy.NewEvent(tenancy.ActionCrossTenant, tenancy.ResultDenied, nil, "/api/tickets/x"))
	require.Equal(t, before+1, testutil.ToFloat64(metrics.AuditDropped))

	require.NoError(t, recorder.Close(context.Background()))
	_, err = NewAuditRecorder(nil, 1)
	require.Error(t, err)
}

func TestAuditServiceLogBatchSkipsInvalidEntries(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewAuditService(db)
	require.NoError(t, err)

	err = svc.LogBatch(context.Background(), []AuditEntry{
		{OrganizationID: "org-1", Action: tenancy.ActionRoleDenied, Result: tenancy.ResultDenied},
		{OrganizationID: "org-1", Action: tenancy.ActionTenantOverwrite},
		{OrganizationID: "org-1", Action: tenancy.ActionCrossTenant, Result: tenancy.ResultDenied},
	})
	require.ErrorContains(t, err, "result is required for "+tenancy.ActionTenantOverwrite)

	_, total, err := svc.List(context.Background(), "org-1", AuditListOptions{})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)

	require.NoError(t, svc.LogBatch(context.Background(), nil))
}

func TestAuditRecorderFlushesQueuedEventsOnClose(t *testing.T) {
	db := openServiceTestDB(t)
	audit, err := NewAuditService(db)
	require.NoError(t, err)
	recorder, err := NewAuditRecorder(audit, 16)
	require.NoError(t, err)

	principal := &tenancy.Principal{UserID: "user-1", OrganizationID: "org-1", Role: "agent"}
	for i := 0; i < 10; i++ {
		recorder.Record(tenancy.NewEvent(tenancy.ActionCrossTenant, tenancy.ResultDenied, principal, "/api/tickets/x"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, recorder.Close(ctx))

	var count int64
	require.NoError(t, db.Model(&models.AuditLog{}).Where("organization_id = ?", "org-1").Count(&count).Error)
	require.Equal(t, int64(10), count)
}
