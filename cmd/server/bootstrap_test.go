package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/deskward/deskward/internal/app"
	sharedtestutil "github.com/deskward/deskward/internal/database/testutil"
	"github.com/deskward/deskward/internal/models"
	"github.com/deskward/deskward/internal/monitoring"
	"github.com/deskward/deskward/internal/services"
)

func TestSeedAdministratorCreatesOrganizationOnce(t *testing.T) {
	db := sharedtestutil.MustOpenTestDB(t, sharedtestutil.WithSeedData())
	audit, err := services.NewAuditService(db)
	require.NoError(t, err)

	cfg := app.BootstrapConfig{
		Organization: "Acme Helpdesk",
		AdminEmail:   "Admin@Acme.test",
		AdminPass:    "Password123!",
	}

	require.NoError(t, seedAdministrator(context.Background(), db, audit, cfg, zap.NewNop()))
	require.NoError(t, seedAdministrator(context.Background(), db, audit, cfg, zap.NewNop()))

	var orgs []models.Organization
	require.NoError(t, db.Find(&orgs).Error)
	require.Len(t, orgs, 1)
	require.Equal(t, "acme-helpdesk", orgs[0].Slug)

	var admin models.User
	require.NoError(t, db.Where("email = ?", "admin@acme.test").First(&admin).Error)
	require.Equal(t, orgs[0].ID, admin.OrganizationID)
	require.Equal(t, "org-admin", admin.Role)
	require.Equal(t, "Administrator", admin.Name)

	users, err := services.NewUserService(db, audit)
	require.NoError(t, err)
	_, err = users.Authenticate(context.Background(), "admin@acme.test", "Password123!")
	require.NoError(t, err)
}

func TestEnsureSecretsPresent(t *testing.T) {
	cfg := &app.Config{}
	require.Error(t, ensureSecretsPresent(cfg))

	cfg.Auth.JWT.Secret = "short"
	require.Error(t, ensureSecretsPresent(cfg))

	cfg.Auth.JWT.Secret = "  0123456789abcdef0123456789abcdef  "
	require.NoError(t, ensureSecretsPresent(cfg))
	require.Equal(t, "0123456789abcdef0123456789abcdef", cfg.Auth.JWT.Secret)
}

func TestLoadApplicationConfigRejectsMissingPath(t *testing.T) {
	_, err := loadApplicationConfig("/definitely/not/here")
	require.Error(t, err)

	cfg, err := loadApplicationConfig(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestBootstrapRuntimeWiresRouter(t *testing.T) {
	cfg, err := app.LoadConfig(t.TempDir())
	require.NoError(t, err)
	cfg.Database.DSN = "file::memory:?cache=private&_foreign_keys=1"
	cfg.Auth.JWT.Secret = "0123456789abcdef0123456789abcdef"
	cfg.Bootstrap = app.BootstrapConfig{Organization: "Acme", AdminEmail: "root@acme.test", AdminPass: "Password123!"}

	stack, err := bootstrapRuntime(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, stack.Router)
	require.NotNil(t, stack.Recorder)
	require.False(t, stack.Posture.Failed())

	var count int64
	require.NoError(t, stack.DB.Model(&models.User{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	w := httptest.NewRecorder()
	stack.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report monitoring.HealthReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.True(t, report.Success)
	components := make([]string, 0, len(report.Checks))
	for _, check := range report.Checks {
		components = append(components, check.Component)
	}
	require.Equal(t, []string{"database", "maintenance", "audit_queue"}, components)

	stack.Shutdown(context.Background(), zap.NewNop())
	require.Nil(t, stack.DB)
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-config", "/etc/deskward", "-check"})
	require.NoError(t, err)
	require.Equal(t, cliOptions{configPath: "/etc/deskward", checkOnly: true}, opts)

	_, err = parseFlags([]string{"-unknown"})
	require.Error(t, err)
}

func TestRunCheckOnly(t *testing.T) {
	dir := t.TempDir()
	config := []byte(`
server:
  log_level: error
database:
  driver: sqlite
  dsn: "file::memory:?cache=private&_foreign_keys=1"
auth:
  jwt:
    secret: 0123456789abcdef0123456789abcdef0123456789abcdef
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), config, 0o600))

	require.NoError(t, run(context.Background(), []string{"-check", "-config", dir}))
}
