package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/deskward/deskward/internal/api"
	"github.com/deskward/deskward/internal/app"
	"github.com/deskward/deskward/internal/app/maintenance"
	iauth "github.com/deskward/deskward/internal/auth"
	"github.com/deskward/deskward/internal/models"
	"github.com/deskward/deskward/internal/monitoring"
	"github.com/deskward/deskward/internal/monitoring/checks"
	"github.com/deskward/deskward/internal/permissions"
	"github.com/deskward/deskward/internal/security"
	"github.com/deskward/deskward/internal/services"
)

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	DB       *gorm.DB
	AuditSvc *services.AuditService
	Recorder *services.AuditRecorder
	Cleaner  *maintenance.Cleaner
	Jobs     *monitoring.JobTracker
	Router   *gin.Engine
	Posture  security.Result
}

// bootstrapRuntime initialises the database, services, background jobs and the HTTP router.
func bootstrapRuntime(ctx context.Context, cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			stack.Shutdown(context.Background(), log)
		}
	}()

	// enable gin debug mod
	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack.DB, err = initialiseDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := permissions.ValidateCatalog(ctx, stack.DB); err != nil {
		return nil, fmt.Errorf("validate permission catalog: %w", err)
	}

	jwtSvc, err := iauth.NewJWTService(cfg.Auth.JWTServiceConfig())
	if err != nil {
		return nil, fmt.Errorf("initialise jwt service: %w", err)
	}

	stack.AuditSvc, err = services.NewAuditService(stack.DB)
	if err != nil {
		return nil, fmt.Errorf("initialise audit service: %w", err)
	}

	stack.Recorder, err = services.NewAuditRecorder(stack.AuditSvc, cfg.Tenancy.AuditBuffer)
	if err != nil {
		return nil, fmt.Errorf("initialise audit recorder: %w", err)
	}

	permissionSvc, err := services.NewPermissionService(stack.DB, stack.AuditSvc)
	if err != nil {
		return nil, fmt.Errorf("initialise permission service: %w", err)
	}

	if cfg.Bootstrap.Enabled() {
		if err := seedAdministrator(ctx, stack.DB, stack.AuditSvc, cfg.Bootstrap, log); err != nil {
			return nil, err
		}
	}

	stack.Jobs = monitoring.NewJobTracker()
	stack.Cleaner = maintenance.NewCleaner(permissionSvc, stack.AuditSvc,
		maintenance.WithJobTracker(stack.Jobs),
		maintenance.WithAuditRetentionDays(cfg.Maintenance.AuditRetentionDays),
		maintenance.WithOverrideSchedule(cfg.Maintenance.OverrideSchedule),
		maintenance.WithAuditSchedule(cfg.Maintenance.AuditSchedule),
	)
	if err := stack.Cleaner.Start(); err != nil {
		return nil, fmt.Errorf("start maintenance jobs: %w", err)
	}

	health := cfg.Monitoring.Health
	stack.Router, err = api.NewRouter(stack.DB, jwtSvc, cfg, stack.Recorder,
		api.WithReadinessChecks(
			checks.Maintenance(stack.Jobs, health.MaintenanceMaxAge),
			checks.AuditQueue(stack.Recorder, health.AuditQueueDegraded),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	stack.Posture = security.NewAuditor(stack.DB, jwtSvc, cfg).Run(ctx)
	logSecurityPosture(stack.Posture, log)

	success = true
	return stack, nil
}

func logSecurityPosture(result security.Result, log *zap.Logger) {
	for _, check := range result.Checks {
		fields := []zap.Field{zap.String("check", check.ID), zap.String("remediation", check.Remediation)}
		switch check.Status {
		case security.StatusFail:
			log.Error(check.Message, fields...)
		case security.StatusWarn:
			log.Warn(check.Message, fields...)
		}
	}
	log.Info("security posture evaluated",
		zap.Int("pass", result.Summary[string(security.StatusPass)]),
		zap.Int("warn", result.Summary[string(security.StatusWarn)]),
		zap.Int("fail", result.Summary[string(security.StatusFail)]),
	)
}

// Shutdown stops background work, drains queued audit events and closes the database.
func (s *runtimeStack) Shutdown(ctx context.Context, log *zap.Logger) {
	if s == nil {
		return
	}

	if s.Cleaner != nil {
		<-s.Cleaner.Stop().Done()
		if _, err := s.Cleaner.RunOnce(ctx); err != nil {
			log.Warn("maintenance shutdown cleanup failed", zap.Error(err))
		}
		s.Cleaner = nil
	}

	if s.Recorder != nil {
		if err := s.Recorder.Close(ctx); err != nil {
			log.Warn("audit recorder did not drain", zap.Error(err))
		}
		s.Recorder = nil
	}

	if s.DB != nil {
		closeDatabase(s.DB, log)
		s.DB = nil
	}
}

// seedAdministrator creates the configured organization and its first org-admin. Nothing is
// written when an organization with the slug already exists.
func seedAdministrator(ctx context.Context, db *gorm.DB, audit *services.AuditService, cfg app.BootstrapConfig, log *zap.Logger) error {
	orgs, err := services.NewOrganizationService(db)
	if err != nil {
		return err
	}
	users, err := services.NewUserService(db, audit)
	if err != nil {
		return err
	}

	slug := strings.ToLower(strings.TrimSpace(cfg.Slug))
	if slug == "" {
		slug = strings.ToLower(strings.Join(strings.Fields(cfg.Organization), "-"))
	}

	var existing models.Organization
	err = db.WithContext(ctx).Where("slug = ?", slug).First(&existing).Error
	switch {
	case err == nil:
		log.Info("bootstrap organization already present", zap.String("slug", slug))
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("bootstrap: lookup organization %q: %w", slug, err)
	}

	org, err := orgs.Create(ctx, services.CreateOrganizationInput{Name: cfg.Organization, Slug: slug})
	if err != nil {
		return fmt.Errorf("bootstrap: create organization: %w", err)
	}

	name := strings.TrimSpace(cfg.AdminName)
	if name == "" {
		name = "Administrator"
	}
	admin, err := users.Create(ctx, services.CreateUserInput{
		OrganizationID: org.ID,
		Email:          cfg.AdminEmail,
		Name:           name,
		Password:       cfg.AdminPass,
		Role:           permissions.RoleOrgAdmin,
	})
	if err != nil {
		return fmt.Errorf("bootstrap: create administrator: %w", err)
	}

	log.Info("bootstrap administrator created",
		zap.String("organization_id", org.ID),
		zap.String("user_id", admin.ID),
		zap.String("email", admin.Email),
	)
	return nil
}
