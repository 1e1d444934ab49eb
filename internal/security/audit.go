package security

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/deskward/deskward/internal/app"
	iauth "github.com/deskward/deskward/internal/auth"
	"github.com/deskward/deskward/internal/models"
	"github.com/deskward/deskward/internal/permissions"
)

// CheckStatus captures the outcome of a posture check.
type CheckStatus string

const (
	StatusPass CheckStatus = "pass"
	StatusWarn CheckStatus = "warn"
	StatusFail CheckStatus = "fail"
)

const maxRecommendedTokenTTL = 24 * time.Hour

// Check contains the result of a single verification.
type Check struct {
	ID          string      `json:"id"`
	Status      CheckStatus `json:"status"`
	Message     string      `json:"message"`
	Remediation string      `json:"remediation,omitempty"`
	Details     any         `json:"details,omitempty"`
}

// Result aggregates all checks with a per-status count.
type Result struct {
	CheckedAt time.Time      `json:"checked_at"`
	Checks    []Check        `json:"checks"`
	Summary   map[string]int `json:"summary"`
}

// Failed reports whether any check failed.
func (r Result) Failed() bool {
	return r.Summary[string(StatusFail)] > 0
}

// Auditor evaluates the deployment's authentication and tenancy posture at start-up.
type Auditor struct {
	db  *gorm.DB
	jwt *iauth.JWTService
	cfg *app.Config
	now func() time.Time
}

// NewAuditor constructs the auditor. All dependencies are optional; missing inputs
// degrade the affected checks to warnings.
func NewAuditor(db *gorm.DB, jwt *iauth.JWTService, cfg *app.Config) *Auditor {
	return &Auditor{db: db, jwt: jwt, cfg: cfg, now: time.Now}
}

// WithClock overrides the clock used in results.
func (a *Auditor) WithClock(clock func() time.Time) {
	if clock != nil {
		a.now = clock
	}
}

// Run executes every check.
func (a *Auditor) Run(ctx context.Context) Result {
	if ctx == nil {
		ctx = context.Background()
	}

	checks := []Check{
		a.checkOrgAdmin(ctx),
		a.checkJWTSecret(),
		a.checkTokenTTL(),
		a.checkTenantInput(),
		a.checkCORS(),
	}

	summary := map[string]int{
		string(StatusPass): 0,
		string(StatusWarn): 0,
		string(StatusFail): 0,
	}
	for _, check := range checks {
		summary[string(check.Status)]++
	}

	return Result{
		CheckedAt: a.now().UTC(),
		Checks:    checks,
		Summary:   summary,
	}
}

func (a *Auditor) checkOrgAdmin(ctx context.Context) Check {
	const id = "org_admin_present"
	if a.db == nil {
		return Check{
			ID:          id,
			Status:      StatusWarn,
			Message:     "Database unavailable, unable to confirm an organization administrator exists.",
			Remediation: "Ensure database connectivity before running the audit.",
		}
	}

	var count int64
	if err := a.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ? AND is_active = ?", permissions.RoleOrgAdmin, true).
		Count(&count).Error; err != nil {
		return Check{
			ID:          id,
			Status:      StatusWarn,
			Message:     fmt.Sprintf("Could not count administrators: %v", err),
			Remediation: "Retry after resolving database errors.",
		}
	}

	if count == 0 {
		return Check{
			ID:          id,
			Status:      StatusWarn,
			Message:     "No active organization administrator found.",
			Remediation: "Set DESKWARD_BOOTSTRAP_ORGANIZATION, DESKWARD_BOOTSTRAP_ADMIN_EMAIL and DESKWARD_BOOTSTRAP_ADMIN_PASSWORD to seed one.",
		}
	}

	return Check{
		ID:      id,
		Status:  StatusPass,
		Message: "Organization administrator present.",
		Details: map[string]any{"count": count},
	}
}

func (a *Auditor) checkJWTSecret() Check {
	const id = "jwt_secret_strength"
	if a.jwt == nil {
		return Check{
			ID:          id,
			Status:      StatusWarn,
			Message:     "JWT service not initialised, unable to assess signing secret strength.",
			Remediation: "Initialise the JWT service with a strong secret.",
		}
	}

	length := a.jwt.SecretLength()
	switch {
	case length < 32:
		return Check{
			ID:          id,
			Status:      StatusFail,
			Message:     fmt.Sprintf("JWT signing secret is too short (%d bytes).", length),
			Remediation: "Use a randomly generated secret of at least 32 bytes.",
		}
	case length < 48:
		return Check{
			ID:          id,
			Status:      StatusWarn,
			Message:     fmt.Sprintf("JWT signing secret is %d bytes. Consider increasing to 48+ bytes.", length),
			Remediation: "Increase DESKWARD_AUTH_JWT_SECRET to at least 48 bytes.",
			Details:     map[string]any{"length": length},
		}
	default:
		return Check{
			ID:      id,
			Status:  StatusPass,
			Message: fmt.Sprintf("JWT signing secret length is %d bytes.", length),
			Details: map[string]any{"length": length},
		}
	}
}

func (a *Auditor) checkTokenTTL() Check {
	const id = "access_token_ttl"
	if a.jwt == nil {
		return Check{ID: id, Status: StatusWarn, Message: "JWT service not initialised, unable to evaluate token lifetime."}
	}

	ttl := a.jwt.TTL()
	if ttl > maxRecommendedTokenTTL {
		return Check{
			ID:          id,
			Status:      StatusWarn,
			Message:     fmt.Sprintf("Access token TTL (%s) exceeds recommended maximum (%s).", ttl, maxRecommendedTokenTTL),
			Remediation: "Reduce DESKWARD_AUTH_JWT_ACCESS_TOKEN_TTL so revoked roles take effect sooner.",
			Details:     map[string]any{"ttl": ttl.String()},
		}
	}
	return Check{
		ID:      id,
		Status:  StatusPass,
		Message: fmt.Sprintf("Access token TTL is %s.", ttl),
		Details: map[string]any{"ttl": ttl.String()},
	}
}

func (a *Auditor) checkTenantInput() Check {
	const id = "tenant_input_mode"
	if a.cfg == nil {
		return Check{ID: id, Status: StatusWarn, Message: "Configuration not loaded, unable to evaluate tenant input mode."}
	}
	if !a.cfg.Tenancy.StrictTenantInput {
		return Check{
			ID:          id,
			Status:      StatusWarn,
			Message:     "Client supplied organization ids are overwritten instead of rejected.",
			Remediation: "Set DESKWARD_TENANCY_STRICT_TENANT_INPUT=true once clients stop sending organization ids.",
		}
	}
	return Check{ID: id, Status: StatusPass, Message: "Mismatched organization ids are rejected."}
}

func (a *Auditor) checkCORS() Check {
	const id = "cors_origins"
	if a.cfg == nil {
		return Check{ID: id, Status: StatusWarn, Message: "Configuration not loaded, unable to evaluate CORS origins."}
	}
	origins := a.cfg.CORS.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	for _, origin := range origins {
		if strings.TrimSpace(origin) == "*" {
			return Check{
				ID:          id,
				Status:      StatusWarn,
				Message:     "CORS allows any origin.",
				Remediation: "List the helpdesk front-end origins in cors.allowed_origins.",
			}
		}
	}
	return Check{
		ID:      id,
		Status:  StatusPass,
		Message: "CORS origins restricted.",
		Details: map[string]any{"origins": a.cfg.CORS.AllowedOrigins},
	}
}
