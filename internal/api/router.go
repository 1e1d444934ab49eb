package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/deskward/deskward/internal/app"
	iauth "github.com/deskward/deskward/internal/auth"
	"github.com/deskward/deskward/internal/handlers"
	"github.com/deskward/deskward/internal/middleware"
	"github.com/deskward/deskward/internal/monitoring"
	"github.com/deskward/deskward/internal/monitoring/checks"
	"github.com/deskward/deskward/internal/permissions"
	"github.com/deskward/deskward/internal/services"
	"github.com/deskward/deskward/internal/tenancy"
)

// routeDeps carries what every route group needs to assemble its guard chain.
type routeDeps struct {
	guard    *middleware.Guard
	resolver *permissions.Resolver
	users    *services.UserService
}

// Option customises router construction.
type Option func(*routerOptions)

type routerOptions struct {
	liveness  []monitoring.Check
	readiness []monitoring.Check
}

// WithReadinessChecks registers extra probes behind /health and /health/ready.
func WithReadinessChecks(checks ...monitoring.Check) Option {
	return func(o *routerOptions) {
		o.readiness = append(o.readiness, checks...)
	}
}

// WithLivenessChecks registers extra probes behind /health/live.
func WithLivenessChecks(checks ...monitoring.Check) Option {
	return func(o *routerOptions) {
		o.liveness = append(o.liveness, checks...)
	}
}

// NewRouter builds the Gin engine, wires middleware and registers the helpdesk routes.
// Guard denials are reported to sink; a nil sink discards them.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, cfg *app.Config, sink tenancy.AuditSink, opts ...Option) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	var options routerOptions
	for _, opt := range opts {
		opt(&options)
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders(cfg.Server.Development))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	health := monitoring.NewHealthManager()
	health.RegisterReadiness(checks.Database(db, cfg.Monitoring.Health.Timeout))
	for _, check := range options.readiness {
		health.RegisterReadiness(check)
	}
	for _, check := range options.liveness {
		health.RegisterLiveness(check)
	}
	registerHealthRoutes(r, health)
	registerMetricsRoutes(r, cfg.Monitoring.Prometheus)

	auditSvc, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}
	userSvc, err := services.NewUserService(db, auditSvc)
	if err != nil {
		return nil, err
	}
	ticketSvc, err := services.NewTicketService(db)
	if err != nil {
		return nil, err
	}
	assetSvc, err := services.NewAssetService(db)
	if err != nil {
		return nil, err
	}
	catalogSvc, err := services.NewCatalogItemService(db)
	if err != nil {
		return nil, err
	}
	permissionSvc, err := services.NewPermissionService(db, auditSvc)
	if err != nil {
		return nil, err
	}
	resolver, err := permissions.NewResolver(db)
	if err != nil {
		return nil, err
	}

	deps := routeDeps{
		guard:    middleware.NewGuard(cfg.Tenancy.Options(), sink),
		resolver: resolver,
		users:    userSvc,
	}

	authHandler := handlers.NewAuthHandler(userSvc, jwt, resolver)
	registerPublicAuthRoutes(r, authHandler, cfg.Auth.Login)

	api := r.Group("/api")
	api.Use(middleware.Auth(jwt))

	registerAuthRoutes(api, authHandler)
	registerTicketRoutes(api, handlers.NewTicketHandler(ticketSvc), ticketSvc, deps)
	registerAssetRoutes(api, handlers.NewAssetHandler(assetSvc), assetSvc, deps)
	registerCatalogItemRoutes(api, handlers.NewCatalogItemHandler(catalogSvc), catalogSvc, deps)
	registerUserRoutes(api, handlers.NewUserHandler(userSvc), deps)
	registerPermissionRoutes(api, handlers.NewPermissionHandler(permissionSvc, resolver), deps)
	registerAuditRoutes(api, handlers.NewAuditHandler(auditSvc), deps)

	r.NoRoute(middleware.NotFoundHandler)
	r.NoMethod(middleware.MethodNotAllowedHandler)

	return r, nil
}
