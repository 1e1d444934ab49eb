package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config represents the runtime configuration for the deskward backend.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Tenancy     TenancyConfig     `mapstructure:"tenancy"`
	CORS        CORSConfig        `mapstructure:"cors"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
	Monitoring  MonitoringConfig  `mapstructure:"monitoring"`
	Bootstrap   BootstrapConfig   `mapstructure:"bootstrap"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	LogLevel        string        `mapstructure:"log_level"`
	Development     bool          `mapstructure:"development"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig describes connection options for the supported databases.
type DatabaseConfig struct {
	Driver   string       `mapstructure:"driver"`
	Path     string       `mapstructure:"path"`
	DSN      string       `mapstructure:"dsn"`
	Postgres DBAuthConfig `mapstructure:"postgres"`
	MySQL    DBAuthConfig `mapstructure:"mysql"`
	Pool     PoolConfig   `mapstructure:"pool"`
}

// PoolConfig bounds the database/sql connection pool.
type PoolConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DBAuthConfig represents host based database parameters.
type DBAuthConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Host     string            `mapstructure:"host"`
	Port     int               `mapstructure:"port"`
	Database string            `mapstructure:"database"`
	Username string            `mapstructure:"username"`
	Password string            `mapstructure:"password"`
	Options  map[string]string `mapstructure:"options"`
}

// AuthConfig captures all authentication-related settings.
type AuthConfig struct {
	JWT   JWTSettings   `mapstructure:"jwt"`
	Login LoginSettings `mapstructure:"login"`
}

// JWTSettings configures JWT access tokens.
type JWTSettings struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	TTL    time.Duration `mapstructure:"access_token_ttl"`
	Leeway time.Duration `mapstructure:"leeway"`
}

// LoginSettings throttles the login endpoint per client IP.
type LoginSettings struct {
	RateLimit  int           `mapstructure:"rate_limit"`
	RateWindow time.Duration `mapstructure:"rate_window"`
}

// TenancyConfig configures the authorization pipeline.
type TenancyConfig struct {
	TenantField       string   `mapstructure:"tenant_field"`
	Locale            string   `mapstructure:"locale"`
	RelatedUserFields []string `mapstructure:"related_user_fields"`
	StrictTenantInput bool     `mapstructure:"strict_tenant_input"`
	AuditBuffer       int      `mapstructure:"audit_buffer"`
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MaintenanceConfig schedules background cleanup jobs.
type MaintenanceConfig struct {
	AuditRetentionDays int    `mapstructure:"audit_retention_days"`
	OverrideSchedule   string `mapstructure:"override_schedule"`
	AuditSchedule      string `mapstructure:"audit_schedule"`
}

// MonitoringConfig enables health checks and metrics.
type MonitoringConfig struct {
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
	Health     HealthConfig     `mapstructure:"health"`
}

// HealthConfig tunes readiness probes.
type HealthConfig struct {
	Timeout            time.Duration `mapstructure:"timeout"`
	MaintenanceMaxAge  time.Duration `mapstructure:"maintenance_max_age"`
	AuditQueueDegraded float64       `mapstructure:"audit_queue_degraded"`
}

// PrometheusConfig toggles metrics endpoints.
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// BootstrapConfig optionally creates the first organization and its administrator on start-up.
type BootstrapConfig struct {
	Organization string `mapstructure:"organization"`
	Slug         string `mapstructure:"slug"`
	AdminEmail   string `mapstructure:"admin_email"`
	AdminName    string `mapstructure:"admin_name"`
	AdminPass    string `mapstructure:"admin_password"`
}

// Enabled reports whether enough bootstrap settings are present to seed an administrator.
func (b BootstrapConfig) Enabled() bool {
	return strings.TrimSpace(b.Organization) != "" &&
		strings.TrimSpace(b.AdminEmail) != "" &&
		strings.TrimSpace(b.AdminPass) != ""
}

// LoadConfig initialises application configuration using Viper with sensible defaults.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("./config")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	v.SetEnvPrefix("DESKWARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if !errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, decodeHook()); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return &config, nil
}

// setDefaults registers every key so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.development", false)
	v.SetDefault("server.shutdown_timeout", "15s")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/deskward.sqlite")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.pool.max_open_conns", 25)
	v.SetDefault("database.pool.max_idle_conns", 5)
	v.SetDefault("database.pool.conn_max_lifetime", "30m")
	for _, driver := range []string{"postgres", "mysql"} {
		v.SetDefault("database."+driver+".enabled", false)
		v.SetDefault("database."+driver+".host", "")
		v.SetDefault("database."+driver+".port", 0)
		v.SetDefault("database."+driver+".database", "")
		v.SetDefault("database."+driver+".username", "")
		v.SetDefault("database."+driver+".password", "")
	}

	v.SetDefault("auth.jwt.secret", "")
	v.SetDefault("auth.jwt.issuer", "deskward")
	v.SetDefault("auth.jwt.access_token_ttl", "15m")
	v.SetDefault("auth.jwt.leeway", "30s")
	v.SetDefault("auth.login.rate_limit", 10)
	v.SetDefault("auth.login.rate_window", "1m")

	v.SetDefault("tenancy.tenant_field", "organizationId")
	v.SetDefault("tenancy.locale", "en")
	v.SetDefault("tenancy.related_user_fields", []string{"assigneeId", "requesterId", "assignedToId"})
	v.SetDefault("tenancy.strict_tenant_input", false)
	v.SetDefault("tenancy.audit_buffer", 256)

	v.SetDefault("cors.allowed_origins", []string{})

	v.SetDefault("maintenance.audit_retention_days", 90)
	v.SetDefault("maintenance.override_schedule", "@hourly")
	v.SetDefault("maintenance.audit_schedule", "@daily")

	v.SetDefault("monitoring.prometheus.enabled", true)
	v.SetDefault("monitoring.prometheus.endpoint", "/metrics")
	v.SetDefault("monitoring.health.timeout", "2s")
	v.SetDefault("monitoring.health.maintenance_max_age", "26h")
	v.SetDefault("monitoring.health.audit_queue_degraded", 0.8)

	v.SetDefault("bootstrap.organization", "")
	v.SetDefault("bootstrap.slug", "")
	v.SetDefault("bootstrap.admin_email", "")
	v.SetDefault("bootstrap.admin_name", "")
	v.SetDefault("bootstrap.admin_password", "")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}
