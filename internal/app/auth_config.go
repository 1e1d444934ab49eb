package app

import (
	"strings"

	"github.com/deskward/deskward/internal/auth"
	"github.com/deskward/deskward/internal/database"
	"github.com/deskward/deskward/internal/tenancy"
)

// JWTServiceConfig converts AuthConfig into the parameters expected by the JWT service.
func (c AuthConfig) JWTServiceConfig() auth.JWTConfig {
	ttl := c.JWT.TTL
	if ttl <= 0 {
		ttl = auth.DefaultAccessTokenTTL
	}

	return auth.JWTConfig{
		Secret:         c.JWT.Secret,
		Issuer:         c.JWT.Issuer,
		AccessTokenTTL: ttl,
		Leeway:         c.JWT.Leeway,
	}
}

// Options converts TenancyConfig into guard options. The locale picks the denial messages.
func (c TenancyConfig) Options() tenancy.Options {
	return tenancy.NewOptions(c.TenantField, c.Locale, c.RelatedUserFields, c.StrictTenantInput)
}

// DatabaseSettings converts DatabaseConfig into the connection parameters for the configured
// driver.
func (c DatabaseConfig) DatabaseSettings() database.Config {
	cfg := database.Config{
		Driver:          strings.ToLower(strings.TrimSpace(c.Driver)),
		Path:            c.Path,
		DSN:             c.DSN,
		MaxOpenConns:    c.Pool.MaxOpenConns,
		MaxIdleConns:    c.Pool.MaxIdleConns,
		ConnMaxLifetime: c.Pool.ConnMaxLifetime,
	}

	var host DBAuthConfig
	switch cfg.Driver {
	case "postgres", "postgresql":
		host = c.Postgres
	case "mysql", "mariadb":
		host = c.MySQL
	default:
		return cfg
	}

	cfg.Host = host.Host
	cfg.Port = host.Port
	cfg.Name = host.Database
	cfg.User = host.Username
	cfg.Password = host.Password
	cfg.Options = host.Options
	return cfg
}
