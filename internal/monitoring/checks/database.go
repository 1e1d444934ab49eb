package checks

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/deskward/deskward/internal/monitoring"
)

const defaultDatabaseTimeout = 2 * time.Second

// Database pings the connection pool. A pool with every connection checked out reports
// degraded without pinging, since the ping would only queue behind the busy connections.
func Database(db *gorm.DB, timeout time.Duration) monitoring.Check {
	timeout = chooseTimeout(timeout, defaultDatabaseTimeout)

	return monitoring.NewCheck("database", func(ctx context.Context) monitoring.ProbeResult {
		if db == nil {
			return monitoring.ProbeResult{Status: monitoring.StatusDown, Details: "database not configured"}
		}

		started := time.Now()
		pool, err := db.DB()
		if err != nil {
			return monitoring.ResultFromError("database", err, time.Since(started))
		}

		stats := pool.Stats()
		if stats.MaxOpenConnections > 0 && stats.InUse >= stats.MaxOpenConnections {
			return monitoring.ProbeResult{
				Status:   monitoring.StatusDegraded,
				Details:  fmt.Sprintf("connection pool exhausted (%d/%d in use, %d waits)", stats.InUse, stats.MaxOpenConnections, stats.WaitCount),
				Duration: time.Since(started),
			}
		}

		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return monitoring.ResultFromError("database", pool.PingContext(pingCtx), time.Since(started))
	})
}

func chooseTimeout(provided, fallback time.Duration) time.Duration {
	if provided > 0 {
		return provided
	}
	return fallback
}
