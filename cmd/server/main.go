package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/deskward/deskward/internal/app"
	"github.com/deskward/deskward/internal/database"
	"github.com/deskward/deskward/pkg/logger"
)

const (
	defaultShutdownTimeout = 15 * time.Second
	readHeaderTimeout      = 10 * time.Second
	minSecretLength        = 32
)

// errPostureFailed is returned by -check when the security posture audit reports a failure.
var errPostureFailed = errors.New("security posture check failed")

type cliOptions struct {
	configPath string
	checkOnly  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:])
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return
	default:
		fmt.Fprintf(os.Stderr, "deskward: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (cliOptions, error) {
	var opts cliOptions

	fs := flag.NewFlagSet("deskward", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)
	fs.StringVar(&opts.configPath, "config", "", "configuration directory or config.yaml path")
	fs.BoolVar(&opts.checkOnly, "check", false, "migrate, run the security posture audit and exit")

	return opts, fs.Parse(args)
}

func run(ctx context.Context, args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := loadApplicationConfig(opts.configPath)
	if err != nil {
		return err
	}

	generated, err := app.ApplyRuntimeDefaults(cfg)
	if err != nil {
		return err
	}
	if err := app.ConfigureLogging(cfg.Server); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.WithModule("server")
	for _, key := range generated {
		log.Warn("no secret configured, generated one for this process; issued tokens will not survive a restart",
			zap.String("key", key))
	}

	if err := ensureSecretsPresent(cfg); err != nil {
		return err
	}

	stack, err := bootstrapRuntime(ctx, cfg, log)
	if err != nil {
		return err
	}

	if opts.checkOnly {
		stack.Shutdown(ctx, log)
		if stack.Posture.Failed() {
			return errPostureFailed
		}
		return nil
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           stack.Router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return serve(ctx, server, stack, cfg.Server.ShutdownTimeout, log)
}

// serve blocks until ctx is cancelled or the listener fails, then drains in-flight
// requests before the runtime stack is torn down.
func serve(ctx context.Context, server *http.Server, stack *runtimeStack, timeout time.Duration, log *zap.Logger) error {
	listenErr := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", server.Addr))
		listenErr <- server.ListenAndServe()
	}()

	select {
	case err := <-listenErr:
		stack.Shutdown(context.Background(), log)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
		log.Info("shutting down")
	}

	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	shutdownErr := server.Shutdown(shutdownCtx)
	stack.Shutdown(shutdownCtx, log)
	if shutdownErr != nil {
		return fmt.Errorf("drain http server: %w", shutdownErr)
	}

	log.Info("stopped")
	return nil
}

// loadApplicationConfig accepts a directory or a file inside one; empty uses the default
// search paths.
func loadApplicationConfig(path string) (*app.Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return app.LoadConfig()
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("config path %q does not exist", path)
	case err != nil:
		return nil, fmt.Errorf("stat config path: %w", err)
	case !info.IsDir():
		path = filepath.Dir(path)
	}
	return app.LoadConfig(path)
}

func ensureSecretsPresent(cfg *app.Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	secret := strings.TrimSpace(cfg.Auth.JWT.Secret)
	switch {
	case secret == "":
		return errors.New("auth.jwt.secret must be configured")
	case len(secret) < minSecretLength:
		return fmt.Errorf("auth.jwt.secret must be at least %d characters (current: %d)", minSecretLength, len(secret))
	}
	cfg.Auth.JWT.Secret = secret
	return nil
}

func initialiseDatabase(ctx context.Context, cfg *app.Config) (*gorm.DB, error) {
	settings := cfg.Database.DatabaseSettings()
	log := logger.WithModule("database")

	db, err := database.Open(settings)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", settings.Driver, err)
	}
	if err := database.AutoMigrateAndSeed(db.WithContext(ctx)); err != nil {
		closeDatabase(db, log)
		return nil, fmt.Errorf("migrate and seed: %w", err)
	}

	log.Info("database ready", zap.String("driver", settings.Driver))
	return db, nil
}

func closeDatabase(db *gorm.DB, log *zap.Logger) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err == nil {
		err = sqlDB.Close()
	}
	if err != nil {
		log.Warn("close database", zap.Error(err))
	}
}
