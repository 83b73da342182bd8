package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/preston-bernstein/sportsdb-sync/internal/config"
	"github.com/preston-bernstein/sportsdb-sync/internal/domain/leagues"
	"github.com/preston-bernstein/sportsdb-sync/internal/logging"
	"github.com/preston-bernstein/sportsdb-sync/internal/runner"
)

const appVersion = "dev"

func main() {
	if os.Getenv("SKIP_SYNC_RUN") == "1" {
		return
	}
	os.Exit(run())
}

func run() int {
	envErr := config.LoadDotEnv("")
	cfg := config.Load()
	logger := logging.NewLogger(logging.Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
		Service: cfg.Metrics.ServiceName,
		Version: appVersion,
	})
	if envErr != nil {
		logger.Warn("failed to load .env file", "error", envErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := runner.New(cfg, logger).Run(ctx)
	return exitCode(err)
}

// exitCode keeps a bad league config at 0; the failure is reported in the log.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if _, ok := leagues.AsConfigError(err); ok {
		return 0
	}
	return 1
}
