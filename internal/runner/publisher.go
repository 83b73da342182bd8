package runner

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/sportsdb-sync/internal/config"
	"github.com/preston-bernstein/sportsdb-sync/internal/logging"
	"github.com/preston-bernstein/sportsdb-sync/internal/publish"
)

// buildPublisher returns nil when publishing is off or the target is unusable.
func buildPublisher(ctx context.Context, cfg config.Config, logger *slog.Logger) publish.Publisher {
	if !cfg.Publish.Enabled() {
		return nil
	}
	pub, err := publish.NewMinio(cfg.Publish, cfg.DataDir, logger)
	if err != nil {
		logging.Warn(logger, "publisher setup failed, publishing disabled", "error", err)
		return nil
	}
	if err := pub.EnsureBucket(ctx); err != nil {
		logging.Warn(logger, "publish bucket unavailable, publishing disabled", "error", err)
		return nil
	}
	logging.Info(logger, "publishing enabled", "bucket", cfg.Publish.Bucket)
	return pub
}
