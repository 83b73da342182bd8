package runner

import (
	"log/slog"

	"github.com/preston-bernstein/sportsdb-sync/internal/config"
	"github.com/preston-bernstein/sportsdb-sync/internal/metrics"
	"github.com/preston-bernstein/sportsdb-sync/internal/providers"
)

// providerFactory assembles the provider with shared wrappers (rate limit + retry).
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

// build returns the wrapped provider and the name it reports under.
func (f providerFactory) build(cfg config.Config) (providers.LeagueProvider, string) {
	base, name := selectProvider(cfg, f.logger)
	limited := providers.NewRateLimitedProvider(base, cfg.Fetch.MinInterval, f.logger)
	return providers.NewRetryingProvider(limited, f.logger, f.metrics, name, cfg.Fetch.Attempts, cfg.Fetch.Backoff), name
}
