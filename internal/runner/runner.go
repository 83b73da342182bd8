package runner

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/preston-bernstein/sportsdb-sync/internal/app/fetcher"
	"github.com/preston-bernstein/sportsdb-sync/internal/config"
	"github.com/preston-bernstein/sportsdb-sync/internal/domain/leagues"
	"github.com/preston-bernstein/sportsdb-sync/internal/logging"
	"github.com/preston-bernstein/sportsdb-sync/internal/metrics"
	"github.com/preston-bernstein/sportsdb-sync/internal/providers"
	"github.com/preston-bernstein/sportsdb-sync/internal/snapshots"
)

var metricsSetup = metrics.Setup

// Runner wires configuration into a single fetch-and-persist pass.
type Runner struct {
	cfg          config.Config
	logger       *slog.Logger
	metrics      *metrics.Recorder
	gatherer     prometheus.Gatherer
	metricsStop  func(context.Context) error
	provider     providers.LeagueProvider
	providerName string
}

// New constructs a runner with the default provider and telemetry wiring.
func New(cfg config.Config, logger *slog.Logger) *Runner {
	return newRunnerWithProvider(cfg, logger, nil)
}

func newRunnerWithProvider(cfg config.Config, logger *slog.Logger, provider providers.LeagueProvider) *Runner {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	recorder, gatherer, metricsStop := buildMetrics(cfg, logger)

	var name string
	if provider == nil {
		provider, name = newProviderFactory(logger, recorder).build(cfg)
	} else {
		name = normalizeProviderName(cfg.Provider, provider)
		provider = providers.NewRetryingProvider(provider, logger, recorder, name, cfg.Fetch.Attempts, cfg.Fetch.Backoff)
	}

	return &Runner{
		cfg:          cfg,
		logger:       logger,
		metrics:      recorder,
		gatherer:     gatherer,
		metricsStop:  metricsStop,
		provider:     provider,
		providerName: name,
	}
}

// Run loads league IDs, fetches and writes every output file, then flushes
// telemetry. A *leagues.ConfigError means nothing was written.
func (r *Runner) Run(ctx context.Context) error {
	defer r.shutdown()

	ids, err := r.leagueIDs()
	if err != nil {
		logging.Error(r.logger, "league config invalid, nothing fetched", err)
		return err
	}

	writer := snapshots.NewWriter(r.cfg.DataDir)
	svc := fetcher.New(r.provider, writer, buildPublisher(ctx, r.cfg, r.logger), r.logger, r.metrics, fetcher.Options{
		ProviderName: r.providerName,
		Source:       r.cfg.Leagues.Source,
		AllLeagues:   r.cfg.Fetch.AllLeagues,
	})
	_, err = svc.Run(ctx, ids)
	return err
}

func (r *Runner) leagueIDs() ([]leagues.ID, error) {
	if r.cfg.Leagues.Source == config.SourceStatic {
		logging.Info(r.logger, "using static league list")
		return leagues.Static(), nil
	}
	ids, err := leagues.Load(r.cfg.Leagues.ConfigPath)
	if err != nil {
		return nil, err
	}
	logging.Info(r.logger, "loaded league config",
		logging.FieldPath, r.cfg.Leagues.ConfigPath,
		logging.FieldCount, len(ids),
	)
	return ids, nil
}

func (r *Runner) shutdown() {
	if r.cfg.Metrics.Textfile != "" && r.gatherer != nil {
		if err := metrics.WriteTextfile(r.cfg.Metrics.Textfile, r.gatherer); err != nil {
			logging.Warn(r.logger, "metrics textfile write failed", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if r.metricsStop != nil {
		if err := r.metricsStop(ctx); err != nil {
			logging.Warn(r.logger, "metrics shutdown failed", "error", err)
		}
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger) (*metrics.Recorder, prometheus.Gatherer, func(context.Context) error) {
	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, gatherer, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "error", err)
		return metrics.NewRecorder(), nil, nil
	}
	return rec, gatherer, shutdown
}
