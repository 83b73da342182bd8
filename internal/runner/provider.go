package runner

import (
	"log/slog"
	"strings"

	"github.com/preston-bernstein/sportsdb-sync/internal/config"
	"github.com/preston-bernstein/sportsdb-sync/internal/providers"
	"github.com/preston-bernstein/sportsdb-sync/internal/providers/fixture"
	"github.com/preston-bernstein/sportsdb-sync/internal/providers/sportsdb"
)

const (
	providerSportsDB = "sportsdb"
	providerFixture  = "fixture"
)

func selectProvider(cfg config.Config, logger *slog.Logger) (providers.LeagueProvider, string) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case providerFixture:
		return fixture.New(), providerFixture
	case providerSportsDB, "":
		return newSportsDB(cfg, logger), providerSportsDB
	default:
		if logger != nil {
			logger.Warn("unknown provider, falling back to sportsdb", slog.String("provider", cfg.Provider))
		}
		return newSportsDB(cfg, logger), providerSportsDB
	}
}

func newSportsDB(cfg config.Config, logger *slog.Logger) providers.LeagueProvider {
	if cfg.SportsDB.UsesTestKey() && logger != nil {
		logger.Info("API_SPORTS_KEY not set, using public test key")
	}
	return sportsdb.NewClient(sportsdb.Config{
		BaseURL: cfg.SportsDB.BaseURL,
		APIKey:  cfg.SportsDB.APIKey,
		Timeout: cfg.SportsDB.Timeout,
		Logger:  logger,
	})
}
