package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration for a sync run.
type Config struct {
	Provider string
	DataDir  string
	Leagues  LeaguesConfig
	SportsDB SportsDBConfig
	Fetch    FetchConfig
	Metrics  MetricsConfig
	Publish  PublishConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Provider: envOrDefault(envProvider, defaultProvider),
		DataDir:  envOrDefault(envDataDir, defaultDataDir),
		Leagues:  loadLeagues(),
		SportsDB: loadSportsDB(),
		Fetch:    loadFetch(),
		Metrics:  loadMetrics(),
		Publish:  loadPublish(),
	}
}

// LoadDotEnv merges variables from a .env file into the process environment.
// Variables already set win, and a missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = defaultDotEnv
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}
