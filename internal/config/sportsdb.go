package config

import "time"

// SportsDBConfig controls how we talk to TheSportsDB API.
type SportsDBConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func loadSportsDB() SportsDBConfig {
	key := envOrDefault(envAPIKey, "")
	if key == "" && boolEnvOrDefault(envTestKeyFallback, true) {
		key = defaultTestAPIKey
	}
	return SportsDBConfig{
		BaseURL: envOrDefault(envSportsDBBaseURL, defaultSportsDBURL),
		APIKey:  key,
		Timeout: durationEnvOrDefault(envHTTPTimeout, defaultHTTPTimeout),
	}
}

// UsesTestKey reports whether the public development key is in effect.
func (c SportsDBConfig) UsesTestKey() bool {
	return c.APIKey == defaultTestAPIKey
}
