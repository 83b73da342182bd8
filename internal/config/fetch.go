package config

import "time"

// FetchConfig tunes how upstream calls are issued.
type FetchConfig struct {
	Attempts    int
	Backoff     time.Duration
	MinInterval time.Duration // zero disables spacing
	AllLeagues  bool
}

func loadFetch() FetchConfig {
	return FetchConfig{
		Attempts:    intEnvOrDefault(envFetchAttempts, defaultFetchAttempts),
		Backoff:     durationEnvOrDefault(envFetchBackoff, defaultFetchBackoff),
		MinInterval: durationEnvOrDefault(envFetchMinInterval, 0),
		AllLeagues:  boolEnvOrDefault(envFetchAllLeagues, false),
	}
}
