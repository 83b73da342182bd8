package config

import "strings"

// LeaguesConfig selects where league IDs come from.
type LeaguesConfig struct {
	Source     string // "config" or "static"
	ConfigPath string
}

func loadLeagues() LeaguesConfig {
	source := strings.ToLower(strings.TrimSpace(envOrDefault(envLeaguesSource, defaultLeaguesSource)))
	if source != SourceStatic {
		source = SourceConfig
	}
	return LeaguesConfig{
		Source:     source,
		ConfigPath: envOrDefault(envLeaguesConfig, defaultLeaguesConfig),
	}
}
