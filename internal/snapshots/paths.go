package snapshots

import (
	"fmt"
	"path/filepath"

	"github.com/preston-bernstein/sportsdb-sync/internal/domain/leagues"
)

const (
	leaguesFile    = "leagues.json"
	allLeaguesFile = "all_leagues.json"
	manifestFile   = "manifest.json"
)

// LeaguesPath is the consolidated league details file.
func LeaguesPath(basePath string) string {
	return filepath.Join(basePath, leaguesFile)
}

// FixturesPath is the upcoming-fixtures file for one league.
func FixturesPath(basePath string, id leagues.ID) string {
	return filepath.Join(basePath, fmt.Sprintf("fixtures_%s.json", id))
}

// AllLeaguesPath is the upstream league catalogue file.
func AllLeaguesPath(basePath string) string {
	return filepath.Join(basePath, allLeaguesFile)
}

// ManifestPath is the run summary file.
func ManifestPath(basePath string) string {
	return filepath.Join(basePath, manifestFile)
}
