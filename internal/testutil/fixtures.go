package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/preston-bernstein/sportsdb-sync/internal/domain/leagues"
	"github.com/preston-bernstein/sportsdb-sync/internal/domain/payload"
)

// SampleLeague returns one lookupleague.php entry.
func SampleLeague(id leagues.ID) map[string]any {
	return map[string]any{
		"idLeague":  id.String(),
		"strLeague": "League " + id.String(),
		"strSport":  "Soccer",
	}
}

// SampleLookup builds a lookupleague.php response holding a single league.
func SampleLookup(id leagues.ID) payload.Document {
	return payload.Document{"leagues": []any{SampleLeague(id)}}
}

// SampleEvents builds an eventsnextleague.php response with n events.
func SampleEvents(id leagues.ID, n int) payload.Document {
	events := make([]any, 0, n)
	for i := 1; i <= n; i++ {
		events = append(events, map[string]any{
			"idEvent":  fmt.Sprintf("%s%02d", id, i),
			"idLeague": id.String(),
			"strEvent": fmt.Sprintf("Home %d vs Away %d", i, i),
		})
	}
	return payload.Document{"events": events}
}

// WriteLeagueConfig writes a leagues_config.json listing ids under dir and returns its path.
func WriteLeagueConfig(t *testing.T, dir string, ids ...string) string {
	t.Helper()
	entries := make([]string, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, fmt.Sprintf(`{"id": %q, "name": "League %s"}`, id, id))
	}
	return WriteFile(t, dir, "leagues_config.json", `{"leagues": [`+strings.Join(entries, ", ")+`]}`)
}

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
