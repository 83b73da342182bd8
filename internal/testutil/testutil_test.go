package testutil

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"testing"
	"time"
)

func TestClockHelpers(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := NowAt(now)(); !got.Equal(now) {
		t.Fatalf("expected fixed time, got %v", got)
	}
	if MustParseRFC3339(now.Format(time.RFC3339)) != now {
		t.Fatalf("expected parse round trip")
	}
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic on invalid RFC3339")
		}
	}()
	MustParseRFC3339("not-a-time")
}

func TestFixturesHelper(t *testing.T) {
	lookup := SampleLookup("4328")
	if lookup.Empty() || len(lookup.Leagues()) != 1 {
		t.Fatalf("unexpected lookup fixture %+v", lookup)
	}
	events := SampleEvents("4328", 3)
	if got := events["events"].([]any); len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}

	dir := t.TempDir()
	path := WriteLeagueConfig(t, dir, "1", "2")
	var cfg struct {
		Leagues []struct {
			ID string `json:"id"`
		} `json:"leagues"`
	}
	DecodeFile(t, path, &cfg)
	if filepath.Base(path) != "leagues_config.json" || len(cfg.Leagues) != 2 || cfg.Leagues[1].ID != "2" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestUpstreamRoutes(t *testing.T) {
	u := NewUpstream(t)
	u.Route("lookupleague.php", "id=1", http.StatusOK, `{"leagues":[]}`)

	body, status := get(t, u.URL+"/123/lookupleague.php?id=1")
	if status != http.StatusOK || body != `{"leagues":[]}` {
		t.Fatalf("unexpected response %d %s", status, body)
	}
	if _, status := get(t, u.URL+"/123/lookupleague.php?id=2"); status != http.StatusNotFound {
		t.Fatalf("expected 404 for unrouted request, got %d", status)
	}
	if paths := u.Paths(); len(paths) != 2 || paths[0] != "/123/lookupleague.php" {
		t.Fatalf("unexpected paths %v", paths)
	}
}

func TestRecorderHelper(t *testing.T) {
	rec, shutdown := NewRecorderWithShutdown()
	if rec == nil || shutdown(context.Background()) != nil {
		t.Fatalf("expected recorder and no-op shutdown")
	}
}

func get(t *testing.T, url string) (string, int) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return string(data), resp.StatusCode
}
