package runner

import (
	"strings"
	"testing"

	"github.com/preston-bernstein/sportsdb-sync/internal/config"
	"github.com/preston-bernstein/sportsdb-sync/internal/providers/fixture"
	"github.com/preston-bernstein/sportsdb-sync/internal/providers/sportsdb"
	"github.com/preston-bernstein/sportsdb-sync/internal/testutil"
)

func TestProviderFactoryBuilds(t *testing.T) {
	factory := newProviderFactory(nil, nil)
	prov, name := factory.build(config.Config{Provider: "fixture", Fetch: config.FetchConfig{Attempts: 2}})
	if prov == nil {
		t.Fatalf("expected provider")
	}
	if name != "fixture" {
		t.Fatalf("expected fixture name, got %s", name)
	}
}

func TestSelectProvider(t *testing.T) {
	cases := []struct {
		raw      string
		wantName string
		sportsdb bool
	}{
		{"fixture", "fixture", false},
		{"FIXTURE", "fixture", false},
		{"sportsdb", "sportsdb", true},
		{"", "sportsdb", true},
	}
	for _, tc := range cases {
		prov, name := selectProvider(config.Config{Provider: tc.raw}, nil)
		if name != tc.wantName {
			t.Fatalf("%q: expected name %s, got %s", tc.raw, tc.wantName, name)
		}
		_, isClient := prov.(*sportsdb.Client)
		_, isFixture := prov.(*fixture.Provider)
		if isClient != tc.sportsdb || isFixture == tc.sportsdb {
			t.Fatalf("%q: unexpected provider %T", tc.raw, prov)
		}
	}
}

func TestSelectProviderUnknownFallsBack(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	prov, name := selectProvider(config.Config{Provider: "espn"}, logger)
	if _, ok := prov.(*sportsdb.Client); !ok || name != "sportsdb" {
		t.Fatalf("expected sportsdb fallback, got %T %s", prov, name)
	}
	if !strings.Contains(buf.String(), "unknown provider") {
		t.Fatalf("expected fallback warning, got %s", buf.String())
	}
}

func TestNormalizeProviderName(t *testing.T) {
	if got := normalizeProviderName(" SportsDB ", nil); got != "sportsdb" {
		t.Fatalf("expected sportsdb, got %s", got)
	}
	if got := normalizeProviderName("", fixture.New()); got != "*fixture.provider" {
		t.Fatalf("expected derived name, got %s", got)
	}
	if got := normalizeProviderName("", nil); got != "provider" {
		t.Fatalf("expected default name, got %s", got)
	}
}
