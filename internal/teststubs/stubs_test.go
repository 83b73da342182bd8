package teststubs

import (
	"context"
	"errors"
	"testing"

	"github.com/preston-bernstein/sportsdb-sync/internal/domain/leagues"
	"github.com/preston-bernstein/sportsdb-sync/internal/domain/payload"
)

func TestStubProviderTracksCalls(t *testing.T) {
	boom := errors.New("boom")
	p := &StubProvider{
		Lookups: map[leagues.ID]payload.Document{"1": {"leagues": []any{}}},
		Errs:    map[string]error{"events:1": boom},
	}

	if _, err := p.LookupLeague(context.Background(), "1"); err != nil {
		t.Fatalf("expected lookup to succeed, got %v", err)
	}
	if _, err := p.NextEvents(context.Background(), "1"); !errors.Is(err, boom) {
		t.Fatalf("expected forced error, got %v", err)
	}
	if _, err := p.AllLeagues(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if p.Calls.Load() != 3 {
		t.Fatalf("expected call count 3, got %d", p.Calls.Load())
	}
	got := p.Requests()
	want := []string{"lookup:1", "events:1", "all"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected requests %v, got %v", want, got)
		}
	}
}

func TestFlakyProviderRecovers(t *testing.T) {
	f := &FlakyProvider{Next: &StubProvider{All: payload.Document{"leagues": nil}}, Failures: 1}
	if _, err := f.AllLeagues(context.Background()); err == nil {
		t.Fatalf("expected first call to fail")
	}
	if _, err := f.AllLeagues(context.Background()); err != nil {
		t.Fatalf("expected second call to succeed, got %v", err)
	}
	if f.Attempts() != 2 {
		t.Fatalf("expected 2 attempts, got %d", f.Attempts())
	}
}

func TestStubPublisher(t *testing.T) {
	p := &StubPublisher{}
	if err := p.Publish(context.Background(), "data/leagues.json"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(p.Published) != 1 {
		t.Fatalf("expected one published path")
	}
	p.Err = errors.New("down")
	if err := p.Publish(context.Background(), "x"); err == nil {
		t.Fatalf("expected error")
	}
}
