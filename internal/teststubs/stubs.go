package teststubs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/sportsdb-sync/internal/domain/leagues"
	"github.com/preston-bernstein/sportsdb-sync/internal/domain/payload"
)

// ErrNotFound is returned by StubProvider for IDs without a configured document.
var ErrNotFound = errors.New("stub: no document")

// StubProvider is a test double for providers.LeagueProvider.
// Requests are recorded as "lookup:<id>", "events:<id>" and "all".
type StubProvider struct {
	Lookups map[leagues.ID]payload.Document
	Events  map[leagues.ID]payload.Document
	All     payload.Document
	// Errs forces an error for a request key, e.g. "events:3".
	Errs map[string]error
	// Err, when set, fails every request.
	Err   error
	Calls atomic.Int32

	mu       sync.Mutex
	requests []string
}

// LookupLeague returns the configured lookup document for id.
func (s *StubProvider) LookupLeague(ctx context.Context, id leagues.ID) (payload.Document, error) {
	return s.serve(ctx, "lookup:"+id.String(), s.Lookups[id])
}

// NextEvents returns the configured events document for id.
func (s *StubProvider) NextEvents(ctx context.Context, id leagues.ID) (payload.Document, error) {
	return s.serve(ctx, "events:"+id.String(), s.Events[id])
}

// AllLeagues returns the configured catalogue document.
func (s *StubProvider) AllLeagues(ctx context.Context) (payload.Document, error) {
	return s.serve(ctx, "all", s.All)
}

// Requests returns the recorded request keys in call order.
func (s *StubProvider) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *StubProvider) serve(ctx context.Context, key string, doc payload.Document) (payload.Document, error) {
	s.Calls.Add(1)
	s.mu.Lock()
	s.requests = append(s.requests, key)
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if err, ok := s.Errs[key]; ok {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	return doc, nil
}

// FlakyProvider fails the first Failures calls of any kind, then delegates.
type FlakyProvider struct {
	Next     *StubProvider
	Failures int
	Err      error
	calls    atomic.Int32
}

func (f *FlakyProvider) fail() error {
	if int(f.calls.Add(1)) <= f.Failures {
		if f.Err != nil {
			return f.Err
		}
		return errors.New("flaky: boom")
	}
	return nil
}

// Attempts returns how many calls the flaky provider has seen.
func (f *FlakyProvider) Attempts() int { return int(f.calls.Load()) }

func (f *FlakyProvider) LookupLeague(ctx context.Context, id leagues.ID) (payload.Document, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.Next.LookupLeague(ctx, id)
}

func (f *FlakyProvider) NextEvents(ctx context.Context, id leagues.ID) (payload.Document, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.Next.NextEvents(ctx, id)
}

func (f *FlakyProvider) AllLeagues(ctx context.Context) (payload.Document, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.Next.AllLeagues(ctx)
}

// StubPublisher records published paths.
type StubPublisher struct {
	Err       error
	mu        sync.Mutex
	Published []string
}

// Publish records path, failing with Err when set.
func (p *StubPublisher) Publish(ctx context.Context, path string) error {
	_ = ctx
	if p.Err != nil {
		return p.Err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Published = append(p.Published, path)
	return nil
}
