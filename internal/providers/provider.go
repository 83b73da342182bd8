package providers

import (
	"context"

	"github.com/preston-bernstein/sportsdb-sync/internal/domain/leagues"
	"github.com/preston-bernstein/sportsdb-sync/internal/domain/payload"
)

// Upstream endpoints, relative to the keyed API root.
const (
	EndpointLookupLeague = "lookupleague.php"
	EndpointNextEvents   = "eventsnextleague.php"
	EndpointAllLeagues   = "all_leagues.php"
)

// LeagueProvider fetches league documents from an upstream source.
// Documents are returned as decoded JSON objects without interpretation.
type LeagueProvider interface {
	// LookupLeague returns league metadata for id.
	LookupLeague(ctx context.Context, id leagues.ID) (payload.Document, error)
	// NextEvents returns the upcoming fixtures for id.
	NextEvents(ctx context.Context, id leagues.ID) (payload.Document, error)
	// AllLeagues returns the upstream catalogue of leagues.
	AllLeagues(ctx context.Context) (payload.Document, error)
}

// fetchFunc is one upstream call; decorators wrap it uniformly across endpoints.
type fetchFunc func(ctx context.Context) (payload.Document, error)
