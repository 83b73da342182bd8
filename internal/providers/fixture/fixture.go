package fixture

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/preston-bernstein/sportsdb-sync/internal/domain/leagues"
	"github.com/preston-bernstein/sportsdb-sync/internal/domain/payload"
	"github.com/preston-bernstein/sportsdb-sync/internal/providers"
	"github.com/preston-bernstein/sportsdb-sync/internal/timeutil"
)

type league struct {
	name    string
	country string
	home    string
	away    string
}

var catalogue = map[leagues.ID]league{
	"4328": {"English Premier League", "England", "Arsenal", "Chelsea"},
	"4331": {"German Bundesliga", "Germany", "Bayern Munich", "Borussia Dortmund"},
	"4332": {"Italian Serie A", "Italy", "Inter Milan", "Juventus"},
	"4334": {"French Ligue 1", "France", "Paris SG", "Marseille"},
	"4335": {"Spanish La Liga", "Spain", "Barcelona", "Real Madrid"},
	"4351": {"Brazilian Serie A", "Brazil", "Flamengo", "Palmeiras"},
	"4480": {"UEFA Champions League", "Europe", "Manchester City", "Bayern Munich"},
}

// Provider returns TheSportsDB-shaped documents for offline runs and tests.
// Unknown IDs behave like the real API: {"leagues": null} / {"events": null}.
type Provider struct {
	now func() time.Time
}

var _ providers.LeagueProvider = (*Provider)(nil)

// New creates a fixture provider with a time source.
func New() *Provider {
	return &Provider{
		now: time.Now,
	}
}

// LookupLeague returns league metadata for a catalogued id.
func (p *Provider) LookupLeague(ctx context.Context, id leagues.ID) (payload.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l, ok := catalogue[id]
	if !ok {
		return payload.Document{"leagues": nil}, nil
	}
	return payload.Document{"leagues": []any{leagueEntry(id, l)}}, nil
}

// NextEvents returns two upcoming events for a catalogued id, anchored to today (UTC).
func (p *Provider) NextEvents(ctx context.Context, id leagues.ID) (payload.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l, ok := catalogue[id]
	if !ok {
		return payload.Document{"events": nil}, nil
	}

	day := timeutil.StartOfDayUTC(p.now())
	events := []any{
		event(id, l, 1, l.home, l.away, day.AddDate(0, 0, 2).Add(15*time.Hour)),
		event(id, l, 2, l.away, l.home, day.AddDate(0, 0, 9).Add(19*time.Hour+30*time.Minute)),
	}
	return payload.Document{"events": events}, nil
}

// AllLeagues returns the catalogue, ordered by id.
func (p *Provider) AllLeagues(ctx context.Context) (payload.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(catalogue))
	for id := range catalogue {
		ids = append(ids, id.String())
	}
	sort.Strings(ids)

	entries := make([]any, 0, len(ids))
	for _, id := range ids {
		l := catalogue[leagues.ID(id)]
		entries = append(entries, map[string]any{
			"idLeague":           id,
			"strLeague":          l.name,
			"strSport":           "Soccer",
			"strLeagueAlternate": "",
		})
	}
	return payload.Document{"leagues": entries}, nil
}

func leagueEntry(id leagues.ID, l league) map[string]any {
	return map[string]any{
		"idLeague":   id.String(),
		"strLeague":  l.name,
		"strSport":   "Soccer",
		"strCountry": l.country,
	}
}

func event(id leagues.ID, l league, n int, home, away string, at time.Time) map[string]any {
	return map[string]any{
		"idEvent":      fmt.Sprintf("%s%04d", id, n),
		"idLeague":     id.String(),
		"strLeague":    l.name,
		"strEvent":     home + " vs " + away,
		"strHomeTeam":  home,
		"strAwayTeam":  away,
		"dateEvent":    timeutil.FormatDate(at),
		"strTime":      timeutil.FormatTime(at),
		"strTimestamp": timeutil.FormatTimestamp(at),
	}
}
