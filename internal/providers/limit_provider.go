package providers

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/preston-bernstein/sportsdb-sync/internal/domain/leagues"
	"github.com/preston-bernstein/sportsdb-sync/internal/domain/payload"
	"github.com/preston-bernstein/sportsdb-sync/internal/logging"
)

// rateLimitedProvider wraps a LeagueProvider and enforces a minimum interval between calls.
type rateLimitedProvider struct {
	next    LeagueProvider
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewRateLimitedProvider returns a LeagueProvider that spaces calls by interval.
// The first call goes through immediately; later calls block until the interval
// elapses. A non-positive interval returns next unchanged.
func NewRateLimitedProvider(next LeagueProvider, interval time.Duration, logger *slog.Logger) LeagueProvider {
	if interval <= 0 {
		return next
	}
	return &rateLimitedProvider{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		logger:  logger,
	}
}

func (p *rateLimitedProvider) LookupLeague(ctx context.Context, id leagues.ID) (payload.Document, error) {
	if err := p.wait(ctx, EndpointLookupLeague); err != nil {
		return nil, err
	}
	return p.next.LookupLeague(ctx, id)
}

func (p *rateLimitedProvider) NextEvents(ctx context.Context, id leagues.ID) (payload.Document, error) {
	if err := p.wait(ctx, EndpointNextEvents); err != nil {
		return nil, err
	}
	return p.next.NextEvents(ctx, id)
}

func (p *rateLimitedProvider) AllLeagues(ctx context.Context) (payload.Document, error) {
	if err := p.wait(ctx, EndpointAllLeagues); err != nil {
		return nil, err
	}
	return p.next.AllLeagues(ctx)
}

func (p *rateLimitedProvider) wait(ctx context.Context, endpoint string) error {
	if p == nil || p.next == nil {
		return ErrProviderUnavailable
	}
	if err := p.limiter.Wait(ctx); err != nil {
		logWithProvider(ctx, p.logger, slog.LevelWarn, "rate-limited", "rate-limited fetch canceled",
			slog.String(logging.FieldEndpoint, endpoint))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}
