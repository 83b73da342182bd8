package providers

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/preston-bernstein/sportsdb-sync/internal/domain/leagues"
	"github.com/preston-bernstein/sportsdb-sync/internal/domain/payload"
	"github.com/preston-bernstein/sportsdb-sync/internal/logging"
	"github.com/preston-bernstein/sportsdb-sync/internal/metrics"
)

const (
	defaultRetryAttempts = 1
	defaultBackoff       = 500 * time.Millisecond
)

type backoffFunc func(attempt int) time.Duration

// retryingProvider wraps a LeagueProvider with attempt accounting, retry and backoff.
type retryingProvider struct {
	inner        LeagueProvider
	logger       *slog.Logger
	metrics      *metrics.Recorder
	providerName string
	maxAttempts  int
	backoffFn    backoffFunc
	rng          *rand.Rand
}

// NewRetryingProvider wraps the given provider with retries.
// maxAttempts <= 0 means a single attempt; backoff <= 0 uses the default.
func NewRetryingProvider(inner LeagueProvider, logger *slog.Logger, recorder *metrics.Recorder, name string, maxAttempts int, backoff time.Duration) LeagueProvider {
	return NewRetryingProviderWithRNG(inner, logger, recorder, name, nil, maxAttempts, backoff)
}

// NewRetryingProviderWithRNG is NewRetryingProvider with an explicit jitter source.
func NewRetryingProviderWithRNG(inner LeagueProvider, logger *slog.Logger, recorder *metrics.Recorder, name string, rng *rand.Rand, maxAttempts int, backoff time.Duration) LeagueProvider {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	if name == "" {
		name = "provider"
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &retryingProvider{
		inner:        inner,
		logger:       logger,
		metrics:      recorder,
		providerName: name,
		maxAttempts:  maxAttempts,
		backoffFn: func(attempt int) time.Duration {
			return time.Duration(attempt) * backoff
		},
		rng: rng,
	}
}

func (r *retryingProvider) LookupLeague(ctx context.Context, id leagues.ID) (payload.Document, error) {
	if r.inner == nil {
		return nil, ErrProviderUnavailable
	}
	return r.do(ctx, EndpointLookupLeague, func(ctx context.Context) (payload.Document, error) {
		return r.inner.LookupLeague(ctx, id)
	}, slog.String(logging.FieldLeagueID, id.String()))
}

func (r *retryingProvider) NextEvents(ctx context.Context, id leagues.ID) (payload.Document, error) {
	if r.inner == nil {
		return nil, ErrProviderUnavailable
	}
	return r.do(ctx, EndpointNextEvents, func(ctx context.Context) (payload.Document, error) {
		return r.inner.NextEvents(ctx, id)
	}, slog.String(logging.FieldLeagueID, id.String()))
}

func (r *retryingProvider) AllLeagues(ctx context.Context) (payload.Document, error) {
	if r.inner == nil {
		return nil, ErrProviderUnavailable
	}
	return r.do(ctx, EndpointAllLeagues, r.inner.AllLeagues)
}

func (r *retryingProvider) do(ctx context.Context, endpoint string, fetch fetchFunc, attrs ...any) (payload.Document, error) {
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		start := time.Now()
		doc, err := fetch(ctx)
		r.metrics.RecordProviderAttempt(r.providerName, time.Since(start), err)
		if err == nil {
			return doc, nil
		}
		lastErr = err

		if rlErr, ok := AsRateLimitError(err); ok {
			r.metrics.RecordRateLimit(r.providerName, rlErr.RetryAfter)
		}

		if attempt == r.maxAttempts || ctx.Err() != nil {
			break
		}

		delay := r.computeDelay(err, attempt)
		attrs = scopedAttrs(ctx, attrs)
		logWithProvider(ctx, r.logger, slog.LevelWarn, r.providerName, "provider fetch retry",
			append([]any{
				slog.String(logging.FieldEndpoint, endpoint),
				slog.Int(logging.FieldAttempt, attempt),
				slog.Int("max_attempts", r.maxAttempts),
				slog.Int64("delay_ms", delay.Milliseconds()),
				slog.Any("error", err),
			}, attrs...)...,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if r.maxAttempts > 1 {
		attrs = scopedAttrs(ctx, attrs)
		logWithProvider(ctx, r.logger, slog.LevelWarn, r.providerName, "provider fetch failed",
			append([]any{
				slog.String(logging.FieldEndpoint, endpoint),
				slog.Int("attempts", r.maxAttempts),
				slog.Any("error", lastErr),
			}, attrs...)...,
		)
	}
	return nil, lastErr
}

// scopedAttrs drops call attributes when ctx already carries a scoped logger,
// which holds the same keys.
func scopedAttrs(ctx context.Context, attrs []any) []any {
	if logging.FromContext(ctx, nil) != nil {
		return nil
	}
	return attrs
}

// computeDelay honours Retry-After on rate limits and otherwise jitters the
// linear backoff into [base/2, base].
func (r *retryingProvider) computeDelay(err error, attempt int) time.Duration {
	if rlErr, ok := AsRateLimitError(err); ok && rlErr.RetryAfter > 0 {
		return rlErr.RetryAfter
	}
	base := r.backoffFn(attempt)
	if base <= 1 {
		return base
	}
	half := base / 2
	return half + time.Duration(r.rng.Int63n(int64(base-half)+1))
}
