package sportsdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/preston-bernstein/sportsdb-sync/internal/domain/leagues"
	"github.com/preston-bernstein/sportsdb-sync/internal/domain/payload"
	"github.com/preston-bernstein/sportsdb-sync/internal/logging"
	"github.com/preston-bernstein/sportsdb-sync/internal/providers"
)

// Config controls how the client reaches TheSportsDB.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client fetches league documents from TheSportsDB v1 JSON API.
// Requests go to {BaseURL}/{APIKey}/{endpoint}.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpDoer
	logger     *slog.Logger
	now        func() time.Time
}

var _ providers.LeagueProvider = (*Client)(nil)

// NewClient constructs a TheSportsDB client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
		logger:     cfg.Logger,
		now:        time.Now,
	}
}

// LookupLeague calls lookupleague.php?id={id}.
func (c *Client) LookupLeague(ctx context.Context, id leagues.ID) (payload.Document, error) {
	return c.get(ctx, providers.EndpointLookupLeague, url.Values{"id": {id.String()}})
}

// NextEvents calls eventsnextleague.php?id={id}.
func (c *Client) NextEvents(ctx context.Context, id leagues.ID) (payload.Document, error) {
	return c.get(ctx, providers.EndpointNextEvents, url.Values{"id": {id.String()}})
}

// AllLeagues calls all_leagues.php.
func (c *Client) AllLeagues(ctx context.Context) (payload.Document, error) {
	return c.get(ctx, providers.EndpointAllLeagues, nil)
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values) (payload.Document, error) {
	// label never includes the key, which is part of the URL path
	label := endpoint
	if len(query) > 0 {
		label += "?" + query.Encode()
	}

	req, err := c.buildRequest(ctx, endpoint, query)
	if err != nil {
		return nil, c.fetchError(label, 0, redactURLError(err))
	}

	logger := logging.FromContext(ctx, c.logger)
	logging.Info(logger, "fetching endpoint", logging.FieldProvider, providerName, logging.FieldEndpoint, label)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fetchError(label, 0, redactURLError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logging.Warn(logger, "upstream returned non-success status",
			logging.FieldEndpoint, label,
			logging.FieldStatusCode, resp.StatusCode,
		)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, c.fetchError(label, resp.StatusCode, &providers.RateLimitError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), c.now()),
		})
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return nil, c.fetchError(label, resp.StatusCode, fmt.Errorf("unexpected status: %s", strings.TrimSpace(string(body))))
	}

	doc, err := payload.Decode(resp.Body)
	if err != nil {
		return nil, c.fetchError(label, resp.StatusCode, err)
	}
	return doc, nil
}

func (c *Client) buildRequest(ctx context.Context, endpoint string, query url.Values) (*http.Request, error) {
	target := c.baseURL + "/" + url.PathEscape(c.apiKey) + "/" + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// redactURLError drops the request URL, which carries the API key, from transport errors.
func redactURLError(err error) error {
	var uErr *url.Error
	if errors.As(err, &uErr) {
		return fmt.Errorf("%s: %w", uErr.Op, uErr.Err)
	}
	return err
}

func (c *Client) fetchError(endpoint string, status int, err error) error {
	return &providers.FetchError{
		Provider:   providerName,
		Endpoint:   endpoint,
		StatusCode: status,
		Err:        err,
	}
}
