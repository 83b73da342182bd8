package config

import "time"

const (
	envProvider         = "PROVIDER"
	envDataDir          = "DATA_DIR"
	envLeaguesSource    = "LEAGUES_SOURCE"
	envLeaguesConfig    = "LEAGUES_CONFIG"
	envAPIKey           = "API_SPORTS_KEY"
	envTestKeyFallback  = "SPORTSDB_TEST_KEY_FALLBACK"
	envSportsDBBaseURL  = "SPORTSDB_BASE_URL"
	envHTTPTimeout      = "HTTP_TIMEOUT"
	envFetchAttempts    = "FETCH_ATTEMPTS"
	envFetchBackoff     = "FETCH_BACKOFF"
	envFetchMinInterval = "FETCH_MIN_INTERVAL"
	envFetchAllLeagues  = "FETCH_ALL_LEAGUES"
	envMetricsOn        = "METRICS_ENABLED"
	envMetricsTextfile  = "METRICS_TEXTFILE"
	envOtelEndpoint     = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService      = "OTEL_SERVICE_NAME"
	envOtelInsecure     = "OTEL_EXPORTER_OTLP_INSECURE"
	envPublishEndpoint  = "PUBLISH_ENDPOINT"
	envPublishAccessKey = "PUBLISH_ACCESS_KEY"
	envPublishSecretKey = "PUBLISH_SECRET_KEY"
	envPublishBucket    = "PUBLISH_BUCKET"
	envPublishPrefix    = "PUBLISH_PREFIX"
	envPublishUseSSL    = "PUBLISH_USE_SSL"

	defaultDotEnv        = ".env"
	defaultProvider      = "sportsdb"
	defaultDataDir       = "data"
	defaultLeaguesSource = SourceConfig
	defaultLeaguesConfig = "leagues_config.json"
	defaultSportsDBURL   = "https://www.thesportsdb.com/api/v1/json"
	// Public key documented by TheSportsDB for development use.
	defaultTestAPIKey  = "123"
	defaultHTTPTimeout = 30 * time.Second
	// One attempt per call: a failed fetch is skipped for the rest of the run.
	defaultFetchAttempts = 1
	defaultFetchBackoff  = 500 * time.Millisecond
	defaultServiceName   = "sportsdb-sync"
)

// League sources.
const (
	SourceConfig = "config"
	SourceStatic = "static"
)
