package runner

import (
	"fmt"
	"strings"

	"github.com/preston-bernstein/sportsdb-sync/internal/providers"
)

// normalizeProviderName returns a lower-cased provider name, deriving from instance when not explicitly configured.
// Used across runner wiring and the provider factory to keep naming consistent in metrics/logs.
func normalizeProviderName(raw string, provider providers.LeagueProvider) string {
	if raw = strings.TrimSpace(raw); raw != "" {
		return strings.ToLower(raw)
	}
	if provider != nil {
		return strings.ToLower(fmt.Sprintf("%T", provider))
	}
	return "provider"
}
