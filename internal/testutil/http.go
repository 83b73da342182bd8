package testutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	jsoniter "github.com/json-iterator/go"
)

// Upstream is a fake TheSportsDB server keyed by "<endpoint>?<query>".
type Upstream struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string]upstreamRoute
	paths  []string
}

type upstreamRoute struct {
	status int
	body   string
}

// NewUpstream starts a fake upstream closed at test cleanup. Unrouted requests get 404.
func NewUpstream(t *testing.T) *Upstream {
	t.Helper()
	u := &Upstream{routes: map[string]upstreamRoute{}}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.Close)
	return u
}

// Route registers a response for endpoint and raw query, e.g. ("lookupleague.php", "id=4328").
func (u *Upstream) Route(endpoint, query string, status int, body string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.routes[routeKey(endpoint, query)] = upstreamRoute{status: status, body: body}
}

// Paths returns every request path seen, including the key segment.
func (u *Upstream) Paths() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]string, len(u.paths))
	copy(out, u.paths)
	return out
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	endpoint := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	u.mu.Lock()
	u.paths = append(u.paths, r.URL.Path)
	route, ok := u.routes[routeKey(endpoint, r.URL.RawQuery)]
	u.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(route.status)
	_, _ = w.Write([]byte(route.body))
}

func routeKey(endpoint, query string) string {
	if query == "" {
		return endpoint
	}
	return endpoint + "?" + query
}

// DecodeFile decodes the JSON file at path into dest, failing the test on error.
func DecodeFile(t *testing.T, path string, dest any) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, dest); err != nil {
		t.Fatalf("failed to decode %s: %v", path, err)
	}
}
