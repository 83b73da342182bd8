package snapshots

import (
	"errors"
	"path/filepath"

	"github.com/preston-bernstein/sportsdb-sync/internal/domain/leagues"
	"github.com/preston-bernstein/sportsdb-sync/internal/domain/payload"
)

// Kinds of files a run produces.
const (
	KindLeagues    = "leagues"
	KindFixtures   = "fixtures"
	KindAllLeagues = "all_leagues"
	KindManifest   = "manifest"
)

var errNoWriter = errors.New("snapshot writer not configured")

// Writer persists fetched documents under a single output directory.
type Writer struct {
	basePath string
}

// NewWriter constructs a writer rooted at basePath.
func NewWriter(basePath string) *Writer {
	return &Writer{basePath: basePath}
}

// BasePath exposes the writer root path.
func (w *Writer) BasePath() string {
	if w == nil {
		return ""
	}
	return w.basePath
}

// WriteJSON stores v at name, resolved against the writer root unless absolute.
func (w *Writer) WriteJSON(name string, v any) (WriteResult, error) {
	if w == nil {
		return WriteResult{Path: name}, errNoWriter
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.basePath, name)
	}
	return WriteJSON(path, v)
}

// WriteLeagues writes the consolidated league entries. A nil slice is
// written as an empty array.
func (w *Writer) WriteLeagues(entries []any) (WriteResult, error) {
	if w == nil {
		return WriteResult{}, errNoWriter
	}
	if entries == nil {
		entries = []any{}
	}
	return WriteJSON(LeaguesPath(w.basePath), map[string]any{"leagues": entries})
}

// WriteFixtures writes the upcoming-fixtures document for one league verbatim.
func (w *Writer) WriteFixtures(id leagues.ID, doc payload.Document) (WriteResult, error) {
	if w == nil {
		return WriteResult{}, errNoWriter
	}
	return WriteJSON(FixturesPath(w.basePath, id), doc)
}

// WriteAllLeagues writes the upstream league catalogue verbatim.
func (w *Writer) WriteAllLeagues(doc payload.Document) (WriteResult, error) {
	if w == nil {
		return WriteResult{}, errNoWriter
	}
	return WriteJSON(AllLeaguesPath(w.basePath), doc)
}

// WriteManifest writes the run summary, stamping GeneratedAt when unset.
func (w *Writer) WriteManifest(m Manifest) (WriteResult, error) {
	if w == nil {
		return WriteResult{}, errNoWriter
	}
	return WriteJSON(ManifestPath(w.basePath), m.normalized())
}
