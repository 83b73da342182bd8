package snapshots

import (
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const manifestVersion = 1

// Manifest summarises one run.
type Manifest struct {
	Version     int         `json:"version"`
	GeneratedAt time.Time   `json:"generatedAt"`
	Provider    string      `json:"provider"`
	Source      string      `json:"source"`
	Requested   []string    `json:"requested"`
	Files       []FileEntry `json:"files"`
	Failures    []Failure   `json:"failures"`
}

// FileEntry is one output file, with its path relative to the data directory.
type FileEntry struct {
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	LeagueID string `json:"leagueId,omitempty"`
	Bytes    int    `json:"bytes"`
}

// Failure is one skipped fetch or write.
type Failure struct {
	LeagueID string `json:"leagueId,omitempty"`
	Endpoint string `json:"endpoint"`
	Error    string `json:"error"`
}

func (m Manifest) normalized() Manifest {
	if m.Version == 0 {
		m.Version = manifestVersion
	}
	if m.GeneratedAt.IsZero() {
		m.GeneratedAt = time.Now().UTC()
	}
	if m.Requested == nil {
		m.Requested = []string{}
	}
	if m.Files == nil {
		m.Files = []FileEntry{}
	}
	if m.Failures == nil {
		m.Failures = []Failure{}
	}
	return m
}

// ReadManifest loads the manifest stored under basePath.
func ReadManifest(basePath string) (Manifest, error) {
	data, err := os.ReadFile(ManifestPath(basePath))
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}
