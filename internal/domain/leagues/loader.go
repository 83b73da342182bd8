package leagues

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

var configJSON = jsoniter.Config{UseNumber: true}.Froze()

// Load reads league IDs from a config file shaped as
// {"leagues": [{"id": ...}, ...]} and returns them deduplicated.
// Files ending in .yaml or .yml are parsed as YAML with the same shape.
// A file without a "leagues" key yields no IDs.
func Load(path string) ([]ID, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Reason: "read failed", Err: err}
	}

	var root any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &root)
	default:
		err = configJSON.Unmarshal(data, &root)
	}
	if err != nil {
		return nil, &ConfigError{Path: path, Reason: "malformed file", Err: err}
	}

	ids, err := extractIDs(root)
	if err != nil {
		return nil, &ConfigError{Path: path, Reason: "unexpected format", Err: err}
	}
	return Dedupe(ids), nil
}

func extractIDs(root any) ([]ID, error) {
	obj, ok := asObject(root)
	if !ok {
		return nil, fmt.Errorf("top level must be an object, got %T", root)
	}
	raw, ok := obj["leagues"]
	if !ok || raw == nil {
		return nil, nil
	}
	entries, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf(`"leagues" must be a list, got %T`, raw)
	}

	ids := make([]ID, 0, len(entries))
	for i, entry := range entries {
		fields, ok := asObject(entry)
		if !ok {
			return nil, fmt.Errorf("entry %d must be an object with an \"id\" key, got %T", i, entry)
		}
		rawID, ok := fields["id"]
		if !ok || rawID == nil {
			return nil, fmt.Errorf(`entry %d is missing "id"`, i)
		}
		id, err := normalizeID(rawID)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// asObject accepts both JSON objects and YAML mappings.
func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func normalizeID(v any) (ID, error) {
	var raw string
	switch id := v.(type) {
	case string:
		raw = strings.TrimSpace(id)
	case json.Number:
		if _, err := strconv.ParseInt(id.String(), 10, 64); err != nil {
			return "", fmt.Errorf("id %s is not an integer", id)
		}
		raw = id.String()
	case fmt.Stringer:
		raw = strings.TrimSpace(id.String())
	case int:
		raw = strconv.Itoa(id)
	case int64:
		raw = strconv.FormatInt(id, 10)
	case uint64:
		raw = strconv.FormatUint(id, 10)
	case float64:
		if id != math.Trunc(id) {
			return "", fmt.Errorf("id %v is not an integer", id)
		}
		raw = strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return "", fmt.Errorf("id must be a string or number, got %T", v)
	}
	if !validID(raw) {
		return "", fmt.Errorf("id %q is not usable", raw)
	}
	return ID(raw), nil
}
