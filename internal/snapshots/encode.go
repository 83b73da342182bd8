package snapshots

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
)

const outputIndent = "  "

// Object keys are sorted so reruns over the same upstream data produce
// identical bytes regardless of map iteration order. HTML characters and
// non-ASCII text are written as-is. Indentation is applied afterwards by
// json.Indent; jsoniter's IndentionStep misplaces nested arrays and maps.
var outputJSON = jsoniter.Config{
	SortMapKeys:            true,
	EscapeHTML:             false,
	UseNumber:              true,
	ValidateJsonRawMessage: true,
}.Froze()

// WriteResult describes a completed WriteJSON call.
type WriteResult struct {
	Path      string
	Bytes     int
	Unchanged bool // target already held identical bytes
}

// Encode renders v the way WriteJSON stores it.
func Encode(v any) ([]byte, error) {
	data, err := outputJSON.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	var buf bytes.Buffer
	buf.Grow(len(data) + len(data)/4)
	if err := json.Indent(&buf, data, "", outputIndent); err != nil {
		return nil, fmt.Errorf("indent %T: %w", v, err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// WriteJSON stores v at path, creating the parent directory when needed.
// The content goes to a temp file in the same directory which is synced and
// renamed over path, so readers never observe a partial file. A target that
// already holds the same bytes is left untouched.
func WriteJSON(path string, v any) (WriteResult, error) {
	data, err := Encode(v)
	if err != nil {
		return WriteResult{Path: path}, err
	}
	res := WriteResult{Path: path, Bytes: len(data)}

	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		res.Unchanged = true
		return res, nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return res, err
	}
	if err := writeAtomic(dir, path, data); err != nil {
		return res, err
	}
	return res, nil
}

func writeAtomic(dir, path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op after a successful Close
		_ = tmp.Close()
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
