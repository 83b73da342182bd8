package payload

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

// Document is an upstream JSON object passed through without interpretation.
// Numbers decode as json.Number so they re-encode verbatim.
type Document map[string]any

var decoder = jsoniter.Config{UseNumber: true}.Froze()

// ErrNotObject is returned when a body is valid JSON but not an object.
var ErrNotObject = errors.New("payload is not a JSON object")

var errEmpty = errors.New("empty payload")

// Decode reads r to the end and decodes it as a single JSON object.
// Anything after the object other than whitespace is an error.
func Decode(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return DecodeBytes(data)
}

// DecodeBytes is Decode over a byte slice.
func DecodeBytes(data []byte) (Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("decode payload: %w", errEmpty)
	}
	var raw any
	if err := decoder.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w (got %T)", ErrNotObject, raw)
	}
	return Document(obj), nil
}

// Empty reports whether the document carries no keys.
func (d Document) Empty() bool {
	return len(d) == 0
}

// Leagues returns the entries of a top-level "leagues" array.
// A missing, null, or non-array value yields nil.
func (d Document) Leagues() []any {
	entries, _ := d["leagues"].([]any)
	return entries
}
