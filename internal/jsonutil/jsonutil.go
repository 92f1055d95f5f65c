// Package jsonutil provides the deterministic JSON serialization used for
// every artifact the build emits. Values decoded into map[string]any are
// re-encoded with sorted object keys, so identical inputs always produce
// identical bytes regardless of source formatting.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Parse decodes raw bytes into a generic JSON value. Numbers decode as
// json.Number so re-serialization preserves the source representation
// (no float64 round-tripping of large integers).
func Parse(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	// Trailing garbage after the first value is still malformed input.
	if dec.More() {
		return nil, fmt.Errorf("unexpected trailing data after JSON value")
	}
	return v, nil
}

// MarshalPretty serializes v with two-space indentation, no HTML escaping,
// and no trailing newline.
func MarshalPretty(v any) ([]byte, error) {
	return marshal(v, "  ")
}

// MarshalMin serializes v with no insignificant whitespace.
func MarshalMin(v any) ([]byte, error) {
	return marshal(v, "")
}

func marshal(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Encoder always appends a newline; artifacts carry none.
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
