// Package json provides JSON serialization helpers backed by goccy/go-json.
package json

import (
	"io"

	gojson "github.com/goccy/go-json"
)

// Marshal serializes v to JSON bytes
func Marshal(v interface{}) ([]byte, error) {
	return gojson.Marshal(v)
}

// Unmarshal deserializes JSON bytes into v
func Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

// MarshalToWriter serializes v directly to a writer
func MarshalToWriter(w io.Writer, v interface{}) error {
	return gojson.NewEncoder(w).Encode(v)
}

// UnmarshalFromReader deserializes JSON from a reader into v
func UnmarshalFromReader(r io.Reader, v interface{}) error {
	return gojson.NewDecoder(r).Decode(v)
}

// Valid reports whether data is valid JSON
func Valid(data []byte) bool {
	return gojson.Valid(data)
}
