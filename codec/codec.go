// Package codec centralizes metadata encoding for persisted formats.
//
// Codec selection is a compatibility boundary: snapshot headers record
// the codec name, and a file written with one codec must be opened with
// the same one.
package codec

import "fmt"

// Codec encodes and decodes header and metadata values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name. Self-describing
// formats store the codec name and select the decoder through here.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// MustMarshal is a helper for internal tests.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
