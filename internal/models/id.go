package models

import "github.com/oklog/ulid/v2"

// NewID returns a 26-character ULID. Keys sort chronologically, which
// the key-value backend relies on for newest-first listings.
func NewID() string {
	return ulid.Make().String()
}
