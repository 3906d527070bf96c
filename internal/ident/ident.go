// Package ident hands out the opaque identifiers used as primary keys for
// orders, customers, items and API keys.
package ident

import "github.com/google/uuid"

// Generator returns a new identifier on every call.
type Generator func() string

// New returns a random UUIDv4 string.
func New() string {
	return uuid.NewString()
}
