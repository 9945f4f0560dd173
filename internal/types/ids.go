// README: Shared identifier and coordinate types.
package types

import "github.com/google/uuid"

type ID string

// NewID returns a random UUIDv4 identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
