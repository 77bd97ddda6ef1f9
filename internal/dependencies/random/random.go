package random

import "github.com/google/uuid"

// Random provides identifier generation that can be mocked for testing
type Random interface {
	// NewID returns a fresh unique identifier
	NewID() string
}

// UUIDRandom implements Random using random (v4) UUIDs
type UUIDRandom struct{}

// New creates a new UUIDRandom
func New() *UUIDRandom {
	return &UUIDRandom{}
}

// NewID returns a new random UUID in its canonical string form
func (r *UUIDRandom) NewID() string {
	return uuid.NewString()
}
