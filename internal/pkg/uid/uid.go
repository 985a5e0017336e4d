// Package uid generates identifiers: snowflake ids for records and
// certificates, UUIDv7 strings for correlation and token ids.
package uid

import "github.com/google/uuid"

// NumberID generates sortable numeric identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}

// UUID generates time-ordered UUID strings.
type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a version 7 UUID, or a random one when the clock source
// fails.
func (*UUID) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
