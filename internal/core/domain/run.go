package domain

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewRunID returns a sortable ID for one reconciliation run.
func NewRunID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// ValidRunID reports whether id has the shape NewRunID produces.
func ValidRunID(id string) bool {
	_, err := ulid.Parse(id)
	return err == nil
}
