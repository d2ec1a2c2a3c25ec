package pkguid

import "github.com/google/uuid"

// UUID generates time-ordered RFC 9562 (v7) UUID strings.
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a new UUID string. It falls back to a random v4 UUID when
// the v7 clock source fails.
func (u *UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
