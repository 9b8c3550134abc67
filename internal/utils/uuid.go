package utils

import "github.com/google/uuid"

// NewClientID generates a stable installation identifier for provenance
// tagging of uploads. UUIDv7 keeps identifiers time-sortable; falls back to
// v4 if the clock source fails.
func NewClientID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
