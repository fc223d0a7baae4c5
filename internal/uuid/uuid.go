// Package uuid provides time-ordered UUID v7 generation and validation utilities.
package uuid

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// UUID v7 format: xxxxxxxx-xxxx-7xxx-yxxx-xxxxxxxxxxxx
// where the first 48 bits are a Unix millisecond timestamp and y is one of [8, 9, a, b].
var uuidV7Regex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-7[0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}$`)

// New generates a new UUID v7. IDs generated by one process sort in creation order.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		// entropy exhausted; a random v4 still guarantees uniqueness
		return uuid.New().String()
	}
	return id.String()
}

// NewFromString parses a UUID v7 string.
func NewFromString(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid UUID: %w", err)
	}
	if id.Version() != 7 {
		return uuid.Nil, fmt.Errorf("expected UUID v7, got v%d", id.Version())
	}
	return id, nil
}

// IsValid checks if a string is a valid UUID v7.
func IsValid(s string) bool {
	return uuidV7Regex.MatchString(s)
}

// Validate returns an error if the string is not a valid UUID v7.
func Validate(s string) error {
	if !IsValid(s) {
		return fmt.Errorf("invalid UUID v7 format: %q", s)
	}
	return nil
}

// UnixMilli returns the millisecond timestamp embedded in a UUID v7.
func UnixMilli(s string) (int64, error) {
	id, err := NewFromString(s)
	if err != nil {
		return 0, err
	}
	var ms int64
	for _, b := range id[:6] {
		ms = ms<<8 | int64(b)
	}
	return ms, nil
}
