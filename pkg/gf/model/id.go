package model

import (
	"github.com/google/uuid"
)

// NewID generates a new UUID string.
func NewID() string {
	return uuid.New().String()
}

// IsValidID checks if a string is a parseable UUID.
func IsValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
