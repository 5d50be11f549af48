package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateID returns a random UUIDv4 as 32 lowercase hex characters.
func GenerateID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// GenerateToken returns an opaque random value for session and CSRF tokens.
func GenerateToken() string {
	return GenerateID() + GenerateID()
}
