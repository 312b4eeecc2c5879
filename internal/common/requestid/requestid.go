package requestid

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	// MaxRequestIDLength is the maximum total length (same as UUID: 36 chars)
	MaxRequestIDLength = 36
	// PrefixLength is the length of the random prefix
	PrefixLength = 5
	// MaxCustomIDLength is the max length for the sanitized custom portion
	MaxCustomIDLength = MaxRequestIDLength - PrefixLength - 1
)

var (
	sanitizePattern           = regexp.MustCompile(`[^a-zA-Z0-9-]+`)
	consecutiveHyphensPattern = regexp.MustCompile(`-+`)
)

// Generate creates a unique request ID from an optional custom ID.
// A custom ID is sanitized to [a-zA-Z0-9-] and prefixed with 5 random
// characters for uniqueness: {prefix}-{sanitized}. An empty or fully
// sanitized-away custom ID falls back to a UUID. Total length is capped
// at 36 characters.
func Generate(customID string) string {
	sanitized := strings.ReplaceAll(customID, " ", "-")
	sanitized = sanitizePattern.ReplaceAllString(sanitized, "")
	sanitized = consecutiveHyphensPattern.ReplaceAllString(sanitized, "-")
	sanitized = strings.Trim(sanitized, "-")

	if sanitized == "" {
		return uuid.New().String()
	}

	if len(sanitized) > MaxCustomIDLength {
		sanitized = sanitized[:MaxCustomIDLength]
	}

	return randomPrefix() + "-" + sanitized
}

// randomPrefix creates a 5-character random hex string using crypto/rand.
func randomPrefix() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// crypto/rand failure is effectively unreachable; fall back to UUID
		return uuid.New().String()[:PrefixLength]
	}
	return hex.EncodeToString(bytes)[:PrefixLength]
}
