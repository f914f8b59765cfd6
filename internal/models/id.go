package models

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.NewString()
}

// CanonicalID normalizes an identifier so that values coming from tokens,
// route params and stored records compare equal when they name the same entity.
func CanonicalID(id string) string {
	trimmed := strings.TrimSpace(id)
	if parsed, err := uuid.Parse(trimmed); err == nil {
		return parsed.String()
	}
	return strings.ToLower(trimmed)
}

// SameID reports whether a and b identify the same entity.
func SameID(a, b string) bool {
	ca := CanonicalID(a)
	return ca != "" && ca == CanonicalID(b)
}

// ContainsID reports whether ids contains id, comparing canonical forms.
func ContainsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if SameID(candidate, id) {
			return true
		}
	}
	return false
}
