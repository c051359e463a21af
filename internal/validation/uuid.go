// Package validation holds small input validators shared by the mock server
// handlers and the client.
package validation

import "github.com/google/uuid"

// IsUUIDv4 reports whether value is a canonical lowercase version-4 UUID
// string. Bracketed, URN-prefixed, uppercase and otherwise non-canonical
// spellings that uuid.Parse would accept are rejected.
func IsUUIDv4(value string) bool {
	parsed, err := uuid.Parse(value)
	if err != nil {
		return false
	}
	if parsed.String() != value {
		return false
	}
	return parsed.Version() == 4
}
