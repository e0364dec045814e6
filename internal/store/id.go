package store

import (
	"strings"

	"github.com/google/uuid"
)

// IDGenerator returns a candidate record id.
type IDGenerator func() string

// ShortID returns a generator of prefix followed by n uppercase hex characters taken
// from a random UUID.
func ShortID(prefix string, n int) IDGenerator {
	if n <= 0 || n > 32 {
		n = 4
	}
	return func() string {
		raw := strings.ReplaceAll(uuid.New().String(), "-", "")
		return prefix + strings.ToUpper(raw[:n])
	}
}
