// AngelaMos | 2026
// id.go

package core

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// IDLength is the length of every stored identifier: 12 bytes, hex encoded.
const IDLength = 24

// NewID returns a time-ordered 24 character hex identifier built from the
// first 12 bytes of a UUIDv7 (48-bit millisecond timestamp plus randomness).
func NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return hex.EncodeToString(id[:IDLength/2]), nil
}

func IsID(s string) bool {
	if len(s) != IDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
