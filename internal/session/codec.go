// AngelaMos | 2026
// codec.go

package session

import (
	"errors"
	"strings"

	"github.com/carterperez-dev/templates/invoice-backend/internal/core"
)

const (
	DefaultPrefix     = "user-"
	DefaultCookieName = "auth-token"
)

var (
	ErrMissing   = errors.New("session token missing")
	ErrPrefix    = errors.New("session token has wrong prefix")
	ErrMalformed = errors.New("session token malformed")
)

// Codec turns a user id into a cookie value and back. Decode never panics
// and reports failures with one of the sentinel errors above.
type Codec interface {
	Encode(userID string) (string, error)
	Decode(token string) (string, error)
}

// OpaqueCodec produces "<prefix><id>" tokens. It carries no integrity
// protection: anyone who knows a user id can forge the cookie.
type OpaqueCodec struct {
	Prefix string
}

func NewOpaqueCodec(prefix string) *OpaqueCodec {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &OpaqueCodec{Prefix: prefix}
}

func (c *OpaqueCodec) Encode(userID string) (string, error) {
	if !core.IsID(userID) {
		return "", ErrMalformed
	}
	return c.Prefix + userID, nil
}

func (c *OpaqueCodec) Decode(token string) (string, error) {
	id, err := stripPrefix(token, c.Prefix)
	if err != nil {
		return "", err
	}
	if !core.IsID(id) {
		return "", ErrMalformed
	}
	return id, nil
}

func stripPrefix(token, prefix string) (string, error) {
	if token == "" {
		return "", ErrMissing
	}
	rest, ok := strings.CutPrefix(token, prefix)
	if !ok {
		return "", ErrPrefix
	}
	return rest, nil
}
