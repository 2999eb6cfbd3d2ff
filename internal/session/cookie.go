// AngelaMos | 2026
// cookie.go

package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/carterperez-dev/templates/invoice-backend/internal/config"
)

const DefaultMaxAge = 7 * 24 * time.Hour

// Manager owns the session cookie attributes and the codec behind them.
type Manager struct {
	codec  Codec
	name   string
	maxAge time.Duration
	secure bool
}

func NewManager(codec Codec, name string, maxAge time.Duration, secure bool) *Manager {
	if name == "" {
		name = DefaultCookieName
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Manager{
		codec:  codec,
		name:   name,
		maxAge: maxAge,
		secure: secure,
	}
}

// FromConfig picks the signed codec when a signing key is configured and
// the opaque one otherwise.
func FromConfig(cfg config.SessionConfig, secure bool) (*Manager, error) {
	var codec Codec = NewOpaqueCodec(cfg.Prefix)

	if cfg.SigningKey != "" {
		signed, err := NewSignedCodec(cfg.Prefix, []byte(cfg.SigningKey), cfg.MaxAge)
		if err != nil {
			return nil, fmt.Errorf("session codec: %w", err)
		}
		codec = signed
	}

	return NewManager(codec, cfg.CookieName, cfg.MaxAge, secure), nil
}

func (m *Manager) Codec() Codec {
	return m.codec
}

// Token returns the raw cookie value, or "" when the cookie is absent.
func (m *Manager) Token(r *http.Request) string {
	c, err := r.Cookie(m.name)
	if err != nil {
		return ""
	}
	return c.Value
}

func (m *Manager) Decode(r *http.Request) (string, error) {
	return m.codec.Decode(m.Token(r))
}

func (m *Manager) Issue(w http.ResponseWriter, userID string) error {
	value, err := m.codec.Encode(userID)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.maxAge / time.Second),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
