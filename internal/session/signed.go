// AngelaMos | 2026
// signed.go

package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/templates/invoice-backend/internal/core"
)

const issuer = "invoice-backend"

// SignedCodec produces "<prefix><id>.<jwt>" tokens where the JWT is HS256
// signed, its subject equals <id> and it expires with the cookie.
type SignedCodec struct {
	prefix string
	key    jwk.Key
	ttl    time.Duration
	now    func() time.Time
}

func NewSignedCodec(
	prefix string,
	secret []byte,
	ttl time.Duration,
) (*SignedCodec, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	key, err := jwk.Import(secret)
	if err != nil {
		return nil, fmt.Errorf("import signing key: %w", err)
	}

	return &SignedCodec{
		prefix: prefix,
		key:    key,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (c *SignedCodec) Encode(userID string) (string, error) {
	if !core.IsID(userID) {
		return "", ErrMalformed
	}

	now := c.now()
	token, err := jwt.NewBuilder().
		Issuer(issuer).
		Subject(userID).
		IssuedAt(now).
		Expiration(now.Add(c.ttl)).
		Build()
	if err != nil {
		return "", fmt.Errorf("build session token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), c.key))
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	return c.prefix + userID + "." + string(signed), nil
}

func (c *SignedCodec) Decode(token string) (string, error) {
	rest, err := stripPrefix(token, c.prefix)
	if err != nil {
		return "", err
	}

	id, raw, ok := strings.Cut(rest, ".")
	if !ok || !core.IsID(id) {
		return "", ErrMalformed
	}

	parsed, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKey(jwa.HS256(), c.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(issuer),
		jwt.WithClock(jwt.ClockFunc(c.now)),
	)
	if err != nil {
		return "", ErrMalformed
	}

	subject, ok := parsed.Subject()
	if !ok || subject != id {
		return "", ErrMalformed
	}

	return id, nil
}
