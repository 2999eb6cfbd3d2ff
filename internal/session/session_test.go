// AngelaMos | 2026
// session_test.go

package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/invoice-backend/internal/config"
)

const testUserID = "507f1f77bcf86cd799439011"

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestOpaqueCodecRoundTrip(t *testing.T) {
	c := NewOpaqueCodec("")

	token, err := c.Encode(testUserID)
	require.NoError(t, err)
	assert.Equal(t, "user-"+testUserID, token)

	id, err := c.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, testUserID, id)
}

func TestOpaqueCodecRejects(t *testing.T) {
	c := NewOpaqueCodec("")

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrMissing},
		{"no prefix", testUserID, ErrPrefix},
		{"other prefix", "admin-" + testUserID, ErrPrefix},
		{"short id", "user-abc", ErrMalformed},
		{"non hex", "user-507f1f77bcf86cd79943901z", ErrMalformed},
		{"prefix only", "user-", ErrMalformed},
		{"trailing data", "user-" + testUserID + "x", ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Decode(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := c.Encode("not-an-id")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestSignedCodec(t *testing.T) {
	c, err := NewSignedCodec("", testSecret, time.Hour)
	require.NoError(t, err)

	token, err := c.Encode(testUserID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "user-"+testUserID+"."))

	id, err := c.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, testUserID, id)

	t.Run("opaque token rejected", func(t *testing.T) {
		_, err := c.Decode("user-" + testUserID)
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("swapped id rejected", func(t *testing.T) {
		other := "507f1f77bcf86cd799439012"
		forged := strings.Replace(token, testUserID, other, 1)
		_, err := c.Decode(forged)
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("wrong key rejected", func(t *testing.T) {
		other, err := NewSignedCodec("", []byte("ffffffffffffffffffffffffffffffff"), time.Hour)
		require.NoError(t, err)
		_, err = other.Decode(token)
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("expired rejected", func(t *testing.T) {
		c.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { c.now = time.Now }()

		_, err := c.Decode(token)
		assert.ErrorIs(t, err, ErrMalformed)
	})
}

func TestManagerIssueAndClear(t *testing.T) {
	m := NewManager(NewOpaqueCodec(""), "", 0, true)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Issue(rec, testUserID))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, DefaultCookieName, c.Name)
	assert.Equal(t, "user-"+testUserID, c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 7*24*60*60, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	id, err := m.Decode(req)
	require.NoError(t, err)
	assert.Equal(t, testUserID, id)

	rec = httptest.NewRecorder()
	m.Clear(rec)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, "", cleared[0].Value)
	assert.Less(t, cleared[0].MaxAge, 0)
}

func TestManagerTokenMissing(t *testing.T) {
	m := NewManager(NewOpaqueCodec(""), "", 0, false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Equal(t, "", m.Token(req))
	_, err := m.Decode(req)
	assert.ErrorIs(t, err, ErrMissing)
}

func TestFromConfig(t *testing.T) {
	m, err := FromConfig(config.SessionConfig{
		CookieName: "auth-token",
		Prefix:     "user-",
		MaxAge:     time.Hour,
	}, false)
	require.NoError(t, err)
	assert.IsType(t, &OpaqueCodec{}, m.Codec())

	m, err = FromConfig(config.SessionConfig{
		CookieName: "auth-token",
		Prefix:     "user-",
		MaxAge:     time.Hour,
		SigningKey: string(testSecret),
	}, false)
	require.NoError(t, err)
	assert.IsType(t, &SignedCodec{}, m.Codec())
}
