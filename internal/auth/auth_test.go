// AngelaMos | 2026
// auth_test.go

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/invoice-backend/internal/core"
	"github.com/carterperez-dev/templates/invoice-backend/internal/limiter"
	"github.com/carterperez-dev/templates/invoice-backend/internal/session"
)

const (
	adminID       = "507f1f77bcf86cd799439011"
	adminEmail    = "admin@fintech.com"
	adminPassword = "Pass@1234"
)

type memoryUsers struct {
	mu      sync.Mutex
	byEmail map[string]*UserInfo
	rehash  int
}

func newMemoryUsers(t *testing.T) *memoryUsers {
	t.Helper()
	hash, err := core.HashPassword(adminPassword)
	require.NoError(t, err)

	return &memoryUsers{byEmail: map[string]*UserInfo{
		adminEmail: {
			ID:           adminID,
			Email:        adminEmail,
			Name:         "Admin User",
			PasswordHash: hash,
			Role:         "admin",
		},
	}}
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (m *memoryUsers) GetByID(_ context.Context, id string) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

func (m *memoryUsers) UpdatePassword(_ context.Context, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rehash++
	return nil
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	svc := NewService(
		newMemoryUsers(t),
		limiter.NewMemory(limiter.Config{Attempts: 5, Window: time.Minute}),
		nil,
	)
	sessions := session.NewManager(session.NewOpaqueCodec(""), "", 0, false)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		NewHandler(svc, sessions, nil).RegisterRoutes(r)
	})
	return r
}

func postLogin(h http.Handler, email, password string) *httptest.ResponseRecorder {
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.RemoteAddr = "203.0.113.7:40000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestLoginSuccess(t *testing.T) {
	h := newTestHandler(t)

	rec := postLogin(h, "  ADMIN@fintech.com ", adminPassword)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	user := body["user"].(map[string]any)
	assert.Equal(t, adminID, user["id"])
	assert.Equal(t, "admin", user["role"])

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "auth-token", cookies[0].Name)
	assert.Equal(t, "user-"+adminID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.Equal(t, 604800, cookies[0].MaxAge)
}

func TestLoginFailures(t *testing.T) {
	h := newTestHandler(t)

	rec := postLogin(h, "", "x")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgCredentialsRequired, decode(t, rec)["error"])

	rec = postLogin(h, adminEmail, "   ")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgCredentialsRequired, decode(t, rec)["error"])

	rec = postLogin(h, "nobody@fintech.com", adminPassword)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, msgInvalidCredentials, decode(t, rec)["error"])
	assert.Empty(t, rec.Result().Cookies())

	rec = postLogin(h, adminEmail, "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFiveWrongPasswordsThenRateLimited(t *testing.T) {
	h := newTestHandler(t)

	for i := 0; i < 5; i++ {
		rec := postLogin(h, adminEmail, "wrong-password")
		require.Equal(t, http.StatusUnauthorized, rec.Code, "attempt %d", i+1)
	}

	rec := postLogin(h, adminEmail, adminPassword)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, msgTooManyAttempts, decode(t, rec)["error"])
	assert.Empty(t, rec.Result().Cookies())
}

func TestLogout(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, msgLoggedOut, decode(t, rec)["message"])

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
}

func TestMe(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name    string
		cookie  string
		authed  bool
		message string
	}{
		{"no cookie", "", false, msgNoToken},
		{"wrong prefix", adminID, false, msgNoToken},
		{"malformed id", "user-123", false, msgInvalidToken},
		{"unknown user", "user-507f1f77bcf86cd799439099", false, msgUserNotFound},
		{"valid", "user-" + adminID, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "auth-token", Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, tt.authed, body["authenticated"])
			if tt.message != "" {
				assert.Equal(t, tt.message, body["message"])
			} else {
				assert.Equal(t, adminEmail, body["user"].(map[string]any)["email"])
			}
		})
	}
}
