// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/invoice-backend/internal/core"
	"github.com/carterperez-dev/templates/invoice-backend/internal/metrics"
	"github.com/carterperez-dev/templates/invoice-backend/internal/middleware"
	"github.com/carterperez-dev/templates/invoice-backend/internal/session"
)

const (
	msgCredentialsRequired = "Email and password are required"
	msgTooManyAttempts     = "Too many login attempts. Please try again later."
	msgInvalidCredentials  = "Invalid credentials"
	msgLoggedOut           = "Logged out successfully"
	msgNoToken             = "No valid authentication token"
	msgInvalidToken        = "Invalid authentication token"
	msgUserNotFound        = "User not found"
)

type Handler struct {
	service  *Service
	sessions *session.Manager
	logger   *slog.Logger
}

func NewHandler(
	service *Service,
	sessions *session.Manager,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service:  service,
		sessions: sessions,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.RecordLogin(metrics.LoginBadRequest)
		core.BadRequest(w, "Invalid request body")
		return
	}

	user, err := h.service.Login(r.Context(), req, middleware.ClientIP(r))
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingCredentials):
			metrics.RecordLogin(metrics.LoginBadRequest)
			core.BadRequest(w, msgCredentialsRequired)
		case errors.Is(err, ErrTooManyAttempts):
			metrics.RecordLogin(metrics.LoginRateLimited)
			core.JSONError(w, core.RateLimitError(msgTooManyAttempts))
		case errors.Is(err, ErrInvalidCredentials):
			metrics.RecordLogin(metrics.LoginInvalid)
			core.Unauthorized(w, msgInvalidCredentials)
		default:
			metrics.RecordLogin(metrics.LoginServerFailed)
			core.InternalServerError(w, err)
		}
		return
	}

	if err := h.sessions.Issue(w, user.ID); err != nil {
		metrics.RecordLogin(metrics.LoginServerFailed)
		core.InternalServerError(w, err)
		return
	}

	metrics.RecordLogin(metrics.LoginSuccess)
	h.logger.Info("user logged in",
		"user_id", user.ID,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	core.WriteJSON(w, http.StatusOK, LoginResponse{
		Success: true,
		User:    user.Response(),
	})
}

func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.sessions.Clear(w)
	core.WriteJSON(w, http.StatusOK, core.Response{
		Success: true,
		Message: msgLoggedOut,
	})
}

// Me is a soft check: every outcome other than a server failure is a 200
// with authenticated set accordingly.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := h.sessions.Decode(r)
	if err != nil {
		msg := msgNoToken
		if errors.Is(err, session.ErrMalformed) {
			msg = msgInvalidToken
		}
		writeUnauthenticated(w, msg)
		return
	}

	user, err := h.service.CurrentUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			writeUnauthenticated(w, msgUserNotFound)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	resp := user.Response()
	core.WriteJSON(w, http.StatusOK, MeResponse{
		Success:       true,
		Authenticated: true,
		User:          &resp,
	})
}

func writeUnauthenticated(w http.ResponseWriter, msg string) {
	core.WriteJSON(w, http.StatusOK, MeResponse{
		Success:       false,
		Authenticated: false,
		Message:       msg,
	})
}
