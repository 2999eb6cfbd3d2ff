// AngelaMos | 2026
// gate.go

package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/carterperez-dev/templates/invoice-backend/internal/config"
	"github.com/carterperez-dev/templates/invoice-backend/internal/core"
	"github.com/carterperez-dev/templates/invoice-backend/internal/metrics"
	"github.com/carterperez-dev/templates/invoice-backend/internal/session"
)

type Action int

const (
	Allow Action = iota
	Redirect
	Reject
)

func (a Action) String() string {
	switch a {
	case Redirect:
		return "redirect"
	case Reject:
		return "reject"
	default:
		return "allow"
	}
}

const (
	MsgNotAuthenticated = "Not authenticated"
	MsgInvalidFormat    = "Invalid token format"
	MsgInvalidToken     = "Invalid authentication token"
)

// Decision is the outcome of evaluating one request against the gate.
// UserID is set whenever the session token decoded cleanly.
type Decision struct {
	Action      Action
	Location    string
	Message     string
	ClearCookie bool
	UserID      string
}

// Gate runs before any handler and decides from the path and the session
// cookie alone. It never touches the database and never issues a cookie.
type Gate struct {
	sessions *session.Manager
	cfg      config.GateConfig
	logger   *slog.Logger
}

func NewGate(
	sessions *session.Manager,
	cfg config.GateConfig,
	logger *slog.Logger,
) *Gate {
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.LandingPath == "" {
		cfg.LandingPath = "/dashboard"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		sessions: sessions,
		cfg:      cfg,
		logger:   logger,
	}
}

func (g *Gate) Decide(path, token string) Decision {
	userID, err := g.sessions.Codec().Decode(token)
	malformed := errors.Is(err, session.ErrMalformed)

	isAPI := hasAnyPrefix(path, g.cfg.APIPrefixes)
	isPage := !isAPI && hasAnyPrefix(path, g.cfg.PagePrefixes)

	if isAPI || isPage {
		if err == nil {
			return Decision{Action: Allow, UserID: userID}
		}
		return g.denyProtected(path, isAPI, err)
	}

	switch path {
	case g.cfg.LoginPath:
		if err == nil {
			return Decision{Action: Redirect, Location: g.cfg.LandingPath, UserID: userID}
		}
		return Decision{Action: Allow, ClearCookie: malformed}

	case "/":
		if err == nil {
			return Decision{Action: Redirect, Location: g.cfg.LandingPath, UserID: userID}
		}
		return Decision{
			Action:      Redirect,
			Location:    g.cfg.LoginPath,
			ClearCookie: malformed,
		}
	}

	if err == nil {
		return Decision{Action: Allow, UserID: userID}
	}
	return Decision{Action: Allow}
}

func (g *Gate) denyProtected(path string, isAPI bool, err error) Decision {
	if isAPI {
		msg := MsgInvalidToken
		switch {
		case errors.Is(err, session.ErrMissing):
			msg = MsgNotAuthenticated
		case errors.Is(err, session.ErrPrefix):
			msg = MsgInvalidFormat
		}
		return Decision{Action: Reject, Message: msg}
	}

	return Decision{
		Action:      Redirect,
		Location:    g.loginRedirect(path),
		ClearCookie: errors.Is(err, session.ErrMalformed),
	}
}

func (g *Gate) loginRedirect(path string) string {
	return g.cfg.LoginPath + "?redirect=" + url.QueryEscape(path)
}

func (g *Gate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := g.Decide(r.URL.Path, g.sessions.Token(r))
		metrics.RecordGateDecision(d.Action.String())

		if d.ClearCookie {
			g.sessions.Clear(w)
		}

		switch d.Action {
		case Redirect:
			http.Redirect(w, r, d.Location, http.StatusFound)
			return
		case Reject:
			g.logger.Debug("gate rejected request",
				"path", r.URL.Path,
				"reason", d.Message,
				"request_id", GetRequestID(r.Context()),
			)
			core.Unauthorized(w, d.Message)
			return
		}

		if d.UserID != "" {
			r = r.WithContext(WithUserID(r.Context(), d.UserID))
		}
		next.ServeHTTP(w, r)
	})
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
