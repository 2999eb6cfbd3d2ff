// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/invoice-backend/internal/core"
	"github.com/carterperez-dev/templates/invoice-backend/internal/limiter"
)

const tracerName = "invoice-backend/auth"

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type UserInfo struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
}

func (u *UserInfo) Response() UserResponse {
	return UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type Service struct {
	userProvider UserProvider
	limiter      limiter.Limiter
	validator    *validator.Validate
	logger       *slog.Logger
}

func NewService(
	userProvider UserProvider,
	attempts limiter.Limiter,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		userProvider: userProvider,
		limiter:      attempts,
		validator:    validator.New(validator.WithRequiredStructEnabled()),
		logger:       logger,
	}
}

// Login checks the attempt budget for clientKey before looking at the
// credentials, so a blocked client gets ErrTooManyAttempts even with the
// right password.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
	clientKey string,
) (*UserInfo, error) {
	ctx, span := core.StartSpan(ctx, tracerName, "auth.Login")
	defer span.End()

	req = LoginRequest{
		Email:    core.SanitizeText(strings.TrimSpace(req.Email)),
		Password: core.NormalizePassword(req.Password),
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, ErrMissingCredentials
	}
	email, password := req.Email, req.Password

	res, err := s.limiter.Allow(ctx, "login:"+clientKey)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("check login limit: %w", err)
	}
	span.SetAttributes(attribute.Int("login.attempt", res.Count))

	if !res.Allowed {
		s.logger.Warn("login rate limited",
			"client", clientKey,
			"retry_after", res.RetryAfter,
		)
		return nil, ErrTooManyAttempts
	}

	user, err := s.userProvider.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(password, nil)
			return nil, ErrInvalidCredentials
		}
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if err := s.userProvider.UpdatePassword(ctx, user.ID, newHash); err != nil {
			s.logger.Warn("password rehash failed", "user_id", user.ID, "error", err)
		}
	}

	return user, nil
}

func (s *Service) CurrentUser(
	ctx context.Context,
	userID string,
) (*UserInfo, error) {
	return s.userProvider.GetByID(ctx, userID)
}
