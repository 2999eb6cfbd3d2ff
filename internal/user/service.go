// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/invoice-backend/internal/auth"
	"github.com/carterperez-dev/templates/invoice-backend/internal/core"
	"github.com/carterperez-dev/templates/invoice-backend/internal/middleware"
)

type Service struct {
	repo      Repository
	timeout   time.Duration
	validator *validator.Validate
}

func NewService(repo Repository, queryTimeout time.Duration) *Service {
	return &Service{
		repo:      repo,
		timeout:   queryTimeout,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	ctx, cancel := core.QueryContext(ctx, s.timeout)
	defer cancel()

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	ctx, cancel := core.QueryContext(ctx, s.timeout)
	defer cancel()

	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	ctx, cancel := core.QueryContext(ctx, s.timeout)
	defer cancel()

	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

// Create validates the request, hashes the password and stores the user.
// Role defaults to accountant.
func (s *Service) Create(
	ctx context.Context,
	req CreateUserRequest,
) (*User, error) {
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)

	if err := s.validator.Struct(req); err != nil {
		return nil, core.ValidationError("Validation error", core.FormatValidationError(err))
	}

	role := req.Role
	if role == "" {
		role = RoleAccountant
	}

	hash, err := core.HashPassword(core.NormalizePassword(req.Password))
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	id, err := core.NewID()
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           id,
		Email:        req.Email,
		PasswordHash: hash,
		Name:         core.SanitizeText(req.Name),
		Role:         role,
	}

	ctx, cancel := core.QueryContext(ctx, s.timeout)
	defer cancel()

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) CountByRole(ctx context.Context) (map[string]int, error) {
	ctx, cancel := core.QueryContext(ctx, s.timeout)
	defer cancel()

	return s.repo.CountByRole(ctx)
}

func (s *Service) ResolvePrincipal(
	ctx context.Context,
	userID string,
) (*middleware.Principal, error) {
	info, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &middleware.Principal{
		ID:    info.ID,
		Email: info.Email,
		Name:  info.Name,
		Role:  info.Role,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
	}
}

var (
	_ auth.UserProvider            = (*Service)(nil)
	_ middleware.PrincipalResolver = (*Service)(nil)
)
