// AngelaMos | 2026
// repository_test.go

package user

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/invoice-backend/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(sqlx.NewDb(db, "pgx")), mock
}

var userColumns = []string{
	"id", "email", "password_hash", "name", "role", "created_at", "updated_at",
}

func TestRepositoryGetByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
		WithArgs("admin@fintech.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
			"507f1f77bcf86cd799439011", "admin@fintech.com", "$argon2id$x",
			"Admin User", RoleAdmin, now, now,
		))

	u, err := repo.GetByEmail(context.Background(), "admin@fintech.com")
	require.NoError(t, err)
	assert.Equal(t, "Admin User", u.Name)
	assert.Equal(t, RoleAdmin, u.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
		WithArgs("507f1f77bcf86cd799439011").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.GetByID(context.Background(), "507f1f77bcf86cd799439011")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreateDuplicate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &User{
		ID:    "507f1f77bcf86cd799439011",
		Email: "admin@fintech.com",
		Role:  RoleAdmin,
	})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestRepositoryUpdatePasswordMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE users SET password_hash`).
		WithArgs("507f1f77bcf86cd799439011", "newhash").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePassword(context.Background(), "507f1f77bcf86cd799439011", "newhash")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepositoryCountByRole(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT role, COUNT\(\*\) AS count FROM users GROUP BY role`).
		WillReturnRows(sqlmock.NewRows([]string{"role", "count"}).
			AddRow(RoleAdmin, 1).
			AddRow(RoleAccountant, 3))

	counts, err := repo.CountByRole(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{RoleAdmin: 1, RoleAccountant: 3}, counts)
}
