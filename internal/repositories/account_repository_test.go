// file: internal/repositories/account_repository_test.go
package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func accountRow(id int64, email, handle string, now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "handle", "display_name", "password_hash", "role",
		"is_active", "created_at", "updated_at",
	}).AddRow(id, email, handle, "Owner", "hash", "user", true, now, now)
}

// The column list and the FROM keyword must stay separated by whitespace
func TestAccountLookupQueryShape(t *testing.T) {
	manager, mock := newMockManager(t)
	repo := NewAccountRepository(manager, zap.NewNop())
	now := time.Now()

	mock.ExpectQuery(`updated_at\s+FROM accounts WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(accountRow(3, "owner@example.com", "owner", now))

	account, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "owner", account.Handle)

	mock.ExpectQuery(`updated_at\s+FROM accounts WHERE lower\(email\) = lower\(\$1\)`).
		WithArgs("owner@example.com").
		WillReturnRows(accountRow(3, "owner@example.com", "owner", now))

	account, err = repo.GetByEmail(context.Background(), "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(3), account.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
