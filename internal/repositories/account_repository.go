// file: internal/repositories/account_repository.go
package repositories

import (
	"context"
	"fmt"

	"personahub/internal/database"
	"personahub/internal/models"

	"go.uber.org/zap"
)

// accountRepository implements AccountRepository on postgres
type accountRepository struct {
	*BaseRepository
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.Manager, logger *zap.Logger) AccountRepository {
	return &accountRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const accountColumns = `
	id, email, handle, display_name, password_hash, role, is_active,
	created_at, updated_at
`

// Create inserts a new account
func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (email, handle, display_name, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.QueryRowContext(
		ctx, query,
		account.Email, account.Handle, account.DisplayName,
		account.PasswordHash, account.Role, account.IsActive,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		if r.IsUniqueViolation(err, "accounts_email_key") {
			return ErrDuplicateEmail
		}
		if r.IsUniqueViolation(err, "accounts_handle_key") {
			return ErrDuplicateHandle
		}
		r.GetLogger().Error("failed to create account",
			zap.Error(err),
			zap.String("handle", account.Handle),
		)
		return fmt.Errorf("failed to create account: %w", err)
	}

	r.GetLogger().Info("account created",
		zap.Int64("account_id", account.ID),
		zap.String("handle", account.Handle),
	)

	return nil
}

// GetByID retrieves an account by ID
func (r *accountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT` + accountColumns + `FROM accounts WHERE id = $1`
	return r.scanAccount(r.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves an account by email
func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT` + accountColumns + `FROM accounts WHERE lower(email) = lower($1)`
	return r.scanAccount(r.QueryRowContext(ctx, query, email))
}

// GetByHandle retrieves an account by handle
func (r *accountRepository) GetByHandle(ctx context.Context, handle string) (*models.Account, error) {
	query := `SELECT` + accountColumns + `FROM accounts WHERE lower(handle) = lower($1)`
	return r.scanAccount(r.QueryRowContext(ctx, query, handle))
}

// Update persists mutable account fields
func (r *accountRepository) Update(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts SET
			email = $2, handle = $3, display_name = $4,
			password_hash = $5, role = $6, is_active = $7,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`

	err := r.QueryRowContext(
		ctx, query,
		account.ID, account.Email, account.Handle, account.DisplayName,
		account.PasswordHash, account.Role, account.IsActive,
	).Scan(&account.UpdatedAt)

	if err != nil {
		if r.IsUniqueViolation(err, "accounts_email_key") {
			return ErrDuplicateEmail
		}
		if r.IsUniqueViolation(err, "accounts_handle_key") {
			return ErrDuplicateHandle
		}
		if r.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update account: %w", err)
	}

	return nil
}

// Delete removes an account; profiles cascade at the schema level
func (r *accountRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *accountRepository) scanAccount(row rowScanner) (*models.Account, error) {
	var account models.Account

	err := row.Scan(
		&account.ID, &account.Email, &account.Handle, &account.DisplayName,
		&account.PasswordHash, &account.Role, &account.IsActive,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}

	return &account, nil
}
