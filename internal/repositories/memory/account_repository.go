package memory

import (
	"context"
	"strings"

	"personahub/internal/models"
	"personahub/internal/repositories"
)

// AccountRepository is the in-memory AccountRepository implementation
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates an account repository over the given store
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// Create inserts a new account, enforcing email and handle uniqueness
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.accounts {
		if strings.EqualFold(existing.Email, account.Email) {
			return repositories.ErrDuplicateEmail
		}
		if strings.EqualFold(existing.Handle, account.Handle) {
			return repositories.ErrDuplicateHandle
		}
	}

	s.nextAccountID++
	account.ID = s.nextAccountID
	account.CreatedAt = s.now()
	account.UpdatedAt = account.CreatedAt

	s.accounts[account.ID] = copyAccount(account)
	return nil
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return copyAccount(account), nil
}

// GetByEmail retrieves an account by email, case-insensitively
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, account := range s.accounts {
		if strings.EqualFold(account.Email, email) {
			return copyAccount(account), nil
		}
	}
	return nil, repositories.ErrNotFound
}

// GetByHandle retrieves an account by handle, case-insensitively
func (r *AccountRepository) GetByHandle(ctx context.Context, handle string) (*models.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, account := range s.accounts {
		if strings.EqualFold(account.Handle, handle) {
			return copyAccount(account), nil
		}
	}
	return nil, repositories.ErrNotFound
}

// Update persists the account's mutable fields
func (r *AccountRepository) Update(ctx context.Context, account *models.Account) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.accounts[account.ID]
	if !ok {
		return repositories.ErrNotFound
	}

	for id, other := range s.accounts {
		if id == account.ID {
			continue
		}
		if strings.EqualFold(other.Email, account.Email) {
			return repositories.ErrDuplicateEmail
		}
		if strings.EqualFold(other.Handle, account.Handle) {
			return repositories.ErrDuplicateHandle
		}
	}

	account.CreatedAt = existing.CreatedAt
	account.UpdatedAt = s.now()
	s.accounts[account.ID] = copyAccount(account)
	return nil
}

// Delete removes an account
func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.accounts, id)
	return nil
}
