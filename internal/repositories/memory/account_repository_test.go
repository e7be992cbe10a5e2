package memory

import (
	"context"
	"testing"

	"personahub/internal/models"
	"personahub/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountDuplicateDetectionCaseInsensitive(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	seedAccount(t, repos)

	err := repos.Account.Create(ctx, &models.Account{
		Email:        "OWNER@example.com",
		Handle:       "different",
		PasswordHash: "hash",
	})
	assert.ErrorIs(t, err, repositories.ErrDuplicateEmail)

	err = repos.Account.Create(ctx, &models.Account{
		Email:        "fresh@example.com",
		Handle:       "OWNER",
		PasswordHash: "hash",
	})
	assert.ErrorIs(t, err, repositories.ErrDuplicateHandle)
}

func TestAccountLookupCaseInsensitive(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	account := seedAccount(t, repos)

	byEmail, err := repos.Account.GetByEmail(ctx, "OWNER@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byEmail.ID)

	byHandle, err := repos.Account.GetByHandle(ctx, "Owner")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byHandle.ID)

	_, err = repos.Account.GetByHandle(ctx, "stranger")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
