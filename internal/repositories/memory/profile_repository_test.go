package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"personahub/internal/models"
	"personahub/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRepos(t *testing.T) *Repositories {
	t.Helper()
	return NewRepositories(zap.NewNop())
}

func seedAccount(t *testing.T, repos *Repositories) *models.Account {
	t.Helper()
	account := &models.Account{
		Email:        "owner@example.com",
		Handle:       "owner",
		DisplayName:  "Owner",
		PasswordHash: "hash",
		Role:         "user",
		IsActive:     true,
	}
	require.NoError(t, repos.Account.Create(context.Background(), account))
	return account
}

func seedProfile(t *testing.T, repos *Repositories, accountID int64, name string, isDefault bool) *models.Profile {
	t.Helper()
	profile := &models.Profile{
		AccountID:   accountID,
		ProfileName: name,
		Kind:        models.ProfileKindPublic,
		Status:      models.ProfileStatusPublic,
		IsActive:    true,
		IsDefault:   isDefault,
		Settings:    models.DefaultProfileSettings(),
	}
	require.NoError(t, repos.Profile.Create(context.Background(), profile))
	return profile
}

func defaultCount(t *testing.T, repos *Repositories, accountID int64) int {
	t.Helper()
	profiles, err := repos.Profile.ListByAccount(context.Background(), accountID)
	require.NoError(t, err)

	count := 0
	for _, p := range profiles {
		if p.IsDefault {
			count++
		}
	}
	return count
}

func TestProfileCreateDefaultDemotesSiblings(t *testing.T) {
	repos := newTestRepos(t)
	account := seedAccount(t, repos)

	first := seedProfile(t, repos, account.ID, "first", true)
	second := seedProfile(t, repos, account.ID, "second", true)

	assert.Equal(t, 1, defaultCount(t, repos, account.ID))

	current, err := repos.Profile.GetDefault(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)

	demoted, err := repos.Profile.GetByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.False(t, demoted.IsDefault)
}

func TestProfileFirstCreateForcedDefault(t *testing.T) {
	repos := newTestRepos(t)
	account := seedAccount(t, repos)

	// The flag on the request is ignored for the account's first profile
	first := seedProfile(t, repos, account.ID, "only", false)
	assert.True(t, first.IsDefault)

	current, err := repos.Profile.GetDefault(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, current.ID)
	assert.Equal(t, 1, defaultCount(t, repos, account.ID))
}

func TestProfileNameUniquePerAccountCaseInsensitive(t *testing.T) {
	repos := newTestRepos(t)
	account := seedAccount(t, repos)
	seedProfile(t, repos, account.ID, "Gamer", true)

	dup := &models.Profile{
		AccountID:   account.ID,
		ProfileName: "gamer",
		Kind:        models.ProfileKindPublic,
		Status:      models.ProfileStatusPublic,
		IsActive:    true,
	}
	err := repos.Profile.Create(context.Background(), dup)
	assert.ErrorIs(t, err, repositories.ErrDuplicateProfileName)

	// The same name under a different account is fine
	other := &models.Account{
		Email:        "other@example.com",
		Handle:       "other",
		PasswordHash: "hash",
		IsActive:     true,
	}
	require.NoError(t, repos.Account.Create(context.Background(), other))
	seedProfile(t, repos, other.ID, "Gamer", true)
}

func TestProfileSetDefaultMovesFlag(t *testing.T) {
	repos := newTestRepos(t)
	account := seedAccount(t, repos)
	first := seedProfile(t, repos, account.ID, "first", true)
	second := seedProfile(t, repos, account.ID, "second", false)

	require.NoError(t, repos.Profile.SetDefault(context.Background(), account.ID, second.ID))

	current, err := repos.Profile.GetDefault(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)

	old, err := repos.Profile.GetByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.False(t, old.IsDefault)
	assert.Equal(t, 1, defaultCount(t, repos, account.ID))
}

func TestProfileSetDefaultForeignProfile(t *testing.T) {
	repos := newTestRepos(t)
	account := seedAccount(t, repos)
	seedProfile(t, repos, account.ID, "mine", true)

	other := &models.Account{
		Email:        "other@example.com",
		Handle:       "other",
		PasswordHash: "hash",
		IsActive:     true,
	}
	require.NoError(t, repos.Account.Create(context.Background(), other))
	foreign := seedProfile(t, repos, other.ID, "theirs", true)

	err := repos.Profile.SetDefault(context.Background(), account.ID, foreign.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestProfileSetDefaultConcurrent(t *testing.T) {
	repos := newTestRepos(t)
	account := seedAccount(t, repos)

	profiles := make([]*models.Profile, 0, 5)
	profiles = append(profiles, seedProfile(t, repos, account.ID, "p0", true))
	for i := 1; i < 5; i++ {
		profiles = append(profiles, seedProfile(t, repos, account.ID, "p"+string(rune('0'+i)), false))
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(target int64) {
			defer wg.Done()
			_ = repos.Profile.SetDefault(context.Background(), account.ID, target)
		}(profiles[i%len(profiles)].ID)
	}
	wg.Wait()

	// Whatever the interleaving, exactly one profile ends up default
	assert.Equal(t, 1, defaultCount(t, repos, account.ID))
}

func TestProfileDeleteDefaultPromotesEarliest(t *testing.T) {
	repos := newTestRepos(t)
	repos.Store.clock = stepClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	account := seedAccount(t, repos)

	def := seedProfile(t, repos, account.ID, "default", true)
	oldest := seedProfile(t, repos, account.ID, "oldest", false)
	seedProfile(t, repos, account.ID, "newest", false)

	promotedID, err := repos.Profile.Delete(context.Background(), def.ID)
	require.NoError(t, err)
	require.NotNil(t, promotedID)
	assert.Equal(t, oldest.ID, *promotedID)

	current, err := repos.Profile.GetDefault(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, oldest.ID, current.ID)
	assert.Equal(t, 1, defaultCount(t, repos, account.ID))
}

func TestProfileDeleteNonDefaultPromotesNothing(t *testing.T) {
	repos := newTestRepos(t)
	account := seedAccount(t, repos)
	def := seedProfile(t, repos, account.ID, "default", true)
	extra := seedProfile(t, repos, account.ID, "extra", false)

	promotedID, err := repos.Profile.Delete(context.Background(), extra.ID)
	require.NoError(t, err)
	assert.Nil(t, promotedID)

	current, err := repos.Profile.GetDefault(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, def.ID, current.ID)
}

func TestProfileListOrdersDefaultFirst(t *testing.T) {
	repos := newTestRepos(t)
	repos.Store.clock = stepClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	account := seedAccount(t, repos)

	seedProfile(t, repos, account.ID, "first", false)
	def := seedProfile(t, repos, account.ID, "second", true)
	seedProfile(t, repos, account.ID, "third", false)

	profiles, err := repos.Profile.ListByAccount(context.Background(), account.ID)
	require.NoError(t, err)
	require.Len(t, profiles, 3)
	assert.Equal(t, def.ID, profiles[0].ID)
	assert.Equal(t, "first", profiles[1].ProfileName)
	assert.Equal(t, "third", profiles[2].ProfileName)
}

func TestProfileUpdatePreservesAccountAndCreation(t *testing.T) {
	repos := newTestRepos(t)
	account := seedAccount(t, repos)
	profile := seedProfile(t, repos, account.ID, "name", true)
	created := profile.CreatedAt

	profile.DisplayName = "Renamed"
	profile.AccountID = 999 // must be ignored
	require.NoError(t, repos.Profile.Update(context.Background(), profile))

	stored, err := repos.Profile.GetByID(context.Background(), profile.ID)
	require.NoError(t, err)
	assert.Equal(t, account.ID, stored.AccountID)
	assert.Equal(t, created, stored.CreatedAt)
	assert.Equal(t, "Renamed", stored.DisplayName)
}

// stepClock returns a clock that advances one second per call so creation
// times are strictly ordered
func stepClock(start time.Time) func() time.Time {
	current := start
	var mu sync.Mutex
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}
