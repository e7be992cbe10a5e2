// file: internal/services/profile_service_test.go
package services

import (
	"context"
	"testing"

	"personahub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (env *testEnv) createProfile(t *testing.T, accountID int64, name string) *models.Profile {
	t.Helper()

	profile, err := env.profiles.CreateProfile(context.Background(), &CreateProfileRequest{
		AccountID:   accountID,
		ProfileName: name,
		Kind:        models.ProfileKindPublic,
		Status:      models.ProfileStatusPublic,
	})
	require.NoError(t, err)
	return profile
}

func TestCreateProfileDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	account := env.register(t, "alice").Account
	ctx := context.Background()

	// "Alice" already exists from bootstrap; case does not matter
	_, err := env.profiles.CreateProfile(ctx, &CreateProfileRequest{
		AccountID:   account.ID,
		ProfileName: "ALICE",
		Kind:        models.ProfileKindPublic,
		Status:      models.ProfileStatusPublic,
	})
	requireServiceError(t, err, "CONFLICT", "PROFILE_NAME_TAKEN")

	// A different account can reuse the name
	other := env.register(t, "bob").Account
	profile, err := env.profiles.CreateProfile(ctx, &CreateProfileRequest{
		AccountID:   other.ID,
		ProfileName: "ALICE",
		Kind:        models.ProfileKindPublic,
		Status:      models.ProfileStatusPublic,
	})
	require.NoError(t, err)
	assert.Equal(t, other.ID, profile.AccountID)
}

// An account whose bootstrap provisioning failed must still end up with a
// default once it creates any profile
func TestCreateFirstProfileBecomesDefault(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	account := &models.Account{
		Email:        "bare@example.com",
		Handle:       "bare",
		DisplayName:  "Bare",
		PasswordHash: "hash",
		Role:         "user",
		IsActive:     true,
	}
	require.NoError(t, env.repos.Account.Create(ctx, account))

	profile, err := env.profiles.CreateProfile(ctx, &CreateProfileRequest{
		AccountID:   account.ID,
		ProfileName: "starter",
		Kind:        models.ProfileKindPublic,
		Status:      models.ProfileStatusPublic,
	})
	require.NoError(t, err)
	assert.True(t, profile.IsDefault)

	current, err := env.repos.Profile.GetDefault(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, current.ID)
}

func TestUpdateProfileCannotUnsetDefault(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "alice")
	defaultProfile := resp.Profiles[0]
	ctx := context.Background()

	off := false
	_, err := env.profiles.UpdateProfile(ctx, &UpdateProfileRequest{
		ProfileID: defaultProfile.ID,
		AccountID: resp.Account.ID,
		IsDefault: &off,
	})
	requireServiceError(t, err, "CONFLICT", "DEFAULT_REQUIRED")
}

func TestUpdateProfilePromotesViaFlag(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "alice")
	anon := resp.Profiles[1]
	ctx := context.Background()

	on := true
	updated, err := env.profiles.UpdateProfile(ctx, &UpdateProfileRequest{
		ProfileID: anon.ID,
		AccountID: resp.Account.ID,
		IsDefault: &on,
	})
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)

	profiles, err := env.repos.Profile.ListByAccount(ctx, resp.Account.ID)
	require.NoError(t, err)
	defaults := 0
	for _, p := range profiles {
		if p.IsDefault {
			defaults++
			assert.Equal(t, anon.ID, p.ID)
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestSetDefaultProfileMovesFlag(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "alice")
	anon := resp.Profiles[1]
	ctx := context.Background()

	promoted, err := env.profiles.SetDefaultProfile(ctx, resp.Account.ID, anon.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsDefault)

	old, err := env.repos.Profile.GetByID(ctx, resp.Profiles[0].ID)
	require.NoError(t, err)
	assert.False(t, old.IsDefault)

	// Idempotent when already default
	again, err := env.profiles.SetDefaultProfile(ctx, resp.Account.ID, anon.ID)
	require.NoError(t, err)
	assert.True(t, again.IsDefault)
}

func TestSetDefaultProfileRejectsInactive(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "alice")
	anon := resp.Profiles[1]
	ctx := context.Background()

	// Deactivate through the repository
	stored, err := env.repos.Profile.GetByID(ctx, anon.ID)
	require.NoError(t, err)
	stored.IsActive = false
	require.NoError(t, env.repos.Profile.Update(ctx, stored))

	_, err = env.profiles.SetDefaultProfile(ctx, resp.Account.ID, anon.ID)
	requireServiceError(t, err, "INVALID_STATE", "PROFILE_INACTIVE")
}

func TestDeleteProfileLastIsRejected(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "alice")
	ctx := context.Background()

	require.NoError(t, env.profiles.DeleteProfile(ctx, resp.Account.ID, resp.Profiles[1].ID))

	err := env.profiles.DeleteProfile(ctx, resp.Account.ID, resp.Profiles[0].ID)
	requireServiceError(t, err, "CONFLICT", "LAST_PROFILE")
}

func TestDeleteDefaultProfilePromotesSurvivor(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "alice")
	defaultProfile := resp.Profiles[0]
	anon := resp.Profiles[1]
	ctx := context.Background()

	require.NoError(t, env.profiles.DeleteProfile(ctx, resp.Account.ID, defaultProfile.ID))

	survivor, err := env.repos.Profile.GetDefault(ctx, resp.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, anon.ID, survivor.ID)
}

func TestProfileOwnershipMasksForeignProfiles(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	ctx := context.Background()

	// Bob's profile surfaces as not found for Alice, not forbidden
	_, err := env.profiles.GetProfile(ctx, alice.Account.ID, bob.Profiles[0].ID)
	requireServiceError(t, err, "NOT_FOUND", "")

	_, err = env.profiles.SetDefaultProfile(ctx, alice.Account.ID, bob.Profiles[0].ID)
	requireServiceError(t, err, "NOT_FOUND", "")

	err = env.profiles.DeleteProfile(ctx, alice.Account.ID, bob.Profiles[0].ID)
	requireServiceError(t, err, "NOT_FOUND", "")
}

func TestListProfilesDefaultFirst(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "alice")
	env.createProfile(t, resp.Account.ID, "workalias")
	ctx := context.Background()

	profiles, err := env.profiles.ListProfiles(ctx, resp.Account.ID)
	require.NoError(t, err)
	require.Len(t, profiles, 3)
	assert.True(t, profiles[0].IsDefault)
	assert.Equal(t, resp.Profiles[0].ID, profiles[0].ID)
}
