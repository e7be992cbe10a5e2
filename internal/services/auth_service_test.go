// file: internal/services/auth_service_test.go
package services

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"personahub/internal/models"
	"personahub/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var anonNamePattern = regexp.MustCompile(`^Anon\d{6}$`)

func TestRegisterProvisionsBootstrapProfiles(t *testing.T) {
	env := newTestEnv(t)

	resp := env.register(t, "alice")

	require.NotNil(t, resp.Account)
	assert.Equal(t, "alice@example.com", resp.Account.Email)
	assert.Empty(t, resp.Account.PasswordHash, "password hash must never leave the service")
	require.NotNil(t, resp.Tokens)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)

	require.Len(t, resp.Profiles, 2)

	public := resp.Profiles[0]
	assert.Equal(t, "Alice", public.ProfileName)
	assert.Equal(t, models.ProfileKindPublic, public.Kind)
	assert.Equal(t, models.ProfileStatusPublic, public.Status)
	assert.True(t, public.IsDefault)

	anon := resp.Profiles[1]
	assert.Regexp(t, anonNamePattern, anon.ProfileName)
	assert.Equal(t, models.ProfileKindAnonymous, anon.Kind)
	assert.Equal(t, models.ProfileStatusPrivate, anon.Status)
	assert.False(t, anon.IsDefault)
}

// The public bootstrap profile carries the account's display name, not
// the handle
func TestRegisterNamesPublicProfileAfterDisplayName(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.auth.Register(context.Background(), &RegisterRequest{
		Email:       "ana@example.com",
		Handle:      "anadev",
		DisplayName: "Ana",
		Password:    "correct-horse",
	})
	require.NoError(t, err)

	require.Len(t, resp.Profiles, 2)
	assert.Equal(t, "Ana", resp.Profiles[0].ProfileName)
	assert.Equal(t, "Ana", resp.Profiles[0].DisplayName)
	assert.True(t, resp.Profiles[0].IsDefault)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.auth.Register(context.Background(), &RegisterRequest{
		Email:       "Bob@Example.COM",
		Handle:      "bob",
		DisplayName: "Bob",
		Password:    "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", resp.Account.Email)
}

func TestRegisterDuplicateIdentity(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	_, err := env.auth.Register(context.Background(), &RegisterRequest{
		Email:       "alice@example.com",
		Handle:      "alice2",
		DisplayName: "Alice Again",
		Password:    "correct-horse",
	})
	requireServiceError(t, err, "CONFLICT", "EMAIL_TAKEN")

	_, err = env.auth.Register(context.Background(), &RegisterRequest{
		Email:       "fresh@example.com",
		Handle:      "alice",
		DisplayName: "Alice Again",
		Password:    "correct-horse",
	})
	requireServiceError(t, err, "CONFLICT", "HANDLE_TAKEN")
}

func TestRegisterShortPassword(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Register(context.Background(), &RegisterRequest{
		Email:       "short@example.com",
		Handle:      "short1",
		DisplayName: "Short",
		Password:    "tiny",
	})
	requireServiceError(t, err, "VALIDATION_ERROR", "")
}

// failingProfileRepo rejects every write; reads delegate to the wrapped
// repository
type failingProfileRepo struct {
	repositories.ProfileRepository
}

func (r *failingProfileRepo) Create(ctx context.Context, profile *models.Profile) error {
	return errors.New("profile storage unavailable")
}

func TestRegisterSurvivesProfileProvisioningFailure(t *testing.T) {
	env := newTestEnv(t)

	svc, ok := env.auth.(*authService)
	require.True(t, ok)
	svc.profileRepo = &failingProfileRepo{ProfileRepository: env.repos.Profile}

	resp, err := env.auth.Register(context.Background(), &RegisterRequest{
		Email:       "lonely@example.com",
		Handle:      "lonely",
		DisplayName: "Lonely",
		Password:    "correct-horse",
	})
	require.NoError(t, err, "registration must not fail on profile provisioning")
	assert.Empty(t, resp.Profiles)
	assert.NotNil(t, resp.Tokens)
}

func TestLoginByEmailAndHandle(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")
	ctx := context.Background()

	byEmail, err := env.auth.Login(ctx, &LoginRequest{Identifier: "alice@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Len(t, byEmail.Profiles, 2)
	assert.Empty(t, byEmail.Account.PasswordHash)

	byHandle, err := env.auth.Login(ctx, &LoginRequest{Identifier: "alice", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, byEmail.Account.ID, byHandle.Account.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")
	ctx := context.Background()

	_, err := env.auth.Login(ctx, &LoginRequest{Identifier: "alice", Password: "wrong-password"})
	requireServiceError(t, err, "UNAUTHORIZED", "")

	// Unknown identifier gets the same response as a wrong password
	_, err = env.auth.Login(ctx, &LoginRequest{Identifier: "nobody", Password: "correct-horse"})
	requireServiceError(t, err, "UNAUTHORIZED", "")
}

func TestTokenLifecycle(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "alice")
	ctx := context.Background()

	accountID, err := env.auth.ValidateAccessToken(ctx, resp.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.Account.ID, accountID)

	// A refresh token is not an access token
	_, err = env.auth.ValidateAccessToken(ctx, resp.Tokens.RefreshToken)
	requireServiceError(t, err, "UNAUTHORIZED", "")

	rotated, err := env.auth.RefreshTokens(ctx, &RefreshTokenRequest{RefreshToken: resp.Tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)

	accountID, err = env.auth.ValidateAccessToken(ctx, rotated.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.Account.ID, accountID)

	// An access token cannot be used to refresh
	_, err = env.auth.RefreshTokens(ctx, &RefreshTokenRequest{RefreshToken: resp.Tokens.AccessToken})
	requireServiceError(t, err, "UNAUTHORIZED", "")

	_, err = env.auth.ValidateAccessToken(ctx, "not-a-token")
	requireServiceError(t, err, "UNAUTHORIZED", "")
}
