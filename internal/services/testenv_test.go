// file: internal/services/testenv_test.go
package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"personahub/internal/cache"
	"personahub/internal/config"
	"personahub/internal/events"
	"personahub/internal/models"
	"personahub/internal/repositories/memory"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testEnv wires the services over the in-memory repositories
type testEnv struct {
	repos *memory.Repositories
	cache cache.Cache
	bus   events.EventBus

	auth       AuthService
	profiles   ProfileService
	posts      PostService
	questions  QuestionService
	categories CategoryService
	engagement EngagementService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	repos := memory.NewRepositories(logger)
	memCache := cache.NewMemoryCache(cache.DefaultConfig(), logger)
	bus := events.NewInMemoryEventBus(events.DefaultEventBusConfig(), logger)
	require.NoError(t, bus.Start(context.Background()))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = bus.Stop(ctx)
		_ = memCache.Close()
	})

	authCfg := &config.AuthConfig{
		JWTSecret:          "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: time.Hour,
		BCryptCost:         4,
		MinPasswordLength:  8,
		Issuer:             "personahub-test",
	}

	auth := NewAuthService(repos.Account, repos.Profile, authCfg, bus, logger)
	useFakeHasher(t, auth)

	return &testEnv{
		repos:      repos,
		cache:      memCache,
		bus:        bus,
		auth:       auth,
		profiles:   NewProfileService(repos.Profile, repos.Account, memCache, bus, logger),
		posts:      NewPostService(repos.Post, repos.Profile, repos.Category, memCache, bus, logger),
		questions:  NewQuestionService(repos.Question, repos.Profile, repos.Category, memCache, bus, logger),
		categories: NewCategoryService(repos.Category, memCache, logger),
		engagement: NewEngagementService(repos.Engagement, bus, logger),
	}
}

// useFakeHasher swaps bcrypt for a cheap reversible scheme so the auth
// tests do not pay hashing cost
func useFakeHasher(t *testing.T, auth AuthService) {
	t.Helper()

	svc, ok := auth.(*authService)
	require.True(t, ok)

	svc.hashPassword = func(password string, cost int) ([]byte, error) {
		return []byte("hashed:" + password), nil
	}
	svc.comparePassword = func(hash, password []byte) error {
		if string(hash) != "hashed:"+string(password) {
			return errors.New("password mismatch")
		}
		return nil
	}
}

// register provisions an account through the auth service. The display
// name is the capitalized handle, so the bootstrap public profile carries
// a predictable name.
func (env *testEnv) register(t *testing.T, handle string) *AuthResponse {
	t.Helper()

	resp, err := env.auth.Register(context.Background(), &RegisterRequest{
		Email:       handle + "@example.com",
		Handle:      handle,
		DisplayName: strings.ToUpper(handle[:1]) + handle[1:],
		Password:    "correct-horse",
	})
	require.NoError(t, err)
	return resp
}

// seedCategory creates a category directly through the repository
func (env *testEnv) seedCategory(t *testing.T, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, IsActive: true}
	require.NoError(t, env.repos.Category.Create(context.Background(), category))
	return category
}

// requireServiceError asserts the error's taxonomy type and code
func requireServiceError(t *testing.T, err error, errType, code string) {
	t.Helper()

	require.Error(t, err)
	var serviceErr *ServiceError
	require.ErrorAs(t, err, &serviceErr)
	require.Equal(t, errType, serviceErr.Type)
	if code != "" {
		require.Equal(t, code, serviceErr.Code)
	}
}
