// file: internal/services/category_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategoryDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	description := "Everything else"
	_, err := env.categories.CreateCategory(ctx, &CreateCategoryRequest{Name: "General", Description: &description})
	require.NoError(t, err)

	_, err = env.categories.CreateCategory(ctx, &CreateCategoryRequest{Name: "general"})
	requireServiceError(t, err, "CONFLICT", "CATEGORY_EXISTS")
}

func TestListCategoriesIsCached(t *testing.T) {
	env := newTestEnv(t)
	env.seedCategory(t, "alpha")
	ctx := context.Background()

	first, err := env.categories.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Bypass the service so the cache goes stale
	env.seedCategory(t, "beta")

	cached, err := env.categories.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 1, "listing is served from cache")

	// Creating through the service invalidates the cache
	_, err = env.categories.CreateCategory(ctx, &CreateCategoryRequest{Name: "gamma"})
	require.NoError(t, err)

	fresh, err := env.categories.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 3)
}

func TestDeleteCategoryDeactivates(t *testing.T) {
	env := newTestEnv(t)
	category := env.seedCategory(t, "obsolete")
	ctx := context.Background()

	require.NoError(t, env.categories.DeleteCategory(ctx, category.ID))

	// Gone from listings, still resolvable by ID for existing content
	listed, err := env.categories.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)

	stored, err := env.categories.GetCategory(ctx, category.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	err = env.categories.DeleteCategory(ctx, 9999)
	requireServiceError(t, err, "NOT_FOUND", "")
}
