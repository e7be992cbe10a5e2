// file: internal/services/post_service_test.go
package services

import (
	"context"
	"errors"
	"testing"

	"personahub/internal/models"
	"personahub/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostAdjustsCategoryCounter(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "alice")
	profile := resp.Profiles[0]
	category := env.seedCategory(t, "general")
	ctx := context.Background()

	post, err := env.posts.CreatePost(ctx, &CreatePostRequest{
		ProfileID:  profile.ID,
		CategoryID: category.ID,
		Title:      "Counted post",
		Body:       "A body long enough to validate.",
	})
	require.NoError(t, err)
	assert.Equal(t, profile.ProfileName, post.AuthorName)

	stored, err := env.repos.Category.GetByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.PostCount)
	assert.Equal(t, 0, stored.QuestionCount)

	require.NoError(t, env.posts.DeletePost(ctx, post.ID, profile.ID))

	stored, err = env.repos.Category.GetByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.PostCount)
}

// failingCategoryRepo delegates reads but rejects counter adjustments
type failingCategoryRepo struct {
	repositories.CategoryRepository
}

func (r *failingCategoryRepo) AdjustCount(ctx context.Context, categoryID int64, postDelta, questionDelta int) error {
	return errors.New("counter storage unavailable")
}

func TestCreatePostSurvivesCounterFailure(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "alice")
	profile := resp.Profiles[0]
	category := env.seedCategory(t, "general")
	ctx := context.Background()

	svc, ok := env.posts.(*postService)
	require.True(t, ok)
	svc.categoryRepo = &failingCategoryRepo{CategoryRepository: env.repos.Category}

	post, err := env.posts.CreatePost(ctx, &CreatePostRequest{
		ProfileID:  profile.ID,
		CategoryID: category.ID,
		Title:      "Uncounted post",
		Body:       "A body long enough to validate.",
	})
	require.NoError(t, err, "content creation must not fail on category counters")
	assert.NotZero(t, post.ID)
}

func TestUpdatePostRequiresOwnership(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	post := env.seedPost(t, alice.Profiles[0].ID)
	ctx := context.Background()

	title := "Hijacked title"
	_, err := env.posts.UpdatePost(ctx, &UpdatePostRequest{
		PostID:    post.ID,
		ProfileID: bob.Profiles[0].ID,
		Title:     &title,
	})
	requireServiceError(t, err, "FORBIDDEN", "")

	err = env.posts.DeletePost(ctx, post.ID, bob.Profiles[0].ID)
	requireServiceError(t, err, "FORBIDDEN", "")
}

func TestUpdatePostMovesCategoryCounters(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "alice")
	profile := resp.Profiles[0]
	catA := env.seedCategory(t, "alpha")
	catB := env.seedCategory(t, "beta")
	ctx := context.Background()

	post, err := env.posts.CreatePost(ctx, &CreatePostRequest{
		ProfileID:  profile.ID,
		CategoryID: catA.ID,
		Title:      "Moving post",
		Body:       "A body long enough to validate.",
	})
	require.NoError(t, err)

	_, err = env.posts.UpdatePost(ctx, &UpdatePostRequest{
		PostID:     post.ID,
		ProfileID:  profile.ID,
		CategoryID: &catB.ID,
	})
	require.NoError(t, err)

	storedA, err := env.repos.Category.GetByID(ctx, catA.ID)
	require.NoError(t, err)
	storedB, err := env.repos.Category.GetByID(ctx, catB.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, storedA.PostCount)
	assert.Equal(t, 1, storedB.PostCount)
}

func TestCreatePostRejectsInactiveAuthor(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "alice")
	profile := resp.Profiles[1]
	category := env.seedCategory(t, "general")
	ctx := context.Background()

	stored, err := env.repos.Profile.GetByID(ctx, profile.ID)
	require.NoError(t, err)
	stored.IsActive = false
	require.NoError(t, env.repos.Profile.Update(ctx, stored))

	_, err = env.posts.CreatePost(ctx, &CreatePostRequest{
		ProfileID:  profile.ID,
		CategoryID: category.ID,
		Title:      "Blocked post",
		Body:       "A body long enough to validate.",
	})
	requireServiceError(t, err, "INVALID_STATE", "PROFILE_INACTIVE")
}

func TestCreatePostUnknownCategory(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "alice")
	ctx := context.Background()

	_, err := env.posts.CreatePost(ctx, &CreatePostRequest{
		ProfileID:  resp.Profiles[0].ID,
		CategoryID: 404,
		Title:      "Orphan post",
		Body:       "A body long enough to validate.",
	})
	requireServiceError(t, err, "NOT_FOUND", "")
}

func TestSearchPostsLiteralTerm(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "alice")
	profile := resp.Profiles[0]
	category := env.seedCategory(t, "general")
	ctx := context.Background()

	_, err := env.posts.CreatePost(ctx, &CreatePostRequest{
		ProfileID:  profile.ID,
		CategoryID: category.ID,
		Title:      "Progress at 100%",
		Body:       "A body long enough to validate.",
	})
	require.NoError(t, err)
	_, err = env.posts.CreatePost(ctx, &CreatePostRequest{
		ProfileID:  profile.ID,
		CategoryID: category.ID,
		Title:      "Progress at one hundred",
		Body:       "A body long enough to validate.",
	})
	require.NoError(t, err)

	result, err := env.posts.SearchPosts(ctx, &SearchRequest{
		Term:       "100%",
		Pagination: models.PaginationParams{},
	})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "Progress at 100%", result.Data[0].Title)
}
