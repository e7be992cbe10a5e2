package memory

import (
	"context"
	"testing"
	"time"

	"personahub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPost(t *testing.T, repos *Repositories, profileID, categoryID int64, title, body string, tags ...string) *models.Post {
	t.Helper()
	post := &models.Post{
		ProfileID:  profileID,
		CategoryID: categoryID,
		Title:      title,
		Body:       body,
		Tags:       models.StringArray(tags),
	}
	require.NoError(t, repos.Post.Create(context.Background(), post))
	return post
}

func TestPostSearchMatchesLiterally(t *testing.T) {
	repos := newTestRepos(t)
	account := seedAccount(t, repos)
	profile := seedProfile(t, repos, account.ID, "author", true)
	category := &models.Category{Name: "general", IsActive: true}
	require.NoError(t, repos.Category.Create(context.Background(), category))

	createPost(t, repos, profile.ID, category.ID, "Progress at 100%", "We hit the milestone.")
	createPost(t, repos, profile.ID, category.ID, "Progress report", "Still at 42 percent done.")
	createPost(t, repos, profile.ID, category.ID, "snake_case naming", "Thoughts on underscores.")

	// Percent and underscore are literals, not wildcards
	result, err := repos.Post.Search(context.Background(), "100%", models.PaginationParams{})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "Progress at 100%", result.Data[0].Title)

	result, err = repos.Post.Search(context.Background(), "snake_case", models.PaginationParams{})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)

	// Case-insensitive across title, body and tags
	result, err = repos.Post.Search(context.Background(), "MILESTONE", models.PaginationParams{})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
}

func TestPostSearchMatchesTags(t *testing.T) {
	repos := newTestRepos(t)
	account := seedAccount(t, repos)
	profile := seedProfile(t, repos, account.ID, "author", true)
	category := &models.Category{Name: "general", IsActive: true}
	require.NoError(t, repos.Category.Create(context.Background(), category))

	createPost(t, repos, profile.ID, category.ID, "Untitled thoughts", "Nothing relevant here.", "golang")

	result, err := repos.Post.Search(context.Background(), "golang", models.PaginationParams{})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
}

func TestPostListPaginationAndOrder(t *testing.T) {
	repos := newTestRepos(t)
	repos.Store.clock = stepClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	account := seedAccount(t, repos)
	profile := seedProfile(t, repos, account.ID, "author", true)
	category := &models.Category{Name: "general", IsActive: true}
	require.NoError(t, repos.Category.Create(context.Background(), category))

	for _, title := range []string{"first post here", "second post here", "third post here"} {
		createPost(t, repos, profile.ID, category.ID, title, "A body with sufficient length.")
	}

	// Default order is newest first
	result, err := repos.Post.List(context.Background(), models.PaginationParams{Limit: 2}, nil)
	require.NoError(t, err)
	require.Len(t, result.Data, 2)
	assert.Equal(t, "third post here", result.Data[0].Title)
	assert.Equal(t, int64(3), result.Pagination.TotalItems)
	assert.True(t, result.Pagination.HasNext)

	result, err = repos.Post.List(context.Background(), models.PaginationParams{Limit: 2, Offset: 2}, nil)
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "first post here", result.Data[0].Title)
	assert.False(t, result.Pagination.HasNext)

	// Ascending title order
	result, err = repos.Post.List(context.Background(), models.PaginationParams{Sort: "title", Order: "asc"}, nil)
	require.NoError(t, err)
	require.Len(t, result.Data, 3)
	assert.Equal(t, "first post here", result.Data[0].Title)
}

func TestPostListFiltersByCategory(t *testing.T) {
	repos := newTestRepos(t)
	account := seedAccount(t, repos)
	profile := seedProfile(t, repos, account.ID, "author", true)

	catA := &models.Category{Name: "alpha", IsActive: true}
	catB := &models.Category{Name: "beta", IsActive: true}
	require.NoError(t, repos.Category.Create(context.Background(), catA))
	require.NoError(t, repos.Category.Create(context.Background(), catB))

	createPost(t, repos, profile.ID, catA.ID, "post in alpha", "A body with sufficient length.")
	createPost(t, repos, profile.ID, catB.ID, "post in beta", "A body with sufficient length.")

	result, err := repos.Post.List(context.Background(), models.PaginationParams{}, &catA.ID)
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "post in alpha", result.Data[0].Title)
}

func TestPostViewerDecoration(t *testing.T) {
	repos := newTestRepos(t)
	account := seedAccount(t, repos)
	author := seedProfile(t, repos, account.ID, "author", true)
	viewer := seedProfile(t, repos, account.ID, "viewer", false)
	category := &models.Category{Name: "general", IsActive: true}
	require.NoError(t, repos.Category.Create(context.Background(), category))
	post := createPost(t, repos, author.ID, category.ID, "decorated post", "A body with sufficient length.")
	ctx := context.Background()

	require.NoError(t, repos.Engagement.SetReaction(ctx, models.ContentKindPost, post.ID, viewer.ID, models.ReactionLike))
	require.NoError(t, repos.Engagement.Save(ctx, models.ContentKindPost, post.ID, viewer.ID))

	got, err := repos.Post.GetByID(ctx, post.ID, &viewer.ID)
	require.NoError(t, err)
	assert.False(t, got.IsOwner)
	assert.True(t, got.IsSaved)
	require.NotNil(t, got.ViewerReaction)
	assert.Equal(t, models.ReactionLike, *got.ViewerReaction)
	assert.Equal(t, "author", got.AuthorName)

	got, err = repos.Post.GetByID(ctx, post.ID, &author.ID)
	require.NoError(t, err)
	assert.True(t, got.IsOwner)
}

func TestPostDeleteDropsEngagement(t *testing.T) {
	repos := newTestRepos(t)
	account := seedAccount(t, repos)
	profile := seedProfile(t, repos, account.ID, "author", true)
	category := &models.Category{Name: "general", IsActive: true}
	require.NoError(t, repos.Category.Create(context.Background(), category))
	post := createPost(t, repos, profile.ID, category.ID, "short lived", "A body with sufficient length.")
	ctx := context.Background()

	require.NoError(t, repos.Engagement.SetReaction(ctx, models.ContentKindPost, post.ID, profile.ID, models.ReactionLike))
	require.NoError(t, repos.Post.Delete(ctx, post.ID))

	assert.Empty(t, repos.Store.reactions)
}
