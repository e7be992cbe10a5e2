package memory

import (
	"context"
	"testing"

	"personahub/internal/models"
	"personahub/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPost(t *testing.T, repos *Repositories, profileID int64) *models.Post {
	t.Helper()
	category := &models.Category{Name: "general", IsActive: true}
	require.NoError(t, repos.Category.Create(context.Background(), category))

	post := &models.Post{
		ProfileID:  profileID,
		CategoryID: category.ID,
		Title:      "A post about things",
		Body:       "Enough body text to be a real post.",
		Tags:       models.StringArray{"things"},
	}
	require.NoError(t, repos.Post.Create(context.Background(), post))
	return post
}

func postCounters(t *testing.T, repos *Repositories, id int64) (likes, dislikes, saves, shares int) {
	t.Helper()
	post, err := repos.Post.GetByID(context.Background(), id, nil)
	require.NoError(t, err)
	return post.LikeCount, post.DislikeCount, post.SaveCount, post.ShareCount
}

func TestReactionMutualExclusion(t *testing.T) {
	repos := newTestRepos(t)
	account := seedAccount(t, repos)
	profile := seedProfile(t, repos, account.ID, "author", true)
	post := seedPost(t, repos, profile.ID)
	ctx := context.Background()

	require.NoError(t, repos.Engagement.SetReaction(ctx, models.ContentKindPost, post.ID, profile.ID, models.ReactionLike))

	likes, dislikes, _, _ := postCounters(t, repos, post.ID)
	assert.Equal(t, 1, likes)
	assert.Equal(t, 0, dislikes)

	// Disliking replaces the like in one step
	require.NoError(t, repos.Engagement.SetReaction(ctx, models.ContentKindPost, post.ID, profile.ID, models.ReactionDislike))

	likes, dislikes, _, _ = postCounters(t, repos, post.ID)
	assert.Equal(t, 0, likes)
	assert.Equal(t, 1, dislikes)

	engagement, err := repos.Engagement.GetEngagement(ctx, models.ContentKindPost, post.ID, profile.ID)
	require.NoError(t, err)
	require.NotNil(t, engagement.Reaction)
	assert.Equal(t, models.ReactionDislike, *engagement.Reaction)
}

func TestReactionIdempotent(t *testing.T) {
	repos := newTestRepos(t)
	account := seedAccount(t, repos)
	profile := seedProfile(t, repos, account.ID, "author", true)
	post := seedPost(t, repos, profile.ID)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repos.Engagement.SetReaction(ctx, models.ContentKindPost, post.ID, profile.ID, models.ReactionLike))
	}

	likes, _, _, _ := postCounters(t, repos, post.ID)
	assert.Equal(t, 1, likes)
}

func TestRemoveReactionOnlyMatching(t *testing.T) {
	repos := newTestRepos(t)
	account := seedAccount(t, repos)
	profile := seedProfile(t, repos, account.ID, "author", true)
	post := seedPost(t, repos, profile.ID)
	ctx := context.Background()

	require.NoError(t, repos.Engagement.SetReaction(ctx, models.ContentKindPost, post.ID, profile.ID, models.ReactionLike))

	// Removing a dislike that is not there leaves the like untouched
	require.NoError(t, repos.Engagement.RemoveReaction(ctx, models.ContentKindPost, post.ID, profile.ID, models.ReactionDislike))
	likes, _, _, _ := postCounters(t, repos, post.ID)
	assert.Equal(t, 1, likes)

	require.NoError(t, repos.Engagement.RemoveReaction(ctx, models.ContentKindPost, post.ID, profile.ID, models.ReactionLike))
	likes, _, _, _ = postCounters(t, repos, post.ID)
	assert.Equal(t, 0, likes)

	// Removing again is a no-op
	require.NoError(t, repos.Engagement.RemoveReaction(ctx, models.ContentKindPost, post.ID, profile.ID, models.ReactionLike))
	likes, _, _, _ = postCounters(t, repos, post.ID)
	assert.Equal(t, 0, likes)
}

func TestSaveAxisIndependentOfReaction(t *testing.T) {
	repos := newTestRepos(t)
	account := seedAccount(t, repos)
	profile := seedProfile(t, repos, account.ID, "author", true)
	post := seedPost(t, repos, profile.ID)
	ctx := context.Background()

	require.NoError(t, repos.Engagement.Save(ctx, models.ContentKindPost, post.ID, profile.ID))
	require.NoError(t, repos.Engagement.SetReaction(ctx, models.ContentKindPost, post.ID, profile.ID, models.ReactionDislike))

	_, dislikes, saves, _ := postCounters(t, repos, post.ID)
	assert.Equal(t, 1, dislikes)
	assert.Equal(t, 1, saves)

	// Removing the reaction leaves the save in place
	require.NoError(t, repos.Engagement.RemoveReaction(ctx, models.ContentKindPost, post.ID, profile.ID, models.ReactionDislike))
	_, _, saves, _ = postCounters(t, repos, post.ID)
	assert.Equal(t, 1, saves)

	require.NoError(t, repos.Engagement.Unsave(ctx, models.ContentKindPost, post.ID, profile.ID))
	_, _, saves, _ = postCounters(t, repos, post.ID)
	assert.Equal(t, 0, saves)
}

func TestShareIsMonotonic(t *testing.T) {
	repos := newTestRepos(t)
	account := seedAccount(t, repos)
	profile := seedProfile(t, repos, account.ID, "author", true)
	other := seedProfile(t, repos, account.ID, "alt", false)
	post := seedPost(t, repos, profile.ID)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repos.Engagement.Share(ctx, models.ContentKindPost, post.ID, profile.ID))
	}
	require.NoError(t, repos.Engagement.Share(ctx, models.ContentKindPost, post.ID, other.ID))

	_, _, _, shares := postCounters(t, repos, post.ID)
	assert.Equal(t, 2, shares)

	engagement, err := repos.Engagement.GetEngagement(ctx, models.ContentKindPost, post.ID, profile.ID)
	require.NoError(t, err)
	assert.True(t, engagement.Shared)
}

func TestEngagementMissingContent(t *testing.T) {
	repos := newTestRepos(t)
	account := seedAccount(t, repos)
	profile := seedProfile(t, repos, account.ID, "author", true)
	ctx := context.Background()

	err := repos.Engagement.SetReaction(ctx, models.ContentKindPost, 404, profile.ID, models.ReactionLike)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	err = repos.Engagement.Save(ctx, models.ContentKindQuestion, 404, profile.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	// Reads fail the same way mutations do
	_, err = repos.Engagement.GetEngagement(ctx, models.ContentKindPost, 404, profile.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCountersMatchSetCardinality(t *testing.T) {
	repos := newTestRepos(t)
	account := seedAccount(t, repos)
	author := seedProfile(t, repos, account.ID, "author", true)
	post := seedPost(t, repos, author.ID)
	ctx := context.Background()

	// Several profiles react, save and share
	voters := make([]*models.Profile, 0, 4)
	for _, name := range []string{"v1", "v2", "v3", "v4"} {
		voters = append(voters, seedProfile(t, repos, account.ID, name, false))
	}

	require.NoError(t, repos.Engagement.SetReaction(ctx, models.ContentKindPost, post.ID, voters[0].ID, models.ReactionLike))
	require.NoError(t, repos.Engagement.SetReaction(ctx, models.ContentKindPost, post.ID, voters[1].ID, models.ReactionLike))
	require.NoError(t, repos.Engagement.SetReaction(ctx, models.ContentKindPost, post.ID, voters[2].ID, models.ReactionDislike))
	require.NoError(t, repos.Engagement.Save(ctx, models.ContentKindPost, post.ID, voters[3].ID))
	require.NoError(t, repos.Engagement.Share(ctx, models.ContentKindPost, post.ID, voters[0].ID))

	likes, dislikes, saves, shares := postCounters(t, repos, post.ID)
	assert.Equal(t, 2, likes)
	assert.Equal(t, 1, dislikes)
	assert.Equal(t, 1, saves)
	assert.Equal(t, 1, shares)

	// One voter flips; totals follow the sets exactly
	require.NoError(t, repos.Engagement.SetReaction(ctx, models.ContentKindPost, post.ID, voters[1].ID, models.ReactionDislike))

	likes, dislikes, _, _ = postCounters(t, repos, post.ID)
	assert.Equal(t, 1, likes)
	assert.Equal(t, 2, dislikes)
}
