// file: internal/services/engagement_service_test.go
package services

import (
	"context"
	"testing"

	"personahub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (env *testEnv) seedPost(t *testing.T, profileID int64) *models.Post {
	t.Helper()

	category := env.seedCategory(t, "general")
	post, err := env.posts.CreatePost(context.Background(), &CreatePostRequest{
		ProfileID:  profileID,
		CategoryID: category.ID,
		Title:      "A post worth reacting to",
		Body:       "Plenty of body text so validation passes.",
	})
	require.NoError(t, err)
	return post
}

func engagementReq(kind models.ContentKind, contentID, profileID int64) *EngagementRequest {
	return &EngagementRequest{Kind: kind, ContentID: contentID, ProfileID: profileID}
}

func TestLikeThenDislikeFlips(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "alice")
	profile := resp.Profiles[0]
	post := env.seedPost(t, profile.ID)
	ctx := context.Background()
	req := engagementReq(models.ContentKindPost, post.ID, profile.ID)

	require.NoError(t, env.engagement.Like(ctx, req))
	require.NoError(t, env.engagement.Dislike(ctx, req))

	state, err := env.engagement.GetEngagement(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, state.Reaction)
	assert.Equal(t, models.ReactionDislike, *state.Reaction)

	stored, err := env.posts.GetPost(ctx, post.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.LikeCount)
	assert.Equal(t, 1, stored.DislikeCount)
}

func TestUnlikeIgnoresDislike(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "alice")
	profile := resp.Profiles[0]
	post := env.seedPost(t, profile.ID)
	ctx := context.Background()
	req := engagementReq(models.ContentKindPost, post.ID, profile.ID)

	require.NoError(t, env.engagement.Dislike(ctx, req))
	require.NoError(t, env.engagement.Unlike(ctx, req))

	state, err := env.engagement.GetEngagement(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, state.Reaction)
	assert.Equal(t, models.ReactionDislike, *state.Reaction)

	require.NoError(t, env.engagement.RemoveDislike(ctx, req))
	state, err = env.engagement.GetEngagement(ctx, req)
	require.NoError(t, err)
	assert.Nil(t, state.Reaction)
}

func TestSaveAndShareAxes(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "alice")
	profile := resp.Profiles[0]
	post := env.seedPost(t, profile.ID)
	ctx := context.Background()
	req := engagementReq(models.ContentKindPost, post.ID, profile.ID)

	require.NoError(t, env.engagement.SaveContent(ctx, req))
	require.NoError(t, env.engagement.ShareContent(ctx, req))
	require.NoError(t, env.engagement.ShareContent(ctx, req))

	state, err := env.engagement.GetEngagement(ctx, req)
	require.NoError(t, err)
	assert.True(t, state.Saved)
	assert.True(t, state.Shared)

	stored, err := env.posts.GetPost(ctx, post.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.SaveCount)
	assert.Equal(t, 1, stored.ShareCount)

	require.NoError(t, env.engagement.UnsaveContent(ctx, req))
	stored, err = env.posts.GetPost(ctx, post.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.SaveCount)
	assert.Equal(t, 1, stored.ShareCount, "shares are never decremented")
}

func TestEngagementOnMissingContent(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "alice")
	profile := resp.Profiles[0]
	ctx := context.Background()

	err := env.engagement.Like(ctx, engagementReq(models.ContentKindPost, 9999, profile.ID))
	requireServiceError(t, err, "NOT_FOUND", "")

	err = env.engagement.SaveContent(ctx, engagementReq(models.ContentKindQuestion, 9999, profile.ID))
	requireServiceError(t, err, "NOT_FOUND", "")

	_, err = env.engagement.GetEngagement(ctx, engagementReq(models.ContentKindPost, 9999, profile.ID))
	requireServiceError(t, err, "NOT_FOUND", "")
}

func TestEngagementValidatesKind(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "alice")
	profile := resp.Profiles[0]
	post := env.seedPost(t, profile.ID)
	ctx := context.Background()

	err := env.engagement.Like(ctx, engagementReq(models.ContentKind("comment"), post.ID, profile.ID))
	requireServiceError(t, err, "VALIDATION_ERROR", "")
}
