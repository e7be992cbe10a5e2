// file: internal/services/post_service.go
package services

import (
	"context"

	"personahub/internal/cache"
	"personahub/internal/events"
	"personahub/internal/models"
	"personahub/internal/repositories"
	"personahub/internal/validation"

	"go.uber.org/zap"
)

// postService implements PostService
type postService struct {
	postRepo     repositories.PostRepository
	profileRepo  repositories.ProfileRepository
	categoryRepo repositories.CategoryRepository
	cache        cache.Cache
	events       events.EventBus
	logger       *zap.Logger
}

// NewPostService creates a new post service
func NewPostService(
	postRepo repositories.PostRepository,
	profileRepo repositories.ProfileRepository,
	categoryRepo repositories.CategoryRepository,
	cache cache.Cache,
	events events.EventBus,
	logger *zap.Logger,
) PostService {
	return &postService{
		postRepo:     postRepo,
		profileRepo:  profileRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
		events:       events,
		logger:       logger,
	}
}

// ===============================
// POST LIFECYCLE
// ===============================

// CreatePost creates a post authored by the profile. The category counter
// update is best-effort: a failure is logged, never surfaced.
func (s *postService) CreatePost(ctx context.Context, req *CreatePostRequest) (*models.Post, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid create post request", err)
	}

	author, err := s.profileRepo.GetByID(ctx, req.ProfileID)
	if err != nil {
		if repositories.IsNotFoundErr(err) {
			return nil, NewNotFoundError("profile not found")
		}
		s.logger.Error("failed to load author profile", zap.Error(err), zap.Int64("profile_id", req.ProfileID))
		return nil, NewInternalError("failed to create post")
	}
	if !author.IsActive {
		return nil, NewInvalidStateError("inactive profiles cannot publish content", "PROFILE_INACTIVE")
	}

	if _, err := s.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
		if repositories.IsNotFoundErr(err) {
			return nil, NewNotFoundError("category not found")
		}
		s.logger.Error("failed to load category", zap.Error(err), zap.Int64("category_id", req.CategoryID))
		return nil, NewInternalError("failed to create post")
	}

	post := &models.Post{
		ProfileID:  req.ProfileID,
		CategoryID: req.CategoryID,
		Title:      req.Title,
		Body:       req.Body,
		Tags:       models.StringArray(req.Tags),
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		s.logger.Error("failed to create post", zap.Error(err), zap.Int64("profile_id", req.ProfileID))
		return nil, NewInternalError("failed to create post")
	}

	s.adjustCategoryCount(ctx, req.CategoryID, 1)
	s.invalidateListings(ctx)

	if err := s.events.PublishAsync(ctx, events.NewContentCreatedEvent(
		string(models.ContentKindPost), post.ID, post.ProfileID, post.Title,
	)); err != nil {
		s.logger.Warn("failed to publish post created event", zap.Error(err), zap.Int64("post_id", post.ID))
	}

	post.AuthorName = author.ProfileName
	post.AuthorAvatarURL = author.AvatarURL

	s.logger.Info("post created", zap.Int64("post_id", post.ID), zap.Int64("profile_id", post.ProfileID))
	return post, nil
}

// GetPost retrieves a post with author and viewer context
func (s *postService) GetPost(ctx context.Context, postID int64, viewerProfileID *int64) (*models.Post, error) {
	if postID <= 0 {
		return nil, NewValidationError("invalid post ID", nil)
	}

	post, err := s.postRepo.GetByID(ctx, postID, viewerProfileID)
	if err != nil {
		if repositories.IsNotFoundErr(err) {
			return nil, NewNotFoundError("post not found")
		}
		s.logger.Error("failed to get post", zap.Error(err), zap.Int64("post_id", postID))
		return nil, NewInternalError("failed to retrieve post")
	}

	return post, nil
}

// UpdatePost applies the non-nil fields after verifying ownership. Moving
// the post between categories shifts both cached counters best-effort.
func (s *postService) UpdatePost(ctx context.Context, req *UpdatePostRequest) (*models.Post, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid update post request", err)
	}

	post, err := s.GetPost(ctx, req.PostID, nil)
	if err != nil {
		return nil, err
	}
	if !post.IsOwnedBy(req.ProfileID) {
		return nil, InsufficientPermissionsError("update", "post")
	}

	previousCategory := post.CategoryID
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *req.CategoryID); err != nil {
			if repositories.IsNotFoundErr(err) {
				return nil, NewNotFoundError("category not found")
			}
			return nil, NewInternalError("failed to update post")
		}
		post.CategoryID = *req.CategoryID
	}
	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Body != nil {
		post.Body = *req.Body
	}
	if req.Tags != nil {
		post.Tags = models.StringArray(req.Tags)
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		if repositories.IsNotFoundErr(err) {
			return nil, NewNotFoundError("post not found")
		}
		s.logger.Error("failed to update post", zap.Error(err), zap.Int64("post_id", req.PostID))
		return nil, NewInternalError("failed to update post")
	}

	if post.CategoryID != previousCategory {
		s.adjustCategoryCount(ctx, previousCategory, -1)
		s.adjustCategoryCount(ctx, post.CategoryID, 1)
	}
	s.invalidateListings(ctx)

	return post, nil
}

// DeletePost removes the post after verifying ownership
func (s *postService) DeletePost(ctx context.Context, postID, profileID int64) error {
	post, err := s.GetPost(ctx, postID, nil)
	if err != nil {
		return err
	}
	if !post.IsOwnedBy(profileID) {
		return InsufficientPermissionsError("delete", "post")
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		if repositories.IsNotFoundErr(err) {
			return NewNotFoundError("post not found")
		}
		s.logger.Error("failed to delete post", zap.Error(err), zap.Int64("post_id", postID))
		return NewInternalError("failed to delete post")
	}

	s.adjustCategoryCount(ctx, post.CategoryID, -1)
	s.invalidateListings(ctx)

	if err := s.events.PublishAsync(ctx, events.NewContentDeletedEvent(
		string(models.ContentKindPost), postID,
	)); err != nil {
		s.logger.Warn("failed to publish post deleted event", zap.Error(err), zap.Int64("post_id", postID))
	}

	return nil
}

// ===============================
// LISTINGS AND SEARCH
// ===============================

// ListPosts retrieves posts, optionally filtered by category
func (s *postService) ListPosts(ctx context.Context, req *ListContentRequest) (*models.PaginatedResponse[models.Post], error) {
	result, err := s.postRepo.List(ctx, req.Pagination, req.CategoryID)
	if err != nil {
		s.logger.Error("failed to list posts", zap.Error(err))
		return nil, NewInternalError("failed to list posts")
	}
	return result, nil
}

// ListPostsByProfile retrieves a profile's posts
func (s *postService) ListPostsByProfile(ctx context.Context, profileID int64, params models.PaginationParams) (*models.PaginatedResponse[models.Post], error) {
	if profileID <= 0 {
		return nil, NewValidationError("invalid profile ID", nil)
	}

	result, err := s.postRepo.ListByProfile(ctx, profileID, params)
	if err != nil {
		s.logger.Error("failed to list profile posts", zap.Error(err), zap.Int64("profile_id", profileID))
		return nil, NewInternalError("failed to list posts")
	}
	return result, nil
}

// SearchPosts matches the term literally and case-insensitively against
// title, body and tags
func (s *postService) SearchPosts(ctx context.Context, req *SearchRequest) (*models.PaginatedResponse[models.Post], error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid search request", err)
	}

	result, err := s.postRepo.Search(ctx, req.Term, req.Pagination)
	if err != nil {
		s.logger.Error("failed to search posts", zap.Error(err), zap.String("term", req.Term))
		return nil, NewInternalError("failed to search posts")
	}
	return result, nil
}

// ===============================
// HELPERS
// ===============================

// adjustCategoryCount shifts the category's cached post counter; failures
// are logged and swallowed so content operations never fail on counters
func (s *postService) adjustCategoryCount(ctx context.Context, categoryID int64, delta int) {
	if err := s.categoryRepo.AdjustCount(ctx, categoryID, delta, 0); err != nil {
		s.logger.Warn("failed to adjust category post count",
			zap.Error(err),
			zap.Int64("category_id", categoryID),
			zap.Int("delta", delta),
		)
	}
}

func (s *postService) invalidateListings(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, "posts:*"); err != nil {
		s.logger.Warn("failed to invalidate post list cache", zap.Error(err))
	}
}
