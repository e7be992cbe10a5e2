package memory

import (
	"context"
	"regexp"
	"strings"

	"personahub/internal/models"
	"personahub/internal/repositories"
)

// PostRepository is the in-memory PostRepository implementation
type PostRepository struct {
	store *Store
}

// NewPostRepository creates a post repository over the given store
func NewPostRepository(store *Store) *PostRepository {
	return &PostRepository{store: store}
}

// Create inserts a new post with zeroed counters
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextPostID++
	post.ID = s.nextPostID
	post.CreatedAt = s.now()
	post.UpdatedAt = post.CreatedAt
	post.LikeCount = 0
	post.DislikeCount = 0
	post.SaveCount = 0
	post.ShareCount = 0

	s.posts[post.ID] = copyPost(post)
	return nil
}

// GetByID retrieves a post decorated with author and viewer context
func (r *PostRepository) GetByID(ctx context.Context, id int64, viewerProfileID *int64) (*models.Post, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}

	result := copyPost(post)
	s.decoratePostLocked(result, viewerProfileID)
	return result, nil
}

// Update persists the post's mutable fields
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.posts[post.ID]
	if !ok {
		return repositories.ErrNotFound
	}

	existing.CategoryID = post.CategoryID
	existing.Title = post.Title
	existing.Body = post.Body
	existing.Tags = append(models.StringArray(nil), post.Tags...)
	existing.UpdatedAt = s.now()
	post.UpdatedAt = existing.UpdatedAt
	return nil
}

// Delete removes a post and its engagement rows
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.posts, id)
	s.dropEngagement(models.ContentKindPost, id)
	return nil
}

// List retrieves posts with pagination, optionally filtered by category
func (r *PostRepository) List(ctx context.Context, params models.PaginationParams, categoryID *int64) (*models.PaginatedResponse[models.Post], error) {
	return r.listWhere(params, func(post *models.Post) bool {
		return categoryID == nil || post.CategoryID == *categoryID
	})
}

// ListByProfile retrieves a profile's posts with pagination
func (r *PostRepository) ListByProfile(ctx context.Context, profileID int64, params models.PaginationParams) (*models.PaginatedResponse[models.Post], error) {
	return r.listWhere(params, func(post *models.Post) bool {
		return post.ProfileID == profileID
	})
}

// Search matches the term case-insensitively and literally against title,
// body and tags
func (r *PostRepository) Search(ctx context.Context, term string, params models.PaginationParams) (*models.PaginatedResponse[models.Post], error) {
	pattern, err := searchPattern(term)
	if err != nil {
		return nil, err
	}

	return r.listWhere(params, func(post *models.Post) bool {
		if pattern.MatchString(post.Title) || pattern.MatchString(post.Body) {
			return true
		}
		for _, tag := range post.Tags {
			if pattern.MatchString(tag) {
				return true
			}
		}
		return false
	})
}

func (r *PostRepository) listWhere(params models.PaginationParams, match func(*models.Post) bool) (*models.PaginatedResponse[models.Post], error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]models.Post, 0)
	for _, post := range s.posts {
		if match(post) {
			clone := copyPost(post)
			s.decoratePostLocked(clone, nil)
			matched = append(matched, *clone)
		}
	}

	orderSlice(matched, params, func(post models.Post, field string) (string, int64) {
		switch field {
		case "updated_at":
			return "", post.UpdatedAt.UnixNano()
		case "title":
			return strings.ToLower(post.Title), 0
		case "like_count":
			return "", int64(post.LikeCount)
		case "id":
			return "", post.ID
		default:
			return "", post.CreatedAt.UnixNano()
		}
	})

	total := int64(len(matched))
	return &models.PaginatedResponse[models.Post]{
		Data:       pageSlice(matched, params),
		Pagination: buildMeta(params, total),
	}, nil
}

// decoratePostLocked fills joined author fields and viewer context; caller
// holds the lock
func (s *Store) decoratePostLocked(post *models.Post, viewerProfileID *int64) {
	if author, ok := s.profiles[post.ProfileID]; ok {
		post.AuthorName = author.ProfileName
		post.AuthorAvatarURL = author.AvatarURL
	}

	if viewerProfileID == nil {
		return
	}

	post.IsOwner = post.ProfileID == *viewerProfileID
	key := engagementKey{models.ContentKindPost, post.ID, *viewerProfileID}
	if reaction, ok := s.reactions[key]; ok {
		post.ViewerReaction = &reaction
	}
	_, post.IsSaved = s.saves[key]
}

// searchPattern compiles a case-insensitive substring matcher with the term
// quoted so pattern metacharacters match literally
func searchPattern(term string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + regexp.QuoteMeta(term))
}
