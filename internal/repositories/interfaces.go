// file: internal/repositories/interfaces.go
package repositories

import (
	"context"

	"personahub/internal/models"
)

// ===============================
// REPOSITORY INTERFACES
// ===============================

// AccountRepository manages account persistence
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByHandle(ctx context.Context, handle string) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id int64) error
}

// ProfileRepository manages profile persistence. Implementations must keep
// the per-account single-default invariant: any write that ends with a
// profile marked default demotes its siblings in the same atomic unit.
type ProfileRepository interface {
	// Create inserts a profile. When profile.IsDefault is true the account's
	// other profiles are demoted atomically. Duplicate (account, name) pairs
	// surface as a conflict error.
	Create(ctx context.Context, profile *models.Profile) error

	GetByID(ctx context.Context, id int64) (*models.Profile, error)
	GetByName(ctx context.Context, accountID int64, profileName string) (*models.Profile, error)

	// ListByAccount returns the account's profiles, default first, then by
	// creation time ascending.
	ListByAccount(ctx context.Context, accountID int64) ([]*models.Profile, error)

	// GetDefault returns the account's default profile.
	GetDefault(ctx context.Context, accountID int64) (*models.Profile, error)

	// Update persists mutable fields. When profile.IsDefault is true the
	// demotion of siblings happens in the same atomic unit.
	Update(ctx context.Context, profile *models.Profile) error

	// SetDefault atomically demotes all of the account's profiles and
	// promotes the given one. Fails with not-found when the profile does
	// not exist under the account.
	SetDefault(ctx context.Context, accountID, profileID int64) error

	// Delete removes a profile. When the deleted profile was the default,
	// the earliest-created survivor is promoted in the same transaction and
	// its ID returned.
	Delete(ctx context.Context, id int64) (promotedID *int64, err error)

	CountByAccount(ctx context.Context, accountID int64) (int, error)
}

// CategoryRepository manages categories and their cached content counters
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	Delete(ctx context.Context, id int64) error

	// AdjustCount shifts the cached post/question counters. Callers treat
	// failures as best-effort.
	AdjustCount(ctx context.Context, categoryID int64, postDelta, questionDelta int) error
}

// PostRepository manages post persistence
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int64, viewerProfileID *int64) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id int64) error

	List(ctx context.Context, params models.PaginationParams, categoryID *int64) (*models.PaginatedResponse[models.Post], error)
	ListByProfile(ctx context.Context, profileID int64, params models.PaginationParams) (*models.PaginatedResponse[models.Post], error)

	// Search performs case-insensitive matching of the escaped term across
	// title, body and tags.
	Search(ctx context.Context, term string, params models.PaginationParams) (*models.PaginatedResponse[models.Post], error)
}

// QuestionRepository manages question persistence
type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id int64, viewerProfileID *int64) (*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id int64) error

	List(ctx context.Context, params models.PaginationParams, categoryID *int64) (*models.PaginatedResponse[models.Question], error)
	ListByProfile(ctx context.Context, profileID int64, params models.PaginationParams) (*models.PaginatedResponse[models.Question], error)
	Search(ctx context.Context, term string, params models.PaginationParams) (*models.PaginatedResponse[models.Question], error)

	// AcceptAnswer marks the question answered with the given answer ID.
	AcceptAnswer(ctx context.Context, questionID, answerID int64) error
	SetAnswerCount(ctx context.Context, questionID int64, count int) error
}

// EngagementRepository manages the per-content membership sets and their
// cached counters. Counters are recomputed from set cardinality inside the
// same transaction as every set mutation.
type EngagementRepository interface {
	// SetReaction upserts the profile's reaction (like or dislike) on the
	// content item, replacing any opposite reaction atomically.
	SetReaction(ctx context.Context, kind models.ContentKind, contentID, profileID int64, reaction string) error

	// RemoveReaction deletes the profile's reaction only when it matches
	// the given value; otherwise it is a no-op.
	RemoveReaction(ctx context.Context, kind models.ContentKind, contentID, profileID int64, reaction string) error

	Save(ctx context.Context, kind models.ContentKind, contentID, profileID int64) error
	Unsave(ctx context.Context, kind models.ContentKind, contentID, profileID int64) error

	// Share is add-only; repeated shares are no-ops.
	Share(ctx context.Context, kind models.ContentKind, contentID, profileID int64) error

	// GetEngagement returns the profile's full engagement state on the item.
	GetEngagement(ctx context.Context, kind models.ContentKind, contentID, profileID int64) (*models.Engagement, error)
}
