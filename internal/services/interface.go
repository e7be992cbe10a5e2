// file: internal/services/interface.go
package services

import (
	"context"

	"personahub/internal/models"
)

// ===============================
// SERVICE INTERFACES
// ===============================

// AuthService handles registration, login and token lifecycle
type AuthService interface {
	// Register provisions the account plus its bootstrap profiles: a public
	// default profile named after the display name and an anonymous private
	// one.
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)

	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	RefreshTokens(ctx context.Context, req *RefreshTokenRequest) (*TokenPair, error)

	// ValidateAccessToken parses and verifies a token, returning the account
	// ID it was issued for.
	ValidateAccessToken(ctx context.Context, token string) (int64, error)
}

// ProfileService manages the personas owned by an account
type ProfileService interface {
	CreateProfile(ctx context.Context, req *CreateProfileRequest) (*models.Profile, error)
	GetProfile(ctx context.Context, accountID, profileID int64) (*models.Profile, error)
	ListProfiles(ctx context.Context, accountID int64) ([]*models.Profile, error)
	UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*models.Profile, error)

	// SetDefaultProfile atomically moves the default flag to the given
	// profile. Promoting an inactive profile is rejected.
	SetDefaultProfile(ctx context.Context, accountID, profileID int64) (*models.Profile, error)

	// DeleteProfile removes a profile. Deleting the default promotes the
	// earliest-created survivor; deleting the last profile is rejected.
	DeleteProfile(ctx context.Context, accountID, profileID int64) error
}

// PostService manages posts and delegates their engagement
type PostService interface {
	CreatePost(ctx context.Context, req *CreatePostRequest) (*models.Post, error)
	GetPost(ctx context.Context, postID int64, viewerProfileID *int64) (*models.Post, error)
	UpdatePost(ctx context.Context, req *UpdatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, postID, profileID int64) error

	ListPosts(ctx context.Context, req *ListContentRequest) (*models.PaginatedResponse[models.Post], error)
	ListPostsByProfile(ctx context.Context, profileID int64, params models.PaginationParams) (*models.PaginatedResponse[models.Post], error)
	SearchPosts(ctx context.Context, req *SearchRequest) (*models.PaginatedResponse[models.Post], error)
}

// QuestionService manages questions and delegates their engagement
type QuestionService interface {
	CreateQuestion(ctx context.Context, req *CreateQuestionRequest) (*models.Question, error)
	GetQuestion(ctx context.Context, questionID int64, viewerProfileID *int64) (*models.Question, error)
	UpdateQuestion(ctx context.Context, req *UpdateQuestionRequest) (*models.Question, error)
	DeleteQuestion(ctx context.Context, questionID, profileID int64) error

	// AcceptAnswer marks the question answered with the given answer ID.
	// Only the owning profile may accept.
	AcceptAnswer(ctx context.Context, questionID, answerID, profileID int64) (*models.Question, error)

	ListQuestions(ctx context.Context, req *ListContentRequest) (*models.PaginatedResponse[models.Question], error)
	ListQuestionsByProfile(ctx context.Context, profileID int64, params models.PaginationParams) (*models.PaginatedResponse[models.Question], error)
	SearchQuestions(ctx context.Context, req *SearchRequest) (*models.PaginatedResponse[models.Question], error)
}

// CategoryService manages content categories
type CategoryService interface {
	CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*models.Category, error)
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// EngagementService implements the per-profile engagement state machine on
// content items. The reaction axis is exclusive (like XOR dislike), the
// save axis is independent, and the share axis is monotonic. Every
// operation is idempotent and fails only when the content item is missing.
type EngagementService interface {
	Like(ctx context.Context, req *EngagementRequest) error
	Unlike(ctx context.Context, req *EngagementRequest) error
	Dislike(ctx context.Context, req *EngagementRequest) error
	RemoveDislike(ctx context.Context, req *EngagementRequest) error
	SaveContent(ctx context.Context, req *EngagementRequest) error
	UnsaveContent(ctx context.Context, req *EngagementRequest) error
	ShareContent(ctx context.Context, req *EngagementRequest) error

	GetEngagement(ctx context.Context, req *EngagementRequest) (*models.Engagement, error)
}

// FileService handles avatar uploads to external storage
type FileService interface {
	UploadAvatar(ctx context.Context, req *UploadAvatarRequest) (*UploadResult, error)
	DeleteFile(ctx context.Context, publicID string) error
}
