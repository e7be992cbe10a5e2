// file: internal/services/types.go
package services

import (
	"mime/multipart"
	"time"

	"personahub/internal/models"
)

// ===============================
// AUTH TYPES
// ===============================

// RegisterRequest carries the data needed to provision a new account
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email,max=320"`
	Handle      string `json:"handle" validate:"required,min=3,max=50,alphanum"`
	DisplayName string `json:"display_name" validate:"required,max=100"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest carries login credentials; identifier is email or handle
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// RefreshTokenRequest carries a refresh token exchange
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenPair holds the issued JWT pair
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponse is returned from register and login
type AuthResponse struct {
	Account  *models.Account   `json:"account"`
	Profiles []*models.Profile `json:"profiles,omitempty"`
	Tokens   *TokenPair        `json:"tokens"`
}

// ===============================
// PROFILE TYPES
// ===============================

// CreateProfileRequest creates an additional profile under an account
type CreateProfileRequest struct {
	AccountID   int64   `json:"account_id" validate:"required"`
	ProfileName string  `json:"profile_name" validate:"required,min=2,max=50,profile_name"`
	DisplayName string  `json:"display_name" validate:"omitempty,max=100"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=1000"`
	Kind        string  `json:"kind" validate:"required,oneof=PUBLIC ANONYMOUS"`
	Status      string  `json:"status" validate:"required,oneof=PUBLIC PRIVATE"`
	IsDefault   bool    `json:"is_default"`

	Settings *models.ProfileSettings `json:"settings,omitempty"`
	Metadata models.MetadataMap      `json:"metadata,omitempty"`
}

// UpdateProfileRequest updates a profile's mutable fields; nil fields are
// left unchanged
type UpdateProfileRequest struct {
	ProfileID int64 `json:"profile_id" validate:"required"`
	AccountID int64 `json:"account_id" validate:"required"`

	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,max=100"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=1000"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=PUBLIC PRIVATE"`
	IsDefault   *bool   `json:"is_default,omitempty"`

	Settings *models.ProfileSettings `json:"settings,omitempty"`
	Metadata models.MetadataMap      `json:"metadata,omitempty"`
}

// ===============================
// CONTENT TYPES
// ===============================

// CreatePostRequest creates a post authored by a profile
type CreatePostRequest struct {
	ProfileID  int64    `json:"profile_id" validate:"required"`
	CategoryID int64    `json:"category_id" validate:"required"`
	Title      string   `json:"title" validate:"required,min=5,max=255"`
	Body       string   `json:"body" validate:"required,min=10,max=50000"`
	Tags       []string `json:"tags" validate:"max=10,dive,min=1,max=30"`
}

// UpdatePostRequest updates a post's mutable fields
type UpdatePostRequest struct {
	PostID    int64 `json:"post_id" validate:"required"`
	ProfileID int64 `json:"profile_id" validate:"required"`

	CategoryID *int64   `json:"category_id,omitempty"`
	Title      *string  `json:"title,omitempty" validate:"omitempty,min=5,max=255"`
	Body       *string  `json:"body,omitempty" validate:"omitempty,min=10,max=50000"`
	Tags       []string `json:"tags,omitempty" validate:"omitempty,max=10,dive,min=1,max=30"`
}

// CreateQuestionRequest creates a question authored by a profile
type CreateQuestionRequest struct {
	ProfileID  int64    `json:"profile_id" validate:"required"`
	CategoryID int64    `json:"category_id" validate:"required"`
	Title      string   `json:"title" validate:"required,min=5,max=255"`
	Body       *string  `json:"body,omitempty" validate:"omitempty,max=50000"`
	Tags       []string `json:"tags" validate:"max=10,dive,min=1,max=30"`
}

// UpdateQuestionRequest updates a question's mutable fields
type UpdateQuestionRequest struct {
	QuestionID int64 `json:"question_id" validate:"required"`
	ProfileID  int64 `json:"profile_id" validate:"required"`

	CategoryID *int64   `json:"category_id,omitempty"`
	Title      *string  `json:"title,omitempty" validate:"omitempty,min=5,max=255"`
	Body       *string  `json:"body,omitempty" validate:"omitempty,max=50000"`
	Tags       []string `json:"tags,omitempty" validate:"omitempty,max=10,dive,min=1,max=30"`
}

// ListContentRequest filters and paginates content listings
type ListContentRequest struct {
	Pagination models.PaginationParams `json:"pagination"`
	CategoryID *int64                  `json:"category_id,omitempty"`
	ViewerID   *int64                  `json:"viewer_id,omitempty"`
}

// SearchRequest carries a free-text search; the term is matched literally
type SearchRequest struct {
	Term       string                  `json:"term" validate:"required,min=1,max=200"`
	Pagination models.PaginationParams `json:"pagination"`
}

// CreateCategoryRequest creates a content category
type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// ===============================
// ENGAGEMENT TYPES
// ===============================

// EngagementRequest identifies one profile's action on one content item
type EngagementRequest struct {
	Kind      models.ContentKind `json:"kind" validate:"required,oneof=post question"`
	ContentID int64              `json:"content_id" validate:"required"`
	ProfileID int64              `json:"profile_id" validate:"required"`
}

// ===============================
// FILE TYPES
// ===============================

// UploadAvatarRequest uploads a profile avatar image
type UploadAvatarRequest struct {
	ProfileID int64                 `json:"profile_id" validate:"required"`
	AccountID int64                 `json:"account_id" validate:"required"`
	File      multipart.File        `json:"-"`
	Header    *multipart.FileHeader `json:"-"`
}

// UploadResult describes a stored file
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Format   string `json:"format"`
	Bytes    int64  `json:"bytes"`
}
