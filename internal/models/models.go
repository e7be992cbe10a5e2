// file: internal/models/models.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ===============================
// CORE ENTITIES
// ===============================

// Account represents a credentialed login identity that owns profiles
type Account struct {
	ID          int64  `json:"id" db:"id"`
	Email       string `json:"email" db:"email" validate:"required,email,max=320"`
	Handle      string `json:"handle" db:"handle" validate:"required,min=3,max=50,alphanum"`
	DisplayName string `json:"display_name" db:"display_name" validate:"required,max=100"`

	// Authentication
	PasswordHash string `json:"-" db:"password_hash"`
	Role         string `json:"role" db:"role" validate:"required,oneof=user moderator admin"`
	IsActive     bool   `json:"is_active" db:"is_active"`

	// Timestamps
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Computed/joined fields (not in DB)
	ProfileCount int `json:"profile_count,omitempty" db:"-"`
}

// ProfileKind distinguishes public personas from anonymous ones
const (
	ProfileKindPublic    = "PUBLIC"
	ProfileKindAnonymous = "ANONYMOUS"
)

// Profile visibility status values
const (
	ProfileStatusPublic  = "PUBLIC"
	ProfileStatusPrivate = "PRIVATE"
)

// Profile represents a persona owned by an account; the unit of authorship
// and engagement. Profile names are unique per owning account only.
type Profile struct {
	ID        int64 `json:"id" db:"id"`
	AccountID int64 `json:"account_id" db:"account_id" validate:"required"`

	ProfileName string  `json:"profile_name" db:"profile_name" validate:"required,min=2,max=50"`
	DisplayName string  `json:"display_name" db:"display_name" validate:"omitempty,max=100"`
	Bio         *string `json:"bio,omitempty" db:"bio" validate:"omitempty,max=1000"`
	AvatarURL   *string `json:"avatar_url,omitempty" db:"avatar_url" validate:"omitempty,url"`

	Kind   string `json:"kind" db:"kind" validate:"required,oneof=PUBLIC ANONYMOUS"`
	Status string `json:"status" db:"status" validate:"required,oneof=PUBLIC PRIVATE"`

	IsActive  bool `json:"is_active" db:"is_active"`
	IsDefault bool `json:"is_default" db:"is_default"`

	Settings ProfileSettings `json:"settings" db:"settings"`
	Metadata MetadataMap     `json:"metadata" db:"metadata"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ProfileSettings holds nested per-profile preferences
type ProfileSettings struct {
	Privacy     string `json:"privacy" validate:"omitempty,oneof=everyone followers nobody"`
	NotifyEmail bool   `json:"notify_email"`
	NotifyPush  bool   `json:"notify_push"`
	NotifyInApp bool   `json:"notify_in_app"`
}

// DefaultProfileSettings returns the settings applied to new profiles
func DefaultProfileSettings() ProfileSettings {
	return ProfileSettings{
		Privacy:     "everyone",
		NotifyEmail: true,
		NotifyPush:  true,
		NotifyInApp: true,
	}
}

// Scan implements sql.Scanner; settings are stored as JSONB
func (s *ProfileSettings) Scan(value interface{}) error {
	if value == nil {
		*s = DefaultProfileSettings()
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into ProfileSettings", value)
	}
}

// Value implements driver.Valuer
func (s ProfileSettings) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Category represents a content category with cached content counters
type Category struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name" validate:"required,max=100"`
	Description *string `json:"description,omitempty" db:"description"`
	IsActive    bool    `json:"is_active" db:"is_active"`

	PostCount     int `json:"post_count" db:"post_count"`
	QuestionCount int `json:"question_count" db:"question_count"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ===============================
// CONTENT ITEMS
// ===============================

// ContentKind identifies which content table an engagement targets
type ContentKind string

const (
	ContentKindPost     ContentKind = "post"
	ContentKindQuestion ContentKind = "question"
)

// Valid reports whether the kind is a known content kind
func (k ContentKind) Valid() bool {
	return k == ContentKindPost || k == ContentKindQuestion
}

// Reaction values on the exclusive like/dislike axis
const (
	ReactionLike    = "like"
	ReactionDislike = "dislike"
)

// Post represents authored content owned by a profile and a category
type Post struct {
	ID         int64  `json:"id" db:"id"`
	ProfileID  int64  `json:"profile_id" db:"profile_id" validate:"required"`
	CategoryID int64  `json:"category_id" db:"category_id" validate:"required"`
	Title      string `json:"title" db:"title" validate:"required,min=5,max=255"`
	Body       string `json:"body" db:"body" validate:"required,min=10,max=50000"`

	Tags StringArray `json:"tags" db:"tags"`

	// Engagement counters, cached cardinalities of the membership sets
	LikeCount    int `json:"like_count" db:"like_count"`
	DislikeCount int `json:"dislike_count" db:"dislike_count"`
	SaveCount    int `json:"save_count" db:"save_count"`
	ShareCount   int `json:"share_count" db:"share_count"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Author information (joined)
	AuthorName      string  `json:"author_name" db:"author_name"`
	AuthorAvatarURL *string `json:"author_avatar_url,omitempty" db:"author_avatar_url"`

	// Viewer-specific fields (requires profile context)
	IsOwner        bool    `json:"is_owner" db:"-"`
	ViewerReaction *string `json:"viewer_reaction,omitempty" db:"-"`
	IsSaved        bool    `json:"is_saved" db:"-"`
}

// Question represents a Q&A content item
type Question struct {
	ID         int64   `json:"id" db:"id"`
	ProfileID  int64   `json:"profile_id" db:"profile_id" validate:"required"`
	CategoryID int64   `json:"category_id" db:"category_id" validate:"required"`
	Title      string  `json:"title" db:"title" validate:"required,min=5,max=255"`
	Body       *string `json:"body,omitempty" db:"body" validate:"omitempty,max=50000"`

	Tags StringArray `json:"tags" db:"tags"`

	LikeCount    int `json:"like_count" db:"like_count"`
	DislikeCount int `json:"dislike_count" db:"dislike_count"`
	SaveCount    int `json:"save_count" db:"save_count"`
	ShareCount   int `json:"share_count" db:"share_count"`

	AnswerCount      int    `json:"answer_count" db:"answer_count"`
	IsAnswered       bool   `json:"is_answered" db:"is_answered"`
	AcceptedAnswerID *int64 `json:"accepted_answer_id,omitempty" db:"accepted_answer_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Author information (joined)
	AuthorName      string  `json:"author_name" db:"author_name"`
	AuthorAvatarURL *string `json:"author_avatar_url,omitempty" db:"author_avatar_url"`

	// Viewer-specific fields
	IsOwner        bool    `json:"is_owner" db:"-"`
	ViewerReaction *string `json:"viewer_reaction,omitempty" db:"-"`
	IsSaved        bool    `json:"is_saved" db:"-"`
}

// Engagement is the per-(item, profile) reaction state across all three axes
type Engagement struct {
	Kind      ContentKind `json:"kind" db:"kind"`
	ContentID int64       `json:"content_id" db:"content_id"`
	ProfileID int64       `json:"profile_id" db:"profile_id"`
	Reaction  *string     `json:"reaction,omitempty" db:"reaction"` // like, dislike or nil
	Saved     bool        `json:"saved" db:"saved"`
	Shared    bool        `json:"shared" db:"shared"`
}

// ===============================
// PAGINATION
// ===============================

// PaginationParams represents pagination parameters
type PaginationParams struct {
	Limit  int    `json:"limit" validate:"min=0,max=100"`
	Offset int    `json:"offset" validate:"min=0"`
	Sort   string `json:"sort,omitempty" validate:"omitempty,oneof=created_at updated_at title like_count"`
	Order  string `json:"order,omitempty" validate:"omitempty,oneof=asc desc"`
}

// PaginatedResponse represents a paginated API response
type PaginatedResponse[T any] struct {
	Data       []T            `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
	Filters    map[string]any `json:"filters,omitempty"`
}

// PaginationMeta contains pagination metadata
type PaginationMeta struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
	HasNext      bool  `json:"has_next"`
	HasPrev      bool  `json:"has_prev"`
}

// ===============================
// CUSTOM TYPES
// ===============================

// StringArray handles PostgreSQL array types
type StringArray []string

// Scan implements sql.Scanner
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = StringArray{}
		return nil
	}

	switch v := value.(type) {
	case string:
		// PostgreSQL array format: {item1,item2,item3}
		v = strings.Trim(v, "{}")
		if v == "" {
			*s = StringArray{}
			return nil
		}
		*s = StringArray(strings.Split(v, ","))
	case []byte:
		return s.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into StringArray", value)
	}
	return nil
}

// Value implements driver.Valuer
func (s StringArray) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "{}", nil
	}
	return "{" + strings.Join(s, ",") + "}", nil
}

// MetadataMap is an opaque string-keyed value store persisted as JSONB.
// No core operation inspects its contents.
type MetadataMap map[string]any

// Scan implements sql.Scanner
func (m *MetadataMap) Scan(value interface{}) error {
	if value == nil {
		*m = MetadataMap{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("cannot scan %T into MetadataMap", value)
	}
}

// Value implements driver.Valuer
func (m MetadataMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

// ===============================
// HELPER METHODS
// ===============================

// IsOwnedBy checks whether the account owns the profile
func (p *Profile) IsOwnedBy(accountID int64) bool {
	return p.AccountID == accountID
}

// EngagementScore is derived from the positive engagement counters
func (p *Post) EngagementScore() int {
	return p.LikeCount + p.SaveCount + p.ShareCount
}

// IsOwnedBy checks whether the profile owns the post
func (p *Post) IsOwnedBy(profileID int64) bool {
	return p.ProfileID == profileID
}

// EngagementScore is derived from the positive engagement counters
func (q *Question) EngagementScore() int {
	return q.LikeCount + q.SaveCount + q.ShareCount
}

// IsOwnedBy checks whether the profile owns the question
func (q *Question) IsOwnedBy(profileID int64) bool {
	return q.ProfileID == profileID
}

// CalculateOffset calculates the effective offset, defaulting the limit
func (p *PaginationParams) CalculateOffset() int {
	if p.Offset < 0 {
		return 0
	}
	return p.Offset
}

// ===============================
// VALIDATION HELPERS
// ===============================

// ValidateProfileKind validates the profile kind enum
func ValidateProfileKind(kind string) bool {
	return kind == ProfileKindPublic || kind == ProfileKindAnonymous
}

// ValidateProfileStatus validates the profile visibility enum
func ValidateProfileStatus(status string) bool {
	return status == ProfileStatusPublic || status == ProfileStatusPrivate
}

// ValidateReaction validates the exclusive reaction enum
func ValidateReaction(reaction string) bool {
	return reaction == ReactionLike || reaction == ReactionDislike
}

// ValidateAccountRole validates the account role enum
func ValidateAccountRole(role string) bool {
	validRoles := []string{"user", "moderator", "admin"}
	for _, valid := range validRoles {
		if role == valid {
			return true
		}
	}
	return false
}
