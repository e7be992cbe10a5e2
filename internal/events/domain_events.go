package events

import "time"

// ===============================
// ACCOUNT EVENTS
// ===============================

// AccountCreatedEvent is emitted when an account is registered
type AccountCreatedEvent struct {
	BaseEvent
	Email  string `json:"email"`
	Handle string `json:"handle"`
}

// NewAccountCreatedEvent creates a new account created event
func NewAccountCreatedEvent(accountID int64, email, handle string) *AccountCreatedEvent {
	return &AccountCreatedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: "account.created",
			Timestamp: time.Now(),
			AccountID: &accountID,
		},
		Email:  email,
		Handle: handle,
	}
}

// AccountLoggedInEvent is emitted on successful login
type AccountLoggedInEvent struct {
	BaseEvent
	IPAddress string `json:"ip_address,omitempty"`
}

// NewAccountLoggedInEvent creates a new login event
func NewAccountLoggedInEvent(accountID int64, ipAddress string) *AccountLoggedInEvent {
	return &AccountLoggedInEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: "account.logged_in",
			Timestamp: time.Now(),
			AccountID: &accountID,
		},
		IPAddress: ipAddress,
	}
}

// ===============================
// PROFILE EVENTS
// ===============================

// ProfileCreatedEvent is emitted when a profile is provisioned
type ProfileCreatedEvent struct {
	BaseEvent
	ProfileID   int64  `json:"profile_id"`
	ProfileName string `json:"profile_name"`
	Kind        string `json:"kind"`
	IsDefault   bool   `json:"is_default"`
}

// NewProfileCreatedEvent creates a new profile created event
func NewProfileCreatedEvent(accountID, profileID int64, profileName, kind string, isDefault bool) *ProfileCreatedEvent {
	return &ProfileCreatedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: "profile.created",
			Timestamp: time.Now(),
			AccountID: &accountID,
		},
		ProfileID:   profileID,
		ProfileName: profileName,
		Kind:        kind,
		IsDefault:   isDefault,
	}
}

// ProfileDefaultChangedEvent is emitted when an account's default profile moves
type ProfileDefaultChangedEvent struct {
	BaseEvent
	ProfileID int64 `json:"profile_id"`
}

// NewProfileDefaultChangedEvent creates a new default changed event
func NewProfileDefaultChangedEvent(accountID, profileID int64) *ProfileDefaultChangedEvent {
	return &ProfileDefaultChangedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: "profile.default_changed",
			Timestamp: time.Now(),
			AccountID: &accountID,
		},
		ProfileID: profileID,
	}
}

// ProfileDeletedEvent is emitted when a profile is deleted
type ProfileDeletedEvent struct {
	BaseEvent
	ProfileID  int64  `json:"profile_id"`
	WasDefault bool   `json:"was_default"`
	PromotedID *int64 `json:"promoted_id,omitempty"`
}

// NewProfileDeletedEvent creates a new profile deleted event
func NewProfileDeletedEvent(accountID, profileID int64, wasDefault bool, promotedID *int64) *ProfileDeletedEvent {
	return &ProfileDeletedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: "profile.deleted",
			Timestamp: time.Now(),
			AccountID: &accountID,
		},
		ProfileID:  profileID,
		WasDefault: wasDefault,
		PromotedID: promotedID,
	}
}

// ===============================
// CONTENT EVENTS
// ===============================

// ContentCreatedEvent is emitted when a post or question is created
type ContentCreatedEvent struct {
	BaseEvent
	Kind      string `json:"kind"`
	ContentID int64  `json:"content_id"`
	ProfileID int64  `json:"profile_id"`
	Title     string `json:"title"`
}

// NewContentCreatedEvent creates a new content created event
func NewContentCreatedEvent(kind string, contentID, profileID int64, title string) *ContentCreatedEvent {
	return &ContentCreatedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: "content.created",
			Timestamp: time.Now(),
		},
		Kind:      kind,
		ContentID: contentID,
		ProfileID: profileID,
		Title:     title,
	}
}

// ContentDeletedEvent is emitted when a post or question is deleted
type ContentDeletedEvent struct {
	BaseEvent
	Kind      string `json:"kind"`
	ContentID int64  `json:"content_id"`
}

// NewContentDeletedEvent creates a new content deleted event
func NewContentDeletedEvent(kind string, contentID int64) *ContentDeletedEvent {
	return &ContentDeletedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: "content.deleted",
			Timestamp: time.Now(),
		},
		Kind:      kind,
		ContentID: contentID,
	}
}

// ===============================
// ENGAGEMENT EVENTS
// ===============================

// ContentReactionEvent is emitted when a profile reacts to content
type ContentReactionEvent struct {
	BaseEvent
	Kind      string `json:"kind"`
	ContentID int64  `json:"content_id"`
	ProfileID int64  `json:"profile_id"`
	Reaction  string `json:"reaction"` // like, dislike or removed
}

// NewContentReactionEvent creates a new reaction event
func NewContentReactionEvent(kind string, contentID, profileID int64, reaction string) *ContentReactionEvent {
	return &ContentReactionEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: "content.reacted",
			Timestamp: time.Now(),
		},
		Kind:      kind,
		ContentID: contentID,
		ProfileID: profileID,
		Reaction:  reaction,
	}
}

// ContentSavedEvent is emitted when content is saved or unsaved
type ContentSavedEvent struct {
	BaseEvent
	Kind      string `json:"kind"`
	ContentID int64  `json:"content_id"`
	ProfileID int64  `json:"profile_id"`
	Saved     bool   `json:"saved"`
}

// NewContentSavedEvent creates a new save event
func NewContentSavedEvent(kind string, contentID, profileID int64, saved bool) *ContentSavedEvent {
	return &ContentSavedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: "content.saved",
			Timestamp: time.Now(),
		},
		Kind:      kind,
		ContentID: contentID,
		ProfileID: profileID,
		Saved:     saved,
	}
}

// ContentSharedEvent is emitted when content is shared
type ContentSharedEvent struct {
	BaseEvent
	Kind      string `json:"kind"`
	ContentID int64  `json:"content_id"`
	ProfileID int64  `json:"profile_id"`
}

// NewContentSharedEvent creates a new share event
func NewContentSharedEvent(kind string, contentID, profileID int64) *ContentSharedEvent {
	return &ContentSharedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: "content.shared",
			Timestamp: time.Now(),
		},
		Kind:      kind,
		ContentID: contentID,
		ProfileID: profileID,
	}
}

// ===============================
// FILE EVENTS
// ===============================

// AvatarUploadedEvent is emitted when a profile avatar upload succeeds
type AvatarUploadedEvent struct {
	BaseEvent
	ProfileID int64  `json:"profile_id"`
	URL       string `json:"url"`
	PublicID  string `json:"public_id"`
	FileSize  int64  `json:"file_size"`
}

// NewAvatarUploadedEvent creates a new avatar uploaded event
func NewAvatarUploadedEvent(profileID int64, url, publicID string, fileSize int64) *AvatarUploadedEvent {
	return &AvatarUploadedEvent{
		BaseEvent: BaseEvent{
			EventID:   GenerateEventID(),
			EventType: "file.avatar_uploaded",
			Timestamp: time.Now(),
		},
		ProfileID: profileID,
		URL:       url,
		PublicID:  publicID,
		FileSize:  fileSize,
	}
}
