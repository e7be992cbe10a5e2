// file: internal/services/profile_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"personahub/internal/cache"
	"personahub/internal/events"
	"personahub/internal/models"
	"personahub/internal/repositories"
	"personahub/internal/validation"

	"go.uber.org/zap"
)

// profileService implements ProfileService
type profileService struct {
	profileRepo repositories.ProfileRepository
	accountRepo repositories.AccountRepository
	cache       cache.Cache
	events      events.EventBus
	logger      *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(
	profileRepo repositories.ProfileRepository,
	accountRepo repositories.AccountRepository,
	cache cache.Cache,
	events events.EventBus,
	logger *zap.Logger,
) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		accountRepo: accountRepo,
		cache:       cache,
		events:      events,
		logger:      logger,
	}
}

// ===============================
// PROFILE LIFECYCLE
// ===============================

// CreateProfile creates an additional profile under an account. When the
// request marks it default, the previous default is demoted in the same
// atomic unit.
func (s *profileService) CreateProfile(ctx context.Context, req *CreateProfileRequest) (*models.Profile, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid create profile request", err)
	}

	if _, err := s.accountRepo.GetByID(ctx, req.AccountID); err != nil {
		if repositories.IsNotFoundErr(err) {
			return nil, NewNotFoundError("account not found")
		}
		s.logger.Error("failed to load account", zap.Error(err), zap.Int64("account_id", req.AccountID))
		return nil, NewInternalError("failed to create profile")
	}

	settings := models.DefaultProfileSettings()
	if req.Settings != nil {
		settings = *req.Settings
	}

	profile := &models.Profile{
		AccountID:   req.AccountID,
		ProfileName: req.ProfileName,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		Kind:        req.Kind,
		Status:      req.Status,
		IsActive:    true,
		IsDefault:   req.IsDefault,
		Settings:    settings,
		Metadata:    req.Metadata,
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		if errors.Is(err, repositories.ErrDuplicateProfileName) {
			return nil, NewConflictError("profile name already in use on this account", "PROFILE_NAME_TAKEN")
		}
		s.logger.Error("failed to create profile",
			zap.Error(err),
			zap.Int64("account_id", req.AccountID),
			zap.String("profile_name", req.ProfileName),
		)
		return nil, NewInternalError("failed to create profile")
	}

	s.invalidateAccountProfiles(ctx, req.AccountID)

	if err := s.events.PublishAsync(ctx, events.NewProfileCreatedEvent(
		profile.AccountID, profile.ID, profile.ProfileName, profile.Kind, profile.IsDefault,
	)); err != nil {
		s.logger.Warn("failed to publish profile created event", zap.Error(err), zap.Int64("profile_id", profile.ID))
	}

	s.logger.Info("profile created",
		zap.Int64("profile_id", profile.ID),
		zap.Int64("account_id", profile.AccountID),
		zap.Bool("is_default", profile.IsDefault),
	)

	return profile, nil
}

// GetProfile retrieves one of the account's profiles
func (s *profileService) GetProfile(ctx context.Context, accountID, profileID int64) (*models.Profile, error) {
	profile, err := s.loadOwnedProfile(ctx, accountID, profileID)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// ListProfiles returns the account's profiles, default first
func (s *profileService) ListProfiles(ctx context.Context, accountID int64) ([]*models.Profile, error) {
	if accountID <= 0 {
		return nil, NewValidationError("invalid account ID", nil)
	}

	cacheKey := fmt.Sprintf("profiles:account:%d", accountID)
	if cached, found := s.cache.Get(ctx, cacheKey); found {
		if profiles, ok := cached.([]*models.Profile); ok {
			return profiles, nil
		}
	}

	profiles, err := s.profileRepo.ListByAccount(ctx, accountID)
	if err != nil {
		s.logger.Error("failed to list profiles", zap.Error(err), zap.Int64("account_id", accountID))
		return nil, NewInternalError("failed to list profiles")
	}

	if err := s.cache.Set(ctx, cacheKey, profiles, 5*time.Minute); err != nil {
		s.logger.Warn("failed to cache profile list", zap.Error(err), zap.Int64("account_id", accountID))
	}

	return profiles, nil
}

// UpdateProfile applies the non-nil fields of the request. Setting
// is_default to true demotes siblings atomically; clearing it directly is
// rejected because an account must always have exactly one default.
func (s *profileService) UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*models.Profile, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid update profile request", err)
	}

	profile, err := s.loadOwnedProfile(ctx, req.AccountID, req.ProfileID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		profile.Bio = req.Bio
	}
	if req.Status != nil {
		profile.Status = *req.Status
	}
	if req.Settings != nil {
		profile.Settings = *req.Settings
	}
	if req.Metadata != nil {
		profile.Metadata = req.Metadata
	}

	if req.IsDefault != nil {
		if !*req.IsDefault && profile.IsDefault {
			return nil, NewConflictError("cannot unset the default profile; promote another profile instead", "DEFAULT_REQUIRED")
		}
		if *req.IsDefault && !profile.IsActive {
			return nil, NewInvalidStateError("cannot make an inactive profile the default", "PROFILE_INACTIVE")
		}
		if *req.IsDefault {
			profile.IsDefault = true
		}
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		if errors.Is(err, repositories.ErrDuplicateProfileName) {
			return nil, NewConflictError("profile name already in use on this account", "PROFILE_NAME_TAKEN")
		}
		if repositories.IsNotFoundErr(err) {
			return nil, NewNotFoundError("profile not found")
		}
		s.logger.Error("failed to update profile", zap.Error(err), zap.Int64("profile_id", req.ProfileID))
		return nil, NewInternalError("failed to update profile")
	}

	s.invalidateProfile(ctx, profile)

	return profile, nil
}

// SetDefaultProfile atomically moves the default flag to the given profile.
// Idempotent when the profile already is the default.
func (s *profileService) SetDefaultProfile(ctx context.Context, accountID, profileID int64) (*models.Profile, error) {
	profile, err := s.loadOwnedProfile(ctx, accountID, profileID)
	if err != nil {
		return nil, err
	}

	if !profile.IsActive {
		return nil, NewInvalidStateError("cannot make an inactive profile the default", "PROFILE_INACTIVE")
	}

	if profile.IsDefault {
		return profile, nil
	}

	if err := s.profileRepo.SetDefault(ctx, accountID, profileID); err != nil {
		if repositories.IsNotFoundErr(err) {
			return nil, NewNotFoundError("profile not found")
		}
		s.logger.Error("failed to set default profile",
			zap.Error(err),
			zap.Int64("account_id", accountID),
			zap.Int64("profile_id", profileID),
		)
		return nil, NewInternalError("failed to set default profile")
	}

	s.invalidateAccountProfiles(ctx, accountID)
	s.cache.Delete(ctx, fmt.Sprintf("profile:%d", profileID))

	if err := s.events.PublishAsync(ctx, events.NewProfileDefaultChangedEvent(accountID, profileID)); err != nil {
		s.logger.Warn("failed to publish default changed event", zap.Error(err), zap.Int64("profile_id", profileID))
	}

	profile.IsDefault = true
	return profile, nil
}

// DeleteProfile removes a profile. The last remaining profile cannot be
// deleted; deleting the default promotes the earliest-created survivor in
// the same transaction.
func (s *profileService) DeleteProfile(ctx context.Context, accountID, profileID int64) error {
	profile, err := s.loadOwnedProfile(ctx, accountID, profileID)
	if err != nil {
		return err
	}

	count, err := s.profileRepo.CountByAccount(ctx, accountID)
	if err != nil {
		s.logger.Error("failed to count profiles", zap.Error(err), zap.Int64("account_id", accountID))
		return NewInternalError("failed to delete profile")
	}
	if count <= 1 {
		return NewConflictError("cannot delete the only profile of an account", "LAST_PROFILE")
	}

	promotedID, err := s.profileRepo.Delete(ctx, profileID)
	if err != nil {
		if repositories.IsNotFoundErr(err) {
			return NewNotFoundError("profile not found")
		}
		s.logger.Error("failed to delete profile", zap.Error(err), zap.Int64("profile_id", profileID))
		return NewInternalError("failed to delete profile")
	}

	s.invalidateProfile(ctx, profile)

	if err := s.events.PublishAsync(ctx, events.NewProfileDeletedEvent(
		accountID, profileID, profile.IsDefault, promotedID,
	)); err != nil {
		s.logger.Warn("failed to publish profile deleted event", zap.Error(err), zap.Int64("profile_id", profileID))
	}

	s.logger.Info("profile deleted",
		zap.Int64("profile_id", profileID),
		zap.Int64("account_id", accountID),
		zap.Bool("was_default", profile.IsDefault),
		zap.Int64p("promoted_id", promotedID),
	)

	return nil
}

// ===============================
// HELPERS
// ===============================

// loadOwnedProfile fetches the profile and verifies account ownership.
// Profiles of other accounts surface as not found rather than forbidden.
func (s *profileService) loadOwnedProfile(ctx context.Context, accountID, profileID int64) (*models.Profile, error) {
	if accountID <= 0 || profileID <= 0 {
		return nil, NewValidationError("invalid profile reference", nil)
	}

	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		if repositories.IsNotFoundErr(err) {
			return nil, NewNotFoundError("profile not found")
		}
		s.logger.Error("failed to load profile", zap.Error(err), zap.Int64("profile_id", profileID))
		return nil, NewInternalError("failed to load profile")
	}

	if !profile.IsOwnedBy(accountID) {
		return nil, NewNotFoundError("profile not found")
	}

	return profile, nil
}

func (s *profileService) invalidateProfile(ctx context.Context, profile *models.Profile) {
	s.cache.Delete(ctx, fmt.Sprintf("profile:%d", profile.ID))
	s.invalidateAccountProfiles(ctx, profile.AccountID)
}

func (s *profileService) invalidateAccountProfiles(ctx context.Context, accountID int64) {
	if err := s.cache.Delete(ctx, fmt.Sprintf("profiles:account:%d", accountID)); err != nil {
		s.logger.Warn("failed to invalidate profile list cache", zap.Error(err), zap.Int64("account_id", accountID))
	}
}
