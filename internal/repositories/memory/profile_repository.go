package memory

import (
	"context"
	"sort"
	"strings"

	"personahub/internal/models"
	"personahub/internal/repositories"
)

// ProfileRepository is the in-memory ProfileRepository implementation. All
// writes run under the store lock, so the single-default invariant holds
// under concurrent use exactly as it does with the postgres transactions.
type ProfileRepository struct {
	store *Store
}

// NewProfileRepository creates a profile repository over the given store
func NewProfileRepository(store *Store) *ProfileRepository {
	return &ProfileRepository{store: store}
}

// Create inserts a profile, demoting siblings when it is marked default.
// The account's first profile is always created default.
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	hasProfiles := false
	for _, existing := range s.profiles {
		if existing.AccountID != profile.AccountID {
			continue
		}
		hasProfiles = true
		if strings.EqualFold(existing.ProfileName, profile.ProfileName) {
			return repositories.ErrDuplicateProfileName
		}
	}
	if !hasProfiles {
		profile.IsDefault = true
	}

	s.nextProfileID++
	profile.ID = s.nextProfileID
	profile.CreatedAt = s.now()
	profile.UpdatedAt = profile.CreatedAt

	if profile.IsDefault {
		r.demoteSiblingsLocked(profile.AccountID, profile.ID)
	}

	s.profiles[profile.ID] = copyProfile(profile)
	return nil
}

// GetByID retrieves a profile by ID
func (r *ProfileRepository) GetByID(ctx context.Context, id int64) (*models.Profile, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return copyProfile(profile), nil
}

// GetByName retrieves a profile by its per-account case-insensitive name
func (r *ProfileRepository) GetByName(ctx context.Context, accountID int64, profileName string) (*models.Profile, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, profile := range s.profiles {
		if profile.AccountID == accountID &&
			strings.EqualFold(profile.ProfileName, profileName) {
			return copyProfile(profile), nil
		}
	}
	return nil, repositories.ErrNotFound
}

// ListByAccount returns the account's profiles, default first, then by
// creation time ascending
func (r *ProfileRepository) ListByAccount(ctx context.Context, accountID int64) ([]*models.Profile, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles := make([]*models.Profile, 0)
	for _, profile := range s.profiles {
		if profile.AccountID == accountID {
			profiles = append(profiles, copyProfile(profile))
		}
	}

	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].IsDefault != profiles[j].IsDefault {
			return profiles[i].IsDefault
		}
		if !profiles[i].CreatedAt.Equal(profiles[j].CreatedAt) {
			return profiles[i].CreatedAt.Before(profiles[j].CreatedAt)
		}
		return profiles[i].ID < profiles[j].ID
	})

	return profiles, nil
}

// GetDefault returns the account's default profile
func (r *ProfileRepository) GetDefault(ctx context.Context, accountID int64) (*models.Profile, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, profile := range s.profiles {
		if profile.AccountID == accountID && profile.IsDefault {
			return copyProfile(profile), nil
		}
	}
	return nil, repositories.ErrNotFound
}

// Update persists mutable fields, demoting siblings when the profile ends
// up marked default
func (r *ProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.profiles[profile.ID]
	if !ok {
		return repositories.ErrNotFound
	}

	for id, other := range s.profiles {
		if id == profile.ID {
			continue
		}
		if other.AccountID == existing.AccountID &&
			strings.EqualFold(other.ProfileName, profile.ProfileName) {
			return repositories.ErrDuplicateProfileName
		}
	}

	profile.AccountID = existing.AccountID
	profile.CreatedAt = existing.CreatedAt
	profile.UpdatedAt = s.now()

	if profile.IsDefault {
		r.demoteSiblingsLocked(profile.AccountID, profile.ID)
	}

	s.profiles[profile.ID] = copyProfile(profile)
	return nil
}

// SetDefault atomically promotes the profile and demotes its siblings
func (r *ProfileRepository) SetDefault(ctx context.Context, accountID, profileID int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.profiles[profileID]
	if !ok || target.AccountID != accountID {
		return repositories.ErrNotFound
	}

	now := s.now()
	for _, profile := range s.profiles {
		if profile.AccountID != accountID {
			continue
		}
		isDefault := profile.ID == profileID
		if profile.IsDefault != isDefault {
			profile.IsDefault = isDefault
			profile.UpdatedAt = now
		}
	}

	return nil
}

// Delete removes a profile; when it was the default, the earliest-created
// survivor is promoted and its ID returned
func (r *ProfileRepository) Delete(ctx context.Context, id int64) (*int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.profiles[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}

	accountID := target.AccountID
	wasDefault := target.IsDefault
	delete(s.profiles, id)

	if !wasDefault {
		return nil, nil
	}

	var survivor *models.Profile
	for _, profile := range s.profiles {
		if profile.AccountID != accountID {
			continue
		}
		if survivor == nil ||
			profile.CreatedAt.Before(survivor.CreatedAt) ||
			(profile.CreatedAt.Equal(survivor.CreatedAt) && profile.ID < survivor.ID) {
			survivor = profile
		}
	}
	if survivor == nil {
		return nil, nil
	}

	survivor.IsDefault = true
	survivor.UpdatedAt = s.now()
	promotedID := survivor.ID
	return &promotedID, nil
}

// CountByAccount returns the number of profiles owned by the account
func (r *ProfileRepository) CountByAccount(ctx context.Context, accountID int64) (int, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, profile := range s.profiles {
		if profile.AccountID == accountID {
			count++
		}
	}
	return count, nil
}

// demoteSiblingsLocked clears is_default on every other profile of the
// account; caller holds the lock
func (r *ProfileRepository) demoteSiblingsLocked(accountID, keepID int64) {
	now := r.store.now()
	for _, profile := range r.store.profiles {
		if profile.AccountID == accountID && profile.ID != keepID && profile.IsDefault {
			profile.IsDefault = false
			profile.UpdatedAt = now
		}
	}
}
