package memory

import (
	"context"

	"personahub/internal/models"
	"personahub/internal/repositories"
)

// EngagementRepository is the in-memory EngagementRepository implementation.
// Each mutation holds the store lock across the set change and the counter
// recompute, so counters always equal the set cardinalities.
type EngagementRepository struct {
	store *Store
}

// NewEngagementRepository creates an engagement repository over the given
// store
func NewEngagementRepository(store *Store) *EngagementRepository {
	return &EngagementRepository{store: store}
}

// SetReaction upserts the reaction, replacing any opposite one atomically
func (r *EngagementRepository) SetReaction(ctx context.Context, kind models.ContentKind, contentID, profileID int64, reaction string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.contentExists(kind, contentID) {
		return repositories.ErrNotFound
	}

	s.reactions[engagementKey{kind, contentID, profileID}] = reaction
	s.refreshCounters(kind, contentID)
	return nil
}

// RemoveReaction deletes the reaction only when it matches the given value
func (r *EngagementRepository) RemoveReaction(ctx context.Context, kind models.ContentKind, contentID, profileID int64, reaction string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.contentExists(kind, contentID) {
		return repositories.ErrNotFound
	}

	key := engagementKey{kind, contentID, profileID}
	if current, ok := s.reactions[key]; ok && current == reaction {
		delete(s.reactions, key)
	}
	s.refreshCounters(kind, contentID)
	return nil
}

// Save adds the profile to the item's saved set; idempotent
func (r *EngagementRepository) Save(ctx context.Context, kind models.ContentKind, contentID, profileID int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.contentExists(kind, contentID) {
		return repositories.ErrNotFound
	}

	s.saves[engagementKey{kind, contentID, profileID}] = struct{}{}
	s.refreshCounters(kind, contentID)
	return nil
}

// Unsave removes the profile from the item's saved set; idempotent
func (r *EngagementRepository) Unsave(ctx context.Context, kind models.ContentKind, contentID, profileID int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.contentExists(kind, contentID) {
		return repositories.ErrNotFound
	}

	delete(s.saves, engagementKey{kind, contentID, profileID})
	s.refreshCounters(kind, contentID)
	return nil
}

// Share adds the profile to the item's shared set; add-only
func (r *EngagementRepository) Share(ctx context.Context, kind models.ContentKind, contentID, profileID int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.contentExists(kind, contentID) {
		return repositories.ErrNotFound
	}

	s.shares[engagementKey{kind, contentID, profileID}] = struct{}{}
	s.refreshCounters(kind, contentID)
	return nil
}

// GetEngagement returns the profile's engagement state across all three axes
func (r *EngagementRepository) GetEngagement(ctx context.Context, kind models.ContentKind, contentID, profileID int64) (*models.Engagement, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.contentExists(kind, contentID) {
		return nil, repositories.ErrNotFound
	}

	key := engagementKey{kind, contentID, profileID}
	engagement := &models.Engagement{
		Kind:      kind,
		ContentID: contentID,
		ProfileID: profileID,
	}

	if reaction, ok := s.reactions[key]; ok {
		engagement.Reaction = &reaction
	}
	_, engagement.Saved = s.saves[key]
	_, engagement.Shared = s.shares[key]

	return engagement, nil
}
