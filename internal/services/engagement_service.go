// file: internal/services/engagement_service.go
package services

import (
	"context"

	"personahub/internal/events"
	"personahub/internal/models"
	"personahub/internal/repositories"
	"personahub/internal/validation"

	"go.uber.org/zap"
)

// engagementService implements EngagementService. The repository performs
// the set mutation and counter recompute in one atomic unit; this layer
// validates the request, maps errors and emits events.
type engagementService struct {
	engagementRepo repositories.EngagementRepository
	events         events.EventBus
	logger         *zap.Logger
}

// NewEngagementService creates a new engagement service
func NewEngagementService(
	engagementRepo repositories.EngagementRepository,
	events events.EventBus,
	logger *zap.Logger,
) EngagementService {
	return &engagementService{
		engagementRepo: engagementRepo,
		events:         events,
		logger:         logger,
	}
}

// ===============================
// REACTION AXIS (like XOR dislike)
// ===============================

// Like sets the profile's reaction to like, replacing a dislike if present.
// Idempotent.
func (s *engagementService) Like(ctx context.Context, req *EngagementRequest) error {
	return s.setReaction(ctx, req, models.ReactionLike)
}

// Unlike removes the profile's like; a no-op when no like exists, even if a
// dislike does
func (s *engagementService) Unlike(ctx context.Context, req *EngagementRequest) error {
	return s.removeReaction(ctx, req, models.ReactionLike)
}

// Dislike sets the profile's reaction to dislike, replacing a like if
// present. Idempotent.
func (s *engagementService) Dislike(ctx context.Context, req *EngagementRequest) error {
	return s.setReaction(ctx, req, models.ReactionDislike)
}

// RemoveDislike removes the profile's dislike; a no-op when no dislike
// exists
func (s *engagementService) RemoveDislike(ctx context.Context, req *EngagementRequest) error {
	return s.removeReaction(ctx, req, models.ReactionDislike)
}

func (s *engagementService) setReaction(ctx context.Context, req *EngagementRequest, reaction string) error {
	if err := s.validateRequest(req); err != nil {
		return err
	}

	if err := s.engagementRepo.SetReaction(ctx, req.Kind, req.ContentID, req.ProfileID, reaction); err != nil {
		return s.mapError(err, req, "set reaction")
	}

	s.publishReaction(ctx, req, reaction)
	return nil
}

func (s *engagementService) removeReaction(ctx context.Context, req *EngagementRequest, reaction string) error {
	if err := s.validateRequest(req); err != nil {
		return err
	}

	if err := s.engagementRepo.RemoveReaction(ctx, req.Kind, req.ContentID, req.ProfileID, reaction); err != nil {
		return s.mapError(err, req, "remove reaction")
	}

	s.publishReaction(ctx, req, "removed")
	return nil
}

// ===============================
// SAVE AXIS (independent toggle)
// ===============================

// SaveContent adds the item to the profile's saved set. Idempotent and
// independent of the reaction axis.
func (s *engagementService) SaveContent(ctx context.Context, req *EngagementRequest) error {
	if err := s.validateRequest(req); err != nil {
		return err
	}

	if err := s.engagementRepo.Save(ctx, req.Kind, req.ContentID, req.ProfileID); err != nil {
		return s.mapError(err, req, "save")
	}

	if err := s.events.PublishAsync(ctx, events.NewContentSavedEvent(
		string(req.Kind), req.ContentID, req.ProfileID, true,
	)); err != nil {
		s.logger.Warn("failed to publish content saved event", zap.Error(err))
	}

	return nil
}

// UnsaveContent removes the item from the profile's saved set. Idempotent.
func (s *engagementService) UnsaveContent(ctx context.Context, req *EngagementRequest) error {
	if err := s.validateRequest(req); err != nil {
		return err
	}

	if err := s.engagementRepo.Unsave(ctx, req.Kind, req.ContentID, req.ProfileID); err != nil {
		return s.mapError(err, req, "unsave")
	}

	if err := s.events.PublishAsync(ctx, events.NewContentSavedEvent(
		string(req.Kind), req.ContentID, req.ProfileID, false,
	)); err != nil {
		s.logger.Warn("failed to publish content unsaved event", zap.Error(err))
	}

	return nil
}

// ===============================
// SHARE AXIS (monotonic)
// ===============================

// ShareContent records that the profile shared the item. There is no
// unshare; repeated shares are no-ops.
func (s *engagementService) ShareContent(ctx context.Context, req *EngagementRequest) error {
	if err := s.validateRequest(req); err != nil {
		return err
	}

	if err := s.engagementRepo.Share(ctx, req.Kind, req.ContentID, req.ProfileID); err != nil {
		return s.mapError(err, req, "share")
	}

	if err := s.events.PublishAsync(ctx, events.NewContentSharedEvent(
		string(req.Kind), req.ContentID, req.ProfileID,
	)); err != nil {
		s.logger.Warn("failed to publish content shared event", zap.Error(err))
	}

	return nil
}

// GetEngagement returns the profile's engagement state on the item
func (s *engagementService) GetEngagement(ctx context.Context, req *EngagementRequest) (*models.Engagement, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	engagement, err := s.engagementRepo.GetEngagement(ctx, req.Kind, req.ContentID, req.ProfileID)
	if err != nil {
		if repositories.IsNotFoundErr(err) {
			return nil, NewNotFoundError("content not found")
		}
		s.logger.Error("failed to get engagement",
			zap.Error(err),
			zap.String("kind", string(req.Kind)),
			zap.Int64("content_id", req.ContentID),
		)
		return nil, NewInternalError("failed to get engagement")
	}

	return engagement, nil
}

// ===============================
// HELPERS
// ===============================

func (s *engagementService) validateRequest(req *EngagementRequest) error {
	if err := validation.ValidateStruct(req); err != nil {
		return NewValidationError("invalid engagement request", err)
	}
	if !req.Kind.Valid() {
		return NewValidationError("unknown content kind", nil)
	}
	return nil
}

func (s *engagementService) mapError(err error, req *EngagementRequest, op string) error {
	if repositories.IsNotFoundErr(err) {
		return NewNotFoundError("content not found")
	}

	s.logger.Error("engagement operation failed",
		zap.Error(err),
		zap.String("operation", op),
		zap.String("kind", string(req.Kind)),
		zap.Int64("content_id", req.ContentID),
		zap.Int64("profile_id", req.ProfileID),
	)
	return NewInternalError("engagement operation failed")
}

func (s *engagementService) publishReaction(ctx context.Context, req *EngagementRequest, reaction string) {
	if err := s.events.PublishAsync(ctx, events.NewContentReactionEvent(
		string(req.Kind), req.ContentID, req.ProfileID, reaction,
	)); err != nil {
		s.logger.Warn("failed to publish reaction event", zap.Error(err))
	}
}
