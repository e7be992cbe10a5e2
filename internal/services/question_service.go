// file: internal/services/question_service.go
package services

import (
	"context"

	"personahub/internal/cache"
	"personahub/internal/events"
	"personahub/internal/models"
	"personahub/internal/repositories"
	"personahub/internal/validation"

	"go.uber.org/zap"
)

// questionService implements QuestionService
type questionService struct {
	questionRepo repositories.QuestionRepository
	profileRepo  repositories.ProfileRepository
	categoryRepo repositories.CategoryRepository
	cache        cache.Cache
	events       events.EventBus
	logger       *zap.Logger
}

// NewQuestionService creates a new question service
func NewQuestionService(
	questionRepo repositories.QuestionRepository,
	profileRepo repositories.ProfileRepository,
	categoryRepo repositories.CategoryRepository,
	cache cache.Cache,
	events events.EventBus,
	logger *zap.Logger,
) QuestionService {
	return &questionService{
		questionRepo: questionRepo,
		profileRepo:  profileRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
		events:       events,
		logger:       logger,
	}
}

// CreateQuestion creates a question authored by the profile; the category
// counter update is best-effort
func (s *questionService) CreateQuestion(ctx context.Context, req *CreateQuestionRequest) (*models.Question, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid create question request", err)
	}

	author, err := s.profileRepo.GetByID(ctx, req.ProfileID)
	if err != nil {
		if repositories.IsNotFoundErr(err) {
			return nil, NewNotFoundError("profile not found")
		}
		s.logger.Error("failed to load author profile", zap.Error(err), zap.Int64("profile_id", req.ProfileID))
		return nil, NewInternalError("failed to create question")
	}
	if !author.IsActive {
		return nil, NewInvalidStateError("inactive profiles cannot publish content", "PROFILE_INACTIVE")
	}

	if _, err := s.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
		if repositories.IsNotFoundErr(err) {
			return nil, NewNotFoundError("category not found")
		}
		return nil, NewInternalError("failed to create question")
	}

	question := &models.Question{
		ProfileID:  req.ProfileID,
		CategoryID: req.CategoryID,
		Title:      req.Title,
		Body:       req.Body,
		Tags:       models.StringArray(req.Tags),
	}

	if err := s.questionRepo.Create(ctx, question); err != nil {
		s.logger.Error("failed to create question", zap.Error(err), zap.Int64("profile_id", req.ProfileID))
		return nil, NewInternalError("failed to create question")
	}

	s.adjustCategoryCount(ctx, req.CategoryID, 1)
	s.invalidateListings(ctx)

	if err := s.events.PublishAsync(ctx, events.NewContentCreatedEvent(
		string(models.ContentKindQuestion), question.ID, question.ProfileID, question.Title,
	)); err != nil {
		s.logger.Warn("failed to publish question created event", zap.Error(err), zap.Int64("question_id", question.ID))
	}

	question.AuthorName = author.ProfileName
	question.AuthorAvatarURL = author.AvatarURL

	s.logger.Info("question created", zap.Int64("question_id", question.ID), zap.Int64("profile_id", question.ProfileID))
	return question, nil
}

// GetQuestion retrieves a question with author and viewer context
func (s *questionService) GetQuestion(ctx context.Context, questionID int64, viewerProfileID *int64) (*models.Question, error) {
	if questionID <= 0 {
		return nil, NewValidationError("invalid question ID", nil)
	}

	question, err := s.questionRepo.GetByID(ctx, questionID, viewerProfileID)
	if err != nil {
		if repositories.IsNotFoundErr(err) {
			return nil, NewNotFoundError("question not found")
		}
		s.logger.Error("failed to get question", zap.Error(err), zap.Int64("question_id", questionID))
		return nil, NewInternalError("failed to retrieve question")
	}

	return question, nil
}

// UpdateQuestion applies the non-nil fields after verifying ownership
func (s *questionService) UpdateQuestion(ctx context.Context, req *UpdateQuestionRequest) (*models.Question, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid update question request", err)
	}

	question, err := s.GetQuestion(ctx, req.QuestionID, nil)
	if err != nil {
		return nil, err
	}
	if !question.IsOwnedBy(req.ProfileID) {
		return nil, InsufficientPermissionsError("update", "question")
	}

	previousCategory := question.CategoryID
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *req.CategoryID); err != nil {
			if repositories.IsNotFoundErr(err) {
				return nil, NewNotFoundError("category not found")
			}
			return nil, NewInternalError("failed to update question")
		}
		question.CategoryID = *req.CategoryID
	}
	if req.Title != nil {
		question.Title = *req.Title
	}
	if req.Body != nil {
		question.Body = req.Body
	}
	if req.Tags != nil {
		question.Tags = models.StringArray(req.Tags)
	}

	if err := s.questionRepo.Update(ctx, question); err != nil {
		if repositories.IsNotFoundErr(err) {
			return nil, NewNotFoundError("question not found")
		}
		s.logger.Error("failed to update question", zap.Error(err), zap.Int64("question_id", req.QuestionID))
		return nil, NewInternalError("failed to update question")
	}

	if question.CategoryID != previousCategory {
		s.adjustCategoryCount(ctx, previousCategory, -1)
		s.adjustCategoryCount(ctx, question.CategoryID, 1)
	}
	s.invalidateListings(ctx)

	return question, nil
}

// DeleteQuestion removes the question after verifying ownership
func (s *questionService) DeleteQuestion(ctx context.Context, questionID, profileID int64) error {
	question, err := s.GetQuestion(ctx, questionID, nil)
	if err != nil {
		return err
	}
	if !question.IsOwnedBy(profileID) {
		return InsufficientPermissionsError("delete", "question")
	}

	if err := s.questionRepo.Delete(ctx, questionID); err != nil {
		if repositories.IsNotFoundErr(err) {
			return NewNotFoundError("question not found")
		}
		s.logger.Error("failed to delete question", zap.Error(err), zap.Int64("question_id", questionID))
		return NewInternalError("failed to delete question")
	}

	s.adjustCategoryCount(ctx, question.CategoryID, -1)
	s.invalidateListings(ctx)

	if err := s.events.PublishAsync(ctx, events.NewContentDeletedEvent(
		string(models.ContentKindQuestion), questionID,
	)); err != nil {
		s.logger.Warn("failed to publish question deleted event", zap.Error(err), zap.Int64("question_id", questionID))
	}

	return nil
}

// AcceptAnswer marks the question answered with the given answer, owner only
func (s *questionService) AcceptAnswer(ctx context.Context, questionID, answerID, profileID int64) (*models.Question, error) {
	if answerID <= 0 {
		return nil, NewValidationError("invalid answer ID", nil)
	}

	question, err := s.GetQuestion(ctx, questionID, nil)
	if err != nil {
		return nil, err
	}
	if !question.IsOwnedBy(profileID) {
		return nil, InsufficientPermissionsError("accept answer on", "question")
	}

	if err := s.questionRepo.AcceptAnswer(ctx, questionID, answerID); err != nil {
		if repositories.IsNotFoundErr(err) {
			return nil, NewNotFoundError("question not found")
		}
		s.logger.Error("failed to accept answer", zap.Error(err), zap.Int64("question_id", questionID))
		return nil, NewInternalError("failed to accept answer")
	}

	question.IsAnswered = true
	question.AcceptedAnswerID = &answerID
	s.invalidateListings(ctx)

	return question, nil
}

// ListQuestions retrieves questions, optionally filtered by category
func (s *questionService) ListQuestions(ctx context.Context, req *ListContentRequest) (*models.PaginatedResponse[models.Question], error) {
	result, err := s.questionRepo.List(ctx, req.Pagination, req.CategoryID)
	if err != nil {
		s.logger.Error("failed to list questions", zap.Error(err))
		return nil, NewInternalError("failed to list questions")
	}
	return result, nil
}

// ListQuestionsByProfile retrieves a profile's questions
func (s *questionService) ListQuestionsByProfile(ctx context.Context, profileID int64, params models.PaginationParams) (*models.PaginatedResponse[models.Question], error) {
	if profileID <= 0 {
		return nil, NewValidationError("invalid profile ID", nil)
	}

	result, err := s.questionRepo.ListByProfile(ctx, profileID, params)
	if err != nil {
		s.logger.Error("failed to list profile questions", zap.Error(err), zap.Int64("profile_id", profileID))
		return nil, NewInternalError("failed to list questions")
	}
	return result, nil
}

// SearchQuestions matches the term literally and case-insensitively against
// title, body and tags
func (s *questionService) SearchQuestions(ctx context.Context, req *SearchRequest) (*models.PaginatedResponse[models.Question], error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid search request", err)
	}

	result, err := s.questionRepo.Search(ctx, req.Term, req.Pagination)
	if err != nil {
		s.logger.Error("failed to search questions", zap.Error(err), zap.String("term", req.Term))
		return nil, NewInternalError("failed to search questions")
	}
	return result, nil
}

// adjustCategoryCount shifts the category's cached question counter;
// failures are logged and swallowed
func (s *questionService) adjustCategoryCount(ctx context.Context, categoryID int64, delta int) {
	if err := s.categoryRepo.AdjustCount(ctx, categoryID, 0, delta); err != nil {
		s.logger.Warn("failed to adjust category question count",
			zap.Error(err),
			zap.Int64("category_id", categoryID),
			zap.Int("delta", delta),
		)
	}
}

func (s *questionService) invalidateListings(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, "questions:*"); err != nil {
		s.logger.Warn("failed to invalidate question list cache", zap.Error(err))
	}
}
