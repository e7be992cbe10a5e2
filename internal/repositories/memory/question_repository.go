package memory

import (
	"context"
	"strings"

	"personahub/internal/models"
	"personahub/internal/repositories"
)

// QuestionRepository is the in-memory QuestionRepository implementation
type QuestionRepository struct {
	store *Store
}

// NewQuestionRepository creates a question repository over the given store
func NewQuestionRepository(store *Store) *QuestionRepository {
	return &QuestionRepository{store: store}
}

// Create inserts a new question with zeroed counters
func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextQuestionID++
	question.ID = s.nextQuestionID
	question.CreatedAt = s.now()
	question.UpdatedAt = question.CreatedAt
	question.LikeCount = 0
	question.DislikeCount = 0
	question.SaveCount = 0
	question.ShareCount = 0
	question.AnswerCount = 0
	question.IsAnswered = false

	s.questions[question.ID] = copyQuestion(question)
	return nil
}

// GetByID retrieves a question decorated with author and viewer context
func (r *QuestionRepository) GetByID(ctx context.Context, id int64, viewerProfileID *int64) (*models.Question, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	question, ok := s.questions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}

	result := copyQuestion(question)
	s.decorateQuestionLocked(result, viewerProfileID)
	return result, nil
}

// Update persists the question's mutable fields
func (r *QuestionRepository) Update(ctx context.Context, question *models.Question) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.questions[question.ID]
	if !ok {
		return repositories.ErrNotFound
	}

	existing.CategoryID = question.CategoryID
	existing.Title = question.Title
	existing.Body = question.Body
	existing.Tags = append(models.StringArray(nil), question.Tags...)
	existing.UpdatedAt = s.now()
	question.UpdatedAt = existing.UpdatedAt
	return nil
}

// Delete removes a question and its engagement rows
func (r *QuestionRepository) Delete(ctx context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.questions, id)
	s.dropEngagement(models.ContentKindQuestion, id)
	return nil
}

// List retrieves questions with pagination, optionally filtered by category
func (r *QuestionRepository) List(ctx context.Context, params models.PaginationParams, categoryID *int64) (*models.PaginatedResponse[models.Question], error) {
	return r.listWhere(params, func(question *models.Question) bool {
		return categoryID == nil || question.CategoryID == *categoryID
	})
}

// ListByProfile retrieves a profile's questions with pagination
func (r *QuestionRepository) ListByProfile(ctx context.Context, profileID int64, params models.PaginationParams) (*models.PaginatedResponse[models.Question], error) {
	return r.listWhere(params, func(question *models.Question) bool {
		return question.ProfileID == profileID
	})
}

// Search matches the term case-insensitively and literally against title,
// body and tags
func (r *QuestionRepository) Search(ctx context.Context, term string, params models.PaginationParams) (*models.PaginatedResponse[models.Question], error) {
	pattern, err := searchPattern(term)
	if err != nil {
		return nil, err
	}

	return r.listWhere(params, func(question *models.Question) bool {
		if pattern.MatchString(question.Title) {
			return true
		}
		if question.Body != nil && pattern.MatchString(*question.Body) {
			return true
		}
		for _, tag := range question.Tags {
			if pattern.MatchString(tag) {
				return true
			}
		}
		return false
	})
}

// AcceptAnswer marks the question answered with the given answer ID
func (r *QuestionRepository) AcceptAnswer(ctx context.Context, questionID, answerID int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	question, ok := s.questions[questionID]
	if !ok {
		return repositories.ErrNotFound
	}

	question.AcceptedAnswerID = &answerID
	question.IsAnswered = true
	question.UpdatedAt = s.now()
	return nil
}

// SetAnswerCount updates the cached answer counter
func (r *QuestionRepository) SetAnswerCount(ctx context.Context, questionID int64, count int) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	question, ok := s.questions[questionID]
	if !ok {
		return repositories.ErrNotFound
	}

	question.AnswerCount = count
	question.UpdatedAt = s.now()
	return nil
}

func (r *QuestionRepository) listWhere(params models.PaginationParams, match func(*models.Question) bool) (*models.PaginatedResponse[models.Question], error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]models.Question, 0)
	for _, question := range s.questions {
		if match(question) {
			clone := copyQuestion(question)
			s.decorateQuestionLocked(clone, nil)
			matched = append(matched, *clone)
		}
	}

	orderSlice(matched, params, func(question models.Question, field string) (string, int64) {
		switch field {
		case "updated_at":
			return "", question.UpdatedAt.UnixNano()
		case "title":
			return strings.ToLower(question.Title), 0
		case "like_count":
			return "", int64(question.LikeCount)
		case "id":
			return "", question.ID
		default:
			return "", question.CreatedAt.UnixNano()
		}
	})

	total := int64(len(matched))
	return &models.PaginatedResponse[models.Question]{
		Data:       pageSlice(matched, params),
		Pagination: buildMeta(params, total),
	}, nil
}

// decorateQuestionLocked fills joined author fields and viewer context;
// caller holds the lock
func (s *Store) decorateQuestionLocked(question *models.Question, viewerProfileID *int64) {
	if author, ok := s.profiles[question.ProfileID]; ok {
		question.AuthorName = author.ProfileName
		question.AuthorAvatarURL = author.AvatarURL
	}

	if viewerProfileID == nil {
		return
	}

	question.IsOwner = question.ProfileID == *viewerProfileID
	key := engagementKey{models.ContentKindQuestion, question.ID, *viewerProfileID}
	if reaction, ok := s.reactions[key]; ok {
		question.ViewerReaction = &reaction
	}
	_, question.IsSaved = s.saves[key]
}
