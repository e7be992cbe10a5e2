// file: internal/repositories/question_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"personahub/internal/database"
	"personahub/internal/models"

	"go.uber.org/zap"
)

// questionRepository implements QuestionRepository on postgres
type questionRepository struct {
	*BaseRepository
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db *database.Manager, logger *zap.Logger) QuestionRepository {
	return &questionRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// Create creates a new question
func (r *questionRepository) Create(ctx context.Context, question *models.Question) error {
	query := `
		INSERT INTO questions (profile_id, category_id, title, body, tags)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.QueryRowContext(
		ctx, query,
		question.ProfileID, question.CategoryID, question.Title,
		question.Body, question.Tags,
	).Scan(&question.ID, &question.CreatedAt, &question.UpdatedAt)

	if err != nil {
		r.GetLogger().Error("failed to create question",
			zap.Error(err),
			zap.Int64("profile_id", question.ProfileID),
			zap.String("title", question.Title),
		)
		return fmt.Errorf("failed to create question: %w", err)
	}

	r.GetLogger().Info("question created",
		zap.Int64("question_id", question.ID),
		zap.Int64("profile_id", question.ProfileID),
	)

	return nil
}

const questionSelect = `
	SELECT
		q.id, q.profile_id, q.category_id, q.title, q.body, q.tags,
		q.like_count, q.dislike_count, q.save_count, q.share_count,
		q.answer_count, q.is_answered, q.accepted_answer_id,
		q.created_at, q.updated_at,
		pr.profile_name, pr.avatar_url,
		vr.reaction AS viewer_reaction,
		(vs.profile_id IS NOT NULL) AS is_saved
	FROM questions q
	INNER JOIN profiles pr ON q.profile_id = pr.id
	LEFT JOIN content_reactions vr
		ON vr.kind = 'question' AND vr.content_id = q.id AND vr.profile_id = $1
	LEFT JOIN content_saves vs
		ON vs.kind = 'question' AND vs.content_id = q.id AND vs.profile_id = $1`

// GetByID retrieves a question with author and viewer context
func (r *questionRepository) GetByID(ctx context.Context, id int64, viewerProfileID *int64) (*models.Question, error) {
	query := questionSelect + ` WHERE q.id = $2`

	question, err := r.scanQuestion(r.QueryRowContext(ctx, query, nullableID(viewerProfileID), id))
	if err != nil {
		return nil, err
	}

	if viewerProfileID != nil {
		question.IsOwner = question.ProfileID == *viewerProfileID
	}

	return question, nil
}

// Update updates a question's mutable fields
func (r *questionRepository) Update(ctx context.Context, question *models.Question) error {
	query := `
		UPDATE questions SET
			category_id = $2, title = $3, body = $4, tags = $5,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`

	err := r.QueryRowContext(
		ctx, query,
		question.ID, question.CategoryID, question.Title,
		question.Body, question.Tags,
	).Scan(&question.UpdatedAt)

	if err != nil {
		if r.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update question: %w", err)
	}

	return nil
}

// Delete removes a question and its engagement rows
func (r *questionRepository) Delete(ctx context.Context, id int64) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete question: %w", err)
		}

		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			return ErrNotFound
		}

		for _, table := range []string{"content_reactions", "content_saves", "content_shares"} {
			if _, err := tx.ExecContext(ctx,
				fmt.Sprintf(`DELETE FROM %s WHERE kind = 'question' AND content_id = $1`, table),
				id,
			); err != nil {
				return fmt.Errorf("failed to clean up %s: %w", table, err)
			}
		}

		return nil
	})
}

// List retrieves questions with pagination, optionally filtered by category
func (r *questionRepository) List(ctx context.Context, params models.PaginationParams, categoryID *int64) (*models.PaginatedResponse[models.Question], error) {
	where := ""
	args := []interface{}{nil}

	if categoryID != nil {
		where = "q.category_id = $2"
		args = append(args, *categoryID)
	}

	return r.listQuestions(ctx, where, args, params)
}

// ListByProfile retrieves a profile's questions with pagination
func (r *questionRepository) ListByProfile(ctx context.Context, profileID int64, params models.PaginationParams) (*models.PaginatedResponse[models.Question], error) {
	return r.listQuestions(ctx, "q.profile_id = $2", []interface{}{nil, profileID}, params)
}

// Search matches the escaped term case-insensitively against title, body
// and tags
func (r *questionRepository) Search(ctx context.Context, term string, params models.PaginationParams) (*models.PaginatedResponse[models.Question], error) {
	pattern := "%" + EscapeLikePattern(term) + "%"
	where := `(
		q.title ILIKE $2 ESCAPE '\' OR
		COALESCE(q.body, '') ILIKE $2 ESCAPE '\' OR
		EXISTS (SELECT 1 FROM unnest(q.tags) AS tag WHERE tag ILIKE $2 ESCAPE '\')
	)`

	return r.listQuestions(ctx, where, []interface{}{nil, pattern}, params)
}

// AcceptAnswer marks the question answered with the given answer ID
func (r *questionRepository) AcceptAnswer(ctx context.Context, questionID, answerID int64) error {
	result, err := r.ExecContext(ctx, `
		UPDATE questions SET
			accepted_answer_id = $2, is_answered = true,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`,
		questionID, answerID,
	)
	if err != nil {
		return fmt.Errorf("failed to accept answer: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// SetAnswerCount updates the cached answer counter
func (r *questionRepository) SetAnswerCount(ctx context.Context, questionID int64, count int) error {
	result, err := r.ExecContext(ctx, `
		UPDATE questions SET answer_count = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`,
		questionID, count,
	)
	if err != nil {
		return fmt.Errorf("failed to set answer count: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *questionRepository) listQuestions(ctx context.Context, where string, args []interface{}, params models.PaginationParams) (*models.PaginatedResponse[models.Question], error) {
	countQuery := `SELECT COUNT(*) FROM questions q`
	if where != "" {
		countQuery += " WHERE " + where
	}
	total, err := r.GetTotalCount(ctx, shiftPlaceholders(countQuery), args[1:]...)
	if err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}

	query, queryArgs := r.BuildPaginatedQuery(questionSelect, where, "created_at", params, args)

	rows, err := r.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	questions := make([]models.Question, 0)
	for rows.Next() {
		question, err := r.scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *question)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.PaginatedResponse[models.Question]{
		Data:       questions,
		Pagination: r.BuildPaginationMeta(params, total),
	}, nil
}

func (r *questionRepository) scanQuestion(row rowScanner) (*models.Question, error) {
	var question models.Question
	var viewerReaction sql.NullString

	err := row.Scan(
		&question.ID, &question.ProfileID, &question.CategoryID,
		&question.Title, &question.Body, &question.Tags,
		&question.LikeCount, &question.DislikeCount,
		&question.SaveCount, &question.ShareCount,
		&question.AnswerCount, &question.IsAnswered, &question.AcceptedAnswerID,
		&question.CreatedAt, &question.UpdatedAt,
		&question.AuthorName, &question.AuthorAvatarURL,
		&viewerReaction, &question.IsSaved,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan question: %w", err)
	}

	if viewerReaction.Valid {
		question.ViewerReaction = &viewerReaction.String
	}

	return &question, nil
}
