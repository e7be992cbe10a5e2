// file: internal/repositories/category_repository.go
package repositories

import (
	"context"
	"fmt"

	"personahub/internal/database"
	"personahub/internal/models"

	"go.uber.org/zap"
)

// categoryRepository implements CategoryRepository on postgres
type categoryRepository struct {
	*BaseRepository
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *database.Manager, logger *zap.Logger) CategoryRepository {
	return &categoryRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// Create inserts a new category
func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (name, description, is_active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.QueryRowContext(
		ctx, query,
		category.Name, category.Description, category.IsActive,
	).Scan(&category.ID, &category.CreatedAt)

	if err != nil {
		if r.IsUniqueViolation(err, "categories_name_key") {
			return ErrDuplicateCategory
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// GetByID retrieves a category by ID
func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	query := `
		SELECT id, name, description, is_active, post_count, question_count, created_at
		FROM categories WHERE id = $1`

	var category models.Category
	err := r.QueryRowContext(ctx, query, id).Scan(
		&category.ID, &category.Name, &category.Description, &category.IsActive,
		&category.PostCount, &category.QuestionCount, &category.CreatedAt,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &category, nil
}

// List returns all active categories ordered by name
func (r *categoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	query := `
		SELECT id, name, description, is_active, post_count, question_count, created_at
		FROM categories
		WHERE is_active = true
		ORDER BY name ASC`

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(
			&category.ID, &category.Name, &category.Description, &category.IsActive,
			&category.PostCount, &category.QuestionCount, &category.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, &category)
	}

	return categories, rows.Err()
}

// Delete deactivates a category; counters are preserved
func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.ExecContext(ctx,
		`UPDATE categories SET is_active = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// AdjustCount shifts the cached content counters, clamped at zero
func (r *categoryRepository) AdjustCount(ctx context.Context, categoryID int64, postDelta, questionDelta int) error {
	result, err := r.ExecContext(ctx,
		`UPDATE categories SET
			post_count = GREATEST(post_count + $2, 0),
			question_count = GREATEST(question_count + $3, 0)
		WHERE id = $1`,
		categoryID, postDelta, questionDelta,
	)
	if err != nil {
		return fmt.Errorf("failed to adjust category counters: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}

	r.GetLogger().Debug("category counters adjusted",
		zap.Int64("category_id", categoryID),
		zap.Int("post_delta", postDelta),
		zap.Int("question_delta", questionDelta),
	)

	return nil
}
