package memory

import (
	"context"
	"sort"
	"strings"

	"personahub/internal/models"
	"personahub/internal/repositories"
)

// CategoryRepository is the in-memory CategoryRepository implementation
type CategoryRepository struct {
	store *Store
}

// NewCategoryRepository creates a category repository over the given store
func NewCategoryRepository(store *Store) *CategoryRepository {
	return &CategoryRepository{store: store}
}

// Create inserts a category, enforcing case-insensitive name uniqueness
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.categories {
		if strings.EqualFold(existing.Name, category.Name) {
			return repositories.ErrDuplicateCategory
		}
	}

	s.nextCategoryID++
	category.ID = s.nextCategoryID
	category.IsActive = true
	category.CreatedAt = s.now()

	s.categories[category.ID] = copyCategory(category)
	return nil
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	category, ok := s.categories[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return copyCategory(category), nil
}

// List returns active categories ordered by name
func (r *CategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	categories := make([]*models.Category, 0)
	for _, category := range s.categories {
		if category.IsActive {
			categories = append(categories, copyCategory(category))
		}
	}

	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})

	return categories, nil
}

// Delete deactivates a category; content keeps referencing it
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	category, ok := s.categories[id]
	if !ok {
		return repositories.ErrNotFound
	}
	category.IsActive = false
	return nil
}

// AdjustCount shifts the cached content counters, clamped at zero
func (r *CategoryRepository) AdjustCount(ctx context.Context, categoryID int64, postDelta, questionDelta int) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	category, ok := s.categories[categoryID]
	if !ok {
		return repositories.ErrNotFound
	}

	category.PostCount += postDelta
	if category.PostCount < 0 {
		category.PostCount = 0
	}
	category.QuestionCount += questionDelta
	if category.QuestionCount < 0 {
		category.QuestionCount = 0
	}

	return nil
}
