// file: internal/services/category_service.go
package services

import (
	"context"
	"errors"
	"time"

	"personahub/internal/cache"
	"personahub/internal/models"
	"personahub/internal/repositories"
	"personahub/internal/validation"

	"go.uber.org/zap"
)

const categoryListCacheKey = "categories:active"

// categoryService implements CategoryService
type categoryService struct {
	categoryRepo repositories.CategoryRepository
	cache        cache.Cache
	logger       *zap.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(
	categoryRepo repositories.CategoryRepository,
	cache cache.Cache,
	logger *zap.Logger,
) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		cache:        cache,
		logger:       logger,
	}
}

// CreateCategory creates a new content category
func (s *categoryService) CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*models.Category, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid create category request", err)
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repositories.ErrDuplicateCategory) {
			return nil, NewConflictError("category already exists", "CATEGORY_EXISTS")
		}
		s.logger.Error("failed to create category", zap.Error(err), zap.String("name", req.Name))
		return nil, NewInternalError("failed to create category")
	}

	s.cache.Delete(ctx, categoryListCacheKey)

	s.logger.Info("category created", zap.Int64("category_id", category.ID), zap.String("name", category.Name))
	return category, nil
}

// GetCategory retrieves a category by ID
func (s *categoryService) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	if id <= 0 {
		return nil, NewValidationError("invalid category ID", nil)
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundErr(err) {
			return nil, NewNotFoundError("category not found")
		}
		s.logger.Error("failed to get category", zap.Error(err), zap.Int64("category_id", id))
		return nil, NewInternalError("failed to retrieve category")
	}

	return category, nil
}

// ListCategories returns active categories ordered by name, cached briefly
func (s *categoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	if cached, found := s.cache.Get(ctx, categoryListCacheKey); found {
		if categories, ok := cached.([]*models.Category); ok {
			return categories, nil
		}
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list categories", zap.Error(err))
		return nil, NewInternalError("failed to list categories")
	}

	if err := s.cache.Set(ctx, categoryListCacheKey, categories, 10*time.Minute); err != nil {
		s.logger.Warn("failed to cache category list", zap.Error(err))
	}

	return categories, nil
}

// DeleteCategory deactivates a category; existing content keeps its
// reference
func (s *categoryService) DeleteCategory(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewValidationError("invalid category ID", nil)
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if repositories.IsNotFoundErr(err) {
			return NewNotFoundError("category not found")
		}
		s.logger.Error("failed to delete category", zap.Error(err), zap.Int64("category_id", id))
		return NewInternalError("failed to delete category")
	}

	s.cache.Delete(ctx, categoryListCacheKey)
	return nil
}
