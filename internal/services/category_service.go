package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/task-category-api/internal/models"
	"github.com/yukikurage/task-category-api/internal/repository"
	"gorm.io/gorm"
)

// CategoryService provides business logic for category operations.
type CategoryService struct {
	db       *gorm.DB
	resolver *CategoryResolver
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(db *gorm.DB, resolver *CategoryResolver) *CategoryService {
	return &CategoryService{
		db:       db,
		resolver: resolver,
	}
}

// CreateCategory returns the category named name, creating it if needed.
// Creating an existing name is not an error.
func (s *CategoryService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	var category *models.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		category, err = s.resolver.ResolveOrCreate(ctx, tx, name)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.resolver.Remember(ctx, category)
	return category, nil
}

// ListCategories returns every category.
func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := repository.NewCategoryRepository(s.db.WithContext(ctx)).List()
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// DeleteCategory deletes a category that no task references.
func (s *CategoryService) DeleteCategory(ctx context.Context, categoryID uint64) error {
	var category *models.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categoryRepo := repository.NewCategoryRepository(tx)

		var err error
		category, err = categoryRepo.FindByID(categoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return fmt.Errorf("failed to find category: %w", err)
		}

		inUse, err := repository.NewTaskRepository(tx).ExistsByCategoryID(categoryID)
		if err != nil {
			return fmt.Errorf("failed to check category usage: %w", err)
		}
		if inUse {
			return ErrCategoryInUse
		}

		if err := categoryRepo.Delete(categoryID); err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.resolver.Forget(ctx, category.Name)
	return nil
}
