package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/yukikurage/task-category-api/internal/cache"
	"github.com/yukikurage/task-category-api/internal/models"
	"github.com/yukikurage/task-category-api/internal/repository"
	"github.com/yukikurage/task-category-api/internal/validation"
	"gorm.io/gorm"
)

// CategoryResolver normalizes category names and implements get-or-create.
// It works on whatever transaction the caller hands it.
type CategoryResolver struct {
	cache cache.CategoryCache
}

// NewCategoryResolver creates a resolver. A nil cache disables caching.
func NewCategoryResolver(c cache.CategoryCache) *CategoryResolver {
	if c == nil {
		c = cache.Noop{}
	}
	return &CategoryResolver{cache: c}
}

// Normalize returns the canonical form used for storage and comparison
func (r *CategoryResolver) Normalize(name string) string {
	return validation.TitleCase(name)
}

// Lookup finds the category whose normalized name matches name. It never
// creates anything and returns ErrCategoryNotFound on a miss.
func (r *CategoryResolver) Lookup(ctx context.Context, tx *gorm.DB, name string) (*models.Category, error) {
	normalized := r.Normalize(name)
	repo := repository.NewCategoryRepository(tx)

	// A cached entry may outlive its row, so a hit is confirmed by id.
	if cached, ok := r.cache.Get(ctx, normalized); ok {
		category, err := repo.FindByID(cached.ID)
		switch {
		case err == nil && category.Name == normalized:
			return category, nil
		case err == nil, errors.Is(err, gorm.ErrRecordNotFound):
			r.cache.Delete(ctx, normalized)
		default:
			return nil, fmt.Errorf("failed to find category: %w", err)
		}
	}

	category, err := repo.FindByName(normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	return category, nil
}

// ResolveOrCreate returns the category for name, creating it on a miss.
//
// The insert runs in a nested transaction (a savepoint when tx is already a
// transaction). If a concurrent request inserted the same name first, the
// unique index rejects ours; the savepoint is rolled back and the winner's
// row is looked up instead.
func (r *CategoryResolver) ResolveOrCreate(ctx context.Context, tx *gorm.DB, name string) (*models.Category, error) {
	normalized := r.Normalize(name)

	existing, err := r.Lookup(ctx, tx, normalized)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrCategoryNotFound) {
		return nil, err
	}

	category := &models.Category{Name: normalized}
	err = tx.Transaction(func(inner *gorm.DB) error {
		return repository.NewCategoryRepository(inner).Create(category)
	})
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	log.Printf("category %q was created concurrently, using existing row", normalized)
	winner, err := repository.NewCategoryRepository(tx).FindByName(normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to find category after duplicate insert: %w", err)
	}
	return winner, nil
}

// Remember caches a category once the transaction that produced it has
// committed.
func (r *CategoryResolver) Remember(ctx context.Context, category *models.Category) {
	if category == nil {
		return
	}
	r.cache.Set(ctx, *category)
}

// Forget evicts a deleted category
func (r *CategoryResolver) Forget(ctx context.Context, name string) {
	r.cache.Delete(ctx, name)
}
