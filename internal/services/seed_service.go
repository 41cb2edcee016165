package services

import (
	"context"
	"fmt"

	"github.com/yukikurage/task-category-api/internal/database"
	"github.com/yukikurage/task-category-api/internal/models"
	"github.com/yukikurage/task-category-api/internal/repository"
	"gorm.io/gorm"
)

// SeedResult summarizes a seeding run
type SeedResult struct {
	Categories int
	Tasks      int
}

// SeedService loads the sample data set.
type SeedService struct {
	db       *gorm.DB
	resolver *CategoryResolver
}

func NewSeedService(db *gorm.DB, resolver *CategoryResolver) *SeedService {
	return &SeedService{
		db:       db,
		resolver: resolver,
	}
}

// Seed inserts the sample categories and tasks in one transaction. Categories
// go through get-or-create, so running it twice does not duplicate them.
func (s *SeedService) Seed(ctx context.Context) (SeedResult, error) {
	var result SeedResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		byName := make(map[string]*models.Category, len(database.SampleCategoryNames))
		for _, name := range database.SampleCategoryNames {
			category, err := s.resolver.ResolveOrCreate(ctx, tx, name)
			if err != nil {
				return fmt.Errorf("seed category %q: %w", name, err)
			}
			byName[category.Name] = category
			result.Categories++
		}

		taskRepo := repository.NewTaskRepository(tx)
		for _, sample := range database.SampleTasks {
			category, ok := byName[s.resolver.Normalize(sample.CategoryName)]
			if !ok {
				return fmt.Errorf("seed task %q: unknown category %q", sample.Title, sample.CategoryName)
			}
			task := &models.Task{
				Title:       sample.Title,
				Description: sample.Description,
				CategoryID:  category.ID,
			}
			if err := taskRepo.Create(task); err != nil {
				return fmt.Errorf("seed task %q: %w", sample.Title, err)
			}
			result.Tasks++
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}
	return result, nil
}
