package database

import (
	"fmt"
	"log"

	"github.com/yukikurage/task-category-api/internal/models"
	"gorm.io/gorm"
)

// Migrate creates the categories and tasks tables and their indexes.
func Migrate(db *gorm.DB) error {
	log.Println("Running database migrations...")
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Task{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}

// AddIndexes adds the indexes used by task filtering and the category guard
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Category guard and category_name filter
		{"tasks", "idx_tasks_category_id", "category_id"},

		// List filters
		{"tasks", "idx_tasks_completed", "completed"},
		{"tasks", "idx_tasks_due_date", "due_date"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(&models.Task{}, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
