package repository

import (
	"time"

	"github.com/yukikurage/task-category-api/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id uint64) (*models.Task, error)

	// List retrieves tasks matching every set field of the filter
	List(filter TaskFilter) ([]models.Task, error)

	// Update writes the updatable columns of a task
	Update(task *models.Task) error

	// Delete removes a task
	Delete(id uint64) error

	// ExistsByCategoryID reports whether at least one task references the category
	ExistsByCategoryID(categoryID uint64) (bool, error)
}

// TaskFilter holds filtering options for listing tasks. Nil fields are not
// applied; the date bounds are inclusive.
type TaskFilter struct {
	Completed   *bool
	CategoryID  *uint64
	DueDateFrom *time.Time
	DueDateTo   *time.Time
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	// Create creates a new category
	Create(category *models.Category) error

	// FindByID finds a category by ID
	FindByID(id uint64) (*models.Category, error)

	// FindByName finds a category by its exact stored name
	FindByName(name string) (*models.Category, error)

	// List returns all categories
	List() ([]models.Category, error)

	// Delete removes a category
	Delete(id uint64) error
}
