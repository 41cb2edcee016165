package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/task-category-api/internal/models"
	"github.com/yukikurage/task-category-api/internal/repository"
	"gorm.io/gorm"
)

const maxGeneratedTasks = 20

// TaskSuggester turns free text into task suggestions
type TaskSuggester interface {
	GenerateTasksFromText(ctx context.Context, text string) ([]GeneratedTask, error)
}

// TaskService handles task business logic. Every operation runs in its own
// transaction on db.
type TaskService struct {
	db        *gorm.DB
	resolver  *CategoryResolver
	suggester TaskSuggester
}

// NewTaskService creates a new TaskService. suggester may be nil.
func NewTaskService(db *gorm.DB, resolver *CategoryResolver, suggester TaskSuggester) *TaskService {
	return &TaskService{
		db:        db,
		resolver:  resolver,
		suggester: suggester,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title        string
	Description  string
	DueDate      *time.Time
	CategoryName *string
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Completed    *bool
	CategoryName *string
	DueDateFrom  *time.Time
	DueDateTo    *time.Time
}

// UpdateTaskInput represents a sparse update; nil fields are left untouched
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	DueDate      *time.Time
	ClearDueDate bool
	Completed    *bool
	CategoryName *string
}

func (in UpdateTaskInput) isEmpty() bool {
	return in.Title == nil &&
		in.Description == nil &&
		in.DueDate == nil &&
		!in.ClearDueDate &&
		in.Completed == nil &&
		in.CategoryName == nil
}

// CreateTask resolves the category and persists a new task
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleEmpty
	}
	if input.CategoryName == nil {
		return nil, ErrCategoryNameRequired
	}

	var task *models.Task
	var category *models.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		category, err = s.resolver.ResolveOrCreate(ctx, tx, *input.CategoryName)
		if err != nil {
			return err
		}

		task = &models.Task{
			Title:       input.Title,
			Description: input.Description,
			DueDate:     utcPtr(input.DueDate),
			CategoryID:  category.ID,
		}
		if err := repository.NewTaskRepository(tx).Create(task); err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.resolver.Remember(ctx, category)
	return task, nil
}

// ListTasks returns all tasks matching the supplied filters
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		filter := repository.TaskFilter{
			Completed:   input.Completed,
			DueDateFrom: utcPtr(input.DueDateFrom),
			DueDateTo:   utcPtr(input.DueDateTo),
		}

		if input.CategoryName != nil {
			category, err := s.resolver.Lookup(ctx, tx, *input.CategoryName)
			if errors.Is(err, ErrCategoryNotFound) {
				tasks = []models.Task{}
				return nil
			}
			if err != nil {
				return err
			}
			filter.CategoryID = &category.ID
		}

		var err error
		tasks, err = repository.NewTaskRepository(tx).List(filter)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// GetTask returns a task by ID
func (s *TaskService) GetTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	var task *models.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		task, err = findTask(repository.NewTaskRepository(tx), taskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask applies a sparse update to an existing task
func (s *TaskService) UpdateTask(ctx context.Context, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	var task *models.Task
	var category *models.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskRepo := repository.NewTaskRepository(tx)

		var err error
		task, err = findTask(taskRepo, taskID)
		if err != nil {
			return err
		}

		if input.isEmpty() {
			return nil
		}

		if input.Title != nil {
			if strings.TrimSpace(*input.Title) == "" {
				return ErrTitleEmpty
			}
			task.Title = *input.Title
		}
		if input.Description != nil {
			task.Description = *input.Description
		}
		if input.ClearDueDate {
			task.DueDate = nil
		} else if input.DueDate != nil {
			task.DueDate = utcPtr(input.DueDate)
		}
		if input.Completed != nil {
			task.Completed = *input.Completed
		}
		if input.CategoryName != nil {
			category, err = s.resolver.ResolveOrCreate(ctx, tx, *input.CategoryName)
			if err != nil {
				return err
			}
			task.CategoryID = category.ID
		}

		if err := taskRepo.Update(task); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.resolver.Remember(ctx, category)
	return task, nil
}

// DeleteTask deletes a task. The task's category is left alone.
func (s *TaskService) DeleteTask(ctx context.Context, taskID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskRepo := repository.NewTaskRepository(tx)

		if _, err := findTask(taskRepo, taskID); err != nil {
			return err
		}

		if err := taskRepo.Delete(taskID); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		return nil
	})
}

// GenerateTasks uses AI to suggest tasks from text. Nothing is persisted.
func (s *TaskService) GenerateTasks(ctx context.Context, text string) ([]GeneratedTask, error) {
	if s.suggester == nil {
		return nil, ErrAIServiceNotConfigured
	}

	aiTasks, err := s.suggester.GenerateTasksFromText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > maxGeneratedTasks {
		return nil, fmt.Errorf("AI generated too many tasks (max %d)", maxGeneratedTasks)
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, aiTask := range aiTasks {
		if strings.TrimSpace(aiTask.Title) == "" {
			continue
		}

		if aiTask.DueDate != nil && aiTask.DueDate.Before(cutoff) {
			aiTask.DueDate = nil
		}
		if aiTask.CategoryName != "" {
			aiTask.CategoryName = s.resolver.Normalize(aiTask.CategoryName)
		}

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

// findTask maps a missing row to ErrTaskNotFound
func findTask(repo repository.TaskRepository, taskID uint64) (*models.Task, error) {
	task, err := repo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
