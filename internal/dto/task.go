package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/yukikurage/task-category-api/internal/models"
)

// OptionalTime tracks whether a JSON key was present at all, so that an
// explicit null can be told apart from an omitted field.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

// UnmarshalJSON is only invoked when the key is present in the payload.
func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Value = nil
		return nil
	}

	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	o.Value = &t
	return nil
}

// CreateTaskRequest is the body of POST /tasks
type CreateTaskRequest struct {
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description"`
	DueDate      *time.Time `json:"due_date"`
	CategoryName *string    `json:"category_name"`
}

// UpdateTaskRequest is the body of PUT /tasks/:id. Every field is optional;
// absent fields are left untouched.
type UpdateTaskRequest struct {
	Title        *string      `json:"title"`
	Description  *string      `json:"description"`
	DueDate      OptionalTime `json:"due_date"`
	Completed    *bool        `json:"completed"`
	CategoryName *string      `json:"category_name"`
}

// GenerateTasksRequest is the body of POST /tasks/generate
type GenerateTasksRequest struct {
	Text string `json:"text" binding:"required"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	CategoryID  uint64     `json:"category_id"`
}

// DeleteTaskResponse confirms a task deletion
type DeleteTaskResponse struct {
	Message string `json:"message"`
	TaskID  uint64 `json:"task_id"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		CategoryID:  task.CategoryID,
	}
}

// ToTaskDTOs converts a slice of tasks, never returning nil
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}
