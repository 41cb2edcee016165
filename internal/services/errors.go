package services

import "errors"

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTitleEmpty             = errors.New("title cannot be empty")
	ErrCategoryNameRequired   = errors.New("category_name is required")
	ErrCategoryNotFound       = errors.New("category not found")
	ErrCategoryInUse          = errors.New("category is still referenced by tasks")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)
