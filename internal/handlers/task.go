package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-category-api/internal/dto"
	apierrors "github.com/yukikurage/task-category-api/internal/errors"
	"github.com/yukikurage/task-category-api/internal/middleware"
	"github.com/yukikurage/task-category-api/internal/services"
	"github.com/yukikurage/task-category-api/internal/utils"
	"github.com/yukikurage/task-category-api/internal/validation"
)

// TaskHandler serves the /tasks endpoints.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns all tasks, narrowed by the optional completed,
// category_name, due_date_from and due_date_to query parameters
func (h *TaskHandler) ListTasks(c *gin.Context) {
	completed, err := utils.ParseBoolParam(c.GetQuery("completed"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid completed: "+err.Error())
		return
	}

	rawFrom, hasFrom := c.GetQuery("due_date_from")
	dueDateFrom, err := utils.ParseDateParam(rawFrom, hasFrom, false)
	if err != nil {
		apierrors.BadRequest(c, "Invalid due_date_from: "+err.Error())
		return
	}

	rawTo, hasTo := c.GetQuery("due_date_to")
	dueDateTo, err := utils.ParseDateParam(rawTo, hasTo, true)
	if err != nil {
		apierrors.BadRequest(c, "Invalid due_date_to: "+err.Error())
		return
	}

	input := services.ListTasksInput{
		Completed:   completed,
		DueDateFrom: dueDateFrom,
		DueDateTo:   dueDateTo,
	}
	if categoryName, ok := c.GetQuery("category_name"); ok {
		input.CategoryName = &categoryName
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, ok := middleware.GetID(c)
	if !ok {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task, creating its category on demand
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		CategoryName: req.CategoryName,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask applies a sparse update to an existing task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID, ok := middleware.GetID(c)
	if !ok {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	input := services.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Completed:    req.Completed,
		CategoryName: req.CategoryName,
	}
	if req.DueDate.Set {
		if req.DueDate.Value == nil {
			input.ClearDueDate = true
		} else {
			input.DueDate = req.DueDate.Value
		}
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), taskID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID, ok := middleware.GetID(c)
	if !ok {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteTaskResponse{
		Message: "Task deleted successfully",
		TaskID:  taskID,
	})
}

// GenerateTasks generates task suggestions from text using AI
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	var req dto.GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	generatedTasks, err := h.taskService.GenerateTasks(c.Request.Context(), req.Text)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": generatedTasks,
	})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTitleEmpty):
		apierrors.UnprocessableEntity(c, "Invalid task", []validation.FieldError{
			{Field: "title", Reason: err.Error()},
		})
	case errors.Is(err, services.ErrCategoryNameRequired):
		apierrors.UnprocessableEntity(c, "Invalid task", []validation.FieldError{
			{Field: "category_name", Reason: err.Error()},
		})
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
	case errors.Is(err, services.ErrAINoTasksGenerated), errors.Is(err, services.ErrAINoValidTasks):
		apierrors.UnprocessableEntity(c, err.Error(), nil)
	default:
		log.Printf("task request failed: %v", err)
		apierrors.InternalError(c, "")
	}
}

// respondBindError separates rule violations (422) from unreadable bodies (400)
func respondBindError(c *gin.Context, err error) {
	if fields := validation.FieldErrors(err); fields != nil {
		apierrors.UnprocessableEntity(c, "Validation failed", fields)
		return
	}
	apierrors.BadRequest(c, "Invalid request body")
}
