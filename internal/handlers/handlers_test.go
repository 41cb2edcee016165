package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-category-api/internal/database"
	"github.com/yukikurage/task-category-api/internal/dto"
	apierrors "github.com/yukikurage/task-category-api/internal/errors"
	"github.com/yukikurage/task-category-api/internal/models"
	"github.com/yukikurage/task-category-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubSuggester struct {
	tasks []services.GeneratedTask
}

func (s stubSuggester) GenerateTasksFromText(context.Context, string) ([]services.GeneratedTask, error) {
	return s.tasks, nil
}

// HandlerTestSuite drives the full router against an in-memory SQLite database
type HandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

// SetupTest runs before each test
func (suite *HandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = database.Open(sqlite.Open(":memory:?_foreign_keys=on"), nil)
	suite.Require().NoError(err)

	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	suite.Require().NoError(database.Migrate(suite.db))

	suite.router = suite.newRouter(nil)
}

// TearDownTest runs after each test
func (suite *HandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *HandlerTestSuite) newRouter(suggester services.TaskSuggester) *gin.Engine {
	gin.SetMode(gin.TestMode)

	resolver := services.NewCategoryResolver(nil)
	router := gin.New()
	RegisterRoutes(router,
		NewTaskHandler(services.NewTaskService(suite.db, resolver, suggester)),
		NewCategoryHandler(services.NewCategoryService(suite.db, resolver)),
	)
	return router
}

func (suite *HandlerTestSuite) do(method, url string, body interface{}) *httptest.ResponseRecorder {
	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, url, nil)
	case string:
		req = httptest.NewRequest(method, url, bytes.NewBufferString(b))
		req.Header.Set("Content-Type", "application/json")
	default:
		raw, err := json.Marshal(b)
		suite.Require().NoError(err)
		req = httptest.NewRequest(method, url, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) decode(w *httptest.ResponseRecorder, v interface{}) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), v))
}

func (suite *HandlerTestSuite) createTask(body gin.H) dto.TaskDTO {
	w := suite.do(http.MethodPost, "/tasks", body)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var task dto.TaskDTO
	suite.decode(w, &task)
	return task
}

func (suite *HandlerTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.JSONEq(suite.T(), `{"status":"ok"}`, w.Body.String())
}

// Test CreateTask

func (suite *HandlerTestSuite) TestCreateTask_ReusesCategoryByNormalizedName() {
	first := suite.createTask(gin.H{"title": "Pay rent", "category_name": "finance"})
	second := suite.createTask(gin.H{"title": "File taxes", "category_name": "FINANCE"})

	assert.NotZero(suite.T(), first.ID)
	assert.NotZero(suite.T(), first.CategoryID)
	assert.Equal(suite.T(), first.CategoryID, second.CategoryID)
	assert.False(suite.T(), first.Completed)
	assert.False(suite.T(), first.CreatedAt.IsZero())

	var categories []models.Category
	suite.db.Find(&categories)
	suite.Require().Len(categories, 1)
	assert.Equal(suite.T(), "Finance", categories[0].Name)
}

func (suite *HandlerTestSuite) TestCreateTask_WithDueDate() {
	task := suite.createTask(gin.H{
		"title":         "Dentist",
		"description":   "Annual checkup",
		"due_date":      "2030-05-01T09:30:00Z",
		"category_name": "health",
	})

	suite.Require().NotNil(task.DueDate)
	assert.True(suite.T(), task.DueDate.Equal(time.Date(2030, 5, 1, 9, 30, 0, 0, time.UTC)))
	assert.Equal(suite.T(), "Annual checkup", task.Description)
}

func (suite *HandlerTestSuite) TestCreateTask_MissingTitle() {
	w := suite.do(http.MethodPost, "/tasks", gin.H{"category_name": "work"})

	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code)
	var apiErr apierrors.APIError
	suite.decode(w, &apiErr)
	assert.Equal(suite.T(), apierrors.ErrCodeValidationError, apiErr.Code)
}

func (suite *HandlerTestSuite) TestCreateTask_MissingCategory() {
	w := suite.do(http.MethodPost, "/tasks", gin.H{"title": "Orphan"})

	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "category_name")

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	assert.Zero(suite.T(), count)
}

func (suite *HandlerTestSuite) TestCreateTask_MalformedJSON() {
	w := suite.do(http.MethodPost, "/tasks", `{"title": `)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	var apiErr apierrors.APIError
	suite.decode(w, &apiErr)
	assert.Equal(suite.T(), apierrors.ErrCodeInvalidInput, apiErr.Code)
}

// Test ListTasks

func (suite *HandlerTestSuite) TestListTasks_Filters() {
	suite.createTask(gin.H{"title": "A", "category_name": "work", "due_date": "2030-01-10T00:00:00Z"})
	suite.createTask(gin.H{"title": "B", "category_name": "work", "due_date": "2030-01-20T15:00:00Z"})
	suite.createTask(gin.H{"title": "C", "category_name": "home"})
	d := suite.createTask(gin.H{"title": "D", "category_name": "work", "due_date": "2030-01-20T08:00:00Z"})

	w := suite.do(http.MethodPut, fmt.Sprintf("/tasks/%d", d.ID), gin.H{"completed": true})
	suite.Require().Equal(http.StatusOK, w.Code)

	testCases := []struct {
		name     string
		query    string
		expected []string
	}{
		{name: "no filters", query: "", expected: []string{"A", "B", "C", "D"}},
		{name: "completed", query: "?completed=true", expected: []string{"D"}},
		{name: "not completed", query: "?completed=false", expected: []string{"A", "B", "C"}},
		{name: "category normalized", query: "?category_name=WORK", expected: []string{"A", "B", "D"}},
		{name: "unknown category", query: "?category_name=garden", expected: []string{}},
		{name: "from bound excludes null due dates", query: "?due_date_from=2030-01-15", expected: []string{"B", "D"}},
		{name: "date-only upper bound covers the day", query: "?due_date_to=2030-01-20", expected: []string{"A", "B", "D"}},
		{name: "composed", query: "?category_name=work&completed=false&due_date_from=2030-01-15T00:00:00Z", expected: []string{"B"}},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			w := suite.do(http.MethodGet, "/tasks"+tc.query, nil)
			suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

			var tasks []dto.TaskDTO
			suite.decode(w, &tasks)
			titles := make([]string, 0, len(tasks))
			for _, task := range tasks {
				titles = append(titles, task.Title)
			}
			assert.Equal(suite.T(), tc.expected, titles)
		})
	}

	var categories []models.Category
	suite.db.Find(&categories)
	assert.Len(suite.T(), categories, 2, "filtering by an unknown category must not create it")
}

func (suite *HandlerTestSuite) TestListTasks_InvalidParams() {
	for _, query := range []string{"?completed=maybe", "?due_date_from=yesterday", "?due_date_to=2030-13-01"} {
		w := suite.do(http.MethodGet, "/tasks"+query, nil)
		assert.Equal(suite.T(), http.StatusBadRequest, w.Code, query)
	}
}

// Test GetTask

func (suite *HandlerTestSuite) TestGetTask() {
	created := suite.createTask(gin.H{"title": "Read", "category_name": "education"})

	w := suite.do(http.MethodGet, fmt.Sprintf("/tasks/%d", created.ID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var task dto.TaskDTO
	suite.decode(w, &task)
	assert.Equal(suite.T(), created.ID, task.ID)
	assert.Equal(suite.T(), "Read", task.Title)
}

func (suite *HandlerTestSuite) TestGetTask_NotFound() {
	w := suite.do(http.MethodGet, "/tasks/999", nil)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
	var apiErr apierrors.APIError
	suite.decode(w, &apiErr)
	assert.Equal(suite.T(), apierrors.ErrCodeNotFound, apiErr.Code)
}

func (suite *HandlerTestSuite) TestGetTask_InvalidID() {
	w := suite.do(http.MethodGet, "/tasks/abc", nil)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "Invalid task ID")
}

// Test UpdateTask

func (suite *HandlerTestSuite) TestUpdateTask_OnlyCompleted() {
	created := suite.createTask(gin.H{
		"title":         "Gym",
		"description":   "Leg day",
		"due_date":      "2030-02-01T07:00:00Z",
		"category_name": "fitness",
	})

	w := suite.do(http.MethodPut, fmt.Sprintf("/tasks/%d", created.ID), gin.H{"completed": true})
	suite.Require().Equal(http.StatusOK, w.Code)

	var task dto.TaskDTO
	suite.decode(w, &task)
	assert.True(suite.T(), task.Completed)
	assert.Equal(suite.T(), "Gym", task.Title)
	assert.Equal(suite.T(), "Leg day", task.Description)
	assert.Equal(suite.T(), created.CategoryID, task.CategoryID)
	suite.Require().NotNil(task.DueDate)
	assert.True(suite.T(), task.DueDate.Equal(*created.DueDate))
}

func (suite *HandlerTestSuite) TestUpdateTask_EmptyBody() {
	created := suite.createTask(gin.H{"title": "Same", "category_name": "personal"})

	w := suite.do(http.MethodPut, fmt.Sprintf("/tasks/%d", created.ID), gin.H{})
	suite.Require().Equal(http.StatusOK, w.Code)

	var task dto.TaskDTO
	suite.decode(w, &task)
	assert.Equal(suite.T(), created.Title, task.Title)
	assert.Equal(suite.T(), created.CategoryID, task.CategoryID)
	assert.Equal(suite.T(), created.Completed, task.Completed)
}

func (suite *HandlerTestSuite) TestUpdateTask_ChangeCategoryAndClearDueDate() {
	created := suite.createTask(gin.H{
		"title":         "Flight",
		"due_date":      "2030-03-01T10:00:00Z",
		"category_name": "work",
	})

	w := suite.do(http.MethodPut, fmt.Sprintf("/tasks/%d", created.ID), `{"due_date": null, "category_name": "travel"}`)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var task dto.TaskDTO
	suite.decode(w, &task)
	assert.Nil(suite.T(), task.DueDate)
	assert.NotEqual(suite.T(), created.CategoryID, task.CategoryID)

	var category models.Category
	suite.Require().NoError(suite.db.First(&category, task.CategoryID).Error)
	assert.Equal(suite.T(), "Travel", category.Name)
}

func (suite *HandlerTestSuite) TestUpdateTask_EmptyTitle() {
	created := suite.createTask(gin.H{"title": "Keep", "category_name": "work"})

	w := suite.do(http.MethodPut, fmt.Sprintf("/tasks/%d", created.ID), gin.H{"title": ""})

	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "title")
}

func (suite *HandlerTestSuite) TestUpdateTask_NotFound() {
	w := suite.do(http.MethodPut, "/tasks/42", gin.H{"completed": true})

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// Test DeleteTask

func (suite *HandlerTestSuite) TestDeleteTask() {
	created := suite.createTask(gin.H{"title": "Trash", "category_name": "work"})

	w := suite.do(http.MethodDelete, fmt.Sprintf("/tasks/%d", created.ID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var resp dto.DeleteTaskResponse
	suite.decode(w, &resp)
	assert.Equal(suite.T(), "Task deleted successfully", resp.Message)
	assert.Equal(suite.T(), created.ID, resp.TaskID)

	w = suite.do(http.MethodGet, fmt.Sprintf("/tasks/%d", created.ID), nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteTask_NotFound() {
	w := suite.do(http.MethodDelete, "/tasks/7", nil)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// Test GenerateTasks

func (suite *HandlerTestSuite) TestGenerateTasks_NotConfigured() {
	w := suite.do(http.MethodPost, "/tasks/generate", gin.H{"text": "buy milk tomorrow"})

	assert.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)
}

func (suite *HandlerTestSuite) TestGenerateTasks() {
	suite.router = suite.newRouter(stubSuggester{tasks: []services.GeneratedTask{
		{Title: "Buy milk", CategoryName: "shopping"},
	}})

	w := suite.do(http.MethodPost, "/tasks/generate", gin.H{"text": "buy milk tomorrow"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Tasks []services.GeneratedTask `json:"tasks"`
	}
	suite.decode(w, &resp)
	suite.Require().Len(resp.Tasks, 1)
	assert.Equal(suite.T(), "Buy milk", resp.Tasks[0].Title)

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	assert.Zero(suite.T(), count, "suggestions are not persisted")
}

func (suite *HandlerTestSuite) TestGenerateTasks_MissingText() {
	w := suite.do(http.MethodPost, "/tasks/generate", gin.H{})

	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code)
}

// Test categories

func (suite *HandlerTestSuite) TestCreateCategory_Validation() {
	testCases := []struct {
		name   string
		body   gin.H
		status int
		field  string
	}{
		{name: "too short", body: gin.H{"name": "ab"}, status: http.StatusUnprocessableEntity, field: "name"},
		{name: "digits", body: gin.H{"name": "Team1"}, status: http.StatusUnprocessableEntity, field: "name"},
		{name: "missing", body: gin.H{}, status: http.StatusUnprocessableEntity, field: "name"},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			w := suite.do(http.MethodPost, "/categories", tc.body)
			assert.Equal(suite.T(), tc.status, w.Code)

			var resp struct {
				Code    string `json:"code"`
				Details []struct {
					Field  string `json:"field"`
					Reason string `json:"reason"`
				} `json:"details"`
			}
			suite.decode(w, &resp)
			assert.Equal(suite.T(), apierrors.ErrCodeValidationError, resp.Code)
			suite.Require().NotEmpty(resp.Details)
			assert.Equal(suite.T(), tc.field, resp.Details[0].Field)
		})
	}
}

func (suite *HandlerTestSuite) TestCreateCategory_TitleCasesAndDeduplicates() {
	w := suite.do(http.MethodPost, "/categories", gin.H{"name": "team"})
	suite.Require().Equal(http.StatusOK, w.Code)

	var first dto.CategoryDTO
	suite.decode(w, &first)
	assert.Equal(suite.T(), "Team", first.Name)

	w = suite.do(http.MethodPost, "/categories", gin.H{"name": "TEAM"})
	suite.Require().Equal(http.StatusOK, w.Code)

	var second dto.CategoryDTO
	suite.decode(w, &second)
	assert.Equal(suite.T(), first.ID, second.ID)
}

func (suite *HandlerTestSuite) TestListCategories() {
	w := suite.do(http.MethodGet, "/categories", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.JSONEq(suite.T(), `[]`, w.Body.String())

	suite.do(http.MethodPost, "/categories", gin.H{"name": "work"})
	suite.do(http.MethodPost, "/categories", gin.H{"name": "home"})

	w = suite.do(http.MethodGet, "/categories", nil)
	var categories []dto.CategoryDTO
	suite.decode(w, &categories)
	suite.Require().Len(categories, 2)
	assert.Equal(suite.T(), "Work", categories[0].Name)
	assert.Equal(suite.T(), "Home", categories[1].Name)
}

func (suite *HandlerTestSuite) TestDeleteCategory_InUse() {
	task := suite.createTask(gin.H{"title": "Budget", "category_name": "finance"})

	w := suite.do(http.MethodDelete, fmt.Sprintf("/categories/%d", task.CategoryID), nil)
	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	var apiErr apierrors.APIError
	suite.decode(w, &apiErr)
	assert.Equal(suite.T(), apierrors.ErrCodeConflict, apiErr.Code)

	w = suite.do(http.MethodDelete, fmt.Sprintf("/tasks/%d", task.ID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodDelete, fmt.Sprintf("/categories/%d", task.CategoryID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var resp dto.DeleteCategoryResponse
	suite.decode(w, &resp)
	assert.Equal(suite.T(), "Category deleted successfully", resp.Message)
	assert.Equal(suite.T(), task.CategoryID, resp.CategoryID)
}

func (suite *HandlerTestSuite) TestDeleteCategory_NotFound() {
	w := suite.do(http.MethodDelete, "/categories/404", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	w = suite.do(http.MethodDelete, "/categories/zero", nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestHandlerTestSuite runs the test suite
func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
