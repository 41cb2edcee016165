package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-category-api/internal/middleware"
	"github.com/yukikurage/task-category-api/internal/validation"
)

// RegisterRoutes mounts every endpoint at the root of r.
func RegisterRoutes(r *gin.Engine, tasks *TaskHandler, categories *CategoryHandler) {
	validation.Register()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	taskRoutes := r.Group("/tasks")
	{
		taskRoutes.POST("", tasks.CreateTask)
		taskRoutes.GET("", tasks.ListTasks)
		taskRoutes.POST("/generate", tasks.GenerateTasks)
		taskRoutes.GET("/:id", middleware.RequireIDParam("task"), tasks.GetTask)
		taskRoutes.PUT("/:id", middleware.RequireIDParam("task"), tasks.UpdateTask)
		taskRoutes.DELETE("/:id", middleware.RequireIDParam("task"), tasks.DeleteTask)
	}

	categoryRoutes := r.Group("/categories")
	{
		categoryRoutes.POST("", categories.CreateCategory)
		categoryRoutes.GET("", categories.ListCategories)
		categoryRoutes.DELETE("/:id", middleware.RequireIDParam("category"), categories.DeleteCategory)
	}
}
