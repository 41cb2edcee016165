package middleware

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/task-category-api/internal/errors"
	"github.com/yukikurage/task-category-api/internal/utils"
)

const contextKeyID = "resource_id"

// RequireIDParam parses the :id URL parameter and stores it in the context.
// Requests with a non-numeric id are rejected with 400 before reaching the
// handler.
func RequireIDParam(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := utils.ParseID(c.Param("id"))
		if err != nil {
			apierrors.BadRequest(c, "Invalid "+resource+" ID")
			c.Abort()
			return
		}

		c.Set(contextKeyID, id)
		c.Next()
	}
}

// GetID retrieves the ID stored by RequireIDParam
func GetID(c *gin.Context) (uint64, bool) {
	value, exists := c.Get(contextKeyID)
	if !exists {
		return 0, false
	}

	id, ok := value.(uint64)
	return id, ok
}
