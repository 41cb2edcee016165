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
)

// CategoryHandler serves the /categories endpoints.
type CategoryHandler struct {
	categoryService *services.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// CreateCategory validates the name and returns the existing or new category
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	req.Normalize()

	category, err := h.categoryService.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryDTO(*category))
}

// ListCategories returns all categories
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryDTOs(categories))
}

// DeleteCategory deletes a category that no task references
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryID, ok := middleware.GetID(c)
	if !ok {
		apierrors.BadRequest(c, "Invalid category ID")
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), categoryID); err != nil {
		respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteCategoryResponse{
		Message:    "Category deleted successfully",
		CategoryID: categoryID,
	})
}

func respondCategoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCategoryNotFound):
		apierrors.NotFound(c, "Category not found")
	case errors.Is(err, services.ErrCategoryInUse):
		apierrors.Conflict(c, "Cannot delete category: it is still referenced by tasks")
	default:
		log.Printf("category request failed: %v", err)
		apierrors.InternalError(c, "")
	}
}
