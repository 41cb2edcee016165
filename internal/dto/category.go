package dto

import (
	"github.com/yukikurage/task-category-api/internal/models"
	"github.com/yukikurage/task-category-api/internal/validation"
)

// CreateCategoryRequest is the body of POST /categories
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=3,alphaunicode"`
}

// Normalize title-cases the validated name
func (r *CreateCategoryRequest) Normalize() {
	r.Name = validation.TitleCase(r.Name)
}

// CategoryDTO represents a category in API responses
type CategoryDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// DeleteCategoryResponse confirms a category deletion
type DeleteCategoryResponse struct {
	Message    string `json:"message"`
	CategoryID uint64 `json:"category_id"`
}

// ToCategoryDTO converts a Category model to CategoryDTO
func ToCategoryDTO(category models.Category) CategoryDTO {
	return CategoryDTO{
		ID:   category.ID,
		Name: category.Name,
	}
}

// ToCategoryDTOs converts a slice of categories, never returning nil
func ToCategoryDTOs(categories []models.Category) []CategoryDTO {
	items := make([]CategoryDTO, len(categories))
	for i, category := range categories {
		items[i] = ToCategoryDTO(category)
	}
	return items
}
