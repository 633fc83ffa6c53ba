package category

import (
	"strings"
	"time"

	"github.com/jbest-eyes/core/internal/models"
	"github.com/jbest-eyes/core/internal/modules/content/post"
)

// CategoryDTO is the request body for creating and updating a category.
// Description and color are left unchanged on update when omitted.
type CategoryDTO struct {
	Name        string  `json:"name"        validate:"required,max=50"  label:"Category name"`
	Description *string `json:"description" validate:"omitempty,max=200" label:"Description"`
	Color       *string `json:"color"       validate:"omitempty,hexrgb" label:"Color"`
}

func (d *CategoryDTO) normalize() {
	d.Name = strings.TrimSpace(d.Name)
	if d.Description != nil {
		trimmed := strings.TrimSpace(*d.Description)
		d.Description = &trimmed
	}
	if d.Color != nil {
		trimmed := strings.TrimSpace(*d.Color)
		d.Color = &trimmed
	}
}

// categoryResponse is the API shape of a category.
type categoryResponse struct {
	ID          string     `json:"_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Color       string     `json:"color"`
	PostCount   int        `json:"postCount"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// categoryDetail adds the posts referencing the category.
type categoryDetail struct {
	categoryResponse
	Posts []post.Response `json:"posts"`
}

func toResponse(cat *models.CategoryModel) categoryResponse {
	created, updated := cat.CreatedAt, cat.UpdatedAt
	return categoryResponse{
		ID:          cat.HexID(),
		Name:        cat.Name,
		Description: cat.Description,
		Color:       cat.Color,
		PostCount:   cat.PostCount,
		CreatedAt:   &created,
		UpdatedAt:   &updated,
	}
}

func toResponses(cats []models.CategoryModel) []categoryResponse {
	items := make([]categoryResponse, len(cats))
	for i := range cats {
		items[i] = toResponse(&cats[i])
	}
	return items
}

// fallbackCategories is served by the list endpoint when the store cannot be read.
var fallbackCategories = []categoryResponse{
	{ID: "1", Name: "Daily Life", Description: "Everyday experiences", Color: "#48bb78"},
	{ID: "2", Name: "Business Adventures", Description: "Entrepreneurial journeys", Color: "#ed8936"},
	{ID: "3", Name: "Coding Journey", Description: "Programming experiences", Color: "#667eea"},
	{ID: "4", Name: "Parenting Moments", Description: "Experiences raising children", Color: "#f56565"},
	{ID: "5", Name: "Nature Photography", Description: "Photos from nature", Color: "#38b2ac"},
}
