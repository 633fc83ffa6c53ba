package models

// DefaultCategoryColor is applied when a category is created without a color.
const DefaultCategoryColor = "#3B82F6"

// CategoryModel is a named grouping with a display color. PostCount is a
// denormalized counter maintained by post create/delete, never recomputed on read.
type CategoryModel struct {
	Base        `bson:",inline"`
	Name        string `json:"name"        bson:"name"`
	Description string `json:"description" bson:"description,omitempty"`
	Color       string `json:"color"       bson:"color"`
	PostCount   int    `json:"postCount"   bson:"postCount"`
}

func (CategoryModel) CollectionName() string { return "categories" }
