package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// PostModel is a blog post. It owns its comments; they have no existence outside it.
type PostModel struct {
	Base          `bson:",inline"`
	Title         string             `json:"title"         bson:"title"`
	Content       string             `json:"content"       bson:"content"`
	Excerpt       string             `json:"excerpt"       bson:"excerpt"`
	FeaturedImage string             `json:"featuredImage" bson:"featuredImage"`
	CategoryID    primitive.ObjectID `json:"categoryId"    bson:"category"`
	Tags          []string           `json:"tags"          bson:"tags"`
	IsPublished   bool               `json:"isPublished"   bson:"isPublished"`
	ViewCount     int                `json:"viewCount"     bson:"viewCount"`
	Comments      []CommentModel     `json:"comments"      bson:"comments"`

	// Category is populated on read and never persisted.
	Category *CategoryModel `json:"category,omitempty" bson:"-"`
}

func (PostModel) CollectionName() string { return "posts" }
