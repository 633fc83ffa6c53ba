package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// PostFilter selects a page of posts. Results are ordered newest first.
type PostFilter struct {
	CategoryID primitive.ObjectID // zero matches every category
	Search     string             // case-insensitive substring of title or content
	Skip       int64
	Limit      int64 // zero means no limit
}
