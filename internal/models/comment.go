package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentModel is a reader note embedded in a post. Its id only serves as a
// stable rendering key; comments are addressed by position and never edited.
type CommentModel struct {
	ID        primitive.ObjectID `json:"_id"       bson:"_id"`
	Author    string             `json:"author"    bson:"author"`
	Content   string             `json:"content"   bson:"content"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
