package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Base is the base document for all entities.
// ID keeps the MongoDB ObjectID so hex ids stay compatible with existing clients.
type Base struct {
	ID        primitive.ObjectID `json:"_id"       bson:"_id,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Stamp assigns an id on first save and refreshes the timestamps.
func (b *Base) Stamp(now time.Time) {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// HexID returns the id in its 24-char hex form.
func (b Base) HexID() string { return b.ID.Hex() }
