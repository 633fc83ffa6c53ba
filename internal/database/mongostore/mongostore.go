// Package mongostore implements the content stores on MongoDB.
package mongostore

import (
	"errors"

	"github.com/jbest-eyes/core/internal/database"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store groups the collection-backed stores of one database.
type Store struct {
	Categories *CategoryStore
	Posts      *PostStore
}

// New binds the stores to db.
func New(db *mongo.Database) *Store {
	return &Store{
		Categories: NewCategoryStore(db),
		Posts:      NewPostStore(db),
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return database.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return errors.Join(database.ErrDuplicate, err)
	}
	return err
}
