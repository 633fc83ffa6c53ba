package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jbest-eyes/core/internal/config"
	"github.com/jbest-eyes/core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DB bundles the Mongo client with the selected database.
type DB struct {
	Client *mongo.Client
	*mongo.Database
}

// Connect opens a MongoDB connection and verifies it with a ping.
func Connect(ctx context.Context, cfg config.DatabaseRuntimeConfig) (*DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.URIValue()).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout)

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return &DB{Client: client, Database: client.Database(cfg.DatabaseName())}, nil
}

// Ping reports whether the primary is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (db *DB) Close(ctx context.Context) error {
	return db.Client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the stores rely on. Category names are
// unique; posts are listed newest first and looked up by category.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(models.CategoryModel{}.CollectionName()).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create category indexes: %w", err)
	}

	_, err = db.Collection(models.PostModel{}.CollectionName()).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create post indexes: %w", err)
	}
	return nil
}
