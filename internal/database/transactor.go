package database

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// Transactor runs fn so that every store write made with the supplied
// context commits or aborts together.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// TransactorFunc adapts a function to Transactor.
type TransactorFunc func(ctx context.Context, fn func(ctx context.Context) error) error

func (f TransactorFunc) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return f(ctx, fn)
}

// Direct runs fn without a transaction. Writes already made stay committed
// when a later step fails.
var Direct Transactor = TransactorFunc(func(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
})

// MongoTransactor runs fn inside a multi-document transaction. The server
// must be a replica set or sharded cluster.
type MongoTransactor struct {
	client *mongo.Client
}

func NewMongoTransactor(client *mongo.Client) *MongoTransactor {
	return &MongoTransactor{client: client}
}

func (t *MongoTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
