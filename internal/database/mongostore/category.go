package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/jbest-eyes/core/internal/database"
	"github.com/jbest-eyes/core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CategoryStore persists categories in the "categories" collection.
type CategoryStore struct {
	coll *mongo.Collection
}

func NewCategoryStore(db *mongo.Database) *CategoryStore {
	return &CategoryStore{coll: db.Collection(models.CategoryModel{}.CollectionName())}
}

func (s *CategoryStore) List(ctx context.Context) ([]models.CategoryModel, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	items := []models.CategoryModel{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *CategoryStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.CategoryModel, error) {
	var cat models.CategoryModel
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&cat); err != nil {
		return nil, translate(err)
	}
	return &cat, nil
}

func (s *CategoryStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.CategoryModel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var items []models.CategoryModel
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// NameTaken reports whether another category already uses name.
func (s *CategoryStore) NameTaken(ctx context.Context, name string, exceptID primitive.ObjectID) (bool, error) {
	filter := bson.M{"name": name}
	if !exceptID.IsZero() {
		filter["_id"] = bson.M{"$ne": exceptID}
	}
	n, err := s.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *CategoryStore) Insert(ctx context.Context, cat *models.CategoryModel) error {
	cat.Stamp(time.Now())
	_, err := s.coll.InsertOne(ctx, cat)
	return translate(err)
}

// Update replaces the editable fields. PostCount is owned by the counter
// operations and never written here.
func (s *CategoryStore) Update(ctx context.Context, cat *models.CategoryModel) error {
	cat.UpdatedAt = time.Now()
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": cat.ID}, categoryUpdate(cat))
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (s *CategoryStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

// IncrementPostCount adds one to the counter. A missing category is ignored.
func (s *CategoryStore) IncrementPostCount(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"postCount": 1}})
	return err
}

// DecrementPostCount subtracts one unless the counter is already zero.
func (s *CategoryStore) DecrementPostCount(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.coll.UpdateOne(ctx, decrementFilter(id), bson.M{"$inc": bson.M{"postCount": -1}})
	return err
}

// SetPostCounts overwrites every counter; categories absent from counts get 0.
func (s *CategoryStore) SetPostCounts(ctx context.Context, counts map[primitive.ObjectID]int) error {
	if _, err := s.coll.BulkWrite(ctx, postCountWrites(counts), options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("write post counts: %w", err)
	}
	return nil
}

// DeleteAll empties the collection. Used by the seed command.
func (s *CategoryStore) DeleteAll(ctx context.Context) error {
	_, err := s.coll.DeleteMany(ctx, bson.M{})
	return err
}

// categoryUpdate sets the editable fields and drops an emptied description.
func categoryUpdate(cat *models.CategoryModel) bson.M {
	set := bson.M{
		"name":      cat.Name,
		"color":     cat.Color,
		"updatedAt": cat.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if cat.Description != "" {
		set["description"] = cat.Description
	} else {
		update["$unset"] = bson.M{"description": ""}
	}
	return update
}

// decrementFilter only matches a category whose counter is above zero.
func decrementFilter(id primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "postCount": bson.M{"$gt": 0}}
}

// postCountWrites sets each counted category, then zeroes every other one.
func postCountWrites(counts map[primitive.ObjectID]int) []mongo.WriteModel {
	writes := make([]mongo.WriteModel, 0, len(counts)+1)
	ids := make([]primitive.ObjectID, 0, len(counts))
	for id, n := range counts {
		ids = append(ids, id)
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": id}).
			SetUpdate(bson.M{"$set": bson.M{"postCount": n}}))
	}
	return append(writes, mongo.NewUpdateManyModel().
		SetFilter(bson.M{"_id": bson.M{"$nin": ids}}).
		SetUpdate(bson.M{"$set": bson.M{"postCount": 0}}))
}
