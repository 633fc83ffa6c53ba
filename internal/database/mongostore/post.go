package mongostore

import (
	"context"
	"regexp"
	"time"

	"github.com/jbest-eyes/core/internal/database"
	"github.com/jbest-eyes/core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// PostStore persists posts and their embedded comments in "posts".
type PostStore struct {
	coll *mongo.Collection
}

func NewPostStore(db *mongo.Database) *PostStore {
	return &PostStore{coll: db.Collection(models.PostModel{}.CollectionName())}
}

func postFilter(f models.PostFilter) bson.M {
	filter := bson.M{}
	if !f.CategoryID.IsZero() {
		filter["category"] = f.CategoryID
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"content": re},
		}
	}
	return filter
}

// List returns one page of matching posts and the total number of matches.
func (s *PostStore) List(ctx context.Context, f models.PostFilter) ([]models.PostModel, int64, error) {
	filter := postFilter(f)

	opts := options.Find().SetSort(newestFirst)
	if f.Skip > 0 {
		opts.SetSkip(f.Skip)
	}
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}

	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	items := []models.PostModel{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, err
	}

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *PostStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.PostModel, error) {
	var post models.PostModel
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// IncrementViewCount bumps viewCount by one and returns the updated post.
func (s *PostStore) IncrementViewCount(ctx context.Context, id primitive.ObjectID) (*models.PostModel, error) {
	var post models.PostModel
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"viewCount": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (s *PostStore) Insert(ctx context.Context, post *models.PostModel) error {
	post.Stamp(time.Now())
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if post.Comments == nil {
		post.Comments = []models.CommentModel{}
	}
	_, err := s.coll.InsertOne(ctx, post)
	return translate(err)
}

// Update writes the editable fields. Counters and comments are untouched.
func (s *PostStore) Update(ctx context.Context, post *models.PostModel) error {
	post.UpdatedAt = time.Now()
	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": post.ID}, bson.M{"$set": bson.M{
		"title":         post.Title,
		"content":       post.Content,
		"excerpt":       post.Excerpt,
		"featuredImage": post.FeaturedImage,
		"category":      post.CategoryID,
		"tags":          tags,
		"isPublished":   post.IsPublished,
		"updatedAt":     post.UpdatedAt,
	}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (s *PostStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

// PushComment appends comment and returns the updated post.
func (s *PostStore) PushComment(ctx context.Context, id primitive.ObjectID, comment models.CommentModel) (*models.PostModel, error) {
	var post models.PostModel
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"comments": comment},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (s *PostStore) ListByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.PostModel, error) {
	cur, err := s.coll.Find(ctx, bson.M{"category": categoryID}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	items := []models.PostModel{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CountByCategory returns the number of posts referencing each category.
func (s *PostStore) CountByCategory(ctx context.Context) (map[primitive.ObjectID]int, error) {
	cur, err := s.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	counts := map[primitive.ObjectID]int{}
	for cur.Next(ctx) {
		var row struct {
			ID    primitive.ObjectID `bson:"_id"`
			Count int                `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.ID] = row.Count
	}
	return counts, cur.Err()
}

// DeleteAll empties the collection. Used by the seed command.
func (s *PostStore) DeleteAll(ctx context.Context) error {
	_, err := s.coll.DeleteMany(ctx, bson.M{})
	return err
}
