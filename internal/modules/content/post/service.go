package post

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/jbest-eyes/core/internal/database"
	"github.com/jbest-eyes/core/internal/models"
	"github.com/jbest-eyes/core/internal/pkg/apperr"
	"github.com/jbest-eyes/core/internal/pkg/pagination"
	"github.com/jbest-eyes/core/internal/pkg/response"
	"github.com/jbest-eyes/core/internal/pkg/validate"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	excerptRunes  = 150
	excerptSuffix = "..."

	msgPostNotFound     = "Post not found"
	msgCategoryNotFound = "Category not found"
	msgInvalidCategory  = "Invalid category ID"
	msgCommentMissing   = "Please provide author and content for the comment"
)

// Repository is the post persistence the service needs.
type Repository interface {
	List(ctx context.Context, f models.PostFilter) ([]models.PostModel, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.PostModel, error)
	IncrementViewCount(ctx context.Context, id primitive.ObjectID) (*models.PostModel, error)
	Insert(ctx context.Context, post *models.PostModel) error
	Update(ctx context.Context, post *models.PostModel) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	PushComment(ctx context.Context, id primitive.ObjectID, comment models.CommentModel) (*models.PostModel, error)
}

// Categories resolves and counts the categories posts belong to.
type Categories interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.CategoryModel, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.CategoryModel, error)
	IncrementPostCount(ctx context.Context, id primitive.ObjectID) error
	DecrementPostCount(ctx context.Context, id primitive.ObjectID) error
}

// Options tunes counter maintenance.
type Options struct {
	// RebalanceOnReassign moves one count from the old category to the new
	// one when an update changes a post's category.
	RebalanceOnReassign bool
}

// Service handles post business logic and keeps category counters in step
// with post creation and deletion.
type Service struct {
	repo       Repository
	categories Categories
	tx         database.Transactor
	atomic     bool
	opts       Options
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires the service. A nil tx runs the post write and the counter
// update as two independent steps; a failed counter update is then logged
// and the post write stays committed.
func NewService(repo Repository, categories Categories, tx database.Transactor, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		repo:       repo,
		categories: categories,
		tx:         tx,
		atomic:     tx != nil,
		opts:       opts,
		logger:     logger.Named("PostService"),
		now:        time.Now,
	}
	if s.tx == nil {
		s.tx = database.Direct
	}
	return s
}

// DeriveExcerpt returns the first 150 characters of content followed by "...".
func DeriveExcerpt(content string) string {
	if utf8.RuneCountInString(content) <= excerptRunes {
		return content + excerptSuffix
	}
	runes := []rune(content)
	return string(runes[:excerptRunes]) + excerptSuffix
}

// List returns one page of posts, newest first, with categories populated.
func (s *Service) List(ctx context.Context, q pagination.Query, lq ListQuery) ([]models.PostModel, response.Pagination, error) {
	filter := models.PostFilter{
		Search: lq.Search,
		Skip:   q.Skip(),
		Limit:  int64(q.Limit),
	}
	if lq.Category != "" {
		id, err := primitive.ObjectIDFromHex(lq.Category)
		if err != nil {
			return nil, response.Pagination{}, apperr.Field("category", msgInvalidCategory)
		}
		filter.CategoryID = id
	}

	posts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, response.Pagination{}, fmt.Errorf("list posts: %w", err)
	}
	if err := s.populate(ctx, posts); err != nil {
		return nil, response.Pagination{}, err
	}
	return posts, q.Meta(total), nil
}

// Get returns a post and counts the read. Every call increments viewCount,
// so two calls for the same id add two views.
func (s *Service) Get(ctx context.Context, id string) (*models.PostModel, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound(msgPostNotFound)
	}
	post, err := s.repo.IncrementViewCount(ctx, oid)
	if err != nil {
		return nil, s.wrapLookup(err, "get post")
	}
	if err := s.populateOne(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Create validates dto, stores the post and increments its category's counter.
func (s *Service) Create(ctx context.Context, dto *PostDTO) (*models.PostModel, error) {
	dto.normalize()
	if err := validate.Struct(dto); err != nil {
		return nil, err
	}
	cat, err := s.resolveCategory(ctx, dto.Category)
	if err != nil {
		return nil, err
	}

	post := &models.PostModel{
		Title:       dto.Title,
		Content:     dto.Content,
		CategoryID:  cat.ID,
		Tags:        dto.Tags,
		IsPublished: true,
		Comments:    []models.CommentModel{},
	}
	if dto.Excerpt != nil {
		post.Excerpt = *dto.Excerpt
	}
	if post.Excerpt == "" {
		post.Excerpt = DeriveExcerpt(post.Content)
	}
	if dto.FeaturedImage != nil {
		post.FeaturedImage = *dto.FeaturedImage
	}
	if dto.IsPublished != nil {
		post.IsPublished = *dto.IsPublished
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Insert(ctx, post); err != nil {
			return fmt.Errorf("insert post: %w", err)
		}
		return s.counterStep(ctx, "increment", post, s.categories.IncrementPostCount, cat.ID)
	})
	if err != nil {
		return nil, err
	}

	post.Category = cat
	return post, nil
}

// Update replaces the post's fields. The excerpt is never re-derived.
func (s *Service) Update(ctx context.Context, id string, dto *PostDTO) (*models.PostModel, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound(msgPostNotFound)
	}
	dto.normalize()
	if err := validate.Struct(dto); err != nil {
		return nil, err
	}

	post, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, s.wrapLookup(err, "find post")
	}
	cat, err := s.resolveCategory(ctx, dto.Category)
	if err != nil {
		return nil, err
	}

	previous := post.CategoryID
	post.Title = dto.Title
	post.Content = dto.Content
	post.CategoryID = cat.ID
	if dto.Excerpt != nil {
		post.Excerpt = *dto.Excerpt
	}
	if dto.FeaturedImage != nil {
		post.FeaturedImage = *dto.FeaturedImage
	}
	if dto.Tags != nil {
		post.Tags = dto.Tags
	}
	if dto.IsPublished != nil {
		post.IsPublished = *dto.IsPublished
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, post); err != nil {
			return s.wrapLookup(err, "update post")
		}
		if !s.opts.RebalanceOnReassign || previous == cat.ID {
			return nil
		}
		if err := s.counterStep(ctx, "decrement", post, s.categories.DecrementPostCount, previous); err != nil {
			return err
		}
		return s.counterStep(ctx, "increment", post, s.categories.IncrementPostCount, cat.ID)
	})
	if err != nil {
		return nil, err
	}

	post.Category = cat
	return post, nil
}

// Delete decrements the post's category counter and then removes the post.
func (s *Service) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.NotFound(msgPostNotFound)
	}
	post, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return s.wrapLookup(err, "find post")
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if !post.CategoryID.IsZero() {
			if err := s.categories.DecrementPostCount(ctx, post.CategoryID); err != nil {
				return fmt.Errorf("decrement category post count: %w", err)
			}
		}
		if err := s.repo.Delete(ctx, oid); err != nil {
			return s.wrapLookup(err, "delete post")
		}
		return nil
	})
}

// AddComment appends one comment to the end of the post's comment list.
func (s *Service) AddComment(ctx context.Context, id string, dto *CommentDTO) (*models.PostModel, error) {
	dto.normalize()
	if err := validate.Struct(dto); err != nil {
		if dto.Author == "" || dto.Content == "" {
			return nil, apperr.Invalid(msgCommentMissing, apperr.FieldsOf(err)...)
		}
		return nil, err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound(msgPostNotFound)
	}

	comment := models.CommentModel{
		ID:        primitive.NewObjectID(),
		Author:    dto.Author,
		Content:   dto.Content,
		CreatedAt: s.now(),
	}
	post, err := s.repo.PushComment(ctx, oid, comment)
	if err != nil {
		return nil, s.wrapLookup(err, "add comment")
	}
	if err := s.populateOne(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// counterStep runs one category counter update. Outside a transaction a
// failure is logged and swallowed because the post write already committed.
func (s *Service) counterStep(ctx context.Context, op string, post *models.PostModel, fn func(context.Context, primitive.ObjectID) error, categoryID primitive.ObjectID) error {
	err := fn(ctx, categoryID)
	if err == nil {
		return nil
	}
	if s.atomic {
		return fmt.Errorf("%s category post count: %w", op, err)
	}
	s.logger.Warn("category post count update failed",
		zap.String("op", op),
		zap.String("post", post.HexID()),
		zap.String("category", categoryID.Hex()),
		zap.Error(err),
	)
	return nil
}

func (s *Service) resolveCategory(ctx context.Context, hex string) (*models.CategoryModel, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, apperr.Field("category", msgInvalidCategory)
	}
	cat, err := s.categories.FindByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.Field("category", msgCategoryNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	return cat, nil
}

func (s *Service) wrapLookup(err error, op string) error {
	if errors.Is(err, database.ErrNotFound) {
		return apperr.NotFound(msgPostNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Service) populateOne(ctx context.Context, post *models.PostModel) error {
	posts := []models.PostModel{*post}
	if err := s.populate(ctx, posts); err != nil {
		return err
	}
	post.Category = posts[0].Category
	return nil
}

// populate attaches each post's category in a single lookup.
func (s *Service) populate(ctx context.Context, posts []models.PostModel) error {
	if len(posts) == 0 {
		return nil
	}
	seen := map[primitive.ObjectID]bool{}
	ids := make([]primitive.ObjectID, 0, len(posts))
	for _, p := range posts {
		if !p.CategoryID.IsZero() && !seen[p.CategoryID] {
			seen[p.CategoryID] = true
			ids = append(ids, p.CategoryID)
		}
	}
	cats, err := s.categories.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("populate categories: %w", err)
	}
	byID := make(map[primitive.ObjectID]*models.CategoryModel, len(cats))
	for i := range cats {
		byID[cats[i].ID] = &cats[i]
	}
	for i := range posts {
		posts[i].Category = byID[posts[i].CategoryID]
	}
	return nil
}
