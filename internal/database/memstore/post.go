package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jbest-eyes/core/internal/database"
	"github.com/jbest-eyes/core/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostStore struct {
	mu    sync.RWMutex
	items map[primitive.ObjectID]models.PostModel
}

func NewPostStore() *PostStore {
	return &PostStore{items: map[primitive.ObjectID]models.PostModel{}}
}

// clone detaches the slices so callers never alias stored state.
func clone(p models.PostModel) models.PostModel {
	p.Tags = append([]string{}, p.Tags...)
	p.Comments = append([]models.CommentModel{}, p.Comments...)
	p.Category = nil
	return p
}

func matches(p models.PostModel, f models.PostFilter) bool {
	if !f.CategoryID.IsZero() && p.CategoryID != f.CategoryID {
		return false
	}
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Content), term)
}

func sortNewestFirst(items []models.PostModel) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID.Hex() > items[j].ID.Hex()
	})
}

func (s *PostStore) List(ctx context.Context, f models.PostFilter) ([]models.PostModel, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]models.PostModel, 0, len(s.items))
	for _, p := range s.items {
		if matches(p, f) {
			all = append(all, clone(p))
		}
	}
	sortNewestFirst(all)

	total := int64(len(all))
	start := f.Skip
	if start < 0 || start > total {
		start = total
	}
	end := total
	if f.Limit > 0 && start+f.Limit < end {
		end = start + f.Limit
	}
	return all[start:end], total, nil
}

func (s *PostStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.PostModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.items[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	p = clone(p)
	return &p, nil
}

func (s *PostStore) IncrementViewCount(ctx context.Context, id primitive.ObjectID) (*models.PostModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	p.ViewCount++
	s.items[id] = p
	p = clone(p)
	return &p, nil
}

func (s *PostStore) Insert(ctx context.Context, post *models.PostModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	post.Stamp(time.Now())
	if _, exists := s.items[post.ID]; exists {
		return database.ErrDuplicate
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if post.Comments == nil {
		post.Comments = []models.CommentModel{}
	}
	s.items[post.ID] = clone(*post)
	return nil
}

func (s *PostStore) Update(ctx context.Context, post *models.PostModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.items[post.ID]
	if !ok {
		return database.ErrNotFound
	}
	current.Title = post.Title
	current.Content = post.Content
	current.Excerpt = post.Excerpt
	current.FeaturedImage = post.FeaturedImage
	current.CategoryID = post.CategoryID
	current.Tags = append([]string{}, post.Tags...)
	current.IsPublished = post.IsPublished
	current.UpdatedAt = time.Now()
	s.items[post.ID] = current
	post.UpdatedAt = current.UpdatedAt
	return nil
}

func (s *PostStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return database.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *PostStore) PushComment(ctx context.Context, id primitive.ObjectID, comment models.CommentModel) (*models.PostModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	p.Comments = append(clone(p).Comments, comment)
	p.UpdatedAt = time.Now()
	s.items[id] = p
	p = clone(p)
	return &p, nil
}

func (s *PostStore) ListByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.PostModel, error) {
	items, _, err := s.List(ctx, models.PostFilter{CategoryID: categoryID})
	return items, err
}

func (s *PostStore) CountByCategory(ctx context.Context) (map[primitive.ObjectID]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := map[primitive.ObjectID]int{}
	for _, p := range s.items {
		counts[p.CategoryID]++
	}
	return counts, nil
}

func (s *PostStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = map[primitive.ObjectID]models.PostModel{}
	return nil
}
