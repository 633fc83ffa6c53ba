package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jbest-eyes/core/internal/database"
	"github.com/jbest-eyes/core/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CategoryStore struct {
	mu    sync.RWMutex
	items map[primitive.ObjectID]models.CategoryModel

	// Fail, when set, is returned by every read. Tests use it to simulate
	// an unreachable database.
	Fail error
}

func NewCategoryStore() *CategoryStore {
	return &CategoryStore{items: map[primitive.ObjectID]models.CategoryModel{}}
}

func (s *CategoryStore) List(ctx context.Context) ([]models.CategoryModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	items := make([]models.CategoryModel, 0, len(s.items))
	for _, cat := range s.items {
		items = append(items, cat)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (s *CategoryStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.CategoryModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	cat, ok := s.items[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &cat, nil
}

func (s *CategoryStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.CategoryModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	var items []models.CategoryModel
	for _, id := range ids {
		if cat, ok := s.items[id]; ok {
			items = append(items, cat)
		}
	}
	return items, nil
}

func (s *CategoryStore) NameTaken(ctx context.Context, name string, exceptID primitive.ObjectID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nameTakenLocked(name, exceptID), nil
}

func (s *CategoryStore) nameTakenLocked(name string, exceptID primitive.ObjectID) bool {
	for id, cat := range s.items {
		if id != exceptID && cat.Name == name {
			return true
		}
	}
	return false
}

func (s *CategoryStore) Insert(ctx context.Context, cat *models.CategoryModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nameTakenLocked(cat.Name, primitive.NilObjectID) {
		return database.ErrDuplicate
	}
	cat.Stamp(time.Now())
	s.items[cat.ID] = *cat
	return nil
}

func (s *CategoryStore) Update(ctx context.Context, cat *models.CategoryModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.items[cat.ID]
	if !ok {
		return database.ErrNotFound
	}
	if s.nameTakenLocked(cat.Name, cat.ID) {
		return database.ErrDuplicate
	}
	current.Name = cat.Name
	current.Description = cat.Description
	current.Color = cat.Color
	current.UpdatedAt = time.Now()
	s.items[cat.ID] = current
	*cat = current
	return nil
}

func (s *CategoryStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return database.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *CategoryStore) IncrementPostCount(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cat, ok := s.items[id]; ok {
		cat.PostCount++
		s.items[id] = cat
	}
	return nil
}

func (s *CategoryStore) DecrementPostCount(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cat, ok := s.items[id]; ok && cat.PostCount > 0 {
		cat.PostCount--
		s.items[id] = cat
	}
	return nil
}

func (s *CategoryStore) SetPostCounts(ctx context.Context, counts map[primitive.ObjectID]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, cat := range s.items {
		cat.PostCount = counts[id]
		s.items[id] = cat
	}
	return nil
}

func (s *CategoryStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = map[primitive.ObjectID]models.CategoryModel{}
	return nil
}
