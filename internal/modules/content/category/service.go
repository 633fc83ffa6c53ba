package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/jbest-eyes/core/internal/database"
	"github.com/jbest-eyes/core/internal/models"
	"github.com/jbest-eyes/core/internal/pkg/apperr"
	"github.com/jbest-eyes/core/internal/pkg/validate"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	msgNotFound  = "Category not found"
	msgNameTaken = "Category name already exists"
	msgHasPosts  = "Cannot delete category with existing posts"
	fieldName    = "name"
)

// Repository is the category persistence the service needs.
type Repository interface {
	List(ctx context.Context) ([]models.CategoryModel, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.CategoryModel, error)
	NameTaken(ctx context.Context, name string, exceptID primitive.ObjectID) (bool, error)
	Insert(ctx context.Context, cat *models.CategoryModel) error
	Update(ctx context.Context, cat *models.CategoryModel) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	SetPostCounts(ctx context.Context, counts map[primitive.ObjectID]int) error
}

// Posts is the reverse lookup from a category to its posts.
type Posts interface {
	ListByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.PostModel, error)
	CountByCategory(ctx context.Context) (map[primitive.ObjectID]int, error)
}

type Service struct {
	repo   Repository
	posts  Posts
	logger *zap.Logger
}

func NewService(repo Repository, posts Posts, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, posts: posts, logger: logger.Named("CategoryService")}
}

// List returns every category sorted by name.
func (s *Service) List(ctx context.Context) ([]models.CategoryModel, error) {
	cats, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Unavailable(err)
	}
	return cats, nil
}

// Get returns a category together with the posts that reference it.
func (s *Service) Get(ctx context.Context, id string) (*models.CategoryModel, []models.PostModel, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil, apperr.NotFound(msgNotFound)
	}
	cat, err := s.find(ctx, oid)
	if err != nil {
		return nil, nil, err
	}
	posts, err := s.posts.ListByCategory(ctx, oid)
	if err != nil {
		return nil, nil, fmt.Errorf("list category posts: %w", err)
	}
	return cat, posts, nil
}

// Create validates dto and stores a new category with a zero post count.
func (s *Service) Create(ctx context.Context, dto *CategoryDTO) (*models.CategoryModel, error) {
	dto.normalize()
	if err := validate.Struct(dto); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, dto.Name, primitive.NilObjectID); err != nil {
		return nil, err
	}

	cat := &models.CategoryModel{Name: dto.Name, Color: models.DefaultCategoryColor}
	if dto.Description != nil {
		cat.Description = *dto.Description
	}
	if dto.Color != nil && *dto.Color != "" {
		cat.Color = *dto.Color
	}

	if err := s.repo.Insert(ctx, cat); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, apperr.Field(fieldName, msgNameTaken)
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return cat, nil
}

// Update replaces the name and, when given, the description and color.
func (s *Service) Update(ctx context.Context, id string, dto *CategoryDTO) (*models.CategoryModel, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound(msgNotFound)
	}
	dto.normalize()
	if err := validate.Struct(dto); err != nil {
		return nil, err
	}

	cat, err := s.find(ctx, oid)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, dto.Name, oid); err != nil {
		return nil, err
	}

	cat.Name = dto.Name
	if dto.Description != nil {
		cat.Description = *dto.Description
	}
	if dto.Color != nil && *dto.Color != "" {
		cat.Color = *dto.Color
	}

	if err := s.repo.Update(ctx, cat); err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			return nil, apperr.NotFound(msgNotFound)
		case errors.Is(err, database.ErrDuplicate):
			return nil, apperr.Field(fieldName, msgNameTaken)
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return cat, nil
}

// Delete removes a category that no post references.
func (s *Service) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.NotFound(msgNotFound)
	}
	cat, err := s.find(ctx, oid)
	if err != nil {
		return err
	}
	if cat.PostCount > 0 {
		return apperr.Conflict(msgHasPosts)
	}
	if err := s.repo.Delete(ctx, oid); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return apperr.NotFound(msgNotFound)
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// RecountPostCounts rebuilds every category's postCount from the posts that
// reference it, repairing drift left by non-transactional writes.
func (s *Service) RecountPostCounts(ctx context.Context) error {
	counts, err := s.posts.CountByCategory(ctx)
	if err != nil {
		return fmt.Errorf("count posts by category: %w", err)
	}
	if err := s.repo.SetPostCounts(ctx, counts); err != nil {
		return err
	}
	s.logger.Debug("category post counts rebuilt", zap.Int("categories", len(counts)))
	return nil
}

func (s *Service) find(ctx context.Context, id primitive.ObjectID) (*models.CategoryModel, error) {
	cat, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	return cat, nil
}

func (s *Service) ensureNameFree(ctx context.Context, name string, exceptID primitive.ObjectID) error {
	taken, err := s.repo.NameTaken(ctx, name, exceptID)
	if err != nil {
		return fmt.Errorf("check category name: %w", err)
	}
	if taken {
		return apperr.Field(fieldName, msgNameTaken)
	}
	return nil
}
