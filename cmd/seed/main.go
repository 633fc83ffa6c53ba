// Command seed resets the content collections to a small demo data set.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/jbest-eyes/core/internal/config"
	"github.com/jbest-eyes/core/internal/database"
	"github.com/jbest-eyes/core/internal/database/mongostore"
	"github.com/jbest-eyes/core/internal/models"
	"github.com/jbest-eyes/core/internal/modules/content/category"
	"github.com/jbest-eyes/core/internal/modules/content/post"
	"github.com/jbest-eyes/core/internal/pkg/nativelog"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	logger, err := nativelog.NewZapLogger(nativelog.Options{Level: "info", Dev: true})
	if err != nil {
		logger = zap.NewExample()
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	err = run(ctx, config.ResolvePath(*configPath), logger)
	cancel()
	if err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
	logger.Info("database seeded")
	_ = logger.Sync()
}

// run loads the config, connects to MongoDB and reseeds it. The connection
// is closed before returning.
func run(ctx context.Context, configPath string, logger *zap.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Database.Driver != config.DriverMongo {
		return fmt.Errorf("seeding requires database.driver: mongo, got %q", cfg.Database.Driver)
	}

	dbCfg := cfg.Database
	dbCfg.URI = cfg.MongoURI
	db, err := database.Connect(ctx, dbCfg)
	if err != nil {
		return err
	}
	defer db.Close(context.Background())

	if err := database.EnsureIndexes(ctx, db.Database); err != nil {
		return err
	}
	store := mongostore.New(db.Database)
	return seed(ctx, store.Categories, store.Posts, logger)
}

type categoryStore interface {
	category.Repository
	DeleteAll(ctx context.Context) error
}

type postStore interface {
	category.Posts
	Insert(ctx context.Context, post *models.PostModel) error
	DeleteAll(ctx context.Context) error
}

func seed(ctx context.Context, categories categoryStore, posts postStore, logger *zap.Logger) error {
	if err := posts.DeleteAll(ctx); err != nil {
		return err
	}
	if err := categories.DeleteAll(ctx); err != nil {
		return err
	}
	logger.Info("cleared existing data")

	byName := make(map[string]*models.CategoryModel, len(sampleCategories))
	for i := range sampleCategories {
		cat := sampleCategories[i]
		if err := categories.Insert(ctx, &cat); err != nil {
			return err
		}
		byName[cat.Name] = &cat
	}
	logger.Info("created categories", zap.Int("count", len(byName)))

	for _, sp := range samplePosts {
		cat := byName[sp.category]
		p := &models.PostModel{
			Title:       sp.title,
			Content:     sp.content,
			Excerpt:     sp.excerpt,
			CategoryID:  cat.ID,
			Tags:        sp.tags,
			IsPublished: true,
			Comments:    []models.CommentModel{},
		}
		if p.Excerpt == "" {
			p.Excerpt = post.DeriveExcerpt(p.Content)
		}
		if err := posts.Insert(ctx, p); err != nil {
			return err
		}
	}
	logger.Info("created posts", zap.Int("count", len(samplePosts)))

	svc := category.NewService(categories, posts, logger)
	return svc.RecountPostCounts(ctx)
}
