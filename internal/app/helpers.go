package app

import (
	"context"
	"time"

	"github.com/jbest-eyes/core/internal/config"
	"github.com/jbest-eyes/core/internal/database"
	"github.com/jbest-eyes/core/internal/database/memstore"
	"github.com/jbest-eyes/core/internal/database/mongostore"
	"github.com/jbest-eyes/core/internal/modules/content/category"
	"github.com/jbest-eyes/core/internal/modules/content/post"
	"github.com/jbest-eyes/core/internal/modules/storage/file"
	"github.com/jbest-eyes/core/internal/modules/system/core/health"
	"github.com/jbest-eyes/core/internal/pkg/storage"
	"go.uber.org/zap"
)

type postStore interface {
	post.Repository
	category.Posts
}

type categoryStore interface {
	category.Repository
	post.Categories
}

// storeSet is the storage selected by database.driver.
type storeSet struct {
	posts      postStore
	categories categoryStore
	tx         database.Transactor // nil unless database.transactions is on
	db         *database.DB        // nil for the memory driver
	logger     *zap.Logger
}

func openStores(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*storeSet, error) {
	if cfg.Database.Driver == config.DriverMemory {
		logger.Warn("using in-memory storage, data is lost on restart")
		mem := memstore.New()
		return &storeSet{posts: mem.Posts, categories: mem.Categories, logger: logger}, nil
	}

	dbCfg := cfg.Database
	dbCfg.URI = cfg.MongoURI
	db, err := database.Connect(ctx, dbCfg)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureIndexes(ctx, db.Database); err != nil {
		_ = db.Close(context.Background())
		return nil, err
	}
	logger.Info("database connected", zap.String("name", db.Name()))

	set := &storeSet{db: db, logger: logger}
	ms := mongostore.New(db.Database)
	set.posts, set.categories = ms.Posts, ms.Categories
	if cfg.Database.Transactions {
		set.tx = database.NewMongoTransactor(db.Client)
	}
	return set, nil
}

// pinger is nil for the memory driver.
func (s *storeSet) pinger() health.Pinger {
	if s.db == nil {
		return nil
	}
	return s.db
}

func (s *storeSet) close() {
	if s.db == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.db.Close(ctx); err != nil {
		s.logger.Warn("database close failed", zap.Error(err))
	}
}

// uploadBackend returns the backend for storage.driver.
func uploadBackend(cfg *config.AppConfig) (file.Backend, error) {
	if cfg.Storage.Driver != config.StorageS3 {
		return file.NewLocalBackend(cfg.StaticDir()), nil
	}
	s3 := cfg.Storage.S3
	client, err := storage.New(storage.Options{
		Endpoint:        s3.Endpoint,
		Region:          s3.Region,
		Bucket:          s3.Bucket,
		AccessKeyID:     s3.AccessKeyID,
		SecretAccessKey: s3.SecretAccessKey,
		PublicURL:       s3.PublicURL,
		Prefix:          s3.Prefix,
	})
	if err != nil {
		return nil, err
	}
	return file.NewS3Backend(client), nil
}
