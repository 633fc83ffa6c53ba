package app

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jbest-eyes/core/internal/config"
	"github.com/jbest-eyes/core/internal/middleware"
	"github.com/jbest-eyes/core/internal/modules/content/category"
	"github.com/jbest-eyes/core/internal/modules/content/post"
	"github.com/jbest-eyes/core/internal/modules/storage/file"
	"github.com/jbest-eyes/core/internal/modules/system/core/health"
	"github.com/jbest-eyes/core/internal/pkg/response"
)

const apiVersion = "1.0.0"

var appInfo = gin.H{
	"message": "Welcome to JBest Eyes API - A personal blog about daily life, business, coding, and parenting",
	"version": apiVersion,
	"author":  "JBest",
}

func (a *App) registerRoutes() error {
	r := a.router
	cfg := a.cfg

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	r.GET("/", func(c *gin.Context) { c.JSON(http.StatusOK, appInfo) })

	// Writes share one per-IP budget. Without Redis the limiter is a no-op.
	var (
		counter middleware.WindowCounter
		cache   health.Pinger
	)
	if a.redis != nil {
		counter, cache = a.redis, a.redis
	}
	writeMW := middleware.RateLimit(counter, cfg.RateLimit.Max, cfg.RateLimit.Window, a.logger)

	api := r.Group("/api")
	health.NewHandler(a.stores.pinger(), cache, a.sched, a.started).RegisterRoutes(api)

	postSvc := post.NewService(a.stores.posts, a.stores.categories, a.stores.tx, post.Options{
		RebalanceOnReassign: cfg.Content.RebalanceOnReassign,
	}, a.logger)
	post.NewHandler(postSvc).RegisterRoutes(api, writeMW)

	a.categorySvc = category.NewService(a.stores.categories, a.stores.posts, a.logger)
	category.NewHandler(a.categorySvc, a.logger).RegisterRoutes(api, writeMW)

	backend, err := uploadBackend(cfg)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	file.NewHandler(backend, cfg.MaxUploadBytes(), cfg.Storage.PublicURL, a.logger).RegisterRoutes(api, writeMW)
	if cfg.Storage.Driver != config.StorageS3 {
		r.Static("/uploads", cfg.StaticDir())
	}
	return nil
}
