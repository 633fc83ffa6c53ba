package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jbest-eyes/core/internal/config"
	"github.com/jbest-eyes/core/internal/middleware"
	"github.com/jbest-eyes/core/internal/modules/content/category"
	pkgcron "github.com/jbest-eyes/core/internal/pkg/cron"
	pkgredis "github.com/jbest-eyes/core/internal/pkg/redis"
	"go.uber.org/zap"
)

// App holds all application dependencies.
type App struct {
	cfg     *config.AppConfig
	router  *gin.Engine
	stores  *storeSet
	redis   *pkgredis.Client
	logger  *zap.Logger
	sched   *pkgcron.Scheduler
	cancel  context.CancelFunc
	started time.Time

	categorySvc *category.Service
}

// New initializes the application: config → DB → Redis → routes.
func New(ctx context.Context, logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	stores, err := openStores(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	var rc *pkgredis.Client
	if cfg.RedisURL != "" {
		rc, err = pkgredis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			stores.close()
			return nil, fmt.Errorf("redis: %w", err)
		}
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logger(logger))
	router.Use(newCORS(cfg))

	runCtx, cancel := context.WithCancel(context.Background())
	app := &App{
		cfg:     cfg,
		router:  router,
		stores:  stores,
		redis:   rc,
		logger:  logger,
		sched:   pkgcron.New(logger),
		cancel:  cancel,
		started: time.Now(),
	}
	if err := app.registerRoutes(); err != nil {
		app.Shutdown()
		return nil, err
	}

	if registerCronJobs(app.sched, app.categorySvc, cfg, logger) > 0 {
		app.sched.Start(runCtx)
	}
	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops background jobs and closes storage connections.
func (a *App) Shutdown() {
	a.cancel()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("redis close failed", zap.Error(err))
		}
	}
	a.stores.close()
}
