package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jbest-eyes/core/internal/pkg/cron"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// JobLister exposes scheduled jobs.
type JobLister interface {
	List() []cron.ListItem
}

const pingTimeout = 2 * time.Second

// Handler serves the liveness endpoint.
type Handler struct {
	db      Pinger
	cache   Pinger
	jobs    JobLister
	started time.Time
	now     func() time.Time
}

// NewHandler builds the handler. Any dependency can be nil: a nil db means
// the memory driver, a nil cache means Redis is disabled.
func NewHandler(db, cache Pinger, jobs JobLister, started time.Time) *Handler {
	return &Handler{db: db, cache: cache, jobs: jobs, started: started, now: time.Now}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.health)
}

type report struct {
	Status    string          `json:"status"`
	Timestamp string          `json:"timestamp"`
	Uptime    float64         `json:"uptime"`
	Database  string          `json:"database"`
	Redis     string          `json:"redis"`
	Jobs      []cron.ListItem `json:"jobs,omitempty"`
}

func (h *Handler) health(c *gin.Context) {
	now := h.now()
	out := report{
		Status:    "OK",
		Timestamp: now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Uptime:    now.Sub(h.started).Seconds(),
		Database:  pingState(c.Request.Context(), h.db, "memory"),
		Redis:     pingState(c.Request.Context(), h.cache, "disabled"),
	}
	if h.jobs != nil {
		out.Jobs = h.jobs.List()
	}
	code := http.StatusOK
	// Status follows the database only.
	if out.Database == stateUnreachable {
		out.Status = "DEGRADED"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, out)
}

const (
	stateConnected   = "connected"
	stateUnreachable = "unreachable"
)

func pingState(ctx context.Context, p Pinger, absent string) string {
	if p == nil {
		return absent
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return stateUnreachable
	}
	return stateConnected
}
