package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jbest-eyes/core/internal/config"
	pkgcron "github.com/jbest-eyes/core/internal/pkg/cron"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool            `json:"success"`
	Count   *int            `json:"count"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type categoryView struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	PostCount int    `json:"postCount"`
}

type postView struct {
	ID       string       `json:"_id"`
	Excerpt  string       `json:"excerpt"`
	Category categoryView `json:"category"`
}

func loadConfig(t *testing.T, extra string) *config.AppConfig {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := fmt.Sprintf("env: test\ndatabase:\n  driver: memory\npaths:\n  static: %s\n  logs: %s\n%s",
		filepath.Join(dir, "uploads"), filepath.Join(dir, "logs"), extra)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	return cfg
}

func newTestApp(t *testing.T, extra string) *App {
	t.Helper()
	a, err := New(context.Background(), zap.NewNop(), loadConfig(t, extra))
	require.NoError(t, err)
	t.Cleanup(a.Shutdown)
	return a
}

func call(t *testing.T, a *App, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestWelcomeAndUnknownRoute(t *testing.T) {
	a := newTestApp(t, "")

	w, _ := call(t, a, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var info map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "1.0.0", info["version"])
	assert.Equal(t, "JBest", info["author"])

	w, env := call(t, a, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Route not found", env.Error)
}

func TestHealthOnMemoryDriver(t *testing.T) {
	a := newTestApp(t, "")
	w, _ := call(t, a, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "OK", out["status"])
	assert.Equal(t, "memory", out["database"])
	assert.Equal(t, "disabled", out["redis"])
}

func TestCategoryCounterFollowsPostLifecycle(t *testing.T) {
	a := newTestApp(t, "")

	w, env := call(t, a, http.MethodPost, "/api/categories", map[string]string{"name": "Coding Journey", "color": "#667eea"})
	require.Equal(t, http.StatusCreated, w.Code)
	var cat categoryView
	require.NoError(t, json.Unmarshal(env.Data, &cat))
	assert.Equal(t, 0, cat.PostCount)

	w, env = call(t, a, http.MethodPost, "/api/posts", map[string]string{
		"title":    "First steps in Go",
		"content":  "Learning a new language one small program at a time.",
		"category": cat.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created postView
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Coding Journey", created.Category.Name)

	_, env = call(t, a, http.MethodGet, "/api/categories/"+cat.ID, nil)
	require.NoError(t, json.Unmarshal(env.Data, &cat))
	assert.Equal(t, 1, cat.PostCount)

	w, env = call(t, a, http.MethodDelete, "/api/categories/"+cat.ID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cannot delete category with existing posts", env.Error)

	w, _ = call(t, a, http.MethodDelete, "/api/posts/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, env = call(t, a, http.MethodGet, "/api/categories/"+cat.ID, nil)
	require.NoError(t, json.Unmarshal(env.Data, &cat))
	assert.Equal(t, 0, cat.PostCount)

	w, _ = call(t, a, http.MethodDelete, "/api/categories/"+cat.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReconcileJobRegisteredWhenConfigured(t *testing.T) {
	cfg := loadConfig(t, "counters:\n  reconcile_interval: 1h\n")
	assert.Equal(t, time.Hour, cfg.Counters.ReconcileInterval)

	a, err := New(context.Background(), zap.NewNop(), cfg)
	require.NoError(t, err)
	t.Cleanup(a.Shutdown)

	require.Eventually(t, func() bool {
		items := a.sched.List()
		return len(items) == 1 && items[0].Status == pkgcron.StatusFulfill
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "reconcile_post_counts", a.sched.List()[0].Name)
}

func TestNoJobsByDefault(t *testing.T) {
	a := newTestApp(t, "")
	assert.Empty(t, a.sched.List())
}

func TestMatchOriginPattern(t *testing.T) {
	cases := []struct {
		pattern, host string
		want          bool
	}{
		{"blog.example.com", "blog.example.com", true},
		{"*.example.com", "api.example.com", true},
		{"*.example.com", "example.org", false},
		{"localhost:*", "localhost:5173", true},
		{"localhost:*", "127.0.0.1:5173", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, matchOriginPattern(tc.pattern, tc.host), "%s vs %s", tc.pattern, tc.host)
	}
	assert.Equal(t, "blog.example.com", extractOriginHost("https://blog.example.com"))
}

func TestHugePageReturnsEmptyPage(t *testing.T) {
	a := newTestApp(t, "")

	_, env := call(t, a, http.MethodPost, "/api/categories", map[string]string{"name": "Daily Life"})
	var cat categoryView
	require.NoError(t, json.Unmarshal(env.Data, &cat))
	w, _ := call(t, a, http.MethodPost, "/api/posts", map[string]string{
		"title": "Only post", "content": "Short body.", "category": cat.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env = call(t, a, http.MethodGet, "/api/posts?page=100000000000000000&limit=100", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.JSONEq(t, `[]`, string(env.Data))

	var paged struct {
		Pagination struct {
			Limit int   `json:"limit"`
			Total int64 `json:"total"`
			Pages int   `json:"pages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &paged))
	assert.Equal(t, 100, paged.Pagination.Limit)
	assert.EqualValues(t, 1, paged.Pagination.Total)
	assert.Equal(t, 1, paged.Pagination.Pages)
}
