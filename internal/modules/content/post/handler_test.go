package post

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jbest-eyes/core/internal/database/memstore"
	"github.com/jbest-eyes/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fieldError struct {
	Path string `json:"path"`
	Msg  string `json:"msg"`
}

type pageMeta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	Errors     []fieldError    `json:"errors"`
	Pagination *pageMeta       `json:"pagination"`
}

func setupRouter(t *testing.T) (*gin.Engine, *memstore.Store, *models.CategoryModel) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memstore.New()
	cat := &models.CategoryModel{Name: "Daily Life", Color: "#48bb78"}
	require.NoError(t, store.Categories.Insert(context.Background(), cat))

	r := gin.New()
	NewHandler(NewService(store.Posts, store.Categories, nil, Options{}, nil)).RegisterRoutes(r.Group("/api"))
	return r, store, cat
}

func do(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestPostLifecycleOverHTTP(t *testing.T) {
	r, store, cat := setupRouter(t)

	w, env := do(t, r, http.MethodPost, "/api/posts", gin.H{
		"title":    "First light",
		"content":  "Sunrise over the lake.",
		"category": cat.HexID(),
		"tags":     []string{"morning"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, env.Success)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	id := created["_id"].(string)
	assert.Len(t, id, 24)
	assert.Equal(t, map[string]interface{}{"_id": cat.HexID(), "name": "Daily Life", "color": "#48bb78"}, created["category"])
	assert.NotEmpty(t, created["formattedDate"])

	w, env = do(t, r, http.MethodGet, "/api/posts/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched Response
	require.NoError(t, json.Unmarshal(env.Data, &fetched))
	assert.Equal(t, 1, fetched.ViewCount)

	w, env = do(t, r, http.MethodPost, "/api/posts/"+id+"/comments", gin.H{"author": "Ann", "content": "Beautiful"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &fetched))
	require.Len(t, fetched.Comments, 1)

	w, env = do(t, r, http.MethodGet, "/api/posts?page=1&limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 1, env.Pagination.Total)
	assert.Equal(t, 1, env.Pagination.Pages)
	assert.Equal(t, 5, env.Pagination.Limit)

	w, env = do(t, r, http.MethodDelete, "/api/posts/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{}`, string(env.Data))

	got, err := store.Categories.FindByID(context.Background(), cat.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.PostCount)
}

func TestCreateRejectsInvalidBody(t *testing.T) {
	r, _, _ := setupRouter(t)

	w, env := do(t, r, http.MethodPost, "/api/posts", gin.H{"content": "x", "category": "nope"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	require.Len(t, env.Errors, 2)
	assert.Equal(t, "title", env.Errors[0].Path)
	assert.Equal(t, "Title is required", env.Errors[0].Msg)
	assert.Equal(t, "Invalid category ID", env.Errors[1].Msg)

	w, _ = do(t, r, http.MethodPost, "/api/posts", gin.H{"title": "t", "content": "c", "category": "x", "tags": "not-a-list"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMissingPostIs404(t *testing.T) {
	r, _, cat := setupRouter(t)
	missing := "/api/posts/64b7f0c2a1b2c3d4e5f60718"

	for _, tc := range []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodGet, missing, nil},
		{http.MethodPut, missing, gin.H{"title": "t", "content": "c", "category": cat.HexID()}},
		{http.MethodDelete, missing, nil},
		{http.MethodPost, missing + "/comments", gin.H{"author": "a", "content": "c"}},
	} {
		w, env := do(t, r, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusNotFound, w.Code, tc.method+" "+tc.path)
		assert.Equal(t, "Post not found", env.Error)
	}
}

func TestCommentMissingFieldsIs400(t *testing.T) {
	r, store, cat := setupRouter(t)
	post := &models.PostModel{Title: "t", Content: "c", CategoryID: cat.ID}
	require.NoError(t, store.Posts.Insert(context.Background(), post))

	w, env := do(t, r, http.MethodPost, "/api/posts/"+post.HexID()+"/comments", gin.H{"author": "Ann"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "content", env.Errors[0].Path)
	assert.Equal(t, "Comment content is required", env.Errors[0].Msg)
	assert.Equal(t, "Please provide author and content for the comment", env.Error)
}
