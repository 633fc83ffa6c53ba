package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 0x48, G: 0xbb, B: 0x78, A: 0xff})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func uploadRequest(t *testing.T, field, name string, payload []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload/image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Host = "blog.local:5000"
	return req
}

func newUploadRouter(backend Backend, maxBytes int64, publicURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(backend, maxBytes, publicURL, nil)
	h.now = func() time.Time { return time.UnixMilli(1767225600000) }
	h.RegisterRoutes(r.Group("/api"))
	return r
}

type uploadBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    struct {
		Filename     string `json:"filename"`
		OriginalName string `json:"originalName"`
		Size         int    `json:"size"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		URL          string `json:"url"`
	} `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) uploadBody {
	t.Helper()
	var body uploadBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestUploadStoresLocally(t *testing.T) {
	dir := t.TempDir()
	r := newUploadRouter(NewLocalBackend(dir), 5<<20, "")
	payload := pngBytes(t, 4, 3)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "image", "sunset.PNG", payload))
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.True(t, body.Success)
	assert.True(t, strings.HasPrefix(body.Data.Filename, "image-1767225600000-"))
	assert.True(t, strings.HasSuffix(body.Data.Filename, ".png"))
	assert.Equal(t, "sunset.PNG", body.Data.OriginalName)
	assert.Equal(t, len(payload), body.Data.Size)
	assert.Equal(t, 4, body.Data.Width)
	assert.Equal(t, 3, body.Data.Height)
	assert.Equal(t, "http://blog.local:5000/uploads/"+body.Data.Filename, body.Data.URL)

	stored, err := os.ReadFile(filepath.Join(dir, body.Data.Filename))
	require.NoError(t, err)
	assert.Equal(t, payload, stored)
}

func TestUploadUsesPublicURL(t *testing.T) {
	r := newUploadRouter(NewLocalBackend(t.TempDir()), 5<<20, "https://eyes.example.com/")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "image", "a.png", pngBytes(t, 1, 1)))
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "https://eyes.example.com/uploads/"+body.Data.Filename, body.Data.URL)
}

func TestUploadRejections(t *testing.T) {
	r := newUploadRouter(NewLocalBackend(t.TempDir()), 1024, "")

	cases := []struct {
		name string
		req  *http.Request
		msg  string
	}{
		{"missing field", uploadRequest(t, "file", "a.png", pngBytes(t, 1, 1)), "No file uploaded"},
		{"not an image", uploadRequest(t, "image", "notes.png", []byte("plain text pretending")), "Only image files are allowed"},
		{"too large", uploadRequest(t, "image", "big.png", bytes.Repeat([]byte{0}, 2048)), "File too large. Maximum size is 1KB"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, tc.req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decode(t, w)
			assert.False(t, body.Success)
			assert.Equal(t, tc.msg, body.Error)
		})
	}
}

type urlBackend struct {
	url  string
	err  error
	name string
	mime string
}

func (b *urlBackend) Save(ctx context.Context, name, contentType string, payload []byte) (string, error) {
	b.name, b.mime = name, contentType
	return b.url, b.err
}

func TestUploadRemoteBackend(t *testing.T) {
	backend := &urlBackend{url: "https://cdn.example.com/uploads/x.png"}
	r := newUploadRouter(backend, 5<<20, "")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "image", "x.png", pngBytes(t, 2, 2)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://cdn.example.com/uploads/x.png", decode(t, w).Data.URL)
	assert.Equal(t, "image/png", backend.mime)

	backend.err = errors.New("bucket missing")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "image", "x.png", pngBytes(t, 2, 2)))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server Error", decode(t, w).Error)
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "5MB", formatSize(5<<20))
	assert.Equal(t, "1536KB", formatSize(3<<19))
}

func TestInspectImage(t *testing.T) {
	info, err := inspectImage(pngBytes(t, 7, 5))
	require.NoError(t, err)
	assert.Equal(t, imageInfo{Ext: ".png", ContentType: "image/png", Width: 7, Height: 5}, info)

	_, err = inspectImage([]byte("GIF89"))
	assert.Error(t, err)
}
