package file

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// imageFormats maps decoder names to the extension and MIME type we store.
var imageFormats = map[string]struct {
	ext, mime string
}{
	"jpeg": {".jpg", "image/jpeg"},
	"png":  {".png", "image/png"},
	"gif":  {".gif", "image/gif"},
	"webp": {".webp", "image/webp"},
}

// imageInfo is what the decoder learned about an upload.
type imageInfo struct {
	Ext, ContentType string
	Width, Height    int
}

// inspectImage reads the image header and rejects anything that is not a
// supported raster format.
func inspectImage(payload []byte) (imageInfo, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(payload))
	if err != nil {
		return imageInfo{}, fmt.Errorf("decode image: %w", err)
	}
	known, ok := imageFormats[format]
	if !ok {
		return imageInfo{}, fmt.Errorf("unsupported image format %q", format)
	}
	return imageInfo{Ext: known.ext, ContentType: known.mime, Width: cfg.Width, Height: cfg.Height}, nil
}

// buildFileName generates a collision-resistant name: field, timestamp and a
// random suffix, keeping the detected extension.
func buildFileName(field, ext string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return field + "-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + suffix + ext
}

// requestBaseURL returns scheme://host for the current request, honoring
// X-Forwarded-Proto behind a proxy.
func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := strings.TrimSpace(c.GetHeader("X-Forwarded-Proto")); proto != "" {
		scheme = strings.ToLower(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + c.Request.Host
}

func formatSize(limit int64) string {
	if limit >= 1<<20 && limit%(1<<20) == 0 {
		return strconv.FormatInt(limit>>20, 10) + "MB"
	}
	return strconv.FormatInt(limit>>10, 10) + "KB"
}
