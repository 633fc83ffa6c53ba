package file

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jbest-eyes/core/internal/pkg/response"
	"go.uber.org/zap"
)

const (
	formField     = "image"
	multipartSlop = 1 << 20
)

// Handler accepts image uploads.
type Handler struct {
	backend   Backend
	maxBytes  int64
	publicURL string
	logger    *zap.Logger
	now       func() time.Time
}

// NewHandler builds the upload handler. publicURL, when set, replaces the
// request host as the base of locally served file URLs.
func NewHandler(backend Backend, maxBytes int64, publicURL string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		backend:   backend,
		maxBytes:  maxBytes,
		publicURL: strings.TrimRight(strings.TrimSpace(publicURL), "/"),
		logger:    logger.Named("UploadHandler"),
		now:       time.Now,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, writeMW ...gin.HandlerFunc) {
	g := rg.Group("/upload", writeMW...)
	g.POST("/image", h.uploadImage)
}

// uploadImage POST /upload/image
func (h *Handler) uploadImage(c *gin.Context) {
	tooLarge := "File too large. Maximum size is " + formatSize(h.maxBytes)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartSlop)

	fileHeader, err := c.FormFile(formField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.BadRequest(c, tooLarge)
			return
		}
		response.BadRequest(c, "No file uploaded")
		return
	}
	if fileHeader.Size > h.maxBytes {
		response.BadRequest(c, tooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer file.Close()
	payload, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if int64(len(payload)) > h.maxBytes {
		response.BadRequest(c, tooLarge)
		return
	}

	info, err := inspectImage(payload)
	if err != nil {
		h.logger.Debug("rejected upload", zap.String("name", fileHeader.Filename), zap.Error(err))
		response.BadRequest(c, "Only image files are allowed")
		return
	}

	filename := buildFileName(formField, info.Ext, h.now())
	url, err := h.backend.Save(c.Request.Context(), filename, info.ContentType, payload)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if url == "" {
		base := h.publicURL
		if base == "" {
			base = requestBaseURL(c)
		}
		url = base + "/uploads/" + filename
	}

	response.OK(c, gin.H{
		"filename":     filename,
		"originalName": fileHeader.Filename,
		"size":         len(payload),
		"width":        info.Width,
		"height":       info.Height,
		"url":          url,
	})
}
