package category

import (
	"github.com/gin-gonic/gin"
	"github.com/jbest-eyes/core/internal/modules/content/post"
	"github.com/jbest-eyes/core/internal/pkg/response"
	"go.uber.org/zap"
)

type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, writeMW ...gin.HandlerFunc) {
	cats := rg.Group("/categories")
	cats.GET("", h.list)
	cats.GET("/:id", h.get)

	writes := cats.Group("", writeMW...)
	writes.POST("", h.create)
	writes.PUT("/:id", h.update)
	writes.DELETE("/:id", h.delete)
}

// list serves the built-in categories when storage cannot be read, so the
// client navigation keeps rendering.
func (h *Handler) list(c *gin.Context) {
	cats, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.logger.Warn("category list failed, serving defaults", zap.Error(err))
		response.List(c, fallbackCategories, len(fallbackCategories))
		return
	}
	response.List(c, toResponses(cats), len(cats))
}

func (h *Handler) get(c *gin.Context) {
	cat, posts, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, categoryDetail{
		categoryResponse: toResponse(cat),
		Posts:            post.ToResponses(posts),
	})
}

func (h *Handler) create(c *gin.Context) {
	var dto CategoryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	cat, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toResponse(cat))
}

func (h *Handler) update(c *gin.Context) {
	var dto CategoryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	cat, err := h.svc.Update(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toResponse(cat))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Deleted(c)
}
