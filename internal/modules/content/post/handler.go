package post

import (
	"github.com/gin-gonic/gin"
	"github.com/jbest-eyes/core/internal/pkg/pagination"
	"github.com/jbest-eyes/core/internal/pkg/response"
)

const msgInvalidBody = "Invalid request body"

// Handler handles post HTTP requests.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts post routes onto the given router group. writeMW
// guards the routes that mutate state.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, writeMW ...gin.HandlerFunc) {
	posts := rg.Group("/posts")
	posts.GET("", h.list)
	posts.GET("/:id", h.get)

	writes := posts.Group("", writeMW...)
	writes.POST("", h.create)
	writes.PUT("/:id", h.update)
	writes.DELETE("/:id", h.delete)
	writes.POST("/:id/comments", h.addComment)
}

// list GET /posts
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	posts, pag, err := h.svc.List(c.Request.Context(), q, lq)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paged(c, ToResponses(posts), pag)
}

// get GET /posts/:id
func (h *Handler) get(c *gin.Context) {
	post, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, ToResponse(post))
}

// create POST /posts
func (h *Handler) create(c *gin.Context) {
	var dto PostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, msgInvalidBody)
		return
	}
	post, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ToResponse(post))
}

// update PUT /posts/:id
func (h *Handler) update(c *gin.Context) {
	var dto PostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, msgInvalidBody)
		return
	}
	post, err := h.svc.Update(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, ToResponse(post))
}

// delete DELETE /posts/:id
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Deleted(c)
}

// addComment POST /posts/:id/comments
func (h *Handler) addComment(c *gin.Context) {
	var dto CommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, msgInvalidBody)
		return
	}
	post, err := h.svc.AddComment(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ToResponse(post))
}
