package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jbest-eyes/core/internal/pkg/apperr"
)

// Pagination metadata returned with paginated responses.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// Envelope wraps every API response.
type Envelope struct {
	Success    bool                `json:"success"`
	Count      *int                `json:"count,omitempty"`
	Data       interface{}         `json:"data,omitempty"`
	Pagination *Pagination         `json:"pagination,omitempty"`
	Error      string              `json:"error,omitempty"`
	Errors     []apperr.FieldError `json:"errors,omitempty"`
}

// OK sends a 200 response.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// List sends a 200 response carrying an item count.
func List(c *gin.Context, data interface{}, count int) {
	c.JSON(http.StatusOK, Envelope{Success: true, Count: &count, Data: data})
}

// Paged sends a paginated response.
func Paged(c *gin.Context, data interface{}, pagination Pagination) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Pagination: &pagination})
}

// Created sends a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Deleted sends the empty-object body clients expect after a delete.
func Deleted(c *gin.Context) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: gin.H{}})
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Envelope{Error: message})
}

// ValidationFailed sends a 400 response with field-level messages.
func ValidationFailed(c *gin.Context, message string, fields []apperr.FieldError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Envelope{Error: message, Errors: fields})
}

// NotFound sends the 404 for unmatched routes.
func NotFound(c *gin.Context) {
	NotFoundMsg(c, "Route not found")
}

// NotFoundMsg sends a 404 error with a custom message.
func NotFoundMsg(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusNotFound, Envelope{Error: message})
}

// MethodNotAllowed sends a 405 error response.
func MethodNotAllowed(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusMethodNotAllowed, Envelope{Error: "Method not allowed"})
}

// TooManyRequests sends a 429 error response.
func TooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, Envelope{Error: "Too many requests, slow down"})
}

// InternalError sends a generic 500 response. The cause is attached to the
// gin context for the request logger and never written to the client.
func InternalError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, Envelope{Error: "Server Error"})
}

// Error maps a classified error to its HTTP response.
func Error(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		ValidationFailed(c, apperr.MessageOf(err), apperr.FieldsOf(err))
	case apperr.KindNotFound:
		NotFoundMsg(c, apperr.MessageOf(err))
	case apperr.KindConflict:
		BadRequest(c, apperr.MessageOf(err))
	default:
		InternalError(c, err)
	}
}
