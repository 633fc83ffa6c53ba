package pagination

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jbest-eyes/core/internal/pkg/response"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit within an int offset.
	MaxPage = math.MaxInt/MaxLimit + 1
)

// Query holds parsed pagination parameters.
type Query struct {
	Page  int
	Limit int
}

// FromContext extracts and validates pagination params from the request.
func FromContext(c *gin.Context) Query {
	return Normalize(
		parseIntOr(c.Query("page"), DefaultPage),
		parseIntOr(c.Query("limit"), DefaultLimit),
	)
}

// Normalize clamps raw page/limit values into a usable query.
func Normalize(page, limit int) Query {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Query{Page: page, Limit: limit}
}

// Skip returns the offset of the first item on the page.
// Offsets that would overflow saturate at math.MaxInt64.
func (q Query) Skip() int64 {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}
	pages := int64(q.Page - 1)
	if pages > math.MaxInt64/int64(q.Limit) {
		return math.MaxInt64
	}
	return pages * int64(q.Limit)
}

// Meta builds the pagination metadata for a result of total matching items.
func (q Query) Meta(total int64) response.Pagination {
	limit := q.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	return response.Pagination{
		Page:  q.Page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}

func parseIntOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
