package post

import (
	"strings"
	"time"

	"github.com/jbest-eyes/core/internal/models"
)

// FormattedDateLayout renders dates as "March 7, 2026".
const FormattedDateLayout = "January 2, 2006"

// PostDTO is the request body for creating and updating a post. Create and
// update share the same rules; optional fields are left untouched on update
// when omitted.
type PostDTO struct {
	Title         string   `json:"title"         validate:"required,max=100"  label:"Title"`
	Content       string   `json:"content"       validate:"required"          label:"Content"`
	Category      string   `json:"category"      validate:"required,objectid" label:"Category"`
	Excerpt       *string  `json:"excerpt"       validate:"omitempty,max=200" label:"Excerpt"`
	FeaturedImage *string  `json:"featuredImage"`
	Tags          []string `json:"tags"`
	IsPublished   *bool    `json:"isPublished"`
}

func (d *PostDTO) normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Content = strings.TrimSpace(d.Content)
	d.Category = strings.TrimSpace(d.Category)
	if d.Excerpt != nil {
		trimmed := strings.TrimSpace(*d.Excerpt)
		d.Excerpt = &trimmed
	}
	if d.FeaturedImage != nil {
		trimmed := strings.TrimSpace(*d.FeaturedImage)
		d.FeaturedImage = &trimmed
	}
	if d.Tags != nil {
		tags := make([]string, 0, len(d.Tags))
		for _, tag := range d.Tags {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
		d.Tags = tags
	}
}

// CommentDTO is the request body for adding a comment.
type CommentDTO struct {
	Author  string `json:"author"  validate:"required,max=50"  label:"Author name"`
	Content string `json:"content" validate:"required,max=500" msg:"required=Comment content is required;max=Comment cannot be more than 500 characters"`
}

func (d *CommentDTO) normalize() {
	d.Author = strings.TrimSpace(d.Author)
	d.Content = strings.TrimSpace(d.Content)
}

// ListQuery holds the filter params for listing posts.
type ListQuery struct {
	Category string `form:"category"`
	Search   string `form:"search"`
}

// CategoryRef is the populated category embedded in post responses.
type CategoryRef struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Response is the API shape of a post. Category is a CategoryRef when
// populated and the bare category id otherwise.
type Response struct {
	ID            string                `json:"_id"`
	Title         string                `json:"title"`
	Content       string                `json:"content"`
	Excerpt       string                `json:"excerpt"`
	FeaturedImage string                `json:"featuredImage"`
	Category      interface{}           `json:"category"`
	Tags          []string              `json:"tags"`
	IsPublished   bool                  `json:"isPublished"`
	ViewCount     int                   `json:"viewCount"`
	Comments      []models.CommentModel `json:"comments"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
	FormattedDate string                `json:"formattedDate"`
}

// ToResponse shapes a post for the API.
func ToResponse(p *models.PostModel) Response {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	comments := p.Comments
	if comments == nil {
		comments = []models.CommentModel{}
	}

	var category interface{}
	switch {
	case p.Category != nil:
		category = CategoryRef{ID: p.Category.HexID(), Name: p.Category.Name, Color: p.Category.Color}
	case !p.CategoryID.IsZero():
		category = p.CategoryID.Hex()
	}

	return Response{
		ID:            p.HexID(),
		Title:         p.Title,
		Content:       p.Content,
		Excerpt:       p.Excerpt,
		FeaturedImage: p.FeaturedImage,
		Category:      category,
		Tags:          tags,
		IsPublished:   p.IsPublished,
		ViewCount:     p.ViewCount,
		Comments:      comments,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		FormattedDate: p.CreatedAt.Format(FormattedDateLayout),
	}
}

// ToResponses shapes a list of posts.
func ToResponses(posts []models.PostModel) []Response {
	items := make([]Response, len(posts))
	for i := range posts {
		items[i] = ToResponse(&posts[i])
	}
	return items
}
