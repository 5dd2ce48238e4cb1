package folio

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrNotFound is returned when a requested post or upload does not exist.
var ErrNotFound = errors.New("folio: not found")

// BlogPost is the only persisted content type. An empty ImageFilename means
// the post has no image.
type BlogPost struct {
	ID            int64
	Title         string
	Content       string
	Excerpt       string
	ImageFilename string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Published     bool
}

// Link returns the public URL path of the post.
func (p BlogPost) Link() string {
	return "/blog/" + strconv.FormatInt(p.ID, 10)
}

// ImageURL returns the URL path of the post image, or "" when there is none.
func (p BlogPost) ImageURL() string {
	if p.ImageFilename == "" {
		return ""
	}
	return "/uploads/" + PathEscape(p.ImageFilename)
}

// Summary returns the excerpt, falling back to the start of the content.
func (p BlogPost) Summary() string {
	if p.Excerpt != "" {
		return p.Excerpt
	}
	return truncate(p.Content, maxExcerptLen)
}

// PostPatch holds the fields to merge into an existing post. Nil fields are
// left unchanged.
type PostPatch struct {
	Title         *string
	Content       *string
	Excerpt       *string
	ImageFilename *string
	Published     *bool
}

// ValidationError reports user input that was rejected before any write.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// PageMeta carries per-page metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string
}
