package folio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// ImageUpload is an image file attached to a post form.
type ImageUpload struct {
	Filename string
	Body     io.Reader
}

// PostForm is the parsed input of the new/edit post forms. A nil Image means
// no file was attached.
type PostForm struct {
	Title     string
	Content   string
	Excerpt   string
	Published bool
	Image     *ImageUpload
}

// Validate checks the required fields and length limits.
func (f PostForm) Validate() error {
	switch {
	case strings.TrimSpace(f.Title) == "":
		return &ValidationError{Field: "title", Message: "Title is required."}
	case utf8.RuneCountInString(f.Title) > maxTitleLen:
		return &ValidationError{Field: "title", Message: fmt.Sprintf("Title must be at most %d characters.", maxTitleLen)}
	case strings.TrimSpace(f.Content) == "":
		return &ValidationError{Field: "content", Message: "Content is required."}
	case utf8.RuneCountInString(f.Excerpt) > maxExcerptLen:
		return &ValidationError{Field: "excerpt", Message: fmt.Sprintf("Excerpt must be at most %d characters.", maxExcerptLen)}
	}
	return nil
}

// PostWorkflow runs the admin create/edit/delete use cases. It is the only
// place that keeps post rows and stored images consistent.
type PostWorkflow struct {
	store   *Store
	uploads *Uploads
}

// NewPostWorkflow creates a PostWorkflow over the given store and uploads.
func NewPostWorkflow(store *Store, uploads *Uploads) *PostWorkflow {
	return &PostWorkflow{store: store, uploads: uploads}
}

// storeImage saves the attached image, if any. It returns "" when the form
// carries no image.
func (w *PostWorkflow) storeImage(img *ImageUpload) (string, error) {
	if img == nil || img.Filename == "" {
		return "", nil
	}
	name, err := w.uploads.Store(img.Body, img.Filename)
	if errors.Is(err, ErrUnsupportedImage) {
		return "", &ValidationError{
			Field:   "image",
			Message: "Invalid image file type. Please upload " + w.uploads.allowedList() + " files.",
		}
	}
	return name, err
}

// Create validates the form, stores the optional image and inserts the post.
// A rejected image aborts the whole operation before any row is written.
func (w *PostWorkflow) Create(ctx context.Context, form PostForm) (BlogPost, error) {
	if err := form.Validate(); err != nil {
		return BlogPost{}, err
	}
	image, err := w.storeImage(form.Image)
	if err != nil {
		return BlogPost{}, err
	}
	post, err := w.store.CreatePost(ctx, BlogPost{
		Title:         form.Title,
		Content:       form.Content,
		Excerpt:       form.Excerpt,
		ImageFilename: image,
		Published:     form.Published,
	})
	if err != nil {
		if image != "" {
			err = errors.Join(err, w.uploads.Remove(image))
		}
		return BlogPost{}, err
	}
	return post, nil
}

// Edit updates an existing post. A newly attached image replaces the old
// one, which is removed only after the post points at the new file. Without
// a new image the existing one is kept.
func (w *PostWorkflow) Edit(ctx context.Context, id int64, form PostForm) (BlogPost, error) {
	current, err := w.store.GetPost(ctx, id)
	if err != nil {
		return BlogPost{}, err
	}
	if err := form.Validate(); err != nil {
		return current, err
	}
	image, err := w.storeImage(form.Image)
	if err != nil {
		return current, err
	}

	patch := PostPatch{
		Title:     &form.Title,
		Content:   &form.Content,
		Excerpt:   &form.Excerpt,
		Published: &form.Published,
	}
	if image != "" {
		patch.ImageFilename = &image
	}
	updated, err := w.store.UpdatePost(ctx, id, patch)
	if err != nil {
		if image != "" {
			err = errors.Join(err, w.uploads.Remove(image))
		}
		return current, err
	}

	if image != "" && current.ImageFilename != "" && current.ImageFilename != image {
		if err := w.uploads.Remove(current.ImageFilename); err != nil {
			return updated, err
		}
	}
	return updated, nil
}

// Delete removes the post image (a missing file is fine) and then the row.
func (w *PostWorkflow) Delete(ctx context.Context, id int64) error {
	post, err := w.store.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if post.ImageFilename != "" {
		if err := w.uploads.Remove(post.ImageFilename); err != nil {
			return err
		}
	}
	return w.store.DeletePost(ctx, id)
}
