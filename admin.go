package folio

import (
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
)

// Multipart parts beyond this size are spooled to temp files.
const multipartMemory = 8 << 20

func (a *App) handleAdminDashboard(c echo.Context) error {
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleNewPostForm(c echo.Context) error {
	return Render(c, a.Views.PostForm(a.site(c, "New post"), BlogPost{Published: true}, true, ""))
}

func (a *App) handleCreatePost(c echo.Context) error {
	form, closeImage, err := parsePostForm(c)
	if err != nil {
		return err
	}
	defer closeImage()

	_, err = a.Posts.Create(c.Request().Context(), form)
	var verr *ValidationError
	if errors.As(err, &verr) {
		draft := BlogPost{Title: form.Title, Content: form.Content, Excerpt: form.Excerpt, Published: form.Published}
		return RenderStatus(c, http.StatusUnprocessableEntity, a.Views.PostForm(a.site(c, "New post"), draft, true, verr.Message))
	}
	if err != nil {
		return err
	}
	return redirectDashboard(c, "Blog post created successfully!")
}

func (a *App) handleEditPostForm(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return echo.ErrNotFound
	}
	post, err := a.Store.GetPost(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return Render(c, a.Views.PostForm(a.site(c, "Edit post"), post, false, ""))
}

func (a *App) handleUpdatePost(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return echo.ErrNotFound
	}
	form, closeImage, err := parsePostForm(c)
	if err != nil {
		return err
	}
	defer closeImage()

	current, err := a.Posts.Edit(c.Request().Context(), id, form)
	var verr *ValidationError
	if errors.As(err, &verr) {
		current.Title, current.Content, current.Excerpt, current.Published = form.Title, form.Content, form.Excerpt, form.Published
		return RenderStatus(c, http.StatusUnprocessableEntity, a.Views.PostForm(a.site(c, "Edit post"), current, false, verr.Message))
	}
	if err != nil {
		return err
	}
	return redirectDashboard(c, "Blog post updated successfully!")
}

func (a *App) handleDeletePost(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return echo.ErrNotFound
	}
	if err := a.Posts.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return redirectDashboard(c, "Blog post deleted successfully!")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	posts, err := a.Store.ListAllPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(a.site(c, "Admin"), posts, msg))
}

func redirectDashboard(c echo.Context, msg string) error {
	return c.Redirect(http.StatusSeeOther, "/admin?msg="+url.QueryEscape(msg))
}

// parsePostForm reads the post fields and the optional image part. The
// returned func closes the image file and is always safe to call.
func parsePostForm(c echo.Context) (PostForm, func(), error) {
	noop := func() {}
	req := c.Request()
	if err := req.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return PostForm{}, noop, err
	}
	form := PostForm{
		Title:   c.FormValue("title"),
		Content: c.FormValue("content"),
		Excerpt: c.FormValue("excerpt"),
	}
	// A checkbox is only submitted when ticked.
	_, form.Published = req.PostForm["published"]

	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return form, noop, nil
		}
		return PostForm{}, noop, err
	}
	if fh.Filename == "" {
		return form, noop, nil
	}
	f, err := fh.Open()
	if err != nil {
		return PostForm{}, noop, err
	}
	form.Image = &ImageUpload{Filename: fh.Filename, Body: f}
	return form, closer(f), nil
}

func closer(f multipart.File) func() {
	return func() { _ = f.Close() }
}
