package folio

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// homeRecentPosts is how many posts the home page lists.
const homeRecentPosts = 3

func (a *App) site(c echo.Context, title string) Site {
	return Site{
		Config: a.Config,
		Admin:  IsAuthenticated(c),
		Meta: PageMeta{
			Title:       title,
			Description: a.Config.Description,
			URL:         BuildURL(a.Config.URL, c.Request().URL.Path),
		},
	}
}

func (a *App) handleIndex(c echo.Context) error {
	return Render(c, a.Views.Index(a.site(c, a.Config.Name)))
}

func (a *App) handleHome(c echo.Context) error {
	posts, err := a.Store.ListPublished(c.Request().Context(), homeRecentPosts)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(a.site(c, "Home"), posts))
}

func (a *App) handleProjects(c echo.Context) error {
	return Render(c, a.Views.Projects(a.site(c, "Projects")))
}

func (a *App) handleAbout(c echo.Context) error {
	return Render(c, a.Views.About(a.site(c, "About")))
}

func (a *App) handleContact(c echo.Context) error {
	return Render(c, a.Views.Contact(a.site(c, "Contact")))
}

func (a *App) handleBlog(c echo.Context) error {
	posts, err := a.Store.ListPublished(c.Request().Context(), 0)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Blog(a.site(c, "Blog"), posts))
}

// handlePost serves a post by id. Unpublished posts are reachable by direct
// link; only the listings filter them out.
func (a *App) handlePost(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return echo.ErrNotFound
	}
	post, err := a.Store.GetPost(c.Request().Context(), id)
	if err != nil {
		return err
	}
	site := a.site(c, post.Title)
	site.Meta.Description = post.Summary()
	return Render(c, a.Views.Post(site, post))
}

func (a *App) handleUpload(c echo.Context) error {
	f, info, err := a.Uploads.Open(c.Param("filename"))
	if err != nil {
		return err
	}
	defer f.Close()
	http.ServeContent(c.Response(), c.Request(), info.Name(), info.ModTime(), f)
	return nil
}

func (a *App) handleLoginForm(c echo.Context) error {
	return Render(c, a.Views.Login(a.site(c, "Login"), ""))
}

func (a *App) handleLogin(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	if !a.credential.Verify(username, password) {
		a.Logger.Warn("failed login", "ip", c.RealIP())
		return Render(c, a.Views.Login(a.site(c, "Login"), "Invalid credentials"))
	}
	sc, err := Session(c)
	if err != nil {
		return err
	}
	if err := sc.Login(); err != nil {
		return fmt.Errorf("folio: save session: %w", err)
	}
	return c.Redirect(http.StatusSeeOther, "/admin")
}

func handleLogout(c echo.Context) error {
	sc, err := Session(c)
	if err != nil {
		return err
	}
	if err := sc.Logout(); err != nil {
		return fmt.Errorf("folio: save session: %w", err)
	}
	return c.Redirect(http.StatusSeeOther, "/home")
}

func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Store.ListPublished(c.Request().Context(), 0)
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Store.ListPublished(c.Request().Context(), 0)
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if errors.Is(err, ErrNotFound) {
		err = echo.ErrNotFound
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.site(c, "Not Found")))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error", "method", c.Request().Method, "uri", c.Request().RequestURI, "err", err)
		_ = RenderStatus(c, code, a.Views.ServerError(a.site(c, "Error")))
		return
	}
	if code >= 400 {
		_ = RenderStatus(c, code, a.Views.ClientError(a.site(c, http.StatusText(code)), code, a.clientErrorMessage(code)))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

func (a *App) clientErrorMessage(code int) string {
	switch code {
	case http.StatusRequestEntityTooLarge:
		return fmt.Sprintf("The upload is too large. Requests are limited to %d MB.", a.Config.MaxUploadBytes>>20)
	case http.StatusMethodNotAllowed:
		return "This page does not accept that kind of request."
	default:
		return "The request could not be processed."
	}
}
