// Package folio is a personal website with a minimal blog CMS built with Go,
// Echo, and templ. It serves static pages, a public blog, and an admin area
// for creating, editing and deleting posts with an optional image.
//
// Users provide their own templ templates via the ViewFuncs struct, and folio
// handles the handler logic, middleware, sessions, uploads and database.
package folio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
)

// Site is passed to every view. Admin is true for an authenticated session.
type Site struct {
	Config SiteConfig
	Admin  bool
	Meta   PageMeta
}

// ViewFuncs holds the templ components folio calls when rendering pages.
type ViewFuncs struct {
	Index          func(site Site) templ.Component
	Home           func(site Site, recent []BlogPost) templ.Component
	Projects       func(site Site) templ.Component
	About          func(site Site) templ.Component
	Contact        func(site Site) templ.Component
	Blog           func(site Site, posts []BlogPost) templ.Component
	Post           func(site Site, post BlogPost) templ.Component
	Login          func(site Site, errMsg string) templ.Component
	AdminDashboard func(site Site, posts []BlogPost, message string) templ.Component
	PostForm       func(site Site, post BlogPost, isNew bool, errMsg string) templ.Component
	NotFound       func(site Site) templ.Component
	ClientError    func(site Site, code int, message string) templ.Component
	ServerError    func(site Site) templ.Component
}

// App is the central folio application. It wires together the store,
// uploads, workflow, handlers, middleware, and user-provided templates.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Store   *Store
	Uploads *Uploads
	Posts   *PostWorkflow
	Views   ViewFuncs
	Logger  *slog.Logger

	credential   Credential
	sessionStore sessions.Store
	autoMigrate  bool
	customRoutes []func(*App)
}

// New creates a new folio App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  views,
		Logger: slog.Default(),
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init opens the store, loads the administrator credential, and sets up
// middleware and routes. It refuses to run against a database with pending
// migrations unless WithAutoMigrate was given.
func (a *App) Init(ctx context.Context) error {
	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("folio: init store: %w", err)
	}
	a.Store = store

	if a.autoMigrate {
		if err := store.Migrate(ctx); err != nil {
			return fmt.Errorf("folio: migrate: %w", err)
		}
	}
	status, err := store.MigrationStatus(ctx)
	if err != nil {
		return fmt.Errorf("folio: migration status: %w", err)
	}
	if len(status.Pending) > 0 {
		return fmt.Errorf("folio: database schema is at version %d, want %d; run migrations first",
			status.CurrentVersion, status.AvailableVersion)
	}

	if err := store.SaveCredential(ctx, a.Config.AdminUsername, a.Config.AdminPasswordHash); err != nil {
		return fmt.Errorf("folio: init credential: %w", err)
	}
	if a.credential, err = store.LoadCredential(ctx); err != nil {
		return fmt.Errorf("folio: init credential: %w", err)
	}

	a.Uploads = NewUploads(a.Config.UploadDir, a.Config.AllowedExtensions)
	a.Posts = NewPostWorkflow(a.Store, a.Uploads)

	if a.sessionStore, err = a.newSessionStore(); err != nil {
		return err
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and serves until ctx is cancelled, then shuts
// the server down gracefully.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("listening", "addr", a.Config.Addr, "url", a.Config.URL)
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.Echo.Shutdown(shutdownCtx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	staticFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	e.GET("/static/*", echo.WrapHandler(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))))
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	// Public pages
	e.GET("/", a.handleIndex)
	e.GET("/home", a.handleHome)
	e.GET("/projects", a.handleProjects)
	e.GET("/about", a.handleAbout)
	e.GET("/contact", a.handleContact)
	e.GET("/blog", a.handleBlog)
	e.GET("/blog/:id", a.handlePost)
	e.GET("/uploads/:filename", a.handleUpload)

	// Authentication
	e.GET("/login", a.handleLoginForm)
	e.POST("/login", a.handleLogin)
	e.GET("/logout", handleLogout)

	// Admin routes
	admin := e.Group("/admin", RequireAuth)
	admin.GET("", a.handleAdminDashboard)
	admin.GET("/blog/new", a.handleNewPostForm)
	admin.POST("/blog/new", a.handleCreatePost, a.uploadLimit())
	admin.GET("/blog/:id/edit", a.handleEditPostForm)
	admin.POST("/blog/:id/edit", a.handleUpdatePost, a.uploadLimit())
	admin.POST("/blog/:id/delete", a.handleDeletePost)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
