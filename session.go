package folio

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	sessionName       = "folio_session"
	authenticatedKey  = "authenticated"
	sessionContextKey = "folio.session"
	loginPath         = "/login"
)

func (a *App) newSessionStore() (sessions.Store, error) {
	opts := &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 12,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	secret := []byte(a.Config.SessionSecret)
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
		if secret == nil {
			return nil, errors.New("folio: generate session secret")
		}
		a.Logger.Warn("session_secret not set; using a random key, sessions end on restart")
	}
	if a.Config.SessionDir != "" {
		if err := os.MkdirAll(a.Config.SessionDir, 0o700); err != nil {
			return nil, fmt.Errorf("folio: create session dir: %w", err)
		}
		store := sessions.NewFilesystemStore(a.Config.SessionDir, secret)
		store.Options = opts
		return store, nil
	}
	store := sessions.NewCookieStore(secret)
	store.Options = opts
	return store, nil
}

// SessionContext is the per-request view of the client session. It carries
// only the authenticated flag.
type SessionContext struct {
	c    echo.Context
	sess *sessions.Session
}

// Session loads the session for the current request. A RequireAuth-wrapped
// handler gets the same value the middleware already loaded.
func Session(c echo.Context) (*SessionContext, error) {
	if sc, ok := c.Get(sessionContextKey).(*SessionContext); ok {
		return sc, nil
	}
	sess, err := session.Get(sessionName, c)
	if err != nil && sess == nil {
		return nil, fmt.Errorf("folio: load session: %w", err)
	}
	sc := &SessionContext{c: c, sess: sess}
	c.Set(sessionContextKey, sc)
	return sc, nil
}

// IsAuthenticated reports whether the session carries the authenticated flag.
func (s *SessionContext) IsAuthenticated() bool {
	auth, ok := s.sess.Values[authenticatedKey].(bool)
	return ok && auth
}

// Login marks the session as authenticated.
func (s *SessionContext) Login() error {
	s.sess.Values[authenticatedKey] = true
	return s.sess.Save(s.c.Request(), s.c.Response())
}

// Logout clears the flag and expires the session.
func (s *SessionContext) Logout() error {
	delete(s.sess.Values, authenticatedKey)
	s.sess.Options.MaxAge = -1
	return s.sess.Save(s.c.Request(), s.c.Response())
}

// IsAuthenticated reports whether the request comes from a logged-in
// administrator. Session load failures count as not authenticated.
func IsAuthenticated(c echo.Context) bool {
	sc, err := Session(c)
	if err != nil {
		return false
	}
	return sc.IsAuthenticated()
}

// RequireAuth redirects unauthenticated requests to the login page without
// calling next.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !IsAuthenticated(c) {
			return c.Redirect(http.StatusFound, loginPath)
		}
		return next(c)
	}
}
