package folio

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// contentSecurityPolicy keeps scripts, styles and form posts same-origin.
// Post images may be hotlinked over https.
const contentSecurityPolicy = "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' https: data:; font-src 'self'; form-action 'self'; frame-ancestors 'none'"

var secureHeaders = middleware.SecureConfig{
	XSSProtection:         "1; mode=block",
	ContentTypeNosniff:    "nosniff",
	XFrameOptions:         "DENY",
	ReferrerPolicy:        "strict-origin-when-cross-origin",
	ContentSecurityPolicy: contentSecurityPolicy,
	HSTSMaxAge:            31536000,
}

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)
	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.RemoveTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
	}))

	e.Use(
		a.requestLogger(),
		middleware.Recover(),
		middleware.GzipWithConfig(middleware.GzipConfig{Level: 5, Skipper: isUploadPath}),
		middleware.SecureWithConfig(secureHeaders),
		session.Middleware(a.sessionStore),
		cacheControlMiddleware,
	)
}

// requestLogger logs one line per request through the app logger. Errors are
// handed to the error handler first so the logged status is the final one.
func (a *App) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"ip", v.RemoteIP,
			}
			if v.Error != nil {
				attrs = append(attrs, "err", v.Error)
			}
			a.Logger.Info("request", attrs...)
			return nil
		},
	})
}

func isUploadPath(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/uploads/")
}

// uploadLimit rejects request bodies larger than the configured upload cap
// before any handler reads them.
func (a *App) uploadLimit() echo.MiddlewareFunc {
	return middleware.BodyLimit(strconv.FormatInt(a.Config.MaxUploadBytes, 10) + "B")
}

// cacheControlMiddleware: assets and uploads for a day, generated XML for an
// hour, pages not at all.
func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		value := "no-store"
		switch {
		case strings.HasPrefix(path, "/static/"), isUploadPath(c):
			value = "public, max-age=86400"
		case path == "/sitemap.xml", path == "/feed.xml", path == "/robots.txt":
			value = "public, max-age=3600"
		}
		c.Response().Header().Set("Cache-Control", value)
		return next(c)
	}
}
