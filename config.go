package folio

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Defaults used when the config leaves a field empty.
const (
	DefaultUploadDir      = "static/uploads"
	DefaultMaxUploadBytes = 16 << 20
	DefaultAdminUsername  = "admin"
	DefaultAdminPassword  = "admin123"
)

// DefaultAllowedExtensions is the image extension allow-list used when the
// config leaves it empty.
var DefaultAllowedExtensions = []string{"png", "jpg", "jpeg", "gif", "webp"}

// Project is an entry on the projects page.
type Project struct {
	Title       string `toml:"title" yaml:"title"`
	Description string `toml:"description" yaml:"description"`
	URL         string `toml:"url" yaml:"url"`
}

// SiteConfig holds all configuration for a folio site.
type SiteConfig struct {
	Name         string    `toml:"name" yaml:"name"`                   // Site name (default "Portfolio")
	URL          string    `toml:"url" yaml:"url"`                     // Canonical URL (default "http://localhost:5000")
	Description  string    `toml:"description" yaml:"description"`     // Used for RSS and meta tags
	Author       string    `toml:"author" yaml:"author"`               // Author name for JSON-LD
	ContactEmail string    `toml:"contact_email" yaml:"contact_email"` // Shown on the contact page
	Projects     []Project `toml:"projects" yaml:"projects"`

	Addr         string `toml:"addr" yaml:"addr"`                   // Listen address (default ":5000")
	DatabasePath string `toml:"database_path" yaml:"database_path"` // SQLite path (default "data/portfolio.db")

	UploadDir         string   `toml:"upload_dir" yaml:"upload_dir"`
	MaxUploadBytes    int64    `toml:"max_upload_bytes" yaml:"max_upload_bytes"`
	AllowedExtensions []string `toml:"allowed_extensions" yaml:"allowed_extensions"`

	AdminUsername     string `toml:"admin_username" yaml:"admin_username"`
	AdminPasswordHash string `toml:"admin_password_hash" yaml:"admin_password_hash"` // hex sha256, or a bcrypt hash

	SessionSecret string `toml:"session_secret" yaml:"session_secret"` // random per process when empty
	SessionDir    string `toml:"session_dir" yaml:"session_dir"`       // server-side sessions when set
	CookieSecure  bool   `toml:"cookie_secure" yaml:"cookie_secure"`   // Set true for HTTPS

	LogLevel string `toml:"log_level" yaml:"log_level"`
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Portfolio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:5000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.Addr == "" {
		c.Addr = ":5000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/portfolio.db"
	}
	if c.UploadDir == "" {
		c.UploadDir = DefaultUploadDir
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if len(c.AllowedExtensions) == 0 {
		c.AllowedExtensions = append([]string(nil), DefaultAllowedExtensions...)
	}
	if c.AdminUsername == "" {
		c.AdminUsername = DefaultAdminUsername
	}
	if c.AdminPasswordHash == "" {
		c.AdminPasswordHash = HashPassword(DefaultAdminPassword)
	}
}

// LoadConfig reads a TOML or YAML config file (chosen by extension), applies
// FOLIO_* environment overrides and fills in defaults. An empty path skips
// the file.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return SiteConfig{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return SiteConfig{}, err
	}
	cfg.setDefaults()
	return cfg, nil
}

func loadFile(path string, cfg *SiteConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("folio: read config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("folio: parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("folio: parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("folio: unsupported config format %q", filepath.Ext(path))
	}
	return nil
}

func applyEnv(cfg *SiteConfig) error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("FOLIO_SITE_NAME", &cfg.Name)
	setString("FOLIO_SITE_URL", &cfg.URL)
	setString("FOLIO_SITE_DESCRIPTION", &cfg.Description)
	setString("FOLIO_SITE_AUTHOR", &cfg.Author)
	setString("FOLIO_CONTACT_EMAIL", &cfg.ContactEmail)
	setString("FOLIO_ADDR", &cfg.Addr)
	setString("FOLIO_DATABASE_PATH", &cfg.DatabasePath)
	setString("FOLIO_UPLOAD_DIR", &cfg.UploadDir)
	setString("FOLIO_ADMIN_USERNAME", &cfg.AdminUsername)
	setString("FOLIO_ADMIN_PASSWORD_HASH", &cfg.AdminPasswordHash)
	setString("FOLIO_SESSION_SECRET", &cfg.SessionSecret)
	setString("FOLIO_SESSION_DIR", &cfg.SessionDir)
	setString("FOLIO_LOG_LEVEL", &cfg.LogLevel)

	if v := os.Getenv("FOLIO_MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("folio: invalid FOLIO_MAX_UPLOAD_BYTES %q", v)
		}
		cfg.MaxUploadBytes = n
	}
	if v := os.Getenv("FOLIO_ALLOWED_EXTENSIONS"); v != "" {
		cfg.AllowedExtensions = FilterEmpty(strings.Split(v, ","))
	}
	if v := os.Getenv("FOLIO_COOKIE_SECURE"); v != "" {
		cfg.CookieSecure = strings.EqualFold(v, "true")
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithAutoMigrate applies pending schema migrations during Init instead of
// refusing to start.
func WithAutoMigrate() Option {
	return func(a *App) {
		a.autoMigrate = true
	}
}

// WithLogger sets the logger used for request and error logging.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}
