package folio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout is fixed-width so that text ordering matches time ordering.
const timeLayout = "2006-01-02 15:04:05.000000"

// Limits enforced by the workflow before a post reaches the store.
const (
	maxTitleLen   = 200
	maxExcerptLen = 300
)

const postColumns = `id, title, content, excerpt, image_filename, created_at, updated_at, published`

// Store wraps a SQLite database and provides CRUD operations for blog posts
// and the administrator credential row.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens (or creates) the SQLite database at path and ensures the
// data directory exists. It does not touch the schema; see Migrate.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	// Per-connection pragmas go in the DSN so every pooled connection gets
	// them; journal_mode is stored in the database file.
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate applies all pending schema migrations.
func (s *Store) Migrate(ctx context.Context) error {
	return runMigrations(ctx, s.db)
}

// MigrationStatus reports pending migrations without applying them.
func (s *Store) MigrationStatus(ctx context.Context) (MigrationStatus, error) {
	return planMigrations(ctx, s.db)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (BlogPost, error) {
	var (
		p                    BlogPost
		excerpt, image       sql.NullString
		createdAt, updatedAt nullTime
		published            sql.NullBool
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &excerpt, &image, &createdAt, &updatedAt, &published); err != nil {
		return BlogPost{}, err
	}
	p.Excerpt = excerpt.String
	p.ImageFilename = image.String
	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time
	p.Published = published.Bool
	return p, nil
}

// nullTime scans timestamp columns. The driver may hand back either
// time.Time (for DATETIME columns) or the raw text.
type nullTime struct {
	Time time.Time
}

func (n *nullTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		n.Time = time.Time{}
	case time.Time:
		n.Time = v.UTC()
	case string:
		n.Time = parseTime(v)
	case []byte:
		n.Time = parseTime(string(v))
	default:
		return fmt.Errorf("folio: cannot scan %T into timestamp", src)
	}
	return nil
}

// parseTime accepts the stored layout, with or without fractional seconds.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02 15:04:05.999999999", time.RFC3339Nano} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t
		}
	}
	return time.Time{}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *Store) queryPosts(ctx context.Context, query string, args ...any) ([]BlogPost, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []BlogPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// CreatePost inserts a post, assigning its ID and timestamps, and returns
// the stored entity.
func (s *Store) CreatePost(ctx context.Context, p BlogPost) (BlogPost, error) {
	now := s.now().UTC().Truncate(time.Microsecond)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO blog_post (title, content, excerpt, image_filename, created_at, updated_at, published) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Content, nullString(p.Excerpt), nullString(p.ImageFilename), formatTime(now), formatTime(now), p.Published)
	if err != nil {
		return BlogPost{}, fmt.Errorf("folio: create post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return BlogPost{}, fmt.Errorf("folio: create post: %w", err)
	}
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return p, nil
}

// GetPost returns a post by id regardless of its published status.
func (s *Store) GetPost(ctx context.Context, id int64) (BlogPost, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM blog_post WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BlogPost{}, ErrNotFound
		}
		return BlogPost{}, fmt.Errorf("folio: get post %d: %w", id, err)
	}
	return p, nil
}

// ListPublished returns published posts, newest first. A limit <= 0 returns
// all of them.
func (s *Store) ListPublished(ctx context.Context, limit int) ([]BlogPost, error) {
	query := `SELECT ` + postColumns + ` FROM blog_post WHERE published = 1 ORDER BY created_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	posts, err := s.queryPosts(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("folio: list published posts: %w", err)
	}
	return posts, nil
}

// ListAllPosts returns every post (published and drafts), newest first.
func (s *Store) ListAllPosts(ctx context.Context) ([]BlogPost, error) {
	posts, err := s.queryPosts(ctx, `SELECT `+postColumns+` FROM blog_post ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("folio: list posts: %w", err)
	}
	return posts, nil
}

// UpdatePost merges the non-nil fields of patch into the post and refreshes
// UpdatedAt. It returns the updated post.
func (s *Store) UpdatePost(ctx context.Context, id int64, patch PostPatch) (BlogPost, error) {
	sets := []string{"updated_at = ?"}
	now := s.now().UTC().Truncate(time.Microsecond)
	args := []any{formatTime(now)}
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *patch.Content)
	}
	if patch.Excerpt != nil {
		sets = append(sets, "excerpt = ?")
		args = append(args, nullString(*patch.Excerpt))
	}
	if patch.ImageFilename != nil {
		sets = append(sets, "image_filename = ?")
		args = append(args, nullString(*patch.ImageFilename))
	}
	if patch.Published != nil {
		sets = append(sets, "published = ?")
		args = append(args, *patch.Published)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, `UPDATE blog_post SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return BlogPost{}, fmt.Errorf("folio: update post %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return BlogPost{}, ErrNotFound
	}
	return s.GetPost(ctx, id)
}

// DeletePost removes a post by id.
func (s *Store) DeletePost(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM blog_post WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("folio: delete post %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveCredential stores the administrator credential, replacing any
// previous one.
func (s *Store) SaveCredential(ctx context.Context, username, passwordHash string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("folio: save credential: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM admin_user`); err != nil {
		return fmt.Errorf("folio: save credential: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO admin_user (id, username, password_hash) VALUES (1, ?, ?)`, username, passwordHash); err != nil {
		return fmt.Errorf("folio: save credential: %w", err)
	}
	return tx.Commit()
}

// LoadCredential returns the stored administrator credential.
func (s *Store) LoadCredential(ctx context.Context) (Credential, error) {
	var c Credential
	err := s.db.QueryRowContext(ctx, `SELECT username, password_hash FROM admin_user ORDER BY id LIMIT 1`).
		Scan(&c.Username, &c.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Credential{}, ErrNotFound
		}
		return Credential{}, fmt.Errorf("folio: load credential: %w", err)
	}
	return c, nil
}
