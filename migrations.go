package folio

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
)

// Migration is one versioned schema change.
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// MigrationStatus reports the applied and available schema versions.
type MigrationStatus struct {
	CurrentVersion   int
	AvailableVersion int
	Pending          []Migration
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "blog_post table",
		SQL: `
CREATE TABLE IF NOT EXISTS blog_post (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title VARCHAR(200) NOT NULL,
    content TEXT NOT NULL,
    excerpt VARCHAR(300),
    created_at DATETIME,
    updated_at DATETIME,
    published BOOLEAN
);
`,
	},
	{
		Version:     2,
		Description: "blog_post.image_filename column",
		SQL:         `ALTER TABLE blog_post ADD COLUMN image_filename VARCHAR(255);`,
	},
	{
		Version:     3,
		Description: "admin_user table",
		SQL: `
CREATE TABLE IF NOT EXISTS admin_user (
    id INTEGER PRIMARY KEY,
    username VARCHAR(80) NOT NULL UNIQUE,
    password_hash VARCHAR(120) NOT NULL
);
`,
	},
	{
		Version:     4,
		Description: "index for newest-first listings",
		SQL:         `CREATE INDEX IF NOT EXISTS idx_blog_post_published_created ON blog_post(published, created_at);`,
	},
}

func sortedMigrations() []Migration {
	sorted := make([]Migration, len(migrations))
	copy(sorted, migrations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })
	return sorted
}

func ensureMigrationsTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL
);`)
	return err
}

func currentVersion(ctx context.Context, db *sql.DB) (int, error) {
	var v sql.NullInt64
	if err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&v); err != nil {
		return 0, err
	}
	return int(v.Int64), nil
}

func tableExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	return n > 0, err
}

func columnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pragma_table_info(?) WHERE name=?`, table, column).Scan(&n)
	return n > 0, err
}

// legacyVersion inspects a database that has posts but no migration history
// (one created before versioned migrations) and returns the schema version
// it already matches. It returns 0 for fresh or already tracked databases.
func legacyVersion(ctx context.Context, db *sql.DB) (int, error) {
	posts, err := tableExists(ctx, db, "blog_post")
	if err != nil || !posts {
		return 0, err
	}
	tracked, err := tableExists(ctx, db, "schema_migrations")
	if err != nil {
		return 0, err
	}
	if tracked {
		var n int
		if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&n); err != nil {
			return 0, err
		}
		if n > 0 {
			return 0, nil
		}
	}
	hasImage, err := columnExists(ctx, db, "blog_post", "image_filename")
	if err != nil {
		return 0, err
	}
	if hasImage {
		return 2, nil
	}
	return 1, nil
}

// planMigrations returns the effective current version and pending
// migrations without changing the database.
func planMigrations(ctx context.Context, db *sql.DB) (MigrationStatus, error) {
	legacy, err := legacyVersion(ctx, db)
	if err != nil {
		return MigrationStatus{}, fmt.Errorf("detect legacy schema: %w", err)
	}
	current := legacy
	tracked, err := tableExists(ctx, db, "schema_migrations")
	if err != nil {
		return MigrationStatus{}, err
	}
	if tracked && legacy == 0 {
		if current, err = currentVersion(ctx, db); err != nil {
			return MigrationStatus{}, err
		}
	}
	status := MigrationStatus{CurrentVersion: current}
	for _, m := range sortedMigrations() {
		status.AvailableVersion = m.Version
		if m.Version > current {
			status.Pending = append(status.Pending, m)
		}
	}
	return status, nil
}

// runMigrations applies pending migrations in order, each in its own
// transaction. Running it again on an up-to-date database is a no-op.
func runMigrations(ctx context.Context, db *sql.DB) error {
	legacy, err := legacyVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("detect legacy schema: %w", err)
	}
	if err := ensureMigrationsTable(ctx, db); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}
	for v := 1; v <= legacy; v++ {
		if _, err := db.ExecContext(ctx, `INSERT OR IGNORE INTO schema_migrations (version, applied_at) VALUES (?, datetime('now'))`, v); err != nil {
			return fmt.Errorf("stamp legacy schema: %w", err)
		}
	}
	current, err := currentVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("get current version: %w", err)
	}
	for _, m := range sortedMigrations() {
		if m.Version <= current {
			continue
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}
		if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %d (%s): %w", m.Version, m.Description, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES (?, datetime('now'))`, m.Version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}
	return nil
}
