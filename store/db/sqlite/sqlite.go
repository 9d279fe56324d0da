package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/podseek/podseek/internal/profile"
	"github.com/podseek/podseek/store"
)

// ============================================================================
// SQLITE SUPPORT POLICY
// ============================================================================
// SQLite is supported for development, testing and small local corpora.
//
// Supported:
// - Transcript segment reads
// - Vector search over JSON-encoded embeddings (similarity computed in Go)
//
// NOT Supported:
// - Native vector columns (no pgvector equivalent)
// - Nearest-neighbor indexes: HasVectorIndex always answers false, so
//   search never takes the index-assisted path on SQLite
//
// When adding new features to SQLite:
// 1. Prefer returning a clear error over a partial/broken implementation
// 2. Add a comment explaining what is NOT supported
// ============================================================================

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a database specified by its database driver name and a
// driver-specific data source name, usually consisting of at least a
// database name and connection information.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	// Ensure a DSN is set before attempting to open the database.
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	// Connect to the database with some sane settings:
	// - No shared-cache: it's obsolete; WAL journal mode is a better solution.
	// - No foreign key constraints: explicit, and consistent with the
	//   PostgreSQL schema where embeddings may reference missing segments.
	// - Journal mode set to WAL: the recommended journal mode for most
	//   applications as it prevents locking issues.
	//
	// Notes:
	// - When using the `modernc.org/sqlite` driver, each pragma must be prefixed with `_pragma=`.
	//
	// References:
	// - https://pkg.go.dev/modernc.org/sqlite#Driver.Open
	// - https://www.sqlite.org/pragma.html
	sqliteDB, err := sql.Open("sqlite", profile.DSN+"?_pragma=foreign_keys(0)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	// SQLite handles concurrency differently; a single connection is optimal
	// with WAL and avoids SQLITE_BUSY under concurrent reads.
	sqliteDB.SetMaxOpenConns(1)
	sqliteDB.SetMaxIdleConns(1)
	sqliteDB.SetConnMaxLifetime(0)
	sqliteDB.SetConnMaxIdleTime(0)

	driver := DB{db: sqliteDB, profile: profile}

	return &driver, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

// HasVectorIndex reports whether a nearest-neighbor index exists. SQLite has
// no nearest-neighbor primitive, so the answer is always no: a plain B-tree
// index under the configured name would not accelerate vector search and
// must not switch callers onto the index-assisted path.
func (d *DB) HasVectorIndex(ctx context.Context, name string) (bool, error) {
	return false, nil
}

// CreateVectorIndex is not available on SQLite.
func (d *DB) CreateVectorIndex(ctx context.Context) error {
	return errors.New("vector index not supported in SQLite (use PostgreSQL with pgvector)")
}

// DropVectorIndex is not available on SQLite.
func (d *DB) DropVectorIndex(ctx context.Context) error {
	return errors.New("vector index not supported in SQLite (use PostgreSQL with pgvector)")
}
