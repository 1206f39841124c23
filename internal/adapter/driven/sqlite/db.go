package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const pragmas = "_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=cache_size(-64000)"

// DB holds a single-connection writer, used only while seeding, and a small
// reader pool serving the fixture repositories.
type DB struct {
	Writer *sql.DB
	Reader *sql.DB
	path   string
}

// NewDB opens dbPath in WAL mode.
func NewDB(dbPath string) (*DB, error) {
	return open(fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&%s", dbPath, pragmas), dbPath)
}

func open(dsn, path string) (*DB, error) {
	writer, err := openPool(dsn, 1)
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}

	reader, err := openPool(dsn, 4)
	if err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("open reader: %w", err)
	}

	return &DB{Writer: writer, Reader: reader, path: path}, nil
}

func openPool(dsn string, maxConns int) (*sql.DB, error) {
	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(maxConns)

	if err := pool.Ping(); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// Path returns the file the database was opened from.
func (db *DB) Path() string { return db.path }

// Ping checks that the reader pool can still reach the database.
func (db *DB) Ping(ctx context.Context) error {
	return db.Reader.PingContext(ctx)
}

// Close closes both pools and returns the first error.
func (db *DB) Close() error {
	var firstErr error

	if err := db.Reader.Close(); err != nil {
		firstErr = fmt.Errorf("close reader: %w", err)
	}
	if err := db.Writer.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close writer: %w", err)
	}

	return firstErr
}
