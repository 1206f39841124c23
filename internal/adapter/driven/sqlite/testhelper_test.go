package sqlite

import (
	"context"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/reviewdeck/internal/adapter/driven/fixture"
)

// setupTestDB creates a named shared in-memory SQLite database for testing.
// Writer and reader connections share the same in-memory database via cache=shared.
// A unique name derived from t.Name() ensures isolation between parallel tests.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// WAL mode is not applicable to in-memory databases.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&%s", url.PathEscape(t.Name()), pragmas)

	db, err := open(dsn, dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := RunMigrations(db.Writer); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	return db
}

// seededTestDB returns a test database seeded with the embedded fixtures.
func seededTestDB(t *testing.T) (*DB, *fixture.Set) {
	t.Helper()

	db := setupTestDB(t)
	set, err := fixture.Load(fixture.Embedded())
	require.NoError(t, err)
	require.NoError(t, Seed(context.Background(), db, set))

	return db, set
}
