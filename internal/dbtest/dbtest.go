// Package dbtest provides migrated throwaway databases and quiet loggers for tests
package dbtest

import (
	"io"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"

	"github.com/derWhity/fyyur/internal/database"
	"github.com/derWhity/fyyur/internal/migrate"
	"github.com/derWhity/fyyur/internal/models"
)

// Logger returns a logger that discards everything
func Logger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// Open creates a migrated SQLite database inside a temporary directory. It is closed when the test ends.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()
	conf := models.AppConfig{
		DataDir:  t.TempDir(),
		Database: models.DatabaseConfig{Driver: models.DriverSQLite},
	}
	return OpenWith(t, conf)
}

// OpenWith opens and migrates the database described by the configuration
func OpenWith(t testing.TB, conf models.AppConfig) *sqlx.DB {
	t.Helper()
	db, err := database.Open(context.Background(), conf, Logger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrate.ExecuteMigrationsOnDb(db, Logger()))
	return db
}
