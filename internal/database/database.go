// Package database opens the SQL database configured for Fyyur
package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib" // Registers the "pgx" driver
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // Registers the "sqlite3" driver
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/derWhity/fyyur/internal/log"
	"github.com/derWhity/fyyur/internal/models"
)

const dbFile = "fyyur.db"

// CheckAndCreateDir checks and tries to create the given directory recursively
func CheckAndCreateDir(path string, logger *logrus.Entry) error {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if e, ok := err.(*os.PathError); ok && e.Err == syscall.ENOENT {
			logger.WithField(log.FldPath, path).Info("Directory does not exist - trying to create...")
			if err = os.MkdirAll(path, os.ModePerm); err != nil {
				return errors.Wrap(err, "CheckAndCreateDir: Failed to create directory")
			}
			logger.Info("Directory created successfully")
			return nil
		}
		return errors.Wrap(err, "CheckAndCreateDir: Stat has failed")
	}
	if !fileInfo.IsDir() {
		return fmt.Errorf("'%s' is not a directory. Remove the plain file if you want to continue", path)
	}
	return nil
}

// SQLiteDSN adds the connection parameters Fyyur relies on to a SQLite file name or DSN
func SQLiteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on&_busy_timeout=5000"
}

// Open opens and pings the database described by the configuration
func Open(ctx context.Context, conf models.AppConfig, logger *logrus.Entry) (*sqlx.DB, error) {
	driver := conf.Database.Driver
	dsn := conf.Database.DSN
	switch driver {
	case models.DriverSQLite, "":
		driver = models.DriverSQLite
		if dsn == "" {
			if err := CheckAndCreateDir(conf.DataDir, logger); err != nil {
				return nil, err
			}
			dsn = filepath.Join(conf.DataDir, dbFile)
		}
		dsn = SQLiteDSN(dsn)
	case models.DriverPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("Open: The %s driver needs a DSN", driver)
		}
	default:
		return nil, fmt.Errorf("Open: Unsupported database driver '%s'", driver)
	}
	logger.WithField(log.FldDriver, driver).Info("Opening database connection")
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "Open: Failed to open database connection")
	}
	if driver == models.DriverSQLite {
		// SQLite allows a single writer only - and in-memory databases exist per connection
		db.SetMaxOpenConns(1)
	}
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "Open: Database is not reachable")
	}
	return db, nil
}
