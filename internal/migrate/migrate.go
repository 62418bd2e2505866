// Package migrate handles SQL database migration for the Fyyur database
package migrate

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/derWhity/fyyur/internal/log"
	"github.com/derWhity/fyyur/internal/models"
)

var migrations []dbMigration

// dbMigration is one step of the schema history. The queries differ per SQL dialect.
type dbMigration struct {
	Version  uint
	SQLite   []string
	Postgres []string
}

// queriesFor returns the queries to run for the given driver
func (mig *dbMigration) queriesFor(driver string) []string {
	if driver == models.DriverPostgres {
		return mig.Postgres
	}
	return mig.SQLite
}

func saveStatus(db *sqlx.DB, version uint, success bool) error {
	query := `INSERT INTO migrations(version, success) VALUES(?, ?)
				ON CONFLICT(version) DO UPDATE SET success = excluded.success`
	_, err := db.Exec(db.Rebind(query), version, success)
	return err
}

// Execute runs the current DB migration on the given database
func (mig *dbMigration) Execute(db *sqlx.DB, logger *logrus.Entry) error {
	// Check if the migration has already run
	query := `SELECT success FROM migrations WHERE version = ?`
	var success = false
	err := db.QueryRow(db.Rebind(query), mig.Version).Scan(&success)
	if err != nil && err != sql.ErrNoRows {
		logger.WithError(err).Error("Failed to fetch version information")
		return err
	}
	if success {
		return nil
	}
	// We need to execute this migration
	queries := mig.queriesFor(db.DriverName())
	logger.Infof("Executing DB migration #%d", mig.Version)
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	for i, query := range queries {
		logger.Debugf("Query %d of %d...", (i + 1), len(queries))
		if _, err := tx.Exec(query); err != nil {
			logger.WithError(err).Errorf("Query #%d failed", (i + 1))
			tx.Rollback()
			if e := saveStatus(db, mig.Version, false); e != nil {
				logger.WithError(e).Error("Failed to save migration status")
			}
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	// Queries executed successfully - save our status
	return saveStatus(db, mig.Version, true)
}

// ExecuteMigrationsOnDb executes the database migrations on the given database instance
func ExecuteMigrationsOnDb(db *sqlx.DB, logger *logrus.Entry) error {
	logger = logger.WithField(log.FldDriver, db.DriverName())
	// Create the migrations table if it does not exist, yet
	query := `CREATE TABLE IF NOT EXISTS migrations (
                version   INTEGER NOT NULL,
                success   BOOLEAN NOT NULL DEFAULT FALSE,
                PRIMARY KEY(version)
            )`
	if _, err := db.Exec(query); err != nil {
		logger.WithError(err).Error("Failed to create migrations table")
		return err
	}
	for _, mig := range migrations {
		if err := mig.Execute(db, logger.WithField(log.FldMigration, mig.Version)); err != nil {
			logger.WithError(err).Errorf("Failed to execute migration #%d", mig.Version)
			return err
		}
	}
	return nil
}

// Version returns the number of the latest migration known to this package
func Version() uint {
	return migrations[len(migrations)-1].Version
}

func init() {
	migrations = []dbMigration{
		{
			Version: 1,
			SQLite: []string{
				`CREATE TABLE venues (
                    id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
                    name VARCHAR(120) NOT NULL,
                    search_name VARCHAR(120) NOT NULL DEFAULT '',
                    city VARCHAR(120) NOT NULL DEFAULT '',
                    state VARCHAR(2) NOT NULL DEFAULT '',
                    address VARCHAR(120) NOT NULL DEFAULT '',
                    phone VARCHAR(120) NOT NULL DEFAULT '',
                    image_link VARCHAR(500) NOT NULL DEFAULT '',
                    website_link VARCHAR(500) NOT NULL DEFAULT '',
                    facebook_link VARCHAR(120) NOT NULL DEFAULT '',
                    seeking_talent BOOLEAN NOT NULL DEFAULT 0,
                    seeking_description VARCHAR(500) NOT NULL DEFAULT '',
                    genres TEXT NOT NULL DEFAULT '[]',
                    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
                    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
                );`,
				`CREATE TABLE artists (
                    id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
                    name VARCHAR(120) NOT NULL,
                    search_name VARCHAR(120) NOT NULL DEFAULT '',
                    city VARCHAR(120) NOT NULL DEFAULT '',
                    state VARCHAR(2) NOT NULL DEFAULT '',
                    phone VARCHAR(120) NOT NULL DEFAULT '',
                    genres TEXT NOT NULL DEFAULT '[]',
                    image_link VARCHAR(500) NOT NULL DEFAULT '',
                    website_link VARCHAR(500) NOT NULL DEFAULT '',
                    facebook_link VARCHAR(120) NOT NULL DEFAULT '',
                    seeking_venue BOOLEAN NOT NULL DEFAULT 0,
                    seeking_description VARCHAR(500) NOT NULL DEFAULT '',
                    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
                    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
                );`,
				`CREATE TABLE shows (
                    id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
                    start_time TIMESTAMP NOT NULL,
                    venue_id INTEGER NOT NULL REFERENCES venues(id) ON DELETE CASCADE,
                    artist_id INTEGER NOT NULL REFERENCES artists(id) ON DELETE CASCADE,
                    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
                );`,
				`CREATE INDEX idx_venue_search ON venues (search_name ASC);`,
				`CREATE INDEX idx_artist_search ON artists (search_name ASC);`,
				`CREATE INDEX idx_show_venue ON shows (venue_id ASC, start_time ASC);`,
				`CREATE INDEX idx_show_artist ON shows (artist_id ASC, start_time ASC);`,
			},
			Postgres: []string{
				`CREATE TABLE venues (
                    id SERIAL PRIMARY KEY,
                    name VARCHAR(120) NOT NULL,
                    search_name VARCHAR(120) NOT NULL DEFAULT '',
                    city VARCHAR(120) NOT NULL DEFAULT '',
                    state VARCHAR(2) NOT NULL DEFAULT '',
                    address VARCHAR(120) NOT NULL DEFAULT '',
                    phone VARCHAR(120) NOT NULL DEFAULT '',
                    image_link VARCHAR(500) NOT NULL DEFAULT '',
                    website_link VARCHAR(500) NOT NULL DEFAULT '',
                    facebook_link VARCHAR(120) NOT NULL DEFAULT '',
                    seeking_talent BOOLEAN NOT NULL DEFAULT FALSE,
                    seeking_description VARCHAR(500) NOT NULL DEFAULT '',
                    genres TEXT NOT NULL DEFAULT '[]',
                    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
                );`,
				`CREATE TABLE artists (
                    id SERIAL PRIMARY KEY,
                    name VARCHAR(120) NOT NULL,
                    search_name VARCHAR(120) NOT NULL DEFAULT '',
                    city VARCHAR(120) NOT NULL DEFAULT '',
                    state VARCHAR(2) NOT NULL DEFAULT '',
                    phone VARCHAR(120) NOT NULL DEFAULT '',
                    genres TEXT NOT NULL DEFAULT '[]',
                    image_link VARCHAR(500) NOT NULL DEFAULT '',
                    website_link VARCHAR(500) NOT NULL DEFAULT '',
                    facebook_link VARCHAR(120) NOT NULL DEFAULT '',
                    seeking_venue BOOLEAN NOT NULL DEFAULT FALSE,
                    seeking_description VARCHAR(500) NOT NULL DEFAULT '',
                    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
                );`,
				`CREATE TABLE shows (
                    id SERIAL PRIMARY KEY,
                    start_time TIMESTAMPTZ NOT NULL,
                    venue_id INTEGER NOT NULL REFERENCES venues(id) ON DELETE CASCADE,
                    artist_id INTEGER NOT NULL REFERENCES artists(id) ON DELETE CASCADE,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
                );`,
				`CREATE INDEX idx_venue_search ON venues (search_name);`,
				`CREATE INDEX idx_artist_search ON artists (search_name);`,
				`CREATE INDEX idx_show_venue ON shows (venue_id, start_time);`,
				`CREATE INDEX idx_show_artist ON shows (artist_id, start_time);`,
			},
		},
	}
}
