package models

import (
	"path"

	"github.com/kardianos/osext"
)

const (
	// DriverSQLite is the database driver name for SQLite databases
	DriverSQLite = "sqlite3"
	// DriverPostgres is the database driver name for PostgreSQL databases (pgx stdlib driver)
	DriverPostgres = "pgx"

	// FlashStoreMemory keeps flash messages inside the process
	FlashStoreMemory = "memory"
	// FlashStoreRedis keeps flash messages inside a Redis server
	FlashStoreRedis = "redis"
)

// AppConfig is the application's main configuration structure
type AppConfig struct {
	// The directory where Fyyur stores its data (the SQLite database) - defaults to the /data subdirectory of the
	// folder the executable resides in
	DataDir string `json:"dataDir"`
	// The IP address to listen at - including the port number
	ListenAddress string `json:"listenAddress"`
	// Database connection settings
	Database DatabaseConfig `json:"database"`
	// Where flash messages are kept between requests
	Flash FlashConfig `json:"flash"`
	// Logging settings
	Log LogConfig `json:"log"`
}

// DatabaseConfig configures the database connection
type DatabaseConfig struct {
	// Driver is either "sqlite3" or "pgx"
	Driver string `json:"driver"`
	// DSN is the data source name. For SQLite, an empty DSN means "fyyur.db" inside the data directory.
	DSN string `json:"dsn"`
}

// FlashConfig configures the flash message storage
type FlashConfig struct {
	// Store is either "memory" or "redis"
	Store         string `json:"store"`
	RedisAddr     string `json:"redisAddr"`
	RedisPassword string `json:"redisPassword"`
	RedisDB       int    `json:"redisDb"`
}

// LogConfig configures the application logger
type LogConfig struct {
	// Level is one of the logrus level names (debug, info, warning, error, ...)
	Level string `json:"level"`
	// Format is either "text" or "json"
	Format string `json:"format"`
}

// GetDefaultConfig returns the default configuration values for the application
func GetDefaultConfig() (*AppConfig, error) {
	execDir, err := osext.ExecutableFolder()
	if err != nil {
		return nil, err
	}
	return &AppConfig{
		DataDir:       path.Join(execDir, "data"),
		ListenAddress: ":5000",
		Database: DatabaseConfig{
			Driver: DriverSQLite,
		},
		Flash: FlashConfig{
			Store:     FlashStoreMemory,
			RedisAddr: "localhost:6379",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}, nil
}
