package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/coreos/go-systemd/daemon"
	"github.com/jmoiron/sqlx"
	"github.com/kardianos/osext"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	fyyur "github.com/derWhity/fyyur/internal"
	"github.com/derWhity/fyyur/internal/ctxhelper"
	"github.com/derWhity/fyyur/internal/database"
	"github.com/derWhity/fyyur/internal/log"
	"github.com/derWhity/fyyur/internal/migrate"
	"github.com/derWhity/fyyur/internal/models"
)

const (
	appName    = "Fyyur"
	appVersion = "1.0.0"
)

// app bundles everything the commands share
type app struct {
	ctx    context.Context
	logger *logrus.Entry
	cs     fyyur.ConfigService
	conf   models.AppConfig
	db     *sqlx.DB
}

// defaultConfigFile returns the config file right beside the executable
func defaultConfigFile() string {
	execDir, err := osext.ExecutableFolder()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(execDir, "config.json")
}

// configureLogger applies the level and format settings to the standard logger
func configureLogger(conf models.LogConfig) error {
	level, err := logrus.ParseLevel(conf.Level)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	switch strings.ToLower(conf.Format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown log format '%s'", conf.Format)
	}
	return nil
}

// bootstrap loads the configuration, opens the database and performs pending migrations
func bootstrap(configFile string, envFiles []string) (*app, error) {
	ctx := context.Background()

	// Initialize the logger
	logger := logrus.WithField(log.FldVersion, appVersion)
	ctx = context.WithValue(ctx, ctxhelper.KeyLogger, logger)

	// Load the main configuration file
	cs := fyyur.NewConfigService(configFile)
	if err := cs.Load(ctx); err != nil {
		logger.WithError(err).Warn("Cannot load config. Using defaults")
	}
	if err := cs.ApplyEnv(ctx, envFiles...); err != nil {
		return nil, err
	}
	conf := cs.GetConfig(ctx)
	if err := configureLogger(conf.Log); err != nil {
		return nil, err
	}
	logger.Infof("%s version %s is starting up...", appName, appVersion)

	// Set up the database connection and perform pending migrations
	db, err := database.Open(ctx, conf, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Performing database migrations...")
	if err = migrate.ExecuteMigrationsOnDb(db, logger); err != nil {
		db.Close()
		logger.WithError(err).Error("Database migration has failed. Please check database for consistency and try again.")
		return nil, err
	}
	return &app{
		ctx:    ctx,
		logger: logger,
		cs:     cs,
		conf:   conf,
		db:     db,
	}, nil
}

// watchdog pings the own alive endpoint and notifies systemd as long as it answers
func watchdog(ctx context.Context, listenAddress string, logger *logrus.Entry) {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil || interval == 0 {
		return
	}
	logger.Info("Activating systemd watchdog goroutine")
	port := listenAddress[strings.LastIndex(listenAddress, ":")+1:]
	url := fmt.Sprintf("http://127.0.0.1:%s/alive", port)
	ticker := time.NewTicker(interval / 3)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if resp, err := http.Get(url); err == nil {
				resp.Body.Close()
				daemon.SdNotify(false, daemon.SdNotifyWatchdog)
			}
		}
	}
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
