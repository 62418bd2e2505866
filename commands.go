package main

import (
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/daemon"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/net/context"

	fyyur "github.com/derWhity/fyyur/internal"
	"github.com/derWhity/fyyur/internal/log"
	"github.com/derWhity/fyyur/internal/models"
	"github.com/derWhity/fyyur/internal/repos"
	artistrepo "github.com/derWhity/fyyur/internal/repos/artist/sqldb"
	memflash "github.com/derWhity/fyyur/internal/repos/flash/inmem"
	redisflash "github.com/derWhity/fyyur/internal/repos/flash/redis"
	showrepo "github.com/derWhity/fyyur/internal/repos/show/sqldb"
	venuerepo "github.com/derWhity/fyyur/internal/repos/venue/sqldb"
	"github.com/derWhity/fyyur/internal/seed"
	"github.com/derWhity/fyyur/internal/ui"
)

const shutdownTimeout = 10 * time.Second

func newRootCommand() *cobra.Command {
	var (
		configFile  string
		envFiles    []string
		writeConfig bool
	)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web interface (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(configFile, envFiles)
			if err != nil {
				return err
			}
			defer a.db.Close()
			if writeConfig {
				if err := a.cs.Write(a.ctx); err != nil {
					return err
				}
			}
			return serve(a)
		},
	}
	serveCmd.Flags().BoolVar(&writeConfig, "write-config", false, "Write the effective configuration to the config file")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Perform pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(configFile, envFiles)
			if err != nil {
				return err
			}
			defer a.db.Close()
			a.logger.Info("Database is up to date")
			return nil
		},
	}

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill an empty database with sample venues, artists and shows",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(configFile, envFiles)
			if err != nil {
				return err
			}
			defer a.db.Close()
			_, err = seed.Run(
				a.ctx,
				venuerepo.New(a.db, a.logger),
				artistrepo.New(a.db, a.logger),
				showrepo.New(a.db, a.logger),
				a.logger,
			)
			return err
		},
	}

	rootCmd := &cobra.Command{
		Use:          "fyyur",
		Short:        "Fyyur - the booking directory for venues and artists",
		Version:      appVersion,
		SilenceUsage: true,
		RunE:         serveCmd.RunE,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", defaultConfigFile(),
		"The configuration file to load the application's configuration from")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"},
		"Environment files overriding the configuration")
	rootCmd.Flags().BoolVar(&writeConfig, "write-config", false, "Write the effective configuration to the config file")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
	return rootCmd
}

// makeFlashRepo creates the flash repository selected in the configuration
func makeFlashRepo(a *app) (repos.FlashRepo, func(), error) {
	switch a.conf.Flash.Store {
	case models.FlashStoreRedis:
		client, err := redisflash.Connect(a.ctx, a.conf.Flash.RedisAddr, a.conf.Flash.RedisPassword, a.conf.Flash.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return redisflash.New(client, a.logger), func() { client.Close() }, nil
	case models.FlashStoreMemory, "":
		repo := memflash.New()
		return repo, repo.Close, nil
	}
	return nil, nil, errors.Errorf("Unknown flash store '%s'", a.conf.Flash.Store)
}

// serve runs the HTTP server until a stop signal arrives
func serve(a *app) error {
	logger := a.logger
	flashRepo, closeFlashes, err := makeFlashRepo(a)
	if err != nil {
		return err
	}
	defer closeFlashes()

	venueRepo := venuerepo.New(a.db, logger)
	artistRepo := artistrepo.New(a.db, logger)
	showRepo := showrepo.New(a.db, logger)

	vs := fyyur.NewVenueService(venueRepo, showRepo, logger)
	as := fyyur.NewArtistService(artistRepo, showRepo, logger)
	ss := fyyur.NewShowService(showRepo, venueRepo, artistRepo, logger)
	fs := fyyur.NewFlashService(flashRepo, logger)

	renderer, err := ui.NewRenderer()
	if err != nil {
		return err
	}

	httpLogger := logger.WithField(log.FldTransport, "HTTP")
	srv := &http.Server{
		Addr:              a.conf.ListenAddress,
		Handler:           fyyur.MakeHTTPHandler(vs, as, ss, fs, renderer, httpLogger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(a.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		httpLogger.WithField("addr", srv.Addr).Info("Starting listening port")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
		close(errs)
	}()

	// Watchdog for systemd
	go watchdog(ctx, a.conf.ListenAddress, logger)

	// Notify systemd that we are ready to go (if available)
	daemon.SdNotify(false, daemon.SdNotifyReady)

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		logger.Info("Caught signal to stop. Shutting down.")
	}
	daemon.SdNotify(false, daemon.SdNotifyStopping)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Shutdown complete")
	return nil
}
