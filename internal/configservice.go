package internal

import (
	"encoding/json"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"golang.org/x/net/context"

	"github.com/derWhity/fyyur/internal/ctxhelper"
	"github.com/derWhity/fyyur/internal/log"
	"github.com/derWhity/fyyur/internal/models"
)

// Environment variables overriding the configuration file
const (
	EnvListenAddress = "FYYUR_LISTEN_ADDRESS"
	EnvDataDir       = "FYYUR_DATA_DIR"
	EnvDBDriver      = "FYYUR_DB_DRIVER"
	EnvDBDSN         = "FYYUR_DB_DSN"
	EnvFlashStore    = "FYYUR_FLASH_STORE"
	EnvRedisAddr     = "FYYUR_REDIS_ADDR"
	EnvRedisPassword = "FYYUR_REDIS_PASSWORD"
	EnvRedisDB       = "FYYUR_REDIS_DB"
	EnvLogLevel      = "FYYUR_LOG_LEVEL"
	EnvLogFormat     = "FYYUR_LOG_FORMAT"
)

// ConfigService gives access to the application's configuration
type ConfigService interface {
	// Load loads the application config from its default file location
	Load(ctx context.Context) error
	// LoadFromFile loads the configuration from the given JSON file
	LoadFromFile(ctx context.Context, filename string) error
	// ApplyEnv overrides the loaded configuration with the FYYUR_* environment variables. The given .env files are
	// read into the environment before - missing files are skipped.
	ApplyEnv(ctx context.Context, envFiles ...string) error
	// Write writes the current application configuration to the default file name
	Write(ctx context.Context) error
	// WriteToFile writes the current application configuration to a JSON file
	WriteToFile(ctx context.Context, filename string) error
	// GetConfig retuns the current application configuration
	GetConfig(ctx context.Context) models.AppConfig
}

// -- ConfigService implementation -------------------------------------------------------------------------------------

type configService struct {
	sync.RWMutex
	configFilename string
	config         *models.AppConfig
}

// NewConfigService creates a new configuration service instance with the given default file name
func NewConfigService(configFilename string) ConfigService {
	return &configService{
		configFilename: configFilename,
	}
}

// Load loads the application config from its default file location
func (s *configService) Load(ctx context.Context) error {
	return s.LoadFromFile(ctx, s.configFilename)
}

// LoadFromFile loads the configuration from the given JSON file
func (s *configService) LoadFromFile(ctx context.Context, filename string) error {
	logger := ctxhelper.Logger(ctx)
	logger.WithField(log.FldFile, filename).Info("Loading configuration file")
	conf, err := models.GetDefaultConfig()
	if err != nil {
		return errors.Wrap(err, "LoadFromFile: Failed to create default config")
	}
	f, err := os.Open(filename)
	if err != nil {
		return errors.Wrap(err, "LoadFromFile: cannot load configuration file")
	}
	defer f.Close()
	if err = json.NewDecoder(f).Decode(conf); err != nil {
		return errors.Wrap(err, "LoadFromFile: Failed to decode configuration file")
	}
	s.Lock()
	defer s.Unlock()
	s.config = conf
	return nil
}

// ApplyEnv overrides the loaded configuration with the FYYUR_* environment variables
func (s *configService) ApplyEnv(ctx context.Context, envFiles ...string) error {
	logger := ctxhelper.Logger(ctx)
	for _, file := range envFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		logger.WithField(log.FldFile, file).Info("Loading environment file")
		// Variables already set in the process environment win
		if err := godotenv.Load(file); err != nil {
			return errors.Wrapf(err, "ApplyEnv: Failed to load environment file '%s'", file)
		}
	}
	conf := s.GetConfig(ctx)
	setString := func(name string, target *string) {
		if value, ok := os.LookupEnv(name); ok {
			*target = value
		}
	}
	setString(EnvListenAddress, &conf.ListenAddress)
	setString(EnvDataDir, &conf.DataDir)
	setString(EnvDBDriver, &conf.Database.Driver)
	setString(EnvDBDSN, &conf.Database.DSN)
	setString(EnvFlashStore, &conf.Flash.Store)
	setString(EnvRedisAddr, &conf.Flash.RedisAddr)
	setString(EnvRedisPassword, &conf.Flash.RedisPassword)
	setString(EnvLogLevel, &conf.Log.Level)
	setString(EnvLogFormat, &conf.Log.Format)
	if value, ok := os.LookupEnv(EnvRedisDB); ok {
		db, err := strconv.Atoi(value)
		if err != nil {
			return errors.Wrapf(err, "ApplyEnv: %s is not a number", EnvRedisDB)
		}
		conf.Flash.RedisDB = db
	}
	s.Lock()
	defer s.Unlock()
	s.config = &conf
	return nil
}

// Write writes the current application configuration to the default file name
func (s *configService) Write(ctx context.Context) error {
	return s.WriteToFile(ctx, s.configFilename)
}

// WriteToFile writes the current application configuration to a JSON file
func (s *configService) WriteToFile(ctx context.Context, filename string) error {
	logger := ctxhelper.Logger(ctx)
	logger.WithField(log.FldFile, filename).Info("Writing configuration file")
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "WriteToFile: Cannot open configuration file '%s' to write to", filename)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	conf := s.GetConfig(ctx)
	if err := enc.Encode(&conf); err != nil {
		return errors.Wrap(err, "WriteToFile: Failed to serialize configuration data")
	}
	return nil
}

// GetConfig retuns the current application configuration
func (s *configService) GetConfig(ctx context.Context) models.AppConfig {
	s.RLock()
	defer s.RUnlock()
	var ret models.AppConfig
	if s.config != nil {
		ret = *s.config
	} else {
		if tmp, err := models.GetDefaultConfig(); err == nil {
			ret = *tmp
		}
	}
	return ret
}
