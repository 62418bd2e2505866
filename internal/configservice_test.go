package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"

	"github.com/derWhity/fyyur/internal/ctxhelper"
	"github.com/derWhity/fyyur/internal/dbtest"
	"github.com/derWhity/fyyur/internal/models"
)

func loggerContext() context.Context {
	return context.WithValue(context.Background(), ctxhelper.KeyLogger, dbtest.Logger())
}

func TestConfigWriteAndLoad(t *testing.T) {
	ctx := loggerContext()
	file := filepath.Join(t.TempDir(), "config.json")

	s := NewConfigService(file)
	conf := s.GetConfig(ctx)
	assert.Equal(t, ":5000", conf.ListenAddress)
	assert.Equal(t, models.DriverSQLite, conf.Database.Driver)
	assert.Equal(t, models.FlashStoreMemory, conf.Flash.Store)
	require.NoError(t, s.Write(ctx))

	loaded := NewConfigService(file)
	require.NoError(t, loaded.Load(ctx))
	assert.Equal(t, conf, loaded.GetConfig(ctx))

	assert.Error(t, loaded.LoadFromFile(ctx, filepath.Join(t.TempDir(), "missing.json")))
}

func TestConfigPartialFileKeepsDefaults(t *testing.T) {
	ctx := loggerContext()
	file := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"listenAddress": ":9000", "log": {"level": "debug"}}`), 0o644))

	s := NewConfigService(file)
	require.NoError(t, s.Load(ctx))
	conf := s.GetConfig(ctx)
	assert.Equal(t, ":9000", conf.ListenAddress)
	assert.Equal(t, "debug", conf.Log.Level)
	assert.Equal(t, "text", conf.Log.Format)
	assert.Equal(t, models.DriverSQLite, conf.Database.Driver)
}

func TestApplyEnv(t *testing.T) {
	ctx := loggerContext()
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"FYYUR_DB_DRIVER=pgx\nFYYUR_DB_DSN=postgres://fyyur@localhost/fyyur\nFYYUR_LISTEN_ADDRESS=:7000\n",
	), 0o644))
	t.Cleanup(func() {
		os.Unsetenv(EnvDBDriver)
		os.Unsetenv(EnvDBDSN)
	})
	// The process environment wins over the file
	t.Setenv(EnvListenAddress, ":8080")
	t.Setenv(EnvRedisDB, "3")

	s := NewConfigService(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, s.ApplyEnv(ctx, envFile, filepath.Join(t.TempDir(), "missing.env")))
	conf := s.GetConfig(ctx)
	assert.Equal(t, models.DriverPostgres, conf.Database.Driver)
	assert.Equal(t, "postgres://fyyur@localhost/fyyur", conf.Database.DSN)
	assert.Equal(t, ":8080", conf.ListenAddress)
	assert.Equal(t, 3, conf.Flash.RedisDB)
}

func TestApplyEnvRejectsBadNumbers(t *testing.T) {
	t.Setenv(EnvRedisDB, "three")
	s := NewConfigService("")
	assert.Error(t, s.ApplyEnv(loggerContext()))
}
