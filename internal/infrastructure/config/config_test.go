package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "shopfront-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, StorageBackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, 10, cfg.Sync.MaxUnitsPerProduct)
	assert.Equal(t, "vi", cfg.Sync.Locale)
	assert.Equal(t, 5*time.Second, cfg.Undo.GracePeriod)
	assert.Equal(t, 30, cfg.CartAPI.TimeoutSeconds)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SHOPFRONT_APP_PORT", "9090")
	t.Setenv("SHOPFRONT_SYNC_MAX_UNITS_PER_PRODUCT", "5")
	t.Setenv("SHOPFRONT_STORAGE_BACKEND", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 5, cfg.Sync.MaxUnitsPerProduct)
	assert.Equal(t, StorageBackendMemory, cfg.Storage.Backend)
}

func TestLoad_InvalidBackend(t *testing.T) {
	t.Setenv("SHOPFRONT_STORAGE_BACKEND", "etcd")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("SHOPFRONT_APP_ENV", "production")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("SHOPFRONT_SESSION_SECRET", "super-secret")
	t.Setenv("SHOPFRONT_CARTAPI_BASE_URL", "https://commerce.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestValidate_PostgresRequiresDSN(t *testing.T) {
	cfg := &Config{Storage: StorageConfig{Backend: StorageBackendPostgres}}
	applyDefaults(cfg)
	assert.Error(t, cfg.validate())

	cfg.Storage.DSN = "host=localhost user=shopfront dbname=shopfront"
	assert.NoError(t, cfg.validate())
}
