package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "JWT_TTL", "CORS_ORIGINS", "REDIS_DB"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, "localhost:8080", cfg.Addr())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,,")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, 90*time.Minute, cfg.JWTTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_TTL", "soon")
	t.Setenv("REDIS_DB", "first")

	cfg := Load()

	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("QCM_TEST_ENV_FILE=loaded\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("QCM_TEST_ENV_FILE") })

	LoadEnvFile(path)
	assert.Equal(t, "loaded", os.Getenv("QCM_TEST_ENV_FILE"))

	// A missing file leaves the environment untouched.
	LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
}

func TestInitDB_UnsupportedDriver(t *testing.T) {
	_, err := InitDB(&Config{DBDriver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestInitDB_SQLite(t *testing.T) {
	db, err := InitDB(&Config{DBDriver: DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Ping())
	require.NoError(t, sqlDB.Close())
}
