package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "farm-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, DriverPostgres, cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "farm", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, IdempotencyBackendMemory, cfg.Idempotency.Backend)
		assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
		assert.Equal(t, 200*time.Millisecond, cfg.Telemetry.DBSlowQueryThresh)
	})

	t.Run("loads values from environment variables with FARM prefix", func(t *testing.T) {
		t.Setenv("FARM_APP_NAME", "test-app")
		t.Setenv("FARM_APP_PORT", "9000")
		t.Setenv("FARM_DATABASE_DRIVER", "sqlite")
		t.Setenv("FARM_DATABASE_SQLITE_PATH", ":memory:")
		t.Setenv("FARM_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("FARM_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("FARM_REDIS_ENABLED", "true")
		t.Setenv("FARM_IDEMPOTENCY_ENABLED", "true")
		t.Setenv("FARM_IDEMPOTENCY_BACKEND", "redis")
		t.Setenv("FARM_IDEMPOTENCY_TTL", "2h")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, DriverSQLite, cfg.Database.Driver)
		assert.Equal(t, ":memory:", cfg.Database.SQLitePath)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, IdempotencyBackendRedis, cfg.Idempotency.Backend)
		assert.Equal(t, 2*time.Hour, cfg.Idempotency.TTL)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("FARM_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("FARM_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects an unknown driver", func(t *testing.T) {
		t.Setenv("FARM_DATABASE_DRIVER", "mysql")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("redis idempotency needs redis", func(t *testing.T) {
		t.Setenv("FARM_IDEMPOTENCY_ENABLED", "true")
		t.Setenv("FARM_IDEMPOTENCY_BACKEND", "redis")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis.enabled")
	})

	t.Run("rejects sampling ratio above one", func(t *testing.T) {
		t.Setenv("FARM_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})

	t.Run("profiling needs a server address", func(t *testing.T) {
		t.Setenv("FARM_PROFILING_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "profiling.server_address")
	})

	t.Run("profiling application defaults to the service name", func(t *testing.T) {
		t.Setenv("FARM_TELEMETRY_SERVICE_NAME", "farm-edge")
		t.Setenv("FARM_TELEMETRY_LOGS_ENABLED", "true")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "farm-edge", cfg.Profiling.ApplicationName)
		assert.True(t, cfg.Telemetry.LogsEnabled)
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		t.Setenv("FARM_APP_ENV", "production")
		t.Setenv("FARM_DATABASE_PASSWORD", "secure-password")
		t.Setenv("FARM_DATABASE_SSLMODE", "require")
	}

	t.Run("requires database.password in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FARM_DATABASE_PASSWORD", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FARM_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("refuses sqlite in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FARM_DATABASE_DRIVER", "sqlite")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sqlite")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "farm.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[app]
port = "7070"

[database]
driver = "sqlite"
sqlite_path = "/tmp/farm.db"

[log]
format = "json"

[http]
cors_allow_origins = ["https://office.example.com", "http://localhost:5173"]
`), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.App.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/farm.db", cfg.Database.SQLitePath)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, []string{"https://office.example.com", "http://localhost:5173"}, cfg.HTTP.CORSAllowOrigins)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "cache:6380", RedisConfig{Host: "cache", Port: 6380}.Addr())
}
