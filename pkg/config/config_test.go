package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.DB.Driver)
	assert.Equal(t, 5*time.Second, cfg.Ledger.Timeout)
	assert.Equal(t, 1, cfg.Ledger.Retries)
	assert.Equal(t, 300*time.Second, cfg.Alerts.Interval)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.True(t, cfg.DB.PreferIPv4)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("STORE_DRIVER", "POSTGRES")
	t.Setenv("LEDGER_TIMEOUT_SECONDS", "2")
	t.Setenv("LEDGER_RETRIES", "3")
	t.Setenv("ALERT_EVAL_INTERVAL_SECONDS", "60")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("MIGRATIONS_AUTO", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorePostgres, cfg.DB.Driver)
	assert.Equal(t, 2*time.Second, cfg.Ledger.Timeout)
	assert.Equal(t, 3, cfg.Ledger.Retries)
	assert.Equal(t, time.Minute, cfg.Alerts.Interval)
	assert.True(t, cfg.Redis.Enabled())
	assert.True(t, cfg.DB.MigrationsAuto)
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mysql")
	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss:word", DBName: "fin", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss%3Aword@db:5432/fin?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}

func TestLoad_PoolInvalido(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("DB_MAX_CONNS", "4")
	t.Setenv("DB_MIN_CONNS", "8")
	_, err := Load()
	assert.Error(t, err)
}
