package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_MemoryDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", StoreMemory)
	t.Setenv("SWEEP_INTERVAL", "")
	t.Setenv("RATE_LIMIT_RPS", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("JWT_SECRET", "")

	cfg := Load()
	require.Equal(t, StoreMemory, cfg.StoreDriver)
	require.Equal(t, time.Hour, cfg.SweepInterval)
	require.Equal(t, 20.0, cfg.RateLimitRPS)
	require.Equal(t, "dev", cfg.Env)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", StorePostgres)
	t.Setenv("DATABASE_URL", "postgres://localhost/library")
	t.Setenv("SWEEP_INTERVAL", "15m")
	t.Setenv("RATE_LIMIT_BURST", "nope")

	cfg := Load()
	require.Equal(t, "postgres://localhost/library", cfg.DatabaseURL)
	require.Equal(t, 15*time.Minute, cfg.SweepInterval)
	require.Equal(t, 40, cfg.RateLimitBurst)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	require.Panics(t, func() { Load() })

	t.Setenv("STORE_DRIVER", StorePostgres)
	t.Setenv("DATABASE_URL", "")
	require.Panics(t, func() { Load() })

	t.Setenv("STORE_DRIVER", StoreMemory)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_SECRET", "")
	require.Panics(t, func() { Load() })
}
