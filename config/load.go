package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads .env (if present) and then the process environment.
func Load() App {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env", "err", err)
	}

	cfg := App{
		Port:           getenv("APP_PORT", "8080"),
		JWTSecret:      getenv("JWT_SECRET", "local_dev_secret"),
		RedisURL:       os.Getenv("REDIS_URL"),
		Env:            getenv("APP_ENV", "dev"),
		StoreDriver:    getenv("STORE_DRIVER", StorePostgres),
		SweepInterval:  getDuration("SWEEP_INTERVAL", time.Hour),
		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 40),
	}
	if err := cfg.validate(); err != nil {
		slog.Error("invalid config", "err", err)
		panic(err)
	}
	if cfg.StoreDriver == StorePostgres {
		cfg.DatabaseURL = must("DATABASE_URL")
	}
	return cfg
}

func (c App) validate() error {
	switch c.StoreDriver {
	case StoreMemory, StorePostgres:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreMemory, StorePostgres, c.StoreDriver)
	}
	if c.SweepInterval <= 0 {
		return errors.New("SWEEP_INTERVAL must be positive")
	}
	if c.Env == "prod" && c.JWTSecret == "local_dev_secret" {
		return errors.New("JWT_SECRET must be set in prod")
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("bad duration, using default", "key", k, "value", v, "default", def)
		return def
	}
	return d
}

func getFloat(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("bad number, using default", "key", k, "value", v, "default", def)
		return def
	}
	return f
}

func getInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("bad integer, using default", "key", k, "value", v, "default", def)
		return def
	}
	return i
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}
