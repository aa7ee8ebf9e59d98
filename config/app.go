package config

import "time"

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type App struct {
	Port           string        `env:"APP_PORT" default:"8080"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	JWTSecret      string        `env:"JWT_SECRET" default:"local_dev_secret"`
	RedisURL       string        `env:"REDIS_URL"`
	Env            string        `env:"APP_ENV" default:"dev"`
	StoreDriver    string        `env:"STORE_DRIVER" default:"postgres"`
	SweepInterval  time.Duration `env:"SWEEP_INTERVAL" default:"1h"`
	RateLimitRPS   float64       `env:"RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst int           `env:"RATE_LIMIT_BURST" default:"40"`
}
