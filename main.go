package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Masudcse27/bs-library-management-system/app/echoServer"
	bookctrl "github.com/Masudcse27/bs-library-management-system/app/echoServer/controller/book"
	bookingctrl "github.com/Masudcse27/bs-library-management-system/app/echoServer/controller/booking"
	borrowctrl "github.com/Masudcse27/bs-library-management-system/app/echoServer/controller/borrow"
	donationctrl "github.com/Masudcse27/bs-library-management-system/app/echoServer/controller/donation"
	settingsctrl "github.com/Masudcse27/bs-library-management-system/app/echoServer/controller/settings"
	"github.com/Masudcse27/bs-library-management-system/config"
	"github.com/Masudcse27/bs-library-management-system/model"
	lendingrepo "github.com/Masudcse27/bs-library-management-system/repository/lending"
	settingsrepo "github.com/Masudcse27/bs-library-management-system/repository/settings"
	booksvc "github.com/Masudcse27/bs-library-management-system/service/book"
	bookingsvc "github.com/Masudcse27/bs-library-management-system/service/booking"
	borrowsvc "github.com/Masudcse27/bs-library-management-system/service/borrow"
	donationsvc "github.com/Masudcse27/bs-library-management-system/service/donation"
	"github.com/Masudcse27/bs-library-management-system/service/inventory"
	settingssvc "github.com/Masudcse27/bs-library-management-system/service/settings"
	"github.com/Masudcse27/bs-library-management-system/util/database"
	"github.com/Masudcse27/bs-library-management-system/util/redisx"
)

const settingsCacheTTL = 5 * time.Minute

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	// stores
	var (
		lending  lendingrepo.Repo
		settings settingsrepo.Repo
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		log.Warn("using in-memory store, data is lost on exit")
		lending = lendingrepo.NewMemory()
		defaults := model.DefaultSettings()
		settings = settingsrepo.NewMemory(&defaults)
	default:
		db, err := database.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("db connect failed", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			log.Error("db migrate failed", "err", err)
			os.Exit(1)
		}
		lending = lendingrepo.New(db.Pool, log)
		settings = settingsrepo.New(db.Pool)
	}

	// redis is optional: without it settings are read uncached and every
	// instance sweeps on its own.
	var (
		cache  settingsrepo.Cache = settingsrepo.NopCache{}
		locker redisx.Locker      = redisx.LocalLocker{}
	)
	if cfg.RedisURL != "" {
		rdb, err := redisx.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Error("redis connect failed", "err", err)
			os.Exit(1)
		}
		defer func(c *redis.Client) { _ = c.Close() }(rdb)
		cache = settingsrepo.NewRedisCache(rdb, settingsCacheTTL)
		locker = redisx.NewLocker(rdb)
	}

	// services
	ledger := inventory.New(log)
	sets := settingssvc.New(settings, cache, log)
	queue := bookingsvc.New(lending, ledger, sets, log)
	borrows := borrowsvc.New(lending, ledger, sets, queue, log)
	books := booksvc.New(lending, ledger, log)
	donations := donationsvc.New(lending, ledger, log)

	go bookingsvc.NewSweeper(queue, locker, cfg.SweepInterval, log).Run(ctx)

	// echo
	e := echoServer.New(echoServer.MiddlewareConfig{
		Log:            log,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})
	echoServer.Register(e, echoServer.C{
		Book:      &bookctrl.Controller{Svc: books, Log: log},
		Borrow:    &borrowctrl.Controller{Svc: borrows, Log: log},
		Booking:   &bookingctrl.Controller{Svc: queue, Log: log},
		Settings:  &settingsctrl.Controller{Svc: sets, Log: log},
		Donation:  &donationctrl.Controller{Svc: donations, Log: log},
		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	go func() {
		log.Info("starting server", "port", port, "env", cfg.Env, "store", cfg.StoreDriver)
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "err", err)
	}
}
