package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"meetly/core/cache"
	"meetly/core/config"
	"meetly/core/database"
	"meetly/core/logger"
	"meetly/core/middleware"
	"meetly/core/storage"
	"meetly/core/worker"
	"meetly/modules/analytics"
	"meetly/modules/auth"
	"meetly/modules/availability"
	"meetly/modules/event"
	"meetly/modules/integration"
	"meetly/modules/meeting"
	"meetly/modules/notification"
)

const shutdownTimeout = 10 * time.Second

// Run boots the whole application: config, logging, Postgres, Redis, the
// background worker and the HTTP server, then blocks until a shutdown
// signal arrives.
func Run() error {
	// Missing .env is fine, config falls back to real env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.Server.LogLevel, cfg.Server.Pretty)

	db, err := database.InitDB(database.DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return err
	}

	c, err := cache.NewCache(cfg.Redis)
	if err != nil {
		return err
	}
	defer c.Close()

	w := worker.New(cfg.Redis)
	store := storage.NewStorage(cfg.AWS)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	mw := middleware.NewMiddleware(c)
	api := e.Group("/api/v1")

	// Availability goes first: meeting booking validates slots through its
	// service.
	availabilitySvc := availability.Init(api, db, mw)
	auth.Init(api, db, mw, c, store)
	event.Init(api, db, mw)
	meeting.Init(api, db, mw, availabilitySvc, c, w)
	integration.Init(api, db, mw, c, w)
	notification.Init(api, db, mw, w)
	analytics.Init(api, db, mw)

	if err := w.Start(); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Start", "error", err)
		}
	}()
	logger.Info("Server started", "host", cfg.Server.Host, "port", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	w.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}
