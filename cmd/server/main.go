package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HammerMeetNail/chatcore/internal/config"
	"github.com/HammerMeetNail/chatcore/internal/database"
	"github.com/HammerMeetNail/chatcore/internal/handlers"
	"github.com/HammerMeetNail/chatcore/internal/logging"
	"github.com/HammerMeetNail/chatcore/internal/middleware"
	"github.com/HammerMeetNail/chatcore/internal/store"
)

func main() {
	if err := run(); err != nil {
		logging.Error("Application error", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func run() error {
	logger := logging.New()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.Server.Debug {
		logger.SetLevel(logging.LevelDebug)
		logging.SetDefaultLevel(logging.LevelDebug)
		logger.Debug("Debug logging enabled", map[string]interface{}{"env": cfg.Server.Environment})
	}

	logger.Info("Starting chatcore server...", map[string]interface{}{"backend": cfg.Store.Backend})

	var redisDB *database.RedisDB
	if cfg.UsesRedis() {
		logger.Info("Connecting to Redis", map[string]interface{}{"addr": cfg.Redis.Addr()})
		redisDB, err = database.NewRedisDB(cfg.Redis)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer func() { _ = redisDB.Close() }()
		logger.Info("Connected to Redis")
	}

	backend, err := openStorage(cfg, redisDB, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	st := store.New(backend.backend,
		store.WithCorruptionPolicy(store.CorruptionPolicy(cfg.Store.OnCorrupt)),
		store.WithLogger(logger.WithField("component", "store")),
	)

	a := newApp(st, cfg.Auth)
	if err := bootstrapAdmin(context.Background(), a, cfg.Auth, logger); err != nil {
		return err
	}

	checks := map[string]handlers.HealthChecker{"store": backend.health}
	var loginLimiter *middleware.RateLimiter
	if redisDB != nil {
		checks["redis"] = redisDB
		loginLimiter = middleware.NewLoginRateLimiter(redisDB.Client, cfg.Auth.LoginLimit)
	}

	handler := newRouter(a, routerOptions{
		health:       handlers.NewHealthHandler(checks),
		loginLimiter: loginLimiter,
		logger:       logger,
		secure:       cfg.Server.Secure,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan struct{})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Could not gracefully shutdown the server", map[string]interface{}{
				"error": err.Error(),
			})
		}
		close(done)
	}()

	logger.Info("Server listening", map[string]interface{}{"addr": addr})
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	<-done
	logger.Info("Server stopped")
	return nil
}

// bootstrapAdmin creates or promotes the configured admin account.
func bootstrapAdmin(ctx context.Context, a *app, authCfg config.AuthConfig, logger *logging.Logger) error {
	if authCfg.AdminUsername == "" {
		return nil
	}

	hash := ""
	if authCfg.AdminPassword != "" {
		var err error
		if hash, err = a.auth.HashPassword(authCfg.AdminPassword); err != nil {
			return fmt.Errorf("hashing admin password: %w", err)
		}
	}

	admin, err := a.users.EnsureAdmin(ctx, authCfg.AdminUsername, hash)
	if err != nil {
		return fmt.Errorf("ensuring admin account: %w", err)
	}
	logger.Info("Admin account ready", map[string]interface{}{
		"user_id":  admin.ID,
		"username": admin.Username,
	})
	return nil
}
