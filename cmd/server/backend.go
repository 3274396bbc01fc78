package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/HammerMeetNail/chatcore/internal/config"
	"github.com/HammerMeetNail/chatcore/internal/database"
	"github.com/HammerMeetNail/chatcore/internal/handlers"
	"github.com/HammerMeetNail/chatcore/internal/logging"
	"github.com/HammerMeetNail/chatcore/internal/store"
)

// storage is an opened store backend plus the checks and cleanup it needs.
type storage struct {
	backend store.Backend
	health  handlers.HealthChecker
	closers []func()
}

func (s *storage) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// openStorage connects the configured backend and applies its migrations.
// redisDB is only used by the redis backend.
func openStorage(cfg *config.Config, redisDB *database.RedisDB, logger *logging.Logger) (*storage, error) {
	switch cfg.Store.Backend {
	case "file":
		backend, err := store.NewFileBackend(cfg.Store.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening data dir: %w", err)
		}
		logger.Info("Using file store", map[string]interface{}{"dir": cfg.Store.DataDir})
		return &storage{backend: backend, health: backend}, nil

	case "postgres":
		logger.Info("Connecting to PostgreSQL", map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
		})
		db, err := database.NewPostgresDB(cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		if err := migrate(cfg.Database.DSN(), database.PostgresMigrations, cfg.Store.MigrationsDir, logger); err != nil {
			db.Close()
			return nil, err
		}
		return &storage{
			backend: store.NewPostgresBackend(db.Pool),
			health:  db,
			closers: []func(){db.Close},
		}, nil

	case "sqlite":
		logger.Info("Opening SQLite", map[string]interface{}{"path": cfg.Store.SQLitePath})
		db, err := database.NewSQLiteDB(cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite: %w", err)
		}
		if err := migrate(database.SQLiteMigrationURL(cfg.Store.SQLitePath), database.SQLiteMigrations, cfg.Store.MigrationsDir, logger); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &storage{
			backend: store.NewSQLiteBackend(db.DB),
			health:  db,
			closers: []func(){func() { _ = db.Close() }},
		}, nil

	case "redis":
		if redisDB == nil {
			return nil, fmt.Errorf("redis store backend requires a redis connection")
		}
		logger.Info("Using redis store", map[string]interface{}{"prefix": cfg.Store.RedisPrefix})
		return &storage{
			backend: store.NewRedisBackend(redisDB.Client, cfg.Store.RedisPrefix),
			health:  redisDB,
		}, nil

	case "mongo":
		logger.Info("Connecting to MongoDB", map[string]interface{}{"database": cfg.Mongo.Database})
		db, err := database.NewMongoDB(cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, fmt.Errorf("connecting to mongo: %w", err)
		}
		return &storage{
			backend: store.NewMongoBackend(db.Database),
			health:  db,
			closers: []func(){func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = db.Close(ctx)
			}},
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Store.Backend)
}

// migrate applies the embedded migrations in dir, or the matching
// subdirectory of overrideDir when one is configured.
func migrate(dsn, dir, overrideDir string, logger *logging.Logger) error {
	var (
		migrator *database.Migrator
		err      error
	)
	if overrideDir != "" {
		path := filepath.Join(overrideDir, filepath.Base(dir))
		logger.Info("Running database migrations...", map[string]interface{}{"source": path})
		migrator, err = database.NewMigrator(dsn, path)
	} else {
		logger.Info("Running database migrations...", map[string]interface{}{"source": dir})
		migrator, err = database.NewEmbeddedMigrator(dsn, dir)
	}
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer func() { _ = migrator.Close() }()
	if err := migrator.Up(); err != nil {
		return err
	}
	logger.Info("Migrations completed")
	return nil
}
