package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/EternisAI/agent-portal/internal/agents"
	"github.com/EternisAI/agent-portal/internal/db"
	"github.com/EternisAI/agent-portal/internal/mongodb"
	"github.com/EternisAI/agent-portal/internal/session"
)

// storage bundles the stores for the configured database driver.
type storage struct {
	agents   agents.Store
	sessions session.Store
	ping     func(ctx context.Context) error
	// cleanup runs until ctx is done; nil when the backend expires sessions itself.
	cleanup func(ctx context.Context, interval time.Duration)
	close   func(ctx context.Context)
}

func openStorage(ctx context.Context, cfg db.Config) (*storage, error) {
	switch cfg.Driver {
	case db.DriverMongo:
		return openMongo(ctx, cfg)
	case db.DriverPostgres:
		return openPostgres(ctx, cfg)
	case db.DriverMemory:
		slog.Warn("Using in-memory storage, data is lost on restart")
		sessions := session.NewMemoryStore()
		return &storage{
			agents:   agents.NewMemoryStore(),
			sessions: sessions,
			cleanup:  sessions.StartCleanup,
			close:    func(context.Context) {},
		}, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func openMongo(ctx context.Context, cfg db.Config) (*storage, error) {
	client, err := mongodb.Connect(ctx, cfg.Url)
	if err != nil {
		return nil, err
	}

	name := cfg.Name
	if name == "" {
		name = mongodb.DefaultDatabase
	}
	database := client.Database(name)
	if err := mongodb.EnsureIndexes(ctx, database); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &storage{
		agents:   mongodb.NewAgentStore(database),
		sessions: mongodb.NewSessionStore(database),
		ping:     func(ctx context.Context) error { return client.Ping(ctx, nil) },
		close: func(ctx context.Context) {
			if err := client.Disconnect(ctx); err != nil {
				slog.Error("MongoDB disconnect error", "error", err)
			}
		},
	}, nil
}

func openPostgres(ctx context.Context, cfg db.Config) (*storage, error) {
	if err := db.RunMigrations(cfg.Url, cfg.Schema); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	pool, err := db.InitDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sessions := db.NewSessionStore(pool)
	return &storage{
		agents:   db.NewAgentStore(pool),
		sessions: sessions,
		ping:     pool.Ping,
		cleanup:  sessions.StartCleanup,
		close:    func(context.Context) { pool.Close() },
	}, nil
}
