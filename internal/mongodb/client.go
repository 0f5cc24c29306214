// Package mongodb holds the MongoDB-backed agent and session stores.
package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	DefaultDatabase = "agent_portal"

	agentsCollection   = "agents"
	sessionsCollection = "sessions"
	countersCollection = "counters"
)

// Connect opens a client for uri and verifies it against the primary.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10*time.Second))
	if err != nil {
		return nil, fmt.Errorf("unable to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("unable to ping mongodb: %w", err)
	}

	slog.Info("Connected to MongoDB")
	return client, nil
}

// EnsureIndexes creates the unique login name index and the session TTL index.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(agentsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "login_name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("login_name_unique"),
	})
	if err != nil {
		return fmt.Errorf("create agents index: %w", err)
	}

	_, err = db.Collection(sessionsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0).SetName("expires_at_ttl"),
	})
	if err != nil {
		return fmt.Errorf("create sessions index: %w", err)
	}

	slog.Info("MongoDB indexes are ready", "database", db.Name())
	return nil
}
