// Package mongo stores uploaded images in GridFS and keeps the domain event
// audit log.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/storefront/commerce-api/internal/pkg/config"
)

const (
	appName        = "storefront-api"
	defaultTimeout = 10 * time.Second
)

// Store is a connected client bound to the storefront database.
type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

// Connect dials cfg.URI and pings the primary before returning.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	timeout := timeoutOf(cfg)

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &Store{client: client, db: client.Database(cfg.Database), timeout: timeout}, nil
}

func timeoutOf(cfg config.MongoConfig) time.Duration {
	if cfg.Timeout <= 0 {
		return defaultTimeout
	}
	return cfg.Timeout
}

func clientOptions(cfg config.MongoConfig) *options.ClientOptions {
	timeout := timeoutOf(cfg)
	return options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
}

// Database returns the storefront database handle.
func (s *Store) Database() *mongo.Database { return s.db }

// Ping reports whether the primary answers, for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects, waiting at most the configured timeout.
func (s *Store) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}
