package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

// ErrNotConnected is returned by probes against a client whose startup check failed.
var ErrNotConnected = errors.New("mongodb connection was not established at startup")

// MongoConfig holds connection settings for the document store
type MongoConfig struct {
	URI                    string
	Database               string
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
}

// Client wraps the MongoDB handle together with the availability decided at startup.
// Availability is fixed once Connect returns; a database that recovers later is
// only picked up by restarting the process.
type Client struct {
	client    *mongo.Client
	db        *mongo.Database
	available bool
	logger    *zap.Logger
}

// Connect opens a client and pings the primary exactly once. It never fails:
// an unreachable store yields a Client with Available() == false.
func Connect(ctx context.Context, cfg MongoConfig, logger *zap.Logger) *Client {
	c := &Client{logger: logger}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		logger.Error("Failed to create MongoDB client", zap.Error(err))
		return c
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Error("MongoDB is unreachable, serving in degraded mode",
			zap.String("database", cfg.Database),
			zap.Error(err))
		if derr := client.Disconnect(ctx); derr != nil {
			logger.Warn("Failed to disconnect unreachable MongoDB client", zap.Error(derr))
		}
		return c
	}

	c.client = client
	c.db = client.Database(cfg.Database)
	c.available = true

	logger.Info("Connected to MongoDB", zap.String("database", cfg.Database))
	return c
}

// Available reports whether the startup ping succeeded.
func (c *Client) Available() bool {
	return c.available
}

// Collection returns the named collection, or nil when the store is unavailable.
func (c *Client) Collection(name string) *mongo.Collection {
	if !c.available {
		return nil
	}
	return c.db.Collection(name)
}

// Close disconnects the underlying client if one was established.
func (c *Client) Close(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	return nil
}

func (c *Client) Name() string {
	return "mongodb"
}

func (c *Client) IsCritical() bool {
	return true
}

// HealthCheck pings the live connection. It does not change Available().
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.client == nil {
		return ErrNotConnected
	}
	return c.client.Ping(ctx, readpref.Primary())
}
