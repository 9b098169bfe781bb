package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"storefront/pkg/config"
	"storefront/pkg/logger"
)

// Collection names used across the repositories.
const (
	CollectionUsers      = "users"
	CollectionProducts   = "products"
	CollectionCategories = "categories"
	CollectionCarts      = "carts"
	CollectionOrders     = "orders"
)

// Client wraps the shared mongo connection and the application database.
type Client struct {
	conn *mongo.Client
	db   *mongo.Database
}

// Pinger exposes the health check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// New boots a mongo client using the provided configuration and verifies
// the deployment is reachable before returning.
func New(ctx context.Context, cfg config.MongoConfig, logg *logger.Logger) (*Client, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo URI is required")
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize)

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	conn, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	if err := conn.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = conn.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "mongo connection established")
	}

	return &Client{
		conn: conn,
		db:   conn.Database(cfg.Database),
	}, nil
}

// Database returns the application database handle.
func (c *Client) Database() *mongo.Database {
	return c.db
}

// Collection returns a collection handle from the application database.
func (c *Client) Collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}

// Ping verifies the datasource is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx, readpref.Primary())
}

// Close shuts down the pooled connections.
func (c *Client) Close(ctx context.Context) error {
	return c.conn.Disconnect(ctx)
}
