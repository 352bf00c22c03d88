package connectors

import (
	"context"
	"fmt"

	"github.com/cosmosgate/cosmosgate/core/config"
)

// Target identifies the database and container a query runs against.
// Request-supplied overrides are resolved into a Target before the
// connector is called.
type Target struct {
	Database  string
	Container string
}

// Connector is the boundary to the document store. Implementations must be
// safe for concurrent use: a single connector instance is opened at startup
// and shared read-only across request-handling goroutines.
type Connector interface {
	// Query executes the supplied query text against the target container
	// and returns all result documents in the store's return order.
	// A query with no matches returns an empty slice, not an error.
	Query(ctx context.Context, target Target, query string) ([]map[string]any, error)

	// Ping verifies the store is reachable with the configured credentials.
	Ping(ctx context.Context, target Target) error

	// Close releases the underlying client.
	Close(ctx context.Context) error
}

// New creates the connector selected by the configuration.
func New(cfg *config.Config) (Connector, error) {
	switch cfg.Connector {
	case config.ConnectorCosmos:
		return NewCosmosConnector(cfg.ConnectionString)
	case config.ConnectorMongoDB:
		return NewMongoDBConnector(cfg.ConnectionString)
	default:
		return nil, fmt.Errorf("unsupported connector %q", cfg.Connector)
	}
}
