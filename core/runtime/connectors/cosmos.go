package connectors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"

	"github.com/cosmosgate/cosmosgate/core/logger"
	apperrors "github.com/cosmosgate/cosmosgate/core/shared/errors"
)

// CosmosConnector implements the Connector interface for the Cosmos DB
// SQL API.
type CosmosConnector struct {
	client *azcosmos.Client
}

// NewCosmosConnector creates a Cosmos DB connector from an account
// connection string. The SDK client manages its own connections; no
// pooling happens here.
func NewCosmosConnector(connectionString string) (*CosmosConnector, error) {
	log := logger.New("connector:cosmos")
	log.Debug("Opening Cosmos DB client")

	// One attempt per request; retrying is the caller's responsibility.
	opts := &azcosmos.ClientOptions{
		ClientOptions: policy.ClientOptions{
			Retry: policy.RetryOptions{MaxRetries: -1},
		},
	}
	client, err := azcosmos.NewClientFromConnectionString(connectionString, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create cosmos client: %w", err)
	}

	log.Debug("Cosmos DB client opened successfully")
	return &CosmosConnector{client: client}, nil
}

// Query executes the SQL query cross-partition against the target container
// and drains all result pages, preserving the store's return order.
func (c *CosmosConnector) Query(ctx context.Context, target Target, query string) ([]map[string]any, error) {
	container, err := c.client.NewContainer(target.Database, target.Container)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeInternalError, "failed to resolve target container", err)
	}

	// An empty partition key makes the query span all partitions.
	pager := container.NewQueryItemsPager(query, azcosmos.NewPartitionKey(), nil)

	results := make([]map[string]any, 0)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, mapCosmosError(err)
		}
		for _, raw := range page.Items {
			var doc map[string]any
			if err := json.Unmarshal(raw, &doc); err != nil {
				return nil, apperrors.New(apperrors.ErrCodeInternalError, "failed to decode document returned by the store", err)
			}
			results = append(results, doc)
		}
	}
	return results, nil
}

// Ping reads the target database to verify reachability and credentials.
func (c *CosmosConnector) Ping(ctx context.Context, target Target) error {
	database, err := c.client.NewDatabase(target.Database)
	if err != nil {
		return apperrors.New(apperrors.ErrCodeInternalError, "failed to resolve target database", err)
	}
	if _, err := database.Read(ctx, nil); err != nil {
		return mapCosmosError(err)
	}
	return nil
}

// Close is a no-op: the Cosmos client is HTTP-based and holds no
// long-lived connections of its own to release.
func (c *CosmosConnector) Close(ctx context.Context) error {
	return nil
}

// mapCosmosError converts SDK failures into the application error taxonomy.
// Store-reported statuses (404/408/401/403 and query rejections) flow
// through to the HTTP response.
func mapCosmosError(err error) error {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.StatusCode {
		case http.StatusNotFound:
			return apperrors.NewWithStatus(apperrors.ErrCodeNotFound,
				"database, container or host not found; check connection string and identifiers",
				respErr.StatusCode, err).WithDetails(respErr.ErrorCode)
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperrors.NewWithStatus(apperrors.ErrCodeUnauthorized,
				"the provided credentials cannot serve the request; check connection string",
				respErr.StatusCode, err).WithDetails(respErr.ErrorCode)
		case http.StatusRequestTimeout:
			return apperrors.NewWithStatus(apperrors.ErrCodeTimeout,
				"request to the store timed out",
				respErr.StatusCode, err).WithDetails(respErr.ErrorCode)
		default:
			return apperrors.NewWithStatus(apperrors.ErrCodeQueryFailed,
				"the store rejected the query; check details",
				respErr.StatusCode, err).WithDetails(respErr.ErrorCode)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.New(apperrors.ErrCodeTimeout, "request to the store timed out", err)
	}
	return apperrors.New(apperrors.ErrCodeConnectionFailed, "failed to reach the store", err)
}
