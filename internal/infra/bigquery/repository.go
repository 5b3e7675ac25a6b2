package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"

	"github.com/dvloznov/finance-assistant/internal/config"
)

const (
	transactionsTable = "transactions"
	documentsTable    = "documents"
	recurringTable    = "recurring_items"
)

// Repository holds a shared BigQuery client to avoid creating a new
// connection for each operation. It implements search.Engine plus the
// insert operations the services use.
type Repository struct {
	client  *bigquery.Client
	dataset string
}

// NewRepository creates a repository with a shared BigQuery client.
func NewRepository(ctx context.Context, cfg config.BigQueryConfig) (*Repository, error) {
	client, err := bigquery.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("NewRepository: creating client: %w", err)
	}
	return &Repository{
		client:  client,
		dataset: cfg.Dataset,
	}, nil
}

// Close closes the BigQuery client connection. Call when the repository is
// no longer needed to release resources.
func (r *Repository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

func (r *Repository) table(name string) *bigquery.Table {
	return r.client.Dataset(r.dataset).Table(name)
}
