// Package bigquery implements the data store contracts against a BigQuery
// dataset with four tables: accounts, categories, expenses and profiles.
// All filtered reads are scoped by user_id; every query is parameterized.
package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
)

// Store talks to one BigQuery dataset. It implements store.AccountStore,
// store.CategoryStore, store.TransactionStore, store.ProfileStore,
// store.PlanApplier and store.BalanceAdjuster.
type Store struct {
	client    *bigquery.Client
	projectID string
	datasetID string
}

// New creates a Store with its own BigQuery client.
func New(ctx context.Context, projectID, datasetID string) (*Store, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("bigquery.New: creating client: %w", err)
	}
	return NewWithClient(client, projectID, datasetID), nil
}

// NewWithClient wraps an existing client, which the caller owns.
func NewWithClient(client *bigquery.Client, projectID, datasetID string) *Store {
	return &Store{client: client, projectID: projectID, datasetID: datasetID}
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// table returns the fully qualified, backquoted table reference.
func (s *Store) table(name string) string {
	return fmt.Sprintf("`%s.%s.%s`", s.projectID, s.datasetID, name)
}

// runDML executes a statement (or multi-statement script) and waits for it.
func (s *Store) runDML(ctx context.Context, sql string, params []bigquery.QueryParameter) error {
	q := s.client.Query(sql)
	q.Parameters = params

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("running query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("job error: %w", err)
	}
	return nil
}
