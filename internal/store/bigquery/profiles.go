package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/spendwise/spendwise/internal/domain"
)

type profileRow struct {
	UserID    string    `bigquery:"user_id"`
	FullName  string    `bigquery:"full_name"`
	Currency  string    `bigquery:"currency"`
	UpdatedTS time.Time `bigquery:"updated_ts"`
}

// GetProfile fetches the profile for userID.
func (s *Store) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT user_id, full_name, currency, updated_ts
		FROM %s
		WHERE user_id = @user_id
		LIMIT 1
	`, s.table("profiles")))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetProfile: reading query: %w", err)
	}

	var row profileRow
	err = it.Next(&row)
	if err == iterator.Done {
		return nil, fmt.Errorf("GetProfile %s: %w", userID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("GetProfile: iterating: %w", err)
	}
	return &domain.Profile{
		UserID:    row.UserID,
		FullName:  row.FullName,
		Currency:  row.Currency,
		UpdatedAt: row.UpdatedTS,
	}, nil
}

// UpsertProfile writes the profile row, replacing any previous one.
func (s *Store) UpsertProfile(ctx context.Context, profile *domain.Profile) error {
	sql := fmt.Sprintf(`
		MERGE %s target
		USING (SELECT @user_id AS user_id) source
		ON target.user_id = source.user_id
		WHEN MATCHED THEN
			UPDATE SET full_name = @full_name, currency = @currency, updated_ts = CURRENT_TIMESTAMP()
		WHEN NOT MATCHED THEN
			INSERT (user_id, full_name, currency, updated_ts)
			VALUES (@user_id, @full_name, @currency, CURRENT_TIMESTAMP())
	`, s.table("profiles"))

	params := []bigquery.QueryParameter{
		{Name: "user_id", Value: profile.UserID},
		{Name: "full_name", Value: profile.FullName},
		{Name: "currency", Value: profile.Currency},
	}
	if err := s.runDML(ctx, sql, params); err != nil {
		return fmt.Errorf("UpsertProfile: %w", err)
	}
	return nil
}
