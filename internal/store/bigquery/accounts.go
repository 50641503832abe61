package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/spendwise/spendwise/internal/domain"
	"github.com/spendwise/spendwise/internal/store"
)

type accountRow struct {
	AccountID     string                 `bigquery:"account_id"`
	UserID        string                 `bigquery:"user_id"`
	Name          string                 `bigquery:"name"`
	AccountType   string                 `bigquery:"account_type"`
	AccountNumber string                 `bigquery:"account_number"`
	Balance       float64                `bigquery:"balance"`
	CreatedTS     time.Time              `bigquery:"created_ts"`
	UpdatedTS     bigquery.NullTimestamp `bigquery:"updated_ts"`
}

const accountColumns = `account_id, user_id, name, account_type, account_number, balance, created_ts, updated_ts`

func (r *accountRow) toDomain() *domain.Account {
	account := &domain.Account{
		ID:            r.AccountID,
		UserID:        r.UserID,
		Name:          r.Name,
		Type:          domain.AccountType(r.AccountType),
		AccountNumber: r.AccountNumber,
		Balance:       store.FromColumn(r.Balance),
		CreatedAt:     r.CreatedTS,
	}
	if r.UpdatedTS.Valid {
		account.UpdatedAt = r.UpdatedTS.Timestamp
	}
	return account
}

// GetAccount fetches one account by id.
func (s *Store) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE account_id = @account_id
		LIMIT 1
	`, accountColumns, s.table("accounts")))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "account_id", Value: id},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetAccount: reading query: %w", err)
	}

	var row accountRow
	err = it.Next(&row)
	if err == iterator.Done {
		return nil, fmt.Errorf("GetAccount %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("GetAccount: iterating: %w", err)
	}
	return row.toDomain(), nil
}

// ListAccounts returns every account owned by userID, newest first.
func (s *Store) ListAccounts(ctx context.Context, userID string) ([]*domain.Account, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = @user_id
		ORDER BY created_ts DESC
	`, accountColumns, s.table("accounts")))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListAccounts: reading query: %w", err)
	}

	var accounts []*domain.Account
	for {
		var row accountRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListAccounts: iterating: %w", err)
		}
		accounts = append(accounts, row.toDomain())
	}
	return accounts, nil
}

// InsertAccount writes a new account row, including its initial balance.
func (s *Store) InsertAccount(ctx context.Context, account *domain.Account) error {
	sql := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES (@account_id, @user_id, @name, @account_type, @account_number, @balance, CURRENT_TIMESTAMP(), NULL)
	`, s.table("accounts"), accountColumns)

	params := []bigquery.QueryParameter{
		{Name: "account_id", Value: account.ID},
		{Name: "user_id", Value: account.UserID},
		{Name: "name", Value: account.Name},
		{Name: "account_type", Value: string(account.Type)},
		{Name: "account_number", Value: account.AccountNumber},
		{Name: "balance", Value: store.ToColumn(account.Balance)},
	}
	if err := s.runDML(ctx, sql, params); err != nil {
		return fmt.Errorf("InsertAccount: %w", err)
	}
	return nil
}

// UpdateAccountInfo renames or retypes an account without touching its balance.
func (s *Store) UpdateAccountInfo(ctx context.Context, id, name string, accountType domain.AccountType) error {
	sql := fmt.Sprintf(`
		UPDATE %s
		SET name = @name,
		    account_type = @account_type,
		    updated_ts = CURRENT_TIMESTAMP()
		WHERE account_id = @account_id
	`, s.table("accounts"))

	params := []bigquery.QueryParameter{
		{Name: "name", Value: name},
		{Name: "account_type", Value: string(accountType)},
		{Name: "account_id", Value: id},
	}
	if err := s.runDML(ctx, sql, params); err != nil {
		return fmt.Errorf("UpdateAccountInfo: %w", err)
	}
	return nil
}

// DeleteAccount removes an account row.
func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE account_id = @account_id`, s.table("accounts"))
	params := []bigquery.QueryParameter{
		{Name: "account_id", Value: id},
	}
	if err := s.runDML(ctx, sql, params); err != nil {
		return fmt.Errorf("DeleteAccount: %w", err)
	}
	return nil
}
