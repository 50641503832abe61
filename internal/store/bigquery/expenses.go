package bigquery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"

	"github.com/spendwise/spendwise/internal/domain"
	"github.com/spendwise/spendwise/internal/store"
)

// expenseRow mirrors the expenses table. The table keeps the original name
// even though it records income entries too; the category type carries the
// direction.
type expenseRow struct {
	ExpenseID     string              `bigquery:"expense_id"`
	UserID        string              `bigquery:"user_id"`
	Amount        float64             `bigquery:"amount"`
	CategoryID    string              `bigquery:"category_id"`
	AccountID     bigquery.NullString `bigquery:"account_id"`
	Date          civil.Date          `bigquery:"date"`
	Description   string              `bigquery:"description"`
	PaymentMethod string              `bigquery:"payment_method"`
	Tags          []string            `bigquery:"tags"`
	CreatedTS     time.Time           `bigquery:"created_ts"`
}

const expenseColumns = `expense_id, user_id, amount, category_id, account_id, date, description, payment_method, tags, created_ts`

func (r *expenseRow) toDomain() *domain.Transaction {
	tx := &domain.Transaction{
		ID:            r.ExpenseID,
		UserID:        r.UserID,
		Amount:        store.FromColumn(r.Amount),
		CategoryID:    r.CategoryID,
		Date:          r.Date,
		Description:   r.Description,
		PaymentMethod: r.PaymentMethod,
		Tags:          r.Tags,
		CreatedAt:     r.CreatedTS,
	}
	if r.AccountID.Valid {
		tx.AccountID = r.AccountID.StringVal
	}
	return tx
}

// GetTransaction fetches one transaction by id.
func (s *Store) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE expense_id = @expense_id
		LIMIT 1
	`, expenseColumns, s.table("expenses")))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "expense_id", Value: id},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetTransaction: reading query: %w", err)
	}

	var row expenseRow
	err = it.Next(&row)
	if err == iterator.Done {
		return nil, fmt.Errorf("GetTransaction %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("GetTransaction: iterating: %w", err)
	}
	return row.toDomain(), nil
}

// ListTransactions returns transactions matching the filter, newest date
// first. The user filter is mandatory for owner scoping.
func (s *Store) ListTransactions(ctx context.Context, filter store.TransactionFilter) ([]*domain.Transaction, error) {
	if filter.UserID == "" {
		return nil, fmt.Errorf("ListTransactions: user filter is required")
	}

	var (
		where  = []string{"user_id = @user_id"}
		params = []bigquery.QueryParameter{{Name: "user_id", Value: filter.UserID}}
	)
	if filter.CategoryID != "" {
		where = append(where, "category_id = @category_id")
		params = append(params, bigquery.QueryParameter{Name: "category_id", Value: filter.CategoryID})
	}
	if filter.From.IsValid() {
		where = append(where, "date >= @from_date")
		params = append(params, bigquery.QueryParameter{Name: "from_date", Value: filter.From})
	}
	if filter.To.IsValid() {
		where = append(where, "date <= @to_date")
		params = append(params, bigquery.QueryParameter{Name: "to_date", Value: filter.To})
	}

	sql := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s
		ORDER BY date DESC, created_ts DESC
	`, expenseColumns, s.table("expenses"), strings.Join(where, " AND "))
	if filter.Limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	q := s.client.Query(sql)
	q.Parameters = params

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListTransactions: reading query: %w", err)
	}

	var transactions []*domain.Transaction
	for {
		var row expenseRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListTransactions: iterating: %w", err)
		}
		transactions = append(transactions, row.toDomain())
	}
	return transactions, nil
}
