package bigquery

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"

	"github.com/spendwise/spendwise/internal/ledger"
	"github.com/spendwise/spendwise/internal/store"
)

// ApplyPlan commits one transaction mutation together with its balance
// writes as a single multi-statement BigQuery transaction. Either every
// statement lands or none do, which is what keeps the ledger invariant safe
// across the sequential writes the orchestrator needs.
func (s *Store) ApplyPlan(ctx context.Context, plan store.WritePlan) error {
	var (
		statements []string
		params     []bigquery.QueryParameter
	)

	switch {
	case plan.InsertTransaction != nil:
		tx := plan.InsertTransaction
		statements = append(statements, fmt.Sprintf(`
			INSERT INTO %s (%s)
			VALUES (@expense_id, @user_id, @amount, @category_id, @account_id, @date, @description, @payment_method, @tags, CURRENT_TIMESTAMP());
		`, s.table("expenses"), expenseColumns))
		params = append(params,
			bigquery.QueryParameter{Name: "expense_id", Value: tx.ID},
			bigquery.QueryParameter{Name: "user_id", Value: tx.UserID},
			bigquery.QueryParameter{Name: "amount", Value: store.ToColumn(tx.Amount)},
			bigquery.QueryParameter{Name: "category_id", Value: tx.CategoryID},
			bigquery.QueryParameter{Name: "account_id", Value: nullableID(tx.AccountID)},
			bigquery.QueryParameter{Name: "date", Value: tx.Date},
			bigquery.QueryParameter{Name: "description", Value: tx.Description},
			bigquery.QueryParameter{Name: "payment_method", Value: tx.PaymentMethod},
			bigquery.QueryParameter{Name: "tags", Value: tagsValue(tx.Tags)},
		)

	case plan.UpdateTransaction != nil:
		tx := plan.UpdateTransaction
		statements = append(statements, fmt.Sprintf(`
			UPDATE %s
			SET amount = @amount,
			    category_id = @category_id,
			    account_id = @account_id,
			    date = @date,
			    description = @description,
			    payment_method = @payment_method,
			    tags = @tags
			WHERE expense_id = @expense_id;
		`, s.table("expenses")))
		params = append(params,
			bigquery.QueryParameter{Name: "amount", Value: store.ToColumn(tx.Amount)},
			bigquery.QueryParameter{Name: "category_id", Value: tx.CategoryID},
			bigquery.QueryParameter{Name: "account_id", Value: nullableID(tx.AccountID)},
			bigquery.QueryParameter{Name: "date", Value: tx.Date},
			bigquery.QueryParameter{Name: "description", Value: tx.Description},
			bigquery.QueryParameter{Name: "payment_method", Value: tx.PaymentMethod},
			bigquery.QueryParameter{Name: "tags", Value: tagsValue(tx.Tags)},
			bigquery.QueryParameter{Name: "expense_id", Value: tx.ID},
		)

	case plan.DeleteTransactionID != "":
		statements = append(statements, fmt.Sprintf(`
			DELETE FROM %s WHERE expense_id = @expense_id;
		`, s.table("expenses")))
		params = append(params,
			bigquery.QueryParameter{Name: "expense_id", Value: plan.DeleteTransactionID},
		)

	default:
		return fmt.Errorf("ApplyPlan: plan has no transaction mutation")
	}

	balanceStmts, balanceParams := s.balanceStatements(plan.BalanceWrites)
	statements = append(statements, balanceStmts...)
	params = append(params, balanceParams...)

	if err := s.runDML(ctx, wrapTransaction(statements), params); err != nil {
		return fmt.Errorf("ApplyPlan: %w", err)
	}
	return nil
}

// ApplyBalances commits standalone balance writes (transfer, add funds)
// atomically.
func (s *Store) ApplyBalances(ctx context.Context, writes []ledger.BalanceWrite) error {
	if len(writes) == 0 {
		return nil
	}
	statements, params := s.balanceStatements(writes)
	if err := s.runDML(ctx, wrapTransaction(statements), params); err != nil {
		return fmt.Errorf("ApplyBalances: %w", err)
	}
	return nil
}

func (s *Store) balanceStatements(writes []ledger.BalanceWrite) ([]string, []bigquery.QueryParameter) {
	var (
		statements []string
		params     []bigquery.QueryParameter
	)
	for i, write := range writes {
		statements = append(statements, fmt.Sprintf(`
			UPDATE %s
			SET balance = @balance_%d,
			    updated_ts = CURRENT_TIMESTAMP()
			WHERE account_id = @balance_account_%d;
		`, s.table("accounts"), i, i))
		params = append(params,
			bigquery.QueryParameter{Name: fmt.Sprintf("balance_%d", i), Value: store.ToColumn(write.NewBalance)},
			bigquery.QueryParameter{Name: fmt.Sprintf("balance_account_%d", i), Value: write.AccountID},
		)
	}
	return statements, params
}

func wrapTransaction(statements []string) string {
	return "BEGIN TRANSACTION;\n" + strings.Join(statements, "\n") + "\nCOMMIT TRANSACTION;"
}

func nullableID(id string) bigquery.NullString {
	return bigquery.NullString{StringVal: id, Valid: id != ""}
}

func tagsValue(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
