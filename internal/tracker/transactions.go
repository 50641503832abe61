package tracker

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/spendwise/spendwise/internal/domain"
	"github.com/spendwise/spendwise/internal/ledger"
	"github.com/spendwise/spendwise/internal/store"
)

// CreateTransaction records a new transaction and adjusts the linked
// account's balance in one atomic write. Insufficient funds reject the whole
// operation before anything is persisted.
func (s *Service) CreateTransaction(ctx context.Context, in TransactionInput) (*domain.Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	category, err := s.categories.GetCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("CreateTransaction: loading category: %w", err)
	}
	account, err := s.accounts.GetAccount(ctx, in.AccountID)
	if err != nil {
		return nil, fmt.Errorf("CreateTransaction: loading account: %w", err)
	}

	write, err := ledger.CreateEffect(in.Amount, category.Type, account)
	if err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		ID:            uuid.NewString(),
		UserID:        in.UserID,
		Amount:        in.Amount,
		CategoryID:    in.CategoryID,
		AccountID:     in.AccountID,
		Date:          in.Date,
		Description:   in.Description,
		PaymentMethod: in.paymentMethod(),
		Tags:          in.Tags,
	}

	plan := store.WritePlan{
		InsertTransaction: tx,
		BalanceWrites:     []ledger.BalanceWrite{write},
	}
	if err := s.plans.ApplyPlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("CreateTransaction: applying plan: %w", err)
	}

	s.log.Info().
		Str("transaction_id", tx.ID).
		Str("account_id", account.ID).
		Str("category_type", string(category.Type)).
		Str("amount", in.Amount.String()).
		Msg("Transaction recorded")
	return tx, nil
}

// UpdateTransaction edits an existing transaction. Same-account edits apply
// the net delta; moving the transaction to another account reverses the old
// effect and applies the new one, all committed atomically with the record
// update.
func (s *Service) UpdateTransaction(ctx context.Context, id string, in TransactionInput) (*domain.Transaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	current, err := s.transactions.GetTransaction(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("UpdateTransaction: loading transaction: %w", err)
	}
	currentCategory, err := s.categories.GetCategory(ctx, current.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("UpdateTransaction: loading current category: %w", err)
	}
	newCategory, err := s.categories.GetCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("UpdateTransaction: loading category: %w", err)
	}

	var oldAccount *domain.Account
	if current.AccountID != "" {
		oldAccount, err = s.accounts.GetAccount(ctx, current.AccountID)
		if err != nil {
			return nil, fmt.Errorf("UpdateTransaction: loading current account: %w", err)
		}
	}
	newAccount := oldAccount
	if current.AccountID != in.AccountID {
		newAccount, err = s.accounts.GetAccount(ctx, in.AccountID)
		if err != nil {
			return nil, fmt.Errorf("UpdateTransaction: loading account: %w", err)
		}
	}

	plan, err := ledger.UpdateEffect(
		ledger.Leg{Amount: current.Amount, CategoryType: currentCategory.Type, AccountID: current.AccountID},
		ledger.Leg{Amount: in.Amount, CategoryType: newCategory.Type, AccountID: in.AccountID},
		oldAccount, newAccount,
	)
	if err != nil {
		return nil, err
	}

	updated := &domain.Transaction{
		ID:            current.ID,
		UserID:        current.UserID,
		Amount:        in.Amount,
		CategoryID:    in.CategoryID,
		AccountID:     in.AccountID,
		Date:          in.Date,
		Description:   in.Description,
		PaymentMethod: in.paymentMethod(),
		Tags:          in.Tags,
		CreatedAt:     current.CreatedAt,
	}

	writePlan := store.WritePlan{
		UpdateTransaction: updated,
		BalanceWrites:     plan.Writes,
	}
	if err := s.plans.ApplyPlan(ctx, writePlan); err != nil {
		return nil, fmt.Errorf("UpdateTransaction: applying plan: %w", err)
	}

	s.log.Info().
		Str("transaction_id", id).
		Bool("account_changed", current.AccountID != in.AccountID).
		Int("balance_writes", len(plan.Writes)).
		Msg("Transaction updated")
	return updated, nil
}

// DeleteTransaction removes a transaction and reverses exactly the balance
// effect it originally applied. The reversal is unguarded: removing recorded
// income may leave the account negative, which is accepted as a correction.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	tx, err := s.transactions.GetTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("DeleteTransaction: loading transaction: %w", err)
	}

	plan := store.WritePlan{DeleteTransactionID: id}
	if tx.AccountID != "" {
		category, err := s.categories.GetCategory(ctx, tx.CategoryID)
		if err != nil {
			return fmt.Errorf("DeleteTransaction: loading category: %w", err)
		}
		account, err := s.accounts.GetAccount(ctx, tx.AccountID)
		if err != nil {
			return fmt.Errorf("DeleteTransaction: loading account: %w", err)
		}
		plan.BalanceWrites = []ledger.BalanceWrite{
			ledger.DeleteEffect(tx.Amount, category.Type, account),
		}
	}

	if err := s.plans.ApplyPlan(ctx, plan); err != nil {
		return fmt.Errorf("DeleteTransaction: applying plan: %w", err)
	}

	s.log.Info().
		Str("transaction_id", id).
		Bool("balance_reversed", len(plan.BalanceWrites) > 0).
		Msg("Transaction deleted")
	return nil
}

// GetTransaction fetches one transaction.
func (s *Service) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return s.transactions.GetTransaction(ctx, id)
}

// ListTransactions lists transactions for the filter.
func (s *Service) ListTransactions(ctx context.Context, filter store.TransactionFilter) ([]*domain.Transaction, error) {
	return s.transactions.ListTransactions(ctx, filter)
}
