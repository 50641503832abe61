package tracker

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spendwise/spendwise/internal/domain"
	"github.com/spendwise/spendwise/internal/ledger"
)

// CreateAccount opens a new account with an explicit initial balance. The
// balance is mutated afterwards only through ledger-computed writes.
func (s *Service) CreateAccount(ctx context.Context, userID, name string, accountType domain.AccountType, initialBalance decimal.Decimal) (*domain.Account, error) {
	if name == "" {
		return nil, domain.NewValidationError("name", "account name is required")
	}
	if !accountType.Valid() {
		return nil, domain.NewValidationError("type", fmt.Sprintf("unknown account type %q", accountType))
	}
	if initialBalance.IsNegative() {
		return nil, domain.NewValidationError("balance", "initial balance cannot be negative")
	}

	account := &domain.Account{
		ID:            uuid.NewString(),
		UserID:        userID,
		Name:          name,
		Type:          accountType,
		AccountNumber: generateAccountNumber(accountType),
		Balance:       initialBalance,
	}
	if err := s.accounts.InsertAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("CreateAccount: %w", err)
	}

	s.log.Info().
		Str("account_id", account.ID).
		Str("type", string(accountType)).
		Str("initial_balance", initialBalance.String()).
		Msg("Account created")
	return account, nil
}

// UpdateAccount renames or retypes an account. Balances are never edited
// this way.
func (s *Service) UpdateAccount(ctx context.Context, id, name string, accountType domain.AccountType) error {
	if name == "" {
		return domain.NewValidationError("name", "account name is required")
	}
	if !accountType.Valid() {
		return domain.NewValidationError("type", fmt.Sprintf("unknown account type %q", accountType))
	}
	if _, err := s.accounts.GetAccount(ctx, id); err != nil {
		return fmt.Errorf("UpdateAccount: %w", err)
	}
	if err := s.accounts.UpdateAccountInfo(ctx, id, name, accountType); err != nil {
		return fmt.Errorf("UpdateAccount: %w", err)
	}
	return nil
}

// DeleteAccount removes an account.
func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	if err := s.accounts.DeleteAccount(ctx, id); err != nil {
		return fmt.Errorf("DeleteAccount: %w", err)
	}
	s.log.Info().Str("account_id", id).Msg("Account deleted")
	return nil
}

// GetAccount fetches one account.
func (s *Service) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return s.accounts.GetAccount(ctx, id)
}

// ListAccounts returns the user's accounts together with their total balance.
func (s *Service) ListAccounts(ctx context.Context, userID string) ([]*domain.Account, decimal.Decimal, error) {
	accounts, err := s.accounts.ListAccounts(ctx, userID)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("ListAccounts: %w", err)
	}
	total := decimal.Zero
	for _, account := range accounts {
		total = total.Add(account.Balance)
	}
	return accounts, total, nil
}

// Transfer moves funds between two of the user's accounts. Both balance
// writes commit together or not at all.
func (s *Service) Transfer(ctx context.Context, userID, fromID, toID string, amount decimal.Decimal) error {
	from, err := s.ownedAccount(ctx, userID, fromID)
	if err != nil {
		return fmt.Errorf("Transfer: loading source account: %w", err)
	}
	to, err := s.ownedAccount(ctx, userID, toID)
	if err != nil {
		return fmt.Errorf("Transfer: loading destination account: %w", err)
	}

	plan, err := ledger.Transfer(from, to, amount)
	if err != nil {
		return err
	}
	if err := s.balances.ApplyBalances(ctx, plan.Writes); err != nil {
		return fmt.Errorf("Transfer: applying balances: %w", err)
	}

	s.log.Info().
		Str("from", from.Name).
		Str("to", to.Name).
		Str("amount", amount.String()).
		Msg("Funds transferred")
	return nil
}

// AddFunds deposits amount into one of the user's accounts.
func (s *Service) AddFunds(ctx context.Context, userID, accountID string, amount decimal.Decimal) error {
	account, err := s.ownedAccount(ctx, userID, accountID)
	if err != nil {
		return fmt.Errorf("AddFunds: loading account: %w", err)
	}

	write, err := ledger.AddFunds(account, amount)
	if err != nil {
		return err
	}
	if err := s.balances.ApplyBalances(ctx, []ledger.BalanceWrite{write}); err != nil {
		return fmt.Errorf("AddFunds: applying balance: %w", err)
	}

	s.log.Info().
		Str("account", account.Name).
		Str("amount", amount.String()).
		Msg("Funds added")
	return nil
}

func (s *Service) ownedAccount(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return account, nil
}

// generateAccountNumber builds a display account number from a two-letter
// type prefix and eight random digits, e.g. "CA48301956".
func generateAccountNumber(accountType domain.AccountType) string {
	prefix := strings.ToUpper(string(accountType))
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	return fmt.Sprintf("%s%08d", prefix, rand.IntN(100000000))
}
