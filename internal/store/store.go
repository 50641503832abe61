// Package store defines the data access contracts the tracker depends on.
// Implementations live in subpackages; the in-memory fakes used by tests
// satisfy the same interfaces.
package store

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/spendwise/spendwise/internal/domain"
	"github.com/spendwise/spendwise/internal/ledger"
)

// AccountStore is row-level CRUD over the accounts table. Balance changes go
// through PlanApplier, never through direct updates, except for the initial
// balance written at account creation.
type AccountStore interface {
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context, userID string) ([]*domain.Account, error)
	InsertAccount(ctx context.Context, account *domain.Account) error
	// UpdateAccountInfo renames or retypes an account; the balance is
	// deliberately not part of this update.
	UpdateAccountInfo(ctx context.Context, id, name string, accountType domain.AccountType) error
	DeleteAccount(ctx context.Context, id string) error
}

// CategoryStore is row-level CRUD over the categories table.
type CategoryStore interface {
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	ListCategories(ctx context.Context, userID string) ([]*domain.Category, error)
	InsertCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

// TransactionFilter narrows ListTransactions. Zero values mean "no filter".
type TransactionFilter struct {
	UserID     string
	CategoryID string
	From       civil.Date
	To         civil.Date
	Limit      int
}

// TransactionStore reads the expenses table. Mutations go through
// PlanApplier so they commit together with their balance writes.
type TransactionStore interface {
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]*domain.Transaction, error)
}

// ProfileStore reads and writes per-user profiles.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	UpsertProfile(ctx context.Context, profile *domain.Profile) error
}

// WritePlan is one transaction mutation plus the balance writes it requires.
// At most one of Insert/Update/DeleteTransactionID is set.
type WritePlan struct {
	InsertTransaction   *domain.Transaction
	UpdateTransaction   *domain.Transaction
	DeleteTransactionID string
	BalanceWrites       []ledger.BalanceWrite
}

// PlanApplier commits a write plan as a single atomic unit: either the
// transaction row change and every balance write land together, or nothing
// is persisted.
type PlanApplier interface {
	ApplyPlan(ctx context.Context, plan WritePlan) error
}

// BalanceAdjuster applies standalone balance writes (transfers, add-funds)
// atomically.
type BalanceAdjuster interface {
	ApplyBalances(ctx context.Context, writes []ledger.BalanceWrite) error
}

// Decimal column values travel as float64 in the row structs; these helpers
// keep the conversion in one place.
func ToColumn(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func FromColumn(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
