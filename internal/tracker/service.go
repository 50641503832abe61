// Package tracker orchestrates transaction and account mutations: it reads
// current state from the store, asks the ledger engine for the required
// balance effects, and hands the resulting write plan back to the store to
// commit atomically. All validation happens before any write is attempted.
package tracker

import (
	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/spendwise/spendwise/internal/domain"
	"github.com/spendwise/spendwise/internal/store"
)

// Service sequences store reads, ledger computation and atomic writes.
type Service struct {
	accounts     store.AccountStore
	categories   store.CategoryStore
	transactions store.TransactionStore
	plans        store.PlanApplier
	balances     store.BalanceAdjuster
	log          zerolog.Logger
}

// Stores bundles the data access dependencies. A single struct (like the
// BigQuery store) typically implements all of them.
type Stores struct {
	Accounts     store.AccountStore
	Categories   store.CategoryStore
	Transactions store.TransactionStore
	Plans        store.PlanApplier
	Balances     store.BalanceAdjuster
}

// New creates the orchestrator.
func New(stores Stores, log zerolog.Logger) *Service {
	return &Service{
		accounts:     stores.Accounts,
		categories:   stores.Categories,
		transactions: stores.Transactions,
		plans:        stores.Plans,
		balances:     stores.Balances,
		log:          log,
	}
}

// TransactionInput is the user-supplied payload for creating or editing a
// transaction. Amount is a positive magnitude; the category determines the
// direction of the balance effect.
type TransactionInput struct {
	UserID        string
	Amount        decimal.Decimal
	CategoryID    string
	AccountID     string
	Date          civil.Date
	Description   string
	PaymentMethod string
	Tags          []string
}

func (in *TransactionInput) validate() error {
	if !in.Amount.IsPositive() {
		return domain.NewValidationError("amount", "must be greater than zero")
	}
	if in.CategoryID == "" {
		return domain.NewValidationError("category_id", "category is required")
	}
	if in.AccountID == "" {
		return domain.NewValidationError("account_id", "account is required")
	}
	if !in.Date.IsValid() {
		return domain.NewValidationError("date", "a valid date is required")
	}
	return nil
}

func (in *TransactionInput) paymentMethod() string {
	if in.PaymentMethod == "" {
		return "cash"
	}
	return in.PaymentMethod
}
