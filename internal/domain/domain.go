package domain

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// AccountType identifies the kind of balance-holding account.
type AccountType string

const (
	AccountCash   AccountType = "cash"
	AccountPayPal AccountType = "paypal"
	AccountCrypto AccountType = "crypto"
	AccountVisa   AccountType = "visa"
	AccountDebit  AccountType = "debit"
)

// AccountTypes lists every supported account type.
var AccountTypes = []AccountType{AccountCash, AccountPayPal, AccountCrypto, AccountVisa, AccountDebit}

// Valid reports whether t is one of the supported account types.
func (t AccountType) Valid() bool {
	for _, known := range AccountTypes {
		if t == known {
			return true
		}
	}
	return false
}

// CategoryType determines the sign of a transaction's balance effect.
type CategoryType string

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
)

// Valid reports whether t is income or expense.
func (t CategoryType) Valid() bool {
	return t == CategoryIncome || t == CategoryExpense
}

// Account is a named balance-holding entity owned by a user. Its balance is
// mutated only through ledger-computed writes.
type Account struct {
	ID            string
	UserID        string
	Name          string
	Type          AccountType
	AccountNumber string
	Balance       decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Category labels a transaction as income or expense. It is read-only input
// to the ledger engine.
type Category struct {
	ID        string
	UserID    string
	Name      string
	Type      CategoryType
	CreatedAt time.Time
}

// Transaction is a single recorded monetary event. Amount is always a
// positive magnitude; the linked category's type determines the sign of the
// balance effect. AccountID may be empty, in which case the transaction does
// not touch any balance.
type Transaction struct {
	ID            string
	UserID        string
	Amount        decimal.Decimal
	CategoryID    string
	AccountID     string
	Date          civil.Date
	Description   string
	PaymentMethod string
	Tags          []string
	CreatedAt     time.Time
}

// Profile holds per-user display preferences.
type Profile struct {
	UserID    string
	FullName  string
	Currency  string
	UpdatedAt time.Time
}

// SignedEffect returns the signed amount a transaction applies to its
// account's balance: +amount for income, -amount for expense.
func SignedEffect(amount decimal.Decimal, categoryType CategoryType) decimal.Decimal {
	if categoryType == CategoryIncome {
		return amount
	}
	return amount.Neg()
}
