// Package ledger computes the account balance effects of transaction
// mutations. Every function here is a pure computation over snapshots of
// current state: the engine never performs I/O and never mutates its inputs.
// Persisting the resulting writes is the caller's job.
//
// Validation policy: operations that put money at risk (create, update's new
// leg, transfer) are rejected if they would drive a balance below zero.
// Reversals (delete, update's old leg) are applied unguarded, even when
// removing previously recorded income takes the balance negative. That
// asymmetry is deliberate and pinned by tests.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/spendwise/spendwise/internal/domain"
)

// Leg describes one side of a transaction mutation: the amount, the sign
// source, and the account the effect lands on. AccountID may be empty for
// transactions not linked to an account.
type Leg struct {
	Amount       decimal.Decimal
	CategoryType domain.CategoryType
	AccountID    string
}

// Effect returns the signed balance delta this leg applies.
func (l Leg) Effect() decimal.Decimal {
	return domain.SignedEffect(l.Amount, l.CategoryType)
}

// BalanceWrite is one required account balance update.
type BalanceWrite struct {
	AccountID  string
	NewBalance decimal.Decimal
}

// Plan is the ordered set of balance writes a mutation requires. The caller
// must apply all writes, together with the transaction record change, as one
// atomic unit.
type Plan struct {
	Writes []BalanceWrite
}

// CreateEffect computes the balance write for recording a new transaction
// against account. Expenses are rejected when the account cannot cover them.
func CreateEffect(amount decimal.Decimal, categoryType domain.CategoryType, account *domain.Account) (BalanceWrite, error) {
	delta := domain.SignedEffect(amount, categoryType)
	newBalance := account.Balance.Add(delta)
	if newBalance.IsNegative() {
		return BalanceWrite{}, &domain.InsufficientFundsError{AccountName: account.Name}
	}
	return BalanceWrite{AccountID: account.ID, NewBalance: newBalance}, nil
}

// UpdateEffect computes the balance writes for editing an existing
// transaction from old to new. Whether the edit is same-account or
// cross-account is decided solely by comparing account IDs; the amount and
// the category type may each change independently.
//
// Same account: a single net write, rejected if it would go negative.
//
// Cross account: the old effect is reversed on the old account (unguarded),
// then the new effect is applied to the new account (guarded). oldAccount may
// be nil when the original transaction had no linked account, in which case
// there is nothing to reverse.
func UpdateEffect(old, new Leg, oldAccount, newAccount *domain.Account) (Plan, error) {
	if old.AccountID == new.AccountID {
		netDelta := new.Effect().Sub(old.Effect())
		newBalance := newAccount.Balance.Add(netDelta)
		if newBalance.IsNegative() {
			return Plan{}, &domain.InsufficientFundsError{AccountName: newAccount.Name}
		}
		return Plan{Writes: []BalanceWrite{{AccountID: newAccount.ID, NewBalance: newBalance}}}, nil
	}

	var writes []BalanceWrite
	if oldAccount != nil && old.AccountID != "" {
		reversal := DeleteEffect(old.Amount, old.CategoryType, oldAccount)
		writes = append(writes, reversal)
	}

	applied, err := CreateEffect(new.Amount, new.CategoryType, newAccount)
	if err != nil {
		return Plan{}, err
	}
	writes = append(writes, applied)
	return Plan{Writes: writes}, nil
}

// DeleteEffect reverses exactly the balance effect the transaction originally
// applied. Reversals are never rejected: undoing an expense restores funds,
// and undoing income is treated as an always-allowed correction even if it
// takes the balance below zero.
func DeleteEffect(amount decimal.Decimal, categoryType domain.CategoryType, account *domain.Account) BalanceWrite {
	reversal := domain.SignedEffect(amount, categoryType).Neg()
	return BalanceWrite{AccountID: account.ID, NewBalance: account.Balance.Add(reversal)}
}

// Transfer computes the two balance writes for moving amount from one account
// to another. Rejections: same account, non-positive amount, and insufficient
// funds on the source. Neither input account is mutated on rejection.
func Transfer(from, to *domain.Account, amount decimal.Decimal) (Plan, error) {
	if from.ID == to.ID {
		return Plan{}, domain.ErrSameAccountTransfer
	}
	if !amount.IsPositive() {
		return Plan{}, domain.ErrInvalidAmount
	}
	if from.Balance.LessThan(amount) {
		return Plan{}, &domain.InsufficientFundsError{AccountName: from.Name}
	}
	return Plan{Writes: []BalanceWrite{
		{AccountID: from.ID, NewBalance: from.Balance.Sub(amount)},
		{AccountID: to.ID, NewBalance: to.Balance.Add(amount)},
	}}, nil
}

// AddFunds computes the balance write for depositing amount into account.
func AddFunds(account *domain.Account, amount decimal.Decimal) (BalanceWrite, error) {
	if !amount.IsPositive() {
		return BalanceWrite{}, domain.ErrInvalidAmount
	}
	return BalanceWrite{AccountID: account.ID, NewBalance: account.Balance.Add(amount)}, nil
}
