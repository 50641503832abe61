package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendwise/spendwise/internal/domain"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func account(id, name, balance string) *domain.Account {
	return &domain.Account{ID: id, Name: name, Type: domain.AccountCash, Balance: dec(balance)}
}

func TestCreateEffect(t *testing.T) {
	t.Run("income adds to balance", func(t *testing.T) {
		write, err := CreateEffect(dec("25.50"), domain.CategoryIncome, account("a1", "Wallet", "100.00"))
		require.NoError(t, err)
		assert.Equal(t, "a1", write.AccountID)
		assert.True(t, write.NewBalance.Equal(dec("125.50")))
	})

	t.Run("expense subtracts from balance", func(t *testing.T) {
		write, err := CreateEffect(dec("40.00"), domain.CategoryExpense, account("a1", "Wallet", "100.00"))
		require.NoError(t, err)
		assert.True(t, write.NewBalance.Equal(dec("60.00")))
	})

	t.Run("expense exceeding balance is rejected", func(t *testing.T) {
		acct := account("a1", "Wallet", "100.00")
		_, err := CreateEffect(dec("150.00"), domain.CategoryExpense, acct)

		var insufficient *domain.InsufficientFundsError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, "Wallet", insufficient.AccountName)
		// Rejection must not mutate the snapshot.
		assert.True(t, acct.Balance.Equal(dec("100.00")))
	})

	t.Run("expense draining balance to exactly zero is allowed", func(t *testing.T) {
		write, err := CreateEffect(dec("100.00"), domain.CategoryExpense, account("a1", "Wallet", "100.00"))
		require.NoError(t, err)
		assert.True(t, write.NewBalance.IsZero())
	})

	t.Run("fractional cents are preserved", func(t *testing.T) {
		write, err := CreateEffect(dec("0.005"), domain.CategoryExpense, account("a1", "Wallet", "0.015"))
		require.NoError(t, err)
		assert.True(t, write.NewBalance.Equal(dec("0.01")))
	})
}

func TestUpdateEffect_SameAccount(t *testing.T) {
	t.Run("expense to income applies the net delta", func(t *testing.T) {
		// 20 expense becomes 20 income: net = 20 - (-20) = +40.
		acct := account("a1", "Wallet", "100.00")
		plan, err := UpdateEffect(
			Leg{Amount: dec("20.00"), CategoryType: domain.CategoryExpense, AccountID: "a1"},
			Leg{Amount: dec("20.00"), CategoryType: domain.CategoryIncome, AccountID: "a1"},
			acct, acct,
		)
		require.NoError(t, err)
		require.Len(t, plan.Writes, 1)
		assert.True(t, plan.Writes[0].NewBalance.Equal(dec("140.00")))
	})

	t.Run("amount increase beyond balance is rejected", func(t *testing.T) {
		acct := account("a1", "Wallet", "50.00")
		_, err := UpdateEffect(
			Leg{Amount: dec("10.00"), CategoryType: domain.CategoryExpense, AccountID: "a1"},
			Leg{Amount: dec("80.00"), CategoryType: domain.CategoryExpense, AccountID: "a1"},
			acct, acct,
		)
		var insufficient *domain.InsufficientFundsError
		require.ErrorAs(t, err, &insufficient)
	})

	t.Run("unchanged amount and type is a zero-delta write", func(t *testing.T) {
		acct := account("a1", "Wallet", "75.00")
		plan, err := UpdateEffect(
			Leg{Amount: dec("30.00"), CategoryType: domain.CategoryExpense, AccountID: "a1"},
			Leg{Amount: dec("30.00"), CategoryType: domain.CategoryExpense, AccountID: "a1"},
			acct, acct,
		)
		require.NoError(t, err)
		require.Len(t, plan.Writes, 1)
		assert.True(t, plan.Writes[0].NewBalance.Equal(dec("75.00")))
	})
}

func TestUpdateEffect_CrossAccount(t *testing.T) {
	t.Run("reverses old account and applies to new account", func(t *testing.T) {
		oldAcct := account("a1", "Wallet", "80.00")
		newAcct := account("a2", "Card", "10.00")
		plan, err := UpdateEffect(
			Leg{Amount: dec("20.00"), CategoryType: domain.CategoryExpense, AccountID: "a1"},
			Leg{Amount: dec("5.00"), CategoryType: domain.CategoryExpense, AccountID: "a2"},
			oldAcct, newAcct,
		)
		require.NoError(t, err)
		require.Len(t, plan.Writes, 2)
		assert.Equal(t, "a1", plan.Writes[0].AccountID)
		assert.True(t, plan.Writes[0].NewBalance.Equal(dec("100.00")))
		assert.Equal(t, "a2", plan.Writes[1].AccountID)
		assert.True(t, plan.Writes[1].NewBalance.Equal(dec("5.00")))
	})

	t.Run("matches delete composed with create", func(t *testing.T) {
		oldAcct := account("a1", "Wallet", "80.00")
		newAcct := account("a2", "Card", "50.00")
		oldLeg := Leg{Amount: dec("35.00"), CategoryType: domain.CategoryIncome, AccountID: "a1"}
		newLeg := Leg{Amount: dec("12.00"), CategoryType: domain.CategoryExpense, AccountID: "a2"}

		plan, err := UpdateEffect(oldLeg, newLeg, oldAcct, newAcct)
		require.NoError(t, err)

		reversal := DeleteEffect(oldLeg.Amount, oldLeg.CategoryType, oldAcct)
		applied, err := CreateEffect(newLeg.Amount, newLeg.CategoryType, newAcct)
		require.NoError(t, err)

		require.Len(t, plan.Writes, 2)
		assert.Equal(t, reversal, plan.Writes[0])
		assert.Equal(t, applied, plan.Writes[1])
	})

	t.Run("reversing income may drive the old account negative", func(t *testing.T) {
		// Documented behavior: reversals are corrections and are never
		// rejected, unlike forward-looking creates and transfers.
		oldAcct := account("a1", "Wallet", "10.00")
		newAcct := account("a2", "Card", "100.00")
		plan, err := UpdateEffect(
			Leg{Amount: dec("50.00"), CategoryType: domain.CategoryIncome, AccountID: "a1"},
			Leg{Amount: dec("50.00"), CategoryType: domain.CategoryIncome, AccountID: "a2"},
			oldAcct, newAcct,
		)
		require.NoError(t, err)
		assert.True(t, plan.Writes[0].NewBalance.Equal(dec("-40.00")))
		assert.True(t, plan.Writes[1].NewBalance.Equal(dec("150.00")))
	})

	t.Run("insufficient funds on the new account rejects the whole plan", func(t *testing.T) {
		oldAcct := account("a1", "Wallet", "100.00")
		newAcct := account("a2", "Card", "5.00")
		_, err := UpdateEffect(
			Leg{Amount: dec("20.00"), CategoryType: domain.CategoryExpense, AccountID: "a1"},
			Leg{Amount: dec("20.00"), CategoryType: domain.CategoryExpense, AccountID: "a2"},
			oldAcct, newAcct,
		)
		var insufficient *domain.InsufficientFundsError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, "Card", insufficient.AccountName)
	})

	t.Run("old transaction without an account has nothing to reverse", func(t *testing.T) {
		newAcct := account("a2", "Card", "40.00")
		plan, err := UpdateEffect(
			Leg{Amount: dec("15.00"), CategoryType: domain.CategoryExpense, AccountID: ""},
			Leg{Amount: dec("15.00"), CategoryType: domain.CategoryExpense, AccountID: "a2"},
			nil, newAcct,
		)
		require.NoError(t, err)
		require.Len(t, plan.Writes, 1)
		assert.True(t, plan.Writes[0].NewBalance.Equal(dec("25.00")))
	})
}

func TestDeleteEffect(t *testing.T) {
	t.Run("create then delete round-trips the balance", func(t *testing.T) {
		acct := account("a1", "Wallet", "100.00")
		write, err := CreateEffect(dec("33.33"), domain.CategoryExpense, acct)
		require.NoError(t, err)

		after := &domain.Account{ID: acct.ID, Name: acct.Name, Balance: write.NewBalance}
		reversal := DeleteEffect(dec("33.33"), domain.CategoryExpense, after)
		assert.True(t, reversal.NewBalance.Equal(dec("100.00")))
	})

	t.Run("reversing income below zero is allowed", func(t *testing.T) {
		write := DeleteEffect(dec("50.00"), domain.CategoryIncome, account("a1", "Wallet", "20.00"))
		assert.True(t, write.NewBalance.Equal(dec("-30.00")))
	})

	t.Run("reversing an expense restores funds", func(t *testing.T) {
		write := DeleteEffect(dec("15.00"), domain.CategoryExpense, account("a1", "Wallet", "5.00"))
		assert.True(t, write.NewBalance.Equal(dec("20.00")))
	})
}

func TestTransfer(t *testing.T) {
	t.Run("moves funds between accounts", func(t *testing.T) {
		from := account("x", "Checking", "50.00")
		to := account("y", "Savings", "10.00")
		plan, err := Transfer(from, to, dec("30.00"))
		require.NoError(t, err)
		require.Len(t, plan.Writes, 2)
		assert.True(t, plan.Writes[0].NewBalance.Equal(dec("20.00")))
		assert.True(t, plan.Writes[1].NewBalance.Equal(dec("40.00")))
	})

	t.Run("rejects same account", func(t *testing.T) {
		acct := account("x", "Checking", "50.00")
		_, err := Transfer(acct, acct, dec("10.00"))
		assert.ErrorIs(t, err, domain.ErrSameAccountTransfer)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		from := account("x", "Checking", "50.00")
		to := account("y", "Savings", "10.00")
		for _, amount := range []string{"0", "-5.00"} {
			_, err := Transfer(from, to, dec(amount))
			assert.ErrorIs(t, err, domain.ErrInvalidAmount)
		}
	})

	t.Run("rejects insufficient source balance without mutating inputs", func(t *testing.T) {
		from := account("x", "Checking", "20.00")
		to := account("y", "Savings", "10.00")
		_, err := Transfer(from, to, dec("20.01"))

		var insufficient *domain.InsufficientFundsError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, "Checking", insufficient.AccountName)
		assert.True(t, from.Balance.Equal(dec("20.00")))
		assert.True(t, to.Balance.Equal(dec("10.00")))
	})

	t.Run("allows draining the source exactly", func(t *testing.T) {
		from := account("x", "Checking", "20.00")
		to := account("y", "Savings", "0.00")
		plan, err := Transfer(from, to, dec("20.00"))
		require.NoError(t, err)
		assert.True(t, plan.Writes[0].NewBalance.IsZero())
	})
}

func TestAddFunds(t *testing.T) {
	t.Run("adds to the balance", func(t *testing.T) {
		write, err := AddFunds(account("a1", "Wallet", "10.00"), dec("2.50"))
		require.NoError(t, err)
		assert.True(t, write.NewBalance.Equal(dec("12.50")))
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		_, err := AddFunds(account("a1", "Wallet", "10.00"), dec("0"))
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})
}

// Replaying a sequence of accepted mutations keeps the balance equal to the
// initial balance plus the signed effects of the surviving transactions.
func TestReplayConsistency(t *testing.T) {
	type tx struct {
		amount decimal.Decimal
		ctype  domain.CategoryType
	}

	acct := account("a1", "Wallet", "200.00")
	live := make(map[int]tx)

	apply := func(w BalanceWrite) { acct.Balance = w.NewBalance }

	steps := []tx{
		{dec("50.00"), domain.CategoryExpense},
		{dec("120.00"), domain.CategoryIncome},
		{dec("90.00"), domain.CategoryExpense},
		{dec("0.75"), domain.CategoryIncome},
	}
	for i, s := range steps {
		write, err := CreateEffect(s.amount, s.ctype, acct)
		require.NoError(t, err)
		apply(write)
		live[i] = s
	}

	// Delete one, edit another in place.
	apply(DeleteEffect(live[2].amount, live[2].ctype, acct))
	delete(live, 2)

	edited := tx{dec("10.00"), domain.CategoryExpense}
	plan, err := UpdateEffect(
		Leg{Amount: live[0].amount, CategoryType: live[0].ctype, AccountID: acct.ID},
		Leg{Amount: edited.amount, CategoryType: edited.ctype, AccountID: acct.ID},
		acct, acct,
	)
	require.NoError(t, err)
	apply(plan.Writes[0])
	live[0] = edited

	expected := dec("200.00")
	for _, s := range live {
		expected = expected.Add(domain.SignedEffect(s.amount, s.ctype))
	}
	assert.True(t, acct.Balance.Equal(expected), "balance %s, expected %s", acct.Balance, expected)
}
