package coop_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groupbuy/internal/core/domain/model/coop"
	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/pkg/errs"
)

func TestEntryConstruction(t *testing.T) {
	now := time.Now().UTC()

	t.Run("credit and debit carry their kind", func(t *testing.T) {
		credit, err := coop.NewCredit(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 6699, now)
		require.NoError(t, err)
		assert.Equal(t, coop.Credit, credit.Kind())
		assert.Equal(t, kernel.Cents(6699), credit.Amount())

		debit, err := coop.NewDebit(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 2436, now)
		require.NoError(t, err)
		assert.Equal(t, coop.Debit, debit.Kind())
	})

	t.Run("amount must be positive", func(t *testing.T) {
		_, err := coop.NewCredit(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 0, now)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)

		_, err = coop.NewDebit(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), -1, now)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("restore rejects an unknown kind", func(t *testing.T) {
		_, err := coop.RestoreEntry(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			coop.KindUnknown, 100, now,
		)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var e coop.Entry
		require.ErrorIs(t, e.Validate(), coop.ErrEntryIsNotConstructed)
	})
}

func TestLedgerSums(t *testing.T) {
	now := time.Now().UTC()
	profile := kernel.NewUUID()
	earning := kernel.NewUUID()
	spending := kernel.NewUUID()

	credit := func(t *testing.T, amount kernel.Cents) *coop.Entry {
		t.Helper()
		e, err := coop.NewCredit(kernel.NewUUID(), profile, earning, amount, now)
		require.NoError(t, err)
		return e
	}
	debit := func(t *testing.T, amount kernel.Cents) *coop.Entry {
		t.Helper()
		e, err := coop.NewDebit(kernel.NewUUID(), profile, spending, amount, now)
		require.NoError(t, err)
		return e
	}

	t.Run("balance is credits minus debits", func(t *testing.T) {
		entries := []*coop.Entry{credit(t, 6699), credit(t, 1000), debit(t, 2436)}
		assert.Equal(t, kernel.Cents(5263), coop.Balance(entries))
	})

	t.Run("empty ledger balances to zero", func(t *testing.T) {
		assert.Equal(t, kernel.Cents(0), coop.Balance(nil))
	})

	t.Run("consumed total counts only debits", func(t *testing.T) {
		entries := []*coop.Entry{credit(t, 6699), debit(t, 2436), debit(t, 500)}
		assert.Equal(t, kernel.Cents(2936), coop.ConsumedTotal(entries))
	})
}
