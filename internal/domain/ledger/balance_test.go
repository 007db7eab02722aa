package ledger

import (
	"testing"
	"time"

	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBuilding(t *testing.T, financialStart time.Time) *Building {
	t.Helper()
	b, err := NewBuilding("Residence Aurora", "12 Harbour St", mustMoney(t, "10.00"), financialStart)
	require.NoError(t, err)
	return b
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAppendTransaction(t *testing.T) {
	start := day(2026, time.January, 1)
	b := testBuilding(t, start)
	a := testApartment(t, b.ID, "1", 500, 0)

	charge, err := NewCharge(a.ID, b.ID, mustMoney(t, "120.00"), OriginExpenseCharge, "exp-1", day(2026, time.February, 3), "Elevator maintenance")
	require.NoError(t, err)

	require.NoError(t, AppendTransaction(b, a, charge))
	assert.True(t, charge.BalanceBefore.IsZero())
	assert.True(t, charge.BalanceAfter.Equal(decimal.RequireFromString("-120.00")))
	assert.True(t, a.CachedBalance.Equal(decimal.RequireFromString("-120.00")))
	assert.True(t, a.Owes())

	credit, err := NewCredit(a.ID, b.ID, mustMoney(t, "150.00"), OriginPayment, "pay-1", day(2026, time.February, 10), "February payment")
	require.NoError(t, err)

	require.NoError(t, AppendTransaction(b, a, credit))
	assert.True(t, credit.BalanceBefore.Equal(decimal.RequireFromString("-120.00")))
	assert.True(t, credit.BalanceAfter.Equal(decimal.RequireFromString("30.00")))
	assert.False(t, a.Owes())
}

func TestAppendTransactionRejectsPreSystemDates(t *testing.T) {
	b := testBuilding(t, day(2026, time.March, 1))
	a := testApartment(t, b.ID, "1", 500, 0)

	charge, err := NewCharge(a.ID, b.ID, mustMoney(t, "10.00"), OriginExpenseCharge, "exp-1", day(2026, time.February, 28), "Old invoice")
	require.NoError(t, err)

	err = AppendTransaction(b, a, charge)
	assert.ErrorIs(t, err, ErrBeforeSystemStart)
	assert.True(t, a.CachedBalance.IsZero())
}

func TestAppendTransactionRejectsMismatchedOwnership(t *testing.T) {
	b := testBuilding(t, day(2026, time.January, 1))
	a := testApartment(t, b.ID, "1", 500, 0)
	other := testApartment(t, b.ID, "2", 500, 0)

	charge, err := NewCharge(other.ID, b.ID, mustMoney(t, "10.00"), OriginExpenseCharge, "exp-1", day(2026, time.February, 1), "")
	require.NoError(t, err)

	assert.ErrorIs(t, AppendTransaction(b, a, charge), shared.ErrInvalidInput)
}

func TestReplayBalanceMatchesCachedAfterAppends(t *testing.T) {
	b := testBuilding(t, day(2026, time.January, 1))
	a := testApartment(t, b.ID, "1", 500, 0)

	var txns []*Transaction
	amounts := []struct {
		value  string
		credit bool
		on     time.Time
	}{
		{"100.00", false, day(2026, time.January, 5)},
		{"40.00", true, day(2026, time.January, 20)},
		{"55.50", false, day(2026, time.February, 5)},
		{"120.00", true, day(2026, time.February, 12)},
	}
	for i, row := range amounts {
		var txn *Transaction
		var err error
		if row.credit {
			txn, err = NewCredit(a.ID, b.ID, mustMoney(t, row.value), OriginPayment, "pay", row.on, "")
		} else {
			txn, err = NewCharge(a.ID, b.ID, mustMoney(t, row.value), OriginExpenseCharge, "exp", row.on, "")
		}
		require.NoError(t, err, "txn %d", i)
		require.NoError(t, AppendTransaction(b, a, txn))
		txns = append(txns, txn)
	}

	assert.True(t, ReplayBalance(txns).Equal(a.CachedBalance))
	assert.True(t, a.CachedBalance.Equal(decimal.RequireFromString("4.50")))
}

func TestHistoricalBalance(t *testing.T) {
	b := testBuilding(t, day(2026, time.January, 1))
	a := testApartment(t, b.ID, "1", 500, 0)

	charge, err := NewCharge(a.ID, b.ID, mustMoney(t, "100.00"), OriginExpenseCharge, "exp", day(2026, time.January, 10), "")
	require.NoError(t, err)
	credit, err := NewCredit(a.ID, b.ID, mustMoney(t, "60.00"), OriginPayment, "pay", day(2026, time.February, 2), "")
	require.NoError(t, err)
	txns := []*Transaction{charge, credit}

	assert.True(t, HistoricalBalance(txns, day(2026, time.January, 10)).IsZero(), "as-of excludes same-day entries")
	assert.True(t, HistoricalBalance(txns, day(2026, time.February, 1)).Equal(decimal.RequireFromString("-100.00")))
	assert.True(t, HistoricalBalance(txns, day(2026, time.March, 1)).Equal(decimal.RequireFromString("-40.00")))
}

func TestSortTransactionsOrdersByAccrualThenRecording(t *testing.T) {
	b := testBuilding(t, day(2026, time.January, 1))
	a := testApartment(t, b.ID, "1", 500, 0)

	late, err := NewCharge(a.ID, b.ID, mustMoney(t, "1.00"), OriginExpenseCharge, "exp-late", day(2026, time.March, 1), "")
	require.NoError(t, err)
	early, err := NewCharge(a.ID, b.ID, mustMoney(t, "2.00"), OriginExpenseCharge, "exp-early", day(2026, time.January, 15), "")
	require.NoError(t, err)
	mid, err := NewCredit(a.ID, b.ID, mustMoney(t, "3.00"), OriginPayment, "pay-mid", day(2026, time.February, 1), "")
	require.NoError(t, err)

	txns := []*Transaction{late, early, mid}
	SortTransactions(txns)

	assert.Equal(t, "exp-early", txns[0].OriginID)
	assert.Equal(t, "pay-mid", txns[1].OriginID)
	assert.Equal(t, "exp-late", txns[2].OriginID)
}
