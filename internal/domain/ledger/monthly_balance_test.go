package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyBalanceClose(t *testing.T) {
	m, err := NewMonthlyBalance(uuid.New(), 2026, time.March)
	require.NoError(t, err)

	err = m.Close(ClosingFigures{
		PreviousObligations: decimal.Zero,
		TotalCharges:        decimal.RequireFromString("300.00"),
		TotalPayments:       decimal.RequireFromString("250.00"),
	})
	require.NoError(t, err)

	assert.True(t, m.Closed)
	require.NotNil(t, m.ClosedAt)
	assert.True(t, m.CarryForward.Equal(decimal.RequireFromString("50.00")))
}

func TestMonthlyBalanceCarryForwardChains(t *testing.T) {
	buildingID := uuid.New()

	march, err := NewMonthlyBalance(buildingID, 2026, time.March)
	require.NoError(t, err)
	require.NoError(t, march.Close(ClosingFigures{
		TotalCharges:  decimal.RequireFromString("300.00"),
		TotalPayments: decimal.RequireFromString("250.00"),
	}))

	april, err := NewMonthlyBalance(buildingID, 2026, time.April)
	require.NoError(t, err)
	require.NoError(t, april.Close(ClosingFigures{
		PreviousObligations: march.CarryForward,
		TotalCharges:        decimal.RequireFromString("300.00"),
		TotalPayments:       decimal.RequireFromString("250.00"),
	}))

	assert.True(t, april.CarryForward.Equal(decimal.RequireFromString("100.00")))
}

func TestMonthlyBalanceCarryForwardFloorsAtZero(t *testing.T) {
	m, err := NewMonthlyBalance(uuid.New(), 2026, time.March)
	require.NoError(t, err)

	require.NoError(t, m.Close(ClosingFigures{
		TotalCharges:  decimal.RequireFromString("100.00"),
		TotalPayments: decimal.RequireFromString("400.00"),
	}))

	// Overpayment stays on apartment balances; the month carries nothing.
	assert.True(t, m.CarryForward.IsZero())
}

func TestMonthlyBalanceCloseTwice(t *testing.T) {
	m, err := NewMonthlyBalance(uuid.New(), 2026, time.March)
	require.NoError(t, err)

	require.NoError(t, m.Close(ClosingFigures{}))
	assert.ErrorIs(t, m.Close(ClosingFigures{}), ErrAlreadyClosed)
}

func TestMonthlyBalanceValidation(t *testing.T) {
	_, err := NewMonthlyBalance(uuid.Nil, 2026, time.March)
	assert.Error(t, err)

	_, err = NewMonthlyBalance(uuid.New(), 2026, time.Month(13))
	assert.Error(t, err)

	m, err := NewMonthlyBalance(uuid.New(), 2026, time.March)
	require.NoError(t, err)
	err = m.Close(ClosingFigures{TotalCharges: decimal.RequireFromString("-1.00")})
	assert.Error(t, err)
	assert.False(t, m.Closed)
}

func TestMonthArithmetic(t *testing.T) {
	y, m := PreviousMonth(2026, time.January)
	assert.Equal(t, 2025, y)
	assert.Equal(t, time.December, m)

	y, m = NextMonth(2026, time.December)
	assert.Equal(t, 2027, y)
	assert.Equal(t, time.January, m)

	from, to := MonthBounds(2026, time.February)
	assert.Equal(t, day(2026, time.February, 1), from)
	assert.Equal(t, day(2026, time.March, 1), to)
}
