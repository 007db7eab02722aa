package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuilding(t *testing.T) {
	b, err := NewBuilding("Residence Aurora", "12 Harbour St", mustMoney(t, "10.00"), day(2026, time.January, 15))
	require.NoError(t, err)

	assert.Equal(t, "Residence Aurora", b.Name)
	assert.Equal(t, 1, b.Version)
	assert.Equal(t, day(2026, time.January, 15), b.FinancialSystemStartDate)

	y, m := b.FirstActiveMonth()
	assert.Equal(t, 2026, y)
	assert.Equal(t, time.January, m)

	_, err = NewBuilding("", "", mustMoney(t, "10.00"), day(2026, time.January, 1))
	assert.Error(t, err)

	_, err = NewBuilding("X", "", mustMoney(t, "-1.00"), day(2026, time.January, 1))
	assert.Error(t, err)
}

func TestConfigureReserveFund(t *testing.T) {
	b := testBuilding(t, day(2026, time.January, 1))

	t.Run("rejects start before system start", func(t *testing.T) {
		err := b.ConfigureReserveFund(mustMoney(t, "6000.00"), 6, day(2025, time.December, 1))
		assert.ErrorIs(t, err, ErrBeforeSystemStart)
	})

	t.Run("rejects non-positive goal and duration", func(t *testing.T) {
		assert.Error(t, b.ConfigureReserveFund(mustMoney(t, "0.00"), 6, day(2026, time.February, 1)))
		assert.Error(t, b.ConfigureReserveFund(mustMoney(t, "6000.00"), 0, day(2026, time.February, 1)))
	})

	t.Run("sets the collection window", func(t *testing.T) {
		require.NoError(t, b.ConfigureReserveFund(mustMoney(t, "6000.00"), 6, day(2026, time.February, 1)))

		target := b.ReserveFundTargetDate()
		require.NotNil(t, target)
		assert.Equal(t, day(2026, time.August, 1), *target)
		assert.True(t, b.ReserveFundMonthlyTarget().Equal(decimal.RequireFromString("1000")))

		assert.False(t, b.ReserveFundActiveIn(2026, time.January))
		assert.True(t, b.ReserveFundActiveIn(2026, time.February))
		assert.True(t, b.ReserveFundActiveIn(2026, time.August))
		assert.False(t, b.ReserveFundActiveIn(2026, time.September))
	})
}
