package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagementFeeCharges(t *testing.T) {
	b := testBuilding(t, day(2026, time.January, 1))
	a1 := testApartment(t, b.ID, "1", 500, 0)
	a2 := testApartment(t, b.ID, "2", 500, 0)

	t.Run("charges every apartment the flat fee", func(t *testing.T) {
		charges := ManagementFeeCharges(b, []*Apartment{a1, a2}, 2026, time.March, nil)
		require.Len(t, charges, 2)
		for _, c := range charges {
			assert.True(t, c.Amount.Equal(decimal.RequireFromString("10.00")))
			assert.Equal(t, OriginManagementFee, c.OriginType)
			assert.Equal(t, "2026-03", c.OriginID)
			assert.False(t, c.Deferred)
		}
	})

	t.Run("skips apartments already charged for the month", func(t *testing.T) {
		charges := ManagementFeeCharges(b, []*Apartment{a1, a2}, 2026, time.March, map[uuid.UUID]bool{a1.ID: true})
		require.Len(t, charges, 1)
		assert.Equal(t, a2.ID, charges[0].ApartmentID)
	})

	t.Run("no fee configured means no charges", func(t *testing.T) {
		free, err := NewBuilding("No Fee", "", mustMoney(t, "0.00"), day(2026, time.January, 1))
		require.NoError(t, err)
		assert.Empty(t, ManagementFeeCharges(free, []*Apartment{a1}, 2026, time.March, nil))
	})
}

func reserveBuilding(t *testing.T) *Building {
	t.Helper()
	b := testBuilding(t, day(2026, time.January, 1))
	require.NoError(t, b.ConfigureReserveFund(mustMoney(t, "12000.00"), 12, day(2026, time.February, 1)))
	return b
}

func TestReserveFundCharges(t *testing.T) {
	b := reserveBuilding(t)
	a1 := testApartment(t, b.ID, "1", 500, 0)
	a2 := testApartment(t, b.ID, "2", 300, 0)
	a3 := testApartment(t, b.ID, "3", 200, 0)
	apartments := []*Apartment{a1, a2, a3}

	t.Run("splits monthly target by participation", func(t *testing.T) {
		charges, err := ReserveFundCharges(b, apartments, 2026, time.March, nil, nil)
		require.NoError(t, err)
		require.Len(t, charges, 3)

		byApartment := map[uuid.UUID]PlannedCharge{}
		total := decimal.Zero
		for _, c := range charges {
			byApartment[c.ApartmentID] = c
			total = total.Add(c.Amount)
			assert.Equal(t, OriginReserveFund, c.OriginType)
			assert.Equal(t, "2026-03", c.OriginID)
		}
		// 12000 / 12 = 1000 per month across the building.
		assert.True(t, total.Equal(decimal.RequireFromString("1000.00")))
		assert.True(t, byApartment[a1.ID].Amount.Equal(decimal.RequireFromString("500.00")))
		assert.True(t, byApartment[a2.ID].Amount.Equal(decimal.RequireFromString("300.00")))
		assert.True(t, byApartment[a3.ID].Amount.Equal(decimal.RequireFromString("200.00")))
	})

	t.Run("inactive outside the collection window", func(t *testing.T) {
		charges, err := ReserveFundCharges(b, apartments, 2026, time.January, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, charges)

		charges, err = ReserveFundCharges(b, apartments, 2027, time.April, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, charges)
	})

	t.Run("no fund configured", func(t *testing.T) {
		plain := testBuilding(t, day(2026, time.January, 1))
		charges, err := ReserveFundCharges(plain, apartments, 2026, time.March, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, charges)
	})

	t.Run("defers apartments with outstanding non-reserve debt", func(t *testing.T) {
		outstanding := map[uuid.UUID]decimal.Decimal{
			a1.ID: decimal.RequireFromString("-75.00"),
			a2.ID: decimal.Zero,
			a3.ID: decimal.RequireFromString("10.00"),
		}
		charges, err := ReserveFundCharges(b, apartments, 2026, time.March, nil, outstanding)
		require.NoError(t, err)
		require.Len(t, charges, 3)

		for _, c := range charges {
			if c.ApartmentID == a1.ID {
				assert.True(t, c.Deferred)
			} else {
				assert.False(t, c.Deferred)
			}
		}
	})

	t.Run("skips apartments already charged for the month", func(t *testing.T) {
		charges, err := ReserveFundCharges(b, apartments, 2026, time.March, map[uuid.UUID]bool{a2.ID: true}, nil)
		require.NoError(t, err)
		require.Len(t, charges, 2)
		for _, c := range charges {
			assert.NotEqual(t, a2.ID, c.ApartmentID)
		}
	})
}

func TestOutstandingNonReserveIgnoresReserveCharges(t *testing.T) {
	b := reserveBuilding(t)
	a := testApartment(t, b.ID, "1", 1000, 0)

	reserve, err := NewCharge(a.ID, b.ID, mustMoney(t, "100.00"), OriginReserveFund, "2026-02", day(2026, time.February, 1), "")
	require.NoError(t, err)
	fee, err := NewCharge(a.ID, b.ID, mustMoney(t, "10.00"), OriginManagementFee, "2026-02", day(2026, time.February, 1), "")
	require.NoError(t, err)
	pay, err := NewCredit(a.ID, b.ID, mustMoney(t, "10.00"), OriginPayment, "pay-1", day(2026, time.February, 15), "")
	require.NoError(t, err)

	// The unpaid reserve contribution alone must not block next month's one.
	outstanding := OutstandingNonReserve([]*Transaction{reserve, fee, pay})
	assert.True(t, outstanding.IsZero(), "got %s", outstanding)

	// An unpaid management fee does block.
	outstanding = OutstandingNonReserve([]*Transaction{reserve, fee})
	assert.True(t, outstanding.Equal(decimal.RequireFromString("-10.00")))
}
