package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/condoledger/backend/internal/domain/ledger"
	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/condoledger/backend/internal/domain/shared/valueobject"
	"github.com/condoledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.BuildingModel{},
		&models.ApartmentModel{},
		&models.ExpenseModel{},
		&models.PaymentModel{},
		&models.TransactionModel{},
		&models.MonthlyBalanceModel{},
	))
	return db
}

func seedBuilding(t *testing.T, db *gorm.DB) *ledger.Building {
	t.Helper()
	fee, err := valueobject.NewMoneyEURFromString("10.00")
	require.NoError(t, err)
	b, err := ledger.NewBuilding("Residence Aurora", "12 Harbour St", fee,
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, NewGormBuildingRepository(db).Save(context.Background(), b))
	return b
}

func seedApartment(t *testing.T, db *gorm.DB, b *ledger.Building, number string, mills int) *ledger.Apartment {
	t.Helper()
	a, err := ledger.NewApartment(b.ID, number, "Owner "+number, mills, 0)
	require.NoError(t, err)
	require.NoError(t, NewGormApartmentRepository(db).Save(context.Background(), a))
	return a
}

func TestGormBuildingRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormBuildingRepository(db)
	ctx := context.Background()

	b := seedBuilding(t, db)

	t.Run("round trip", func(t *testing.T) {
		found, err := repo.FindByID(ctx, b.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, b.Name, found.Name)
		assert.True(t, found.ManagementFeePerApartment.Equal(decimal.RequireFromString("10.00")))
		assert.Equal(t, 1, found.Version)
	})

	t.Run("missing returns nil", func(t *testing.T) {
		found, err := repo.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("optimistic lock", func(t *testing.T) {
		goal, err := valueobject.NewMoneyEURFromString("6000.00")
		require.NoError(t, err)
		require.NoError(t, b.ConfigureReserveFund(goal, 6, b.FinancialSystemStartDate))
		require.NoError(t, repo.SaveWithLock(ctx, b))

		// Replaying the same stale version must conflict.
		assert.ErrorIs(t, repo.SaveWithLock(ctx, b), shared.ErrConcurrencyConflict)
	})

	t.Run("paged listing", func(t *testing.T) {
		page, err := repo.FindAll(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		assert.EqualValues(t, 1, page.Total)
		assert.Len(t, page.Items, 1)
	})
}

func TestGormApartmentRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormApartmentRepository(db)
	ctx := context.Background()

	b := seedBuilding(t, db)
	seedApartment(t, db, b, "2", 400)
	a1 := seedApartment(t, db, b, "1", 600)

	t.Run("find by building ordered by number", func(t *testing.T) {
		apartments, err := repo.FindByBuilding(ctx, b.ID)
		require.NoError(t, err)
		require.Len(t, apartments, 2)
		assert.Equal(t, "1", apartments[0].Number)
		assert.Equal(t, "2", apartments[1].Number)
	})

	t.Run("find by number", func(t *testing.T) {
		found, err := repo.FindByBuildingAndNumber(ctx, b.ID, "1")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, a1.ID, found.ID)

		missing, err := repo.FindByBuildingAndNumber(ctx, b.ID, "99")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("zero balance survives a locked save", func(t *testing.T) {
		a1.OverwriteCachedBalance(decimal.RequireFromString("12.50"))
		require.NoError(t, repo.SaveWithLock(ctx, a1))
		a1.OverwriteCachedBalance(decimal.Zero)
		require.NoError(t, repo.SaveWithLock(ctx, a1))

		found, err := repo.FindByID(ctx, a1.ID)
		require.NoError(t, err)
		assert.True(t, found.CachedBalance.IsZero())
		assert.Equal(t, a1.Version, found.Version)
	})
}

func TestGormTransactionRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()

	b := seedBuilding(t, db)
	a := seedApartment(t, db, b, "1", 1000)

	charge := func(amount string, on time.Time, originType ledger.OriginType, originID string) *ledger.Transaction {
		m, err := valueobject.NewMoneyEURFromString(amount)
		require.NoError(t, err)
		txn, err := ledger.NewCharge(a.ID, b.ID, m, originType, originID, on, "")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, txn))
		return txn
	}
	credit := func(amount string, on time.Time) *ledger.Transaction {
		m, err := valueobject.NewMoneyEURFromString(amount)
		require.NoError(t, err)
		txn, err := ledger.NewCredit(a.ID, b.ID, m, ledger.OriginPayment, "pay", on, "")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, txn))
		return txn
	}

	jan := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)
	charge("300.00", jan, ledger.OriginExpenseCharge, "exp-1")
	charge("10.00", jan, ledger.OriginManagementFee, "2026-01")
	credit("250.00", jan)
	removable := charge("5.00", feb, ledger.OriginExpenseCharge, "exp-2")

	t.Run("replay order", func(t *testing.T) {
		txns, err := repo.FindByApartment(ctx, a.ID)
		require.NoError(t, err)
		require.Len(t, txns, 4)
		assert.Equal(t, "exp-2", txns[3].OriginID)
	})

	t.Run("exists by origin", func(t *testing.T) {
		exists, err := repo.ExistsByOrigin(ctx, a.ID, ledger.OriginManagementFee, "2026-01")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByOrigin(ctx, a.ID, ledger.OriginManagementFee, "2026-02")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("monthly sums", func(t *testing.T) {
		from, to := ledger.MonthBounds(2026, time.January)

		charges, err := repo.SumByKindBetween(ctx, b.ID, ledger.KindCharge, from, to)
		require.NoError(t, err)
		assert.True(t, charges.Equal(decimal.RequireFromString("-310")), "got %s", charges)

		payments, err := repo.SumByKindBetween(ctx, b.ID, ledger.KindCredit, from, to)
		require.NoError(t, err)
		assert.True(t, payments.Equal(decimal.RequireFromString("250")), "got %s", payments)

		fees, err := repo.SumByOriginTypeBetween(ctx, b.ID, ledger.OriginManagementFee, from, to)
		require.NoError(t, err)
		assert.True(t, fees.Equal(decimal.RequireFromString("-10")), "got %s", fees)
	})

	t.Run("empty sum is zero", func(t *testing.T) {
		from, to := ledger.MonthBounds(2027, time.January)
		sum, err := repo.SumByKindBetween(ctx, b.ID, ledger.KindCharge, from, to)
		require.NoError(t, err)
		assert.True(t, sum.IsZero())
	})

	t.Run("between is half open", func(t *testing.T) {
		from, to := ledger.MonthBounds(2026, time.January)
		txns, err := repo.FindByBuildingBetween(ctx, b.ID, from, to)
		require.NoError(t, err)
		assert.Len(t, txns, 3)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, removable.ID))
		assert.ErrorIs(t, repo.Delete(ctx, removable.ID), shared.ErrNotFound)

		found, err := repo.FindByID(ctx, removable.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestGormMonthlyBalanceRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormMonthlyBalanceRepository(db)
	ctx := context.Background()

	b := seedBuilding(t, db)

	m, err := ledger.NewMonthlyBalance(b.ID, 2026, time.January)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, m))

	t.Run("find by period", func(t *testing.T) {
		found, err := repo.FindByPeriod(ctx, b.ID, 2026, time.January)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, m.ID, found.ID)

		missing, err := repo.FindByPeriod(ctx, b.ID, 2026, time.February)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("close persists through locked save", func(t *testing.T) {
		require.NoError(t, m.Close(ledger.ClosingFigures{
			TotalCharges:  decimal.RequireFromString("300.00"),
			TotalPayments: decimal.RequireFromString("250.00"),
		}))
		require.NoError(t, repo.SaveWithLock(ctx, m))

		found, err := repo.FindByPeriod(ctx, b.ID, 2026, time.January)
		require.NoError(t, err)
		assert.True(t, found.Closed)
		assert.True(t, found.CarryForward.Equal(decimal.RequireFromString("50")))
	})

	t.Run("chronological listing", func(t *testing.T) {
		later, err := ledger.NewMonthlyBalance(b.ID, 2026, time.February)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, later))

		balances, err := repo.FindByBuilding(ctx, b.ID)
		require.NoError(t, err)
		require.Len(t, balances, 2)
		assert.Equal(t, 1, balances[0].Month)
		assert.Equal(t, 2, balances[1].Month)
	})
}

func TestGormUnitOfWorkRollsBack(t *testing.T) {
	db := newTestDB(t)
	uow := NewGormUnitOfWork(db)
	ctx := context.Background()

	b := seedBuilding(t, db)
	boom := errors.New("boom")

	err := uow.Execute(ctx, func(r ledger.Repositories) error {
		a, err := ledger.NewApartment(b.ID, "1", "Owner", 500, 0)
		if err != nil {
			return err
		}
		if err := r.Apartments.Save(ctx, a); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	apartments, err := NewGormApartmentRepository(db).FindByBuilding(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, apartments, "rollback must discard the apartment")
}
