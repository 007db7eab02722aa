package ledger

import (
	"context"
	"time"

	"github.com/condoledger/backend/internal/domain/ledger"
	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// In-memory repository set backing the service tests. Insertion order is
// preserved so listings are deterministic.
type fakeStore struct {
	buildings       []*ledger.Building
	apartments      []*ledger.Apartment
	expenses        []*ledger.Expense
	payments        []*ledger.Payment
	transactions    []*ledger.Transaction
	monthlyBalances []*ledger.MonthlyBalance
}

type fakeUnitOfWork struct {
	store *fakeStore
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{store: &fakeStore{}}
}

func (u *fakeUnitOfWork) Execute(_ context.Context, fn func(r ledger.Repositories) error) error {
	return fn(ledger.Repositories{
		Buildings:       &fakeBuildingRepo{store: u.store},
		Apartments:      &fakeApartmentRepo{store: u.store},
		Expenses:        &fakeExpenseRepo{store: u.store},
		Payments:        &fakePaymentRepo{store: u.store},
		Transactions:    &fakeTransactionRepo{store: u.store},
		MonthlyBalances: &fakeMonthlyBalanceRepo{store: u.store},
	})
}

type fakeBuildingRepo struct{ store *fakeStore }

func (f *fakeBuildingRepo) Save(_ context.Context, b *ledger.Building) error {
	f.store.buildings = append(f.store.buildings, b)
	return nil
}

func (f *fakeBuildingRepo) SaveWithLock(_ context.Context, b *ledger.Building) error { return nil }

func (f *fakeBuildingRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Building, error) {
	for _, b := range f.store.buildings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeBuildingRepo) FindAll(_ context.Context, filter shared.Filter) (*shared.Paginated[*ledger.Building], error) {
	return shared.NewPaginated(f.store.buildings, int64(len(f.store.buildings)), filter.Page, filter.PageSize), nil
}

type fakeApartmentRepo struct{ store *fakeStore }

func (f *fakeApartmentRepo) Save(_ context.Context, a *ledger.Apartment) error {
	f.store.apartments = append(f.store.apartments, a)
	return nil
}

func (f *fakeApartmentRepo) SaveWithLock(_ context.Context, a *ledger.Apartment) error { return nil }

func (f *fakeApartmentRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Apartment, error) {
	for _, a := range f.store.apartments {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeApartmentRepo) FindByBuilding(_ context.Context, buildingID uuid.UUID) ([]*ledger.Apartment, error) {
	var out []*ledger.Apartment
	for _, a := range f.store.apartments {
		if a.BuildingID == buildingID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeApartmentRepo) FindByBuildingAndNumber(_ context.Context, buildingID uuid.UUID, number string) (*ledger.Apartment, error) {
	for _, a := range f.store.apartments {
		if a.BuildingID == buildingID && a.Number == number {
			return a, nil
		}
	}
	return nil, nil
}

type fakeExpenseRepo struct{ store *fakeStore }

func (f *fakeExpenseRepo) Save(_ context.Context, e *ledger.Expense) error {
	f.store.expenses = append(f.store.expenses, e)
	return nil
}

func (f *fakeExpenseRepo) SaveWithLock(_ context.Context, e *ledger.Expense) error { return nil }

func (f *fakeExpenseRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Expense, error) {
	for _, e := range f.store.expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeExpenseRepo) FindByBuilding(_ context.Context, buildingID uuid.UUID, filter shared.Filter) (*shared.Paginated[*ledger.Expense], error) {
	var out []*ledger.Expense
	for _, e := range f.store.expenses {
		if e.BuildingID == buildingID {
			out = append(out, e)
		}
	}
	return shared.NewPaginated(out, int64(len(out)), filter.Page, filter.PageSize), nil
}

type fakePaymentRepo struct{ store *fakeStore }

func (f *fakePaymentRepo) Save(_ context.Context, p *ledger.Payment) error {
	f.store.payments = append(f.store.payments, p)
	return nil
}

func (f *fakePaymentRepo) SaveWithLock(_ context.Context, p *ledger.Payment) error { return nil }

func (f *fakePaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Payment, error) {
	for _, p := range f.store.payments {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentRepo) FindByApartment(_ context.Context, apartmentID uuid.UUID, filter shared.Filter) (*shared.Paginated[*ledger.Payment], error) {
	var out []*ledger.Payment
	for _, p := range f.store.payments {
		if p.ApartmentID == apartmentID {
			out = append(out, p)
		}
	}
	return shared.NewPaginated(out, int64(len(out)), filter.Page, filter.PageSize), nil
}

type fakeTransactionRepo struct{ store *fakeStore }

func (f *fakeTransactionRepo) Save(_ context.Context, t *ledger.Transaction) error {
	f.store.transactions = append(f.store.transactions, t)
	return nil
}

func (f *fakeTransactionRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	for _, t := range f.store.transactions {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeTransactionRepo) FindByApartment(_ context.Context, apartmentID uuid.UUID) ([]*ledger.Transaction, error) {
	var out []*ledger.Transaction
	for _, t := range f.store.transactions {
		if t.ApartmentID == apartmentID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTransactionRepo) FindByApartmentPaged(ctx context.Context, apartmentID uuid.UUID, filter shared.Filter) (*shared.Paginated[*ledger.Transaction], error) {
	out, _ := f.FindByApartment(ctx, apartmentID)
	return shared.NewPaginated(out, int64(len(out)), filter.Page, filter.PageSize), nil
}

func (f *fakeTransactionRepo) FindByBuildingBetween(_ context.Context, buildingID uuid.UUID, from, to time.Time) ([]*ledger.Transaction, error) {
	var out []*ledger.Transaction
	for _, t := range f.store.transactions {
		if t.BuildingID == buildingID && !t.OccurredOn.Before(from) && t.OccurredOn.Before(to) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTransactionRepo) ExistsByOrigin(_ context.Context, apartmentID uuid.UUID, originType ledger.OriginType, originID string) (bool, error) {
	for _, t := range f.store.transactions {
		if t.ApartmentID == apartmentID && t.OriginType == originType && t.OriginID == originID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTransactionRepo) FindByOrigin(_ context.Context, originType ledger.OriginType, originID string) ([]*ledger.Transaction, error) {
	var out []*ledger.Transaction
	for _, t := range f.store.transactions {
		if t.OriginType == originType && t.OriginID == originID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTransactionRepo) SumByKindBetween(_ context.Context, buildingID uuid.UUID, kind ledger.TransactionKind, from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, t := range f.store.transactions {
		if t.BuildingID == buildingID && t.Kind == kind && !t.OccurredOn.Before(from) && t.OccurredOn.Before(to) {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}

func (f *fakeTransactionRepo) SumByOriginTypeBetween(_ context.Context, buildingID uuid.UUID, originType ledger.OriginType, from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, t := range f.store.transactions {
		if t.BuildingID == buildingID && t.OriginType == originType && !t.OccurredOn.Before(from) && t.OccurredOn.Before(to) {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}

func (f *fakeTransactionRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, t := range f.store.transactions {
		if t.ID == id {
			f.store.transactions = append(f.store.transactions[:i], f.store.transactions[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

type fakeMonthlyBalanceRepo struct{ store *fakeStore }

func (f *fakeMonthlyBalanceRepo) Save(_ context.Context, m *ledger.MonthlyBalance) error {
	f.store.monthlyBalances = append(f.store.monthlyBalances, m)
	return nil
}

func (f *fakeMonthlyBalanceRepo) SaveWithLock(_ context.Context, m *ledger.MonthlyBalance) error {
	return nil
}

func (f *fakeMonthlyBalanceRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.MonthlyBalance, error) {
	for _, m := range f.store.monthlyBalances {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeMonthlyBalanceRepo) FindByPeriod(_ context.Context, buildingID uuid.UUID, year int, month time.Month) (*ledger.MonthlyBalance, error) {
	for _, m := range f.store.monthlyBalances {
		if m.BuildingID == buildingID && m.Year == year && m.Month == int(month) {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeMonthlyBalanceRepo) FindByBuilding(_ context.Context, buildingID uuid.UUID) ([]*ledger.MonthlyBalance, error) {
	var out []*ledger.MonthlyBalance
	for _, m := range f.store.monthlyBalances {
		if m.BuildingID == buildingID {
			out = append(out, m)
		}
	}
	return out, nil
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
