package ledger

import (
	"context"
	"time"

	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BuildingRepository persists building aggregates
type BuildingRepository interface {
	Save(ctx context.Context, b *Building) error
	SaveWithLock(ctx context.Context, b *Building) error
	FindByID(ctx context.Context, id uuid.UUID) (*Building, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*Building], error)
}

// ApartmentRepository persists apartment aggregates. SaveWithLock enforces
// optimistic locking against the version column.
type ApartmentRepository interface {
	Save(ctx context.Context, a *Apartment) error
	SaveWithLock(ctx context.Context, a *Apartment) error
	FindByID(ctx context.Context, id uuid.UUID) (*Apartment, error)
	FindByBuilding(ctx context.Context, buildingID uuid.UUID) ([]*Apartment, error)
	FindByBuildingAndNumber(ctx context.Context, buildingID uuid.UUID, number string) (*Apartment, error)
}

// ExpenseRepository persists building expenses
type ExpenseRepository interface {
	Save(ctx context.Context, e *Expense) error
	SaveWithLock(ctx context.Context, e *Expense) error
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)
	FindByBuilding(ctx context.Context, buildingID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Expense], error)
}

// PaymentRepository persists payments
type PaymentRepository interface {
	Save(ctx context.Context, p *Payment) error
	SaveWithLock(ctx context.Context, p *Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByApartment(ctx context.Context, apartmentID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Payment], error)
}

// TransactionRepository persists the append-only ledger. There is no update;
// Delete exists solely for the reconciliation duplicate-removal path.
type TransactionRepository interface {
	Save(ctx context.Context, t *Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	FindByApartment(ctx context.Context, apartmentID uuid.UUID) ([]*Transaction, error)
	FindByApartmentPaged(ctx context.Context, apartmentID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Transaction], error)
	FindByBuildingBetween(ctx context.Context, buildingID uuid.UUID, from, to time.Time) ([]*Transaction, error)
	ExistsByOrigin(ctx context.Context, apartmentID uuid.UUID, originType OriginType, originID string) (bool, error)
	FindByOrigin(ctx context.Context, originType OriginType, originID string) ([]*Transaction, error)
	SumByKindBetween(ctx context.Context, buildingID uuid.UUID, kind TransactionKind, from, to time.Time) (decimal.Decimal, error)
	SumByOriginTypeBetween(ctx context.Context, buildingID uuid.UUID, originType OriginType, from, to time.Time) (decimal.Decimal, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MonthlyBalanceRepository persists per-month building snapshots
type MonthlyBalanceRepository interface {
	Save(ctx context.Context, m *MonthlyBalance) error
	SaveWithLock(ctx context.Context, m *MonthlyBalance) error
	FindByID(ctx context.Context, id uuid.UUID) (*MonthlyBalance, error)
	FindByPeriod(ctx context.Context, buildingID uuid.UUID, year int, month time.Month) (*MonthlyBalance, error)
	FindByBuilding(ctx context.Context, buildingID uuid.UUID) ([]*MonthlyBalance, error)
}

// Repositories bundles every ledger repository, bound to one transactional
// scope when handed out by a UnitOfWork.
type Repositories struct {
	Buildings       BuildingRepository
	Apartments      ApartmentRepository
	Expenses        ExpenseRepository
	Payments        PaymentRepository
	Transactions    TransactionRepository
	MonthlyBalances MonthlyBalanceRepository
}

// UnitOfWork runs a function against a single transactional repository set.
// If fn returns an error the whole transaction rolls back; no partial ledger
// writes survive.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(r Repositories) error) error
}
