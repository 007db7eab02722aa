package ledger

import (
	"context"
	"time"

	"github.com/condoledger/backend/internal/domain/ledger"
	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/condoledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RecurringService applies a building's monthly recurring charges:
// management fees and reserve fund contributions.
type RecurringService struct {
	uow    ledger.UnitOfWork
	locks  *KeyedLocks
	logger *zap.Logger
}

// NewRecurringService creates a new RecurringService
func NewRecurringService(uow ledger.UnitOfWork, locks *KeyedLocks, logger *zap.Logger) *RecurringService {
	return &RecurringService{uow: uow, locks: locks, logger: logger}
}

// RecurringChargeResult is one applied or deferred recurring charge
type RecurringChargeResult struct {
	ApartmentID uuid.UUID         `json:"apartment_id"`
	OriginType  ledger.OriginType `json:"origin_type"`
	Amount      decimal.Decimal   `json:"amount"`
	Deferred    bool              `json:"deferred"`
	DeferReason string            `json:"defer_reason,omitempty"`
}

// RecurringRunResult is the outcome of one monthly recurring run
type RecurringRunResult struct {
	BuildingID uuid.UUID               `json:"building_id"`
	Period     string                  `json:"period"`
	Applied    []RecurringChargeResult `json:"applied"`
	Deferred   []RecurringChargeResult `json:"deferred"`
	Skipped    int                     `json:"skipped"`
}

// ApplyMonth charges the month's management fees and reserve fund
// contributions. The month key on each charge makes the run idempotent:
// apartments already charged for the month are skipped, so the run can be
// retried after a partial failure without double billing anyone.
func (s *RecurringService) ApplyMonth(ctx context.Context, buildingID uuid.UUID, year int, month time.Month) (*RecurringRunResult, error) {
	unlock := s.locks.LockBuilding(buildingID)
	defer unlock()

	result := &RecurringRunResult{
		BuildingID: buildingID,
		Period:     ledger.MonthKey(year, month),
		Applied:    []RecurringChargeResult{},
		Deferred:   []RecurringChargeResult{},
	}

	err := s.uow.Execute(ctx, func(r ledger.Repositories) error {
		b, err := r.Buildings.FindByID(ctx, buildingID)
		if err != nil {
			return err
		}
		if b == nil {
			return shared.ErrNotFound
		}

		monthStart, _ := ledger.MonthBounds(year, month)
		if monthStart.Before(truncateMonth(b.FinancialSystemStartDate)) {
			return ledger.ErrBeforeSystemStart
		}
		// A building that joined mid-month accrues that month's charges on
		// its start date, never before it.
		occurredOn := monthStart
		if occurredOn.Before(b.FinancialSystemStartDate) {
			occurredOn = b.FinancialSystemStartDate
		}
		if err := ensureMonthOpen(ctx, r, b.ID, occurredOn); err != nil {
			return err
		}

		apartments, err := r.Apartments.FindByBuilding(ctx, buildingID)
		if err != nil {
			return err
		}
		if len(apartments) == 0 {
			return ledger.ErrNoApartments
		}

		key := ledger.MonthKey(year, month)

		feeCharged, err := s.chargedSet(ctx, r, apartments, ledger.OriginManagementFee, key)
		if err != nil {
			return err
		}
		fees := ledger.ManagementFeeCharges(b, apartments, year, month, feeCharged)
		result.Skipped += len(feeCharged)

		reserveCharged, err := s.chargedSet(ctx, r, apartments, ledger.OriginReserveFund, key)
		if err != nil {
			return err
		}
		outstanding := make(map[uuid.UUID]decimal.Decimal, len(apartments))
		for _, a := range apartments {
			txns, err := r.Transactions.FindByApartment(ctx, a.ID)
			if err != nil {
				return err
			}
			outstanding[a.ID] = ledger.OutstandingNonReserve(txns)
		}
		reserve, err := ledger.ReserveFundCharges(b, apartments, year, month, reserveCharged, outstanding)
		if err != nil {
			return err
		}
		result.Skipped += len(reserveCharged)

		byID := make(map[uuid.UUID]*ledger.Apartment, len(apartments))
		for _, a := range apartments {
			byID[a.ID] = a
		}

		for _, planned := range append(fees, reserve...) {
			entry := RecurringChargeResult{
				ApartmentID: planned.ApartmentID,
				OriginType:  planned.OriginType,
				Amount:      planned.Amount,
				Deferred:    planned.Deferred,
				DeferReason: planned.DeferReason,
			}
			if planned.Deferred {
				result.Deferred = append(result.Deferred, entry)
				continue
			}

			a := byID[planned.ApartmentID]
			charge, err := ledger.NewCharge(a.ID, b.ID, valueobject.NewMoneyEUR(planned.Amount),
				planned.OriginType, planned.OriginID, occurredOn, planned.Description)
			if err != nil {
				return err
			}
			if err := ledger.AppendTransaction(b, a, charge); err != nil {
				return err
			}
			if err := r.Transactions.Save(ctx, charge); err != nil {
				return err
			}
			if err := r.Apartments.SaveWithLock(ctx, a); err != nil {
				return err
			}
			result.Applied = append(result.Applied, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("recurring charges applied",
		zap.String("building_id", buildingID.String()),
		zap.String("period", result.Period),
		zap.Int("applied", len(result.Applied)),
		zap.Int("deferred", len(result.Deferred)),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

func (s *RecurringService) chargedSet(
	ctx context.Context,
	r ledger.Repositories,
	apartments []*ledger.Apartment,
	originType ledger.OriginType,
	monthKey string,
) (map[uuid.UUID]bool, error) {
	charged := make(map[uuid.UUID]bool)
	for _, a := range apartments {
		exists, err := r.Transactions.ExistsByOrigin(ctx, a.ID, originType, monthKey)
		if err != nil {
			return nil, err
		}
		if exists {
			charged[a.ID] = true
		}
	}
	return charged, nil
}

func truncateMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
