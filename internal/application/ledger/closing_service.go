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

// ClosingService closes building months in strict chronological order
type ClosingService struct {
	uow    ledger.UnitOfWork
	locks  *KeyedLocks
	logger *zap.Logger
}

// NewClosingService creates a new ClosingService
func NewClosingService(uow ledger.UnitOfWork, locks *KeyedLocks, logger *zap.Logger) *ClosingService {
	return &ClosingService{uow: uow, locks: locks, logger: logger}
}

// CloseMonth freezes the given month: it totals the month's ledger activity,
// takes the previous month's carry forward as the opening obligations, and
// computes the new carry forward. Months close in order; the first closable
// month is the building's financial start month.
func (s *ClosingService) CloseMonth(ctx context.Context, buildingID uuid.UUID, year int, month time.Month) (*ledger.MonthlyBalance, error) {
	unlock := s.locks.LockBuilding(buildingID)
	defer unlock()

	var closed *ledger.MonthlyBalance
	err := s.uow.Execute(ctx, func(r ledger.Repositories) error {
		b, err := r.Buildings.FindByID(ctx, buildingID)
		if err != nil {
			return err
		}
		if b == nil {
			return shared.ErrNotFound
		}

		firstYear, firstMonth := b.FirstActiveMonth()
		first := time.Date(firstYear, firstMonth, 1, 0, 0, 0, 0, time.UTC)
		current := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		if current.Before(first) {
			return ledger.ErrBeforeSystemStart
		}

		previousCarry := decimal.Zero
		if !current.Equal(first) {
			prevYear, prevMonth := ledger.PreviousMonth(year, month)
			prev, err := r.MonthlyBalances.FindByPeriod(ctx, buildingID, prevYear, prevMonth)
			if err != nil {
				return err
			}
			if prev == nil || !prev.Closed {
				return ledger.ErrPriorMonthOpen
			}
			previousCarry = prev.CarryForward
		}

		m, err := r.MonthlyBalances.FindByPeriod(ctx, buildingID, year, month)
		if err != nil {
			return err
		}
		if m != nil && m.Closed {
			return ledger.ErrAlreadyClosed
		}
		created := false
		if m == nil {
			m, err = ledger.NewMonthlyBalance(buildingID, year, month)
			if err != nil {
				return err
			}
			created = true
		}

		from, to := ledger.MonthBounds(year, month)
		charges, err := r.Transactions.SumByKindBetween(ctx, buildingID, ledger.KindCharge, from, to)
		if err != nil {
			return err
		}
		payments, err := r.Transactions.SumByKindBetween(ctx, buildingID, ledger.KindCredit, from, to)
		if err != nil {
			return err
		}
		reserve, err := r.Transactions.SumByOriginTypeBetween(ctx, buildingID, ledger.OriginReserveFund, from, to)
		if err != nil {
			return err
		}
		fees, err := r.Transactions.SumByOriginTypeBetween(ctx, buildingID, ledger.OriginManagementFee, from, to)
		if err != nil {
			return err
		}

		err = m.Close(ledger.ClosingFigures{
			PreviousObligations: previousCarry,
			TotalCharges:        charges.Abs(),
			TotalPayments:       payments.Abs(),
			ReserveFundAmount:   reserve.Abs(),
			ManagementFees:      fees.Abs(),
		})
		if err != nil {
			return err
		}
		if created {
			err = r.MonthlyBalances.Save(ctx, m)
		} else {
			err = r.MonthlyBalances.SaveWithLock(ctx, m)
		}
		if err != nil {
			return err
		}
		closed = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("month closed",
		zap.String("building_id", buildingID.String()),
		zap.String("period", ledger.MonthKey(year, month)),
		zap.String("carry_forward", closed.CarryForward.String()))
	return closed, nil
}

// ListMonthlyBalances returns a building's monthly snapshots
func (s *ClosingService) ListMonthlyBalances(ctx context.Context, buildingID uuid.UUID) ([]*ledger.MonthlyBalance, error) {
	var balances []*ledger.MonthlyBalance
	err := s.uow.Execute(ctx, func(r ledger.Repositories) error {
		b, err := r.Buildings.FindByID(ctx, buildingID)
		if err != nil {
			return err
		}
		if b == nil {
			return shared.ErrNotFound
		}
		balances, err = r.MonthlyBalances.FindByBuilding(ctx, buildingID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return balances, nil
}
