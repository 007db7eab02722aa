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

// ExpenseService records building expenses and turns them into ledger
// charges.
type ExpenseService struct {
	uow    ledger.UnitOfWork
	locks  *KeyedLocks
	logger *zap.Logger
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(uow ledger.UnitOfWork, locks *KeyedLocks, logger *zap.Logger) *ExpenseService {
	return &ExpenseService{uow: uow, locks: locks, logger: logger}
}

// CreateExpenseRequest carries the data to record an expense
type CreateExpenseRequest struct {
	BuildingID   uuid.UUID
	Amount       decimal.Decimal
	Date         time.Time
	Category     ledger.ExpenseCategory
	Strategy     ledger.DistributionStrategy
	ApartmentIDs ledger.UUIDList
	Description  string
}

// CreateExpense records an expense without allocating it
func (s *ExpenseService) CreateExpense(ctx context.Context, req CreateExpenseRequest) (*ledger.Expense, error) {
	var e *ledger.Expense
	err := s.uow.Execute(ctx, func(r ledger.Repositories) error {
		b, err := r.Buildings.FindByID(ctx, req.BuildingID)
		if err != nil {
			return err
		}
		if b == nil {
			return shared.ErrNotFound
		}
		if req.Date.Before(b.FinancialSystemStartDate) {
			return ledger.ErrBeforeSystemStart
		}

		e, err = ledger.NewExpense(req.BuildingID, valueobject.NewMoneyEUR(req.Amount), req.Date,
			req.Category, req.Strategy, req.ApartmentIDs, req.Description)
		if err != nil {
			return err
		}
		return r.Expenses.Save(ctx, e)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("expense recorded",
		zap.String("expense_id", e.ID.String()),
		zap.String("building_id", e.BuildingID.String()),
		zap.String("amount", e.Amount.String()),
		zap.String("strategy", e.Strategy.String()))
	return e, nil
}

// GetExpense fetches a single expense
func (s *ExpenseService) GetExpense(ctx context.Context, id uuid.UUID) (*ledger.Expense, error) {
	var e *ledger.Expense
	err := s.uow.Execute(ctx, func(r ledger.Repositories) error {
		var err error
		e, err = r.Expenses.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if e == nil {
			return shared.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListExpenses returns a page of a building's expenses
func (s *ExpenseService) ListExpenses(ctx context.Context, buildingID uuid.UUID, filter shared.Filter) (*shared.Paginated[*ledger.Expense], error) {
	var page *shared.Paginated[*ledger.Expense]
	err := s.uow.Execute(ctx, func(r ledger.Repositories) error {
		var err error
		page, err = r.Expenses.FindByBuilding(ctx, buildingID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// AllocationLine is one apartment's share of an allocated expense
type AllocationLine struct {
	ApartmentID   uuid.UUID       `json:"apartment_id"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID uuid.UUID       `json:"transaction_id"`
}

// AllocationResult is the outcome of allocating one expense
type AllocationResult struct {
	ExpenseID uuid.UUID                   `json:"expense_id"`
	Strategy  ledger.DistributionStrategy `json:"strategy"`
	Lines     []AllocationLine            `json:"lines"`
}

// AllocateExpense splits an expense across the building's apartments and
// writes one charge per non-zero share. The whole run is one transaction
// under the building lock: either every charge lands or none do, and an
// already issued expense is rejected before any write.
func (s *ExpenseService) AllocateExpense(ctx context.Context, expenseID uuid.UUID) (*AllocationResult, error) {
	buildingID, err := s.expenseBuilding(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.LockBuilding(buildingID)
	defer unlock()

	var result *AllocationResult
	err = s.uow.Execute(ctx, func(r ledger.Repositories) error {
		e, err := r.Expenses.FindByID(ctx, expenseID)
		if err != nil {
			return err
		}
		if e == nil {
			return shared.ErrNotFound
		}
		if e.Issued {
			return ledger.ErrAlreadyIssued
		}

		b, err := r.Buildings.FindByID(ctx, e.BuildingID)
		if err != nil {
			return err
		}
		if b == nil {
			return shared.ErrNotFound
		}

		if err := ensureMonthOpen(ctx, r, b.ID, e.Date); err != nil {
			return err
		}

		apartments, err := r.Apartments.FindByBuilding(ctx, e.BuildingID)
		if err != nil {
			return err
		}

		shares, err := ledger.Allocate(e.AmountMoney(), e.Strategy, apartments, e.ApartmentIDs)
		if err != nil {
			return err
		}

		lines := make([]AllocationLine, 0, len(shares))
		for _, a := range apartments {
			share, ok := shares[a.ID]
			if !ok || !share.IsPositive() {
				continue
			}
			charge, err := ledger.NewCharge(a.ID, b.ID, valueobject.NewMoneyEUR(share),
				ledger.OriginExpenseCharge, e.ID.String(), e.Date, e.Description)
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
			lines = append(lines, AllocationLine{ApartmentID: a.ID, Amount: share, TransactionID: charge.ID})
		}

		if err := e.MarkIssued(); err != nil {
			return err
		}
		if err := r.Expenses.SaveWithLock(ctx, e); err != nil {
			return err
		}

		result = &AllocationResult{ExpenseID: e.ID, Strategy: e.Strategy, Lines: lines}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("expense allocated",
		zap.String("expense_id", expenseID.String()),
		zap.Int("charges", len(result.Lines)))
	return result, nil
}

func (s *ExpenseService) expenseBuilding(ctx context.Context, expenseID uuid.UUID) (uuid.UUID, error) {
	var buildingID uuid.UUID
	err := s.uow.Execute(ctx, func(r ledger.Repositories) error {
		e, err := r.Expenses.FindByID(ctx, expenseID)
		if err != nil {
			return err
		}
		if e == nil {
			return shared.ErrNotFound
		}
		buildingID = e.BuildingID
		return nil
	})
	return buildingID, err
}
