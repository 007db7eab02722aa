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

// PaymentService records owner payments and posts them to the ledger
type PaymentService struct {
	uow    ledger.UnitOfWork
	locks  *KeyedLocks
	logger *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(uow ledger.UnitOfWork, locks *KeyedLocks, logger *zap.Logger) *PaymentService {
	return &PaymentService{uow: uow, locks: locks, logger: logger}
}

// CreatePaymentRequest carries the data to register a received payment
type CreatePaymentRequest struct {
	ApartmentID uuid.UUID
	Amount      decimal.Decimal
	Date        time.Time
	Method      ledger.PaymentMethod
	Reference   string
}

// CreatePayment registers a payment without posting it to the ledger
func (s *PaymentService) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*ledger.Payment, error) {
	var p *ledger.Payment
	err := s.uow.Execute(ctx, func(r ledger.Repositories) error {
		a, err := r.Apartments.FindByID(ctx, req.ApartmentID)
		if err != nil {
			return err
		}
		if a == nil {
			return shared.ErrNotFound
		}

		p, err = ledger.NewPayment(a.ID, a.BuildingID, valueobject.NewMoneyEUR(req.Amount), req.Date, req.Method, req.Reference)
		if err != nil {
			return err
		}
		return r.Payments.Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment registered",
		zap.String("payment_id", p.ID.String()),
		zap.String("apartment_id", p.ApartmentID.String()),
		zap.String("amount", p.Amount.String()))
	return p, nil
}

// RecordPayment posts a registered payment to the ledger as a credit. The
// payment-to-transaction link makes this idempotent: a second call finds the
// link and fails with DUPLICATE_PAYMENT, leaving the ledger untouched.
func (s *PaymentService) RecordPayment(ctx context.Context, paymentID uuid.UUID) (*ledger.Transaction, error) {
	apartmentID, err := s.paymentApartment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.LockApartment(apartmentID)
	defer unlock()

	var credit *ledger.Transaction
	err = s.uow.Execute(ctx, func(r ledger.Repositories) error {
		p, err := r.Payments.FindByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if p == nil {
			return shared.ErrNotFound
		}
		if p.IsRecorded() {
			return ledger.ErrDuplicatePayment
		}

		a, err := r.Apartments.FindByID(ctx, p.ApartmentID)
		if err != nil {
			return err
		}
		if a == nil {
			return shared.ErrNotFound
		}
		b, err := r.Buildings.FindByID(ctx, a.BuildingID)
		if err != nil {
			return err
		}
		if b == nil {
			return shared.ErrNotFound
		}

		if err := ensureMonthOpen(ctx, r, b.ID, p.Date); err != nil {
			return err
		}

		credit, err = ledger.NewCredit(a.ID, b.ID, p.AmountMoney(), ledger.OriginPayment, p.ID.String(), p.Date, paymentDescription(p))
		if err != nil {
			return err
		}
		if err := ledger.AppendTransaction(b, a, credit); err != nil {
			return err
		}
		if err := r.Transactions.Save(ctx, credit); err != nil {
			return err
		}
		if err := r.Apartments.SaveWithLock(ctx, a); err != nil {
			return err
		}
		if err := p.LinkTransaction(credit.ID); err != nil {
			return err
		}
		return r.Payments.SaveWithLock(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("payment_id", paymentID.String()),
		zap.String("transaction_id", credit.ID.String()))
	return credit, nil
}

// ListPayments returns a page of an apartment's payments
func (s *PaymentService) ListPayments(ctx context.Context, apartmentID uuid.UUID, filter shared.Filter) (*shared.Paginated[*ledger.Payment], error) {
	var page *shared.Paginated[*ledger.Payment]
	err := s.uow.Execute(ctx, func(r ledger.Repositories) error {
		var err error
		page, err = r.Payments.FindByApartment(ctx, apartmentID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (s *PaymentService) paymentApartment(ctx context.Context, paymentID uuid.UUID) (uuid.UUID, error) {
	var apartmentID uuid.UUID
	err := s.uow.Execute(ctx, func(r ledger.Repositories) error {
		p, err := r.Payments.FindByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if p == nil {
			return shared.ErrNotFound
		}
		apartmentID = p.ApartmentID
		return nil
	})
	return apartmentID, err
}

func paymentDescription(p *ledger.Payment) string {
	if p.Reference != "" {
		return "Payment " + p.Reference
	}
	return "Payment " + string(p.Method)
}

// BalanceService answers balance questions from the ledger
type BalanceService struct {
	uow    ledger.UnitOfWork
	logger *zap.Logger
}

// NewBalanceService creates a new BalanceService
func NewBalanceService(uow ledger.UnitOfWork, logger *zap.Logger) *BalanceService {
	return &BalanceService{uow: uow, logger: logger}
}

// BalanceResult is an apartment balance at a point in time
type BalanceResult struct {
	ApartmentID uuid.UUID       `json:"apartment_id"`
	Balance     decimal.Decimal `json:"balance"`
	AsOf        *time.Time      `json:"as_of,omitempty"`
	Replayed    bool            `json:"replayed"`
}

// GetBalance returns the apartment's current balance from the cache, or a
// replayed historical balance when asOf is given.
func (s *BalanceService) GetBalance(ctx context.Context, apartmentID uuid.UUID, asOf *time.Time) (*BalanceResult, error) {
	var result *BalanceResult
	err := s.uow.Execute(ctx, func(r ledger.Repositories) error {
		a, err := r.Apartments.FindByID(ctx, apartmentID)
		if err != nil {
			return err
		}
		if a == nil {
			return shared.ErrNotFound
		}

		if asOf == nil {
			result = &BalanceResult{ApartmentID: a.ID, Balance: a.CachedBalance}
			return nil
		}

		txns, err := r.Transactions.FindByApartment(ctx, a.ID)
		if err != nil {
			return err
		}
		result = &BalanceResult{
			ApartmentID: a.ID,
			Balance:     ledger.HistoricalBalance(txns, *asOf),
			AsOf:        asOf,
			Replayed:    true,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListTransactions returns a page of an apartment's ledger entries
func (s *BalanceService) ListTransactions(ctx context.Context, apartmentID uuid.UUID, filter shared.Filter) (*shared.Paginated[*ledger.Transaction], error) {
	var page *shared.Paginated[*ledger.Transaction]
	err := s.uow.Execute(ctx, func(r ledger.Repositories) error {
		var err error
		page, err = r.Transactions.FindByApartmentPaged(ctx, apartmentID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}
