package ledger

import (
	"fmt"
	"time"

	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/condoledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind distinguishes charges from credits
type TransactionKind string

const (
	KindCharge TransactionKind = "CHARGE"
	KindCredit TransactionKind = "CREDIT"
)

// IsValid checks if the kind is valid
func (k TransactionKind) IsValid() bool {
	return k == KindCharge || k == KindCredit
}

// OriginType identifies the source document (or synthetic origin) of a
// ledger transaction.
type OriginType string

const (
	OriginExpenseCharge   OriginType = "EXPENSE_CHARGE"
	OriginReserveFund     OriginType = "RESERVE_FUND"
	OriginManagementFee   OriginType = "MANAGEMENT_FEE"
	OriginInterestPenalty OriginType = "INTEREST_PENALTY"
	OriginPayment         OriginType = "PAYMENT"
	OriginRefund          OriginType = "REFUND"
	OriginAdjustment      OriginType = "ADJUSTMENT"
)

// IsValid checks if the origin type is valid
func (o OriginType) IsValid() bool {
	switch o {
	case OriginExpenseCharge, OriginReserveFund, OriginManagementFee,
		OriginInterestPenalty, OriginPayment, OriginRefund, OriginAdjustment:
		return true
	}
	return false
}

// Kind returns the transaction kind an origin type produces. Adjustments can
// go either way and are passed their kind explicitly.
func (o OriginType) Kind() TransactionKind {
	switch o {
	case OriginPayment, OriginRefund:
		return KindCredit
	default:
		return KindCharge
	}
}

// MonthKey formats a (year, month) pair as the idempotency origin ID used by
// synthetic recurring charges, e.g. "2026-03".
func MonthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// Transaction is an immutable, append-only ledger entry for one apartment.
// Amount is signed: charges negative, credits positive, so that the signed
// sum over all entries up to a date is the balance at that date. OccurredOn
// is the accrual-effective date; RecordedAt is the wall-clock creation time.
// Entries are never updated, only superseded by compensating adjustments.
type Transaction struct {
	shared.BaseEntity
	ApartmentID   uuid.UUID       `json:"apartment_id"`
	BuildingID    uuid.UUID       `json:"building_id"`
	Kind          TransactionKind `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	OriginType    OriginType      `json:"origin_type"`
	OriginID      string          `json:"origin_id"`
	OccurredOn    time.Time       `json:"occurred_on"`
	RecordedAt    time.Time       `json:"recorded_at"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Description   string          `json:"description"`
}

// NewCharge creates a charge transaction (negative signed amount) from a
// positive amount.
func NewCharge(
	apartmentID, buildingID uuid.UUID,
	amount valueobject.Money,
	originType OriginType,
	originID string,
	occurredOn time.Time,
	description string,
) (*Transaction, error) {
	return newTransaction(apartmentID, buildingID, KindCharge, amount.Amount().Neg(), originType, originID, occurredOn, description)
}

// NewCredit creates a credit transaction (positive signed amount) from a
// positive amount.
func NewCredit(
	apartmentID, buildingID uuid.UUID,
	amount valueobject.Money,
	originType OriginType,
	originID string,
	occurredOn time.Time,
	description string,
) (*Transaction, error) {
	return newTransaction(apartmentID, buildingID, KindCredit, amount.Amount(), originType, originID, occurredOn, description)
}

func newTransaction(
	apartmentID, buildingID uuid.UUID,
	kind TransactionKind,
	signedAmount decimal.Decimal,
	originType OriginType,
	originID string,
	occurredOn time.Time,
	description string,
) (*Transaction, error) {
	if apartmentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_APARTMENT", "Apartment ID cannot be empty")
	}
	if buildingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUILDING", "Building ID cannot be empty")
	}
	if signedAmount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transaction amount cannot be zero")
	}
	if kind == KindCharge && signedAmount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Charge amount must be negative")
	}
	if kind == KindCredit && signedAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Credit amount must be positive")
	}
	if !signedAmount.Equal(signedAmount.Truncate(valueobject.MinorUnitPlaces)) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transaction amount cannot have sub-cent precision")
	}
	if !originType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ORIGIN", "Origin type is not valid")
	}
	if originID == "" {
		return nil, shared.NewDomainError("INVALID_ORIGIN", "Origin ID cannot be empty")
	}
	if occurredOn.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Transaction date is required")
	}

	return &Transaction{
		BaseEntity:  shared.NewBaseEntity(),
		ApartmentID: apartmentID,
		BuildingID:  buildingID,
		Kind:        kind,
		Amount:      signedAmount,
		OriginType:  originType,
		OriginID:    originID,
		OccurredOn:  truncateToDay(occurredOn),
		RecordedAt:  time.Now(),
		Description: description,
	}, nil
}

// AbsoluteAmount returns the unsigned amount
func (t *Transaction) AbsoluteAmount() decimal.Decimal {
	return t.Amount.Abs()
}

// IsCharge reports whether the transaction is a charge
func (t *Transaction) IsCharge() bool {
	return t.Kind == KindCharge
}
