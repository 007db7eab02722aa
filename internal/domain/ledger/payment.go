package ledger

import (
	"time"

	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/condoledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash          PaymentMethod = "CASH"
	PaymentMethodBankTransfer  PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCard          PaymentMethod = "CARD"
	PaymentMethodStandingOrder PaymentMethod = "STANDING_ORDER"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCard, PaymentMethodStandingOrder:
		return true
	}
	return false
}

// Payment is money received from an apartment. Recording it produces exactly
// one ledger credit; TransactionID is the linkage that makes recording
// idempotent.
type Payment struct {
	shared.BaseAggregateRoot
	ApartmentID   uuid.UUID       `json:"apartment_id"`
	BuildingID    uuid.UUID       `json:"building_id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	Method        PaymentMethod   `json:"method"`
	Reference     string          `json:"reference"`
	TransactionID *uuid.UUID      `json:"transaction_id,omitempty"`
}

// NewPayment creates a new, unrecorded payment
func NewPayment(
	apartmentID, buildingID uuid.UUID,
	amount valueobject.Money,
	date time.Time,
	method PaymentMethod,
	reference string,
) (*Payment, error) {
	if apartmentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_APARTMENT", "Apartment ID cannot be empty")
	}
	if buildingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUILDING", "Building ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !amount.IsWholeMinorUnits() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount cannot have sub-cent precision")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Payment date is required")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payment method is not valid")
	}

	return &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ApartmentID:       apartmentID,
		BuildingID:        buildingID,
		Amount:            amount.Amount(),
		Date:              truncateToDay(date),
		Method:            method,
		Reference:         reference,
	}, nil
}

// IsRecorded reports whether the payment has been written to the ledger
func (p *Payment) IsRecorded() bool {
	return p.TransactionID != nil
}

// LinkTransaction records the ledger credit produced from this payment.
func (p *Payment) LinkTransaction(transactionID uuid.UUID) error {
	if p.TransactionID != nil {
		return ErrDuplicatePayment
	}
	p.TransactionID = &transactionID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// AmountMoney returns the payment amount as Money
func (p *Payment) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyEUR(p.Amount)
}
