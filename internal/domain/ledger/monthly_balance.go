package ledger

import (
	"time"

	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthlyBalance is a building's per-month financial snapshot. Open months
// accumulate activity; closing freezes the figures and computes the carry
// forward handed to the next month. Months close strictly in order.
type MonthlyBalance struct {
	shared.BaseAggregateRoot
	BuildingID          uuid.UUID       `json:"building_id"`
	Year                int             `json:"year"`
	Month               int             `json:"month"`
	TotalCharges        decimal.Decimal `json:"total_charges"`
	TotalPayments       decimal.Decimal `json:"total_payments"`
	PreviousObligations decimal.Decimal `json:"previous_obligations"`
	ReserveFundAmount   decimal.Decimal `json:"reserve_fund_amount"`
	ManagementFees      decimal.Decimal `json:"management_fees"`
	CarryForward        decimal.Decimal `json:"carry_forward"`
	Closed              bool            `json:"closed"`
	ClosedAt            *time.Time      `json:"closed_at,omitempty"`
}

// NewMonthlyBalance creates an open monthly balance for the given period
func NewMonthlyBalance(buildingID uuid.UUID, year int, month time.Month) (*MonthlyBalance, error) {
	if buildingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUILDING", "Building ID cannot be empty")
	}
	if month < time.January || month > time.December {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Month must be between 1 and 12")
	}
	if year < 1970 || year > 9999 {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Year is out of range")
	}

	return &MonthlyBalance{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		BuildingID:          buildingID,
		Year:                year,
		Month:               int(month),
		TotalCharges:        decimal.Zero,
		TotalPayments:       decimal.Zero,
		PreviousObligations: decimal.Zero,
		ReserveFundAmount:   decimal.Zero,
		ManagementFees:      decimal.Zero,
		CarryForward:        decimal.Zero,
	}, nil
}

// ClosingFigures are the month's aggregates computed from the ledger at
// close time. Charges and payments are unsigned totals.
type ClosingFigures struct {
	PreviousObligations decimal.Decimal
	TotalCharges        decimal.Decimal
	TotalPayments       decimal.Decimal
	ReserveFundAmount   decimal.Decimal
	ManagementFees      decimal.Decimal
}

// Close freezes the month. The carry forward is the unpaid remainder,
// floored at zero: overpayments live on in apartment balances, not here.
func (m *MonthlyBalance) Close(f ClosingFigures) error {
	if m.Closed {
		return ErrAlreadyClosed
	}
	if f.TotalCharges.IsNegative() || f.TotalPayments.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Closing totals must be unsigned")
	}

	carry := f.PreviousObligations.Add(f.TotalCharges).Sub(f.TotalPayments)
	if carry.IsNegative() {
		carry = decimal.Zero
	}

	now := time.Now()
	m.PreviousObligations = f.PreviousObligations
	m.TotalCharges = f.TotalCharges
	m.TotalPayments = f.TotalPayments
	m.ReserveFundAmount = f.ReserveFundAmount
	m.ManagementFees = f.ManagementFees
	m.CarryForward = carry
	m.Closed = true
	m.ClosedAt = &now
	m.UpdatedAt = now
	m.IncrementVersion()
	return nil
}

// Period returns the first day of the month in UTC
func (m *MonthlyBalance) Period() time.Time {
	return time.Date(m.Year, time.Month(m.Month), 1, 0, 0, 0, 0, time.UTC)
}

// PreviousMonth returns the period immediately before (year, month)
func PreviousMonth(year int, month time.Month) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return t.Year(), t.Month()
}

// NextMonth returns the period immediately after (year, month)
func NextMonth(year int, month time.Month) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return t.Year(), t.Month()
}

// MonthBounds returns the inclusive first day and exclusive first day of the
// following month, the half-open range ledger queries use.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
