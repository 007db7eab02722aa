package ledger

import (
	"time"

	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/condoledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// FullWeightMills is the participation weight total every building must
// distribute across its apartments.
const FullWeightMills = 1000

// Building is the aggregate root owning apartments, expenses and monthly
// balances. It carries the recurring-contribution configuration and the
// earliest date the ledger is authoritative for.
type Building struct {
	shared.BaseAggregateRoot
	Name                      string          `json:"name"`
	Address                   string          `json:"address"`
	ManagementFeePerApartment decimal.Decimal `json:"management_fee_per_apartment"`
	ReserveFundGoal           decimal.Decimal `json:"reserve_fund_goal"`
	ReserveFundDurationMonths int             `json:"reserve_fund_duration_months"`
	ReserveFundStartDate      *time.Time      `json:"reserve_fund_start_date"`
	FinancialSystemStartDate  time.Time       `json:"financial_system_start_date"`
}

// NewBuilding creates a new building
func NewBuilding(name, address string, managementFee valueobject.Money, financialStart time.Time) (*Building, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Building name cannot be empty")
	}
	if managementFee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Management fee cannot be negative")
	}
	if !managementFee.IsWholeMinorUnits() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Management fee cannot have sub-cent precision")
	}
	if financialStart.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Financial system start date is required")
	}

	return &Building{
		BaseAggregateRoot:         shared.NewBaseAggregateRoot(),
		Name:                      name,
		Address:                   address,
		ManagementFeePerApartment: managementFee.Amount(),
		ReserveFundGoal:           decimal.Zero,
		FinancialSystemStartDate:  truncateToDay(financialStart),
	}, nil
}

// ConfigureReserveFund sets the reserve fund goal and collection window.
func (b *Building) ConfigureReserveFund(goal valueobject.Money, durationMonths int, start time.Time) error {
	if !goal.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Reserve fund goal must be positive")
	}
	if !goal.IsWholeMinorUnits() {
		return shared.NewDomainError("INVALID_AMOUNT", "Reserve fund goal cannot have sub-cent precision")
	}
	if durationMonths <= 0 {
		return shared.NewDomainError("INVALID_DURATION", "Reserve fund duration must be at least one month")
	}
	if start.Before(b.FinancialSystemStartDate) {
		return ErrBeforeSystemStart
	}

	startDay := truncateToDay(start)
	b.ReserveFundGoal = goal.Amount()
	b.ReserveFundDurationMonths = durationMonths
	b.ReserveFundStartDate = &startDay
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// ReserveFundTargetDate returns start + duration, or nil when no fund is configured.
func (b *Building) ReserveFundTargetDate() *time.Time {
	if b.ReserveFundStartDate == nil || b.ReserveFundDurationMonths <= 0 {
		return nil
	}
	target := b.ReserveFundStartDate.AddDate(0, b.ReserveFundDurationMonths, 0)
	return &target
}

// ReserveFundMonthlyTarget returns the amount to collect per month across the
// whole building while the fund is active.
func (b *Building) ReserveFundMonthlyTarget() decimal.Decimal {
	if b.ReserveFundDurationMonths <= 0 || b.ReserveFundGoal.IsZero() {
		return decimal.Zero
	}
	return b.ReserveFundGoal.Div(decimal.NewFromInt(int64(b.ReserveFundDurationMonths)))
}

// ReserveFundActiveIn reports whether the given month falls inside the
// [start, target] collection window.
func (b *Building) ReserveFundActiveIn(year int, month time.Month) bool {
	target := b.ReserveFundTargetDate()
	if b.ReserveFundStartDate == nil || target == nil {
		return false
	}
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	return !monthEnd.Before(*b.ReserveFundStartDate) && !monthStart.After(*target)
}

// FirstActiveMonth returns the year and month of the financial system start
// date, the earliest month that can be closed.
func (b *Building) FirstActiveMonth() (int, time.Month) {
	return b.FinancialSystemStartDate.Year(), b.FinancialSystemStartDate.Month()
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
