package ledger

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/condoledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DistributionStrategy determines how an expense is split across apartments
type DistributionStrategy string

const (
	DistributeByParticipationMills DistributionStrategy = "BY_PARTICIPATION_MILLS"
	DistributeEqualShare           DistributionStrategy = "EQUAL_SHARE"
	DistributeByHeatingMills       DistributionStrategy = "BY_HEATING_MILLS"
	DistributeByMeters             DistributionStrategy = "BY_METERS"
	DistributeSpecificApartments   DistributionStrategy = "SPECIFIC_APARTMENTS"
)

// IsValid checks if the strategy is a valid DistributionStrategy
func (s DistributionStrategy) IsValid() bool {
	switch s {
	case DistributeByParticipationMills, DistributeEqualShare, DistributeByHeatingMills,
		DistributeByMeters, DistributeSpecificApartments:
		return true
	}
	return false
}

// String returns the string representation of DistributionStrategy
func (s DistributionStrategy) String() string {
	return string(s)
}

// RequiresSubset reports whether the strategy needs an explicit apartment
// subset supplied with the expense.
func (s DistributionStrategy) RequiresSubset() bool {
	return s == DistributeByMeters || s == DistributeSpecificApartments
}

// ExpenseCategory classifies a building expense
type ExpenseCategory string

const (
	CategoryMaintenance ExpenseCategory = "MAINTENANCE"
	CategoryElectricity ExpenseCategory = "ELECTRICITY"
	CategoryWater       ExpenseCategory = "WATER"
	CategoryHeating     ExpenseCategory = "HEATING"
	CategoryElevator    ExpenseCategory = "ELEVATOR"
	CategoryCleaning    ExpenseCategory = "CLEANING"
	CategoryRepairs     ExpenseCategory = "REPAIRS"
	CategoryInsurance   ExpenseCategory = "INSURANCE"
	CategoryOther       ExpenseCategory = "OTHER"
)

// IsValid checks if the category is valid
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case CategoryMaintenance, CategoryElectricity, CategoryWater, CategoryHeating,
		CategoryElevator, CategoryCleaning, CategoryRepairs, CategoryInsurance, CategoryOther:
		return true
	}
	return false
}

// UUIDList is a slice of UUIDs stored as a JSONB column
type UUIDList []uuid.UUID

// Value implements driver.Valuer for database storage
func (l UUIDList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for database retrieval
func (l *UUIDList) Scan(value interface{}) error {
	if value == nil {
		*l = UUIDList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan UUIDList: unsupported type")
	}

	if len(bytes) == 0 {
		*l = UUIDList{}
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// Contains reports whether the list contains the given ID
func (l UUIDList) Contains(id uuid.UUID) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Expense is a building expense to be allocated across apartments. Once
// issued it has been turned into ledger charges exactly once; re-allocation
// is rejected.
type Expense struct {
	shared.BaseAggregateRoot
	BuildingID   uuid.UUID            `json:"building_id"`
	Amount       decimal.Decimal      `json:"amount"`
	Date         time.Time            `json:"date"`
	Category     ExpenseCategory      `json:"category"`
	Strategy     DistributionStrategy `json:"distribution_strategy"`
	ApartmentIDs UUIDList             `json:"apartment_ids,omitempty"`
	Description  string               `json:"description"`
	Issued       bool                 `json:"issued"`
	IssuedAt     *time.Time           `json:"issued_at,omitempty"`
}

// NewExpense creates a new, unissued expense
func NewExpense(
	buildingID uuid.UUID,
	amount valueobject.Money,
	date time.Time,
	category ExpenseCategory,
	strategy DistributionStrategy,
	apartmentIDs UUIDList,
	description string,
) (*Expense, error) {
	if buildingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUILDING", "Building ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}
	if !amount.IsWholeMinorUnits() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Expense amount cannot have sub-cent precision")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Expense date is required")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Expense category is not valid")
	}
	if !strategy.IsValid() {
		return nil, ErrInvalidStrategy
	}
	if strategy.RequiresSubset() && len(apartmentIDs) == 0 {
		return nil, shared.NewDomainError("INVALID_SUBSET", "Strategy requires an explicit apartment subset")
	}

	return &Expense{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BuildingID:        buildingID,
		Amount:            amount.Amount(),
		Date:              truncateToDay(date),
		Category:          category,
		Strategy:          strategy,
		ApartmentIDs:      apartmentIDs,
		Description:       description,
	}, nil
}

// MarkIssued records that the expense has been allocated into ledger charges.
func (e *Expense) MarkIssued() error {
	if e.Issued {
		return ErrAlreadyIssued
	}
	now := time.Now()
	e.Issued = true
	e.IssuedAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()
	return nil
}

// AmountMoney returns the expense amount as Money
func (e *Expense) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyEUR(e.Amount)
}
