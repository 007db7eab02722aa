package models

import (
	"time"

	"github.com/condoledger/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BuildingModel is the persistence model for the Building aggregate root.
type BuildingModel struct {
	AggregateModel
	Name                      string          `gorm:"type:varchar(200);not null"`
	Address                   string          `gorm:"type:varchar(500)"`
	ManagementFeePerApartment decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ReserveFundGoal           decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ReserveFundDurationMonths int             `gorm:"not null;default:0"`
	ReserveFundStartDate      *time.Time
	FinancialSystemStartDate  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BuildingModel) TableName() string {
	return "buildings"
}

// ToDomain converts the persistence model to a domain Building
func (m *BuildingModel) ToDomain() *ledger.Building {
	return &ledger.Building{
		BaseAggregateRoot:         m.ToDomainAggregateRoot(),
		Name:                      m.Name,
		Address:                   m.Address,
		ManagementFeePerApartment: m.ManagementFeePerApartment,
		ReserveFundGoal:           m.ReserveFundGoal,
		ReserveFundDurationMonths: m.ReserveFundDurationMonths,
		ReserveFundStartDate:      m.ReserveFundStartDate,
		FinancialSystemStartDate:  m.FinancialSystemStartDate,
	}
}

// BuildingModelFromDomain builds a persistence model from a domain Building
func BuildingModelFromDomain(b *ledger.Building) *BuildingModel {
	m := &BuildingModel{
		Name:                      b.Name,
		Address:                   b.Address,
		ManagementFeePerApartment: b.ManagementFeePerApartment,
		ReserveFundGoal:           b.ReserveFundGoal,
		ReserveFundDurationMonths: b.ReserveFundDurationMonths,
		ReserveFundStartDate:      b.ReserveFundStartDate,
		FinancialSystemStartDate:  b.FinancialSystemStartDate,
	}
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	return m
}

// ApartmentModel is the persistence model for the Apartment aggregate root.
type ApartmentModel struct {
	AggregateModel
	BuildingID         uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_apartment_building_number,priority:1"`
	Number             string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_apartment_building_number,priority:2"`
	OwnerName          string          `gorm:"type:varchar(200)"`
	ParticipationMills int             `gorm:"not null"`
	HeatingMills       int             `gorm:"not null"`
	CachedBalance      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (ApartmentModel) TableName() string {
	return "apartments"
}

// ToDomain converts the persistence model to a domain Apartment
func (m *ApartmentModel) ToDomain() *ledger.Apartment {
	return &ledger.Apartment{
		BaseAggregateRoot:  m.ToDomainAggregateRoot(),
		BuildingID:         m.BuildingID,
		Number:             m.Number,
		OwnerName:          m.OwnerName,
		ParticipationMills: m.ParticipationMills,
		HeatingMills:       m.HeatingMills,
		CachedBalance:      m.CachedBalance,
	}
}

// ApartmentModelFromDomain builds a persistence model from a domain Apartment
func ApartmentModelFromDomain(a *ledger.Apartment) *ApartmentModel {
	m := &ApartmentModel{
		BuildingID:         a.BuildingID,
		Number:             a.Number,
		OwnerName:          a.OwnerName,
		ParticipationMills: a.ParticipationMills,
		HeatingMills:       a.HeatingMills,
		CachedBalance:      a.CachedBalance,
	}
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	return m
}

// ExpenseModel is the persistence model for the Expense aggregate root.
type ExpenseModel struct {
	AggregateModel
	BuildingID   uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Amount       decimal.Decimal             `gorm:"type:decimal(18,2);not null"`
	Date         time.Time                   `gorm:"not null;index"`
	Category     ledger.ExpenseCategory      `gorm:"type:varchar(30);not null"`
	Strategy     ledger.DistributionStrategy `gorm:"type:varchar(30);not null"`
	ApartmentIDs ledger.UUIDList             `gorm:"type:jsonb;default:'[]'"`
	Description  string                      `gorm:"type:text"`
	Issued       bool                        `gorm:"not null;default:false;index"`
	IssuedAt     *time.Time
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the persistence model to a domain Expense
func (m *ExpenseModel) ToDomain() *ledger.Expense {
	return &ledger.Expense{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		BuildingID:        m.BuildingID,
		Amount:            m.Amount,
		Date:              m.Date,
		Category:          m.Category,
		Strategy:          m.Strategy,
		ApartmentIDs:      m.ApartmentIDs,
		Description:       m.Description,
		Issued:            m.Issued,
		IssuedAt:          m.IssuedAt,
	}
}

// ExpenseModelFromDomain builds a persistence model from a domain Expense
func ExpenseModelFromDomain(e *ledger.Expense) *ExpenseModel {
	m := &ExpenseModel{
		BuildingID:   e.BuildingID,
		Amount:       e.Amount,
		Date:         e.Date,
		Category:     e.Category,
		Strategy:     e.Strategy,
		ApartmentIDs: e.ApartmentIDs,
		Description:  e.Description,
		Issued:       e.Issued,
		IssuedAt:     e.IssuedAt,
	}
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	return m
}

// PaymentModel is the persistence model for the Payment aggregate root.
type PaymentModel struct {
	AggregateModel
	ApartmentID   uuid.UUID            `gorm:"type:uuid;not null;index"`
	BuildingID    uuid.UUID            `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Date          time.Time            `gorm:"not null;index"`
	Method        ledger.PaymentMethod `gorm:"type:varchar(20);not null"`
	Reference     string               `gorm:"type:varchar(100)"`
	TransactionID *uuid.UUID           `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *PaymentModel) ToDomain() *ledger.Payment {
	return &ledger.Payment{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ApartmentID:       m.ApartmentID,
		BuildingID:        m.BuildingID,
		Amount:            m.Amount,
		Date:              m.Date,
		Method:            m.Method,
		Reference:         m.Reference,
		TransactionID:     m.TransactionID,
	}
}

// PaymentModelFromDomain builds a persistence model from a domain Payment
func PaymentModelFromDomain(p *ledger.Payment) *PaymentModel {
	m := &PaymentModel{
		ApartmentID:   p.ApartmentID,
		BuildingID:    p.BuildingID,
		Amount:        p.Amount,
		Date:          p.Date,
		Method:        p.Method,
		Reference:     p.Reference,
		TransactionID: p.TransactionID,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}

// TransactionModel is the persistence model for the append-only ledger.
// Rows are never updated in place.
type TransactionModel struct {
	BaseModel
	ApartmentID   uuid.UUID              `gorm:"type:uuid;not null;index;index:idx_txn_origin,priority:1"`
	BuildingID    uuid.UUID              `gorm:"type:uuid;not null;index"`
	Kind          ledger.TransactionKind `gorm:"type:varchar(10);not null"`
	Amount        decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	OriginType    ledger.OriginType      `gorm:"type:varchar(30);not null;index:idx_txn_origin,priority:2"`
	OriginID      string                 `gorm:"type:varchar(100);not null;index:idx_txn_origin,priority:3"`
	OccurredOn    time.Time              `gorm:"not null;index"`
	RecordedAt    time.Time              `gorm:"not null"`
	BalanceBefore decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	BalanceAfter  decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	Description   string                 `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the persistence model to a domain Transaction
func (m *TransactionModel) ToDomain() *ledger.Transaction {
	return &ledger.Transaction{
		BaseEntity:    m.BaseModel.ToDomain(),
		ApartmentID:   m.ApartmentID,
		BuildingID:    m.BuildingID,
		Kind:          m.Kind,
		Amount:        m.Amount,
		OriginType:    m.OriginType,
		OriginID:      m.OriginID,
		OccurredOn:    m.OccurredOn,
		RecordedAt:    m.RecordedAt,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		Description:   m.Description,
	}
}

// TransactionModelFromDomain builds a persistence model from a domain Transaction
func TransactionModelFromDomain(t *ledger.Transaction) *TransactionModel {
	m := &TransactionModel{
		ApartmentID:   t.ApartmentID,
		BuildingID:    t.BuildingID,
		Kind:          t.Kind,
		Amount:        t.Amount,
		OriginType:    t.OriginType,
		OriginID:      t.OriginID,
		OccurredOn:    t.OccurredOn,
		RecordedAt:    t.RecordedAt,
		BalanceBefore: t.BalanceBefore,
		BalanceAfter:  t.BalanceAfter,
		Description:   t.Description,
	}
	m.FromDomainBaseEntity(t.BaseEntity)
	return m
}

// MonthlyBalanceModel is the persistence model for the MonthlyBalance aggregate root.
type MonthlyBalanceModel struct {
	AggregateModel
	BuildingID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_monthly_building_period,priority:1"`
	Year                int             `gorm:"not null;uniqueIndex:idx_monthly_building_period,priority:2"`
	Month               int             `gorm:"not null;uniqueIndex:idx_monthly_building_period,priority:3"`
	TotalCharges        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalPayments       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PreviousObligations decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ReserveFundAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ManagementFees      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CarryForward        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Closed              bool            `gorm:"not null;default:false"`
	ClosedAt            *time.Time
}

// TableName returns the table name for GORM
func (MonthlyBalanceModel) TableName() string {
	return "monthly_balances"
}

// ToDomain converts the persistence model to a domain MonthlyBalance
func (m *MonthlyBalanceModel) ToDomain() *ledger.MonthlyBalance {
	return &ledger.MonthlyBalance{
		BaseAggregateRoot:   m.ToDomainAggregateRoot(),
		BuildingID:          m.BuildingID,
		Year:                m.Year,
		Month:               m.Month,
		TotalCharges:        m.TotalCharges,
		TotalPayments:       m.TotalPayments,
		PreviousObligations: m.PreviousObligations,
		ReserveFundAmount:   m.ReserveFundAmount,
		ManagementFees:      m.ManagementFees,
		CarryForward:        m.CarryForward,
		Closed:              m.Closed,
		ClosedAt:            m.ClosedAt,
	}
}

// MonthlyBalanceModelFromDomain builds a persistence model from a domain MonthlyBalance
func MonthlyBalanceModelFromDomain(b *ledger.MonthlyBalance) *MonthlyBalanceModel {
	m := &MonthlyBalanceModel{
		BuildingID:          b.BuildingID,
		Year:                b.Year,
		Month:               b.Month,
		TotalCharges:        b.TotalCharges,
		TotalPayments:       b.TotalPayments,
		PreviousObligations: b.PreviousObligations,
		ReserveFundAmount:   b.ReserveFundAmount,
		ManagementFees:      b.ManagementFees,
		CarryForward:        b.CarryForward,
		Closed:              b.Closed,
		ClosedAt:            b.ClosedAt,
	}
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	return m
}
