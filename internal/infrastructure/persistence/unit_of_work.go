package persistence

import (
	"context"

	"github.com/condoledger/backend/internal/domain/ledger"
	"gorm.io/gorm"
)

// GormUnitOfWork implements ledger.UnitOfWork on a single database
// transaction: the callback gets repositories bound to the transaction, and
// any error rolls everything back.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Execute runs fn inside a database transaction
func (u *GormUnitOfWork) Execute(ctx context.Context, fn func(r ledger.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// NewRepositories binds every ledger repository to the given database handle
func NewRepositories(db *gorm.DB) ledger.Repositories {
	return ledger.Repositories{
		Buildings:       NewGormBuildingRepository(db),
		Apartments:      NewGormApartmentRepository(db),
		Expenses:        NewGormExpenseRepository(db),
		Payments:        NewGormPaymentRepository(db),
		Transactions:    NewGormTransactionRepository(db),
		MonthlyBalances: NewGormMonthlyBalanceRepository(db),
	}
}
