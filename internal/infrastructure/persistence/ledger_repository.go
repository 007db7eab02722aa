package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/condoledger/backend/internal/domain/ledger"
	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/condoledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repositories return (nil, nil) for lookups that find nothing; callers
// decide whether absence is an error. SaveWithLock implements optimistic
// locking: the update only lands if the stored version is exactly one
// behind the in-memory one.

// GormBuildingRepository implements ledger.BuildingRepository using GORM
type GormBuildingRepository struct {
	db *gorm.DB
}

// NewGormBuildingRepository creates a new GormBuildingRepository
func NewGormBuildingRepository(db *gorm.DB) *GormBuildingRepository {
	return &GormBuildingRepository{db: db}
}

// Save creates or updates a building
func (r *GormBuildingRepository) Save(ctx context.Context, b *ledger.Building) error {
	return r.db.WithContext(ctx).Save(models.BuildingModelFromDomain(b)).Error
}

// SaveWithLock saves a building with a version check
func (r *GormBuildingRepository) SaveWithLock(ctx context.Context, b *ledger.Building) error {
	model := models.BuildingModelFromDomain(b)
	return saveWithVersionCheck(r.db.WithContext(ctx), model, b.ID, b.Version)
}

// FindByID finds a building by ID
func (r *GormBuildingRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Building, error) {
	var model models.BuildingModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns a page of buildings
func (r *GormBuildingRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*ledger.Building], error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.BuildingModel{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var buildingModels []models.BuildingModel
	if err := applyFilter(r.db.WithContext(ctx), filter).Find(&buildingModels).Error; err != nil {
		return nil, err
	}

	buildings := make([]*ledger.Building, len(buildingModels))
	for i := range buildingModels {
		buildings[i] = buildingModels[i].ToDomain()
	}
	return shared.NewPaginated(buildings, total, filter.Page, filter.PageSize), nil
}

// GormApartmentRepository implements ledger.ApartmentRepository using GORM
type GormApartmentRepository struct {
	db *gorm.DB
}

// NewGormApartmentRepository creates a new GormApartmentRepository
func NewGormApartmentRepository(db *gorm.DB) *GormApartmentRepository {
	return &GormApartmentRepository{db: db}
}

// Save creates or updates an apartment
func (r *GormApartmentRepository) Save(ctx context.Context, a *ledger.Apartment) error {
	return r.db.WithContext(ctx).Save(models.ApartmentModelFromDomain(a)).Error
}

// SaveWithLock saves an apartment with a version check
func (r *GormApartmentRepository) SaveWithLock(ctx context.Context, a *ledger.Apartment) error {
	model := models.ApartmentModelFromDomain(a)
	return saveWithVersionCheck(r.db.WithContext(ctx), model, a.ID, a.Version)
}

// FindByID finds an apartment by ID
func (r *GormApartmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Apartment, error) {
	var model models.ApartmentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBuilding returns every apartment of a building, ordered by number
func (r *GormApartmentRepository) FindByBuilding(ctx context.Context, buildingID uuid.UUID) ([]*ledger.Apartment, error) {
	var apartmentModels []models.ApartmentModel
	if err := r.db.WithContext(ctx).
		Where("building_id = ?", buildingID).
		Order("number asc").
		Find(&apartmentModels).Error; err != nil {
		return nil, err
	}
	apartments := make([]*ledger.Apartment, len(apartmentModels))
	for i := range apartmentModels {
		apartments[i] = apartmentModels[i].ToDomain()
	}
	return apartments, nil
}

// FindByBuildingAndNumber finds an apartment by its number within a building
func (r *GormApartmentRepository) FindByBuildingAndNumber(ctx context.Context, buildingID uuid.UUID, number string) (*ledger.Apartment, error) {
	var model models.ApartmentModel
	if err := r.db.WithContext(ctx).
		Where("building_id = ? AND number = ?", buildingID, number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// GormExpenseRepository implements ledger.ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// Save creates or updates an expense
func (r *GormExpenseRepository) Save(ctx context.Context, e *ledger.Expense) error {
	return r.db.WithContext(ctx).Save(models.ExpenseModelFromDomain(e)).Error
}

// SaveWithLock saves an expense with a version check
func (r *GormExpenseRepository) SaveWithLock(ctx context.Context, e *ledger.Expense) error {
	model := models.ExpenseModelFromDomain(e)
	return saveWithVersionCheck(r.db.WithContext(ctx), model, e.ID, e.Version)
}

// FindByID finds an expense by ID
func (r *GormExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Expense, error) {
	var model models.ExpenseModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBuilding returns a page of a building's expenses
func (r *GormExpenseRepository) FindByBuilding(ctx context.Context, buildingID uuid.UUID, filter shared.Filter) (*shared.Paginated[*ledger.Expense], error) {
	base := r.db.WithContext(ctx).Model(&models.ExpenseModel{}).Where("building_id = ?", buildingID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	var expenseModels []models.ExpenseModel
	if err := applyFilter(base, filter).Find(&expenseModels).Error; err != nil {
		return nil, err
	}
	expenses := make([]*ledger.Expense, len(expenseModels))
	for i := range expenseModels {
		expenses[i] = expenseModels[i].ToDomain()
	}
	return shared.NewPaginated(expenses, total, filter.Page, filter.PageSize), nil
}

// GormPaymentRepository implements ledger.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Save creates or updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, p *ledger.Payment) error {
	return r.db.WithContext(ctx).Save(models.PaymentModelFromDomain(p)).Error
}

// SaveWithLock saves a payment with a version check
func (r *GormPaymentRepository) SaveWithLock(ctx context.Context, p *ledger.Payment) error {
	model := models.PaymentModelFromDomain(p)
	return saveWithVersionCheck(r.db.WithContext(ctx), model, p.ID, p.Version)
}

// FindByID finds a payment by ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByApartment returns a page of an apartment's payments
func (r *GormPaymentRepository) FindByApartment(ctx context.Context, apartmentID uuid.UUID, filter shared.Filter) (*shared.Paginated[*ledger.Payment], error) {
	base := r.db.WithContext(ctx).Model(&models.PaymentModel{}).Where("apartment_id = ?", apartmentID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	var paymentModels []models.PaymentModel
	if err := applyFilter(base, filter).Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	payments := make([]*ledger.Payment, len(paymentModels))
	for i := range paymentModels {
		payments[i] = paymentModels[i].ToDomain()
	}
	return shared.NewPaginated(payments, total, filter.Page, filter.PageSize), nil
}

// GormTransactionRepository implements ledger.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Save appends a ledger entry. Entries are insert-only.
func (r *GormTransactionRepository) Save(ctx context.Context, t *ledger.Transaction) error {
	return r.db.WithContext(ctx).Create(models.TransactionModelFromDomain(t)).Error
}

// FindByID finds a transaction by ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByApartment returns an apartment's full ledger in replay order
func (r *GormTransactionRepository) FindByApartment(ctx context.Context, apartmentID uuid.UUID) ([]*ledger.Transaction, error) {
	var txnModels []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("apartment_id = ?", apartmentID).
		Order("occurred_on asc, recorded_at asc, id asc").
		Find(&txnModels).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(txnModels), nil
}

// FindByApartmentPaged returns a page of an apartment's ledger entries
func (r *GormTransactionRepository) FindByApartmentPaged(ctx context.Context, apartmentID uuid.UUID, filter shared.Filter) (*shared.Paginated[*ledger.Transaction], error) {
	base := r.db.WithContext(ctx).Model(&models.TransactionModel{}).Where("apartment_id = ?", apartmentID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	var txnModels []models.TransactionModel
	query := base.Order("occurred_on desc, recorded_at desc")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&txnModels).Error; err != nil {
		return nil, err
	}
	return shared.NewPaginated(toDomainTransactions(txnModels), total, filter.Page, filter.PageSize), nil
}

// FindByBuildingBetween returns a building's entries accrued in [from, to)
func (r *GormTransactionRepository) FindByBuildingBetween(ctx context.Context, buildingID uuid.UUID, from, to time.Time) ([]*ledger.Transaction, error) {
	var txnModels []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("building_id = ? AND occurred_on >= ? AND occurred_on < ?", buildingID, from, to).
		Order("occurred_on asc, recorded_at asc").
		Find(&txnModels).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(txnModels), nil
}

// ExistsByOrigin reports whether an entry for the origin already exists
func (r *GormTransactionRepository) ExistsByOrigin(ctx context.Context, apartmentID uuid.UUID, originType ledger.OriginType, originID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TransactionModel{}).
		Where("apartment_id = ? AND origin_type = ? AND origin_id = ?", apartmentID, originType, originID).
		Count(&count).Error
	return count > 0, err
}

// FindByOrigin returns every entry produced by one origin document
func (r *GormTransactionRepository) FindByOrigin(ctx context.Context, originType ledger.OriginType, originID string) ([]*ledger.Transaction, error) {
	var txnModels []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("origin_type = ? AND origin_id = ?", originType, originID).
		Order("recorded_at asc").
		Find(&txnModels).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(txnModels), nil
}

// SumByKindBetween returns the signed sum of a building's entries of one
// kind accrued in [from, to)
func (r *GormTransactionRepository) SumByKindBetween(ctx context.Context, buildingID uuid.UUID, kind ledger.TransactionKind, from, to time.Time) (decimal.Decimal, error) {
	return r.sumWhere(ctx, "building_id = ? AND kind = ? AND occurred_on >= ? AND occurred_on < ?",
		buildingID, kind, from, to)
}

// SumByOriginTypeBetween returns the signed sum of a building's entries of
// one origin type accrued in [from, to)
func (r *GormTransactionRepository) SumByOriginTypeBetween(ctx context.Context, buildingID uuid.UUID, originType ledger.OriginType, from, to time.Time) (decimal.Decimal, error) {
	return r.sumWhere(ctx, "building_id = ? AND origin_type = ? AND occurred_on >= ? AND occurred_on < ?",
		buildingID, originType, from, to)
}

func (r *GormTransactionRepository) sumWhere(ctx context.Context, where string, args ...any) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&models.TransactionModel{}).
		Where(where, args...).
		Select("SUM(amount)").
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// Delete removes a ledger entry. Reserved for confirmed duplicate removal.
func (r *GormTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TransactionModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toDomainTransactions(txnModels []models.TransactionModel) []*ledger.Transaction {
	txns := make([]*ledger.Transaction, len(txnModels))
	for i := range txnModels {
		txns[i] = txnModels[i].ToDomain()
	}
	return txns
}

// GormMonthlyBalanceRepository implements ledger.MonthlyBalanceRepository using GORM
type GormMonthlyBalanceRepository struct {
	db *gorm.DB
}

// NewGormMonthlyBalanceRepository creates a new GormMonthlyBalanceRepository
func NewGormMonthlyBalanceRepository(db *gorm.DB) *GormMonthlyBalanceRepository {
	return &GormMonthlyBalanceRepository{db: db}
}

// Save creates or updates a monthly balance
func (r *GormMonthlyBalanceRepository) Save(ctx context.Context, m *ledger.MonthlyBalance) error {
	return r.db.WithContext(ctx).Save(models.MonthlyBalanceModelFromDomain(m)).Error
}

// SaveWithLock saves a monthly balance with a version check
func (r *GormMonthlyBalanceRepository) SaveWithLock(ctx context.Context, m *ledger.MonthlyBalance) error {
	model := models.MonthlyBalanceModelFromDomain(m)
	return saveWithVersionCheck(r.db.WithContext(ctx), model, m.ID, m.Version)
}

// FindByID finds a monthly balance by ID
func (r *GormMonthlyBalanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.MonthlyBalance, error) {
	var model models.MonthlyBalanceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPeriod finds a building's snapshot for one month
func (r *GormMonthlyBalanceRepository) FindByPeriod(ctx context.Context, buildingID uuid.UUID, year int, month time.Month) (*ledger.MonthlyBalance, error) {
	var model models.MonthlyBalanceModel
	if err := r.db.WithContext(ctx).
		Where("building_id = ? AND year = ? AND month = ?", buildingID, year, int(month)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBuilding returns a building's snapshots in chronological order
func (r *GormMonthlyBalanceRepository) FindByBuilding(ctx context.Context, buildingID uuid.UUID) ([]*ledger.MonthlyBalance, error) {
	var balanceModels []models.MonthlyBalanceModel
	if err := r.db.WithContext(ctx).
		Where("building_id = ?", buildingID).
		Order("year asc, month asc").
		Find(&balanceModels).Error; err != nil {
		return nil, err
	}
	balances := make([]*ledger.MonthlyBalance, len(balanceModels))
	for i := range balanceModels {
		balances[i] = balanceModels[i].ToDomain()
	}
	return balances, nil
}

// saveWithVersionCheck updates an aggregate only if its stored version is
// one behind the in-memory version. Zero rows affected means someone else
// got there first.
func saveWithVersionCheck(db *gorm.DB, model any, id uuid.UUID, version int) error {
	// Select("*") keeps zero values (a balance reset to 0, a cleared flag)
	// from being silently dropped by the struct update.
	result := db.Model(model).
		Select("*").
		Where("id = ? AND version = ?", id, version-1).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// applyFilter applies pagination and ordering to a query
func applyFilter(db *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.OrderBy != "" {
		dir := "asc"
		if filter.OrderDir == "desc" {
			dir = "desc"
		}
		db = db.Order(fmt.Sprintf("%s %s", filter.OrderBy, dir))
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		db = db.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return db
}
