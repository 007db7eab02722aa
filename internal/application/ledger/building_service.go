package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/condoledger/backend/internal/domain/ledger"
	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/condoledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BuildingService manages buildings and their apartments
type BuildingService struct {
	uow    ledger.UnitOfWork
	locks  *KeyedLocks
	logger *zap.Logger
}

// NewBuildingService creates a new BuildingService
func NewBuildingService(uow ledger.UnitOfWork, locks *KeyedLocks, logger *zap.Logger) *BuildingService {
	return &BuildingService{uow: uow, locks: locks, logger: logger}
}

// CreateBuildingRequest carries the data to register a building
type CreateBuildingRequest struct {
	Name                     string
	Address                  string
	ManagementFee            decimal.Decimal
	FinancialSystemStartDate time.Time
}

// CreateBuilding registers a new building
func (s *BuildingService) CreateBuilding(ctx context.Context, req CreateBuildingRequest) (*ledger.Building, error) {
	b, err := ledger.NewBuilding(req.Name, req.Address, valueobject.NewMoneyEUR(req.ManagementFee), req.FinancialSystemStartDate)
	if err != nil {
		return nil, err
	}

	err = s.uow.Execute(ctx, func(r ledger.Repositories) error {
		return r.Buildings.Save(ctx, b)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save building: %w", err)
	}

	s.logger.Info("building created",
		zap.String("building_id", b.ID.String()),
		zap.String("name", b.Name))
	return b, nil
}

// ConfigureReserveFundRequest sets a building's reserve fund collection plan
type ConfigureReserveFundRequest struct {
	BuildingID     uuid.UUID
	Goal           decimal.Decimal
	DurationMonths int
	StartDate      time.Time
}

// ConfigureReserveFund sets or replaces the building's reserve fund plan
func (s *BuildingService) ConfigureReserveFund(ctx context.Context, req ConfigureReserveFundRequest) (*ledger.Building, error) {
	unlock := s.locks.LockBuilding(req.BuildingID)
	defer unlock()

	var b *ledger.Building
	err := s.uow.Execute(ctx, func(r ledger.Repositories) error {
		var err error
		b, err = r.Buildings.FindByID(ctx, req.BuildingID)
		if err != nil {
			return err
		}
		if b == nil {
			return shared.ErrNotFound
		}
		if err := b.ConfigureReserveFund(valueobject.NewMoneyEUR(req.Goal), req.DurationMonths, req.StartDate); err != nil {
			return err
		}
		return r.Buildings.SaveWithLock(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reserve fund configured",
		zap.String("building_id", b.ID.String()),
		zap.String("goal", b.ReserveFundGoal.String()),
		zap.Int("duration_months", b.ReserveFundDurationMonths))
	return b, nil
}

// AddApartmentRequest carries the data to register an apartment
type AddApartmentRequest struct {
	BuildingID         uuid.UUID
	Number             string
	OwnerName          string
	ParticipationMills int
	HeatingMills       int
}

// AddApartment registers an apartment in a building. The apartment number is
// unique per building and the building's participation mills may never
// exceed the full thousand.
func (s *BuildingService) AddApartment(ctx context.Context, req AddApartmentRequest) (*ledger.Apartment, error) {
	unlock := s.locks.LockBuilding(req.BuildingID)
	defer unlock()

	var a *ledger.Apartment
	err := s.uow.Execute(ctx, func(r ledger.Repositories) error {
		b, err := r.Buildings.FindByID(ctx, req.BuildingID)
		if err != nil {
			return err
		}
		if b == nil {
			return shared.ErrNotFound
		}

		existing, err := r.Apartments.FindByBuildingAndNumber(ctx, req.BuildingID, req.Number)
		if err != nil {
			return err
		}
		if existing != nil {
			return shared.ErrAlreadyExists
		}

		siblings, err := r.Apartments.FindByBuilding(ctx, req.BuildingID)
		if err != nil {
			return err
		}
		milleage := req.ParticipationMills
		for _, sib := range siblings {
			milleage += sib.ParticipationMills
		}
		if milleage > ledger.FullWeightMills {
			return shared.NewDomainError("WEIGHT_OVERFLOW",
				fmt.Sprintf("Participation mills would total %d, exceeding %d", milleage, ledger.FullWeightMills))
		}

		a, err = ledger.NewApartment(req.BuildingID, req.Number, req.OwnerName, req.ParticipationMills, req.HeatingMills)
		if err != nil {
			return err
		}
		return r.Apartments.Save(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("apartment added",
		zap.String("building_id", req.BuildingID.String()),
		zap.String("apartment_id", a.ID.String()),
		zap.String("number", a.Number))
	return a, nil
}

// GetBuilding fetches a single building
func (s *BuildingService) GetBuilding(ctx context.Context, id uuid.UUID) (*ledger.Building, error) {
	var b *ledger.Building
	err := s.uow.Execute(ctx, func(r ledger.Repositories) error {
		var err error
		b, err = r.Buildings.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return shared.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBuildings returns a page of buildings
func (s *BuildingService) ListBuildings(ctx context.Context, filter shared.Filter) (*shared.Paginated[*ledger.Building], error) {
	var page *shared.Paginated[*ledger.Building]
	err := s.uow.Execute(ctx, func(r ledger.Repositories) error {
		var err error
		page, err = r.Buildings.FindAll(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// ListApartments returns every apartment of a building
func (s *BuildingService) ListApartments(ctx context.Context, buildingID uuid.UUID) ([]*ledger.Apartment, error) {
	var apartments []*ledger.Apartment
	err := s.uow.Execute(ctx, func(r ledger.Repositories) error {
		b, err := r.Buildings.FindByID(ctx, buildingID)
		if err != nil {
			return err
		}
		if b == nil {
			return shared.ErrNotFound
		}
		apartments, err = r.Apartments.FindByBuilding(ctx, buildingID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return apartments, nil
}
