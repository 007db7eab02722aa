package ledger

import (
	"time"

	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Apartment belongs to exactly one building. CachedBalance is a read
// optimization derived from the apartment's ledger transactions; negative
// means the apartment owes the building. It is mutated only through
// AppendTransaction and the reconciliation fix path.
type Apartment struct {
	shared.BaseAggregateRoot
	BuildingID         uuid.UUID       `json:"building_id"`
	Number             string          `json:"number"`
	OwnerName          string          `json:"owner_name"`
	ParticipationMills int             `json:"participation_mills"`
	HeatingMills       int             `json:"heating_mills"`
	CachedBalance      decimal.Decimal `json:"cached_balance"`
}

// NewApartment creates a new apartment with the given participation weights.
// ParticipationMills may be zero (e.g. storage units); HeatingMills may be
// zero for buildings without central heating.
func NewApartment(buildingID uuid.UUID, number, ownerName string, participationMills, heatingMills int) (*Apartment, error) {
	if buildingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUILDING", "Building ID cannot be empty")
	}
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Apartment number cannot be empty")
	}
	if participationMills < 0 || participationMills > FullWeightMills {
		return nil, shared.NewDomainError("INVALID_WEIGHT", "Participation mills must be between 0 and 1000")
	}
	if heatingMills < 0 || heatingMills > FullWeightMills {
		return nil, shared.NewDomainError("INVALID_WEIGHT", "Heating mills must be between 0 and 1000")
	}

	return &Apartment{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		BuildingID:         buildingID,
		Number:             number,
		OwnerName:          ownerName,
		ParticipationMills: participationMills,
		HeatingMills:       heatingMills,
		CachedBalance:      decimal.Zero,
	}, nil
}

// Owes reports whether the apartment owes the building.
func (a *Apartment) Owes() bool {
	return a.CachedBalance.IsNegative()
}

// applySigned applies a signed transaction amount to the cached balance.
// Callers go through AppendTransaction, which stamps the audit snapshots.
func (a *Apartment) applySigned(amount decimal.Decimal) {
	a.CachedBalance = a.CachedBalance.Add(amount)
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// OverwriteCachedBalance replaces the cached balance with a replayed value.
// Reserved for the reconciliation fix path.
func (a *Apartment) OverwriteCachedBalance(replayed decimal.Decimal) {
	a.CachedBalance = replayed
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}
