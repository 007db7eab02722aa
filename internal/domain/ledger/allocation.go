package ledger

import (
	"sort"

	"github.com/condoledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Allocate distributes an expense amount across apartments by the given
// strategy. The returned shares sum to the input amount exactly: every share
// is computed at full precision, truncated to the currency minor unit, and
// the truncation residual is assigned cent by cent to the apartments with
// the largest fractional remainder (largest-remainder method). Ties break on
// apartment ID so repeated runs agree.
//
// Fallback chain: heating weights fall back to participation weights when
// the heating total is zero, and participation falls back to an equal split
// when its total is zero. Subset strategies (ByMeters, SpecificApartments)
// apply the same proportional math restricted to the supplied subset;
// apartments outside the subset receive no share.
func Allocate(
	amount valueobject.Money,
	strategy DistributionStrategy,
	apartments []*Apartment,
	subset UUIDList,
) (map[uuid.UUID]decimal.Decimal, error) {
	if !strategy.IsValid() {
		return nil, ErrInvalidStrategy
	}
	if !amount.IsPositive() || !amount.IsWholeMinorUnits() {
		return nil, ErrInvalidAmount
	}
	if len(apartments) == 0 {
		return nil, ErrNoApartments
	}

	pool := apartments
	if strategy.RequiresSubset() {
		pool = make([]*Apartment, 0, len(subset))
		for _, a := range apartments {
			if subset.Contains(a.ID) {
				pool = append(pool, a)
			}
		}
		if len(pool) == 0 {
			return nil, ErrNoApartments
		}
	}

	weights, total := resolveWeights(strategy, pool)
	if total == 0 {
		// Every fallback chain ends at EqualShare, so this is unreachable
		// unless the pool itself is empty.
		return nil, ErrZeroWeights
	}

	type portion struct {
		id       uuid.UUID
		share    decimal.Decimal
		fraction decimal.Decimal
	}

	totalDec := decimal.NewFromInt(total)
	portions := make([]portion, len(pool))
	allocated := decimal.Zero
	for i, a := range pool {
		raw := amount.Amount().Mul(decimal.NewFromInt(weights[i])).Div(totalDec)
		share := raw.Truncate(valueobject.MinorUnitPlaces)
		portions[i] = portion{
			id:       a.ID,
			share:    share,
			fraction: raw.Sub(share),
		}
		allocated = allocated.Add(share)
	}

	// Largest remainder first; apartment ID as the deterministic tiebreak.
	order := make([]int, len(portions))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		pi, pj := portions[order[i]], portions[order[j]]
		if !pi.fraction.Equal(pj.fraction) {
			return pi.fraction.GreaterThan(pj.fraction)
		}
		return pi.id.String() < pj.id.String()
	})

	cent := decimal.New(1, -valueobject.MinorUnitPlaces)
	residualCents := amount.Amount().Sub(allocated).Div(cent).IntPart()
	for i := 0; residualCents > 0; i = (i + 1) % len(order) {
		portions[order[i]].share = portions[order[i]].share.Add(cent)
		residualCents--
	}

	shares := make(map[uuid.UUID]decimal.Decimal, len(portions))
	for _, p := range portions {
		shares[p.id] = p.share
	}
	return shares, nil
}

// resolveWeights returns the effective weight per pool apartment and their
// total, after walking the strategy fallback chain.
func resolveWeights(strategy DistributionStrategy, pool []*Apartment) ([]int64, int64) {
	weights := make([]int64, len(pool))
	var total int64

	switch strategy {
	case DistributeByHeatingMills:
		for i, a := range pool {
			weights[i] = int64(a.HeatingMills)
			total += weights[i]
		}
		if total == 0 {
			return resolveWeights(DistributeByParticipationMills, pool)
		}
	case DistributeByParticipationMills, DistributeByMeters, DistributeSpecificApartments:
		for i, a := range pool {
			weights[i] = int64(a.ParticipationMills)
			total += weights[i]
		}
		if total == 0 {
			return resolveWeights(DistributeEqualShare, pool)
		}
	case DistributeEqualShare:
		for i := range pool {
			weights[i] = 1
		}
		total = int64(len(pool))
	}

	return weights, total
}
