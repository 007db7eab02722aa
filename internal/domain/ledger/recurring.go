package ledger

import (
	"time"

	"github.com/condoledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlannedCharge is a recurring charge the calculator wants written to the
// ledger for a given month. OriginID carries the month key, which is what
// makes re-running a month a no-op.
type PlannedCharge struct {
	ApartmentID uuid.UUID
	Amount      decimal.Decimal
	OriginType  OriginType
	OriginID    string
	Description string
	Deferred    bool
	DeferReason string
}

// ManagementFeeCharges plans the building's flat per-apartment fee for the
// month. Apartments already charged for the month (per alreadyCharged) are
// skipped, never re-billed.
func ManagementFeeCharges(
	b *Building,
	apartments []*Apartment,
	year int,
	month time.Month,
	alreadyCharged map[uuid.UUID]bool,
) []PlannedCharge {
	if b.ManagementFeePerApartment.IsZero() {
		return nil
	}

	key := MonthKey(year, month)
	charges := make([]PlannedCharge, 0, len(apartments))
	for _, a := range apartments {
		if alreadyCharged[a.ID] {
			continue
		}
		charges = append(charges, PlannedCharge{
			ApartmentID: a.ID,
			Amount:      b.ManagementFeePerApartment,
			OriginType:  OriginManagementFee,
			OriginID:    key,
			Description: "Management fee " + key,
		})
	}
	return charges
}

// ReserveFundCharges plans the month's reserve fund contributions. The
// monthly target (goal / duration) is split by participation mills. An
// apartment with outstanding non-reserve debt has its contribution deferred
// for the month instead of charged; reserve charges themselves never count
// as blocking debt, so a fund contribution cannot defer the next one.
func ReserveFundCharges(
	b *Building,
	apartments []*Apartment,
	year int,
	month time.Month,
	alreadyCharged map[uuid.UUID]bool,
	outstandingNonReserve map[uuid.UUID]decimal.Decimal,
) ([]PlannedCharge, error) {
	if !b.ReserveFundActiveIn(year, month) {
		return nil, nil
	}
	monthly := b.ReserveFundMonthlyTarget().Round(valueobject.MinorUnitPlaces)
	if !monthly.IsPositive() || len(apartments) == 0 {
		return nil, nil
	}

	shares, err := Allocate(valueobject.NewMoneyEUR(monthly), DistributeByParticipationMills, apartments, nil)
	if err != nil {
		return nil, err
	}

	key := MonthKey(year, month)
	charges := make([]PlannedCharge, 0, len(apartments))
	for _, a := range apartments {
		share, ok := shares[a.ID]
		if !ok || !share.IsPositive() || alreadyCharged[a.ID] {
			continue
		}
		charge := PlannedCharge{
			ApartmentID: a.ID,
			Amount:      share,
			OriginType:  OriginReserveFund,
			OriginID:    key,
			Description: "Reserve fund contribution " + key,
		}
		if outstandingNonReserve[a.ID].IsNegative() {
			charge.Deferred = true
			charge.DeferReason = "outstanding balance"
		}
		charges = append(charges, charge)
	}
	return charges, nil
}

// OutstandingNonReserve replays an apartment's balance with reserve fund
// charges excluded. Negative means the apartment owes for something other
// than the reserve fund.
func OutstandingNonReserve(txns []*Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		if t.IsCharge() && t.OriginType == OriginReserveFund {
			continue
		}
		total = total.Add(t.Amount)
	}
	return total
}
