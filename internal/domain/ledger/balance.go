package ledger

import (
	"sort"
	"time"

	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SortTransactions orders entries the way the ledger replays them: by
// accrual date, then by recording time, then by ID so the order is total.
func SortTransactions(txns []*Transaction) {
	sort.Slice(txns, func(i, j int) bool {
		if !txns[i].OccurredOn.Equal(txns[j].OccurredOn) {
			return txns[i].OccurredOn.Before(txns[j].OccurredOn)
		}
		if !txns[i].RecordedAt.Equal(txns[j].RecordedAt) {
			return txns[i].RecordedAt.Before(txns[j].RecordedAt)
		}
		return txns[i].ID.String() < txns[j].ID.String()
	})
}

// ReplayBalance computes a balance from scratch as the signed sum of all
// entries. This is the authoritative figure; the cached balance on the
// apartment is only an optimization over it.
func ReplayBalance(txns []*Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		total = total.Add(t.Amount)
	}
	return total
}

// HistoricalBalance replays the balance as of the start of the given day:
// entries whose accrual date falls on or after asOf are excluded. The cached
// balance is never consulted.
func HistoricalBalance(txns []*Transaction, asOf time.Time) decimal.Decimal {
	cutoff := truncateToDay(asOf)
	total := decimal.Zero
	for _, t := range txns {
		if t.OccurredOn.Before(cutoff) {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// AppendTransaction writes one ledger entry against an apartment: it stamps
// the balance-before/after audit snapshots and moves the cached balance. The
// entry must accrue on or after the building's financial system start date.
func AppendTransaction(b *Building, a *Apartment, txn *Transaction) error {
	if txn.ApartmentID != a.ID || a.BuildingID != b.ID || txn.BuildingID != b.ID {
		return shared.ErrInvalidInput
	}
	if txn.OccurredOn.Before(b.FinancialSystemStartDate) {
		return ErrBeforeSystemStart
	}

	txn.BalanceBefore = a.CachedBalance
	a.applySigned(txn.Amount)
	txn.BalanceAfter = a.CachedBalance
	return nil
}
