package ledger

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DuplicateWindow is how close two recording times must be for otherwise
// identical entries to be flagged as suspected duplicates.
const DuplicateWindow = 5 * time.Minute

// VerificationResult compares an apartment's cached balance against a full
// replay of its ledger.
type VerificationResult struct {
	ApartmentID     uuid.UUID       `json:"apartment_id"`
	ApartmentNumber string          `json:"apartment_number"`
	CachedBalance   decimal.Decimal `json:"cached_balance"`
	ReplayedBalance decimal.Decimal `json:"replayed_balance"`
	Difference      decimal.Decimal `json:"difference"`
	Consistent      bool            `json:"consistent"`
}

// VerifyApartment replays the apartment's transactions and reports whether
// the cached balance agrees. The replayed figure is the authoritative one.
func VerifyApartment(a *Apartment, txns []*Transaction) VerificationResult {
	replayed := ReplayBalance(txns)
	diff := a.CachedBalance.Sub(replayed)
	return VerificationResult{
		ApartmentID:     a.ID,
		ApartmentNumber: a.Number,
		CachedBalance:   a.CachedBalance,
		ReplayedBalance: replayed,
		Difference:      diff,
		Consistent:      diff.IsZero(),
	}
}

// DuplicatePair flags a suspected double entry. Kept is the earlier
// recording; Suspect matches it on apartment, kind, amount and accrual date
// and was recorded within DuplicateWindow of the previous matching entry, so
// a rapid run of identical entries is flagged pairwise along the chain.
type DuplicatePair struct {
	Kept    *Transaction `json:"kept"`
	Suspect *Transaction `json:"suspect"`
}

// FindDuplicates scans a transaction set for entries that look like the same
// real-world event recorded twice. It only reports pairs; deciding whether a
// suspect is a genuine duplicate stays with the operator.
func FindDuplicates(txns []*Transaction) []DuplicatePair {
	sorted := make([]*Transaction, len(txns))
	copy(sorted, txns)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.ApartmentID != b.ApartmentID {
			return a.ApartmentID.String() < b.ApartmentID.String()
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.LessThan(b.Amount)
		}
		if !a.OccurredOn.Equal(b.OccurredOn) {
			return a.OccurredOn.Before(b.OccurredOn)
		}
		return a.RecordedAt.Before(b.RecordedAt)
	})

	// Each entry is compared against its immediate predecessor in the sorted
	// run, so a third identical recording close to the second is flagged even
	// when it is outside the window of the first.
	var pairs []DuplicatePair
	for i := 1; i < len(sorted); i++ {
		prev, s := sorted[i-1], sorted[i]
		if s.ApartmentID != prev.ApartmentID ||
			s.Kind != prev.Kind ||
			!s.Amount.Equal(prev.Amount) ||
			!s.OccurredOn.Equal(prev.OccurredOn) {
			continue
		}
		if s.RecordedAt.Sub(prev.RecordedAt) > DuplicateWindow {
			continue
		}
		pairs = append(pairs, DuplicatePair{Kept: prev, Suspect: s})
	}
	return pairs
}
