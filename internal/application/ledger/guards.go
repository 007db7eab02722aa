package ledger

import (
	"context"
	"time"

	"github.com/condoledger/backend/internal/domain/ledger"
	"github.com/google/uuid"
)

// ensureMonthOpen rejects writes whose accrual date falls inside an already
// closed month. A closed month's figures are final; anything arriving late
// has to be booked as a compensating entry dated in the open period, or the
// carry-forward chain would drift from the ledger.
func ensureMonthOpen(ctx context.Context, r ledger.Repositories, buildingID uuid.UUID, occurredOn time.Time) error {
	m, err := r.MonthlyBalances.FindByPeriod(ctx, buildingID, occurredOn.Year(), occurredOn.Month())
	if err != nil {
		return err
	}
	if m != nil && m.Closed {
		return ledger.ErrMonthClosed
	}
	return nil
}
