package ledger

import (
	"context"
	"errors"

	"github.com/condoledger/backend/internal/domain/ledger"
	"github.com/condoledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReconciliationService audits cached balances against the ledger and flags
// suspected duplicate entries.
type ReconciliationService struct {
	uow    ledger.UnitOfWork
	locks  *KeyedLocks
	logger *zap.Logger
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(uow ledger.UnitOfWork, locks *KeyedLocks, logger *zap.Logger) *ReconciliationService {
	return &ReconciliationService{uow: uow, locks: locks, logger: logger}
}

// ReconciliationReport is the outcome of one building-wide reconciliation
type ReconciliationReport struct {
	BuildingID uuid.UUID                   `json:"building_id"`
	Results    []ledger.VerificationResult `json:"results"`
	Duplicates []ledger.DuplicatePair      `json:"duplicates"`
	Drifted    int                         `json:"drifted"`
	Fixed      int                         `json:"fixed"`
}

// ReconcileBuilding replays every apartment's ledger and compares the result
// against the cached balance. With fix set, drifted caches are overwritten
// with the replayed figure; the ledger itself is never touched. Suspected
// duplicates are reported for an operator to review, not removed.
func (s *ReconciliationService) ReconcileBuilding(ctx context.Context, buildingID uuid.UUID, fix bool) (*ReconciliationReport, error) {
	unlock := s.locks.LockBuilding(buildingID)
	defer unlock()

	report := &ReconciliationReport{
		BuildingID: buildingID,
		Results:    []ledger.VerificationResult{},
		Duplicates: []ledger.DuplicatePair{},
	}

	err := s.uow.Execute(ctx, func(r ledger.Repositories) error {
		b, err := r.Buildings.FindByID(ctx, buildingID)
		if err != nil {
			return err
		}
		if b == nil {
			return shared.ErrNotFound
		}

		apartments, err := r.Apartments.FindByBuilding(ctx, buildingID)
		if err != nil {
			return err
		}

		var all []*ledger.Transaction
		for _, a := range apartments {
			txns, err := r.Transactions.FindByApartment(ctx, a.ID)
			if err != nil {
				return err
			}
			all = append(all, txns...)

			res := ledger.VerifyApartment(a, txns)
			report.Results = append(report.Results, res)
			if res.Consistent {
				continue
			}
			report.Drifted++
			if !fix {
				continue
			}
			a.OverwriteCachedBalance(res.ReplayedBalance)
			if err := r.Apartments.SaveWithLock(ctx, a); err != nil {
				return err
			}
			report.Fixed++
		}

		report.Duplicates = ledger.FindDuplicates(all)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("building reconciled",
		zap.String("building_id", buildingID.String()),
		zap.Int("apartments", len(report.Results)),
		zap.Int("drifted", report.Drifted),
		zap.Int("fixed", report.Fixed),
		zap.Int("duplicates", len(report.Duplicates)))
	return report, nil
}

// RemoveTransaction deletes a confirmed duplicate ledger entry and restores
// the apartment's cached balance from a replay of what remains. This is the
// only deletion path in the whole ledger.
func (s *ReconciliationService) RemoveTransaction(ctx context.Context, transactionID uuid.UUID) error {
	apartmentID, err := s.transactionApartment(ctx, transactionID)
	if err != nil {
		return err
	}

	unlock := s.locks.LockApartment(apartmentID)
	defer unlock()

	err = s.uow.Execute(ctx, func(r ledger.Repositories) error {
		txn, err := r.Transactions.FindByID(ctx, transactionID)
		if err != nil {
			return err
		}
		if txn == nil {
			return shared.ErrNotFound
		}
		a, err := r.Apartments.FindByID(ctx, txn.ApartmentID)
		if err != nil {
			return err
		}
		if a == nil {
			return shared.ErrNotFound
		}

		if err := r.Transactions.Delete(ctx, transactionID); err != nil {
			return err
		}
		remaining, err := r.Transactions.FindByApartment(ctx, a.ID)
		if err != nil {
			return err
		}
		a.OverwriteCachedBalance(ledger.ReplayBalance(remaining))
		return r.Apartments.SaveWithLock(ctx, a)
	})
	if err != nil {
		return err
	}

	s.logger.Info("duplicate transaction removed",
		zap.String("transaction_id", transactionID.String()),
		zap.String("apartment_id", apartmentID.String()))
	return nil
}

// DuplicateRemovalResult reports the outcome of a batch duplicate removal
type DuplicateRemovalResult struct {
	Removed []uuid.UUID `json:"removed"`
	Missing []uuid.UUID `json:"missing"`
}

// RemoveDuplicates deletes a batch of confirmed duplicates, one ledger
// transaction each. Entries already gone are reported, not treated as
// failures, so a retried batch converges.
func (s *ReconciliationService) RemoveDuplicates(ctx context.Context, transactionIDs []uuid.UUID) (*DuplicateRemovalResult, error) {
	result := &DuplicateRemovalResult{
		Removed: []uuid.UUID{},
		Missing: []uuid.UUID{},
	}
	for _, id := range transactionIDs {
		err := s.RemoveTransaction(ctx, id)
		if errors.Is(err, shared.ErrNotFound) {
			result.Missing = append(result.Missing, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		result.Removed = append(result.Removed, id)
	}

	s.logger.Info("duplicate batch removed",
		zap.Int("removed", len(result.Removed)),
		zap.Int("missing", len(result.Missing)))
	return result, nil
}

func (s *ReconciliationService) transactionApartment(ctx context.Context, transactionID uuid.UUID) (uuid.UUID, error) {
	var apartmentID uuid.UUID
	err := s.uow.Execute(ctx, func(r ledger.Repositories) error {
		txn, err := r.Transactions.FindByID(ctx, transactionID)
		if err != nil {
			return err
		}
		if txn == nil {
			return shared.ErrNotFound
		}
		apartmentID = txn.ApartmentID
		return nil
	})
	return apartmentID, err
}
