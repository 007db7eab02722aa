package ledger

import "github.com/condoledger/backend/internal/domain/shared"

// Domain errors for the ledger engine. Validation errors are rejected before
// any write; conflict errors leave no partial effect; integrity errors are
// reported by reconciliation, never thrown from balance reads.
var (
	ErrAlreadyIssued     = shared.NewDomainError("ALREADY_ISSUED", "Expense has already been allocated")
	ErrInvalidAmount     = shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	ErrNoApartments      = shared.NewDomainError("NO_APARTMENTS", "Building has no apartments to allocate to")
	ErrInvalidStrategy   = shared.NewDomainError("INVALID_STRATEGY", "Distribution strategy is not valid")
	ErrDuplicatePayment  = shared.NewDomainError("DUPLICATE_PAYMENT", "Payment is already linked to a ledger transaction")
	ErrAlreadyClosed     = shared.NewDomainError("ALREADY_CLOSED", "Monthly balance is already closed")
	ErrMonthClosed       = shared.NewDomainError("MONTH_CLOSED", "Month is closed; record a compensating adjustment dated in the open period")
	ErrPriorMonthOpen    = shared.NewDomainError("PRIOR_MONTH_OPEN", "Prior month must be closed first")
	ErrZeroWeights       = shared.NewDomainError("ZERO_WEIGHTS", "Apartment weights sum to zero with no fallback")
	ErrBeforeSystemStart = shared.NewDomainError("BEFORE_SYSTEM_START", "Date precedes the building's financial system start date")
	ErrBalanceDrift      = shared.NewDomainError("BALANCE_DRIFT", "Cached balance diverges from replayed balance")
)
