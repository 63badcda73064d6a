package models

import (
	"errors"
	"fmt"
)

// Error taxonomy for the betting engine. Handlers map these onto HTTP
// statuses; settlement-layer failures are logged and degraded, never
// propagated to players.
var (
	// ErrInvalidBet covers non-positive amounts and malformed bet values.
	ErrInvalidBet = errors.New("invalid bet")
	// ErrRoundClosed is returned for bets placed outside the open window.
	ErrRoundClosed = errors.New("round is closed for betting")
	// ErrInsufficientFunds is returned when a debit would drive a balance
	// negative. The operation is rejected whole; nothing is clamped.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrRoundAlreadySettled signals a settlement race: another observer won
	// the conditional write. Callers treat it as a no-op success.
	ErrRoundAlreadySettled = errors.New("round already settled")
	// ErrRoundStillOpen is returned for settlement attempts before the
	// deadline.
	ErrRoundStillOpen = errors.New("round deadline has not passed")
	// ErrDuplicateAccount is returned when registering an email or phone that
	// is already taken.
	ErrDuplicateAccount = errors.New("account already exists")
	// ErrNotFound is the generic missing-entity error surfaced to callers.
	ErrNotFound = errors.New("not found")
	// ErrOpenRoundExists is returned when opening a round while another is
	// still open. Callers reload the existing round instead.
	ErrOpenRoundExists = errors.New("an open round already exists")
)

// LedgerBatchError reports the entries of a multi-account batch update that
// failed to apply. Settlement surfaces it for reconciliation instead of
// blocking round progression.
type LedgerBatchError struct {
	Failed []BalanceAdjustment
}

func (e *LedgerBatchError) Error() string {
	return fmt.Sprintf("ledger batch update failed for %d account(s)", len(e.Failed))
}
