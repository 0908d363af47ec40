package auction

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition rejects a lifecycle operation from a state that
	// does not permit it. The auction is never mutated on this path.
	ErrInvalidTransition = errors.New("invalid auction state transition")
	// ErrEmptyPool rejects starting an auction with no eligible players.
	ErrEmptyPool = errors.New("auction has no eligible players")
	// ErrPlayerNotCurrent rejects a bid or resolution naming a player other
	// than the one under the hammer.
	ErrPlayerNotCurrent = errors.New("player is not the current auction player")
	// ErrNoActiveBid rejects a sale when no bid leads the round and forced
	// sales are disabled.
	ErrNoActiveBid = errors.New("no active bid for the current player")
	// ErrBidTooLow rejects a bid below the required amount. Callers get the
	// required amount through BidTooLowError.
	ErrBidTooLow = errors.New("bid amount is below the required minimum")
	// ErrBidCapExceeded rejects a bid above the session's max bid setting.
	ErrBidCapExceeded = errors.New("bid amount exceeds the session maximum")
	// ErrReauctionDisabled rejects re-queueing an unsold player when the
	// session forbids it.
	ErrReauctionDisabled = errors.New("unsold re-auction is disabled for this session")
	// ErrStaleWrite rejects a Save whose version stamp is not one ahead of
	// the stored aggregate.
	ErrStaleWrite = errors.New("auction was modified by another writer")
)

// BidTooLowError carries the minimum acceptable amount back to the bidder.
type BidTooLowError struct {
	Amount   int64
	Required int64
}

func (e *BidTooLowError) Error() string {
	return fmt.Sprintf("bid of %d is below required amount %d", e.Amount, e.Required)
}

func (e *BidTooLowError) Unwrap() error {
	return ErrBidTooLow
}
