package bid

import (
	"fmt"
	"time"
)

// Bid is one accepted offer for a player within an auction round. Bids are
// append-only: acceptance flips IsWinning on the previous leader, it never
// deletes it.
type Bid struct {
	ID        string
	AuctionID string
	PlayerID  string
	TeamID    string
	BidderID  string
	Amount    int64
	PlacedAt  time.Time
	// IsWinning is true for exactly one bid per live (auction, player) round.
	IsWinning bool
	// IsSold is set once the round resolves with this bid confirmed.
	IsSold bool
}

func (b Bid) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("bid id is required")
	}
	if b.AuctionID == "" {
		return fmt.Errorf("bid auction id is required")
	}
	if b.PlayerID == "" {
		return fmt.Errorf("bid player id is required")
	}
	if b.TeamID == "" {
		return fmt.Errorf("bid team id is required")
	}
	if b.BidderID == "" {
		return fmt.Errorf("bid bidder id is required")
	}
	if b.Amount <= 0 {
		return fmt.Errorf("bid amount must be positive")
	}

	return nil
}
