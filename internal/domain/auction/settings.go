package auction

import "fmt"

// OrderStrategy selects how the player queue is sorted at start.
type OrderStrategy string

const (
	// OrderInsertion auctions players in registration order.
	OrderInsertion OrderStrategy = "insertion"
	// OrderRandom shuffles the pool with the session's seed.
	OrderRandom OrderStrategy = "random"
	// OrderBasePriceDesc auctions the most expensive players first.
	OrderBasePriceDesc OrderStrategy = "base_price_desc"
	// OrderCustom follows an explicit player id list; unlisted players
	// follow in insertion order.
	OrderCustom OrderStrategy = "custom"
	// OrderGrouped batches players by position, keepers first.
	OrderGrouped OrderStrategy = "grouped"
)

// Settings are the per-session auction rules. The two behaviors the source
// platform leaves ambiguous are explicit flags here: AllowForcedSale and
// ResetTimerOnBid.
type Settings struct {
	MinBid       int64
	MinIncrement int64
	// MaxBid caps any single bid; zero means uncapped.
	MaxBid       int64
	TimerSeconds int
	// AutoPauseOnSold pauses the session after each sale instead of
	// advancing immediately.
	AutoPauseOnSold bool
	// AllowUnsoldReauction permits the auctioneer to re-queue unsold
	// players at the end of the pool.
	AllowUnsoldReauction bool
	// AllowForcedSale permits an auctioneer to resolve a round as sold
	// without any accepted bid. Off by default: a sale confirms the
	// leading bid.
	AllowForcedSale bool
	// ResetTimerOnBid re-arms the full countdown on every accepted bid.
	ResetTimerOnBid bool
	PlayerOrder     OrderStrategy
	// CustomOrder is consulted only when PlayerOrder is OrderCustom.
	CustomOrder []string
}

func (s Settings) Validate() error {
	if s.MinBid <= 0 {
		return fmt.Errorf("min bid must be positive")
	}
	if s.MinIncrement <= 0 {
		return fmt.Errorf("min bid increment must be positive")
	}
	if s.MaxBid < 0 {
		return fmt.Errorf("max bid cannot be negative")
	}
	if s.MaxBid > 0 && s.MaxBid < s.MinBid {
		return fmt.Errorf("max bid %d is below min bid %d", s.MaxBid, s.MinBid)
	}
	if s.TimerSeconds <= 0 {
		return fmt.Errorf("timer duration must be positive")
	}
	switch s.PlayerOrder {
	case OrderInsertion, OrderRandom, OrderBasePriceDesc, OrderCustom, OrderGrouped:
	default:
		return fmt.Errorf("unknown player order strategy %q", s.PlayerOrder)
	}

	return nil
}
