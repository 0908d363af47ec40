package realtime

import "time"

// Event names pushed to auction rooms. Clients render exactly what the
// server publishes; in particular the countdown is authoritative here and
// never recomputed client-side.
const (
	EventAuctionStarted   = "auction_started"
	EventAuctionPaused    = "auction_paused"
	EventAuctionResumed   = "auction_resumed"
	EventAuctionCancelled = "auction_cancelled"
	EventAuctionCompleted = "auction_completed"
	EventCurrentPlayer    = "current_player_changed"
	EventBidUpdate        = "bid_update"
	EventTimerTick        = "timer_tick"
	EventPlayerSold       = "player_sold_update"
	EventPlayerUnsold     = "player_unsold_update"
)

// Event is one room-scoped broadcast message.
type Event struct {
	Name    string
	At      time.Time
	Payload any
}
