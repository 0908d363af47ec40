package auction

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the status admits no further transition.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Lot records a completed sale.
type Lot struct {
	PlayerID string
	TeamID   string
	Amount   int64
	SoldAt   time.Time
}

// LeadingBid is the denormalized view of the round's winning bid.
type LeadingBid struct {
	BidID  string
	TeamID string
	Amount int64
}

// TimerState is the authoritative server-side countdown for the round.
// Clients only render the value pushed over the broadcast channel.
type TimerState struct {
	DurationSeconds  int
	RemainingSeconds int
	Active           bool
	StartedAt        time.Time
}

// AuditEntry is one line of the session's append-only activity log.
type AuditEntry struct {
	At     time.Time
	Actor  string
	Action string
	Detail string
}

// Auction is one timed bidding session for a tournament. All mutating
// methods are called from the owning session loop only; they either apply
// fully or return a typed error leaving the aggregate untouched.
type Auction struct {
	ID           string
	TournamentID string
	Name         string
	Status       Status
	Settings     Settings

	// Pool is every eligible player in registration order. Each pool
	// member sits in exactly one of Remaining, Sold, Unsold, Skipped, or
	// is the current player.
	Pool      []string
	Remaining []string

	CurrentPlayerID string
	CurrentBid      *LeadingBid
	BidHistory      []string

	// RoundSeq increments each time a round opens; timer-expiry commands
	// carry the sequence they were armed for so late deliveries are no-ops.
	RoundSeq int64

	Sold    []Lot
	Unsold  []string
	Skipped []string

	Timer TimerState
	Stats Statistics
	Logs  []AuditEntry

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a Auction) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("auction id is required")
	}
	if a.TournamentID == "" {
		return fmt.Errorf("auction tournament id is required")
	}
	if err := a.Settings.Validate(); err != nil {
		return fmt.Errorf("auction settings: %w", err)
	}

	seen := make(map[string]string, len(a.Pool))
	note := func(playerID, bucket string) error {
		if prev, ok := seen[playerID]; ok {
			return fmt.Errorf("player %s is in both %s and %s", playerID, prev, bucket)
		}
		seen[playerID] = bucket
		return nil
	}
	for _, id := range a.Remaining {
		if err := note(id, "remaining"); err != nil {
			return err
		}
	}
	for _, lot := range a.Sold {
		if err := note(lot.PlayerID, "sold"); err != nil {
			return err
		}
	}
	for _, id := range a.Unsold {
		if err := note(id, "unsold"); err != nil {
			return err
		}
	}
	for _, id := range a.Skipped {
		if err := note(id, "skipped"); err != nil {
			return err
		}
	}
	if a.CurrentPlayerID != "" {
		if err := note(a.CurrentPlayerID, "current"); err != nil {
			return err
		}
	}

	return nil
}

// Start transitions pending -> active with a pre-sorted player queue and
// opens the first round.
func (a *Auction) Start(order []string, now time.Time, actor string) error {
	if a.Status != StatusPending {
		return fmt.Errorf("%w: cannot start auction in status %s", ErrInvalidTransition, a.Status)
	}
	if len(order) == 0 {
		return ErrEmptyPool
	}

	a.Status = StatusActive
	a.Remaining = append([]string(nil), order...)
	a.openRound(now)
	a.appendLog(now, actor, "auction_started", fmt.Sprintf("%d players queued", len(order)))
	a.touch(now)

	return nil
}

// Pause halts the countdown without clearing round state.
func (a *Auction) Pause(now time.Time, actor string) error {
	if a.Status != StatusActive {
		return fmt.Errorf("%w: cannot pause auction in status %s", ErrInvalidTransition, a.Status)
	}

	a.Status = StatusPaused
	a.Timer.Active = false
	a.appendLog(now, actor, "auction_paused", "")
	a.touch(now)

	return nil
}

// Resume continues the countdown with the remaining seconds it paused at.
func (a *Auction) Resume(now time.Time, actor string) error {
	if a.Status != StatusPaused {
		return fmt.Errorf("%w: cannot resume auction in status %s", ErrInvalidTransition, a.Status)
	}

	a.Status = StatusActive
	if a.CurrentPlayerID != "" && a.Timer.RemainingSeconds > 0 {
		a.Timer.Active = true
	}
	a.appendLog(now, actor, "auction_resumed", "")
	a.touch(now)

	return nil
}

// Cancel moves any non-terminal auction to cancelled.
func (a *Auction) Cancel(now time.Time, actor string) error {
	if a.Status.Terminal() {
		return fmt.Errorf("%w: cannot cancel auction in status %s", ErrInvalidTransition, a.Status)
	}

	a.Status = StatusCancelled
	a.Timer.Active = false
	a.CurrentBid = nil
	a.CurrentPlayerID = ""
	a.appendLog(now, actor, "auction_cancelled", "")
	a.touch(now)

	return nil
}

// RequiredAmount is the minimum acceptable next bid for the open round.
func (a *Auction) RequiredAmount() int64 {
	if a.CurrentBid == nil {
		return a.Settings.MinBid
	}
	return a.CurrentBid.Amount + a.Settings.MinIncrement
}

// CheckBid validates a bid against round and amount rules. It never
// mutates the auction.
func (a *Auction) CheckBid(playerID string, amount int64) error {
	if a.Status != StatusActive {
		return fmt.Errorf("%w: auction is %s", ErrInvalidTransition, a.Status)
	}
	if a.CurrentPlayerID == "" || playerID != a.CurrentPlayerID {
		return fmt.Errorf("%w: player=%s current=%s", ErrPlayerNotCurrent, playerID, a.CurrentPlayerID)
	}
	if required := a.RequiredAmount(); amount < required {
		return &BidTooLowError{Amount: amount, Required: required}
	}
	if a.Settings.MaxBid > 0 && amount > a.Settings.MaxBid {
		return fmt.Errorf("%w: amount=%d max=%d", ErrBidCapExceeded, amount, a.Settings.MaxBid)
	}

	return nil
}

// AcceptBid installs a new leading bid. The caller has already run
// CheckBid.
func (a *Auction) AcceptBid(bidID, teamID string, amount int64, now time.Time) {
	a.CurrentBid = &LeadingBid{BidID: bidID, TeamID: teamID, Amount: amount}
	a.BidHistory = append(a.BidHistory, bidID)
	if a.Settings.ResetTimerOnBid {
		a.Timer.RemainingSeconds = a.Timer.DurationSeconds
		a.Timer.StartedAt = now
	}
	a.appendLog(now, teamID, "bid_accepted", fmt.Sprintf("player=%s amount=%d", a.CurrentPlayerID, amount))
	a.touch(now)
}

// Sell closes the round as sold. With a leading bid present, teamID and
// amount must confirm it; without one the sale only proceeds when forced
// sales are enabled.
func (a *Auction) Sell(teamID string, amount int64, now time.Time, actor string) (Lot, error) {
	if a.Status != StatusActive {
		return Lot{}, fmt.Errorf("%w: cannot sell while auction is %s", ErrInvalidTransition, a.Status)
	}
	if a.CurrentPlayerID == "" {
		return Lot{}, fmt.Errorf("%w: no current player", ErrPlayerNotCurrent)
	}
	if a.CurrentBid == nil {
		if !a.Settings.AllowForcedSale {
			return Lot{}, ErrNoActiveBid
		}
		if teamID == "" || amount <= 0 {
			return Lot{}, fmt.Errorf("forced sale requires a team and a positive amount")
		}
	} else if teamID != a.CurrentBid.TeamID || amount != a.CurrentBid.Amount {
		return Lot{}, fmt.Errorf("sale must confirm the leading bid: team=%s amount=%d", a.CurrentBid.TeamID, a.CurrentBid.Amount)
	}

	lot := Lot{
		PlayerID: a.CurrentPlayerID,
		TeamID:   teamID,
		Amount:   amount,
		SoldAt:   now,
	}
	a.Sold = append(a.Sold, lot)
	a.Stats.recordSale(lot)
	a.appendLog(now, actor, "player_sold", fmt.Sprintf("player=%s team=%s amount=%d", lot.PlayerID, teamID, amount))
	a.closeRound(now)

	return lot, nil
}

// MarkUnsold closes the round with no buyer. Rejected while a bid leads
// the round: the auctioneer must sell or skip instead.
func (a *Auction) MarkUnsold(now time.Time, actor string) error {
	if a.Status != StatusActive && a.Status != StatusPaused {
		return fmt.Errorf("%w: cannot mark unsold while auction is %s", ErrInvalidTransition, a.Status)
	}
	if a.CurrentPlayerID == "" {
		return fmt.Errorf("%w: no current player", ErrPlayerNotCurrent)
	}
	if a.CurrentBid != nil {
		return fmt.Errorf("%w: round has a leading bid", ErrInvalidTransition)
	}

	a.Unsold = append(a.Unsold, a.CurrentPlayerID)
	a.Stats.TotalUnsold++
	a.appendLog(now, actor, "player_unsold", fmt.Sprintf("player=%s", a.CurrentPlayerID))
	a.closeRound(now)

	return nil
}

// Skip sets the current player aside without a sale outcome, discarding
// any bids placed so far in the round.
func (a *Auction) Skip(now time.Time, actor string) error {
	if a.Status != StatusActive && a.Status != StatusPaused {
		return fmt.Errorf("%w: cannot skip while auction is %s", ErrInvalidTransition, a.Status)
	}
	if a.CurrentPlayerID == "" {
		return fmt.Errorf("%w: no current player", ErrPlayerNotCurrent)
	}

	a.Skipped = append(a.Skipped, a.CurrentPlayerID)
	a.appendLog(now, actor, "player_skipped", fmt.Sprintf("player=%s", a.CurrentPlayerID))
	a.closeRound(now)

	return nil
}

// OpenNextRound pops the next remaining player, or completes the auction
// when the queue is exhausted. Returns true when a new round opened.
func (a *Auction) OpenNextRound(now time.Time) (bool, error) {
	if a.Status != StatusActive && a.Status != StatusPaused {
		return false, fmt.Errorf("%w: cannot advance while auction is %s", ErrInvalidTransition, a.Status)
	}
	if a.CurrentPlayerID != "" {
		return false, fmt.Errorf("%w: round for player %s is still open", ErrInvalidTransition, a.CurrentPlayerID)
	}

	if len(a.Remaining) == 0 {
		a.Status = StatusCompleted
		a.Timer.Active = false
		a.Stats.finalize()
		a.appendLog(now, "", "auction_completed", fmt.Sprintf("sold=%d unsold=%d revenue=%d", a.Stats.TotalSold, a.Stats.TotalUnsold, a.Stats.TotalRevenue))
		a.touch(now)
		return false, nil
	}

	a.openRound(now)
	a.touch(now)

	return true, nil
}

// RequeueUnsold moves an unsold player to the back of the remaining queue.
func (a *Auction) RequeueUnsold(playerID string, now time.Time, actor string) error {
	if !a.Settings.AllowUnsoldReauction {
		return ErrReauctionDisabled
	}
	if a.Status != StatusActive && a.Status != StatusPaused {
		return fmt.Errorf("%w: cannot requeue while auction is %s", ErrInvalidTransition, a.Status)
	}

	idx := -1
	for i, id := range a.Unsold {
		if id == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: player %s is not in the unsold set", ErrPlayerNotCurrent, playerID)
	}

	a.Unsold = append(a.Unsold[:idx], a.Unsold[idx+1:]...)
	a.Remaining = append(a.Remaining, playerID)
	a.Stats.TotalUnsold--
	a.appendLog(now, actor, "player_requeued", fmt.Sprintf("player=%s", playerID))
	a.touch(now)

	return nil
}

// Tick decrements the countdown by one second and reports the remainder.
// The second return is false when no countdown is running.
func (a *Auction) Tick() (int, bool) {
	if a.Status != StatusActive || !a.Timer.Active {
		return a.Timer.RemainingSeconds, false
	}
	if a.Timer.RemainingSeconds > 0 {
		a.Timer.RemainingSeconds--
	}
	if a.Timer.RemainingSeconds == 0 {
		a.Timer.Active = false
	}

	return a.Timer.RemainingSeconds, true
}

// HasOpenRound reports whether a player is currently under the hammer.
func (a *Auction) HasOpenRound() bool {
	return a.CurrentPlayerID != ""
}

func (a *Auction) openRound(now time.Time) {
	a.CurrentPlayerID = a.Remaining[0]
	a.Remaining = a.Remaining[1:]
	a.CurrentBid = nil
	a.RoundSeq++
	a.Timer = TimerState{
		DurationSeconds:  a.Settings.TimerSeconds,
		RemainingSeconds: a.Settings.TimerSeconds,
		Active:           a.Status == StatusActive,
		StartedAt:        now,
	}
}

func (a *Auction) closeRound(now time.Time) {
	a.CurrentPlayerID = ""
	a.CurrentBid = nil
	a.Timer.Active = false
	a.touch(now)
}

func (a *Auction) appendLog(now time.Time, actor, action, detail string) {
	a.Logs = append(a.Logs, AuditEntry{At: now, Actor: actor, Action: action, Detail: detail})
}

func (a *Auction) touch(now time.Time) {
	a.UpdatedAt = now
}

// Clone returns a deep copy safe to hand outside the session loop.
func (a Auction) Clone() Auction {
	copied := a
	copied.Pool = append([]string(nil), a.Pool...)
	copied.Remaining = append([]string(nil), a.Remaining...)
	copied.BidHistory = append([]string(nil), a.BidHistory...)
	copied.Sold = append([]Lot(nil), a.Sold...)
	copied.Unsold = append([]string(nil), a.Unsold...)
	copied.Skipped = append([]string(nil), a.Skipped...)
	copied.Logs = append([]AuditEntry(nil), a.Logs...)
	copied.Settings.CustomOrder = append([]string(nil), a.Settings.CustomOrder...)
	if a.CurrentBid != nil {
		leading := *a.CurrentBid
		copied.CurrentBid = &leading
	}
	return copied
}
