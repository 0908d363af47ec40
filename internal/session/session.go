// Package session owns the live auction runtime. Every auction gets one
// Session: a single goroutine that applies all mutations (bids, control
// actions, timer expiry) strictly in order off a bounded command inbox.
// Different auctions run independently.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/cricbid/auction-platform/internal/domain/auction"
	"github.com/cricbid/auction-platform/internal/domain/bid"
	"github.com/cricbid/auction-platform/internal/domain/player"
	"github.com/cricbid/auction-platform/internal/domain/team"
	"github.com/cricbid/auction-platform/internal/realtime"
	idgen "github.com/cricbid/auction-platform/internal/platform/id"
)

var (
	// ErrBusy rejects a command that could not enter the session inbox
	// within the configured wait. Callers should retry.
	ErrBusy = errors.New("auction session is busy")
	// ErrClosed rejects commands sent to a stopped session.
	ErrClosed = errors.New("auction session is closed")
	// ErrDependencyFailure wraps persistence errors. The in-memory state
	// is never adopted unless every save confirmed.
	ErrDependencyFailure = errors.New("auction dependency failure")
)

// Stores bundles the persistence collaborators a session mutates.
type Stores struct {
	Auctions auction.Repository
	Bids     bid.Repository
	Teams    team.Repository
	Players  player.Repository
}

// Broadcaster is the room-scoped fan-out the session publishes to after a
// mutation commits. Publishing must never block.
type Broadcaster interface {
	Publish(room string, event realtime.Event)
	CloseRoom(room string)
}

// Config tunes the session runtime. Zero values fall back to defaults.
type Config struct {
	SubmitTimeout time.Duration
	InboxSize     int
	TickInterval  time.Duration
	Rand          *rand.Rand
}

func (c Config) withDefaults() Config {
	if c.SubmitTimeout <= 0 {
		c.SubmitTimeout = 2 * time.Second
	}
	if c.InboxSize <= 0 {
		c.InboxSize = 64
	}
	if c.TickInterval <= 0 {
		c.TickInterval = time.Second
	}
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return c
}

// Snapshot is a deep copy of the auction state safe to serialize outside
// the session loop.
type Snapshot struct {
	Auction auction.Auction
}

// Room names the broadcast room for an auction.
func Room(auctionID string) string {
	return "auction:" + auctionID
}

// PlaceBidInput is a bid request already vetted by the access policy.
type PlaceBidInput struct {
	PlayerID string
	TeamID   string
	BidderID string
	Amount   int64
}

type ResolveDecision string

const (
	DecisionSell   ResolveDecision = "sell"
	DecisionUnsold ResolveDecision = "unsold"
)

// ResolveInput closes the current round. TeamID and Amount are only
// consulted for forced sales; a normal sale confirms the leading bid.
type ResolveInput struct {
	Decision ResolveDecision
	TeamID   string
	Amount   int64
}

type result struct {
	snap Snapshot
	bid  bid.Bid
	err  error
}

type command struct {
	name  string
	exec  func() result
	reply chan result
}

// Session is the single-writer runtime for one auction.
type Session struct {
	auctionID string
	cfg       Config
	stores    Stores
	broadcast Broadcaster
	idGen     idgen.Generator
	logger    *slog.Logger
	now       func() time.Time

	state *auction.Auction

	inbox    chan command
	done     chan struct{}
	stopOnce sync.Once
}

// New starts the session loop for a loaded auction aggregate.
func New(a auction.Auction, stores Stores, broadcast Broadcaster, gen idgen.Generator, logger *slog.Logger, cfg Config) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()

	owned := a.Clone()
	s := &Session{
		auctionID: a.ID,
		cfg:       cfg,
		stores:    stores,
		broadcast: broadcast,
		idGen:     gen,
		logger:    logger.With("auction_id", a.ID),
		now:       time.Now,
		state:     &owned,
		inbox:     make(chan command, cfg.InboxSize),
		done:      make(chan struct{}),
	}

	go s.loop()
	return s
}

func (s *Session) AuctionID() string {
	return s.auctionID
}

// Stop ends the loop. Pending commands fail with ErrClosed.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
}

func (s *Session) Closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *Session) loop() {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			s.drain()
			return
		case cmd := <-s.inbox:
			cmd.reply <- cmd.exec()
		case <-ticker.C:
			s.handleTick()
		}
	}
}

func (s *Session) drain() {
	for {
		select {
		case cmd := <-s.inbox:
			cmd.reply <- result{err: ErrClosed}
		default:
			return
		}
	}
}

// submit queues a command with a bounded wait so a stalled session (slow
// persistence) yields ErrBusy instead of blocking callers indefinitely.
func (s *Session) submit(ctx context.Context, name string, exec func() result) result {
	cmd := command{name: name, exec: exec, reply: make(chan result, 1)}

	wait := time.NewTimer(s.cfg.SubmitTimeout)
	defer wait.Stop()

	select {
	case s.inbox <- cmd:
	case <-s.done:
		return result{err: ErrClosed}
	case <-wait.C:
		return result{err: fmt.Errorf("%w: command %s timed out", ErrBusy, name)}
	case <-ctx.Done():
		return result{err: ctx.Err()}
	}

	select {
	case res := <-cmd.reply:
		return res
	case <-ctx.Done():
		return result{err: ctx.Err()}
	}
}

// Start begins the auction: sorts the pool per the configured strategy,
// opens the first round and arms the timer.
func (s *Session) Start(ctx context.Context, actor string) (Snapshot, error) {
	res := s.submit(ctx, "start", func() result {
		work := s.state.Clone()

		players, err := s.stores.Players.GetByIDs(ctx, work.TournamentID, work.Pool)
		if err != nil {
			return result{err: fmt.Errorf("%w: load player pool: %v", ErrDependencyFailure, err)}
		}
		order := auction.SortPool(players, work.Settings, s.cfg.Rand)

		now := s.now().UTC()
		if err := work.Start(order, now, actor); err != nil {
			return result{err: err}
		}
		if err := s.persistAuction(ctx, &work); err != nil {
			return result{err: err}
		}

		s.adopt(&work)
		s.publish(realtime.EventAuctionStarted, startedPayload{
			AuctionID:   work.ID,
			PlayerCount: len(order),
			Timer:       work.Timer.RemainingSeconds,
		})
		s.publishCurrentPlayer(ctx, &work)

		return result{snap: Snapshot{Auction: work.Clone()}}
	})

	return res.snap, res.err
}

// Pause halts the countdown, keeping round state intact.
func (s *Session) Pause(ctx context.Context, actor string) (Snapshot, error) {
	return s.control(ctx, "pause", func(work *auction.Auction, now time.Time) error {
		return work.Pause(now, actor)
	}, realtime.EventAuctionPaused)
}

// Resume continues with the remaining seconds the pause preserved.
func (s *Session) Resume(ctx context.Context, actor string) (Snapshot, error) {
	return s.control(ctx, "resume", func(work *auction.Auction, now time.Time) error {
		return work.Resume(now, actor)
	}, realtime.EventAuctionResumed)
}

// Cancel terminates a non-completed auction.
func (s *Session) Cancel(ctx context.Context, actor string) (Snapshot, error) {
	return s.control(ctx, "cancel", func(work *auction.Auction, now time.Time) error {
		return work.Cancel(now, actor)
	}, realtime.EventAuctionCancelled)
}

func (s *Session) control(ctx context.Context, name string, apply func(*auction.Auction, time.Time) error, event string) (Snapshot, error) {
	res := s.submit(ctx, name, func() result {
		work := s.state.Clone()
		now := s.now().UTC()

		if err := apply(&work, now); err != nil {
			return result{err: err}
		}
		if err := s.persistAuction(ctx, &work); err != nil {
			return result{err: err}
		}

		s.adopt(&work)
		s.publish(event, statusPayload{
			AuctionID: work.ID,
			Status:    string(work.Status),
			Remaining: work.Timer.RemainingSeconds,
		})
		if work.Status.Terminal() {
			s.finishRoom()
		}

		return result{snap: Snapshot{Auction: work.Clone()}}
	})

	return res.snap, res.err
}

// Advance skips the current player if the round is unresolved and opens
// the next round (or completes the auction).
func (s *Session) Advance(ctx context.Context, actor string) (Snapshot, error) {
	res := s.submit(ctx, "advance", func() result {
		work := s.state.Clone()
		now := s.now().UTC()

		skippedPlayer := work.CurrentPlayerID
		hadBid := work.CurrentBid != nil
		if work.HasOpenRound() {
			if err := work.Skip(now, actor); err != nil {
				return result{err: err}
			}
		}
		opened, err := work.OpenNextRound(now)
		if err != nil {
			return result{err: err}
		}

		if err := s.persistAuction(ctx, &work); err != nil {
			return result{err: err}
		}
		if hadBid {
			// Skipping discards the round's bids in the ledger too.
			if err := s.stores.Bids.ClearWinning(ctx, work.ID, skippedPlayer); err != nil {
				s.logger.WarnContext(ctx, "clear winning after skip failed", "error", err)
			}
		}

		s.adopt(&work)
		s.afterRoundChange(ctx, &work, opened)

		return result{snap: Snapshot{Auction: work.Clone()}}
	})

	return res.snap, res.err
}

// Resolve closes the current round as sold or unsold by auctioneer
// decision, then advances (or pauses, per AutoPauseOnSold).
func (s *Session) Resolve(ctx context.Context, actor string, input ResolveInput) (Snapshot, error) {
	res := s.submit(ctx, "resolve", func() result {
		switch input.Decision {
		case DecisionSell:
			teamID, amount := input.TeamID, input.Amount
			if teamID == "" && s.state.CurrentBid != nil {
				teamID, amount = s.state.CurrentBid.TeamID, s.state.CurrentBid.Amount
			}
			return s.resolveSale(ctx, actor, teamID, amount)
		case DecisionUnsold:
			return s.resolveUnsold(ctx, actor)
		default:
			return result{err: fmt.Errorf("unknown resolution decision %q", input.Decision)}
		}
	})

	return res.snap, res.err
}

// RequeueUnsold puts an unsold player at the back of the queue when the
// session allows re-auction.
func (s *Session) RequeueUnsold(ctx context.Context, actor, playerID string) (Snapshot, error) {
	res := s.submit(ctx, "requeue_unsold", func() result {
		work := s.state.Clone()
		now := s.now().UTC()

		if err := work.RequeueUnsold(playerID, now, actor); err != nil {
			return result{err: err}
		}
		if err := s.persistAuction(ctx, &work); err != nil {
			return result{err: err}
		}

		s.adopt(&work)
		return result{snap: Snapshot{Auction: work.Clone()}}
	})

	return res.snap, res.err
}

// PlaceBid runs the acceptance protocol: round match, amount ladder,
// budget, then leader flip and ledger append, serialized with every other
// mutation of this auction.
func (s *Session) PlaceBid(ctx context.Context, input PlaceBidInput) (bid.Bid, Snapshot, error) {
	res := s.submit(ctx, "place_bid", func() result {
		work := s.state.Clone()
		now := s.now().UTC()

		if err := work.CheckBid(input.PlayerID, input.Amount); err != nil {
			return result{err: err}
		}

		bidder, ok, err := s.stores.Teams.GetByID(ctx, input.TeamID)
		if err != nil {
			return result{err: fmt.Errorf("%w: load team: %v", ErrDependencyFailure, err)}
		}
		if !ok {
			return result{err: fmt.Errorf("team %s not found", input.TeamID)}
		}
		if !bidder.CanAfford(input.Amount) {
			return result{err: fmt.Errorf("%w: amount=%d available=%d",
				team.ErrInsufficientBudget, input.Amount, bidder.AvailableBudget())}
		}

		bidID, err := s.idGen.NewID()
		if err != nil {
			return result{err: fmt.Errorf("%w: generate bid id: %v", ErrDependencyFailure, err)}
		}
		accepted := bid.Bid{
			ID:        bidID,
			AuctionID: work.ID,
			PlayerID:  input.PlayerID,
			TeamID:    input.TeamID,
			BidderID:  input.BidderID,
			Amount:    input.Amount,
			PlacedAt:  now,
			IsWinning: true,
		}

		work.AcceptBid(bidID, input.TeamID, input.Amount, now)
		if err := s.persistAuction(ctx, &work); err != nil {
			return result{err: err}
		}

		s.adopt(&work)
		// Ledger writes trail the committed auction state. A failed write
		// leaves an audit gap, never a winning flag on a bid the auction
		// did not accept.
		if err := s.stores.Bids.ClearWinning(ctx, work.ID, input.PlayerID); err != nil {
			s.logger.WarnContext(ctx, "demote leading bid failed", "error", err)
		}
		if err := s.stores.Bids.Append(ctx, accepted); err != nil {
			s.logger.WarnContext(ctx, "append bid failed", "error", err)
		}
		s.publish(realtime.EventBidUpdate, bidPayload{
			BidID:     accepted.ID,
			PlayerID:  accepted.PlayerID,
			TeamID:    accepted.TeamID,
			BidderID:  accepted.BidderID,
			Amount:    accepted.Amount,
			Required:  work.RequiredAmount(),
			Remaining: work.Timer.RemainingSeconds,
		})

		return result{snap: Snapshot{Auction: work.Clone()}, bid: accepted}
	})

	return res.bid, res.snap, res.err
}

// ExpireRound delivers a timer-expiry notification for a specific round.
// Late or duplicate deliveries are no-ops: the sequence must match the
// open round.
func (s *Session) ExpireRound(ctx context.Context, roundSeq int64) (Snapshot, error) {
	res := s.submit(ctx, "expire_round", func() result {
		if !s.roundExpirable(roundSeq) {
			return result{snap: Snapshot{Auction: s.state.Clone()}}
		}
		return s.resolveExpiredRound(ctx)
	})

	return res.snap, res.err
}

// Snapshot returns the current state without mutating anything.
func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	res := s.submit(ctx, "snapshot", func() result {
		return result{snap: Snapshot{Auction: s.state.Clone()}}
	})

	return res.snap, res.err
}

func (s *Session) roundExpirable(roundSeq int64) bool {
	return s.state.Status == auction.StatusActive &&
		s.state.HasOpenRound() &&
		s.state.RoundSeq == roundSeq &&
		s.state.Timer.RemainingSeconds == 0
}

func (s *Session) handleTick() {
	if s.state.Status != auction.StatusActive || !s.state.Timer.Active {
		return
	}

	remaining, running := s.state.Tick()
	if !running {
		return
	}

	s.publish(realtime.EventTimerTick, timerPayload{
		PlayerID:  s.state.CurrentPlayerID,
		Remaining: remaining,
	})

	if remaining == 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.SubmitTimeout)
		defer cancel()
		if res := s.resolveExpiredRound(ctx); res.err != nil {
			s.logger.ErrorContext(ctx, "timer expiry resolution failed", "error", res.err)
		}
	}
}

// resolveExpiredRound deterministically closes a timed-out round: confirm
// the leading bid when one exists, otherwise mark the player unsold.
func (s *Session) resolveExpiredRound(ctx context.Context) result {
	if s.state.CurrentBid != nil {
		return s.resolveSale(ctx, "timer", s.state.CurrentBid.TeamID, s.state.CurrentBid.Amount)
	}
	return s.resolveUnsold(ctx, "timer")
}

func (s *Session) resolveSale(ctx context.Context, actor, teamID string, amount int64) result {
	work := s.state.Clone()
	now := s.now().UTC()

	var soldBidID string
	if work.CurrentBid != nil {
		soldBidID = work.CurrentBid.BidID
	}
	lot, err := work.Sell(teamID, amount, now, actor)
	if err != nil {
		return result{err: err}
	}

	buyer, ok, err := s.stores.Teams.GetByID(ctx, teamID)
	if err != nil {
		return result{err: fmt.Errorf("%w: load buying team: %v", ErrDependencyFailure, err)}
	}
	if !ok {
		return result{err: fmt.Errorf("team %s not found", teamID)}
	}
	// Commit-time re-validation. Serialization makes this unreachable in
	// practice; the ledger still refuses to go negative.
	if err := buyer.CommitPurchase(lot.PlayerID, lot.Amount, now); err != nil {
		return result{err: err}
	}

	buyer.Version++
	if err := s.stores.Teams.Save(ctx, buyer); err != nil {
		return result{err: fmt.Errorf("%w: save team: %v", ErrDependencyFailure, err)}
	}
	if soldBidID != "" {
		if err := s.stores.Bids.MarkSold(ctx, soldBidID); err != nil {
			s.logger.WarnContext(ctx, "mark bid sold failed", "error", err)
		}
	}

	var opened bool
	if work.Settings.AutoPauseOnSold {
		if err := work.Pause(now, actor); err != nil {
			return result{err: err}
		}
	} else {
		var err error
		opened, err = work.OpenNextRound(now)
		if err != nil {
			return result{err: err}
		}
	}

	if err := s.persistAuction(ctx, &work); err != nil {
		return result{err: err}
	}

	s.adopt(&work)
	s.publish(realtime.EventPlayerSold, soldPayload{
		Player: s.playerPayload(ctx, lot.PlayerID),
		TeamID: lot.TeamID,
		Amount: lot.Amount,
	})
	if work.Settings.AutoPauseOnSold {
		s.publish(realtime.EventAuctionPaused, statusPayload{
			AuctionID: work.ID,
			Status:    string(work.Status),
			Remaining: work.Timer.RemainingSeconds,
		})
	} else {
		s.afterRoundChange(ctx, &work, opened)
	}

	return result{snap: Snapshot{Auction: work.Clone()}}
}

func (s *Session) resolveUnsold(ctx context.Context, actor string) result {
	work := s.state.Clone()
	now := s.now().UTC()

	unsoldPlayer := work.CurrentPlayerID
	if err := work.MarkUnsold(now, actor); err != nil {
		return result{err: err}
	}
	opened, err := work.OpenNextRound(now)
	if err != nil {
		return result{err: err}
	}

	if err := s.persistAuction(ctx, &work); err != nil {
		return result{err: err}
	}

	s.adopt(&work)
	s.publish(realtime.EventPlayerUnsold, unsoldPayload{
		Player: s.playerPayload(ctx, unsoldPlayer),
	})
	s.afterRoundChange(ctx, &work, opened)

	return result{snap: Snapshot{Auction: work.Clone()}}
}

func (s *Session) afterRoundChange(ctx context.Context, work *auction.Auction, opened bool) {
	if opened {
		s.publishCurrentPlayer(ctx, work)
		return
	}
	if work.Status == auction.StatusCompleted {
		s.publish(realtime.EventAuctionCompleted, completedPayload{
			AuctionID:  work.ID,
			Statistics: work.Stats,
		})
		s.finishRoom()
	}
}

func (s *Session) publishCurrentPlayer(ctx context.Context, work *auction.Auction) {
	s.publish(realtime.EventCurrentPlayer, currentPlayerPayload{
		Player:    s.playerPayload(ctx, work.CurrentPlayerID),
		RoundSeq:  work.RoundSeq,
		Remaining: work.Timer.RemainingSeconds,
	})
}

func (s *Session) playerPayload(ctx context.Context, playerID string) playerPayload {
	payload := playerPayload{ID: playerID}
	if playerID == "" {
		return payload
	}
	p, ok, err := s.stores.Players.GetByID(ctx, playerID)
	if err != nil || !ok {
		return payload
	}
	payload.Name = p.Name
	payload.Country = p.Country
	payload.Position = string(p.Position)
	payload.BasePrice = p.BasePrice
	return payload
}

func (s *Session) persistAuction(ctx context.Context, work *auction.Auction) error {
	work.Version++
	if err := s.stores.Auctions.Save(ctx, *work); err != nil {
		return fmt.Errorf("%w: save auction: %v", ErrDependencyFailure, err)
	}
	return nil
}

func (s *Session) adopt(work *auction.Auction) {
	s.state = work
}

func (s *Session) publish(name string, payload any) {
	if s.broadcast == nil {
		return
	}
	s.broadcast.Publish(Room(s.auctionID), realtime.Event{
		Name:    name,
		At:      s.now().UTC(),
		Payload: payload,
	})
}

func (s *Session) finishRoom() {
	if s.broadcast != nil {
		s.broadcast.CloseRoom(Room(s.auctionID))
	}
	s.Stop()
}
