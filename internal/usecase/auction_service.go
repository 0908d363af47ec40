package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cricbid/auction-platform/internal/domain/access"
	"github.com/cricbid/auction-platform/internal/domain/auction"
	"github.com/cricbid/auction-platform/internal/domain/bid"
	"github.com/cricbid/auction-platform/internal/domain/user"
	"github.com/cricbid/auction-platform/internal/platform/cache"
	"github.com/cricbid/auction-platform/internal/realtime"
	"github.com/cricbid/auction-platform/internal/session"
)

// AuctionService exposes auction lifecycle control and public reads. All
// mutations go through the per-auction session runtime; reads of live
// state are served from a short-TTL cache so spectator traffic stays off
// the session loop.
type AuctionService struct {
	auctionRepo auction.Repository
	bidRepo     bid.Repository
	sessions    *session.Registry
	hub         *realtime.Hub
	snapshots   *cache.Store
	logger      *slog.Logger
}

func NewAuctionService(
	auctionRepo auction.Repository,
	bidRepo bid.Repository,
	sessions *session.Registry,
	hub *realtime.Hub,
	snapshots *cache.Store,
	logger *slog.Logger,
) *AuctionService {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuctionService{
		auctionRepo: auctionRepo,
		bidRepo:     bidRepo,
		sessions:    sessions,
		hub:         hub,
		snapshots:   snapshots,
		logger:      logger,
	}
}

func auctionCacheKey(auctionID string) string {
	return "auction:" + auctionID
}

// GetAuction returns the auction view for spectators and bidders alike.
func (s *AuctionService) GetAuction(ctx context.Context, auctionID string) (auction.Auction, error) {
	ctx, span := startUsecaseSpan(ctx, "AuctionService.GetAuction")
	defer span.End()

	auctionID = strings.TrimSpace(auctionID)
	if auctionID == "" {
		return auction.Auction{}, fmt.Errorf("%w: auction id is required", ErrInvalidInput)
	}

	value, err := s.snapshots.GetOrLoad(ctx, auctionCacheKey(auctionID), func(ctx context.Context) (any, error) {
		return s.loadAuction(ctx, auctionID)
	})
	if err != nil {
		return auction.Auction{}, err
	}

	a, ok := value.(auction.Auction)
	if !ok {
		return auction.Auction{}, fmt.Errorf("unexpected cache entry for auction=%s", auctionID)
	}

	return a, nil
}

func (s *AuctionService) loadAuction(ctx context.Context, auctionID string) (auction.Auction, error) {
	if live, ok := s.sessions.Peek(auctionID); ok {
		snap, err := live.Snapshot(ctx)
		if err == nil {
			return snap.Auction, nil
		}
		s.logger.WarnContext(ctx, "live snapshot failed, falling back to store", "auction_id", auctionID, "error", err)
	}

	a, ok, err := s.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		return auction.Auction{}, fmt.Errorf("get auction: %w", err)
	}
	if !ok {
		return auction.Auction{}, fmt.Errorf("%w: auction=%s", ErrNotFound, auctionID)
	}

	return a, nil
}

// ListAuctionsByTournament lists the sessions configured for a tournament.
func (s *AuctionService) ListAuctionsByTournament(ctx context.Context, tournamentID string) ([]auction.Auction, error) {
	ctx, span := startUsecaseSpan(ctx, "AuctionService.ListAuctionsByTournament")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return nil, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	auctions, err := s.auctionRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list auctions: %w", err)
	}

	return auctions, nil
}

// ListBids returns the full append-only ledger for an auction.
func (s *AuctionService) ListBids(ctx context.Context, auctionID string) ([]bid.Bid, error) {
	ctx, span := startUsecaseSpan(ctx, "AuctionService.ListBids")
	defer span.End()

	auctionID = strings.TrimSpace(auctionID)
	if auctionID == "" {
		return nil, fmt.Errorf("%w: auction id is required", ErrInvalidInput)
	}
	if _, err := s.GetAuction(ctx, auctionID); err != nil {
		return nil, err
	}

	bids, err := s.bidRepo.ListByAuction(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}

	return bids, nil
}

// ListPlayerBids returns the ledger slice for one player's rounds.
func (s *AuctionService) ListPlayerBids(ctx context.Context, auctionID, playerID string) ([]bid.Bid, error) {
	ctx, span := startUsecaseSpan(ctx, "AuctionService.ListPlayerBids")
	defer span.End()

	auctionID = strings.TrimSpace(auctionID)
	playerID = strings.TrimSpace(playerID)
	if auctionID == "" || playerID == "" {
		return nil, fmt.Errorf("%w: auction id and player id are required", ErrInvalidInput)
	}

	bids, err := s.bidRepo.ListByAuctionPlayer(ctx, auctionID, playerID)
	if err != nil {
		return nil, fmt.Errorf("list player bids: %w", err)
	}

	return bids, nil
}

// Start begins the auction. Auctioneer or admin only.
func (s *AuctionService) Start(ctx context.Context, p user.Principal, auctionID string) (session.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "AuctionService.Start")
	defer span.End()

	return s.control(ctx, p, auctionID, func(live *session.Session) (session.Snapshot, error) {
		return live.Start(ctx, p.UserID)
	})
}

// Pause halts the countdown. Auctioneer or admin only.
func (s *AuctionService) Pause(ctx context.Context, p user.Principal, auctionID string) (session.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "AuctionService.Pause")
	defer span.End()

	return s.control(ctx, p, auctionID, func(live *session.Session) (session.Snapshot, error) {
		return live.Pause(ctx, p.UserID)
	})
}

// Resume continues a paused auction. Auctioneer or admin only.
func (s *AuctionService) Resume(ctx context.Context, p user.Principal, auctionID string) (session.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "AuctionService.Resume")
	defer span.End()

	return s.control(ctx, p, auctionID, func(live *session.Session) (session.Snapshot, error) {
		return live.Resume(ctx, p.UserID)
	})
}

// Cancel terminates the auction. Auctioneer or admin only.
func (s *AuctionService) Cancel(ctx context.Context, p user.Principal, auctionID string) (session.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "AuctionService.Cancel")
	defer span.End()

	return s.control(ctx, p, auctionID, func(live *session.Session) (session.Snapshot, error) {
		return live.Cancel(ctx, p.UserID)
	})
}

// Advance skips the current player and opens the next round.
func (s *AuctionService) Advance(ctx context.Context, p user.Principal, auctionID string) (session.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "AuctionService.Advance")
	defer span.End()

	return s.control(ctx, p, auctionID, func(live *session.Session) (session.Snapshot, error) {
		return live.Advance(ctx, p.UserID)
	})
}

// Resolve closes the current round as sold or unsold.
func (s *AuctionService) Resolve(ctx context.Context, p user.Principal, auctionID string, input session.ResolveInput) (session.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "AuctionService.Resolve")
	defer span.End()

	if input.Decision != session.DecisionSell && input.Decision != session.DecisionUnsold {
		return session.Snapshot{}, fmt.Errorf("%w: decision must be %q or %q", ErrInvalidInput, session.DecisionSell, session.DecisionUnsold)
	}

	return s.control(ctx, p, auctionID, func(live *session.Session) (session.Snapshot, error) {
		return live.Resolve(ctx, p.UserID, input)
	})
}

// RequeueUnsold puts an unsold player back at the end of the queue.
func (s *AuctionService) RequeueUnsold(ctx context.Context, p user.Principal, auctionID, playerID string) (session.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "AuctionService.RequeueUnsold")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return session.Snapshot{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	return s.control(ctx, p, auctionID, func(live *session.Session) (session.Snapshot, error) {
		return live.RequeueUnsold(ctx, p.UserID, playerID)
	})
}

// Subscribe attaches a client to the auction's event stream. It also
// revives the session so the countdown keeps running while anyone watches.
func (s *AuctionService) Subscribe(ctx context.Context, p user.Principal, auctionID, clientID string) (*realtime.Subscription, func(), error) {
	ctx, span := startUsecaseSpan(ctx, "AuctionService.Subscribe")
	defer span.End()

	auctionID = strings.TrimSpace(auctionID)
	clientID = strings.TrimSpace(clientID)
	if auctionID == "" || clientID == "" {
		return nil, nil, fmt.Errorf("%w: auction id and client id are required", ErrInvalidInput)
	}
	if !access.Allowed(p, access.ActionView, access.Target{AuctionID: auctionID}) {
		return nil, nil, fmt.Errorf("%w: view auction=%s", ErrForbidden, auctionID)
	}

	a, err := s.GetAuction(ctx, auctionID)
	if err != nil {
		return nil, nil, err
	}
	if !a.Status.Terminal() {
		// Terminal auctions stream nothing new; skip reviving a session.
		if _, _, err := s.sessions.Get(ctx, auctionID); err != nil {
			s.logger.WarnContext(ctx, "session revive failed for subscriber", "auction_id", auctionID, "error", err)
		}
	}

	room := session.Room(auctionID)
	sub := s.hub.Join(room, clientID)
	leave := func() { s.hub.Leave(room, clientID) }

	return sub, leave, nil
}

func (s *AuctionService) control(ctx context.Context, p user.Principal, auctionID string, op func(*session.Session) (session.Snapshot, error)) (session.Snapshot, error) {
	auctionID = strings.TrimSpace(auctionID)
	if auctionID == "" {
		return session.Snapshot{}, fmt.Errorf("%w: auction id is required", ErrInvalidInput)
	}
	if !access.Allowed(p, access.ActionControl, access.Target{AuctionID: auctionID}) {
		return session.Snapshot{}, fmt.Errorf("%w: control auction=%s", ErrForbidden, auctionID)
	}

	live, ok, err := s.sessions.Get(ctx, auctionID)
	if err != nil {
		return session.Snapshot{}, fmt.Errorf("%w: auction session: %v", ErrDependencyUnavailable, err)
	}
	if !ok {
		return session.Snapshot{}, fmt.Errorf("%w: auction=%s", ErrNotFound, auctionID)
	}

	snap, err := op(live)
	if err != nil {
		return session.Snapshot{}, err
	}

	s.snapshots.Delete(ctx, auctionCacheKey(auctionID))

	return snap, nil
}
