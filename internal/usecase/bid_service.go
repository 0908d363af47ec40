package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cricbid/auction-platform/internal/domain/access"
	"github.com/cricbid/auction-platform/internal/domain/auction"
	"github.com/cricbid/auction-platform/internal/domain/bid"
	"github.com/cricbid/auction-platform/internal/domain/team"
	"github.com/cricbid/auction-platform/internal/domain/user"
	"github.com/cricbid/auction-platform/internal/platform/cache"
	"github.com/cricbid/auction-platform/internal/session"
)

// PlaceBidInput is the incoming payload for a bid attempt.
type PlaceBidInput struct {
	AuctionID string
	PlayerID  string
	TeamID    string
	Amount    int64
}

// BidService runs the bid acceptance path: input and identity checks here,
// the serialized protocol inside the auction's session.
type BidService struct {
	auctionRepo auction.Repository
	teamRepo    team.Repository
	sessions    *session.Registry
	snapshots   *cache.Store
	logger      *slog.Logger
}

func NewBidService(
	auctionRepo auction.Repository,
	teamRepo team.Repository,
	sessions *session.Registry,
	snapshots *cache.Store,
	logger *slog.Logger,
) *BidService {
	if logger == nil {
		logger = slog.Default()
	}

	return &BidService{
		auctionRepo: auctionRepo,
		teamRepo:    teamRepo,
		sessions:    sessions,
		snapshots:   snapshots,
		logger:      logger,
	}
}

func (s *BidService) PlaceBid(ctx context.Context, p user.Principal, input PlaceBidInput) (bid.Bid, session.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "BidService.PlaceBid")
	defer span.End()

	input.AuctionID = strings.TrimSpace(input.AuctionID)
	input.PlayerID = strings.TrimSpace(input.PlayerID)
	input.TeamID = strings.TrimSpace(input.TeamID)

	if input.AuctionID == "" {
		return bid.Bid{}, session.Snapshot{}, fmt.Errorf("%w: auction id is required", ErrInvalidInput)
	}
	if input.PlayerID == "" {
		return bid.Bid{}, session.Snapshot{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if input.TeamID == "" {
		return bid.Bid{}, session.Snapshot{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if input.Amount <= 0 {
		return bid.Bid{}, session.Snapshot{}, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if p.UserID == "" || p.Anonymous() {
		return bid.Bid{}, session.Snapshot{}, fmt.Errorf("%w: bidding requires an authenticated identity", ErrUnauthorized)
	}

	bidTeam, ok, err := s.teamRepo.GetByID(ctx, input.TeamID)
	if err != nil {
		return bid.Bid{}, session.Snapshot{}, fmt.Errorf("get team: %w", err)
	}
	if !ok {
		return bid.Bid{}, session.Snapshot{}, fmt.Errorf("%w: team=%s", ErrNotFound, input.TeamID)
	}

	if !access.Allowed(p, access.ActionBid, access.Target{AuctionID: input.AuctionID, Team: &bidTeam}) {
		return bid.Bid{}, session.Snapshot{}, fmt.Errorf("%w: bid for team=%s", ErrForbidden, input.TeamID)
	}

	live, ok, err := s.sessions.Get(ctx, input.AuctionID)
	if err != nil {
		return bid.Bid{}, session.Snapshot{}, fmt.Errorf("%w: auction session: %v", ErrDependencyUnavailable, err)
	}
	if !ok {
		return bid.Bid{}, session.Snapshot{}, fmt.Errorf("%w: auction=%s", ErrNotFound, input.AuctionID)
	}
	if bidTeam.TournamentID != "" {
		if a, err := live.Snapshot(ctx); err == nil && a.Auction.TournamentID != bidTeam.TournamentID {
			return bid.Bid{}, session.Snapshot{}, fmt.Errorf("%w: team %s is not part of this tournament", ErrInvalidInput, input.TeamID)
		}
	}

	placed, snap, err := live.PlaceBid(ctx, session.PlaceBidInput{
		PlayerID: input.PlayerID,
		TeamID:   input.TeamID,
		BidderID: p.UserID,
		Amount:   input.Amount,
	})
	if err != nil {
		return bid.Bid{}, session.Snapshot{}, err
	}

	s.snapshots.Delete(ctx, auctionCacheKey(input.AuctionID))
	s.logger.InfoContext(ctx, "bid accepted",
		"auction_id", input.AuctionID,
		"player_id", input.PlayerID,
		"team_id", input.TeamID,
		"bidder_id", p.UserID,
		"amount", input.Amount,
	)

	return placed, snap, nil
}
