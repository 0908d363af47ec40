package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cricbid/auction-platform/internal/domain/auction"
	"github.com/cricbid/auction-platform/internal/domain/user"
	"github.com/cricbid/auction-platform/internal/infrastructure/repository/memory"
	"github.com/cricbid/auction-platform/internal/platform/cache"
	idgen "github.com/cricbid/auction-platform/internal/platform/id"
	"github.com/cricbid/auction-platform/internal/realtime"
	"github.com/cricbid/auction-platform/internal/session"
)

type serviceFixture struct {
	auctions *AuctionService
	bids     *BidService
	hub      *realtime.Hub
}

func newServiceFixture(t *testing.T) serviceFixture {
	t.Helper()

	auctionRepo := memory.NewAuctionRepository(memory.SeedAuctions())
	bidRepo := memory.NewBidRepository()
	teamRepo := memory.NewTeamRepository(memory.SeedTeams())
	playerRepo := memory.NewPlayerRepository(memory.SeedPlayers())

	hub := realtime.NewHub(16)
	registry := session.NewRegistry(session.Stores{
		Auctions: auctionRepo,
		Bids:     bidRepo,
		Teams:    teamRepo,
		Players:  playerRepo,
	}, hub, idgen.NewRandomGenerator(), nil, session.Config{
		TickInterval: time.Hour,
	})
	t.Cleanup(registry.Shutdown)

	snapshots := cache.NewStore(10 * time.Millisecond)

	return serviceFixture{
		auctions: NewAuctionService(auctionRepo, bidRepo, registry, hub, snapshots, nil),
		bids:     NewBidService(auctionRepo, teamRepo, registry, snapshots, nil),
		hub:      hub,
	}
}

func TestAuctionServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	fx := newServiceFixture(t)

	auctioneer := user.Principal{UserID: "user-auctioneer", Role: user.RoleAuctioneer}
	captain := user.Principal{UserID: "user-cap-mum", Role: user.RoleCaptain, TeamIDs: []string{"t20-mum"}}
	viewer := user.Principal{UserID: "user-fan", Role: user.RoleViewer}

	t.Run("viewer cannot start", func(t *testing.T) {
		if _, err := fx.auctions.Start(ctx, viewer, memory.AuctionIDPremierT20); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	var currentPlayerID string

	t.Run("auctioneer starts", func(t *testing.T) {
		snap, err := fx.auctions.Start(ctx, auctioneer, memory.AuctionIDPremierT20)
		if err != nil {
			t.Fatalf("start auction: %v", err)
		}
		if snap.Auction.Status != auction.StatusActive {
			t.Fatalf("unexpected status: %s", snap.Auction.Status)
		}
		if snap.Auction.CurrentPlayerID == "" {
			t.Fatalf("expected a player on the block")
		}
		currentPlayerID = snap.Auction.CurrentPlayerID
	})

	t.Run("captain bids for own team", func(t *testing.T) {
		placed, snap, err := fx.bids.PlaceBid(ctx, captain, PlaceBidInput{
			AuctionID: memory.AuctionIDPremierT20,
			PlayerID:  currentPlayerID,
			TeamID:    "t20-mum",
			Amount:    20,
		})
		if err != nil {
			t.Fatalf("place bid: %v", err)
		}
		if !placed.IsWinning {
			t.Fatalf("expected opening bid to lead")
		}
		if snap.Auction.CurrentBid == nil || snap.Auction.CurrentBid.TeamID != "t20-mum" {
			t.Fatalf("unexpected leading bid: %+v", snap.Auction.CurrentBid)
		}
	})

	t.Run("captain cannot bid for rival team", func(t *testing.T) {
		_, _, err := fx.bids.PlaceBid(ctx, captain, PlaceBidInput{
			AuctionID: memory.AuctionIDPremierT20,
			PlayerID:  currentPlayerID,
			TeamID:    "t20-che",
			Amount:    30,
		})
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("low raise is rejected", func(t *testing.T) {
		_, _, err := fx.bids.PlaceBid(ctx, captain, PlaceBidInput{
			AuctionID: memory.AuctionIDPremierT20,
			PlayerID:  currentPlayerID,
			TeamID:    "t20-mum",
			Amount:    21,
		})
		var tooLow *auction.BidTooLowError
		if !errors.As(err, &tooLow) {
			t.Fatalf("expected BidTooLowError, got %v", err)
		}
		if tooLow.Required != 25 {
			t.Fatalf("unexpected required amount: %d", tooLow.Required)
		}
	})

	t.Run("cancel closes the auction", func(t *testing.T) {
		snap, err := fx.auctions.Cancel(ctx, auctioneer, memory.AuctionIDPremierT20)
		if err != nil {
			t.Fatalf("cancel auction: %v", err)
		}
		if snap.Auction.Status != auction.StatusCancelled {
			t.Fatalf("unexpected status: %s", snap.Auction.Status)
		}
	})

	t.Run("persisted state is visible after cache expiry", func(t *testing.T) {
		time.Sleep(20 * time.Millisecond)
		got, err := fx.auctions.GetAuction(ctx, memory.AuctionIDPremierT20)
		if err != nil {
			t.Fatalf("get auction: %v", err)
		}
		if got.Status != auction.StatusCancelled {
			t.Fatalf("unexpected status after reload: %s", got.Status)
		}
	})
}

func TestAuctionServiceSubscribeDeliversEvents(t *testing.T) {
	ctx := context.Background()
	fx := newServiceFixture(t)

	viewer := user.Principal{UserID: "viewer-abc", Role: user.RoleViewer}
	sub, leave, err := fx.auctions.Subscribe(ctx, viewer, memory.AuctionIDPremierT20, "client-1")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer leave()

	auctioneer := user.Principal{UserID: "user-auctioneer", Role: user.RoleAuctioneer}
	if _, err := fx.auctions.Start(ctx, auctioneer, memory.AuctionIDPremierT20); err != nil {
		t.Fatalf("start auction: %v", err)
	}

	select {
	case event := <-sub.C:
		if event.Name != realtime.EventAuctionStarted {
			t.Fatalf("unexpected first event: %s", event.Name)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for start event")
	}
}

func TestAuctionServiceUnknownAuction(t *testing.T) {
	ctx := context.Background()
	fx := newServiceFixture(t)

	if _, err := fx.auctions.GetAuction(ctx, "auc-missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	auctioneer := user.Principal{UserID: "user-auctioneer", Role: user.RoleAuctioneer}
	if _, err := fx.auctions.Start(ctx, auctioneer, "auc-missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
