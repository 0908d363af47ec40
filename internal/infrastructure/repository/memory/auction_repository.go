package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/cricbid/auction-platform/internal/domain/auction"
)

type AuctionRepository struct {
	mu     sync.RWMutex
	items  map[string]auction.Auction
	orders []string
}

func NewAuctionRepository(auctions []auction.Auction) *AuctionRepository {
	items := make(map[string]auction.Auction, len(auctions))
	orders := make([]string, 0, len(auctions))

	for _, a := range auctions {
		items[a.ID] = a.Clone()
		orders = append(orders, a.ID)
	}

	return &AuctionRepository{
		items:  items,
		orders: orders,
	}
}

func (r *AuctionRepository) ListByTournament(_ context.Context, tournamentID string) ([]auction.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]auction.Auction, 0, len(r.orders))
	for _, id := range r.orders {
		if a := r.items[id]; a.TournamentID == tournamentID {
			out = append(out, a.Clone())
		}
	}

	return out, nil
}

func (r *AuctionRepository) GetByID(_ context.Context, auctionID string) (auction.Auction, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.items[auctionID]
	if !ok {
		return auction.Auction{}, false, nil
	}

	return a.Clone(), true, nil
}

func (r *AuctionRepository) Create(_ context.Context, a auction.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[a.ID]; ok {
		return fmt.Errorf("auction %s already exists", a.ID)
	}

	r.items[a.ID] = a.Clone()
	r.orders = append(r.orders, a.ID)

	return nil
}

func (r *AuctionRepository) Save(_ context.Context, a auction.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[a.ID]
	if !ok {
		return fmt.Errorf("auction %s does not exist", a.ID)
	}
	if a.Version != stored.Version+1 {
		return fmt.Errorf("%w: stored=%d incoming=%d", auction.ErrStaleWrite, stored.Version, a.Version)
	}

	r.items[a.ID] = a.Clone()

	return nil
}
