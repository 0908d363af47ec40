package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/cricbid/auction-platform/internal/domain/bid"
)

type BidRepository struct {
	mu     sync.RWMutex
	items  map[string]bid.Bid
	orders []string
}

func NewBidRepository() *BidRepository {
	return &BidRepository{
		items: make(map[string]bid.Bid),
	}
}

func (r *BidRepository) Append(_ context.Context, b bid.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[b.ID]; ok {
		return fmt.Errorf("bid %s already exists", b.ID)
	}

	r.items[b.ID] = b
	r.orders = append(r.orders, b.ID)

	return nil
}

func (r *BidRepository) ClearWinning(_ context.Context, auctionID, playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, b := range r.items {
		if b.AuctionID == auctionID && b.PlayerID == playerID && b.IsWinning {
			b.IsWinning = false
			r.items[id] = b
		}
	}

	return nil
}

func (r *BidRepository) MarkSold(_ context.Context, bidID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.items[bidID]
	if !ok {
		return fmt.Errorf("bid %s does not exist", bidID)
	}

	b.IsSold = true
	r.items[bidID] = b

	return nil
}

func (r *BidRepository) GetByID(_ context.Context, bidID string) (bid.Bid, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.items[bidID]
	if !ok {
		return bid.Bid{}, false, nil
	}

	return b, true, nil
}

func (r *BidRepository) Winning(_ context.Context, auctionID, playerID string) (bid.Bid, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.orders {
		b := r.items[id]
		if b.AuctionID == auctionID && b.PlayerID == playerID && b.IsWinning {
			return b, true, nil
		}
	}

	return bid.Bid{}, false, nil
}

func (r *BidRepository) ListByAuction(_ context.Context, auctionID string) ([]bid.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bid.Bid, 0)
	for _, id := range r.orders {
		if b := r.items[id]; b.AuctionID == auctionID {
			out = append(out, b)
		}
	}

	return out, nil
}

func (r *BidRepository) ListByAuctionPlayer(_ context.Context, auctionID, playerID string) ([]bid.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bid.Bid, 0)
	for _, id := range r.orders {
		if b := r.items[id]; b.AuctionID == auctionID && b.PlayerID == playerID {
			out = append(out, b)
		}
	}

	return out, nil
}
