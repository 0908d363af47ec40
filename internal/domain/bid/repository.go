package bid

import "context"

// Repository is the append-only bid ledger. Append records a new bid;
// ClearWinning demotes the previous leader for the same (auction, player);
// the two are always called from the owning session loop, so per-round
// ordering is serialized above this interface.
type Repository interface {
	Append(ctx context.Context, b Bid) error
	ClearWinning(ctx context.Context, auctionID, playerID string) error
	MarkSold(ctx context.Context, bidID string) error
	GetByID(ctx context.Context, bidID string) (Bid, bool, error)
	Winning(ctx context.Context, auctionID, playerID string) (Bid, bool, error)
	ListByAuction(ctx context.Context, auctionID string) ([]Bid, error)
	ListByAuctionPlayer(ctx context.Context, auctionID, playerID string) ([]Bid, error)
}
