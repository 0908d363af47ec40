package auction

import "context"

// Repository persists auction aggregates. Save must enforce the version
// stamp (compare-and-swap on Version) so a stale writer fails rather than
// clobbering a newer record; the session runtime is the only writer in
// normal operation, the check protects against split ownership.
type Repository interface {
	ListByTournament(ctx context.Context, tournamentID string) ([]Auction, error)
	GetByID(ctx context.Context, auctionID string) (Auction, bool, error)
	Create(ctx context.Context, a Auction) error
	Save(ctx context.Context, a Auction) error
}
