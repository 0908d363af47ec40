package postgres

import (
	"time"

	"github.com/cricbid/auction-platform/internal/domain/bid"
)

type bidTableModel struct {
	ID        string    `db:"id"`
	AuctionID string    `db:"auction_id"`
	PlayerID  string    `db:"player_id"`
	TeamID    string    `db:"team_id"`
	BidderID  string    `db:"bidder_id"`
	Amount    int64     `db:"amount"`
	PlacedAt  time.Time `db:"placed_at"`
	IsWinning bool      `db:"is_winning"`
	IsSold    bool      `db:"is_sold"`
}

func toBidTableModel(b bid.Bid) bidTableModel {
	return bidTableModel(b)
}

func (row bidTableModel) toDomain() bid.Bid {
	return bid.Bid(row)
}
