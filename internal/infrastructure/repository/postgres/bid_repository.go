package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cricbid/auction-platform/internal/domain/bid"
	qb "github.com/cricbid/auction-platform/internal/platform/querybuilder"
)

type BidRepository struct {
	db *sqlx.DB
}

func NewBidRepository(db *sqlx.DB) *BidRepository {
	return &BidRepository{db: db}
}

func (r *BidRepository) Append(ctx context.Context, b bid.Bid) error {
	row := toBidTableModel(b)

	query, args, err := qb.InsertInto("bids").
		Columns("id", "auction_id", "player_id", "team_id", "bidder_id", "amount", "placed_at", "is_winning", "is_sold").
		Values(row.ID, row.AuctionID, row.PlayerID, row.TeamID, row.BidderID, row.Amount, row.PlacedAt, row.IsWinning, row.IsSold).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert bid query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert bid: %w", err)
	}

	return nil
}

func (r *BidRepository) ClearWinning(ctx context.Context, auctionID, playerID string) error {
	query, args, err := qb.Update("bids").
		Set("is_winning", false).
		Where(
			qb.Eq("auction_id", auctionID),
			qb.Eq("player_id", playerID),
			qb.Eq("is_winning", true),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear winning bids query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear winning bids: %w", err)
	}

	return nil
}

func (r *BidRepository) MarkSold(ctx context.Context, bidID string) error {
	query, args, err := qb.Update("bids").
		Set("is_sold", true).
		Where(qb.Eq("id", bidID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark bid sold query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark bid sold: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark bid sold rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("bid %s does not exist", bidID)
	}

	return nil
}

func (r *BidRepository) GetByID(ctx context.Context, bidID string) (bid.Bid, bool, error) {
	query, args, err := qb.Select("*").From("bids").
		Where(qb.Eq("id", bidID)).
		ToSQL()
	if err != nil {
		return bid.Bid{}, false, fmt.Errorf("build get bid by id query: %w", err)
	}

	var row bidTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return bid.Bid{}, false, nil
		}
		return bid.Bid{}, false, fmt.Errorf("get bid by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *BidRepository) Winning(ctx context.Context, auctionID, playerID string) (bid.Bid, bool, error) {
	query, args, err := qb.Select("*").From("bids").
		Where(
			qb.Eq("auction_id", auctionID),
			qb.Eq("player_id", playerID),
			qb.Eq("is_winning", true),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return bid.Bid{}, false, fmt.Errorf("build get winning bid query: %w", err)
	}

	var row bidTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return bid.Bid{}, false, nil
		}
		return bid.Bid{}, false, fmt.Errorf("get winning bid: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *BidRepository) ListByAuction(ctx context.Context, auctionID string) ([]bid.Bid, error) {
	query, args, err := qb.Select("*").From("bids").
		Where(qb.Eq("auction_id", auctionID)).
		OrderBy("placed_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select auction bids query: %w", err)
	}

	return r.selectBids(ctx, query, args)
}

func (r *BidRepository) ListByAuctionPlayer(ctx context.Context, auctionID, playerID string) ([]bid.Bid, error) {
	query, args, err := qb.Select("*").From("bids").
		Where(qb.Eq("auction_id", auctionID), qb.Eq("player_id", playerID)).
		OrderBy("placed_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player bids query: %w", err)
	}

	return r.selectBids(ctx, query, args)
}

func (r *BidRepository) selectBids(ctx context.Context, query string, args []any) ([]bid.Bid, error) {
	var rows []bidTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select bids: %w", err)
	}

	out := make([]bid.Bid, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
