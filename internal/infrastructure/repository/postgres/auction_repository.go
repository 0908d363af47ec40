package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cricbid/auction-platform/internal/domain/auction"
	qb "github.com/cricbid/auction-platform/internal/platform/querybuilder"
)

type AuctionRepository struct {
	db *sqlx.DB
}

func NewAuctionRepository(db *sqlx.DB) *AuctionRepository {
	return &AuctionRepository{db: db}
}

func (r *AuctionRepository) ListByTournament(ctx context.Context, tournamentID string) ([]auction.Auction, error) {
	query, args, err := qb.Select("*").From("auctions").
		Where(qb.Eq("tournament_id", tournamentID)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select auctions query: %w", err)
	}

	var rows []auctionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select auctions: %w", err)
	}

	out := make([]auction.Auction, 0, len(rows))
	for _, row := range rows {
		a, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("decode auction %s: %w", row.ID, err)
		}
		out = append(out, a)
	}

	return out, nil
}

func (r *AuctionRepository) GetByID(ctx context.Context, auctionID string) (auction.Auction, bool, error) {
	query, args, err := qb.Select("*").From("auctions").
		Where(qb.Eq("id", auctionID)).
		ToSQL()
	if err != nil {
		return auction.Auction{}, false, fmt.Errorf("build get auction by id query: %w", err)
	}

	var row auctionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return auction.Auction{}, false, nil
		}
		return auction.Auction{}, false, fmt.Errorf("get auction by id: %w", err)
	}

	a, err := row.toDomain()
	if err != nil {
		return auction.Auction{}, false, fmt.Errorf("decode auction %s: %w", row.ID, err)
	}

	return a, true, nil
}

func (r *AuctionRepository) Create(ctx context.Context, a auction.Auction) error {
	row, err := toAuctionTableModel(a)
	if err != nil {
		return fmt.Errorf("encode auction %s: %w", a.ID, err)
	}

	query, args, err := qb.InsertInto("auctions").
		Columns(
			"id", "tournament_id", "name", "status", "settings",
			"pool", "remaining", "current_player_id", "current_bid", "bid_history",
			"round_seq", "sold", "unsold", "skipped", "timer", "stats", "logs",
			"version", "created_at", "updated_at",
		).
		Values(
			row.ID, row.TournamentID, row.Name, row.Status, row.Settings,
			row.Pool, row.Remaining, row.CurrentPlayerID, row.CurrentBid, row.BidHistory,
			row.RoundSeq, row.Sold, row.Unsold, row.Skipped, row.Timer, row.Stats, row.Logs,
			row.Version, row.CreatedAt, row.UpdatedAt,
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert auction query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert auction: %w", err)
	}

	return nil
}

// Save writes the aggregate only when its version stamp is exactly one
// ahead of the stored row.
func (r *AuctionRepository) Save(ctx context.Context, a auction.Auction) error {
	row, err := toAuctionTableModel(a)
	if err != nil {
		return fmt.Errorf("encode auction %s: %w", a.ID, err)
	}

	query, args, err := qb.Update("auctions").
		Set("status", row.Status).
		Set("settings", row.Settings).
		Set("pool", row.Pool).
		Set("remaining", row.Remaining).
		Set("current_player_id", row.CurrentPlayerID).
		Set("current_bid", row.CurrentBid).
		Set("bid_history", row.BidHistory).
		Set("round_seq", row.RoundSeq).
		Set("sold", row.Sold).
		Set("unsold", row.Unsold).
		Set("skipped", row.Skipped).
		Set("timer", row.Timer).
		Set("stats", row.Stats).
		Set("logs", row.Logs).
		Set("version", row.Version).
		Set("updated_at", row.UpdatedAt).
		Where(qb.Eq("id", row.ID), qb.Eq("version", row.Version-1)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update auction query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update auction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update auction rows affected: %w", err)
	}
	if affected == 0 {
		return auction.ErrStaleWrite
	}

	return nil
}
