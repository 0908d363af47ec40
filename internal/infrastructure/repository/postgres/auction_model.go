package postgres

import (
	"time"

	"github.com/cricbid/auction-platform/internal/domain/auction"
)

type auctionTableModel struct {
	ID              string    `db:"id"`
	TournamentID    string    `db:"tournament_id"`
	Name            string    `db:"name"`
	Status          string    `db:"status"`
	Settings        []byte    `db:"settings"`
	Pool            []byte    `db:"pool"`
	Remaining       []byte    `db:"remaining"`
	CurrentPlayerID string    `db:"current_player_id"`
	CurrentBid      []byte    `db:"current_bid"`
	BidHistory      []byte    `db:"bid_history"`
	RoundSeq        int64     `db:"round_seq"`
	Sold            []byte    `db:"sold"`
	Unsold          []byte    `db:"unsold"`
	Skipped         []byte    `db:"skipped"`
	Timer           []byte    `db:"timer"`
	Stats           []byte    `db:"stats"`
	Logs            []byte    `db:"logs"`
	Version         int64     `db:"version"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type settingsDoc struct {
	MinBid               int64    `json:"minBid"`
	MinIncrement         int64    `json:"minIncrement"`
	MaxBid               int64    `json:"maxBid"`
	TimerSeconds         int      `json:"timerSeconds"`
	AutoPauseOnSold      bool     `json:"autoPauseOnSold"`
	AllowUnsoldReauction bool     `json:"allowUnsoldReauction"`
	AllowForcedSale      bool     `json:"allowForcedSale"`
	ResetTimerOnBid      bool     `json:"resetTimerOnBid"`
	PlayerOrder          string   `json:"playerOrder"`
	CustomOrder          []string `json:"customOrder,omitempty"`
}

type leadingBidDoc struct {
	BidID  string `json:"bidId"`
	TeamID string `json:"teamId"`
	Amount int64  `json:"amount"`
}

type lotDoc struct {
	PlayerID string    `json:"playerId"`
	TeamID   string    `json:"teamId"`
	Amount   int64     `json:"amount"`
	SoldAt   time.Time `json:"soldAt"`
}

type timerDoc struct {
	DurationSeconds  int       `json:"durationSeconds"`
	RemainingSeconds int       `json:"remainingSeconds"`
	Active           bool      `json:"active"`
	StartedAt        time.Time `json:"startedAt"`
}

type statsDoc struct {
	TotalSold           int     `json:"totalSold"`
	TotalUnsold         int     `json:"totalUnsold"`
	TotalRevenue        int64   `json:"totalRevenue"`
	AvgSalePrice        float64 `json:"avgSalePrice"`
	HighestSaleAmount   int64   `json:"highestSaleAmount"`
	HighestSalePlayerID string  `json:"highestSalePlayerId"`
	LowestSaleAmount    int64   `json:"lowestSaleAmount"`
	LowestSalePlayerID  string  `json:"lowestSalePlayerId"`
}

type auditEntryDoc struct {
	At     time.Time `json:"at"`
	Actor  string    `json:"actor,omitempty"`
	Action string    `json:"action"`
	Detail string    `json:"detail,omitempty"`
}

func toAuctionTableModel(a auction.Auction) (auctionTableModel, error) {
	row := auctionTableModel{
		ID:              a.ID,
		TournamentID:    a.TournamentID,
		Name:            a.Name,
		Status:          string(a.Status),
		CurrentPlayerID: a.CurrentPlayerID,
		RoundSeq:        a.RoundSeq,
		Version:         a.Version,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}

	var err error
	if row.Settings, err = marshalJSONB(settingsDoc{
		MinBid:               a.Settings.MinBid,
		MinIncrement:         a.Settings.MinIncrement,
		MaxBid:               a.Settings.MaxBid,
		TimerSeconds:         a.Settings.TimerSeconds,
		AutoPauseOnSold:      a.Settings.AutoPauseOnSold,
		AllowUnsoldReauction: a.Settings.AllowUnsoldReauction,
		AllowForcedSale:      a.Settings.AllowForcedSale,
		ResetTimerOnBid:      a.Settings.ResetTimerOnBid,
		PlayerOrder:          string(a.Settings.PlayerOrder),
		CustomOrder:          a.Settings.CustomOrder,
	}); err != nil {
		return auctionTableModel{}, err
	}
	if row.Pool, err = marshalJSONB(emptyIfNil(a.Pool)); err != nil {
		return auctionTableModel{}, err
	}
	if row.Remaining, err = marshalJSONB(emptyIfNil(a.Remaining)); err != nil {
		return auctionTableModel{}, err
	}
	if row.BidHistory, err = marshalJSONB(emptyIfNil(a.BidHistory)); err != nil {
		return auctionTableModel{}, err
	}
	if row.Unsold, err = marshalJSONB(emptyIfNil(a.Unsold)); err != nil {
		return auctionTableModel{}, err
	}
	if row.Skipped, err = marshalJSONB(emptyIfNil(a.Skipped)); err != nil {
		return auctionTableModel{}, err
	}

	if a.CurrentBid != nil {
		if row.CurrentBid, err = marshalJSONB(leadingBidDoc(*a.CurrentBid)); err != nil {
			return auctionTableModel{}, err
		}
	}

	lots := make([]lotDoc, 0, len(a.Sold))
	for _, lot := range a.Sold {
		lots = append(lots, lotDoc(lot))
	}
	if row.Sold, err = marshalJSONB(lots); err != nil {
		return auctionTableModel{}, err
	}

	if row.Timer, err = marshalJSONB(timerDoc(a.Timer)); err != nil {
		return auctionTableModel{}, err
	}
	if row.Stats, err = marshalJSONB(statsDoc(a.Stats)); err != nil {
		return auctionTableModel{}, err
	}

	logs := make([]auditEntryDoc, 0, len(a.Logs))
	for _, entry := range a.Logs {
		logs = append(logs, auditEntryDoc(entry))
	}
	if row.Logs, err = marshalJSONB(logs); err != nil {
		return auctionTableModel{}, err
	}

	return row, nil
}

func (row auctionTableModel) toDomain() (auction.Auction, error) {
	a := auction.Auction{
		ID:              row.ID,
		TournamentID:    row.TournamentID,
		Name:            row.Name,
		Status:          auction.Status(row.Status),
		CurrentPlayerID: row.CurrentPlayerID,
		RoundSeq:        row.RoundSeq,
		Version:         row.Version,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}

	var settings settingsDoc
	if err := unmarshalJSONB(row.Settings, &settings); err != nil {
		return auction.Auction{}, err
	}
	a.Settings = auction.Settings{
		MinBid:               settings.MinBid,
		MinIncrement:         settings.MinIncrement,
		MaxBid:               settings.MaxBid,
		TimerSeconds:         settings.TimerSeconds,
		AutoPauseOnSold:      settings.AutoPauseOnSold,
		AllowUnsoldReauction: settings.AllowUnsoldReauction,
		AllowForcedSale:      settings.AllowForcedSale,
		ResetTimerOnBid:      settings.ResetTimerOnBid,
		PlayerOrder:          auction.OrderStrategy(settings.PlayerOrder),
		CustomOrder:          settings.CustomOrder,
	}

	if err := unmarshalJSONB(row.Pool, &a.Pool); err != nil {
		return auction.Auction{}, err
	}
	if err := unmarshalJSONB(row.Remaining, &a.Remaining); err != nil {
		return auction.Auction{}, err
	}
	if err := unmarshalJSONB(row.BidHistory, &a.BidHistory); err != nil {
		return auction.Auction{}, err
	}
	if err := unmarshalJSONB(row.Unsold, &a.Unsold); err != nil {
		return auction.Auction{}, err
	}
	if err := unmarshalJSONB(row.Skipped, &a.Skipped); err != nil {
		return auction.Auction{}, err
	}

	if len(row.CurrentBid) > 0 {
		var leading leadingBidDoc
		if err := unmarshalJSONB(row.CurrentBid, &leading); err != nil {
			return auction.Auction{}, err
		}
		converted := auction.LeadingBid(leading)
		a.CurrentBid = &converted
	}

	var lots []lotDoc
	if err := unmarshalJSONB(row.Sold, &lots); err != nil {
		return auction.Auction{}, err
	}
	a.Sold = make([]auction.Lot, 0, len(lots))
	for _, lot := range lots {
		a.Sold = append(a.Sold, auction.Lot(lot))
	}

	var timer timerDoc
	if err := unmarshalJSONB(row.Timer, &timer); err != nil {
		return auction.Auction{}, err
	}
	a.Timer = auction.TimerState(timer)

	var stats statsDoc
	if err := unmarshalJSONB(row.Stats, &stats); err != nil {
		return auction.Auction{}, err
	}
	a.Stats = auction.Statistics(stats)

	var logs []auditEntryDoc
	if err := unmarshalJSONB(row.Logs, &logs); err != nil {
		return auction.Auction{}, err
	}
	a.Logs = make([]auction.AuditEntry, 0, len(logs))
	for _, entry := range logs {
		a.Logs = append(a.Logs, auction.AuditEntry(entry))
	}

	return a, nil
}

// emptyIfNil keeps jsonb array columns as [] rather than null.
func emptyIfNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
