package httpapi

import (
	"time"

	"github.com/cricbid/auction-platform/internal/domain/auction"
	"github.com/cricbid/auction-platform/internal/domain/bid"
	"github.com/cricbid/auction-platform/internal/domain/player"
	"github.com/cricbid/auction-platform/internal/domain/team"
	"github.com/cricbid/auction-platform/internal/domain/tournament"
)

type tournamentDTO struct {
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	Format  string             `json:"format"`
	Status  string             `json:"status"`
	TeamIDs []string           `json:"teamIds"`
	Rules   tournamentRulesDTO `json:"rules"`
}

type tournamentRulesDTO struct {
	MinBid          int64 `json:"minBid"`
	MinIncrement    int64 `json:"minIncrement"`
	MaxBid          int64 `json:"maxBid"`
	TimerSeconds    int   `json:"timerSeconds"`
	MinRosterSize   int   `json:"minRosterSize"`
	MaxRosterSize   int   `json:"maxRosterSize"`
	InitialTokens   int64 `json:"initialTokens"`
	AutoPauseOnSold bool  `json:"autoPauseOnSold"`
}

func tournamentToDTO(t tournament.Tournament) tournamentDTO {
	return tournamentDTO{
		ID:      t.ID,
		Name:    t.Name,
		Format:  string(t.Format),
		Status:  string(t.Status),
		TeamIDs: t.TeamIDs,
		Rules: tournamentRulesDTO{
			MinBid:          t.Defaults.MinBid,
			MinIncrement:    t.Defaults.MinIncrement,
			MaxBid:          t.Defaults.MaxBid,
			TimerSeconds:    t.Defaults.TimerSeconds,
			MinRosterSize:   t.Defaults.MinRosterSize,
			MaxRosterSize:   t.Defaults.MaxRosterSize,
			InitialTokens:   t.Defaults.InitialTokens,
			AutoPauseOnSold: t.Defaults.AutoPauseOnSold,
		},
	}
}

type teamDTO struct {
	ID              string          `json:"id"`
	TournamentID    string          `json:"tournamentId"`
	Name            string          `json:"name"`
	Short           string          `json:"short"`
	CaptainID       string          `json:"captainId"`
	ManagerID       string          `json:"managerId"`
	Tokens          int64           `json:"tokens"`
	TotalSpent      int64           `json:"totalSpent"`
	AvailableBudget int64           `json:"availableBudget"`
	Roster          []rosterSlotDTO `json:"roster"`
}

type rosterSlotDTO struct {
	PlayerID string    `json:"playerId"`
	Amount   int64     `json:"amount"`
	BoughtAt time.Time `json:"boughtAt"`
}

func teamToDTO(t team.Team) teamDTO {
	roster := make([]rosterSlotDTO, 0, len(t.Roster))
	for _, slot := range t.Roster {
		roster = append(roster, rosterSlotDTO(slot))
	}

	return teamDTO{
		ID:              t.ID,
		TournamentID:    t.TournamentID,
		Name:            t.Name,
		Short:           t.Short,
		CaptainID:       t.CaptainID,
		ManagerID:       t.ManagerID,
		Tokens:          t.Tokens,
		TotalSpent:      t.TotalSpent,
		AvailableBudget: t.AvailableBudget(),
		Roster:          roster,
	}
}

type playerDTO struct {
	ID           string `json:"id"`
	TournamentID string `json:"tournamentId"`
	Name         string `json:"name"`
	Country      string `json:"country"`
	Position     string `json:"position"`
	BasePrice    int64  `json:"basePrice"`
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:           p.ID,
		TournamentID: p.TournamentID,
		Name:         p.Name,
		Country:      p.Country,
		Position:     string(p.Position),
		BasePrice:    p.BasePrice,
	}
}

type auctionDTO struct {
	ID              string             `json:"id"`
	TournamentID    string             `json:"tournamentId"`
	Name            string             `json:"name"`
	Status          string             `json:"status"`
	Settings        auctionSettingsDTO `json:"settings"`
	PoolSize        int                `json:"poolSize"`
	RemainingCount  int                `json:"remainingCount"`
	CurrentPlayerID string             `json:"currentPlayerId,omitempty"`
	CurrentBid      *leadingBidDTO     `json:"currentBid,omitempty"`
	RoundSeq        int64              `json:"roundSeq"`
	Timer           timerDTO           `json:"timer"`
	Sold            []lotDTO           `json:"sold"`
	Unsold          []string           `json:"unsold"`
	Skipped         []string           `json:"skipped"`
	Stats           statisticsDTO      `json:"stats"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

type auctionSettingsDTO struct {
	MinBid               int64  `json:"minBid"`
	MinIncrement         int64  `json:"minIncrement"`
	MaxBid               int64  `json:"maxBid"`
	TimerSeconds         int    `json:"timerSeconds"`
	AutoPauseOnSold      bool   `json:"autoPauseOnSold"`
	AllowUnsoldReauction bool   `json:"allowUnsoldReauction"`
	AllowForcedSale      bool   `json:"allowForcedSale"`
	ResetTimerOnBid      bool   `json:"resetTimerOnBid"`
	PlayerOrder          string `json:"playerOrder"`
}

type leadingBidDTO struct {
	BidID  string `json:"bidId"`
	TeamID string `json:"teamId"`
	Amount int64  `json:"amount"`
}

type timerDTO struct {
	DurationSeconds  int  `json:"durationSeconds"`
	RemainingSeconds int  `json:"remainingSeconds"`
	Active           bool `json:"active"`
}

type lotDTO struct {
	PlayerID string    `json:"playerId"`
	TeamID   string    `json:"teamId"`
	Amount   int64     `json:"amount"`
	SoldAt   time.Time `json:"soldAt"`
}

type statisticsDTO struct {
	TotalSold           int     `json:"totalSold"`
	TotalUnsold         int     `json:"totalUnsold"`
	TotalRevenue        int64   `json:"totalRevenue"`
	AvgSalePrice        float64 `json:"avgSalePrice"`
	HighestSaleAmount   int64   `json:"highestSaleAmount"`
	HighestSalePlayerID string  `json:"highestSalePlayerId,omitempty"`
	LowestSaleAmount    int64   `json:"lowestSaleAmount"`
	LowestSalePlayerID  string  `json:"lowestSalePlayerId,omitempty"`
}

func auctionToDTO(a auction.Auction) auctionDTO {
	dto := auctionDTO{
		ID:              a.ID,
		TournamentID:    a.TournamentID,
		Name:            a.Name,
		Status:          string(a.Status),
		PoolSize:        len(a.Pool),
		RemainingCount:  len(a.Remaining),
		CurrentPlayerID: a.CurrentPlayerID,
		RoundSeq:        a.RoundSeq,
		Unsold:          emptySlice(a.Unsold),
		Skipped:         emptySlice(a.Skipped),
		UpdatedAt:       a.UpdatedAt,
		Settings: auctionSettingsDTO{
			MinBid:               a.Settings.MinBid,
			MinIncrement:         a.Settings.MinIncrement,
			MaxBid:               a.Settings.MaxBid,
			TimerSeconds:         a.Settings.TimerSeconds,
			AutoPauseOnSold:      a.Settings.AutoPauseOnSold,
			AllowUnsoldReauction: a.Settings.AllowUnsoldReauction,
			AllowForcedSale:      a.Settings.AllowForcedSale,
			ResetTimerOnBid:      a.Settings.ResetTimerOnBid,
			PlayerOrder:          string(a.Settings.PlayerOrder),
		},
		Timer: timerDTO{
			DurationSeconds:  a.Timer.DurationSeconds,
			RemainingSeconds: a.Timer.RemainingSeconds,
			Active:           a.Timer.Active,
		},
		Stats: statisticsDTO(a.Stats),
	}

	if a.CurrentBid != nil {
		leading := leadingBidDTO(*a.CurrentBid)
		dto.CurrentBid = &leading
	}

	dto.Sold = make([]lotDTO, 0, len(a.Sold))
	for _, lot := range a.Sold {
		dto.Sold = append(dto.Sold, lotDTO(lot))
	}

	return dto
}

type bidDTO struct {
	ID        string    `json:"id"`
	AuctionID string    `json:"auctionId"`
	PlayerID  string    `json:"playerId"`
	TeamID    string    `json:"teamId"`
	BidderID  string    `json:"bidderId"`
	Amount    int64     `json:"amount"`
	PlacedAt  time.Time `json:"placedAt"`
	IsWinning bool      `json:"isWinning"`
	IsSold    bool      `json:"isSold"`
}

func bidToDTO(b bid.Bid) bidDTO {
	return bidDTO(b)
}

func bidsToDTO(bids []bid.Bid) []bidDTO {
	out := make([]bidDTO, 0, len(bids))
	for _, b := range bids {
		out = append(out, bidToDTO(b))
	}
	return out
}

func emptySlice(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
