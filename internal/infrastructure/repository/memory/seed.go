package memory

import (
	"time"

	"github.com/cricbid/auction-platform/internal/domain/auction"
	"github.com/cricbid/auction-platform/internal/domain/player"
	"github.com/cricbid/auction-platform/internal/domain/team"
	"github.com/cricbid/auction-platform/internal/domain/tournament"
)

const (
	TournamentIDPremierT20 = "ind-premier-t20-2026"
	AuctionIDPremierT20    = "auc-premier-t20-2026"
)

func SeedTournaments() []tournament.Tournament {
	return []tournament.Tournament{
		{
			ID:     TournamentIDPremierT20,
			Name:   "Premier T20 League 2026",
			Format: tournament.FormatT20,
			Status: tournament.StatusOpen,
			Defaults: tournament.AuctionDefaults{
				MinBid:          20,
				MinIncrement:    5,
				MaxBid:          0,
				TimerSeconds:    30,
				MinRosterSize:   11,
				MaxRosterSize:   18,
				InitialTokens:   1000,
				AutoPauseOnSold: false,
			},
			TeamIDs: []string{
				"t20-mum", "t20-che", "t20-ben", "t20-kol",
				"t20-del", "t20-hyd", "t20-pun", "t20-raj",
			},
		},
	}
}

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: "t20-mum", TournamentID: TournamentIDPremierT20, Name: "Mumbai Mariners", Short: "MUM", CaptainID: "user-cap-mum", ManagerID: "user-mgr-mum", Tokens: 1000},
		{ID: "t20-che", TournamentID: TournamentIDPremierT20, Name: "Chennai Chargers", Short: "CHE", CaptainID: "user-cap-che", ManagerID: "user-mgr-che", Tokens: 1000},
		{ID: "t20-ben", TournamentID: TournamentIDPremierT20, Name: "Bengaluru Blasters", Short: "BEN", CaptainID: "user-cap-ben", ManagerID: "user-mgr-ben", Tokens: 1000},
		{ID: "t20-kol", TournamentID: TournamentIDPremierT20, Name: "Kolkata Knights", Short: "KOL", CaptainID: "user-cap-kol", ManagerID: "user-mgr-kol", Tokens: 1000},
		{ID: "t20-del", TournamentID: TournamentIDPremierT20, Name: "Delhi Daredevils", Short: "DEL", CaptainID: "user-cap-del", ManagerID: "user-mgr-del", Tokens: 1000},
		{ID: "t20-hyd", TournamentID: TournamentIDPremierT20, Name: "Hyderabad Hawks", Short: "HYD", CaptainID: "user-cap-hyd", ManagerID: "user-mgr-hyd", Tokens: 1000},
		{ID: "t20-pun", TournamentID: TournamentIDPremierT20, Name: "Pune Panthers", Short: "PUN", CaptainID: "user-cap-pun", ManagerID: "user-mgr-pun", Tokens: 1000},
		{ID: "t20-raj", TournamentID: TournamentIDPremierT20, Name: "Rajasthan Royals XI", Short: "RAJ", CaptainID: "user-cap-raj", ManagerID: "user-mgr-raj", Tokens: 1000},
	}
}

func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: "plr-wk-01", TournamentID: TournamentIDPremierT20, Name: "Ishan Varma", Country: "IN", Position: player.PositionWicketKeeper, BasePrice: 60},
		{ID: "plr-wk-02", TournamentID: TournamentIDPremierT20, Name: "Quinton Marais", Country: "ZA", Position: player.PositionWicketKeeper, BasePrice: 75},
		{ID: "plr-bat-01", TournamentID: TournamentIDPremierT20, Name: "Rohan Sharma", Country: "IN", Position: player.PositionBatter, BasePrice: 100},
		{ID: "plr-bat-02", TournamentID: TournamentIDPremierT20, Name: "Dale Winters", Country: "AU", Position: player.PositionBatter, BasePrice: 90},
		{ID: "plr-bat-03", TournamentID: TournamentIDPremierT20, Name: "Kusal Fernando", Country: "LK", Position: player.PositionBatter, BasePrice: 55},
		{ID: "plr-bat-04", TournamentID: TournamentIDPremierT20, Name: "Babar Hussain", Country: "PK", Position: player.PositionBatter, BasePrice: 95},
		{ID: "plr-ar-01", TournamentID: TournamentIDPremierT20, Name: "Hardik Patel", Country: "IN", Position: player.PositionAllRounder, BasePrice: 110},
		{ID: "plr-ar-02", TournamentID: TournamentIDPremierT20, Name: "Ben Sutherland", Country: "EN", Position: player.PositionAllRounder, BasePrice: 105},
		{ID: "plr-ar-03", TournamentID: TournamentIDPremierT20, Name: "Rashid Omar", Country: "AF", Position: player.PositionAllRounder, BasePrice: 85},
		{ID: "plr-bwl-01", TournamentID: TournamentIDPremierT20, Name: "Jasprit Kumar", Country: "IN", Position: player.PositionBowler, BasePrice: 100},
		{ID: "plr-bwl-02", TournamentID: TournamentIDPremierT20, Name: "Trent Marsh", Country: "NZ", Position: player.PositionBowler, BasePrice: 80},
		{ID: "plr-bwl-03", TournamentID: TournamentIDPremierT20, Name: "Kagiso Mbeki", Country: "ZA", Position: player.PositionBowler, BasePrice: 70},
		{ID: "plr-bwl-04", TournamentID: TournamentIDPremierT20, Name: "Mitchell Crane", Country: "AU", Position: player.PositionBowler, BasePrice: 65},
		{ID: "plr-bwl-05", TournamentID: TournamentIDPremierT20, Name: "Arjun Nair", Country: "IN", Position: player.PositionBowler, BasePrice: 40},
	}
}

func SeedAuctions() []auction.Auction {
	pool := make([]string, 0, len(SeedPlayers()))
	for _, p := range SeedPlayers() {
		pool = append(pool, p.ID)
	}

	return []auction.Auction{
		{
			ID:           AuctionIDPremierT20,
			TournamentID: TournamentIDPremierT20,
			Name:         "Premier T20 Season Auction",
			Status:       auction.StatusPending,
			Settings: auction.Settings{
				MinBid:               20,
				MinIncrement:         5,
				TimerSeconds:         30,
				AllowUnsoldReauction: true,
				ResetTimerOnBid:      true,
				PlayerOrder:          auction.OrderGrouped,
			},
			Pool:      pool,
			CreatedAt: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC),
		},
	}
}
