package player

import "fmt"

// Position is the playing role used by grouped auction ordering.
type Position string

const (
	PositionBatter       Position = "batter"
	PositionBowler       Position = "bowler"
	PositionAllRounder   Position = "all_rounder"
	PositionWicketKeeper Position = "wicket_keeper"
)

// GroupOrder is the fixed position sequence for the grouped ordering
// strategy: keepers first, then batters, all-rounders, bowlers.
var GroupOrder = []Position{
	PositionWicketKeeper,
	PositionBatter,
	PositionAllRounder,
	PositionBowler,
}

// Player is a registered tournament player eligible for auction.
type Player struct {
	ID           string
	TournamentID string
	Name         string
	Country      string
	Position     Position
	BasePrice    int64
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.TournamentID == "" {
		return fmt.Errorf("player tournament id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if p.BasePrice < 0 {
		return fmt.Errorf("player base price cannot be negative")
	}

	return nil
}
