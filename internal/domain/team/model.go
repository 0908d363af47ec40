package team

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInsufficientBudget rejects a bid that the team cannot afford at
	// bid time.
	ErrInsufficientBudget = errors.New("team budget is insufficient for this bid")
	// ErrBudgetExceeded rejects a purchase commit that would drive the
	// available budget negative. The session serializes mutations, so this
	// re-check should never fire; it exists to keep the invariant enforced
	// at the commit boundary too.
	ErrBudgetExceeded = errors.New("purchase would exceed team budget")
)

// RosterSlot is one purchased player on a team.
type RosterSlot struct {
	PlayerID string
	Amount   int64
	BoughtAt time.Time
}

// Team is a franchise competing in a tournament auction.
type Team struct {
	ID           string
	TournamentID string
	Name         string
	Short        string
	CaptainID    string
	ManagerID    string
	Tokens       int64
	TotalSpent   int64
	Roster       []RosterSlot
	Version      int64
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.TournamentID == "" {
		return fmt.Errorf("team tournament id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.Tokens < 0 {
		return fmt.Errorf("team tokens cannot be negative")
	}
	if spent := t.rosterTotal(); spent != t.TotalSpent {
		return fmt.Errorf("team total spent %d does not match roster total %d", t.TotalSpent, spent)
	}
	if t.AvailableBudget() < 0 {
		return fmt.Errorf("team available budget cannot be negative")
	}

	return nil
}

// AvailableBudget is the spendable remainder of the team's token pool.
func (t Team) AvailableBudget() int64 {
	return t.Tokens - t.TotalSpent
}

// CanAfford is the advisory bid-time budget check.
func (t Team) CanAfford(amount int64) bool {
	return amount <= t.AvailableBudget()
}

// CommitPurchase debits the budget and adds the player to the roster.
// A committed purchase is irreversible within a session. Re-committing
// the identical (player, amount) slot is a no-op so a resolve retried
// after a partial failure converges instead of conflicting.
func (t *Team) CommitPurchase(playerID string, amount int64, at time.Time) error {
	if playerID == "" {
		return fmt.Errorf("player id is required")
	}
	if amount <= 0 {
		return fmt.Errorf("purchase amount must be positive")
	}
	for _, slot := range t.Roster {
		if slot.PlayerID == playerID {
			if slot.Amount == amount {
				return nil
			}
			return fmt.Errorf("player %s is already on team %s roster", playerID, t.ID)
		}
	}
	if amount > t.AvailableBudget() {
		return fmt.Errorf("%w: amount=%d available=%d", ErrBudgetExceeded, amount, t.AvailableBudget())
	}

	t.Roster = append(t.Roster, RosterSlot{
		PlayerID: playerID,
		Amount:   amount,
		BoughtAt: at,
	})
	t.TotalSpent += amount

	return nil
}

func (t Team) rosterTotal() int64 {
	var total int64
	for _, slot := range t.Roster {
		total += slot.Amount
	}
	return total
}
