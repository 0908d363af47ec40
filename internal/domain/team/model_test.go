package team

import (
	"errors"
	"testing"
	"time"
)

func testTeam() Team {
	return Team{
		ID:           "team-1",
		TournamentID: "tour-1",
		Name:         "Northside Chargers",
		Short:        "NSC",
		CaptainID:    "user-cap",
		Tokens:       1000,
	}
}

func TestTeam_CommitPurchase_DebitsBudget(t *testing.T) {
	tm := testTeam()
	at := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

	if err := tm.CommitPurchase("player-1", 400, at); err != nil {
		t.Fatalf("commit purchase failed: %v", err)
	}

	if tm.TotalSpent != 400 {
		t.Fatalf("expected total spent 400, got %d", tm.TotalSpent)
	}
	if tm.AvailableBudget() != 600 {
		t.Fatalf("expected available budget 600, got %d", tm.AvailableBudget())
	}
	if err := tm.Validate(); err != nil {
		t.Fatalf("team invalid after purchase: %v", err)
	}
}

func TestTeam_CommitPurchase_RejectsOverspend(t *testing.T) {
	tm := testTeam()
	at := time.Now().UTC()

	if err := tm.CommitPurchase("player-1", 900, at); err != nil {
		t.Fatalf("first purchase failed: %v", err)
	}

	err := tm.CommitPurchase("player-2", 200, at)
	if !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("expected ErrBudgetExceeded, got %v", err)
	}
	if tm.TotalSpent != 900 {
		t.Fatalf("failed commit must not mutate total spent, got %d", tm.TotalSpent)
	}
	if len(tm.Roster) != 1 {
		t.Fatalf("failed commit must not grow roster, got %d slots", len(tm.Roster))
	}
}

func TestTeam_CommitPurchase_RejectsDuplicatePlayer(t *testing.T) {
	tm := testTeam()
	at := time.Now().UTC()

	if err := tm.CommitPurchase("player-1", 100, at); err != nil {
		t.Fatalf("first purchase failed: %v", err)
	}
	if err := tm.CommitPurchase("player-1", 250, at); err == nil {
		t.Fatal("expected purchase of a rostered player at a new amount to fail")
	}
	if tm.TotalSpent != 100 {
		t.Fatalf("failed commit must not mutate total spent, got %d", tm.TotalSpent)
	}
}

func TestTeam_CommitPurchase_RetrySameSaleIsNoOp(t *testing.T) {
	tm := testTeam()
	at := time.Now().UTC()

	if err := tm.CommitPurchase("player-1", 100, at); err != nil {
		t.Fatalf("first purchase failed: %v", err)
	}
	if err := tm.CommitPurchase("player-1", 100, at); err != nil {
		t.Fatalf("retried identical purchase must converge: %v", err)
	}
	if tm.TotalSpent != 100 {
		t.Fatalf("retried purchase must not debit again, got %d", tm.TotalSpent)
	}
	if len(tm.Roster) != 1 {
		t.Fatalf("retried purchase must not grow roster, got %d slots", len(tm.Roster))
	}
}

func TestTeam_Validate_SpentMismatch(t *testing.T) {
	tm := testTeam()
	tm.Roster = []RosterSlot{{PlayerID: "player-1", Amount: 100, BoughtAt: time.Now()}}
	tm.TotalSpent = 150

	if err := tm.Validate(); err == nil {
		t.Fatal("expected validation failure when total spent diverges from roster")
	}
}
