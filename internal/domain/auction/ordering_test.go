package auction

import (
	"math/rand"
	"testing"

	"github.com/cricbid/auction-platform/internal/domain/player"
)

func orderingPool() []player.Player {
	return []player.Player{
		{ID: "p1", Position: player.PositionBowler, BasePrice: 50},
		{ID: "p2", Position: player.PositionWicketKeeper, BasePrice: 80},
		{ID: "p3", Position: player.PositionBatter, BasePrice: 200},
		{ID: "p4", Position: player.PositionAllRounder, BasePrice: 120},
	}
}

func TestSortPool_Insertion(t *testing.T) {
	got := SortPool(orderingPool(), Settings{PlayerOrder: OrderInsertion}, nil)
	want := []string{"p1", "p2", "p3", "p4"}
	assertOrder(t, got, want)
}

func TestSortPool_BasePriceDesc(t *testing.T) {
	got := SortPool(orderingPool(), Settings{PlayerOrder: OrderBasePriceDesc}, nil)
	want := []string{"p3", "p4", "p2", "p1"}
	assertOrder(t, got, want)
}

func TestSortPool_Custom(t *testing.T) {
	settings := Settings{
		PlayerOrder: OrderCustom,
		CustomOrder: []string{"p4", "p2"},
	}
	got := SortPool(orderingPool(), settings, nil)
	// Listed players lead in list order; the rest keep insertion order.
	want := []string{"p4", "p2", "p1", "p3"}
	assertOrder(t, got, want)
}

func TestSortPool_Grouped(t *testing.T) {
	got := SortPool(orderingPool(), Settings{PlayerOrder: OrderGrouped}, nil)
	want := []string{"p2", "p3", "p4", "p1"}
	assertOrder(t, got, want)
}

func TestSortPool_Random_Deterministic(t *testing.T) {
	first := SortPool(orderingPool(), Settings{PlayerOrder: OrderRandom}, rand.New(rand.NewSource(7)))
	second := SortPool(orderingPool(), Settings{PlayerOrder: OrderRandom}, rand.New(rand.NewSource(7)))
	assertOrder(t, second, first)

	if len(first) != 4 {
		t.Fatalf("shuffle must keep all players, got %d", len(first))
	}
}

func TestSortPool_DoesNotMutateInput(t *testing.T) {
	pool := orderingPool()
	SortPool(pool, Settings{PlayerOrder: OrderBasePriceDesc}, nil)
	if pool[0].ID != "p1" {
		t.Fatal("sort must not mutate the input slice")
	}
}

func assertOrder(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d ids, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}
