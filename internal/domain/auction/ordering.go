package auction

import (
	"math/rand"
	"sort"

	"github.com/cricbid/auction-platform/internal/domain/player"
)

// SortPool orders the eligible players per the configured strategy and
// returns their ids. The input slice is never mutated. rng is only used by
// the random strategy; passing the session's seeded source keeps starts
// reproducible in tests.
func SortPool(players []player.Player, settings Settings, rng *rand.Rand) []string {
	pool := append([]player.Player(nil), players...)

	switch settings.PlayerOrder {
	case OrderRandom:
		if rng != nil {
			rng.Shuffle(len(pool), func(i, j int) {
				pool[i], pool[j] = pool[j], pool[i]
			})
		}
	case OrderBasePriceDesc:
		sort.SliceStable(pool, func(i, j int) bool {
			return pool[i].BasePrice > pool[j].BasePrice
		})
	case OrderCustom:
		rank := make(map[string]int, len(settings.CustomOrder))
		for i, id := range settings.CustomOrder {
			rank[id] = i
		}
		sort.SliceStable(pool, func(i, j int) bool {
			ri, iListed := rank[pool[i].ID]
			rj, jListed := rank[pool[j].ID]
			switch {
			case iListed && jListed:
				return ri < rj
			case iListed:
				return true
			case jListed:
				return false
			default:
				return false
			}
		})
	case OrderGrouped:
		rank := make(map[player.Position]int, len(player.GroupOrder))
		for i, pos := range player.GroupOrder {
			rank[pos] = i
		}
		unknown := len(player.GroupOrder)
		groupRank := func(p player.Player) int {
			if r, ok := rank[p.Position]; ok {
				return r
			}
			return unknown
		}
		sort.SliceStable(pool, func(i, j int) bool {
			return groupRank(pool[i]) < groupRank(pool[j])
		})
	}

	ids := make([]string, 0, len(pool))
	for _, p := range pool {
		ids = append(ids, p.ID)
	}

	return ids
}
