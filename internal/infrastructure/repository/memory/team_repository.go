package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/cricbid/auction-platform/internal/domain/team"
)

type TeamRepository struct {
	mu     sync.RWMutex
	items  map[string]team.Team
	orders []string
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	items := make(map[string]team.Team, len(teams))
	orders := make([]string, 0, len(teams))

	for _, t := range teams {
		items[t.ID] = cloneTeam(t)
		orders = append(orders, t.ID)
	}

	return &TeamRepository{
		items:  items,
		orders: orders,
	}
}

func (r *TeamRepository) ListByTournament(_ context.Context, tournamentID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.orders))
	for _, id := range r.orders {
		if t := r.items[id]; t.TournamentID == tournamentID {
			out = append(out, cloneTeam(t))
		}
	}

	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[teamID]
	if !ok {
		return team.Team{}, false, nil
	}

	return cloneTeam(t), true, nil
}

func (r *TeamRepository) Save(_ context.Context, t team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[t.ID]
	if !ok {
		return fmt.Errorf("team %s does not exist", t.ID)
	}
	if t.Version != stored.Version+1 {
		return fmt.Errorf("%w: stored=%d incoming=%d", team.ErrStaleWrite, stored.Version, t.Version)
	}

	r.items[t.ID] = cloneTeam(t)

	return nil
}

func cloneTeam(t team.Team) team.Team {
	t.Roster = append([]team.RosterSlot(nil), t.Roster...)
	return t
}
