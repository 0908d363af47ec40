package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cricbid/auction-platform/internal/domain/team"
	qb "github.com/cricbid/auction-platform/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) ListByTournament(ctx context.Context, tournamentID string) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("tournament_id", tournamentID)).
		OrderBy("name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		t, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("decode team %s: %w", row.ID, err)
		}
		out = append(out, t)
	}

	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("id", teamID)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team by id query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by id: %w", err)
	}

	t, err := row.toDomain()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("decode team %s: %w", row.ID, err)
	}

	return t, true, nil
}

// Save writes the team only when its version stamp is exactly one ahead of
// the stored row.
func (r *TeamRepository) Save(ctx context.Context, t team.Team) error {
	row, err := toTeamTableModel(t)
	if err != nil {
		return fmt.Errorf("encode team %s: %w", t.ID, err)
	}

	query, args, err := qb.Update("teams").
		Set("name", row.Name).
		Set("short", row.Short).
		Set("captain_id", row.CaptainID).
		Set("manager_id", row.ManagerID).
		Set("tokens", row.Tokens).
		Set("total_spent", row.TotalSpent).
		Set("roster", row.Roster).
		Set("version", row.Version).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", row.ID), qb.Eq("version", row.Version-1)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update team query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update team: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update team rows affected: %w", err)
	}
	if affected == 0 {
		return team.ErrStaleWrite
	}

	return nil
}
