package postgres

import (
	"time"

	"github.com/cricbid/auction-platform/internal/domain/team"
)

type teamTableModel struct {
	ID           string    `db:"id"`
	TournamentID string    `db:"tournament_id"`
	Name         string    `db:"name"`
	Short        string    `db:"short"`
	CaptainID    string    `db:"captain_id"`
	ManagerID    string    `db:"manager_id"`
	Tokens       int64     `db:"tokens"`
	TotalSpent   int64     `db:"total_spent"`
	Roster       []byte    `db:"roster"`
	Version      int64     `db:"version"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type rosterSlotDoc struct {
	PlayerID string    `json:"playerId"`
	Amount   int64     `json:"amount"`
	BoughtAt time.Time `json:"boughtAt"`
}

func toTeamTableModel(t team.Team) (teamTableModel, error) {
	roster := make([]rosterSlotDoc, 0, len(t.Roster))
	for _, slot := range t.Roster {
		roster = append(roster, rosterSlotDoc(slot))
	}
	encoded, err := marshalJSONB(roster)
	if err != nil {
		return teamTableModel{}, err
	}

	return teamTableModel{
		ID:           t.ID,
		TournamentID: t.TournamentID,
		Name:         t.Name,
		Short:        t.Short,
		CaptainID:    t.CaptainID,
		ManagerID:    t.ManagerID,
		Tokens:       t.Tokens,
		TotalSpent:   t.TotalSpent,
		Roster:       encoded,
		Version:      t.Version,
	}, nil
}

func (row teamTableModel) toDomain() (team.Team, error) {
	var roster []rosterSlotDoc
	if err := unmarshalJSONB(row.Roster, &roster); err != nil {
		return team.Team{}, err
	}
	slots := make([]team.RosterSlot, 0, len(roster))
	for _, slot := range roster {
		slots = append(slots, team.RosterSlot(slot))
	}

	return team.Team{
		ID:           row.ID,
		TournamentID: row.TournamentID,
		Name:         row.Name,
		Short:        row.Short,
		CaptainID:    row.CaptainID,
		ManagerID:    row.ManagerID,
		Tokens:       row.Tokens,
		TotalSpent:   row.TotalSpent,
		Roster:       slots,
		Version:      row.Version,
	}, nil
}
