package postgres

import (
	"github.com/cricbid/auction-platform/internal/domain/player"
)

type playerTableModel struct {
	ID           string `db:"id"`
	TournamentID string `db:"tournament_id"`
	Name         string `db:"name"`
	Country      string `db:"country"`
	Position     string `db:"position"`
	BasePrice    int64  `db:"base_price"`
}

func toPlayerTableModel(p player.Player) playerTableModel {
	return playerTableModel{
		ID:           p.ID,
		TournamentID: p.TournamentID,
		Name:         p.Name,
		Country:      p.Country,
		Position:     string(p.Position),
		BasePrice:    p.BasePrice,
	}
}

func (row playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:           row.ID,
		TournamentID: row.TournamentID,
		Name:         row.Name,
		Country:      row.Country,
		Position:     player.Position(row.Position),
		BasePrice:    row.BasePrice,
	}
}
