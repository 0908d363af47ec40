package postgres

import (
	"github.com/cricbid/auction-platform/internal/domain/tournament"
)

type tournamentTableModel struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Format   string `db:"format"`
	Status   string `db:"status"`
	Defaults []byte `db:"defaults"`
	TeamIDs  []byte `db:"team_ids"`
}

type auctionDefaultsDoc struct {
	MinBid          int64 `json:"minBid"`
	MinIncrement    int64 `json:"minIncrement"`
	MaxBid          int64 `json:"maxBid"`
	TimerSeconds    int   `json:"timerSeconds"`
	MinRosterSize   int   `json:"minRosterSize"`
	MaxRosterSize   int   `json:"maxRosterSize"`
	InitialTokens   int64 `json:"initialTokens"`
	AutoPauseOnSold bool  `json:"autoPauseOnSold"`
}

func (row tournamentTableModel) toDomain() (tournament.Tournament, error) {
	var defaults auctionDefaultsDoc
	if err := unmarshalJSONB(row.Defaults, &defaults); err != nil {
		return tournament.Tournament{}, err
	}

	t := tournament.Tournament{
		ID:       row.ID,
		Name:     row.Name,
		Format:   tournament.Format(row.Format),
		Status:   tournament.Status(row.Status),
		Defaults: tournament.AuctionDefaults(defaults),
	}
	if err := unmarshalJSONB(row.TeamIDs, &t.TeamIDs); err != nil {
		return tournament.Tournament{}, err
	}

	return t, nil
}
