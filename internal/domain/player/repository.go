package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	ListByTournament(ctx context.Context, tournamentID string) ([]Player, error)
	GetByIDs(ctx context.Context, tournamentID string, playerIDs []string) ([]Player, error)
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
	Upsert(ctx context.Context, players []Player) error
}
