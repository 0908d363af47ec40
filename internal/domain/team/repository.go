package team

import (
	"context"
	"errors"
)

// ErrStaleWrite rejects a Save whose version stamp is not one ahead of the
// stored team.
var ErrStaleWrite = errors.New("team was modified by another writer")

// Repository describes team persistence needs from use cases. Save must
// honor the version stamp so concurrent commits from independent sessions
// cannot silently overwrite each other.
type Repository interface {
	ListByTournament(ctx context.Context, tournamentID string) ([]Team, error)
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	Save(ctx context.Context, t Team) error
}
