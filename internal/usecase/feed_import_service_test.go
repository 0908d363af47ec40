package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/cricbid/auction-platform/internal/domain/player"
	"github.com/cricbid/auction-platform/internal/domain/tournament"
	playermock "github.com/cricbid/auction-platform/internal/mocks/domain/player"
	tournamentmock "github.com/cricbid/auction-platform/internal/mocks/domain/tournament"
)

type staticFeedProvider struct {
	players []ExternalPlayer
	err     error
}

func (p *staticFeedProvider) FetchTournamentPlayers(ctx context.Context, tournamentRef string) ([]ExternalPlayer, error) {
	return p.players, p.err
}

func TestFeedImportService_ImportPlayers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tournamentID := "ind-premier-t20-2026"

	t.Run("maps and upserts provider players", func(t *testing.T) {
		t.Parallel()

		tournamentRepo := tournamentmock.NewRepository(t)
		playerRepo := playermock.NewRepository(t)
		provider := &staticFeedProvider{players: []ExternalPlayer{
			{ExternalID: "cf-101", FullName: "R. Sharma", Country: "in", Role: "batsman", BasePrice: 50},
			{ExternalID: "cf-102", FullName: "T. Boult", Country: "nz", Role: "bowler", BasePrice: 40},
			{ExternalID: "", FullName: "Nameless", Role: "bowler"},
		}}

		tournamentRepo.
			On("GetByID", mock.Anything, tournamentID).
			Return(tournament.Tournament{ID: tournamentID}, true, nil).
			Once()
		playerRepo.
			On("Upsert", mock.Anything, mock.MatchedBy(func(players []player.Player) bool {
				if len(players) != 2 {
					return false
				}
				first := players[0]
				return first.ID == "feed-cf-101" &&
					first.TournamentID == tournamentID &&
					first.Country == "IN" &&
					first.Position == player.PositionBatter
			})).
			Return(nil).
			Once()

		service := NewFeedImportService(provider, playerRepo, tournamentRepo, nil)

		imported, err := service.ImportPlayers(ctx, tournamentID, "premier-t20")
		if err != nil {
			t.Fatalf("import players: %v", err)
		}
		if imported != 2 {
			t.Fatalf("unexpected import count: got=%d want=2", imported)
		}
	})

	t.Run("unknown tournament", func(t *testing.T) {
		t.Parallel()

		tournamentRepo := tournamentmock.NewRepository(t)
		playerRepo := playermock.NewRepository(t)

		tournamentRepo.
			On("GetByID", mock.Anything, "missing").
			Return(tournament.Tournament{}, false, nil).
			Once()

		service := NewFeedImportService(&staticFeedProvider{}, playerRepo, tournamentRepo, nil)

		if _, err := service.ImportPlayers(ctx, "missing", "premier-t20"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("nil provider reports dependency unavailable", func(t *testing.T) {
		t.Parallel()

		tournamentRepo := tournamentmock.NewRepository(t)
		playerRepo := playermock.NewRepository(t)

		tournamentRepo.
			On("GetByID", mock.Anything, tournamentID).
			Return(tournament.Tournament{ID: tournamentID}, true, nil).
			Once()

		service := NewFeedImportService(nil, playerRepo, tournamentRepo, nil)

		if _, err := service.ImportPlayers(ctx, tournamentID, "premier-t20"); !errors.Is(err, ErrDependencyUnavailable) {
			t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
		}
	})

	t.Run("feed with only malformed players", func(t *testing.T) {
		t.Parallel()

		tournamentRepo := tournamentmock.NewRepository(t)
		playerRepo := playermock.NewRepository(t)
		provider := &staticFeedProvider{players: []ExternalPlayer{
			{ExternalID: "cf-900", FullName: "Mystery Spinner", Role: "coach"},
		}}

		tournamentRepo.
			On("GetByID", mock.Anything, tournamentID).
			Return(tournament.Tournament{ID: tournamentID}, true, nil).
			Once()

		service := NewFeedImportService(provider, playerRepo, tournamentRepo, nil)

		if _, err := service.ImportPlayers(ctx, tournamentID, "premier-t20"); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}
