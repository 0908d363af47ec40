package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/cricbid/auction-platform/internal/domain/tournament"
	playermock "github.com/cricbid/auction-platform/internal/mocks/domain/player"
	tournamentmock "github.com/cricbid/auction-platform/internal/mocks/domain/tournament"
)

func TestTournamentService_ListTournamentsUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tournamentRepo := tournamentmock.NewRepository(t)
	playerRepo := playermock.NewRepository(t)

	service := NewTournamentService(tournamentRepo, nil, playerRepo)
	expected := []tournament.Tournament{
		{ID: "ind-premier-t20-2026", Name: "Indian Premier T20 2026", Format: tournament.FormatT20},
	}

	tournamentRepo.
		On("List", mock.MatchedBy(func(v context.Context) bool { return v == ctx })).
		Return(expected, nil).
		Once()

	got, err := service.ListTournaments(ctx)
	if err != nil {
		t.Fatalf("list tournaments: %v", err)
	}
	if len(got) != 1 || got[0].ID != expected[0].ID {
		t.Fatalf("unexpected tournaments: %+v", got)
	}
}

func TestTournamentService_ListPlayers_TournamentNotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tournamentRepo := tournamentmock.NewRepository(t)
	playerRepo := playermock.NewRepository(t)

	service := NewTournamentService(tournamentRepo, nil, playerRepo)

	tournamentRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), "missing-tournament").
		Return(tournament.Tournament{}, false, nil).
		Once()

	_, err := service.ListPlayers(ctx, "missing-tournament")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
