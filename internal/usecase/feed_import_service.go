package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cricbid/auction-platform/internal/domain/player"
	"github.com/cricbid/auction-platform/internal/domain/tournament"
)

// ExternalPlayer is a provider-shaped player record before it is mapped
// into the catalogue.
type ExternalPlayer struct {
	ExternalID string
	FullName   string
	Country    string
	Role       string
	BasePrice  int64
}

// PlayerFeedProvider fetches the registered player list for a tournament
// from the cricket data provider.
type PlayerFeedProvider interface {
	FetchTournamentPlayers(ctx context.Context, tournamentRef string) ([]ExternalPlayer, error)
}

// FeedImportService pulls provider player data into the local catalogue.
// It is triggered by the internal import job endpoint, never by bidders.
type FeedImportService struct {
	provider       PlayerFeedProvider
	playerRepo     player.Repository
	tournamentRepo tournament.Repository
	logger         *slog.Logger
}

func NewFeedImportService(
	provider PlayerFeedProvider,
	playerRepo player.Repository,
	tournamentRepo tournament.Repository,
	logger *slog.Logger,
) *FeedImportService {
	if logger == nil {
		logger = slog.Default()
	}

	return &FeedImportService{
		provider:       provider,
		playerRepo:     playerRepo,
		tournamentRepo: tournamentRepo,
		logger:         logger,
	}
}

// ImportPlayers fetches the provider roster for a tournament and upserts
// it. Returns the number of players written.
func (s *FeedImportService) ImportPlayers(ctx context.Context, tournamentID, tournamentRef string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "FeedImportService.ImportPlayers")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	tournamentRef = strings.TrimSpace(tournamentRef)
	if tournamentID == "" {
		return 0, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}
	if tournamentRef == "" {
		return 0, fmt.Errorf("%w: tournament provider reference is required", ErrInvalidInput)
	}

	if _, ok, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return 0, fmt.Errorf("get tournament: %w", err)
	} else if !ok {
		return 0, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}

	if s.provider == nil {
		return 0, fmt.Errorf("%w: player feed is not configured", ErrDependencyUnavailable)
	}

	fetched, err := s.provider.FetchTournamentPlayers(ctx, tournamentRef)
	if err != nil {
		return 0, fmt.Errorf("fetch tournament players: %w", err)
	}

	players := make([]player.Player, 0, len(fetched))
	for _, item := range fetched {
		mapped, err := mapExternalPlayer(tournamentID, item)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping malformed feed player",
				"external_id", item.ExternalID, "error", err)
			continue
		}
		players = append(players, mapped)
	}
	if len(players) == 0 {
		return 0, fmt.Errorf("%w: feed returned no usable players for ref=%s", ErrInvalidInput, tournamentRef)
	}

	if err := s.playerRepo.Upsert(ctx, players); err != nil {
		return 0, fmt.Errorf("upsert players: %w", err)
	}

	s.logger.InfoContext(ctx, "player feed imported",
		"tournament_id", tournamentID,
		"provider_ref", tournamentRef,
		"imported", len(players),
		"skipped", len(fetched)-len(players),
	)

	return len(players), nil
}

func mapExternalPlayer(tournamentID string, item ExternalPlayer) (player.Player, error) {
	id := strings.TrimSpace(item.ExternalID)
	name := strings.TrimSpace(item.FullName)
	if id == "" || name == "" {
		return player.Player{}, fmt.Errorf("external id and name are required")
	}

	position, err := mapFeedRole(item.Role)
	if err != nil {
		return player.Player{}, err
	}

	basePrice := item.BasePrice
	if basePrice < 0 {
		return player.Player{}, fmt.Errorf("negative base price %d", basePrice)
	}

	return player.Player{
		ID:           "feed-" + id,
		TournamentID: tournamentID,
		Name:         name,
		Country:      strings.ToUpper(strings.TrimSpace(item.Country)),
		Position:     position,
		BasePrice:    basePrice,
	}, nil
}

func mapFeedRole(raw string) (player.Position, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "batsman", "batter":
		return player.PositionBatter, nil
	case "bowler":
		return player.PositionBowler, nil
	case "allrounder", "all-rounder", "all_rounder":
		return player.PositionAllRounder, nil
	case "wicketkeeper", "wicket-keeper", "wicket_keeper", "keeper":
		return player.PositionWicketKeeper, nil
	default:
		return "", fmt.Errorf("unknown player role %q", raw)
	}
}
