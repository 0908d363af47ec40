// Package app assembles the service: repositories, the session runtime,
// external clients and the HTTP router.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/cricbid/auction-platform/external/cricfeed"
	"github.com/cricbid/auction-platform/internal/config"
	"github.com/cricbid/auction-platform/internal/domain/auction"
	"github.com/cricbid/auction-platform/internal/domain/bid"
	"github.com/cricbid/auction-platform/internal/domain/player"
	"github.com/cricbid/auction-platform/internal/domain/team"
	"github.com/cricbid/auction-platform/internal/domain/tournament"
	"github.com/cricbid/auction-platform/internal/infrastructure/account/pavilion"
	"github.com/cricbid/auction-platform/internal/infrastructure/jobqueue"
	"github.com/cricbid/auction-platform/internal/infrastructure/repository/memory"
	"github.com/cricbid/auction-platform/internal/infrastructure/repository/postgres"
	"github.com/cricbid/auction-platform/internal/interfaces/httpapi"
	"github.com/cricbid/auction-platform/internal/platform/cache"
	idgen "github.com/cricbid/auction-platform/internal/platform/id"
	"github.com/cricbid/auction-platform/internal/platform/logging"
	"github.com/cricbid/auction-platform/internal/platform/resilience"
	"github.com/cricbid/auction-platform/internal/realtime"
	"github.com/cricbid/auction-platform/internal/session"
	"github.com/cricbid/auction-platform/internal/usecase"
)

// App holds the assembled service and the pieces that need an ordered
// shutdown.
type App struct {
	Server *http.Server

	registry *session.Registry
	db       *sqlx.DB
	logger   *slog.Logger
}

type repositories struct {
	tournaments tournament.Repository
	teams       team.Repository
	players     player.Repository
	auctions    auction.Repository
	bids        bid.Repository
}

func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	repos, db, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	hub := realtime.NewHub(16)

	var broadcaster session.Broadcaster = hub
	if cfg.QStashEnabled {
		publisher := jobqueue.NewWebhookPublisher(jobqueue.WebhookPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			Timeout:          cfg.QStashTimeout,
		}, logger)
		broadcaster = jobqueue.NewEventNotifier(hub, publisher, logger)
	}

	gen := idgen.NewRandomGenerator()
	registry := session.NewRegistry(session.Stores{
		Auctions: repos.auctions,
		Bids:     repos.bids,
		Teams:    repos.teams,
		Players:  repos.players,
	}, broadcaster, gen, logger, session.Config{
		SubmitTimeout: cfg.SessionSubmitTimeout,
		InboxSize:     cfg.SessionInboxSize,
		TickInterval:  cfg.SessionTickInterval,
	})

	snapshots := cache.NewStore(cfg.CacheTTL)

	auctionSvc := usecase.NewAuctionService(repos.auctions, repos.bids, registry, hub, snapshots, logger)
	bidSvc := usecase.NewBidService(repos.auctions, repos.teams, registry, snapshots, logger)
	tournamentSvc := usecase.NewTournamentService(repos.tournaments, repos.teams, repos.players)

	var feedProvider usecase.PlayerFeedProvider
	if cfg.CricFeedEnabled {
		feedProvider = cricfeed.NewClient(cricfeed.ClientConfig{
			BaseURL:    cfg.CricFeedBaseURL,
			Token:      cfg.CricFeedToken,
			Timeout:    cfg.CricFeedTimeout,
			MaxRetries: cfg.CricFeedMaxRetries,
			Workers:    cfg.CricFeedWorkers,
			Logger:     logging.Default(),
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.CricFeedCircuitEnabled,
				FailureThreshold: cfg.CricFeedCircuitFailures,
				OpenTimeout:      cfg.CricFeedCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.CricFeedCircuitHalfOpenReq,
			},
		})
	}
	feedImportSvc := usecase.NewFeedImportService(feedProvider, repos.players, repos.tournaments, logger)

	verifier := pavilion.NewClient(pavilion.ClientConfig{
		HTTPClient:     &http.Client{Timeout: cfg.PavilionTimeout},
		BaseURL:        cfg.PavilionBaseURL,
		IntrospectPath: cfg.PavilionIntrospectPath,
		CacheTTL:       cfg.PavilionCacheTTL,
		CacheMaxSize:   cfg.PavilionCacheMaxSize,
		Logger:         logger,
	})

	handler := httpapi.NewHandler(auctionSvc, bidSvc, tournamentSvc, feedImportSvc, logger)
	router := httpapi.NewRouter(handler, verifier, gen, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Server:   server,
		registry: registry,
		db:       db,
		logger:   logger,
	}, nil
}

// Shutdown drains the HTTP server, stops every live auction session and
// closes the database pool.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Server.Shutdown(ctx)

	a.registry.Shutdown()

	if a.db != nil {
		if closeErr := a.db.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}

	return err
}

func buildRepositories(cfg config.Config, logger *slog.Logger) (repositories, *sqlx.DB, error) {
	if cfg.UseMemoryRepositories() {
		logger.Info("using in-memory repositories", "reason", "DB_URL empty")
		return repositories{
			tournaments: memory.NewTournamentRepository(memory.SeedTournaments()),
			teams:       memory.NewTeamRepository(memory.SeedTeams()),
			players:     memory.NewPlayerRepository(memory.SeedPlayers()),
			auctions:    memory.NewAuctionRepository(memory.SeedAuctions()),
			bids:        memory.NewBidRepository(),
		}, nil, nil
	}

	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("connect database: %w", err)
	}

	logger.Info("connected to postgres", "db", dbNameFromURL(cfg.DBURL))

	return repositories{
		tournaments: postgres.NewTournamentRepository(db),
		teams:       postgres.NewTeamRepository(db),
		players:     postgres.NewPlayerRepository(db),
		auctions:    postgres.NewAuctionRepository(db),
		bids:        postgres.NewBidRepository(db),
	}, db, nil
}
