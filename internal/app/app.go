package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/survivorfc/lastman/external/jobqueue"
	"github.com/survivorfc/lastman/external/resultsfeed"
	"github.com/survivorfc/lastman/internal/config"
	"github.com/survivorfc/lastman/internal/domain/competition"
	"github.com/survivorfc/lastman/internal/domain/fixture"
	"github.com/survivorfc/lastman/internal/domain/pick"
	"github.com/survivorfc/lastman/internal/domain/player"
	domainstandings "github.com/survivorfc/lastman/internal/domain/standings"
	cacherepo "github.com/survivorfc/lastman/internal/infrastructure/repository/cache"
	"github.com/survivorfc/lastman/internal/infrastructure/repository/memory"
	"github.com/survivorfc/lastman/internal/infrastructure/repository/postgres"
	"github.com/survivorfc/lastman/internal/interfaces/httpapi"
	"github.com/survivorfc/lastman/internal/platform/cache"
	idgen "github.com/survivorfc/lastman/internal/platform/id"
	"github.com/survivorfc/lastman/internal/platform/logging"
	"github.com/survivorfc/lastman/internal/platform/resilience"
	"github.com/survivorfc/lastman/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

// App holds the wired HTTP server and the background sweeper. Close releases
// the database handle when one was opened.
type App struct {
	Server  *http.Server
	Sweeper *Sweeper

	db     *sqlx.DB
	logger *logging.Logger
}

type repositories struct {
	picks     pick.Repository
	players   player.Repository
	fixtures  fixture.Repository
	settings  competition.SettingsRepository
	standings domainstandings.Repository
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	location, err := time.LoadLocation(cfg.CompetitionTimezone)
	if err != nil {
		return nil, fmt.Errorf("load competition timezone %q: %w", cfg.CompetitionTimezone, err)
	}

	repos, db, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	var deadlineStore, statusStore *cache.Store
	if cfg.CacheEnabled {
		deadlineStore = cache.NewStore(cfg.DeadlineCacheTTL)
		statusStore = cache.NewStore(cfg.PickStatusCacheTTL)

		repoStore := cache.NewStore(cfg.CacheTTL)
		repos.fixtures = cacherepo.NewFixtureRepository(repos.fixtures, repoStore)
		repos.settings = cacherepo.NewSettingsRepository(repos.settings, repoStore)
		repos.players = cacherepo.NewPlayerRepository(repos.players, repoStore)
	}

	deadlines := usecase.NewDeadlineService(repos.fixtures, deadlineStore, location, logger)
	registration := usecase.NewRegistrationService(repos.players, repos.settings, idgen.NewRandomGenerator(), logger)
	picks := usecase.NewPickService(repos.picks, repos.players, repos.fixtures, repos.settings, deadlines, statusStore, logger)
	fixtures := usecase.NewFixtureService(repos.fixtures, repos.settings, deadlines, logger)
	autopick := usecase.NewAutoPickService(repos.picks, repos.players, repos.fixtures, repos.settings, deadlines, statusStore, logger)
	standings := usecase.NewStandingsService(repos.picks, repos.players, repos.fixtures, repos.settings, repos.standings, logger)
	admin := usecase.NewAdminService(repos.players, repos.fixtures, repos.settings, deadlineStore, logger)

	var provider usecase.ResultsProvider
	if cfg.ResultsFeedEnabled {
		provider = resultsfeed.NewClient(resultsfeed.ClientConfig{
			BaseURL:    cfg.ResultsFeedBaseURL,
			Token:      cfg.ResultsFeedToken,
			Timeout:    cfg.ResultsFeedTimeout,
			MaxRetries: cfg.ResultsFeedMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.ResultsFeedCircuitEnabled,
				FailureThreshold: cfg.ResultsFeedCircuitFailureCount,
				OpenTimeout:      cfg.ResultsFeedCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.ResultsFeedCircuitHalfOpenMaxReq,
			},
		})
	}
	resultsSync := usecase.NewResultsSyncService(
		usecase.ResultsSyncConfig{Enabled: cfg.ResultsFeedEnabled},
		provider,
		repos.fixtures,
		repos.settings,
		standings,
		deadlineStore,
		logger,
	)

	var sweeps httpapi.SweepScheduler
	if cfg.QStashEnabled {
		sweeps = jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.QStashCircuitEnabled,
				FailureThreshold: cfg.QStashCircuitFailureCount,
				OpenTimeout:      cfg.QStashCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
			},
		}, logger)
	}

	handler := httpapi.NewHandler(
		registration,
		picks,
		fixtures,
		autopick,
		standings,
		admin,
		resultsSync,
		sweeps,
		cfg.AutopickWorkerCount,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{
		Server:  server,
		Sweeper: NewSweeper(autopick, cfg.SweepInterval, cfg.AutopickWorkerCount, logger),
		db:      db,
		logger:  logger,
	}, nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// buildRepositories picks the storage backend: Postgres when DB_URL is set,
// otherwise seeded in-memory repositories for local runs.
func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, *sqlx.DB, error) {
	if cfg.DBURL == "" {
		logger.Info("storage backend", "backend", "memory", "reason", "DB_URL empty")
		return repositories{
			picks:     memory.NewPickRepository(),
			players:   memory.NewPlayerRepository(memory.SeedPlayers()),
			fixtures:  memory.NewFixtureRepository(memory.SeedFixtures()),
			settings:  memory.NewSettingsRepository(memory.SeedSettings()),
			standings: memory.NewStandingsRepository(),
		}, nil, nil
	}

	db, err := otelsqlx.Connect("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("connect to postgres: %w", err)
	}

	logger.Info("storage backend", "backend", "postgres", "db_name", dbNameFromURL(cfg.DBURL))
	return repositories{
		picks:     postgres.NewPickRepository(db),
		players:   postgres.NewPlayerRepository(db),
		fixtures:  postgres.NewFixtureRepository(db),
		settings:  postgres.NewSettingsRepository(db),
		standings: postgres.NewStandingsRepository(db),
	}, db, nil
}
