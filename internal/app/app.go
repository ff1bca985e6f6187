package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/fantasy-hockey/external/jobqueue"
	"github.com/riskibarqy/fantasy-hockey/external/nhl"
	"github.com/riskibarqy/fantasy-hockey/internal/config"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/league"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/roster"
	"github.com/riskibarqy/fantasy-hockey/internal/domain/scoring"
	rcache "github.com/riskibarqy/fantasy-hockey/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fantasy-hockey/internal/infrastructure/repository/livecache"
	"github.com/riskibarqy/fantasy-hockey/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-hockey/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fantasy-hockey/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/fantasy-hockey/internal/platform/cache"
	"github.com/riskibarqy/fantasy-hockey/internal/platform/logging"
	"github.com/riskibarqy/fantasy-hockey/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-hockey/internal/usecase"
)

// App owns the HTTP server and the external resources it depends on.
type App struct {
	Server *http.Server

	db       *sqlx.DB
	liveSink *livecache.RedisSink
	logger   *logging.Logger
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	a := &App{logger: logger}

	leagueRepo, rosterRepo, scoreRepo, err := a.buildRepositories(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		leagueRepo = rcache.NewLeagueRepository(leagueRepo, store)
		rosterRepo = rcache.NewRosterRepository(rosterRepo, store)
		scoreRepo = rcache.NewScoringRepository(scoreRepo, store)
	}

	var sink usecase.LiveSnapshotSink
	if cfg.RedisEnabled {
		redisSink, err := livecache.NewRedisSink(cfg.RedisAddr, cfg.RedisSnapshotTTL)
		if err != nil {
			a.closeResources()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.liveSink = redisSink
		sink = redisSink
	}

	source := nhl.NewClient(nhl.ClientConfig{
		BaseURL:    cfg.NHLBaseURL,
		Timeout:    cfg.NHLTimeout,
		MaxRetries: cfg.NHLMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.NHLCircuitEnabled,
			FailureThreshold: cfg.NHLCircuitFailureCount,
			OpenTimeout:      cfg.NHLCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.NHLCircuitHalfOpenMaxReq,
		},
	})

	var queue usecase.JobQueue = usecase.NoopJobQueue{}
	if cfg.QStashEnabled {
		queue = jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
		}, logger)
	}

	zone := cfg.ScoringZone()
	scoringSvc := usecase.NewScoringService(leagueRepo, rosterRepo, scoreRepo, source, sink, zone, cfg.GameFetchDelay, logger)
	leagueSvc := usecase.NewLeagueService(leagueRepo, rosterRepo)
	reprocessSvc := usecase.NewReprocessService(scoringSvc, zone, cfg.ReprocessWorkers, logger)
	orchestrator := usecase.NewJobOrchestratorService(
		leagueRepo,
		scoringSvc,
		queue,
		zone,
		cfg.JobDailyInterval,
		cfg.JobLiveInterval,
		logger,
	)

	healthChecks := map[string]httpapi.HealthChecker{}
	if a.db != nil {
		healthChecks["postgres"] = dbHealthChecker{db: a.db}
	}
	if a.liveSink != nil {
		healthChecks["redis"] = a.liveSink
	}

	handler := httpapi.NewHandler(leagueSvc, scoringSvc, reprocessSvc, orchestrator, healthChecks, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if a.Server.Addr == "" {
		a.closeResources()
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return a, nil
}

func (a *App) buildRepositories(cfg config.Config) (league.Repository, roster.Repository, scoring.Repository, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := otelsqlx.Connect("postgres", cfg.DBURL,
			otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
			otelsql.WithQueryFormatter(traceQuery),
		)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.db = db
		return postgres.NewLeagueRepository(db), postgres.NewRosterRepository(db), postgres.NewScoringRepository(db), nil
	case config.StoreDriverMemory:
		return memory.NewLeagueRepository(memory.SeedLeagues()),
			memory.NewRosterRepository(memory.SeedRoster()),
			memory.NewScoringRepository(),
			nil
	default:
		return nil, nil, nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

// Close releases the database and Redis connections. The HTTP server is
// shut down by the caller before Close.
func (a *App) Close() error {
	return a.closeResources()
}

func (a *App) closeResources() error {
	var firstErr error
	if a.liveSink != nil {
		if err := a.liveSink.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		a.liveSink = nil
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		a.db = nil
	}

	return firstErr
}

type dbHealthChecker struct {
	db *sqlx.DB
}

func (c dbHealthChecker) HealthCheck(ctx context.Context) error {
	return c.db.PingContext(ctx)
}
