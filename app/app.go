// Package app wires configuration, infrastructure and modules into a running
// service.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Black-And-White-Club/frolf-fantasy/app/modules/auth"
	"github.com/Black-And-White-Club/frolf-fantasy/app/modules/exchange"
	"github.com/Black-And-White-Club/frolf-fantasy/app/modules/roster"
	rosterdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/roster/infrastructure/repositories"
	"github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring"
	scoringqueue "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/infrastructure/queue"
	scoringdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/infrastructure/repositories"
	tournamentdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/attr"
	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/observability"
	"github.com/Black-And-White-Club/frolf-fantasy/config"
	"github.com/Black-And-White-Club/frolf-fantasy/internal/dbmigrate"
	natsutil "github.com/Black-And-White-Club/frolf-fantasy/internal/nats"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jonboulle/clockwork"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const shutdownTimeout = 10 * time.Second

// Options tweak startup.
type Options struct {
	// Migrate applies pending schema migrations before the modules start.
	Migrate bool
}

// App holds the infrastructure and the modules built on it.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	DB            *bun.DB
	NATS          *nats.Conn
	Clock         clockwork.Clock

	AuthModule     *auth.Module
	ExchangeModule *exchange.Module
	RosterModule   *roster.Module
	ScoringModule  *scoring.Module

	HTTPRouter chi.Router
	pubsub     *gochannel.GoChannel
	server     *http.Server
	wg         sync.WaitGroup
}

// OpenDB opens the bun database over pgdriver.
func OpenDB(dsn string) *bun.DB {
	return bun.NewDB(sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn))), pgdialect.New())
}

// New builds the application. On error every resource opened so far is closed.
func New(ctx context.Context, cfg *config.Config, obs observability.Observability, opts Options) (_ *App, err error) {
	logger := obs.Logger
	a := &App{
		Config:        cfg,
		Observability: obs,
		Clock:         clockwork.NewRealClock(),
	}
	defer func() {
		if err != nil {
			a.closeInfrastructure()
		}
	}()

	a.DB = OpenDB(cfg.Postgres.DSN)
	if err := a.DB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if opts.Migrate {
		if err := dbmigrate.Up(ctx, a.DB); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.InfoContext(ctx, "Database migrations applied")
	}
	if cfg.Queue.MigrateRiver {
		if err := scoringqueue.Migrate(ctx, logger, cfg.Postgres.DSN); err != nil {
			return nil, err
		}
	}

	a.NATS, err = natsutil.Connect(natsutil.Config{
		URL:      cfg.NATS.URL,
		NKeySeed: cfg.NATS.NKeySeed,
		Name:     cfg.Observability.ServiceName,
	}, logger)
	if err != nil {
		return nil, err
	}

	wmLogger := watermill.NewSlogLogger(logger)
	a.pubsub = gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, wmLogger)
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: shutdownTimeout}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create message router: %w", err)
	}

	tournaments := tournamentdb.NewRepository(a.DB)
	scores := scoringdb.NewRepository(a.DB)
	rosters := rosterdb.NewRepository(a.DB)

	a.AuthModule = auth.NewModule(ctx, cfg, logger, a.Clock)

	a.ExchangeModule, err = exchange.NewModule(ctx, cfg, obs, a.DB, tournaments, scores, a.Clock)
	if err != nil {
		return nil, fmt.Errorf("failed to create exchange module: %w", err)
	}

	a.RosterModule, err = roster.NewModule(ctx, cfg, obs, a.DB, rosters, tournaments, a.ExchangeModule.Gate, a.Clock)
	if err != nil {
		return nil, fmt.Errorf("failed to create roster module: %w", err)
	}

	a.ScoringModule, err = scoring.NewModule(ctx, cfg, obs, a.DB, scores, tournaments, rosters, router, a.pubsub, a.NATS, a.Clock)
	if err != nil {
		return nil, fmt.Errorf("failed to create scoring module: %w", err)
	}

	a.HTTPRouter = a.routes()
	a.server = &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           a.HTTPRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a, nil
}

func (a *App) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", a.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(a.Observability.Registry, promhttp.HandlerOpts{}))

	a.AuthModule.Mount(r,
		a.ScoringModule.Handlers,
		a.ExchangeModule.Handlers,
		a.RosterModule.Handlers,
	)
	return r
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := a.DB.PingContext(ctx); err != nil {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	if err := a.ScoringModule.QueueService.HealthCheck(ctx); err != nil {
		http.Error(w, "queue unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Run starts the modules and the HTTP server and blocks until ctx is done,
// then shuts everything down.
func (a *App) Run(ctx context.Context) error {
	logger := a.Observability.Logger

	a.wg.Add(4)
	go a.AuthModule.Run(ctx, &a.wg)
	go a.ExchangeModule.Run(ctx, &a.wg)
	go a.RosterModule.Run(ctx, &a.wg)
	go a.ScoringModule.Run(ctx, &a.wg)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", attr.String("address", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown requested")
	case err := <-serveErr:
		runErr = fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return errors.Join(runErr, a.Close(shutdownCtx))
}

// Close stops the server and modules, then releases infrastructure.
func (a *App) Close(ctx context.Context) error {
	logger := a.Observability.Logger
	var errs []error

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	if a.ScoringModule != nil {
		if err := a.ScoringModule.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	for _, m := range []interface{ Close() error }{a.RosterModule, a.ExchangeModule, a.AuthModule} {
		if err := m.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		logger.Warn("Timed out waiting for modules to stop")
	}

	a.closeInfrastructure()
	logger.Info("Application shut down")
	return errors.Join(errs...)
}

func (a *App) closeInfrastructure() {
	logger := a.Observability.Logger
	if a.pubsub != nil {
		if err := a.pubsub.Close(); err != nil {
			logger.Warn("Failed to close pubsub", attr.Error(err))
		}
	}
	if a.NATS != nil {
		if err := a.NATS.Drain(); err != nil {
			logger.Warn("Failed to drain NATS connection", attr.Error(err))
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			logger.Warn("Failed to close database", attr.Error(err))
		}
	}
}
