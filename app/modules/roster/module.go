package roster

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	rosterservice "github.com/Black-And-White-Club/frolf-fantasy/app/modules/roster/application"
	rosterhandlers "github.com/Black-And-White-Club/frolf-fantasy/app/modules/roster/infrastructure/handlers"
	rosterdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/roster/infrastructure/repositories"
	tournamentdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/observability"
	"github.com/Black-And-White-Club/frolf-fantasy/config"
	"github.com/jonboulle/clockwork"
	"github.com/uptrace/bun"
)

// Module represents the roster module.
type Module struct {
	Service    rosterservice.Service
	Handlers   *rosterhandlers.RosterHandlers
	cancelFunc context.CancelFunc
	logger     *slog.Logger
}

// NewModule creates the roster module. gate is normally the exchange module's gate.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	db *bun.DB,
	repo rosterdb.Repository,
	tournaments tournamentdb.Repository,
	gate rosterservice.ExchangeGate,
	clock clockwork.Clock,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "Initializing roster module")

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load exchange timezone: %w", err)
	}

	service := rosterservice.NewRosterService(repo, tournaments, gate, clock, loc, logger, obs.Metrics, obs.Tracer, db)

	return &Module{
		Service:  service,
		Handlers: rosterhandlers.NewRosterHandlers(service, logger),
		logger:   logger,
	}, nil
}

// Run starts the roster module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting roster module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Roster module goroutine stopped")
}

// Close stops the roster module.
func (m *Module) Close() error {
	m.logger.Info("Stopping roster module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
