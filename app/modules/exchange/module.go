package exchange

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	exchangeservice "github.com/Black-And-White-Club/frolf-fantasy/app/modules/exchange/application"
	exchangehandlers "github.com/Black-And-White-Club/frolf-fantasy/app/modules/exchange/infrastructure/handlers"
	tournamentdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/observability"
	"github.com/Black-And-White-Club/frolf-fantasy/config"
	"github.com/jonboulle/clockwork"
	"github.com/uptrace/bun"
)

// Module represents the exchange window module.
type Module struct {
	Service    exchangeservice.Service
	Gate       *exchangeservice.Gate
	Handlers   *exchangehandlers.ExchangeHandlers
	cancelFunc context.CancelFunc
	logger     *slog.Logger
}

// NewModule creates the exchange module. standings is normally the scoring
// repository.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	db *bun.DB,
	tournaments tournamentdb.Repository,
	standings exchangeservice.StandingsReader,
	clock clockwork.Clock,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "Initializing exchange module")

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load exchange timezone: %w", err)
	}

	service := exchangeservice.NewExchangeService(tournaments, standings, loc, logger, obs.Metrics, obs.Tracer, db)

	return &Module{
		Service:  service,
		Gate:     exchangeservice.NewGate(service, clock),
		Handlers: exchangehandlers.NewExchangeHandlers(service, clock, logger),
		logger:   logger,
	}, nil
}

// Run starts the exchange module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting exchange module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Exchange module goroutine stopped")
}

// Close stops the exchange module.
func (m *Module) Close() error {
	m.logger.Info("Stopping exchange module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
