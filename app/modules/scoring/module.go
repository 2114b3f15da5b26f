package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	scoringservice "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/application"
	scoringdomain "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/domain"
	scoringhandlers "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/infrastructure/handlers"
	resultsprovider "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/infrastructure/provider"
	scoringqueue "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/infrastructure/queue"
	scoringdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/infrastructure/repositories"
	scoringrouter "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/infrastructure/router"
	tournamentdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/attr"
	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/observability"
	"github.com/Black-And-White-Club/frolf-fantasy/config"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jonboulle/clockwork"
	"github.com/nats-io/nats.go"
	"github.com/uptrace/bun"
)

// Module represents the scoring module: the scoring service, its HTTP edge and
// the NATS -> watermill -> River ingestion pipeline.
type Module struct {
	Service      scoringservice.Service
	Handlers     *scoringhandlers.HTTPHandlers
	QueueService scoringqueue.QueueService
	Router       *scoringrouter.ScoringRouter
	cancelFunc   context.CancelFunc
	logger       *slog.Logger
}

// NewModule creates the scoring module. nc may be nil, in which case result
// notifications are not consumed and rounds arrive only through uploads.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	db *bun.DB,
	repo scoringdb.Repository,
	tournaments tournamentdb.Repository,
	rosters scoringservice.RosterReader,
	router *message.Router,
	pubsub PubSub,
	nc *nats.Conn,
	clock clockwork.Clock,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "Initializing scoring module")

	weights, err := scoringdomain.NewLevelWeights(cfg.Scoring.LevelWeights, cfg.Scoring.DefaultWeight)
	if err != nil {
		return nil, fmt.Errorf("invalid scoring weights: %w", err)
	}

	service := scoringservice.NewScoringService(repo, tournaments, rosters, weights, nil, clock, logger, obs.Metrics, obs.Tracer, db)

	provider := resultsprovider.NewClient(resultsprovider.Config{
		BaseURL:           cfg.ResultsProvider.BaseURL,
		APIKey:            cfg.ResultsProvider.APIKey,
		Timeout:           cfg.ResultsProvider.Timeout,
		RequestsPerSecond: cfg.ResultsProvider.RequestsPerSecond,
		Burst:             cfg.ResultsProvider.Burst,
	}, nil, logger)

	worker := scoringqueue.NewScoreRoundWorker(logger, tournaments, provider, service, clock, cfg.Queue.SnoozeFor)

	queueService, err := scoringqueue.NewService(ctx, logger, cfg.Postgres.DSN, cfg.Queue.MaxWorkers, obs.Metrics, worker)
	if err != nil {
		return nil, fmt.Errorf("failed to create scoring queue: %w", err)
	}

	var subscriber scoringrouter.Subscriber
	if nc != nil {
		subscriber = nc
	}
	scoringRouter := scoringrouter.NewScoringRouter(logger, router, pubsub, pubsub, subscriber)
	if err := scoringRouter.Configure(scoringhandlers.NewScoringHandlers(queueService, logger)); err != nil {
		return nil, fmt.Errorf("failed to configure scoring router: %w", err)
	}

	return &Module{
		Service:      service,
		Handlers:     scoringhandlers.NewHTTPHandlers(service, logger),
		QueueService: queueService,
		Router:       scoringRouter,
		logger:       logger,
	}, nil
}

// PubSub is the in-process transport between the NATS bridge and the handler.
type PubSub interface {
	message.Publisher
	message.Subscriber
}

// Run starts the queue, the NATS bridge and the watermill router, and blocks
// until ctx is done.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting scoring module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if err := m.QueueService.Start(ctx); err != nil {
		m.logger.ErrorContext(ctx, "Failed to start scoring queue", attr.Error(err))
		return
	}
	if err := m.Router.StartBridge(); err != nil {
		m.logger.ErrorContext(ctx, "Failed to start result bridge", attr.Error(err))
		return
	}

	if err := m.Router.Run(ctx); err != nil {
		m.logger.ErrorContext(ctx, "Scoring router stopped with error", attr.Error(err))
	}
	m.logger.InfoContext(ctx, "Scoring module goroutine stopped")
}

// Close stops the router and drains the queue.
func (m *Module) Close(ctx context.Context) error {
	m.logger.Info("Stopping scoring module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	var errs []error
	if err := m.Router.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error stopping router: %w", err))
	}
	if err := m.QueueService.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("error stopping queue: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	m.logger.Info("Scoring module stopped")
	return nil
}
