package scoringqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/attr"
	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivertype"
)

const (
	queueName     = "scoring"
	componentName = "river"
)

// Enqueuer schedules score_round jobs.
type Enqueuer interface {
	EnqueueScoreRound(ctx context.Context, job ScoreRoundJob) error
}

// QueueService defines the contract for the scoring job queue.
type QueueService interface {
	Enqueuer
	HealthCheck(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Service runs score_round jobs on River.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	metrics metrics.OperationMetrics
}

// NewService creates a River client with the score_round worker registered.
func NewService(ctx context.Context, logger *slog.Logger, dsn string, maxWorkers int, m metrics.OperationMetrics, worker *ScoreRoundWorker) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("operation", "new_scoring_queue_service"),
		attr.String("component", "river_queue"),
	)

	start := time.Now()
	m.RecordOperationAttempt(ctx, "initialize_service", componentName)

	ctxLogger.Info("Initializing scoring queue service")

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		m.RecordOperationFailure(ctx, "initialize_service", componentName)
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		m.RecordOperationFailure(ctx, "initialize_service", componentName)
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		m.RecordOperationFailure(ctx, "initialize_service", componentName)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if maxWorkers <= 0 {
		maxWorkers = 10
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, worker)

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 5},
			queueName:          {MaxWorkers: maxWorkers},
		},
		Workers: workers,
	})
	if err != nil {
		pool.Close()
		m.RecordOperationFailure(ctx, "initialize_service", componentName)
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	m.RecordOperationSuccess(ctx, "initialize_service", componentName)
	m.RecordOperationDuration(ctx, "initialize_service", componentName, time.Since(start))

	ctxLogger.Info("Scoring queue service initialized")
	return &Service{
		client:  riverClient,
		pool:    pool,
		logger:  logger.With(attr.String("component", "river_queue")),
		metrics: m,
	}, nil
}

// Start starts processing jobs.
func (s *Service) Start(ctx context.Context) error {
	s.logger.Info("Starting scoring queue service")
	if err := s.client.Start(ctx); err != nil {
		s.metrics.RecordOperationFailure(ctx, "start_service", componentName)
		return fmt.Errorf("failed to start River client: %w", err)
	}
	s.metrics.RecordOperationSuccess(ctx, "start_service", componentName)
	return nil
}

// Stop waits for running jobs and closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	s.logger.Info("Stopping scoring queue service")
	defer s.pool.Close()
	if err := s.client.Stop(ctx); err != nil {
		s.metrics.RecordOperationFailure(ctx, "stop_service", componentName)
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.metrics.RecordOperationSuccess(ctx, "stop_service", componentName)
	return nil
}

// scoreRoundInsertOpts collapses duplicates only while a job for the same args
// is still pending or in flight. A finished job never blocks a later
// notification for the round, which may carry corrected or final results.
func scoreRoundInsertOpts() *river.InsertOpts {
	return &river.InsertOpts{
		Queue: queueName,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
			ByState: []rivertype.JobState{
				rivertype.JobStateAvailable,
				rivertype.JobStatePending,
				rivertype.JobStateRetryable,
				rivertype.JobStateRunning,
				rivertype.JobStateScheduled,
			},
		},
	}
}

// EnqueueScoreRound inserts a score_round job. Args already waiting or running collapse into that job.
func (s *Service) EnqueueScoreRound(ctx context.Context, job ScoreRoundJob) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "enqueue_score_round", componentName)

	ctxLogger := s.logger.With(
		attr.String("operation", "enqueue_score_round"),
		attr.String("competition_id", job.CompetitionID),
		attr.Int("round", job.Round),
		attr.String("division", job.Division),
	)

	res, err := s.client.Insert(ctx, job, scoreRoundInsertOpts())
	if err != nil {
		ctxLogger.Error("Failed to enqueue score_round job", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "enqueue_score_round", componentName)
		return fmt.Errorf("failed to enqueue score_round job: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "enqueue_score_round", componentName)
	s.metrics.RecordOperationDuration(ctx, "enqueue_score_round", componentName, time.Since(start))

	ctxLogger.Info("Score round job enqueued",
		attr.Int64("job_id", res.Job.ID),
		attr.Bool("duplicate", res.UniqueSkippedAsDuplicate),
	)
	return nil
}

// HealthCheck verifies the queue's database pool is reachable.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("river client is nil")
	}
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("queue service health check failed: %w", err)
	}
	return nil
}
