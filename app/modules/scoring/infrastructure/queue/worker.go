package scoringqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	scoringservice "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/application"
	scoringdomain "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/domain"
	resultsprovider "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/infrastructure/provider"
	tournamentdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/attr"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/riverqueue/river"
	"github.com/uptrace/bun"
)

// RoundFetcher loads round results from the provider.
type RoundFetcher interface {
	FetchRound(ctx context.Context, eventID string, round int, division string) (*scoringdomain.RoundResult, error)
}

// CompetitionReader resolves a competition to its provider event id.
type CompetitionReader interface {
	GetCompetition(ctx context.Context, db bun.IDB, id uuid.UUID) (*tournamentdb.Competition, error)
}

// RoundScorer persists a fetched round.
type RoundScorer interface {
	ScoreRound(ctx context.Context, competitionID uuid.UUID, round int, division string, result scoringdomain.RoundResult) (*scoringdomain.RoundSummary, error)
}

// ScoreRoundWorker fetches a round from the provider and scores it.
type ScoreRoundWorker struct {
	river.WorkerDefaults[ScoreRoundJob]
	competitions CompetitionReader
	fetcher      RoundFetcher
	scorer       RoundScorer
	clock        clockwork.Clock
	snooze       time.Duration
	logger       *slog.Logger
}

// NewScoreRoundWorker creates the worker. Rounds the provider has not published
// yet are snoozed for the given duration.
func NewScoreRoundWorker(logger *slog.Logger, competitions CompetitionReader, fetcher RoundFetcher, scorer RoundScorer, clock clockwork.Clock, snooze time.Duration) *ScoreRoundWorker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if snooze <= 0 {
		snooze = 5 * time.Minute
	}
	return &ScoreRoundWorker{
		competitions: competitions,
		fetcher:      fetcher,
		scorer:       scorer,
		clock:        clock,
		snooze:       snooze,
		logger:       logger,
	}
}

// Work runs one score_round job.
func (w *ScoreRoundWorker) Work(ctx context.Context, job *river.Job[ScoreRoundJob]) error {
	start := w.clock.Now()
	args := job.Args
	logger := w.logger.With(
		attr.String("operation", "score_round_job"),
		attr.Int64("job_id", job.ID),
		attr.String("competition_id", args.CompetitionID),
		attr.Int("round", args.Round),
		attr.String("division", args.Division),
	)

	competitionID, err := uuid.Parse(args.CompetitionID)
	if err != nil {
		logger.Error("Invalid competition id in job", attr.Error(err))
		return river.JobCancel(fmt.Errorf("invalid competition id: %w", err))
	}

	comp, err := w.competitions.GetCompetition(ctx, nil, competitionID)
	if err != nil {
		if errors.Is(err, tournamentdb.ErrNotFound) {
			logger.Warn("Competition no longer exists, cancelling job")
			return river.JobCancel(err)
		}
		return fmt.Errorf("failed to load competition: %w", err)
	}

	result, err := w.fetcher.FetchRound(ctx, comp.ExternalID, args.Round, args.Division)
	if err != nil {
		if errors.Is(err, resultsprovider.ErrRoundNotAvailable) {
			logger.Info("Round not published yet, snoozing", attr.Duration("snooze", w.snooze))
			return river.JobSnooze(w.snooze)
		}
		logger.Error("Failed to fetch round results", attr.Error(err))
		return err
	}

	summary, err := w.scorer.ScoreRound(ctx, competitionID, args.Round, args.Division, *result)
	if err != nil {
		if errors.Is(err, scoringservice.ErrCompetitionNotFound) || errors.Is(err, scoringservice.ErrInvalidRound) {
			logger.Warn("Round rejected by scoring, cancelling job", attr.Error(err))
			return river.JobCancel(err)
		}
		logger.Error("Failed to score round", attr.Error(err))
		return err
	}

	logger.Info("Round scored",
		attr.Int("players_scored", summary.PlayersScored),
		attr.Int("entries_written", summary.EntriesWritten),
		attr.Int("players_skipped", summary.PlayersSkipped),
		attr.Bool("final", result.Final),
		attr.Duration("elapsed", w.clock.Since(start)),
	)
	return nil
}
