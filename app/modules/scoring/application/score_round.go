package scoringservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	scoringdomain "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/domain"
	scoringdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/infrastructure/repositories"
	tournamentdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/attr"
	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type summaryResult = results.OperationResult[*scoringdomain.RoundSummary, error]

// ScoreRound scores every started player of a round and writes an entry for each
// user holding that player in an active slot.
func (s *ScoringService) ScoreRound(ctx context.Context, competitionID uuid.UUID, round int, division string, result scoringdomain.RoundResult) (*scoringdomain.RoundSummary, error) {
	scoreTx := func(ctx context.Context, db bun.IDB) (summaryResult, error) {
		return s.scoreRoundLogic(ctx, db, competitionID, round, division, result)
	}

	identifier := fmt.Sprintf("%s/%d/%s", competitionID, round, division)
	opResult, err := withTelemetry(s, ctx, "ScoreRound", identifier, func(ctx context.Context) (summaryResult, error) {
		return runInTx(s, ctx, scoreTx)
	})
	summary, err := unwrap(opResult, err)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordScoreEntries(ctx, division, summary.EntriesWritten)
	}
	return summary, nil
}

func (s *ScoringService) scoreRoundLogic(ctx context.Context, db bun.IDB, competitionID uuid.UUID, round int, division string, result scoringdomain.RoundResult) (summaryResult, error) {
	if round < 1 || strings.TrimSpace(division) == "" {
		return results.FailureResult[*scoringdomain.RoundSummary, error](
			fmt.Errorf("%w: round %d, division %q", ErrInvalidRound, round, division)), nil
	}

	comp, err := s.tournaments.GetCompetition(ctx, db, competitionID)
	if err != nil {
		if errors.Is(err, tournamentdb.ErrNotFound) {
			return results.FailureResult[*scoringdomain.RoundSummary, error](ErrCompetitionNotFound), nil
		}
		return summaryResult{}, fmt.Errorf("failed to load competition: %w", err)
	}

	weight, known := s.weights.For(comp.Level)
	if !known {
		s.logger.WarnContext(ctx, "Unknown competition level, using default weight",
			attr.ExtractCorrelationID(ctx),
			attr.String("level", comp.Level),
			attr.Any("weight", weight),
		)
	}

	summary := &scoringdomain.RoundSummary{}
	for _, player := range result.Players {
		if !player.Started {
			summary.PlayersSkipped++
			if err := s.clearRoundScores(ctx, db, comp.ID, round, player.PlayerID, summary); err != nil {
				return summaryResult{}, err
			}
			continue
		}

		points := scoringdomain.Score(player.Placement, weight)

		if err := s.repo.UpsertParticipant(ctx, db, &scoringdb.CompetitionParticipant{
			CompetitionID: comp.ID,
			PlayerID:      player.PlayerID,
			Division:      division,
		}); err != nil {
			return summaryResult{}, fmt.Errorf("failed to record participant %s: %w", player.PlayerID, err)
		}
		summary.PlayersScored++

		if points == 0 {
			if err := s.clearRoundScores(ctx, db, comp.ID, round, player.PlayerID, summary); err != nil {
				return summaryResult{}, err
			}
			continue
		}

		holders, err := s.rosters.ListActiveHolders(ctx, db, comp.TournamentID, division, player.PlayerID)
		if err != nil {
			return summaryResult{}, fmt.Errorf("failed to list holders of %s: %w", player.PlayerID, err)
		}

		for _, userID := range holders {
			key := scoringdb.ScoreKey{
				TournamentID:  comp.TournamentID,
				UserID:        userID,
				CompetitionID: comp.ID,
				Round:         round,
				PlayerID:      player.PlayerID,
			}
			written, err := s.writeUserScore(ctx, db, key, division, player.Placement, points)
			if err != nil {
				return summaryResult{}, err
			}
			if written {
				summary.EntriesWritten++
			}
		}
	}

	if err := s.advanceCompetition(ctx, db, comp, round, result); err != nil {
		return summaryResult{}, err
	}

	return results.SuccessResult[*scoringdomain.RoundSummary, error](summary), nil
}

// clearRoundScores drops entries left by an earlier scoring of the same round,
// whoever holds the player now.
func (s *ScoringService) clearRoundScores(ctx context.Context, db bun.IDB, competitionID uuid.UUID, round int, playerID string, summary *scoringdomain.RoundSummary) error {
	removed, err := s.repo.DeleteRoundScores(ctx, db, competitionID, round, playerID)
	if err != nil {
		return fmt.Errorf("failed to clear scores of %s: %w", playerID, err)
	}
	summary.EntriesRemoved += int(removed)
	return nil
}

// writeUserScore inserts or updates one entry and reports whether a row was written.
func (s *ScoringService) writeUserScore(ctx context.Context, db bun.IDB, key scoringdb.ScoreKey, division string, placement, points int) (bool, error) {
	existing, err := s.repo.GetUserRoundScore(ctx, db, key)
	switch {
	case errors.Is(err, scoringdb.ErrNotFound):
		if err := s.repo.InsertUserRoundScore(ctx, db, &scoringdb.UserRoundScore{
			TournamentID:  key.TournamentID,
			UserID:        key.UserID,
			CompetitionID: key.CompetitionID,
			Round:         key.Round,
			Division:      division,
			PlayerID:      key.PlayerID,
			Placement:     placement,
			Points:        points,
		}); err != nil {
			return false, fmt.Errorf("failed to insert score for user %s: %w", key.UserID, err)
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("failed to read score for user %s: %w", key.UserID, err)
	}

	if existing.Points == points && existing.Placement == placement {
		return false, nil
	}
	if err := s.repo.UpdateUserRoundScore(ctx, db, existing.ID, placement, points); err != nil {
		return false, fmt.Errorf("failed to update score for user %s: %w", key.UserID, err)
	}
	return true, nil
}

// advanceCompetition moves a competition to Running on its first result and to
// Finished once the final result of its last round arrives.
func (s *ScoringService) advanceCompetition(ctx context.Context, db bun.IDB, comp *tournamentdb.Competition, round int, result scoringdomain.RoundResult) error {
	switch {
	case comp.Status == tournamentdb.CompetitionFinished:
		return nil
	case result.Final && round >= comp.Rounds:
		completedAt := s.clock.Now().UTC()
		if result.CompletedAt != nil {
			completedAt = result.CompletedAt.UTC()
		}
		if err := s.tournaments.UpdateCompetitionStatus(ctx, db, comp.ID, tournamentdb.CompetitionFinished, &completedAt); err != nil {
			return fmt.Errorf("failed to finish competition: %w", err)
		}
		s.logger.InfoContext(ctx, "Competition finished",
			attr.ExtractCorrelationID(ctx),
			attr.UUID("competition_id", comp.ID),
			attr.Time("completed_at", completedAt),
		)
	case comp.Status == tournamentdb.CompetitionNotStarted && len(result.Players) > 0:
		if err := s.tournaments.UpdateCompetitionStatus(ctx, db, comp.ID, tournamentdb.CompetitionRunning, nil); err != nil {
			return fmt.Errorf("failed to start competition: %w", err)
		}
	}
	return nil
}
