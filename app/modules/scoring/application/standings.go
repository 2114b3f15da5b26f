package scoringservice

import (
	"context"
	"errors"
	"fmt"

	scoringdomain "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/domain"
	tournamentdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type standingsResult = results.OperationResult[[]scoringdomain.Standing, error]

// ListStandings returns every member's standing, worst first.
func (s *ScoringService) ListStandings(ctx context.Context, tournamentID uuid.UUID) ([]scoringdomain.Standing, error) {
	listTx := func(ctx context.Context, db bun.IDB) (standingsResult, error) {
		return s.listStandingsLogic(ctx, db, tournamentID)
	}

	result, err := withTelemetry(s, ctx, "ListStandings", tournamentID.String(), func(ctx context.Context) (standingsResult, error) {
		return runInTx(s, ctx, listTx)
	})
	return unwrap(result, err)
}

func (s *ScoringService) listStandingsLogic(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) (standingsResult, error) {
	if _, err := s.tournaments.GetTournament(ctx, db, tournamentID); err != nil {
		if errors.Is(err, tournamentdb.ErrNotFound) {
			return results.FailureResult[[]scoringdomain.Standing, error](ErrTournamentNotFound), nil
		}
		return standingsResult{}, fmt.Errorf("failed to load tournament: %w", err)
	}

	rows, err := s.repo.ListStandings(ctx, db, tournamentID)
	if err != nil {
		return standingsResult{}, fmt.Errorf("failed to list standings: %w", err)
	}

	standings := make([]scoringdomain.Standing, 0, len(rows))
	for _, row := range rows {
		standings = append(standings, scoringdomain.Standing{
			UserID:      row.UserID,
			DisplayName: row.DisplayName,
			Score:       row.Score,
		})
	}
	return results.SuccessResult[[]scoringdomain.Standing, error](scoringdomain.RankStandings(standings)), nil
}
