package exchangeservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	exchangedomain "github.com/Black-And-White-Club/frolf-fantasy/app/modules/exchange/domain"
	scoringdomain "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/domain"
	tournamentdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type (
	statusResult = results.OperationResult[exchangedomain.Status, error]
	begunResult  = results.OperationResult[bool, error]
)

// ExchangeStatus evaluates the schedule and resolves the caller's verdict.
func (s *ExchangeService) ExchangeStatus(ctx context.Context, userID, tournamentID uuid.UUID, now time.Time, isAdmin bool) (exchangedomain.Status, error) {
	statusTx := func(ctx context.Context, db bun.IDB) (statusResult, error) {
		return s.exchangeStatusLogic(ctx, db, userID, tournamentID, now, isAdmin)
	}

	result, err := withTelemetry(s, ctx, "ExchangeStatus", tournamentID.String(), func(ctx context.Context) (statusResult, error) {
		return runInTx(s, ctx, statusTx)
	})
	return unwrap(result, err)
}

func (s *ExchangeService) exchangeStatusLogic(ctx context.Context, db bun.IDB, userID, tournamentID uuid.UUID, now time.Time, isAdmin bool) (statusResult, error) {
	tournament, err := s.tournaments.GetTournament(ctx, db, tournamentID)
	if err != nil {
		if errors.Is(err, tournamentdb.ErrNotFound) {
			return results.FailureResult[exchangedomain.Status, error](ErrTournamentNotFound), nil
		}
		return statusResult{}, fmt.Errorf("failed to load tournament: %w", err)
	}

	privileged := isAdmin || tournament.OwnerID == userID
	if privileged {
		return results.SuccessResult[exchangedomain.Status, error](exchangedomain.Status{Kind: exchangedomain.AllowedToExchange}), nil
	}

	sched, err := s.schedule(ctx, db, tournamentID, now)
	if err != nil {
		return statusResult{}, err
	}
	return results.SuccessResult[exchangedomain.Status, error](sched.StatusFor(userID, false)), nil
}

// HasExchangeBegun reports whether rotation has started for the tournament.
func (s *ExchangeService) HasExchangeBegun(ctx context.Context, tournamentID uuid.UUID, now time.Time) (bool, error) {
	begunTx := func(ctx context.Context, db bun.IDB) (begunResult, error) {
		return s.hasExchangeBegunLogic(ctx, db, tournamentID, now)
	}

	result, err := withTelemetry(s, ctx, "HasExchangeBegun", tournamentID.String(), func(ctx context.Context) (begunResult, error) {
		return runInTx(s, ctx, begunTx)
	})
	return unwrap(result, err)
}

func (s *ExchangeService) hasExchangeBegunLogic(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, now time.Time) (begunResult, error) {
	if _, err := s.tournaments.GetTournament(ctx, db, tournamentID); err != nil {
		if errors.Is(err, tournamentdb.ErrNotFound) {
			return results.FailureResult[bool, error](ErrTournamentNotFound), nil
		}
		return begunResult{}, fmt.Errorf("failed to load tournament: %w", err)
	}

	sched, err := s.schedule(ctx, db, tournamentID, now)
	if err != nil {
		return begunResult{}, err
	}
	return results.SuccessResult[bool, error](sched.HasBegun(now)), nil
}

// schedule loads competitions and standings and evaluates them at now.
func (s *ExchangeService) schedule(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, now time.Time) (exchangedomain.Schedule, error) {
	rows, err := s.tournaments.ListCompetitions(ctx, db, tournamentID)
	if err != nil {
		return exchangedomain.Schedule{}, fmt.Errorf("failed to list competitions: %w", err)
	}

	competitions := make([]exchangedomain.Competition, 0, len(rows))
	for _, c := range rows {
		competitions = append(competitions, toDomainCompetition(c))
	}

	standingRows, err := s.standings.ListStandings(ctx, db, tournamentID)
	if err != nil {
		return exchangedomain.Schedule{}, fmt.Errorf("failed to list standings: %w", err)
	}
	standings := make([]scoringdomain.Standing, 0, len(standingRows))
	for _, row := range standingRows {
		standings = append(standings, scoringdomain.Standing{
			UserID:      row.UserID,
			DisplayName: row.DisplayName,
			Score:       row.Score,
		})
	}

	return exchangedomain.Evaluate(competitions, scoringdomain.RankStandings(standings), now, s.location), nil
}

func toDomainCompetition(c tournamentdb.Competition) exchangedomain.Competition {
	out := exchangedomain.Competition{StartDate: c.StartDate}
	switch c.Status {
	case tournamentdb.CompetitionRunning:
		out.Phase = exchangedomain.PhaseRunning
	case tournamentdb.CompetitionFinished:
		out.Phase = exchangedomain.PhaseFinished
		if c.CompletedAt != nil {
			out.CompletedAt = *c.CompletedAt
		}
	default:
		out.Phase = exchangedomain.PhaseNotStarted
	}
	return out
}
