package rosterservice

import (
	"context"
	"errors"
	"fmt"

	rosterdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/roster/infrastructure/repositories"
	tournamentdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type rosterResult = results.OperationResult[[]RosterSlot, error]

// ListRoster returns the user's division roster with player names resolved.
func (s *RosterService) ListRoster(ctx context.Context, tournamentID, userID uuid.UUID, division string) ([]RosterSlot, error) {
	listTx := func(ctx context.Context, db bun.IDB) (rosterResult, error) {
		return s.listRosterLogic(ctx, db, rosterdb.RosterKey{TournamentID: tournamentID, UserID: userID, Division: division})
	}

	identifier := fmt.Sprintf("%s/%s/%s", tournamentID, userID, division)
	result, err := withTelemetry(s, ctx, "ListRoster", identifier, func(ctx context.Context) (rosterResult, error) {
		return runInTx(s, ctx, listTx)
	})
	return unwrap(result, err)
}

func (s *RosterService) listRosterLogic(ctx context.Context, db bun.IDB, key rosterdb.RosterKey) (rosterResult, error) {
	if _, err := s.tournaments.GetTournament(ctx, db, key.TournamentID); err != nil {
		if errors.Is(err, tournamentdb.ErrNotFound) {
			return results.FailureResult[[]RosterSlot, error](newTradeError(KindNotFound, "tournament "+key.TournamentID.String())), nil
		}
		return rosterResult{}, fmt.Errorf("failed to load tournament: %w", err)
	}

	slots, err := s.repo.ListRoster(ctx, db, key)
	if err != nil {
		return rosterResult{}, fmt.Errorf("failed to list roster: %w", err)
	}

	ids := make([]string, 0, len(slots))
	for _, slot := range slots {
		ids = append(ids, slot.PlayerID)
	}
	names, err := s.playerNames(ctx, db, ids)
	if err != nil {
		return rosterResult{}, err
	}

	out := make([]RosterSlot, 0, len(slots))
	for _, slot := range slots {
		out = append(out, RosterSlot{
			SlotNumber: slot.SlotNumber,
			PlayerID:   slot.PlayerID,
			PlayerName: nameOr(names, slot.PlayerID),
			Benched:    slot.Benched,
		})
	}
	return results.SuccessResult[[]RosterSlot, error](out), nil
}

func (s *RosterService) playerNames(ctx context.Context, db bun.IDB, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	players, err := s.tournaments.GetPlayersByIDs(ctx, db, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	for _, p := range players {
		names[p.ID] = p.Name
	}
	return names, nil
}

func nameOr(names map[string]string, id string) string {
	if name := names[id]; name != "" {
		return name
	}
	return id
}
