package rosterservice

import (
	"context"
	"errors"
	"fmt"

	rosterdomain "github.com/Black-And-White-Club/frolf-fantasy/app/modules/roster/domain"
	tournamentdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type linesResult = results.OperationResult[[]string, error]

// FormatTradeLog renders every trade log entry of a tournament, newest first.
func (s *RosterService) FormatTradeLog(ctx context.Context, tournamentID uuid.UUID) ([]string, error) {
	formatTx := func(ctx context.Context, db bun.IDB) (linesResult, error) {
		return s.formatTradeLogLogic(ctx, db, tournamentID)
	}

	result, err := withTelemetry(s, ctx, "FormatTradeLog", tournamentID.String(), func(ctx context.Context) (linesResult, error) {
		return runInTx(s, ctx, formatTx)
	})
	return unwrap(result, err)
}

func (s *RosterService) formatTradeLogLogic(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) (linesResult, error) {
	if _, err := s.tournaments.GetTournament(ctx, db, tournamentID); err != nil {
		if errors.Is(err, tournamentdb.ErrNotFound) {
			return results.FailureResult[[]string, error](newTradeError(KindNotFound, "tournament "+tournamentID.String())), nil
		}
		return linesResult{}, fmt.Errorf("failed to load tournament: %w", err)
	}

	entries, err := s.repo.ListTradeLog(ctx, db, tournamentID, 0)
	if err != nil {
		return linesResult{}, fmt.Errorf("failed to list trade log: %w", err)
	}

	seen := make(map[string]struct{})
	var ids []string
	for _, e := range entries {
		for _, id := range []string{e.PlayerID, deref(e.OtherPlayerID)} {
			if _, ok := seen[id]; ok || id == "" {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	names, err := s.playerNames(ctx, db, ids)
	if err != nil {
		return linesResult{}, err
	}

	members, err := s.tournaments.ListMembers(ctx, db, tournamentID)
	if err != nil {
		return linesResult{}, fmt.Errorf("failed to list members: %w", err)
	}
	users := make(map[uuid.UUID]string, len(members))
	for _, m := range members {
		users[m.UserID] = m.DisplayName
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		user := users[e.UserID]
		if user == "" {
			user = e.UserID.String()
		}
		var other string
		if e.OtherPlayerID != nil {
			other = nameOr(names, *e.OtherPlayerID)
		}
		lines = append(lines, rosterdomain.FormatEntry(rosterdomain.Entry{
			At:          e.CreatedAt,
			Division:    e.Division,
			User:        user,
			Action:      rosterdomain.Action(e.Action),
			Player:      nameOr(names, e.PlayerID),
			Slot:        e.SlotNumber,
			OtherPlayer: other,
			OtherSlot:   e.OtherSlot,
		}, s.location))
	}
	return results.SuccessResult[[]string, error](lines), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
