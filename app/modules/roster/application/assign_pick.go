package rosterservice

import (
	"context"
	"errors"
	"fmt"
	"slices"

	rosterdomain "github.com/Black-And-White-Club/frolf-fantasy/app/modules/roster/domain"
	rosterdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/roster/infrastructure/repositories"
	tournamentdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/attr"
	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/results"
	"github.com/uptrace/bun"
)

type resolutionResult = results.OperationResult[rosterdomain.Resolution, error]

// AssignPick validates the request, resolves it against the current roster and
// applies the resolution together with its trade log entry.
func (s *RosterService) AssignPick(ctx context.Context, req PickRequest) error {
	assignTx := func(ctx context.Context, db bun.IDB) (resolutionResult, error) {
		return s.assignPickLogic(ctx, db, req)
	}

	identifier := fmt.Sprintf("%s/%s/%s", req.TournamentID, req.UserID, req.Division)
	opResult, err := withTelemetry(s, ctx, "AssignPick", identifier, func(ctx context.Context) (resolutionResult, error) {
		return runInTx(s, ctx, assignTx)
	})
	resolution, err := unwrap(opResult, err)
	if err != nil {
		return err
	}

	if fields, ok := rosterdomain.TradeLog(resolution); ok && s.metrics != nil {
		s.metrics.RecordTradeAction(ctx, string(fields.Action))
	}
	return nil
}

func failure(kind ErrorKind, format string, args ...any) resolutionResult {
	return results.FailureResult[rosterdomain.Resolution, error](newTradeError(kind, fmt.Sprintf(format, args...)))
}

func (s *RosterService) assignPickLogic(ctx context.Context, db bun.IDB, req PickRequest) (resolutionResult, error) {
	if req.Slot < 1 {
		return failure(KindConflict, "slot %d out of range", req.Slot), nil
	}

	if err := s.repo.AcquireRosterLock(ctx, db, req.TournamentID, req.Division); err != nil {
		return resolutionResult{}, fmt.Errorf("failed to acquire roster lock: %w", err)
	}

	tournament, err := s.tournaments.GetTournament(ctx, db, req.TournamentID)
	if err != nil {
		if errors.Is(err, tournamentdb.ErrNotFound) {
			return failure(KindNotFound, "tournament %s", req.TournamentID), nil
		}
		return resolutionResult{}, fmt.Errorf("failed to load tournament: %w", err)
	}

	exists, err := s.tournaments.PlayerExists(ctx, db, req.PlayerID)
	if err != nil {
		return resolutionResult{}, fmt.Errorf("failed to look up player: %w", err)
	}
	if !exists {
		return failure(KindNotFound, "player %s", req.PlayerID), nil
	}

	allowed, err := s.gate.AllowedToExchange(ctx, req.TournamentID, req.UserID, req.Privileged)
	if err != nil {
		// Gate errors surface as Forbidden with the cause wrapped.
		s.logger.WarnContext(ctx, "Exchange gate failed, refusing pick",
			attr.ExtractCorrelationID(ctx),
			attr.UUID("tournament_id", req.TournamentID),
			attr.UUID("user_id", req.UserID),
			attr.Error(err),
		)
		return results.FailureResult[rosterdomain.Resolution, error](&TradeError{Kind: KindForbidden, Reason: "exchange status unavailable", Err: err}), nil
	}
	if !allowed {
		return failure(KindForbidden, "exchange window closed for user"), nil
	}

	matches, err := s.checkDivision(ctx, db, req)
	if err != nil {
		return resolutionResult{}, err
	}
	if !matches {
		return failure(KindConflict, "player %s is not in division %s", req.PlayerID, req.Division), nil
	}

	key := rosterdb.RosterKey{TournamentID: req.TournamentID, UserID: req.UserID, Division: req.Division}
	existing, err := occupantOf(s.repo.FindSlotByPlayer(ctx, db, key, req.PlayerID))
	if err != nil {
		return resolutionResult{}, fmt.Errorf("failed to find player's slot: %w", err)
	}
	occupant, err := occupantOf(s.repo.FindSlot(ctx, db, key, req.Slot))
	if err != nil {
		return resolutionResult{}, fmt.Errorf("failed to find target slot: %w", err)
	}

	resolution := rosterdomain.Resolve(req.PlayerID, req.Slot, existing, occupant)
	if err := s.apply(ctx, db, key, tournament.BenchThreshold, resolution); err != nil {
		return resolutionResult{}, err
	}

	if fields, ok := rosterdomain.TradeLog(resolution); ok {
		entry := &rosterdb.TradeLogEntry{
			TournamentID:  req.TournamentID,
			UserID:        req.UserID,
			Division:      req.Division,
			Action:        string(fields.Action),
			PlayerID:      fields.PlayerID,
			SlotNumber:    fields.SlotNumber,
			OtherPlayerID: fields.OtherPlayerID,
			OtherSlot:     fields.OtherSlot,
			CreatedAt:     s.clock.Now().UTC(),
		}
		if err := s.repo.AppendTradeLog(ctx, db, entry); err != nil {
			return resolutionResult{}, fmt.Errorf("failed to append trade log: %w", err)
		}
	}

	return results.SuccessResult[rosterdomain.Resolution, error](resolution), nil
}

// checkDivision compares the requested division with the player's pinned one,
// pinning it from the global record on first use.
func (s *RosterService) checkDivision(ctx context.Context, db bun.IDB, req PickRequest) (bool, error) {
	pinned, err := s.tournaments.GetTournamentDivision(ctx, db, req.TournamentID, req.PlayerID)
	if err == nil {
		return pinned == req.Division, nil
	}
	if !errors.Is(err, tournamentdb.ErrNotFound) {
		return false, fmt.Errorf("failed to load tournament division: %w", err)
	}

	divisions, err := s.tournaments.GetPlayerDivisions(ctx, db, req.PlayerID)
	if err != nil {
		return false, fmt.Errorf("failed to load player divisions: %w", err)
	}
	if !slices.Contains(divisions, req.Division) {
		return false, nil
	}

	if err := s.tournaments.AssignTournamentDivision(ctx, db, req.TournamentID, req.PlayerID, req.Division); err != nil {
		return false, fmt.Errorf("failed to pin tournament division: %w", err)
	}
	return true, nil
}

// occupantOf maps a slot lookup to an occupant; a missing slot is nil.
func occupantOf(slot *rosterdb.Slot, err error) (*rosterdomain.Occupant, error) {
	if err != nil {
		if errors.Is(err, rosterdb.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rosterdomain.Occupant{SlotID: slot.ID, SlotNumber: slot.SlotNumber, PlayerID: slot.PlayerID}, nil
}

// apply executes a resolution. SwapLocal frees the target row first so the
// per-player unique index never sees the same player twice.
func (s *RosterService) apply(ctx context.Context, db bun.IDB, key rosterdb.RosterKey, threshold int, r rosterdomain.Resolution) error {
	switch r := r.(type) {
	case rosterdomain.NoOp:
		return nil

	case rosterdomain.Add:
		if err := s.repo.InsertSlot(ctx, db, newSlot(key, r.Slot, r.PlayerID, threshold)); err != nil {
			return fmt.Errorf("failed to insert slot: %w", err)
		}

	case rosterdomain.Move:
		if err := s.repo.UpdateSlot(ctx, db, r.SlotID, r.To, r.PlayerID, rosterdomain.Benched(r.To, threshold)); err != nil {
			return fmt.Errorf("failed to move slot: %w", err)
		}

	case rosterdomain.SwapTournament:
		if err := s.repo.UpdateSlot(ctx, db, r.TargetID, r.Slot, r.PlayerID, rosterdomain.Benched(r.Slot, threshold)); err != nil {
			return fmt.Errorf("failed to replace occupant: %w", err)
		}

	case rosterdomain.SwapLocal:
		if err := s.repo.DeleteSlot(ctx, db, r.TargetID); err != nil {
			return fmt.Errorf("failed to clear target slot: %w", err)
		}
		if err := s.repo.UpdateSlot(ctx, db, r.SourceID, r.From, r.Displaced, rosterdomain.Benched(r.From, threshold)); err != nil {
			return fmt.Errorf("failed to repoint source slot: %w", err)
		}
		if err := s.repo.InsertSlot(ctx, db, newSlot(key, r.To, r.PlayerID, threshold)); err != nil {
			return fmt.Errorf("failed to insert target slot: %w", err)
		}

	default:
		return fmt.Errorf("unhandled resolution %T", r)
	}
	return nil
}

func newSlot(key rosterdb.RosterKey, slot int, playerID string, threshold int) *rosterdb.Slot {
	return &rosterdb.Slot{
		TournamentID: key.TournamentID,
		UserID:       key.UserID,
		Division:     key.Division,
		SlotNumber:   slot,
		PlayerID:     playerID,
		Benched:      rosterdomain.Benched(slot, threshold),
	}
}
