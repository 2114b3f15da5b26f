package rosterservice

import (
	"context"

	"github.com/google/uuid"
)

// Service defines roster mutation and read operations.
type Service interface {
	// AssignPick places a player in a roster slot. Failures are *TradeError.
	AssignPick(ctx context.Context, req PickRequest) error

	// ListRoster returns the user's slots in a division ordered by slot number.
	ListRoster(ctx context.Context, tournamentID, userID uuid.UUID, division string) ([]RosterSlot, error)

	// FormatTradeLog renders the tournament's trade log, newest first.
	FormatTradeLog(ctx context.Context, tournamentID uuid.UUID) ([]string, error)
}

// ExchangeGate admits or rejects roster changes.
type ExchangeGate interface {
	AllowedToExchange(ctx context.Context, tournamentID, userID uuid.UUID, privileged bool) (bool, error)
}

// PickRequest asks for PlayerID to occupy Slot in the user's division roster.
type PickRequest struct {
	TournamentID uuid.UUID
	UserID       uuid.UUID
	Division     string
	Slot         int
	PlayerID     string
	Privileged   bool
}

// RosterSlot is one occupied slot as returned to callers.
type RosterSlot struct {
	SlotNumber int    `json:"slot"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Benched    bool   `json:"benched"`
}
