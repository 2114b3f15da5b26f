package rosterdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines roster slot and trade log persistence. Every method takes
// the caller's transaction so one assignment composes into a single unit.
type Repository interface {
	// AcquireRosterLock takes a transaction-scoped advisory lock on (tournament, division).
	// Must be called within a transaction.
	AcquireRosterLock(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, division string) error

	// FindSlot returns the slot at slotNumber.
	FindSlot(ctx context.Context, db bun.IDB, key RosterKey, slotNumber int) (*Slot, error)

	// FindSlotByPlayer returns the slot currently holding playerID.
	FindSlotByPlayer(ctx context.Context, db bun.IDB, key RosterKey, playerID string) (*Slot, error)

	// InsertSlot creates a slot row.
	InsertSlot(ctx context.Context, db bun.IDB, slot *Slot) error

	// UpdateSlot rewrites the slot number, occupant and benched flag of an existing row.
	UpdateSlot(ctx context.Context, db bun.IDB, id int64, slotNumber int, playerID string, benched bool) error

	// DeleteSlot removes a slot row.
	DeleteSlot(ctx context.Context, db bun.IDB, id int64) error

	// ListRoster returns a user's slots ordered by slot number.
	ListRoster(ctx context.Context, db bun.IDB, key RosterKey) ([]Slot, error)

	// ListActiveHolders returns users holding playerID in a non-benched slot of a division.
	ListActiveHolders(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, division, playerID string) ([]uuid.UUID, error)

	// AppendTradeLog inserts an audit entry.
	AppendTradeLog(ctx context.Context, db bun.IDB, entry *TradeLogEntry) error

	// ListTradeLog returns a tournament's trade log, newest first.
	ListTradeLog(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, limit int) ([]TradeLogEntry, error)
}
