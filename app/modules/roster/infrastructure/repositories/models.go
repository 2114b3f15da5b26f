package rosterdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Slot is one occupied roster position.
type Slot struct {
	bun.BaseModel `bun:"table:roster_slots,alias:rs"`

	ID           int64     `bun:"id,pk,autoincrement"`
	TournamentID uuid.UUID `bun:"tournament_id,type:uuid,notnull"`
	UserID       uuid.UUID `bun:"user_id,type:uuid,notnull"`
	Division     string    `bun:"division,notnull"`
	SlotNumber   int       `bun:"slot_number,notnull"`
	PlayerID     string    `bun:"player_id,notnull"`
	Benched      bool      `bun:"benched,notnull,default:false"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// TradeLogEntry is an append-only audit record of one roster mutation.
type TradeLogEntry struct {
	bun.BaseModel `bun:"table:roster_trade_log,alias:tl"`

	ID            int64     `bun:"id,pk,autoincrement"`
	TournamentID  uuid.UUID `bun:"tournament_id,type:uuid,notnull"`
	UserID        uuid.UUID `bun:"user_id,type:uuid,notnull"`
	Division      string    `bun:"division,notnull"`
	Action        string    `bun:"action,notnull"`
	PlayerID      string    `bun:"player_id,notnull"`
	SlotNumber    int       `bun:"slot_number,notnull"`
	OtherPlayerID *string   `bun:"other_player_id"`
	OtherSlot     *int      `bun:"other_slot"`
	CreatedAt     time.Time `bun:"created_at,notnull"`
}

// RosterKey scopes slots to one user's roster in one tournament division.
type RosterKey struct {
	TournamentID uuid.UUID
	UserID       uuid.UUID
	Division     string
}
