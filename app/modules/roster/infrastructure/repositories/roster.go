package rosterdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new roster repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// LockKey is the advisory lock key for a tournament division.
func LockKey(tournamentID uuid.UUID, division string) string {
	return "roster:" + tournamentID.String() + ":" + division
}

func (r *Impl) AcquireRosterLock(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, division string) error {
	db = r.resolveDB(db)
	// hashtext() gives a stable int4 for the composite key
	_, err := db.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", LockKey(tournamentID, division)).Exec(ctx)
	if err != nil {
		return fmt.Errorf("roster.AcquireRosterLock: %w", err)
	}
	return nil
}

func (r *Impl) FindSlot(ctx context.Context, db bun.IDB, key RosterKey, slotNumber int) (*Slot, error) {
	db = r.resolveDB(db)
	slot := new(Slot)
	err := db.NewSelect().
		Model(slot).
		Where("tournament_id = ?", key.TournamentID).
		Where("user_id = ?", key.UserID).
		Where("division = ?", key.Division).
		Where("slot_number = ?", slotNumber).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("roster.FindSlot: %w", err)
	}
	return slot, nil
}

func (r *Impl) FindSlotByPlayer(ctx context.Context, db bun.IDB, key RosterKey, playerID string) (*Slot, error) {
	db = r.resolveDB(db)
	slot := new(Slot)
	err := db.NewSelect().
		Model(slot).
		Where("tournament_id = ?", key.TournamentID).
		Where("user_id = ?", key.UserID).
		Where("division = ?", key.Division).
		Where("player_id = ?", playerID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("roster.FindSlotByPlayer: %w", err)
	}
	return slot, nil
}

func (r *Impl) InsertSlot(ctx context.Context, db bun.IDB, slot *Slot) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(slot).Exec(ctx); err != nil {
		return fmt.Errorf("roster.InsertSlot: %w", err)
	}
	return nil
}

func (r *Impl) UpdateSlot(ctx context.Context, db bun.IDB, id int64, slotNumber int, playerID string, benched bool) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Slot)(nil)).
		Set("slot_number = ?", slotNumber).
		Set("player_id = ?", playerID).
		Set("benched = ?", benched).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("roster.UpdateSlot: %w", err)
	}
	return checkRowsAffected(res, "roster.UpdateSlot")
}

func (r *Impl) DeleteSlot(ctx context.Context, db bun.IDB, id int64) error {
	db = r.resolveDB(db)
	res, err := db.NewDelete().
		Model((*Slot)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("roster.DeleteSlot: %w", err)
	}
	return checkRowsAffected(res, "roster.DeleteSlot")
}

func (r *Impl) ListRoster(ctx context.Context, db bun.IDB, key RosterKey) ([]Slot, error) {
	db = r.resolveDB(db)
	var slots []Slot
	err := db.NewSelect().
		Model(&slots).
		Where("tournament_id = ?", key.TournamentID).
		Where("user_id = ?", key.UserID).
		Where("division = ?", key.Division).
		Order("slot_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("roster.ListRoster: %w", err)
	}
	return slots, nil
}

func (r *Impl) ListActiveHolders(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, division, playerID string) ([]uuid.UUID, error) {
	db = r.resolveDB(db)
	var users []uuid.UUID
	err := db.NewSelect().
		Model((*Slot)(nil)).
		Column("user_id").
		Where("tournament_id = ?", tournamentID).
		Where("division = ?", division).
		Where("player_id = ?", playerID).
		Where("benched = FALSE").
		Order("user_id ASC").
		Scan(ctx, &users)
	if err != nil {
		return nil, fmt.Errorf("roster.ListActiveHolders: %w", err)
	}
	return users, nil
}

func (r *Impl) AppendTradeLog(ctx context.Context, db bun.IDB, entry *TradeLogEntry) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(entry).Exec(ctx); err != nil {
		return fmt.Errorf("roster.AppendTradeLog: %w", err)
	}
	return nil
}

func (r *Impl) ListTradeLog(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, limit int) ([]TradeLogEntry, error) {
	db = r.resolveDB(db)
	var entries []TradeLogEntry
	q := db.NewSelect().
		Model(&entries).
		Where("tournament_id = ?", tournamentID).
		Order("created_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("roster.ListTradeLog: %w", err)
	}
	return entries, nil
}

func checkRowsAffected(res sql.Result, op string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
