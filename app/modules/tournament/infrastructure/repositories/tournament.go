package tournamentdb

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

// NewRepository creates a new tournament repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) GetTournament(ctx context.Context, db bun.IDB, id uuid.UUID) (*Tournament, error) {
	db = r.resolveDB(db)
	t := new(Tournament)
	err := db.NewSelect().
		Model(t).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("tournament.GetTournament: %w", err)
	}
	return t, nil
}

func (r *Impl) ListCompetitions(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]Competition, error) {
	db = r.resolveDB(db)
	var comps []Competition
	err := db.NewSelect().
		Model(&comps).
		Where("tournament_id = ?", tournamentID).
		Order("start_date ASC NULLS LAST", "created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("tournament.ListCompetitions: %w", err)
	}
	return comps, nil
}

func (r *Impl) GetCompetition(ctx context.Context, db bun.IDB, id uuid.UUID) (*Competition, error) {
	db = r.resolveDB(db)
	c := new(Competition)
	err := db.NewSelect().
		Model(c).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("tournament.GetCompetition: %w", err)
	}
	return c, nil
}

func (r *Impl) UpdateCompetitionStatus(ctx context.Context, db bun.IDB, id uuid.UUID, status CompetitionStatus, completedAt *time.Time) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Competition)(nil)).
		Set("status = ?", status).
		Set("completed_at = ?", completedAt).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tournament.UpdateCompetitionStatus: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("tournament.UpdateCompetitionStatus: %w", err)
	}
	if rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *Impl) ListMembers(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]Member, error) {
	db = r.resolveDB(db)
	var members []Member
	err := db.NewSelect().
		Model(&members).
		Where("tournament_id = ?", tournamentID).
		Order("joined_at ASC", "user_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("tournament.ListMembers: %w", err)
	}
	return members, nil
}

func (r *Impl) PlayerExists(ctx context.Context, db bun.IDB, playerID string) (bool, error) {
	db = r.resolveDB(db)
	exists, err := db.NewSelect().
		Model((*Player)(nil)).
		Where("id = ?", playerID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("tournament.PlayerExists: %w", err)
	}
	return exists, nil
}

func (r *Impl) GetPlayersByIDs(ctx context.Context, db bun.IDB, playerIDs []string) ([]Player, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}
	db = r.resolveDB(db)
	var players []Player
	err := db.NewSelect().
		Model(&players).
		Where("id IN (?)", bun.In(playerIDs)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("tournament.GetPlayersByIDs: %w", err)
	}
	return players, nil
}

func (r *Impl) GetPlayerDivisions(ctx context.Context, db bun.IDB, playerID string) ([]string, error) {
	db = r.resolveDB(db)
	var divisions []string
	err := db.NewSelect().
		Model((*PlayerDivision)(nil)).
		Column("division").
		Where("player_id = ?", playerID).
		Order("division ASC").
		Scan(ctx, &divisions)
	if err != nil {
		return nil, fmt.Errorf("tournament.GetPlayerDivisions: %w", err)
	}
	return divisions, nil
}

func (r *Impl) GetTournamentDivision(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, playerID string) (string, error) {
	db = r.resolveDB(db)
	tpd := new(TournamentPlayerDivision)
	err := db.NewSelect().
		Model(tpd).
		Where("tournament_id = ?", tournamentID).
		Where("player_id = ?", playerID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("tournament.GetTournamentDivision: %w", err)
	}
	return tpd.Division, nil
}

func (r *Impl) AssignTournamentDivision(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, playerID, division string) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(&TournamentPlayerDivision{
			TournamentID: tournamentID,
			PlayerID:     playerID,
			Division:     division,
		}).
		On("CONFLICT (tournament_id, player_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tournament.AssignTournamentDivision: %w", err)
	}
	return nil
}
