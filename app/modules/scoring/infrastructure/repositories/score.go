package scoringdb

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

// NewRepository creates a new score repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) UpsertParticipant(ctx context.Context, db bun.IDB, participant *CompetitionParticipant) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(participant).
		On("CONFLICT (competition_id, player_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("score.UpsertParticipant: %w", err)
	}
	return nil
}

func (r *Impl) GetUserRoundScore(ctx context.Context, db bun.IDB, key ScoreKey) (*UserRoundScore, error) {
	db = r.resolveDB(db)
	score := new(UserRoundScore)
	err := db.NewSelect().
		Model(score).
		Where("tournament_id = ?", key.TournamentID).
		Where("user_id = ?", key.UserID).
		Where("competition_id = ?", key.CompetitionID).
		Where("round = ?", key.Round).
		Where("player_id = ?", key.PlayerID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("score.GetUserRoundScore: %w", err)
	}
	return score, nil
}

func (r *Impl) InsertUserRoundScore(ctx context.Context, db bun.IDB, score *UserRoundScore) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(score).Exec(ctx); err != nil {
		return fmt.Errorf("score.InsertUserRoundScore: %w", err)
	}
	return nil
}

func (r *Impl) UpdateUserRoundScore(ctx context.Context, db bun.IDB, id int64, placement, points int) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*UserRoundScore)(nil)).
		Set("placement = ?", placement).
		Set("points = ?", points).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("score.UpdateUserRoundScore: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("score.UpdateUserRoundScore: %w", err)
	}
	if rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *Impl) DeleteRoundScores(ctx context.Context, db bun.IDB, competitionID uuid.UUID, round int, playerID string) (int64, error) {
	db = r.resolveDB(db)
	res, err := db.NewDelete().
		Model((*UserRoundScore)(nil)).
		Where("competition_id = ?", competitionID).
		Where("round = ?", round).
		Where("player_id = ?", playerID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("score.DeleteRoundScores: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("score.DeleteRoundScores: %w", err)
	}
	return rows, nil
}

func (r *Impl) ListStandings(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]StandingRow, error) {
	db = r.resolveDB(db)
	var rows []StandingRow
	err := db.NewRaw(`
		SELECT tm.user_id, tm.display_name, COALESCE(SUM(urs.points), 0) AS score
		FROM tournament_members AS tm
		LEFT JOIN user_round_scores AS urs
			ON urs.tournament_id = tm.tournament_id AND urs.user_id = tm.user_id
		WHERE tm.tournament_id = ?
		GROUP BY tm.user_id, tm.display_name, tm.joined_at
		ORDER BY score ASC, tm.joined_at ASC, tm.user_id ASC`, tournamentID).
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("score.ListStandings: %w", err)
	}
	return rows, nil
}
