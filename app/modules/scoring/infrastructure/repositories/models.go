package scoringdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CompetitionParticipant records that a player took part in a competition.
type CompetitionParticipant struct {
	bun.BaseModel `bun:"table:competition_participants,alias:cp"`

	CompetitionID uuid.UUID `bun:"competition_id,pk,type:uuid"`
	PlayerID      string    `bun:"player_id,pk"`
	Division      string    `bun:"division,notnull"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// UserRoundScore is the fantasy points a user earned from one rostered player in one round.
// Zero-point results are never stored.
type UserRoundScore struct {
	bun.BaseModel `bun:"table:user_round_scores,alias:urs"`

	ID            int64     `bun:"id,pk,autoincrement"`
	TournamentID  uuid.UUID `bun:"tournament_id,type:uuid,notnull"`
	UserID        uuid.UUID `bun:"user_id,type:uuid,notnull"`
	CompetitionID uuid.UUID `bun:"competition_id,type:uuid,notnull"`
	Round         int       `bun:"round,notnull"`
	Division      string    `bun:"division,notnull"`
	PlayerID      string    `bun:"player_id,notnull"`
	Placement     int       `bun:"placement,notnull"`
	Points        int       `bun:"points,notnull"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// ScoreKey identifies a single user score entry.
type ScoreKey struct {
	TournamentID  uuid.UUID
	UserID        uuid.UUID
	CompetitionID uuid.UUID
	Round         int
	PlayerID      string
}

// StandingRow is one member's aggregated score.
type StandingRow struct {
	UserID      uuid.UUID `bun:"user_id"`
	DisplayName string    `bun:"display_name"`
	Score       int       `bun:"score"`
}
