package scoringdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for score persistence.
type Repository interface {
	// UpsertParticipant records a competition participant; duplicates are ignored.
	UpsertParticipant(ctx context.Context, db bun.IDB, participant *CompetitionParticipant) error

	// GetUserRoundScore retrieves an existing score entry.
	GetUserRoundScore(ctx context.Context, db bun.IDB, key ScoreKey) (*UserRoundScore, error)

	// InsertUserRoundScore stores a new score entry.
	InsertUserRoundScore(ctx context.Context, db bun.IDB, score *UserRoundScore) error

	// UpdateUserRoundScore rewrites placement and points of an existing entry.
	UpdateUserRoundScore(ctx context.Context, db bun.IDB, id int64, placement, points int) error

	// DeleteRoundScores removes every user entry for a player in one round of a
	// competition and reports how many rows went away.
	DeleteRoundScores(ctx context.Context, db bun.IDB, competitionID uuid.UUID, round int, playerID string) (int64, error)

	// ListStandings aggregates member scores for a tournament, worst first.
	ListStandings(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]StandingRow, error)
}
