package scoringservice

import (
	"context"

	scoringdomain "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Service defines the scoring operations.
type Service interface {
	// ScoreRound converts a round result into user score entries.
	ScoreRound(ctx context.Context, competitionID uuid.UUID, round int, division string, result scoringdomain.RoundResult) (*scoringdomain.RoundSummary, error)

	// ListStandings returns tournament standings, worst first, with ranks.
	ListStandings(ctx context.Context, tournamentID uuid.UUID) ([]scoringdomain.Standing, error)

	// StandingsChart renders the standings as a PNG bar chart.
	StandingsChart(ctx context.Context, tournamentID uuid.UUID) ([]byte, error)

	// ImportRoundResults parses an uploaded results file and scores it.
	ImportRoundResults(ctx context.Context, competitionID uuid.UUID, round int, division, filename string, data []byte) (*scoringdomain.RoundSummary, error)
}

// RosterReader exposes the roster lookup scoring needs.
type RosterReader interface {
	ListActiveHolders(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, division, playerID string) ([]uuid.UUID, error)
}
