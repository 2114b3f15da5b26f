package exchangeservice

import (
	"context"
	"time"

	exchangedomain "github.com/Black-And-White-Club/frolf-fantasy/app/modules/exchange/domain"
	scoringdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Service answers who may change rosters and when. It never writes.
type Service interface {
	// ExchangeStatus evaluates what userID may do in the tournament at now.
	// isAdmin grants the same bypass as tournament ownership.
	ExchangeStatus(ctx context.Context, userID, tournamentID uuid.UUID, now time.Time, isAdmin bool) (exchangedomain.Status, error)

	// HasExchangeBegun reports whether the first rotation window is in the past.
	HasExchangeBegun(ctx context.Context, tournamentID uuid.UUID, now time.Time) (bool, error)
}

// StandingsReader is the slice of the scoring store the scheduler reads.
type StandingsReader interface {
	ListStandings(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]scoringdb.StandingRow, error)
}
