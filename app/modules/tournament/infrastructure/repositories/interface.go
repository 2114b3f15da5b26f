package tournamentdb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines read access to tournaments, competitions and the player catalog.
type Repository interface {
	// GetTournament retrieves a tournament by id.
	GetTournament(ctx context.Context, db bun.IDB, id uuid.UUID) (*Tournament, error)

	// ListCompetitions returns a tournament's competitions ordered by start date.
	ListCompetitions(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]Competition, error)

	// GetCompetition retrieves a competition by id.
	GetCompetition(ctx context.Context, db bun.IDB, id uuid.UUID) (*Competition, error)

	// UpdateCompetitionStatus moves a competition through its lifecycle.
	UpdateCompetitionStatus(ctx context.Context, db bun.IDB, id uuid.UUID, status CompetitionStatus, completedAt *time.Time) error

	// ListMembers returns every member of a tournament.
	ListMembers(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]Member, error)

	// PlayerExists reports whether the catalog knows the player.
	PlayerExists(ctx context.Context, db bun.IDB, playerID string) (bool, error)

	// GetPlayersByIDs loads catalog entries for the given ids.
	GetPlayersByIDs(ctx context.Context, db bun.IDB, playerIDs []string) ([]Player, error)

	// GetPlayerDivisions returns the player's global division records.
	GetPlayerDivisions(ctx context.Context, db bun.IDB, playerID string) ([]string, error)

	// GetTournamentDivision returns the division a player is pinned to for a tournament.
	GetTournamentDivision(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, playerID string) (string, error)

	// AssignTournamentDivision pins a player to a division; an existing pin is left untouched.
	AssignTournamentDivision(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, playerID, division string) error
}
