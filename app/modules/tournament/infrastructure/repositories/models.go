package tournamentdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CompetitionStatus is the lifecycle state of a real-world competition.
type CompetitionStatus string

const (
	CompetitionNotStarted CompetitionStatus = "not_started"
	CompetitionRunning    CompetitionStatus = "running"
	CompetitionFinished   CompetitionStatus = "finished"
)

// Tournament is a fantasy tournament spanning a series of competitions.
type Tournament struct {
	bun.BaseModel `bun:"table:tournaments,alias:t"`

	ID             uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name           string    `bun:"name,notnull"`
	OwnerID        uuid.UUID `bun:"owner_id,type:uuid,notnull"`
	BenchThreshold int       `bun:"bench_threshold,notnull"` // slots above this number are benched
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt      time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Competition is one real-world event belonging to a tournament.
type Competition struct {
	bun.BaseModel `bun:"table:competitions,alias:c"`

	ID           uuid.UUID         `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	TournamentID uuid.UUID         `bun:"tournament_id,type:uuid,notnull"`
	ExternalID   string            `bun:"external_id,notnull"` // results provider event id
	Name         string            `bun:"name,notnull"`
	Level        string            `bun:"level,notnull"`
	Status       CompetitionStatus `bun:"status,notnull,default:'not_started'"`
	Rounds       int               `bun:"rounds,notnull,default:1"`
	StartDate    time.Time         `bun:"start_date,nullzero"`
	CompletedAt  *time.Time        `bun:"completed_at,nullzero"`
	CreatedAt    time.Time         `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Player is a real-world competitor that can be rostered.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID        string    `bun:"id,pk"`
	Name      string    `bun:"name,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// PlayerDivision is a player's global division eligibility.
type PlayerDivision struct {
	bun.BaseModel `bun:"table:player_divisions,alias:pd"`

	PlayerID string `bun:"player_id,pk"`
	Division string `bun:"division,pk"`
}

// TournamentPlayerDivision pins a player to one division for a tournament's lifetime.
type TournamentPlayerDivision struct {
	bun.BaseModel `bun:"table:tournament_player_divisions,alias:tpd"`

	TournamentID uuid.UUID `bun:"tournament_id,pk,type:uuid"`
	PlayerID     string    `bun:"player_id,pk"`
	Division     string    `bun:"division,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Member is a user taking part in a tournament.
type Member struct {
	bun.BaseModel `bun:"table:tournament_members,alias:tm"`

	TournamentID uuid.UUID `bun:"tournament_id,pk,type:uuid"`
	UserID       uuid.UUID `bun:"user_id,pk,type:uuid"`
	DisplayName  string    `bun:"display_name,notnull"`
	JoinedAt     time.Time `bun:"joined_at,nullzero,notnull,default:current_timestamp"`
}
