package exchangeservice

import (
	"context"
	"time"

	scoringdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/infrastructure/repositories"
	tournamentdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/tournament/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Tournament Repo
// ------------------------

type FakeTournamentRepo struct {
	trace []string

	GetTournamentFunc    func(ctx context.Context, db bun.IDB, id uuid.UUID) (*tournamentdb.Tournament, error)
	ListCompetitionsFunc func(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]tournamentdb.Competition, error)
}

func NewFakeTournamentRepo() *FakeTournamentRepo {
	return &FakeTournamentRepo{trace: []string{}}
}

func (f *FakeTournamentRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeTournamentRepo) GetTournament(ctx context.Context, db bun.IDB, id uuid.UUID) (*tournamentdb.Tournament, error) {
	f.record("GetTournament")
	if f.GetTournamentFunc != nil {
		return f.GetTournamentFunc(ctx, db, id)
	}
	return &tournamentdb.Tournament{ID: id}, nil
}

func (f *FakeTournamentRepo) ListCompetitions(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]tournamentdb.Competition, error) {
	f.record("ListCompetitions")
	if f.ListCompetitionsFunc != nil {
		return f.ListCompetitionsFunc(ctx, db, tournamentID)
	}
	return nil, nil
}

func (f *FakeTournamentRepo) GetCompetition(ctx context.Context, db bun.IDB, id uuid.UUID) (*tournamentdb.Competition, error) {
	f.record("GetCompetition")
	return nil, tournamentdb.ErrNotFound
}

func (f *FakeTournamentRepo) UpdateCompetitionStatus(ctx context.Context, db bun.IDB, id uuid.UUID, status tournamentdb.CompetitionStatus, completedAt *time.Time) error {
	f.record("UpdateCompetitionStatus")
	return nil
}

func (f *FakeTournamentRepo) ListMembers(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]tournamentdb.Member, error) {
	f.record("ListMembers")
	return nil, nil
}

func (f *FakeTournamentRepo) PlayerExists(ctx context.Context, db bun.IDB, playerID string) (bool, error) {
	f.record("PlayerExists")
	return false, nil
}

func (f *FakeTournamentRepo) GetPlayersByIDs(ctx context.Context, db bun.IDB, playerIDs []string) ([]tournamentdb.Player, error) {
	f.record("GetPlayersByIDs")
	return nil, nil
}

func (f *FakeTournamentRepo) GetPlayerDivisions(ctx context.Context, db bun.IDB, playerID string) ([]string, error) {
	f.record("GetPlayerDivisions")
	return nil, nil
}

func (f *FakeTournamentRepo) GetTournamentDivision(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, playerID string) (string, error) {
	f.record("GetTournamentDivision")
	return "", tournamentdb.ErrNotFound
}

func (f *FakeTournamentRepo) AssignTournamentDivision(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, playerID, division string) error {
	f.record("AssignTournamentDivision")
	return nil
}

func (f *FakeTournamentRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ tournamentdb.Repository = (*FakeTournamentRepo)(nil)

// ------------------------
// Fake Standings Reader
// ------------------------

type FakeStandingsReader struct {
	Rows []scoringdb.StandingRow
	Err  error
}

func (f *FakeStandingsReader) ListStandings(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]scoringdb.StandingRow, error) {
	return f.Rows, f.Err
}

var _ StandingsReader = (*FakeStandingsReader)(nil)
