package scoringservice

import (
	"context"
	"time"

	scoringdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/infrastructure/repositories"
	tournamentdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/tournament/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Score Repo
// ------------------------

type FakeScoreRepo struct {
	trace []string

	UpsertParticipantFunc    func(ctx context.Context, db bun.IDB, p *scoringdb.CompetitionParticipant) error
	GetUserRoundScoreFunc    func(ctx context.Context, db bun.IDB, key scoringdb.ScoreKey) (*scoringdb.UserRoundScore, error)
	InsertUserRoundScoreFunc func(ctx context.Context, db bun.IDB, score *scoringdb.UserRoundScore) error
	UpdateUserRoundScoreFunc func(ctx context.Context, db bun.IDB, id int64, placement, points int) error
	DeleteRoundScoresFunc    func(ctx context.Context, db bun.IDB, competitionID uuid.UUID, round int, playerID string) (int64, error)
	ListStandingsFunc        func(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]scoringdb.StandingRow, error)

	Inserted []scoringdb.UserRoundScore
	// Stored holds entries from earlier rounds; DeleteRoundScores prunes it.
	Stored []scoringdb.UserRoundScore
}

func NewFakeScoreRepo() *FakeScoreRepo {
	return &FakeScoreRepo{trace: []string{}}
}

func (f *FakeScoreRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeScoreRepo) UpsertParticipant(ctx context.Context, db bun.IDB, p *scoringdb.CompetitionParticipant) error {
	f.record("UpsertParticipant")
	if f.UpsertParticipantFunc != nil {
		return f.UpsertParticipantFunc(ctx, db, p)
	}
	return nil
}

func (f *FakeScoreRepo) GetUserRoundScore(ctx context.Context, db bun.IDB, key scoringdb.ScoreKey) (*scoringdb.UserRoundScore, error) {
	f.record("GetUserRoundScore")
	if f.GetUserRoundScoreFunc != nil {
		return f.GetUserRoundScoreFunc(ctx, db, key)
	}
	return nil, scoringdb.ErrNotFound
}

func (f *FakeScoreRepo) InsertUserRoundScore(ctx context.Context, db bun.IDB, score *scoringdb.UserRoundScore) error {
	f.record("InsertUserRoundScore")
	f.Inserted = append(f.Inserted, *score)
	if f.InsertUserRoundScoreFunc != nil {
		return f.InsertUserRoundScoreFunc(ctx, db, score)
	}
	return nil
}

func (f *FakeScoreRepo) UpdateUserRoundScore(ctx context.Context, db bun.IDB, id int64, placement, points int) error {
	f.record("UpdateUserRoundScore")
	if f.UpdateUserRoundScoreFunc != nil {
		return f.UpdateUserRoundScoreFunc(ctx, db, id, placement, points)
	}
	return nil
}

func (f *FakeScoreRepo) DeleteRoundScores(ctx context.Context, db bun.IDB, competitionID uuid.UUID, round int, playerID string) (int64, error) {
	f.record("DeleteRoundScores")
	if f.DeleteRoundScoresFunc != nil {
		return f.DeleteRoundScoresFunc(ctx, db, competitionID, round, playerID)
	}
	var removed int64
	kept := f.Stored[:0]
	for _, row := range f.Stored {
		if row.CompetitionID == competitionID && row.Round == round && row.PlayerID == playerID {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	f.Stored = kept
	return removed, nil
}

func (f *FakeScoreRepo) ListStandings(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]scoringdb.StandingRow, error) {
	f.record("ListStandings")
	if f.ListStandingsFunc != nil {
		return f.ListStandingsFunc(ctx, db, tournamentID)
	}
	return nil, nil
}

func (f *FakeScoreRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ scoringdb.Repository = (*FakeScoreRepo)(nil)

// ------------------------
// Fake Tournament Repo
// ------------------------

type FakeTournamentRepo struct {
	trace []string

	GetTournamentFunc           func(ctx context.Context, db bun.IDB, id uuid.UUID) (*tournamentdb.Tournament, error)
	GetCompetitionFunc          func(ctx context.Context, db bun.IDB, id uuid.UUID) (*tournamentdb.Competition, error)
	UpdateCompetitionStatusFunc func(ctx context.Context, db bun.IDB, id uuid.UUID, status tournamentdb.CompetitionStatus, completedAt *time.Time) error
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
	return nil, nil
}

func (f *FakeTournamentRepo) GetCompetition(ctx context.Context, db bun.IDB, id uuid.UUID) (*tournamentdb.Competition, error) {
	f.record("GetCompetition")
	if f.GetCompetitionFunc != nil {
		return f.GetCompetitionFunc(ctx, db, id)
	}
	return nil, tournamentdb.ErrNotFound
}

func (f *FakeTournamentRepo) UpdateCompetitionStatus(ctx context.Context, db bun.IDB, id uuid.UUID, status tournamentdb.CompetitionStatus, completedAt *time.Time) error {
	f.record("UpdateCompetitionStatus:" + string(status))
	if f.UpdateCompetitionStatusFunc != nil {
		return f.UpdateCompetitionStatusFunc(ctx, db, id, status, completedAt)
	}
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
// Fake Roster Reader
// ------------------------

type FakeRosterReader struct {
	Holders map[string][]uuid.UUID
	Err     error
}

func (f *FakeRosterReader) ListActiveHolders(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, division, playerID string) ([]uuid.UUID, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Holders[playerID], nil
}

var _ RosterReader = (*FakeRosterReader)(nil)
