package scoringservice

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	scoringdomain "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/domain"
	scoringdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/infrastructure/repositories"
	tournamentdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/metrics"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func testWeights(t *testing.T) scoringdomain.LevelWeights {
	t.Helper()
	lw, err := scoringdomain.NewLevelWeights(map[string]float64{"major": 1.5, "silver": 1.0}, 1.0)
	require.NoError(t, err)
	return lw
}

func newTestService(t *testing.T, repo *FakeScoreRepo, tRepo *FakeTournamentRepo, rosters *FakeRosterReader, clock clockwork.Clock) *ScoringService {
	t.Helper()
	return NewScoringService(repo, tRepo, rosters, testWeights(t), nil, clock, slog.Default(), metrics.NewNoop(), nil, nil)
}

func TestScoreRound(t *testing.T) {
	compID := uuid.New()
	tournamentID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	competition := func(level string, status tournamentdb.CompetitionStatus) func(*FakeTournamentRepo) {
		return func(f *FakeTournamentRepo) {
			f.GetCompetitionFunc = func(ctx context.Context, db bun.IDB, id uuid.UUID) (*tournamentdb.Competition, error) {
				return &tournamentdb.Competition{ID: compID, TournamentID: tournamentID, Level: level, Status: status, Rounds: 3}, nil
			}
		}
	}

	tests := []struct {
		name            string
		setupTournament func(*FakeTournamentRepo)
		setupRepo       func(*FakeScoreRepo)
		holders         map[string][]uuid.UUID
		rosterErr       error
		round           int
		result          scoringdomain.RoundResult
		wantSummary     *scoringdomain.RoundSummary
		wantInserted    []int
		wantStored      []int64
		wantErr         error
		wantInfraErr    bool
		wantTrace       []string
	}{
		{
			name:            "winner scores for every active holder",
			setupTournament: competition("silver", tournamentdb.CompetitionRunning),
			holders:         map[string][]uuid.UUID{"p1": {alice, bob}},
			round:           1,
			result: scoringdomain.RoundResult{Players: []scoringdomain.PlayerResult{
				{PlayerID: "p1", Placement: 1, Started: true},
			}},
			wantSummary:  &scoringdomain.RoundSummary{PlayersScored: 1, EntriesWritten: 2},
			wantInserted: []int{100, 100},
		},
		{
			name:            "level weight applied",
			setupTournament: competition("Major", tournamentdb.CompetitionRunning),
			holders:         map[string][]uuid.UUID{"p2": {alice}},
			round:           1,
			result: scoringdomain.RoundResult{Players: []scoringdomain.PlayerResult{
				{PlayerID: "p2", Placement: 2, Started: true},
			}},
			wantSummary:  &scoringdomain.RoundSummary{PlayersScored: 1, EntriesWritten: 1},
			wantInserted: []int{128},
		},
		{
			name:            "unknown level uses default weight",
			setupTournament: competition("local", tournamentdb.CompetitionRunning),
			holders:         map[string][]uuid.UUID{"p1": {alice}},
			round:           1,
			result: scoringdomain.RoundResult{Players: []scoringdomain.PlayerResult{
				{PlayerID: "p1", Placement: 3, Started: true},
			}},
			wantSummary:  &scoringdomain.RoundSummary{PlayersScored: 1, EntriesWritten: 1},
			wantInserted: []int{75},
		},
		{
			name:            "zero points writes participant only",
			setupTournament: competition("silver", tournamentdb.CompetitionRunning),
			holders:         map[string][]uuid.UUID{"p1": {alice}},
			round:           1,
			result: scoringdomain.RoundResult{Players: []scoringdomain.PlayerResult{
				{PlayerID: "p1", Placement: 55, Started: true},
			}},
			wantSummary: &scoringdomain.RoundSummary{PlayersScored: 1},
			wantTrace:   []string{"UpsertParticipant", "DeleteRoundScores"},
		},
		{
			name:            "rescored to zero removes earlier entries",
			setupTournament: competition("silver", tournamentdb.CompetitionRunning),
			setupRepo: func(f *FakeScoreRepo) {
				f.Stored = []scoringdb.UserRoundScore{
					{ID: 7, CompetitionID: compID, Round: 1, PlayerID: "p1", UserID: alice, Placement: 2, Points: 85},
					{ID: 8, CompetitionID: compID, Round: 1, PlayerID: "p1", UserID: bob, Placement: 2, Points: 85},
					{ID: 9, CompetitionID: compID, Round: 2, PlayerID: "p1", UserID: alice, Placement: 1, Points: 100},
				}
			},
			holders: map[string][]uuid.UUID{"p1": {alice}},
			round:   1,
			result: scoringdomain.RoundResult{Players: []scoringdomain.PlayerResult{
				{PlayerID: "p1", Placement: 55, Started: true},
			}},
			wantSummary: &scoringdomain.RoundSummary{PlayersScored: 1, EntriesRemoved: 2},
			wantStored:  []int64{9},
			wantTrace:   []string{"UpsertParticipant", "DeleteRoundScores"},
		},
		{
			name:            "rescored as did not start removes earlier entries",
			setupTournament: competition("silver", tournamentdb.CompetitionRunning),
			setupRepo: func(f *FakeScoreRepo) {
				f.Stored = []scoringdb.UserRoundScore{
					{ID: 7, CompetitionID: compID, Round: 1, PlayerID: "p1", UserID: alice, Placement: 1, Points: 100},
				}
			},
			holders: map[string][]uuid.UUID{"p1": {alice}},
			round:   1,
			result: scoringdomain.RoundResult{Players: []scoringdomain.PlayerResult{
				{PlayerID: "p1", Started: false},
			}},
			wantSummary: &scoringdomain.RoundSummary{PlayersSkipped: 1, EntriesRemoved: 1},
			wantStored:  []int64{},
			wantTrace:   []string{"DeleteRoundScores"},
		},
		{
			name:            "clearing stale entries failure propagates",
			setupTournament: competition("silver", tournamentdb.CompetitionRunning),
			setupRepo: func(f *FakeScoreRepo) {
				f.DeleteRoundScoresFunc = func(ctx context.Context, db bun.IDB, competitionID uuid.UUID, round int, playerID string) (int64, error) {
					return 0, errors.New("connection reset")
				}
			},
			round: 1,
			result: scoringdomain.RoundResult{Players: []scoringdomain.PlayerResult{
				{PlayerID: "p1", Placement: 70, Started: true},
			}},
			wantInfraErr: true,
			wantTrace:    []string{"UpsertParticipant", "DeleteRoundScores"},
		},
		{
			name:            "non-started player only clears stale entries",
			setupTournament: competition("silver", tournamentdb.CompetitionRunning),
			holders:         map[string][]uuid.UUID{"p1": {alice}},
			round:           1,
			result: scoringdomain.RoundResult{Players: []scoringdomain.PlayerResult{
				{PlayerID: "p1", Placement: 1, Started: false},
			}},
			wantSummary: &scoringdomain.RoundSummary{PlayersSkipped: 1},
			wantTrace:   []string{"DeleteRoundScores"},
		},
		{
			name:            "unchanged existing entry is not rewritten",
			setupTournament: competition("silver", tournamentdb.CompetitionRunning),
			setupRepo: func(f *FakeScoreRepo) {
				f.GetUserRoundScoreFunc = func(ctx context.Context, db bun.IDB, key scoringdb.ScoreKey) (*scoringdb.UserRoundScore, error) {
					return &scoringdb.UserRoundScore{ID: 7, Placement: 1, Points: 100}, nil
				}
			},
			holders: map[string][]uuid.UUID{"p1": {alice}},
			round:   1,
			result: scoringdomain.RoundResult{Players: []scoringdomain.PlayerResult{
				{PlayerID: "p1", Placement: 1, Started: true},
			}},
			wantSummary: &scoringdomain.RoundSummary{PlayersScored: 1},
			wantTrace:   []string{"UpsertParticipant", "GetUserRoundScore"},
		},
		{
			name:            "changed existing entry is updated",
			setupTournament: competition("silver", tournamentdb.CompetitionRunning),
			setupRepo: func(f *FakeScoreRepo) {
				f.GetUserRoundScoreFunc = func(ctx context.Context, db bun.IDB, key scoringdb.ScoreKey) (*scoringdb.UserRoundScore, error) {
					return &scoringdb.UserRoundScore{ID: 7, Placement: 2, Points: 85}, nil
				}
			},
			holders: map[string][]uuid.UUID{"p1": {alice}},
			round:   1,
			result: scoringdomain.RoundResult{Players: []scoringdomain.PlayerResult{
				{PlayerID: "p1", Placement: 1, Started: true},
			}},
			wantSummary: &scoringdomain.RoundSummary{PlayersScored: 1, EntriesWritten: 1},
			wantTrace:   []string{"UpsertParticipant", "GetUserRoundScore", "UpdateUserRoundScore"},
		},
		{
			name:            "existing score read failure propagates",
			setupTournament: competition("silver", tournamentdb.CompetitionRunning),
			setupRepo: func(f *FakeScoreRepo) {
				f.GetUserRoundScoreFunc = func(ctx context.Context, db bun.IDB, key scoringdb.ScoreKey) (*scoringdb.UserRoundScore, error) {
					return nil, errors.New("connection reset")
				}
			},
			holders: map[string][]uuid.UUID{"p1": {alice}},
			round:   1,
			result: scoringdomain.RoundResult{Players: []scoringdomain.PlayerResult{
				{PlayerID: "p1", Placement: 1, Started: true},
			}},
			wantInfraErr: true,
			wantTrace:    []string{"UpsertParticipant", "GetUserRoundScore"},
		},
		{
			name:            "roster lookup failure propagates",
			setupTournament: competition("silver", tournamentdb.CompetitionRunning),
			rosterErr:       errors.New("timeout"),
			round:           1,
			result: scoringdomain.RoundResult{Players: []scoringdomain.PlayerResult{
				{PlayerID: "p1", Placement: 1, Started: true},
			}},
			wantInfraErr: true,
		},
		{
			name:    "missing competition",
			round:   1,
			wantErr: ErrCompetitionNotFound,
		},
		{
			name:    "invalid round",
			round:   0,
			wantErr: ErrInvalidRound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeScoreRepo()
			if tt.setupRepo != nil {
				tt.setupRepo(repo)
			}
			tRepo := NewFakeTournamentRepo()
			if tt.setupTournament != nil {
				tt.setupTournament(tRepo)
			}
			rosters := &FakeRosterReader{Holders: tt.holders, Err: tt.rosterErr}
			svc := newTestService(t, repo, tRepo, rosters, clockwork.NewFakeClock())

			summary, err := svc.ScoreRound(context.Background(), compID, tt.round, "MPO", tt.result)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, summary)
			case tt.wantInfraErr:
				require.Error(t, err)
				assert.Contains(t, err.Error(), "ScoreRound")
				assert.Empty(t, repo.Inserted)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantSummary, summary)
				var points []int
				for _, row := range repo.Inserted {
					points = append(points, row.Points)
					assert.Equal(t, tournamentID, row.TournamentID)
					assert.Equal(t, "MPO", row.Division)
				}
				assert.Equal(t, tt.wantInserted, points)
				if tt.wantStored != nil {
					ids := []int64{}
					for _, row := range repo.Stored {
						ids = append(ids, row.ID)
					}
					assert.Equal(t, tt.wantStored, ids)
				}
			}
			if tt.wantTrace != nil {
				assert.Equal(t, tt.wantTrace, repo.Trace())
			}
		})
	}
}

func TestScoreRound_CompetitionLifecycle(t *testing.T) {
	compID := uuid.New()
	providerDone := time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)
	clockNow := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	players := []scoringdomain.PlayerResult{{PlayerID: "p1", Placement: 60, Started: true}}

	tests := []struct {
		name          string
		status        tournamentdb.CompetitionStatus
		round         int
		final         bool
		completedAt   *time.Time
		wantStatus    []string
		wantCompleted *time.Time
	}{
		{name: "first result starts competition", status: tournamentdb.CompetitionNotStarted, round: 1, wantStatus: []string{"UpdateCompetitionStatus:running"}},
		{name: "running stays running", status: tournamentdb.CompetitionRunning, round: 2, wantStatus: nil},
		{name: "final of earlier round does not finish", status: tournamentdb.CompetitionRunning, round: 2, final: true, wantStatus: nil},
		{name: "final of last round finishes at provider time", status: tournamentdb.CompetitionRunning, round: 3, final: true, completedAt: &providerDone, wantStatus: []string{"UpdateCompetitionStatus:finished"}, wantCompleted: &providerDone},
		{name: "final without time uses clock", status: tournamentdb.CompetitionNotStarted, round: 3, final: true, wantStatus: []string{"UpdateCompetitionStatus:finished"}, wantCompleted: &clockNow},
		{name: "finished is terminal", status: tournamentdb.CompetitionFinished, round: 3, final: true, wantStatus: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tRepo := NewFakeTournamentRepo()
			tRepo.GetCompetitionFunc = func(ctx context.Context, db bun.IDB, id uuid.UUID) (*tournamentdb.Competition, error) {
				return &tournamentdb.Competition{ID: compID, Level: "silver", Status: tt.status, Rounds: 3}, nil
			}
			var gotCompleted *time.Time
			tRepo.UpdateCompetitionStatusFunc = func(ctx context.Context, db bun.IDB, id uuid.UUID, status tournamentdb.CompetitionStatus, completedAt *time.Time) error {
				gotCompleted = completedAt
				return nil
			}
			svc := newTestService(t, NewFakeScoreRepo(), tRepo, &FakeRosterReader{}, clockwork.NewFakeClockAt(clockNow))

			_, err := svc.ScoreRound(context.Background(), compID, tt.round, "MPO", scoringdomain.RoundResult{
				Players:     players,
				Final:       tt.final,
				CompletedAt: tt.completedAt,
			})
			require.NoError(t, err)

			var statusCalls []string
			for _, step := range tRepo.Trace() {
				if len(step) > len("UpdateCompetitionStatus") && step[:len("UpdateCompetitionStatus")] == "UpdateCompetitionStatus" {
					statusCalls = append(statusCalls, step)
				}
			}
			assert.Equal(t, tt.wantStatus, statusCalls)
			if tt.wantCompleted != nil {
				require.NotNil(t, gotCompleted)
				assert.True(t, tt.wantCompleted.Equal(*gotCompleted))
			}
		})
	}
}

func TestScoreRound_RecordsEntriesMetric(t *testing.T) {
	compID := uuid.New()
	tRepo := NewFakeTournamentRepo()
	tRepo.GetCompetitionFunc = func(ctx context.Context, db bun.IDB, id uuid.UUID) (*tournamentdb.Competition, error) {
		return &tournamentdb.Competition{ID: compID, Level: "silver", Status: tournamentdb.CompetitionRunning, Rounds: 1}, nil
	}
	rec := &recordingMetrics{Noop: metrics.NewNoop()}
	svc := NewScoringService(NewFakeScoreRepo(), tRepo, &FakeRosterReader{Holders: map[string][]uuid.UUID{"p1": {uuid.New()}}},
		testWeights(t), nil, clockwork.NewFakeClock(), slog.Default(), rec, nil, nil)

	_, err := svc.ScoreRound(context.Background(), compID, 1, "FPO", scoringdomain.RoundResult{
		Players: []scoringdomain.PlayerResult{{PlayerID: "p1", Placement: 4, Started: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"FPO": 1}, rec.entries)
}

type recordingMetrics struct {
	*metrics.Noop
	entries map[string]int
}

func (r *recordingMetrics) RecordScoreEntries(ctx context.Context, division string, written int) {
	if r.entries == nil {
		r.entries = make(map[string]int)
	}
	r.entries[division] += written
}
