//go:build integration

package rosterservice

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	rosterdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/roster/infrastructure/repositories"
	tournamentdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/tournament/infrastructure/repositories"
	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/metrics"
	"github.com/Black-And-White-Club/frolf-fantasy/internal/testutils"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type openGate struct{}

func (openGate) AllowedToExchange(context.Context, uuid.UUID, uuid.UUID, bool) (bool, error) {
	return true, nil
}

func seedTournament(t *testing.T, db *bun.DB, players ...string) *tournamentdb.Tournament {
	t.Helper()
	ctx := context.Background()

	tournament := &tournamentdb.Tournament{ID: uuid.New(), Name: "Summer Series", OwnerID: uuid.New(), BenchThreshold: 3}
	_, err := db.NewInsert().Model(tournament).Exec(ctx)
	require.NoError(t, err)

	for _, id := range players {
		_, err := db.NewInsert().Model(&tournamentdb.Player{ID: id, Name: "Player " + id}).Exec(ctx)
		require.NoError(t, err)
		_, err = db.NewInsert().Model(&tournamentdb.PlayerDivision{PlayerID: id, Division: "MPO"}).Exec(ctx)
		require.NoError(t, err)
	}
	return tournament
}

func TestAssignPick_Postgres(t *testing.T) {
	db := testutils.SetupPostgres(t)
	ctx := context.Background()

	players := make([]string, 8)
	for i := range players {
		players[i] = fmt.Sprintf("P%d", i+1)
	}
	tournament := seedTournament(t, db, players...)

	repo := rosterdb.NewRepository(db)
	catalog := tournamentdb.NewRepository(db)
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC))
	svc := NewRosterService(repo, catalog, openGate{}, clock, time.UTC, nil, metrics.NewNoop(), nil, db)

	user := uuid.New()
	key := rosterdb.RosterKey{TournamentID: tournament.ID, UserID: user, Division: "MPO"}
	pick := func(slot int, player string) error {
		return svc.AssignPick(ctx, PickRequest{TournamentID: tournament.ID, UserID: user, Division: "MPO", Slot: slot, PlayerID: player})
	}

	t.Run("local swap keeps both players", func(t *testing.T) {
		require.NoError(t, pick(1, "P1"))
		require.NoError(t, pick(4, "P2"))
		require.NoError(t, pick(1, "P2"))

		slots, err := repo.ListRoster(ctx, nil, key)
		require.NoError(t, err)
		require.Len(t, slots, 2)
		assert.Equal(t, "P2", slots[0].PlayerID)
		assert.Equal(t, 1, slots[0].SlotNumber)
		assert.False(t, slots[0].Benched)
		assert.Equal(t, "P1", slots[1].PlayerID)
		assert.Equal(t, 4, slots[1].SlotNumber)
		assert.True(t, slots[1].Benched)

		holders, err := repo.ListActiveHolders(ctx, nil, tournament.ID, "MPO", "P1")
		require.NoError(t, err)
		assert.Empty(t, holders)
	})

	t.Run("trade log is newest first", func(t *testing.T) {
		lines, err := svc.FormatTradeLog(ctx, tournament.ID)
		require.NoError(t, err)
		require.Len(t, lines, 3)
		assert.Contains(t, lines[0], "swapping with Player P1")
		assert.Contains(t, lines[2], "added Player P1 to slot 1")
	})

	t.Run("pin is recorded on first pick", func(t *testing.T) {
		division, err := catalog.GetTournamentDivision(ctx, nil, tournament.ID, "P1")
		require.NoError(t, err)
		assert.Equal(t, "MPO", division)
	})

	t.Run("concurrent picks serialize", func(t *testing.T) {
		other := uuid.New()
		otherKey := rosterdb.RosterKey{TournamentID: tournament.ID, UserID: other, Division: "MPO"}

		var wg sync.WaitGroup
		errs := make(chan error, len(players))
		for i, player := range players {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- svc.AssignPick(ctx, PickRequest{
					TournamentID: tournament.ID, UserID: other, Division: "MPO",
					Slot: 1 + i%3, PlayerID: player,
				})
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			assert.NoError(t, err)
		}

		slots, err := repo.ListRoster(ctx, nil, otherKey)
		require.NoError(t, err)
		seenSlots := map[int]bool{}
		seenPlayers := map[string]bool{}
		for _, s := range slots {
			assert.False(t, seenSlots[s.SlotNumber], "slot %d occupied twice", s.SlotNumber)
			assert.False(t, seenPlayers[s.PlayerID], "player %s rostered twice", s.PlayerID)
			seenSlots[s.SlotNumber] = true
			seenPlayers[s.PlayerID] = true
		}
		assert.Len(t, slots, 3)
	})
}
