package rosterservice

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	rosterdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/roster/infrastructure/repositories"
	tournamentdb "github.com/Black-And-White-Club/frolf-fantasy/app/modules/tournament/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Roster Repo
// ------------------------

// FakeRosterRepo keeps slots in memory and enforces the same unique
// constraints as the roster_slots indexes.
type FakeRosterRepo struct {
	trace []string

	Slots  map[int64]*rosterdb.Slot
	Log    []rosterdb.TradeLogEntry
	nextID int64

	FindSlotErr       error
	FindSlotPlayerErr error
	UpdateSlotErr     error
}

func NewFakeRosterRepo() *FakeRosterRepo {
	return &FakeRosterRepo{trace: []string{}, Slots: map[int64]*rosterdb.Slot{}}
}

func (f *FakeRosterRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func sameRoster(s *rosterdb.Slot, key rosterdb.RosterKey) bool {
	return s.TournamentID == key.TournamentID && s.UserID == key.UserID && s.Division == key.Division
}

func keyOf(s *rosterdb.Slot) rosterdb.RosterKey {
	return rosterdb.RosterKey{TournamentID: s.TournamentID, UserID: s.UserID, Division: s.Division}
}

func (f *FakeRosterRepo) checkUnique(candidate *rosterdb.Slot) error {
	for id, s := range f.Slots {
		if id == candidate.ID || !sameRoster(s, keyOf(candidate)) {
			continue
		}
		if s.SlotNumber == candidate.SlotNumber {
			return fmt.Errorf("duplicate slot %d", s.SlotNumber)
		}
		if s.PlayerID == candidate.PlayerID {
			return fmt.Errorf("duplicate player %s", s.PlayerID)
		}
	}
	return nil
}

func (f *FakeRosterRepo) AcquireRosterLock(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, division string) error {
	f.record("AcquireRosterLock")
	return nil
}

func (f *FakeRosterRepo) FindSlot(ctx context.Context, db bun.IDB, key rosterdb.RosterKey, slotNumber int) (*rosterdb.Slot, error) {
	f.record("FindSlot")
	if f.FindSlotErr != nil {
		return nil, f.FindSlotErr
	}
	for _, s := range f.Slots {
		if sameRoster(s, key) && s.SlotNumber == slotNumber {
			c := *s
			return &c, nil
		}
	}
	return nil, rosterdb.ErrNotFound
}

func (f *FakeRosterRepo) FindSlotByPlayer(ctx context.Context, db bun.IDB, key rosterdb.RosterKey, playerID string) (*rosterdb.Slot, error) {
	f.record("FindSlotByPlayer")
	if f.FindSlotPlayerErr != nil {
		return nil, f.FindSlotPlayerErr
	}
	for _, s := range f.Slots {
		if sameRoster(s, key) && s.PlayerID == playerID {
			c := *s
			return &c, nil
		}
	}
	return nil, rosterdb.ErrNotFound
}

func (f *FakeRosterRepo) InsertSlot(ctx context.Context, db bun.IDB, slot *rosterdb.Slot) error {
	f.record("InsertSlot")
	f.nextID++
	slot.ID = f.nextID
	if err := f.checkUnique(slot); err != nil {
		return err
	}
	c := *slot
	f.Slots[slot.ID] = &c
	return nil
}

func (f *FakeRosterRepo) UpdateSlot(ctx context.Context, db bun.IDB, id int64, slotNumber int, playerID string, benched bool) error {
	f.record("UpdateSlot")
	if f.UpdateSlotErr != nil {
		return f.UpdateSlotErr
	}
	s, ok := f.Slots[id]
	if !ok {
		return rosterdb.ErrNoRowsAffected
	}
	c := *s
	c.SlotNumber, c.PlayerID, c.Benched = slotNumber, playerID, benched
	if err := f.checkUnique(&c); err != nil {
		return err
	}
	f.Slots[id] = &c
	return nil
}

func (f *FakeRosterRepo) DeleteSlot(ctx context.Context, db bun.IDB, id int64) error {
	f.record("DeleteSlot")
	if _, ok := f.Slots[id]; !ok {
		return rosterdb.ErrNoRowsAffected
	}
	delete(f.Slots, id)
	return nil
}

func (f *FakeRosterRepo) ListRoster(ctx context.Context, db bun.IDB, key rosterdb.RosterKey) ([]rosterdb.Slot, error) {
	f.record("ListRoster")
	var out []rosterdb.Slot
	for _, s := range f.Slots {
		if sameRoster(s, key) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SlotNumber < out[j].SlotNumber })
	return out, nil
}

func (f *FakeRosterRepo) ListActiveHolders(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, division, playerID string) ([]uuid.UUID, error) {
	f.record("ListActiveHolders")
	var out []uuid.UUID
	for _, s := range f.Slots {
		if s.TournamentID == tournamentID && s.Division == division && s.PlayerID == playerID && !s.Benched {
			out = append(out, s.UserID)
		}
	}
	return out, nil
}

func (f *FakeRosterRepo) AppendTradeLog(ctx context.Context, db bun.IDB, entry *rosterdb.TradeLogEntry) error {
	f.record("AppendTradeLog")
	entry.ID = int64(len(f.Log) + 1)
	f.Log = append(f.Log, *entry)
	return nil
}

func (f *FakeRosterRepo) ListTradeLog(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, limit int) ([]rosterdb.TradeLogEntry, error) {
	f.record("ListTradeLog")
	var out []rosterdb.TradeLogEntry
	for _, e := range slices.Backward(f.Log) {
		if e.TournamentID == tournamentID {
			out = append(out, e)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Roster returns slot -> player for one roster.
func (f *FakeRosterRepo) Roster(key rosterdb.RosterKey) map[int]string {
	out := map[int]string{}
	for _, s := range f.Slots {
		if sameRoster(s, key) {
			out[s.SlotNumber] = s.PlayerID
		}
	}
	return out
}

func (f *FakeRosterRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ rosterdb.Repository = (*FakeRosterRepo)(nil)

// ------------------------
// Fake Tournament Repo
// ------------------------

type FakeTournamentRepo struct {
	trace []string

	Tournament *tournamentdb.Tournament
	Players    map[string]string   // id -> name
	Divisions  map[string][]string // id -> global divisions
	Pins       map[string]string   // id -> tournament division
	Members    []tournamentdb.Member

	PlayerExistsErr error
}

func NewFakeTournamentRepo(t *tournamentdb.Tournament) *FakeTournamentRepo {
	return &FakeTournamentRepo{
		trace:      []string{},
		Tournament: t,
		Players:    map[string]string{},
		Divisions:  map[string][]string{},
		Pins:       map[string]string{},
	}
}

func (f *FakeTournamentRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// AddPlayer registers a catalog player in one global division.
func (f *FakeTournamentRepo) AddPlayer(id, name, division string) {
	f.Players[id] = name
	f.Divisions[id] = append(f.Divisions[id], division)
}

func (f *FakeTournamentRepo) GetTournament(ctx context.Context, db bun.IDB, id uuid.UUID) (*tournamentdb.Tournament, error) {
	f.record("GetTournament")
	if f.Tournament == nil || f.Tournament.ID != id {
		return nil, tournamentdb.ErrNotFound
	}
	c := *f.Tournament
	return &c, nil
}

func (f *FakeTournamentRepo) ListCompetitions(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]tournamentdb.Competition, error) {
	f.record("ListCompetitions")
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
	return f.Members, nil
}

func (f *FakeTournamentRepo) PlayerExists(ctx context.Context, db bun.IDB, playerID string) (bool, error) {
	f.record("PlayerExists")
	if f.PlayerExistsErr != nil {
		return false, f.PlayerExistsErr
	}
	_, ok := f.Players[playerID]
	return ok, nil
}

func (f *FakeTournamentRepo) GetPlayersByIDs(ctx context.Context, db bun.IDB, playerIDs []string) ([]tournamentdb.Player, error) {
	f.record("GetPlayersByIDs")
	var out []tournamentdb.Player
	for _, id := range playerIDs {
		if name, ok := f.Players[id]; ok {
			out = append(out, tournamentdb.Player{ID: id, Name: name})
		}
	}
	return out, nil
}

func (f *FakeTournamentRepo) GetPlayerDivisions(ctx context.Context, db bun.IDB, playerID string) ([]string, error) {
	f.record("GetPlayerDivisions")
	return f.Divisions[playerID], nil
}

func (f *FakeTournamentRepo) GetTournamentDivision(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, playerID string) (string, error) {
	f.record("GetTournamentDivision")
	if d, ok := f.Pins[playerID]; ok {
		return d, nil
	}
	return "", tournamentdb.ErrNotFound
}

func (f *FakeTournamentRepo) AssignTournamentDivision(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, playerID, division string) error {
	f.record("AssignTournamentDivision")
	if _, ok := f.Pins[playerID]; !ok {
		f.Pins[playerID] = division
	}
	return nil
}

func (f *FakeTournamentRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ tournamentdb.Repository = (*FakeTournamentRepo)(nil)

// ------------------------
// Fake Gate
// ------------------------

type FakeGate struct {
	Allowed bool
	Err     error
	Calls   int
}

func (g *FakeGate) AllowedToExchange(ctx context.Context, tournamentID, userID uuid.UUID, privileged bool) (bool, error) {
	g.Calls++
	if g.Err != nil {
		return false, g.Err
	}
	return g.Allowed || privileged, nil
}

var _ ExchangeGate = (*FakeGate)(nil)
