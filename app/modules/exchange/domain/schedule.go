package exchangedomain

import (
	"time"

	scoringdomain "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/domain"
	"github.com/google/uuid"
)

// State is the tournament-wide exchange state.
type State int

const (
	StateOpen State = iota
	StateRestricted
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateRestricted:
		return "restricted_rotation"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Phase is a competition's lifecycle as the scheduler sees it.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseRunning
	PhaseFinished
)

// Competition carries the scheduling facts of one competition. Zero times are unknown.
type Competition struct {
	Phase       Phase
	StartDate   time.Time
	CompletedAt time.Time
}

// Schedule is the evaluated exchange state of a tournament at one instant.
type Schedule struct {
	State       State
	FirstWindow *time.Time
	Cutoff      *time.Time
	Turns       []Turn
}

// Evaluate derives the schedule from competitions and standings. Nothing is
// stored; every call recomputes.
func Evaluate(competitions []Competition, standings []scoringdomain.Standing, now time.Time, loc *time.Location) Schedule {
	var (
		latestCompletion time.Time
		nextStart        time.Time
	)
	for _, c := range competitions {
		switch c.Phase {
		case PhaseRunning:
			return Schedule{State: StateClosed}
		case PhaseFinished:
			if c.CompletedAt.After(latestCompletion) {
				latestCompletion = c.CompletedAt
			}
		case PhaseNotStarted:
			if !c.StartDate.IsZero() && (nextStart.IsZero() || c.StartDate.Before(nextStart)) {
				nextStart = c.StartDate
			}
		}
	}

	if latestCompletion.IsZero() {
		return Schedule{State: StateOpen}
	}

	first := FirstWindow(latestCompletion, loc)
	sched := Schedule{State: StateRestricted, FirstWindow: &first}

	if !nextStart.IsZero() {
		cutoff := Cutoff(nextStart, loc)
		sched.Cutoff = &cutoff
		if !now.Before(cutoff) {
			sched.State = StateOpen
			return sched
		}
	}

	sched.Turns = SimulateRotation(standings, first, now, loc)
	if sched.Cutoff != nil {
		for i := range sched.Turns {
			if sched.Turns[i].OpensAt.After(*sched.Cutoff) {
				sched.Turns[i].OpensAt = *sched.Cutoff
			}
		}
	}
	return sched
}

// HasBegun reports whether the first rotation window is in the past.
func (s Schedule) HasBegun(now time.Time) bool {
	return s.FirstWindow != nil && s.FirstWindow.Before(now)
}

// StatusKind is the per-user verdict.
type StatusKind int

const (
	AllowedToExchange StatusKind = iota
	AllowedToReorder
	Closed
)

func (k StatusKind) String() string {
	switch k {
	case AllowedToExchange:
		return "allowed_to_exchange"
	case AllowedToReorder:
		return "allowed_to_reorder"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Status is what one user may do right now. OpensAt is set for AllowedToReorder
// when the user's turn is known.
type Status struct {
	Kind    StatusKind
	OpensAt *time.Time
}

// StatusFor resolves the verdict for one user. Users missing from the rotation
// wait for the cutoff.
func (s Schedule) StatusFor(userID uuid.UUID, privileged bool) Status {
	if privileged || s.State == StateOpen {
		return Status{Kind: AllowedToExchange}
	}
	if s.State == StateClosed {
		return Status{Kind: Closed}
	}
	for _, turn := range s.Turns {
		if turn.UserID != userID {
			continue
		}
		if turn.Eligible {
			return Status{Kind: AllowedToExchange}
		}
		opens := turn.OpensAt
		return Status{Kind: AllowedToReorder, OpensAt: &opens}
	}
	return Status{Kind: AllowedToReorder, OpensAt: s.Cutoff}
}
