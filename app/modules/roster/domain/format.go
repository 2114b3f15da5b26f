package rosterdomain

import (
	"fmt"
	"time"
)

const logTimeLayout = "2006-01-02 15:04 MST"

// Entry is a trade log record with names already resolved. Empty names fall
// back to ids in the caller.
type Entry struct {
	At          time.Time
	Division    string
	User        string
	Action      Action
	Player      string
	Slot        int
	OtherPlayer string
	OtherSlot   *int
}

// FormatEntry renders one trade log line.
func FormatEntry(e Entry, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	prefix := fmt.Sprintf("%s [%s] %s", e.At.In(loc).Format(logTimeLayout), e.Division, e.User)

	switch e.Action {
	case ActionAdd:
		return fmt.Sprintf("%s added %s to slot %d", prefix, e.Player, e.Slot)
	case ActionMove:
		return fmt.Sprintf("%s moved %s from slot %d to slot %d", prefix, e.Player, deref(e.OtherSlot), e.Slot)
	case ActionSwapTournament:
		return fmt.Sprintf("%s replaced %s with %s in slot %d", prefix, e.OtherPlayer, e.Player, e.Slot)
	case ActionSwapLocal:
		return fmt.Sprintf("%s moved %s to slot %d, swapping with %s (now slot %d)", prefix, e.Player, e.Slot, e.OtherPlayer, deref(e.OtherSlot))
	default:
		return fmt.Sprintf("%s %s %s at slot %d", prefix, e.Action, e.Player, e.Slot)
	}
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
