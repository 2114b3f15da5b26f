package rosterdomain

// Action names a roster mutation in the trade log.
type Action string

const (
	ActionAdd            Action = "add"
	ActionMove           Action = "move"
	ActionSwapTournament Action = "swap_tournament"
	ActionSwapLocal      Action = "swap_local"
)

// Occupant is a slot row as seen by Resolve.
type Occupant struct {
	SlotID     int64
	SlotNumber int
	PlayerID   string
}

// Resolution is the decided outcome of one pick. Exactly one of NoOp, Add,
// Move, SwapTournament or SwapLocal.
type Resolution interface {
	resolution()
}

// NoOp: the player already sits in the target slot.
type NoOp struct {
	Slot int
}

// Add puts an unrostered player into an empty slot.
type Add struct {
	PlayerID string
	Slot     int
}

// Move relocates a rostered player to an empty slot.
type Move struct {
	SlotID   int64
	PlayerID string
	From     int
	To       int
}

// SwapTournament replaces the target's occupant with an unrostered player.
// The displaced player leaves the roster.
type SwapTournament struct {
	TargetID  int64
	PlayerID  string
	Displaced string
	Slot      int
}

// SwapLocal exchanges two rostered players' slots.
type SwapLocal struct {
	TargetID  int64
	SourceID  int64
	PlayerID  string
	Displaced string
	From      int
	To        int
}

func (NoOp) resolution()           {}
func (Add) resolution()            {}
func (Move) resolution()           {}
func (SwapTournament) resolution() {}
func (SwapLocal) resolution()      {}

// Resolve decides what assigning playerID to target does. existing is the
// slot already holding the player and occupant is the target slot's row;
// either may be nil.
func Resolve(playerID string, target int, existing, occupant *Occupant) Resolution {
	if existing != nil && existing.SlotNumber == target {
		return NoOp{Slot: target}
	}

	switch {
	case existing == nil && occupant == nil:
		return Add{PlayerID: playerID, Slot: target}
	case existing == nil:
		return SwapTournament{
			TargetID:  occupant.SlotID,
			PlayerID:  playerID,
			Displaced: occupant.PlayerID,
			Slot:      target,
		}
	case occupant == nil:
		return Move{
			SlotID:   existing.SlotID,
			PlayerID: playerID,
			From:     existing.SlotNumber,
			To:       target,
		}
	default:
		return SwapLocal{
			TargetID:  occupant.SlotID,
			SourceID:  existing.SlotID,
			PlayerID:  playerID,
			Displaced: occupant.PlayerID,
			From:      existing.SlotNumber,
			To:        target,
		}
	}
}

// LogFields is the audit record a resolution produces.
type LogFields struct {
	Action        Action
	PlayerID      string
	SlotNumber    int
	OtherPlayerID *string
	OtherSlot     *int
}

// TradeLog returns the entry to append for r. NoOp writes nothing.
func TradeLog(r Resolution) (LogFields, bool) {
	switch r := r.(type) {
	case Add:
		return LogFields{Action: ActionAdd, PlayerID: r.PlayerID, SlotNumber: r.Slot}, true
	case Move:
		from := r.From
		return LogFields{Action: ActionMove, PlayerID: r.PlayerID, SlotNumber: r.To, OtherSlot: &from}, true
	case SwapTournament:
		other := r.Displaced
		return LogFields{Action: ActionSwapTournament, PlayerID: r.PlayerID, SlotNumber: r.Slot, OtherPlayerID: &other}, true
	case SwapLocal:
		other, from := r.Displaced, r.From
		return LogFields{Action: ActionSwapLocal, PlayerID: r.PlayerID, SlotNumber: r.To, OtherPlayerID: &other, OtherSlot: &from}, true
	default:
		return LogFields{}, false
	}
}

// Benched reports whether a slot sits above the tournament's bench threshold.
func Benched(slot, threshold int) bool {
	return slot > threshold
}
