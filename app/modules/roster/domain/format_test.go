package rosterdomain

import (
	"testing"
	"time"
)

func TestFormatEntry(t *testing.T) {
	at := time.Date(2024, 6, 2, 13, 5, 0, 0, time.UTC)
	five := 5

	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{
			name:  "add",
			entry: Entry{At: at, Division: "MPO", User: "alice", Action: ActionAdd, Player: "Paul McBeth", Slot: 3},
			want:  "2024-06-02 13:05 UTC [MPO] alice added Paul McBeth to slot 3",
		},
		{
			name:  "move",
			entry: Entry{At: at, Division: "MPO", User: "alice", Action: ActionMove, Player: "Paul McBeth", Slot: 2, OtherSlot: &five},
			want:  "2024-06-02 13:05 UTC [MPO] alice moved Paul McBeth from slot 5 to slot 2",
		},
		{
			name:  "swap tournament",
			entry: Entry{At: at, Division: "FPO", User: "bob", Action: ActionSwapTournament, Player: "Kristin Tattar", Slot: 1, OtherPlayer: "Paige Pierce"},
			want:  "2024-06-02 13:05 UTC [FPO] bob replaced Paige Pierce with Kristin Tattar in slot 1",
		},
		{
			name:  "swap local",
			entry: Entry{At: at, Division: "MPO", User: "alice", Action: ActionSwapLocal, Player: "Paul McBeth", Slot: 2, OtherPlayer: "Ricky Wysocki", OtherSlot: &five},
			want:  "2024-06-02 13:05 UTC [MPO] alice moved Paul McBeth to slot 2, swapping with Ricky Wysocki (now slot 5)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatEntry(tt.entry, time.UTC); got != tt.want {
				t.Fatalf("got %q\nwant %q", got, tt.want)
			}
		})
	}
}
