package scoringdomain

import "time"

// PlayerResult is one player's line in a round result.
type PlayerResult struct {
	PlayerID  string `json:"player_id"`
	Name      string `json:"name"`
	Placement int    `json:"placement"` // 0 when unplaced (DNF)
	Throws    int    `json:"throws"`
	Started   bool   `json:"started"`
}

// RoundResult is the outcome of one round of one division.
type RoundResult struct {
	CourseName  string         `json:"course_name"`
	Holes       int            `json:"holes"`
	Par         int            `json:"par"`
	Players     []PlayerResult `json:"players"`
	Final       bool           `json:"final"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

// RoundSummary reports what ScoreRound did.
type RoundSummary struct {
	PlayersScored  int `json:"players_scored"`
	EntriesWritten int `json:"entries_written"`
	PlayersSkipped int `json:"players_skipped"`
	EntriesRemoved int `json:"entries_removed"`
}
