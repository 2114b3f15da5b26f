package scoringqueue

// ScoreRoundJob asks a worker to fetch and score one round of one division.
type ScoreRoundJob struct {
	CompetitionID string `json:"competition_id"`
	Round         int    `json:"round"`
	Division      string `json:"division"`
}

// Kind returns the job type identifier for River
func (ScoreRoundJob) Kind() string { return "score_round" }
