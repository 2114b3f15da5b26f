package scoringservice

import "errors"

// Domain failures returned by the scoring service. Callers treat them as
// rejected input rather than retrying.
var (
	ErrCompetitionNotFound = errors.New("competition not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrInvalidRound        = errors.New("invalid round or division")
	ErrInvalidResultsFile  = errors.New("invalid results file")
)
