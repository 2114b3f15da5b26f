package exchangeservice

import "errors"

var ErrTournamentNotFound = errors.New("tournament not found")
