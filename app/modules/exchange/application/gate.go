package exchangeservice

import (
	"context"

	exchangedomain "github.com/Black-And-White-Club/frolf-fantasy/app/modules/exchange/domain"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Gate adapts the scheduler to the roster engine's admission check, reading
// "now" from an injected clock.
type Gate struct {
	service Service
	clock   clockwork.Clock
}

// NewGate returns a Gate. A nil clock uses the real one.
func NewGate(service Service, clock clockwork.Clock) *Gate {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Gate{service: service, clock: clock}
}

// AllowedToExchange reports whether the user may exchange right now.
func (g *Gate) AllowedToExchange(ctx context.Context, tournamentID, userID uuid.UUID, privileged bool) (bool, error) {
	status, err := g.service.ExchangeStatus(ctx, userID, tournamentID, g.clock.Now(), privileged)
	if err != nil {
		return false, err
	}
	return status.Kind == exchangedomain.AllowedToExchange, nil
}
