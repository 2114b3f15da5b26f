package exchangehandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	authdomain "github.com/Black-And-White-Club/frolf-fantasy/app/modules/auth/domain"
	exchangeservice "github.com/Black-And-White-Club/frolf-fantasy/app/modules/exchange/application"
	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/attr"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// ExchangeHandlers serves the caller's exchange status.
type ExchangeHandlers struct {
	service exchangeservice.Service
	clock   clockwork.Clock
	logger  *slog.Logger
}

// NewExchangeHandlers creates a new ExchangeHandlers instance.
func NewExchangeHandlers(service exchangeservice.Service, clock clockwork.Clock, logger *slog.Logger) *ExchangeHandlers {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExchangeHandlers{service: service, clock: clock, logger: logger}
}

// Routes registers the exchange routes on an authenticated router.
func (h *ExchangeHandlers) Routes(r chi.Router) {
	r.Get("/tournaments/{tournamentID}/exchange/status", h.HandleExchangeStatus)
}

type statusResponse struct {
	Status        string     `json:"status"`
	OpensAt       *time.Time `json:"opens_at,omitempty"`
	ExchangeBegun bool       `json:"exchange_begun"`
}

func (h *ExchangeHandlers) HandleExchangeStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := authdomain.IdentityFromContext(ctx)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	tournamentID, err := uuid.Parse(chi.URLParam(r, "tournamentID"))
	if err != nil {
		http.Error(w, "invalid tournament id", http.StatusBadRequest)
		return
	}

	now := h.clock.Now()
	status, err := h.service.ExchangeStatus(ctx, identity.UserID, tournamentID, now, identity.IsAdmin())
	var begun bool
	if err == nil {
		begun, err = h.service.HasExchangeBegun(ctx, tournamentID, now)
	}
	if err != nil {
		if errors.Is(err, exchangeservice.ErrTournamentNotFound) {
			http.Error(w, "tournament not found", http.StatusNotFound)
			return
		}
		// Scheduler failures are reported as server errors, never as a verdict.
		h.logger.ErrorContext(ctx, "Exchange status failed",
			attr.UUID("tournament_id", tournamentID),
			attr.UUID("user_id", identity.UserID),
			attr.Error(err),
		)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(statusResponse{
		Status:        status.Kind.String(),
		OpensAt:       status.OpensAt,
		ExchangeBegun: begun,
	})
}
