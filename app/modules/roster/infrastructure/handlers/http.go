package rosterhandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	authdomain "github.com/Black-And-White-Club/frolf-fantasy/app/modules/auth/domain"
	rosterservice "github.com/Black-And-White-Club/frolf-fantasy/app/modules/roster/application"
	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/attr"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// RosterHandlers serves picks, rosters and the trade log.
type RosterHandlers struct {
	service rosterservice.Service
	logger  *slog.Logger
}

// NewRosterHandlers creates a new RosterHandlers instance.
func NewRosterHandlers(service rosterservice.Service, logger *slog.Logger) *RosterHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &RosterHandlers{service: service, logger: logger}
}

// Routes registers the roster routes on an authenticated router.
func (h *RosterHandlers) Routes(r chi.Router) {
	r.Post("/tournaments/{tournamentID}/picks", h.HandleAssignPick)
	r.Get("/tournaments/{tournamentID}/trade-log", h.HandleTradeLog)
	r.Get("/tournaments/{tournamentID}/rosters/{division}", h.HandleListRoster)
}

// PickPayload is the body of a pick request.
type PickPayload struct {
	Division string `json:"division"`
	Slot     int    `json:"slot"`
	PlayerID string `json:"player_id"`
}

// HandleAssignPick maps TradeError kinds to 404/403/409/500. An exchange gate
// failure arrives as Forbidden: admission that cannot be evaluated is denied.
func (h *RosterHandlers) HandleAssignPick(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, tournamentID, ok := h.caller(w, r)
	if !ok {
		return
	}

	var payload PickPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Division == "" || payload.PlayerID == "" {
		http.Error(w, "division and player_id are required", http.StatusBadRequest)
		return
	}

	err := h.service.AssignPick(ctx, rosterservice.PickRequest{
		TournamentID: tournamentID,
		UserID:       identity.UserID,
		Division:     payload.Division,
		Slot:         payload.Slot,
		PlayerID:     payload.PlayerID,
		Privileged:   identity.IsAdmin(),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RosterHandlers) HandleTradeLog(w http.ResponseWriter, r *http.Request) {
	_, tournamentID, ok := h.caller(w, r)
	if !ok {
		return
	}

	lines, err := h.service.FormatTradeLog(r.Context(), tournamentID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, map[string][]string{"lines": lines})
}

func (h *RosterHandlers) HandleListRoster(w http.ResponseWriter, r *http.Request) {
	identity, tournamentID, ok := h.caller(w, r)
	if !ok {
		return
	}

	slots, err := h.service.ListRoster(r.Context(), tournamentID, identity.UserID, chi.URLParam(r, "division"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, map[string][]rosterservice.RosterSlot{"slots": slots})
}

func (h *RosterHandlers) caller(w http.ResponseWriter, r *http.Request) (authdomain.Identity, uuid.UUID, bool) {
	identity, ok := authdomain.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return authdomain.Identity{}, uuid.Nil, false
	}
	tournamentID, err := uuid.Parse(chi.URLParam(r, "tournamentID"))
	if err != nil {
		http.Error(w, "invalid tournament id", http.StatusBadRequest)
		return authdomain.Identity{}, uuid.Nil, false
	}
	return identity, tournamentID, true
}

func (h *RosterHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var tradeErr *rosterservice.TradeError
	if !errors.As(err, &tradeErr) {
		tradeErr = &rosterservice.TradeError{Kind: rosterservice.KindUnknown, Err: err}
	}

	switch tradeErr.Kind {
	case rosterservice.KindNotFound:
		http.Error(w, tradeErr.Error(), http.StatusNotFound)
	case rosterservice.KindForbidden:
		http.Error(w, tradeErr.Error(), http.StatusForbidden)
	case rosterservice.KindConflict:
		http.Error(w, tradeErr.Error(), http.StatusConflict)
	default:
		h.logger.ErrorContext(r.Context(), "Roster request failed", attr.String("path", r.URL.Path), attr.Error(err))
		http.Error(w, tradeErr.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
