package scoringhandlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	scoringservice "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/application"
	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/attr"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxUploadBytes caps a results file upload.
const maxUploadBytes = 8 << 20

// HTTPHandlers serves standings and result imports.
type HTTPHandlers struct {
	service scoringservice.Service
	logger  *slog.Logger
}

// NewHTTPHandlers creates a new HTTPHandlers instance.
func NewHTTPHandlers(service scoringservice.Service, logger *slog.Logger) *HTTPHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPHandlers{service: service, logger: logger}
}

// Routes registers the read routes on an authenticated router.
func (h *HTTPHandlers) Routes(r chi.Router) {
	r.Get("/tournaments/{tournamentID}/standings", h.HandleStandings)
	r.Get("/tournaments/{tournamentID}/standings.png", h.HandleStandingsChart)
}

// AdminRoutes registers routes that require the admin role.
func (h *HTTPHandlers) AdminRoutes(r chi.Router) {
	r.Post("/competitions/{competitionID}/rounds/{round}/divisions/{division}/results", h.HandleImportResults)
}

type standingResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Score       int       `json:"score"`
	Rank        int       `json:"rank"`
}

func (h *HTTPHandlers) HandleStandings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tournamentID, err := uuid.Parse(chi.URLParam(r, "tournamentID"))
	if err != nil {
		http.Error(w, "invalid tournament id", http.StatusBadRequest)
		return
	}

	standings, err := h.service.ListStandings(ctx, tournamentID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]standingResponse, 0, len(standings))
	for _, s := range standings {
		out = append(out, standingResponse{UserID: s.UserID, DisplayName: s.DisplayName, Score: s.Score, Rank: s.Rank})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandlers) HandleStandingsChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tournamentID, err := uuid.Parse(chi.URLParam(r, "tournamentID"))
	if err != nil {
		http.Error(w, "invalid tournament id", http.StatusBadRequest)
		return
	}

	png, err := h.service.StandingsChart(ctx, tournamentID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

type importResponse struct {
	PlayersScored  int `json:"players_scored"`
	EntriesWritten int `json:"entries_written"`
	PlayersSkipped int `json:"players_skipped"`
	EntriesRemoved int `json:"entries_removed"`
}

// HandleImportResults accepts a multipart upload in field "file".
func (h *HTTPHandlers) HandleImportResults(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	competitionID, err := uuid.Parse(chi.URLParam(r, "competitionID"))
	if err != nil {
		http.Error(w, "invalid competition id", http.StatusBadRequest)
		return
	}
	round, err := strconv.Atoi(chi.URLParam(r, "round"))
	if err != nil {
		http.Error(w, "invalid round", http.StatusBadRequest)
		return
	}
	division := chi.URLParam(r, "division")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing results file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "unreadable results file", http.StatusBadRequest)
		return
	}

	summary, err := h.service.ImportRoundResults(ctx, competitionID, round, division, header.Filename, data)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, importResponse{
		PlayersScored:  summary.PlayersScored,
		EntriesWritten: summary.EntriesWritten,
		PlayersSkipped: summary.PlayersSkipped,
		EntriesRemoved: summary.EntriesRemoved,
	})
}

func (h *HTTPHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, scoringservice.ErrTournamentNotFound),
		errors.Is(err, scoringservice.ErrCompetitionNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, scoringservice.ErrNoStandings):
		http.Error(w, "no standings yet", http.StatusNotFound)
	case errors.Is(err, scoringservice.ErrInvalidRound),
		errors.Is(err, scoringservice.ErrInvalidResultsFile):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.ErrorContext(r.Context(), "Scoring request failed", attr.String("path", r.URL.Path), attr.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
