package scoringhandlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	scoringqueue "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/infrastructure/queue"
	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/google/uuid"
)

// RoundAvailablePayload announces that a provider has results for a round.
type RoundAvailablePayload struct {
	CompetitionID uuid.UUID `json:"competition_id"`
	Round         int       `json:"round"`
	Division      string    `json:"division"`
}

// Handlers defines the scoring message handlers.
type Handlers interface {
	HandleRoundAvailable(msg *message.Message) error
}

// ScoringHandlers turns result notifications into queued jobs.
type ScoringHandlers struct {
	queue  scoringqueue.Enqueuer
	logger *slog.Logger
}

// NewScoringHandlers creates a new ScoringHandlers instance.
func NewScoringHandlers(queue scoringqueue.Enqueuer, logger *slog.Logger) Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScoringHandlers{queue: queue, logger: logger}
}

// HandleRoundAvailable enqueues a score_round job. Undecodable or invalid
// payloads are acked and dropped; enqueue failures are returned for retry.
func (h *ScoringHandlers) HandleRoundAvailable(msg *message.Message) error {
	ctx := attr.WithCorrelationID(msg.Context(), middleware.MessageCorrelationID(msg))

	var payload RoundAvailablePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		h.logger.WarnContext(ctx, "Dropping undecodable round notification",
			attr.ExtractCorrelationID(ctx),
			attr.String("message_id", msg.UUID),
			attr.Error(err),
		)
		return nil
	}
	if payload.CompetitionID == uuid.Nil || payload.Round < 1 || strings.TrimSpace(payload.Division) == "" {
		h.logger.WarnContext(ctx, "Dropping invalid round notification",
			attr.ExtractCorrelationID(ctx),
			attr.String("message_id", msg.UUID),
			attr.Any("payload", payload),
		)
		return nil
	}

	if err := h.queue.EnqueueScoreRound(ctx, scoringqueue.ScoreRoundJob{
		CompetitionID: payload.CompetitionID.String(),
		Round:         payload.Round,
		Division:      payload.Division,
	}); err != nil {
		return fmt.Errorf("failed to enqueue score round: %w", err)
	}

	h.logger.InfoContext(ctx, "Round notification queued",
		attr.ExtractCorrelationID(ctx),
		attr.UUID("competition_id", payload.CompetitionID),
		attr.Int("round", payload.Round),
		attr.String("division", payload.Division),
	)
	return nil
}
