package scoringrouter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	scoringhandlers "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/infrastructure/handlers"
	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/nats-io/nats.go"
)

const (
	// RoundAvailableSubject is the NATS subject the results feed publishes on.
	RoundAvailableSubject = "results.round.available"

	// RoundAvailableTopic is the in-process topic the bridge forwards to.
	RoundAvailableTopic = "scoring.round.available"

	// QueueGroup load balances notifications across instances.
	QueueGroup = "frolf-fantasy"

	correlationHeader = "Correlation-Id"
)

// Subscriber is the NATS side of the bridge.
type Subscriber interface {
	QueueSubscribe(subject, queue string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// ScoringRouter bridges NATS result notifications into a watermill router.
type ScoringRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber message.Subscriber
	publisher  message.Publisher
	nc         Subscriber
	natsSub    *nats.Subscription
}

// NewScoringRouter creates a router. subscriber and publisher are normally the
// same in-process gochannel.
func NewScoringRouter(logger *slog.Logger, router *message.Router, subscriber message.Subscriber, publisher message.Publisher, nc Subscriber) *ScoringRouter {
	return &ScoringRouter{
		logger:     logger,
		Router:     router,
		subscriber: subscriber,
		publisher:  publisher,
		nc:         nc,
	}
}

// Configure registers middleware and the round-available handler.
func (r *ScoringRouter) Configure(handlers scoringhandlers.Handlers) error {
	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 500 * time.Millisecond,
			Logger:          watermill.NewSlogLogger(r.logger),
		}.Middleware,
	)

	r.Router.AddNoPublisherHandler(
		"scoring.round_available",
		RoundAvailableTopic,
		r.subscriber,
		handlers.HandleRoundAvailable,
	)
	return nil
}

// StartBridge subscribes to the NATS subject and forwards every notification.
func (r *ScoringRouter) StartBridge() error {
	if r.nc == nil {
		r.logger.Warn("NATS connection not configured, result notifications disabled")
		return nil
	}
	sub, err := r.nc.QueueSubscribe(RoundAvailableSubject, QueueGroup, r.Forward)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", RoundAvailableSubject, err)
	}
	r.natsSub = sub
	r.logger.Info("Result notification bridge started", attr.String("subject", RoundAvailableSubject))
	return nil
}

// Forward republishes a NATS message on the in-process topic.
func (r *ScoringRouter) Forward(m *nats.Msg) {
	msg := message.NewMessage(watermill.NewUUID(), m.Data)
	correlationID := ""
	if m.Header != nil {
		correlationID = m.Header.Get(correlationHeader)
	}
	if correlationID == "" {
		correlationID = watermill.NewShortUUID()
	}
	middleware.SetCorrelationID(correlationID, msg)

	if err := r.publisher.Publish(RoundAvailableTopic, msg); err != nil {
		r.logger.Error("Failed to forward result notification",
			attr.String("correlation_id", correlationID),
			attr.Error(err),
		)
	}
}

// Run blocks running the watermill router until ctx is done.
func (r *ScoringRouter) Run(ctx context.Context) error {
	return r.Router.Run(ctx)
}

// Close stops the bridge and the router.
func (r *ScoringRouter) Close() error {
	if r.natsSub != nil {
		if err := r.natsSub.Unsubscribe(); err != nil {
			r.logger.Warn("Failed to unsubscribe result bridge", attr.Error(err))
		}
	}
	return r.Router.Close()
}
