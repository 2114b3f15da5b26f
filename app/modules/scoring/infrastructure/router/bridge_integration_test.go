//go:build integration

package scoringrouter

import (
	"context"
	"log/slog"
	"testing"
	"time"

	natsutil "github.com/Black-And-White-Club/frolf-fantasy/internal/nats"
	"github.com/Black-And-White-Club/frolf-fantasy/internal/testutils"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type correlatingHandlers struct {
	got chan *message.Message
}

func (h *correlatingHandlers) HandleRoundAvailable(msg *message.Message) error {
	h.got <- msg
	return nil
}

func TestBridge_NATSToHandler(t *testing.T) {
	url := testutils.SetupNATS(t)
	logger := slog.Default()

	nc, err := natsutil.Connect(natsutil.Config{URL: url, Name: "bridge-test"}, logger)
	require.NoError(t, err)
	t.Cleanup(nc.Close)

	wmLogger := watermill.NewSlogLogger(logger)
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 8}, wmLogger)
	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	require.NoError(t, err)

	r := NewScoringRouter(logger, router, pubSub, pubSub, nc)
	handlers := &correlatingHandlers{got: make(chan *message.Message, 1)}
	require.NoError(t, r.Configure(handlers))
	require.NoError(t, r.StartBridge())
	require.NoError(t, nc.Flush())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Run(ctx) }()
	<-router.Running()

	msg := nats.NewMsg(RoundAvailableSubject)
	msg.Data = []byte(`{"competition_id":"8d6f5f52-6c8e-4d2f-9a57-3c1d2b1e9f00","round":2,"division":"FPO"}`)
	msg.Header.Set(correlationHeader, "corr-nats")
	require.NoError(t, nc.PublishMsg(msg))

	select {
	case got := <-handlers.got:
		assert.JSONEq(t, string(msg.Data), string(got.Payload))
		assert.Equal(t, "corr-nats", middleware.MessageCorrelationID(got))
	case <-time.After(10 * time.Second):
		t.Fatal("notification never reached the handler")
	}
	require.NoError(t, r.Close())
}
