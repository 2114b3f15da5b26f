// Package natsutil opens the service's NATS connection.
package natsutil

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/attr"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nkeys"
)

// Config configures the connection. An empty NKeySeed connects without
// credentials.
type Config struct {
	URL      string
	NKeySeed string
	Name     string
}

// Options builds the connection options, including NKey authentication when
// a seed is configured.
func Options(cfg Config, logger *slog.Logger) ([]nats.Option, error) {
	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", attr.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", attr.String("url", nc.ConnectedUrlRedacted()))
		}),
	}

	if cfg.NKeySeed != "" {
		kp, err := nkeys.FromSeed([]byte(cfg.NKeySeed))
		if err != nil {
			return nil, fmt.Errorf("failed to parse nkey seed: %w", err)
		}
		pub, err := kp.PublicKey()
		if err != nil {
			return nil, fmt.Errorf("failed to derive nkey public key: %w", err)
		}
		opts = append(opts, nats.Nkey(pub, func(nonce []byte) ([]byte, error) {
			return kp.Sign(nonce)
		}))
	}
	return opts, nil
}

// Connect dials NATS. It returns nil without error when no URL is configured.
func Connect(cfg Config, logger *slog.Logger) (*nats.Conn, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	opts, err := Options(cfg, logger)
	if err != nil {
		return nil, err
	}
	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.Info("Connected to NATS", attr.String("url", nc.ConnectedUrlRedacted()))
	return nc, nil
}
