package resultsprovider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	scoringdomain "github.com/Black-And-White-Club/frolf-fantasy/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/frolf-fantasy/app/shared/attr"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

var (
	// ErrRoundNotAvailable means the provider has no results for the round yet.
	ErrRoundNotAvailable = errors.New("round results not available")

	// ErrUnavailable means the provider is failing or the breaker is open.
	ErrUnavailable = errors.New("results provider unavailable")
)

// Config configures the provider client.
type Config struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	BreakerTimeout    time.Duration
}

// Client fetches round results from the external results provider.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// NewClient creates a provider client. A nil httpClient gets one with cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 2
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}

	logger = logger.With(attr.String("component", "results_provider"))

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "results-provider",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// a missing round is an answer, not an outage
			return err == nil || errors.Is(err, ErrRoundNotAvailable) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				attr.String("breaker", name),
				attr.String("from", from.String()),
				attr.String("to", to.String()),
			)
		},
	})

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		breaker:    breaker,
		logger:     logger,
	}
}

type roundResponse struct {
	Course struct {
		Name  string `json:"name"`
		Holes int    `json:"holes"`
		Par   int    `json:"par"`
	} `json:"course"`
	Final       bool       `json:"final"`
	CompletedAt *time.Time `json:"completed_at"`
	Players     []struct {
		PlayerID  string `json:"player_id"`
		Name      string `json:"name"`
		Placement int    `json:"placement"`
		Throws    int    `json:"throws"`
		Started   bool   `json:"started"`
	} `json:"players"`
}

// FetchRound returns one round of one division for a competition identified by
// its provider event id.
func (c *Client) FetchRound(ctx context.Context, eventID string, round int, division string) (*scoringdomain.RoundResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetchRound(ctx, eventID, round, division)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, err
	}
	return out.(*scoringdomain.RoundResult), nil
}

func (c *Client) fetchRound(ctx context.Context, eventID string, round int, division string) (*scoringdomain.RoundResult, error) {
	endpoint := fmt.Sprintf("%s/events/%s/rounds/%s/divisions/%s/results",
		c.baseURL, url.PathEscape(eventID), strconv.Itoa(round), url.PathEscape(division))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrRoundNotAvailable
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: unexpected status %d: %s", ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload roundResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode round results: %w", err)
	}

	result := &scoringdomain.RoundResult{
		CourseName:  payload.Course.Name,
		Holes:       payload.Course.Holes,
		Par:         payload.Course.Par,
		Final:       payload.Final,
		CompletedAt: payload.CompletedAt,
		Players:     make([]scoringdomain.PlayerResult, 0, len(payload.Players)),
	}
	for _, p := range payload.Players {
		result.Players = append(result.Players, scoringdomain.PlayerResult{
			PlayerID:  p.PlayerID,
			Name:      p.Name,
			Placement: p.Placement,
			Throws:    p.Throws,
			Started:   p.Started,
		})
	}

	c.logger.DebugContext(ctx, "Fetched round results",
		attr.String("event_id", eventID),
		attr.Int("round", round),
		attr.String("division", division),
		attr.Int("players", len(result.Players)),
	)
	return result, nil
}
