// internal/solver/client.go
//
// HTTP implementation of Gateway.
//
// Request:  POST {baseURL}/api/next-guess  body: [{"guess":"raise","feedback":"YBGBY"}, ...]
// Response: {"nextGuess":"..."}
//
// Calls are paced by a token bucket so a burst of sessions cannot hammer the
// solver; the wait honours the caller's context.

package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/robalobadob/wordlebot/internal/game"
)

// DefaultTimeout bounds a single solver round trip.
const DefaultTimeout = 15 * time.Second

// NextGuessPath is the solver endpoint.
const NextGuessPath = "/api/next-guess"

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 16

// Client talks to the remote solver over HTTP. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit paces outbound calls to rps requests per second.
// rps <= 0 disables pacing.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the component logger.
func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) { c.log = l }
}

// NewClient creates a client for the solver at baseURL (e.g. "http://localhost:8080").
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type nextGuessResponse struct {
	NextGuess *string `json:"nextGuess"`
}

// NextGuess sends history to the solver and interprets the answer.
func (c *Client) NextGuess(ctx context.Context, history []game.Record) (game.Word, error) {
	start := time.Now()
	w, err := c.nextGuess(ctx, history)
	requestDuration.Observe(time.Since(start).Seconds())
	requestsTotal.WithLabelValues(resultLabel(err)).Inc()

	lvl := zerolog.DebugLevel
	if err != nil && !IsSentinel(err) {
		lvl = zerolog.WarnLevel
	}
	c.log.WithLevel(lvl).Err(err).
		Int("rounds", len(history)).
		Str("result", resultLabel(err)).
		Str("next", string(w)).
		Dur("took", time.Since(start)).
		Msg("solver next-guess")
	return w, err
}

func (c *Client) nextGuess(ctx context.Context, history []game.Record) (game.Word, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", &TransportError{Op: "request", Err: err}
		}
	}

	if history == nil {
		history = []game.Record{}
	}
	body, err := json.Marshal(history)
	if err != nil {
		return "", &TransportError{Op: "request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+NextGuessPath, bytes.NewReader(body))
	if err != nil {
		return "", &TransportError{Op: "request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Op: "request", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &TransportError{Op: "decode", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &TransportError{
			Op:     "status",
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(raw))),
		}
	}

	var out nextGuessResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", &TransportError{Op: "decode", Err: err}
	}
	if out.NextGuess == nil {
		return "", &TransportError{Op: "decode", Err: errors.New("response has no nextGuess field")}
	}
	return Interpret(*out.NextGuess)
}
