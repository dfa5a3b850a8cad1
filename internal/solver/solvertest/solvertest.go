// Package solvertest provides doubles for the remote solver: an HTTP server
// that speaks the real wire protocol and a scripted in-process Gateway.
package solvertest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordlebot/internal/game"
	"github.com/robalobadob/wordlebot/internal/solver"
)

// Server is a fake solver. It narrows answers with game.Score and replies
// with the first remaining candidate, "NA" when none remain and "NOTW" when
// a guess is missing from the dictionary.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	answers    []game.Word
	dictionary map[game.Word]struct{}
	requests   [][]game.Record
	status     int
	raw        string
}

// NewServer starts a fake solver; it is closed when the test ends.
// Answers are always part of the dictionary.
func NewServer(t testing.TB, answers []game.Word, extra ...game.Word) *Server {
	t.Helper()
	s := &Server{
		answers:    slices.Clone(answers),
		dictionary: make(map[game.Word]struct{}, len(answers)+len(extra)),
	}
	for _, w := range append(slices.Clone(answers), extra...) {
		s.dictionary[w] = struct{}{}
	}

	r := chi.NewRouter()
	r.Post(solver.NextGuessPath, s.handleNextGuess)
	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Fail makes every following request answer with status and no JSON body.
func (s *Server) Fail(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// Respond makes every following request answer 200 with a fixed raw body.
func (s *Server) Respond(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = raw
}

// Requests returns the histories received so far.
func (s *Server) Requests() [][]game.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

func (s *Server) handleNextGuess(w http.ResponseWriter, r *http.Request) {
	var history []game.Record
	if err := json.NewDecoder(r.Body).Decode(&history); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, history)
	status, raw := s.status, s.raw
	s.mu.Unlock()

	if status != 0 {
		http.Error(w, `{"error":"unavailable"}`, status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if raw != "" {
		_, _ = w.Write([]byte(raw))
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"nextGuess": s.next(history)})
}

func (s *Server) next(history []game.Record) string {
	for _, rec := range history {
		if _, ok := s.dictionary[rec.Guess]; !ok {
			return solver.SentinelInvalidWord
		}
	}
	for _, candidate := range s.answers {
		if game.InHistory(candidate, history) {
			continue
		}
		if consistent(candidate, history) {
			return string(candidate)
		}
	}
	return solver.SentinelNoCandidates
}

func consistent(answer game.Word, history []game.Record) bool {
	for _, rec := range history {
		if game.Score(answer, rec.Guess) != rec.Feedback {
			return false
		}
	}
	return true
}

// Step is one scripted reply of Gateway.
type Step struct {
	Word game.Word
	Err  error
}

// ErrUnscripted is returned once a Gateway runs out of steps.
var ErrUnscripted = errors.New("no scripted solver response")

// Gateway replays scripted steps in order and records every history it
// receives.
type Gateway struct {
	mu    sync.Mutex
	steps []Step
	calls [][]game.Record
	gate  chan struct{}
}

// NewGateway returns a Gateway replaying steps.
func NewGateway(steps ...Step) *Gateway {
	return &Gateway{steps: steps}
}

// Hold makes calls block until Release is called (or their context ends).
func (g *Gateway) Hold() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gate = make(chan struct{})
}

// Release unblocks held calls.
func (g *Gateway) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gate != nil {
		close(g.gate)
		g.gate = nil
	}
}

// NextGuess implements solver.Gateway.
func (g *Gateway) NextGuess(ctx context.Context, history []game.Record) (game.Word, error) {
	g.mu.Lock()
	g.calls = append(g.calls, slices.Clone(history))
	gate := g.gate
	g.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", &solver.TransportError{Op: "request", Err: ctx.Err()}
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.steps) == 0 {
		return "", &solver.TransportError{Op: "request", Err: ErrUnscripted}
	}
	step := g.steps[0]
	g.steps = g.steps[1:]
	return step.Word, step.Err
}

// Calls returns the histories received so far.
func (g *Gateway) Calls() [][]game.Record {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.calls)
}
