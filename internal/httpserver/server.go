// internal/httpserver/server.go
//
// HTTP server wiring for the assistant.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/metrics".
//   - Session endpoints under /sessions, one per controller intent.
//   - Idle session eviction.
//
// Every session endpoint answers {"view": ..., "notice": ...}. Refused or
// failed intents also carry {"error": "<notice code>"} and a 4xx/5xx status.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/robalobadob/wordlebot/internal/session"
	"github.com/robalobadob/wordlebot/internal/store"
)

// SessionFactory builds a fresh controller for a new session id.
type SessionFactory func(id string) *session.Controller

// Server bundles router, session store and session factory.
type Server struct {
	r          *chi.Mux
	store      store.Store
	newSession SessionFactory
	log        zerolog.Logger
	origin     string
	timeout    time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithOrigin sets the single CORS origin allowed to call the API.
func WithOrigin(origin string) Option {
	return func(s *Server) {
		if origin != "" {
			s.origin = origin
		}
	}
}

// WithHandlerTimeout bounds how long a request may run, solver call included.
func WithHandlerTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, factory SessionFactory, opts ...Option) *Server {
	s := &Server{
		r:          chi.NewRouter(),
		store:      st,
		newSession: factory,
		log:        zerolog.Nop(),
		origin:     "http://localhost:5173",
		timeout:    20 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(s.requestLogger) // one line per request
	s.r.Use(jsonContentType) // default JSON responses
	s.r.Use(s.cors)          // single-origin CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"wordlebot","endpoints":["/health","/metrics","POST /sessions","/sessions/{id}/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Handle("/metrics", promhttp.Handler())

	s.mountSessions()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", r.URL.Path)
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", r.Method+" "+r.URL.Path)
	})

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Run serves HTTP on addr until ctx ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// SweepEvery evicts sessions idle for longer than idle, checking on every
// tick until ctx ends.
func (s *Server) SweepEvery(ctx context.Context, idle, every time.Duration) {
	if idle <= 0 || every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.sweep(ctx, now.Add(-idle))
		}
	}
}

func (s *Server) sweep(ctx context.Context, cutoff time.Time) {
	evicted := s.store.Sweep(ctx, cutoff)
	if len(evicted) > 0 {
		s.log.Info().Int("evicted", len(evicted)).Msg("swept idle sessions")
	}
	sessionsActive.Set(float64(s.store.Len()))
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables CORS for a single origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", s.origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

// ----------------------------- sessions ------------------------------------

func (s *Server) mountSessions() {
	s.r.With(chimw.Timeout(s.timeout)).Post("/sessions", s.handleCreate)
	s.r.Route("/sessions/{id}", func(r chi.Router) {
		r.Use(s.withSession)

		// bounds its own solver call and always answers itself
		r.Post("/submit", s.handleSubmit)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(s.timeout)) // bound handler time
			r.Get("/", s.handleView)
			r.Delete("/", s.handleDelete)
			r.Post("/cells/{index}/cycle", s.handleCycle)
			r.Post("/reset", s.handleReset)
			r.Put("/overlay", s.handleOpenOverlay)
			r.Delete("/overlay", s.handleCloseOverlay)
			r.Put("/custom-guess", s.handleEditCustomGuess)
			r.Post("/custom-guess/submit", s.handleSubmitCustomGuess)
		})
	})
}

type ctxSessionKey struct{}

// withSession loads the controller named by {id} into the request context.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusNotFound, "not_found", "unknown session")
			return
		}
		ctx := context.WithValue(r.Context(), ctxSessionKey{}, c)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) *session.Controller {
	c, _ := r.Context().Value(ctxSessionKey{}).(*session.Controller)
	return c
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	c := s.newSession(uuid.NewString())
	if err := s.store.Save(r.Context(), c); err != nil {
		s.log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed", "could not create session")
		return
	}
	sessionsActive.Set(float64(s.store.Len()))
	s.log.Info().Str("session", c.ID()).Msg("session created")

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(response{ID: c.ID(), View: c.View()})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	respond(w, sessionFrom(r), session.Notice{})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	c := sessionFrom(r)
	_ = s.store.Delete(r.Context(), c.ID())
	sessionsActive.Set(float64(s.store.Len()))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCycle(w http.ResponseWriter, r *http.Request) {
	c := sessionFrom(r)
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_index", "cell index must be a number")
		return
	}
	respond(w, c, c.CycleCell(index))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	c := sessionFrom(r)
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	respond(w, c, c.SubmitAndWait(ctx))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	c := sessionFrom(r)
	respond(w, c, c.Reset())
}

type overlayReq struct {
	Mode session.OverlayMode `json:"mode"`
}

func (s *Server) handleOpenOverlay(w http.ResponseWriter, r *http.Request) {
	var req overlayReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	c := sessionFrom(r)
	respond(w, c, c.OpenOverlay(req.Mode))
}

func (s *Server) handleCloseOverlay(w http.ResponseWriter, r *http.Request) {
	c := sessionFrom(r)
	respond(w, c, c.CloseOverlay())
}

type customGuessReq struct {
	Text string `json:"text"`
}

func (s *Server) handleEditCustomGuess(w http.ResponseWriter, r *http.Request) {
	var req customGuessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	c := sessionFrom(r)
	respond(w, c, c.EditCustomGuess(req.Text))
}

func (s *Server) handleSubmitCustomGuess(w http.ResponseWriter, r *http.Request) {
	c := sessionFrom(r)
	respond(w, c, c.SubmitCustomGuess())
}

// ----------------------------- responses -----------------------------------

type response struct {
	ID      string          `json:"id,omitempty"`
	View    session.View    `json:"view"`
	Notice  *session.Notice `json:"notice,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func respond(w http.ResponseWriter, c *session.Controller, n session.Notice) {
	res := response{View: c.View()}
	if !n.IsZero() {
		res.Notice = &n
	}
	status := statusFor(n)
	if status >= http.StatusBadRequest {
		res.Error = string(n.Code)
		res.Message = n.Message
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(res)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: code, Message: msg})
}

// statusFor maps a notice to an HTTP status. Solver sentinels are ordinary
// outcomes of an accepted round and stay 200.
func statusFor(n session.Notice) int {
	switch n.Code {
	case session.CodeTransport:
		return http.StatusBadGateway
	case session.CodeBusy, session.CodeSessionSolved, session.CodeOverlayClosed:
		return http.StatusConflict
	case session.CodeInvalidCell:
		return http.StatusBadRequest
	case session.CodeInvalidLength, session.CodeDuplicateGuess:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusOK
	}
}
