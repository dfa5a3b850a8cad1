package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/robalobadob/wordlebot/internal/cache"
	"github.com/robalobadob/wordlebot/internal/config"
	"github.com/robalobadob/wordlebot/internal/httpserver"
	"github.com/robalobadob/wordlebot/internal/logging"
	"github.com/robalobadob/wordlebot/internal/session"
	"github.com/robalobadob/wordlebot/internal/solver"
	"github.com/robalobadob/wordlebot/internal/store"
	"github.com/robalobadob/wordlebot/internal/tui"
)

// CLI is the command-line interface.
type CLI struct {
	config.Config `embed:""`

	Play  PlayCmd  `cmd:"" help:"Run the assistant in the terminal (default)." default:"1"`
	Serve ServeCmd `cmd:"" help:"Serve the assistant as a JSON HTTP API."`
}

// PlayCmd runs one session in the terminal UI.
type PlayCmd struct{}

func (p *PlayCmd) Run(cfg *config.Config) error {
	logger, closeLog, err := logging.Setup(cfg.Log.Level, cfg.Log.File, true)
	if err != nil {
		return err
	}
	defer closeLog.Close()

	newSession, cleanup, err := wire(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Info().Str("solver", cfg.Solver.URL).Msg("starting terminal session")
	return tui.Run(newSession(uuid.NewString()), cfg.Solver.Timeout)
}

// ServeCmd runs the HTTP API.
type ServeCmd struct {
	Port        string        `help:"Port to listen on." env:"PORT" default:"5175"`
	Origin      string        `help:"Allowed CORS origin." env:"CLIENT_ORIGIN" default:"http://localhost:5173"`
	IdleTimeout time.Duration `help:"Evict sessions idle for this long (0 keeps them)." env:"SESSION_IDLE_TIMEOUT" default:"30m"`
}

func (s *ServeCmd) Run(cfg *config.Config) error {
	logger, closeLog, err := logging.Setup(cfg.Log.Level, cfg.Log.File, false)
	if err != nil {
		return err
	}
	defer closeLog.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	newSession, cleanup, err := wire(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := httpserver.New(store.NewMemoryStore(), newSession,
		httpserver.WithOrigin(s.Origin),
		httpserver.WithHandlerTimeout(cfg.Solver.Timeout+5*time.Second),
		httpserver.WithLogger(logging.Component(logger, "http")),
	)
	go srv.SweepEvery(ctx, s.IdleTimeout, time.Minute)

	logger.Info().Str("port", s.Port).Str("solver", cfg.Solver.URL).Msg("starting wordlebot server")
	return srv.Run(ctx, ":"+s.Port)
}

// wire builds the solver gateway stack and returns a factory of sessions
// sharing it. cleanup releases the cache.
func wire(cfg *config.Config, logger zerolog.Logger) (httpserver.SessionFactory, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	defaultGuess, _ := cfg.DefaultGuess()
	policy, _ := cfg.Policy()

	var gw solver.Gateway = solver.NewClient(cfg.Solver.URL,
		solver.WithTimeout(cfg.Solver.Timeout),
		solver.WithRateLimit(cfg.Solver.RPS, cfg.Solver.Burst),
		solver.WithLogger(logging.Component(logger, "solver")),
	)

	var closer io.Closer = io.NopCloser(nil)
	stopPrune := func() {}
	if !cfg.Cache.Off {
		cacheLog := logging.Component(logger, "cache")
		st, c, err := cache.Open(cfg.Cache.Path, cfg.Cache.TTL, cache.WithLogger(cacheLog))
		if err != nil {
			return nil, nil, fmt.Errorf("open cache: %w", err)
		}
		closer = c
		gw = solver.NewCached(gw, st, cacheLog, solver.WithFlightTimeout(cfg.Solver.Timeout))

		ctx, cancel := context.WithCancel(context.Background())
		go cache.PruneEvery(ctx, st, time.Hour, cacheLog)
		stopPrune = cancel
	}

	sessionLog := logging.Component(logger, "session")
	factory := func(id string) *session.Controller {
		return session.New(gw,
			session.WithID(id),
			session.WithDefaultGuess(defaultGuess),
			session.WithSentinelPolicy(policy),
			session.WithLogger(sessionLog),
		)
	}
	cleanup := func() {
		stopPrune()
		if err := closer.Close(); err != nil {
			logger.Warn().Err(err).Msg("close cache")
		}
	}
	return factory, cleanup, nil
}

func main() {
	config.LoadEnv()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("wordlebot"),
		kong.Description("An assistant that suggests the next Wordle guess from the colours you enter."),
		kong.UsageOnError(),
	)
	if err := ctx.Run(&cli.Config); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
