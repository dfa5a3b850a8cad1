// Package config holds the settings shared by every command. Values come
// from flags, then environment variables (a .env file is loaded first),
// then defaults.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"

	"github.com/robalobadob/wordlebot/internal/game"
	"github.com/robalobadob/wordlebot/internal/session"
)

// LoadEnv reads .env files into the environment. Missing files are ignored.
func LoadEnv(files ...string) {
	_ = godotenv.Load(files...)
}

// Solver configures the remote solver client.
type Solver struct {
	URL     string        `help:"Base URL of the solver service." env:"SOLVER_URL" default:"http://localhost:8080"`
	Timeout time.Duration `help:"Timeout of one solver request." env:"SOLVER_TIMEOUT" default:"15s"`
	RPS     float64       `help:"Outbound solver requests per second (0 disables pacing)." env:"SOLVER_RPS" default:"5"`
	Burst   int           `help:"Burst size of the solver rate limit." env:"SOLVER_BURST" default:"5"`
}

// Cache configures the solver response cache.
type Cache struct {
	Path string        `help:"SQLite file for cached solver replies (empty keeps them in memory)." env:"CACHE_PATH"`
	TTL  time.Duration `help:"How long a cached reply stays valid (0 keeps it forever)." env:"CACHE_TTL" default:"24h"`
	Off  bool          `help:"Disable the response cache." env:"CACHE_DISABLED"`
}

// Session configures new sessions.
type Session struct {
	DefaultGuess   string `help:"Opening guess of every session." env:"DEFAULT_GUESS" default:"raise"`
	SentinelPolicy string `help:"What happens to a round the solver answers NA or NOTW: keep or discard." env:"SENTINEL_POLICY" enum:"keep,discard" default:"keep"`
}

// Log configures logging.
type Log struct {
	Level string `help:"Log level." env:"LOG_LEVEL" default:"info" enum:"trace,debug,info,warn,error,disabled"`
	File  string `help:"Write logs to this file instead of stderr." env:"LOG_FILE"`
}

// Config is embedded into every command.
type Config struct {
	Solver  Solver  `embed:"" prefix:"solver-"`
	Cache   Cache   `embed:"" prefix:"cache-"`
	Session Session `embed:""`
	Log     Log     `embed:"" prefix:"log-"`
}

// Validate checks values that flag parsing cannot.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Solver.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("solver url %q must be an absolute http(s) URL", c.Solver.URL)
	}
	if c.Solver.Timeout <= 0 {
		return errors.New("solver timeout must be positive")
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache ttl must not be negative")
	}
	if _, err := c.DefaultGuess(); err != nil {
		return err
	}
	_, err = c.Policy()
	return err
}

// DefaultGuess returns the normalized opening word.
func (c *Config) DefaultGuess() (game.Word, error) {
	w, err := game.Validate(c.Session.DefaultGuess, nil)
	if err != nil {
		return "", fmt.Errorf("default guess: %w", err)
	}
	return w, nil
}

// Policy returns the parsed sentinel policy.
func (c *Config) Policy() (session.SentinelPolicy, error) {
	return session.ParseSentinelPolicy(c.Session.SentinelPolicy)
}
