package config

import (
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordlebot/internal/game"
	"github.com/robalobadob/wordlebot/internal/session"
)

type cli struct {
	Config `embed:""`
}

func parse(t *testing.T, args ...string) *Config {
	t.Helper()
	var c cli
	p, err := kong.New(&c, kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	_, err = p.Parse(args)
	require.NoError(t, err)
	return &c.Config
}

func TestDefaults(t *testing.T) {
	c := parse(t)
	assert.Equal(t, "http://localhost:8080", c.Solver.URL)
	assert.Equal(t, 15*time.Second, c.Solver.Timeout)
	assert.Equal(t, 24*time.Hour, c.Cache.TTL)
	require.NoError(t, c.Validate())

	w, err := c.DefaultGuess()
	require.NoError(t, err)
	assert.Equal(t, game.DefaultGuess, w)

	p, err := c.Policy()
	require.NoError(t, err)
	assert.Equal(t, session.SentinelKeep, p)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("SOLVER_URL", "https://solver.example.com")
	t.Setenv("SENTINEL_POLICY", "discard")
	t.Setenv("DEFAULT_GUESS", "Crane")
	t.Setenv("CACHE_TTL", "1h")

	c := parse(t)
	require.NoError(t, c.Validate())
	assert.Equal(t, "https://solver.example.com", c.Solver.URL)
	assert.Equal(t, time.Hour, c.Cache.TTL)

	w, _ := c.DefaultGuess()
	assert.Equal(t, game.Word("crane"), w)
	p, _ := c.Policy()
	assert.Equal(t, session.SentinelDiscard, p)
}

func TestFlagsBeatEnvironment(t *testing.T) {
	t.Setenv("SOLVER_URL", "https://env.example.com")
	c := parse(t, "--solver-url", "http://flag.example.com")
	assert.Equal(t, "http://flag.example.com", c.Solver.URL)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative url", func(c *Config) { c.Solver.URL = "/api" }},
		{"ftp url", func(c *Config) { c.Solver.URL = "ftp://x" }},
		{"zero timeout", func(c *Config) { c.Solver.Timeout = 0 }},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }},
		{"short default guess", func(c *Config) { c.Session.DefaultGuess = "ab" }},
		{"unknown policy", func(c *Config) { c.Session.SentinelPolicy = "drop" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := parse(t)
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
