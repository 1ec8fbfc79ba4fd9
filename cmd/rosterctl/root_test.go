package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/riskibarqy/fantasy-roster/internal/app"
	"github.com/riskibarqy/fantasy-roster/internal/config"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setDemoEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BACKEND_BASE_URL", "")
	t.Setenv("ANUBIS_BASE_URL", "")
	t.Setenv("ADVICE_CACHE_DRIVER", "memory")
	t.Setenv(tokenEnv, "")
}

func execute(t *testing.T, cachePath string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(defaultServiceFactory)
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--cache-path", cachePath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLeagues_ListsDemoProfile(t *testing.T) {
	setDemoEnv(t)

	out, err := execute(t, "", "leagues")
	require.NoError(t, err)
	assert.Contains(t, out, "demo-user")
	assert.Contains(t, out, "league-home")
	assert.Contains(t, out, "Home League")
}

func TestRoster_ShowsUsage(t *testing.T) {
	setDemoEnv(t)

	out, err := execute(t, "", "roster", "league-home")
	require.NoError(t, err)
	assert.Contains(t, out, "RB 2/2")
	assert.Contains(t, out, "flex open: 0  bench open: 3")
	assert.Contains(t, out, "wr-nacua")
}

func TestRoster_UnknownLeague(t *testing.T) {
	setDemoEnv(t)

	_, err := execute(t, "", "roster", "league-missing")
	require.Error(t, err)
}

func TestToggle_ListsCandidatesWithoutSwap(t *testing.T) {
	setDemoEnv(t)

	out, err := execute(t, "", "toggle", "league-home", "wr-nacua")
	require.NoError(t, err)
	assert.Contains(t, out, "no open starting slot for wr-nacua")
	assert.Contains(t, out, "rb-henry")
}

func TestToggle_SwapWithCandidate(t *testing.T) {
	setDemoEnv(t)

	out, err := execute(t, "", "toggle", "league-home", "wr-nacua", "--swap-with", "rb-henry")
	require.NoError(t, err)
	assert.Contains(t, out, "started wr-nacua, benched rb-henry")
}

func TestToggle_RejectsNonCandidate(t *testing.T) {
	setDemoEnv(t)

	_, err := execute(t, "", "toggle", "league-home", "wr-nacua", "--swap-with", "k-aubrey")
	require.Error(t, err)
}

func TestToggle_BenchesStarter(t *testing.T) {
	setDemoEnv(t)

	out, err := execute(t, "", "toggle", "league-home", "def-den", "--defense")
	require.NoError(t, err)
	assert.Contains(t, out, "def-den benched")
}

func TestAdd_GoesToBench(t *testing.T) {
	setDemoEnv(t)

	out, err := execute(t, "", "add", "league-home", "wr-jefferson", "WR")
	require.NoError(t, err)
	assert.Contains(t, out, "added wr-jefferson to the bench")
}

func TestAdd_PlayerRequiresPosition(t *testing.T) {
	setDemoEnv(t)

	_, err := execute(t, "", "add", "league-home", "wr-jefferson")
	require.Error(t, err)
}

func TestAdvice_CachedAcrossRuns(t *testing.T) {
	setDemoEnv(t)
	cachePath := filepath.Join(t.TempDir(), "nested", "advice.db")

	first, err := execute(t, cachePath, "advice", "league-home")
	require.NoError(t, err)
	assert.Contains(t, first, "(fresh)")

	second, err := execute(t, cachePath, "advice", "league-home")
	require.NoError(t, err)
	assert.Contains(t, second, "(cached)")

	third, err := execute(t, cachePath, "advice", "league-home", "--regenerate")
	require.NoError(t, err)
	assert.Contains(t, third, "(fresh)")
}

func TestAdvice_Apply(t *testing.T) {
	setDemoEnv(t)

	out, err := execute(t, "", "advice", "league-home", "--apply")
	require.NoError(t, err)
	assert.Contains(t, out, "0 failed")
}

func TestCatalog_FiltersDefenses(t *testing.T) {
	setDemoEnv(t)

	out, err := execute(t, "", "catalog", "DEF", "-q", "min")
	require.NoError(t, err)
	assert.Contains(t, out, "Minnesota Vikings")
	assert.NotContains(t, out, "Denver Broncos")
}

func TestWeeks(t *testing.T) {
	setDemoEnv(t)

	out, err := execute(t, "", "weeks", "league-home")
	require.NoError(t, err)
	assert.Contains(t, out, "weeks: 1, 2, 3")

	out, err = execute(t, "", "weeks", "league-home", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "week 2")

	_, err = execute(t, "", "weeks", "league-home", "two")
	require.Error(t, err)
}

func TestRemoteBackendRequiresToken(t *testing.T) {
	setDemoEnv(t)
	called := false
	root := newRootCmd(func(context.Context, config.Config, app.Options, *logging.Logger) (app.Services, func() error, error) {
		called = true
		return app.Services{}, nil, nil
	})
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--backend-url", "https://roster.example.test", "--cache-path", "", "leagues"})

	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), tokenEnv)
	assert.False(t, called)
}

func TestFlagsOverrideConfig(t *testing.T) {
	setDemoEnv(t)
	t.Setenv(tokenEnv, "env-token")
	cachePath := filepath.Join(t.TempDir(), "advice.db")

	var got config.Config
	var gotToken string
	root := newRootCmd(func(ctx context.Context, cfg config.Config, opts app.Options, _ *logging.Logger) (app.Services, func() error, error) {
		got = cfg
		gotToken, _ = opts.Tokens.Token(ctx)
		return app.Services{}, nil, context.Canceled
	})
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--backend-url", "https://roster.example.test/", "--cache-path", cachePath, "leagues"})

	err := root.ExecuteContext(context.Background())
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "https://roster.example.test", got.BackendBaseURL)
	assert.Equal(t, config.AdviceCacheSQLite, got.AdviceCacheDriver)
	assert.Equal(t, cachePath, got.AdviceCacheSQLitePath)
	assert.Equal(t, "env-token", gotToken)
}
