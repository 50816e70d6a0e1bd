package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonathan/bpk-stats/internal/config"
	"github.com/jonathan/bpk-stats/internal/fetch"
	"github.com/jonathan/bpk-stats/internal/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.DataDir = siteDir
	require.NoError(t, cfg.Validate())
	return &cfg
}

func TestNewServeStack(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	stack, err := newServeStack(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = stack.server.Shutdown(ctx)
		stack.cleanup()
	})
	assert.Nil(t, stack.watcher)

	h := stack.server.Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats/fundamental", nil))
	assert.Equal(t, http.StatusNotFound, w.Code, "nothing is loaded yet")

	st := stack.loader.Load(ctx)
	require.Equal(t, loader.PhaseReady, st.Phase, st.Message)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats/fundamental", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"bpks_analyzed":42`)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/snapshots", nil))
	assert.Equal(t, http.StatusNotImplemented, w.Code, "no archive without database_url")
}

func TestNewServeStack_Watch(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Watch = true

	stack, err := newServeStack(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = stack.server.Shutdown(ctx)
		stack.cleanup()
	})
	assert.NotNil(t, stack.watcher)
}

func TestNewServeStack_ReloadRequiresToken(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.AdminSecret = testSecret

	stack, err := newServeStack(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = stack.server.Shutdown(ctx)
		stack.cleanup()
	})

	w := httptest.NewRecorder()
	stack.server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reload", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestServeCommand_WatchNeedsDataDir(t *testing.T) {
	_, _, err := execute(t, "serve", "--base-url", "https://example.org/bpk", "--watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'watch' requires 'data_dir'")
}

func TestNewSource(t *testing.T) {
	cfg := config.Defaults()

	_, err := newSource(&cfg)
	require.Error(t, err)

	cfg.DataDir = siteDir
	src, err := newSource(&cfg)
	require.NoError(t, err)
	assert.IsType(t, &fetch.DirSource{}, src)

	cfg.DataDir = ""
	cfg.BaseURL = "https://example.org/bpk"
	src, err = newSource(&cfg)
	require.NoError(t, err)
	assert.IsType(t, &fetch.HTTPSource{}, src)
}
