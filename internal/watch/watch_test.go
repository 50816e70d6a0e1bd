package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonathan/bpk-stats/internal/fetch"
	"github.com/jonathan/bpk-stats/internal/loader"
	"github.com/jonathan/bpk-stats/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingReloader struct {
	calls atomic.Int32
}

func (r *countingReloader) Reload(context.Context) loader.State {
	r.calls.Add(1)
	return loader.State{Phase: loader.PhaseReady}
}

func newSite(t *testing.T) (string, *fetch.DirSource) {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "data", "aggregated")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, doc := range types.AggregatedDocuments() {
		require.NoError(t, os.WriteFile(filepath.Join(dir, doc.FileName()), []byte(`{}`), 0o644))
	}
	src, err := fetch.NewDirSource(root)
	require.NoError(t, err)
	return dir, src
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir, src := newSite(t)
	reloader := &countingReloader{}

	w, err := New(src, types.AggregatedDocuments(), reloader, 100*time.Millisecond, zap.NewNop())
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "content_stats.json"), []byte(`{"n":1}`), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return reloader.calls.Load() == 1 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, int32(1), reloader.calls.Load(), "a burst triggers one reload")

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir, src := newSite(t)
	reloader := &countingReloader{}

	w, err := New(src, types.AggregatedDocuments(), reloader, 50*time.Millisecond, zap.NewNop())
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(0), reloader.calls.Load())
}

func TestWatcher_Relevant(t *testing.T) {
	_, src := newSite(t)
	w, err := New(src, types.AggregatedDocuments(), &countingReloader{}, 0, nil)
	require.NoError(t, err)
	defer w.Close()

	file := src.Resolve(types.AggregatedDocuments()[0])
	tests := []struct {
		name string
		op   fsnotify.Op
		want bool
	}{
		{name: "write", op: fsnotify.Write, want: true},
		{name: "create", op: fsnotify.Create, want: true},
		{name: "rename", op: fsnotify.Rename, want: true},
		{name: "remove", op: fsnotify.Remove, want: true},
		{name: "chmod", op: fsnotify.Chmod, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(fsnotify.Event{Name: file, Op: tt.op}))
		})
	}
	assert.Equal(t, DefaultDebounce, w.debounce)
}

func TestNew_NoDirectories(t *testing.T) {
	src, err := fetch.NewDirSource(t.TempDir())
	require.NoError(t, err)

	_, err = New(src, types.AggregatedDocuments(), &countingReloader{}, 0, nil)
	assert.Error(t, err)
}
