package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, dbPath string) *StoreWatcher {
	t.Helper()
	w, err := NewStoreWatcher(Config{DBPath: dbPath, Debounce: 20 * time.Millisecond})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)
	t.Cleanup(func() {
		cancel()
		w.Close()
	})
	return w
}

func waitChange(w *StoreWatcher, d time.Duration) bool {
	select {
	case _, ok := <-w.Changes():
		return ok
	case <-time.After(d):
		return false
	}
}

func TestStoreWatcher_ReportsStoreWrites(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "cstlendar.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("v1"), 0o644))
	w := startWatcher(t, dbPath)

	require.NoError(t, os.WriteFile(dbPath, []byte("v2"), 0o644))
	assert.True(t, waitChange(w, 2*time.Second))
}

func TestStoreWatcher_ReportsWALWrites(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "cstlendar.db")
	w := startWatcher(t, dbPath)

	require.NoError(t, os.WriteFile(dbPath+"-wal", []byte("frame"), 0o644))
	assert.True(t, waitChange(w, 2*time.Second))
}

func TestStoreWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "cstlendar.db")
	w := startWatcher(t, dbPath)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	assert.False(t, waitChange(w, 200*time.Millisecond))
}

func TestStoreWatcher_CoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "cstlendar.db")
	w := startWatcher(t, dbPath)

	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(dbPath, []byte{byte(i)}, 0o644))
	}
	require.True(t, waitChange(w, 2*time.Second))

	// A burst may straddle a tick boundary or two, never one per write.
	extra := 0
	for waitChange(w, 150*time.Millisecond) {
		extra++
	}
	assert.LessOrEqual(t, extra, 2)
}

func TestStoreWatcher_ClosesChangesOnCancel(t *testing.T) {
	dir := t.TempDir()
	w, err := NewStoreWatcher(Config{DBPath: filepath.Join(dir, "s.db")})
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	_, ok := <-w.Changes()
	assert.False(t, ok)
}

func TestNewStoreWatcher_MissingDirectory(t *testing.T) {
	_, err := NewStoreWatcher(Config{DBPath: filepath.Join(t.TempDir(), "nope", "s.db")})
	assert.Error(t, err)
}
