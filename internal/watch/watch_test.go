package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sheetscript/internal/testutil"
)

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")
	ignored := filepath.Join(dir, "other.txt")
	for _, p := range []string{a, b, ignored} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))
	}

	w, err := New(100*time.Millisecond, testutil.NewTestLogger(t))
	require.NoError(t, err)
	defer func() { _ = w.Close() }()
	require.NoError(t, w.Add(a, b, a))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(_ context.Context, changed []string) { got <- changed })
	}()

	// Give the watcher a moment to start reading events.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(a, []byte("1"), 0o600))
	require.NoError(t, os.WriteFile(ignored, []byte("1"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("1"), 0o600))
	require.NoError(t, os.WriteFile(a, []byte("2"), 0o600))

	wantA, _ := filepath.Abs(a)
	wantB, _ := filepath.Abs(b)
	seen := map[string]bool{}
	deadline := time.After(5 * time.Second)
	for !seen[wantA] || !seen[wantB] {
		select {
		case changed := <-got:
			assert.IsIncreasing(t, append([]string{""}, changed...))
			for _, c := range changed {
				seen[c] = true
			}
		case <-deadline:
			t.Fatalf("changes not delivered, saw %v", seen)
		}
	}
	assert.False(t, seen[filepath.Join(filepath.Dir(wantA), "other.txt")])

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestWatcher_Files(t *testing.T) {
	dir := t.TempDir()
	w, err := New(time.Millisecond, nil)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	require.NoError(t, w.Add(filepath.Join(dir, "z.yaml"), filepath.Join(dir, "a.csv")))
	files := w.Files()
	require.Len(t, files, 2)
	assert.Equal(t, "a.csv", filepath.Base(files[0]))

	require.Error(t, w.Add(filepath.Join(dir, "missing", "x.csv")))
}
