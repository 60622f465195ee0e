package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"pokecp/pokecp/internal/dataset"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) notify(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func makeCPDir(t *testing.T, root string, cp int) string {
	t.Helper()
	dir := filepath.Join(root, filepath.Dir(filepath.FromSlash(dataset.ResourcePath(cp, dataset.Normal))))
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return dir
}

func write(t *testing.T, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(name, []byte("Pokemon\nBulbasaur\n"), 0o644))
}

func TestFollowerReportsDebouncedWrites(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	dir := makeCPDir(t, root, 520)

	rec := &recorder{}
	f, err := New(root, rec.notify, WithDebounce(30*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, f.Follow(520))
	assert.Equal(t, dir, f.Dir())

	f.Start(context.Background())
	defer f.Stop()

	normal := filepath.Join(dir, "cp520_all_evolutions.csv")
	for i := 0; i < 5; i++ {
		write(t, normal)
	}
	write(t, filepath.Join(dir, "notes.txt"))

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, Event{Path: normal, CP: 520, Kind: dataset.Normal}, rec.snapshot()[0])

	write(t, filepath.Join(dir, "cp520_shadow_purified_evolutions.csv"))
	require.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, dataset.Shadow, rec.snapshot()[1].Kind)
}

func TestFollowSwitchesDirectories(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	oldDir := makeCPDir(t, root, 520)
	newDir := makeCPDir(t, root, 1500)

	rec := &recorder{}
	f, err := New(root, rec.notify, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, f.Follow(520))
	require.NoError(t, f.Follow(1500))
	require.NoError(t, f.Follow(1500))

	f.Start(context.Background())
	defer f.Stop()

	write(t, filepath.Join(oldDir, "cp520_all_evolutions.csv"))
	write(t, filepath.Join(newDir, "cp1500_all_evolutions.csv"))

	require.Eventually(t, func() bool { return len(rec.snapshot()) >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	events := rec.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, 1500, events[0].CP)
}

func TestFollowMissingDirectory(t *testing.T) {
	defer goleak.VerifyNone(t)

	f, err := New(t.TempDir(), func(Event) {})
	require.NoError(t, err)
	defer f.Stop()

	assert.Error(t, f.Follow(9999))
	assert.Empty(t, f.Dir())
}

func TestStopAfterContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	f, err := New(t.TempDir(), func(Event) {})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	f.Start(ctx)
	f.Start(ctx)
	cancel()
	f.Stop()
}
