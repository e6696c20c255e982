package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/keyreg/internal/pubsub"
	"github.com/zjrosen/keyreg/internal/registry"
	"github.com/zjrosen/keyreg/internal/source"
)

func TestWatch_ReloadsOnChange(t *testing.T) {
	dir, cfg := writeFixture(t)
	c := newCatalog(t, dir, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	events := c.Subscribe(ctx)
	done := make(chan error, 1)
	go func() { done <- c.Watch(ctx, 20*time.Millisecond) }()

	// Give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)
	replaceFile(t, filepath.Join(dir, "data", "errors.yaml"), "gone: {message: Gone}\n")

	ev := waitFor(t, events, "errors")
	require.Equal(t, pubsub.UpdatedEvent, ev.Type)
	reg, _ := c.Get("errors")
	require.Equal(t, []string{"gone"}, reg.Keys())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		require.FailNow(t, "Watch did not return after cancel")
	}
}

func TestWatch_BrokenFileKeepsSnapshot(t *testing.T) {
	dir, cfg := writeFixture(t)
	c := newCatalog(t, dir, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := c.Subscribe(ctx)
	go func() { _ = c.Watch(ctx, 20*time.Millisecond) }()

	time.Sleep(100 * time.Millisecond)
	replaceFile(t, filepath.Join(dir, "data", "errors.yaml"), "- a\n- b\n")

	ev := waitFor(t, events, "errors")
	require.Equal(t, pubsub.FailedEvent, ev.Type)
	reg, _ := c.Get("errors")
	require.Equal(t, []string{"not_authorized", "not_found"}, reg.Keys())
}

func TestWatch_NoFileSources(t *testing.T) {
	reg, err := registry.New(registry.Config{Name: "static", Source: source.NewStatic()})
	require.NoError(t, err)
	c, err := FromRegistries(reg)
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, c.Watch(ctx, 0))
}

func TestWatch_MissingDirectory(t *testing.T) {
	dir, cfg := writeFixture(t)
	c := newCatalog(t, dir, cfg)
	require.NoError(t, os.RemoveAll(filepath.Join(dir, "data")))

	err := c.Watch(context.Background(), 0)

	require.ErrorContains(t, err, "registry errors")
}

func waitFor(t *testing.T, events <-chan pubsub.Event[registry.ReloadEvent], name string) pubsub.Event[registry.ReloadEvent] {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Payload.Registry == name {
				return ev
			}
		case <-timeout:
			require.FailNow(t, "timeout waiting for reload event", "registry %s", name)
			return pubsub.Event[registry.ReloadEvent]{}
		}
	}
}

// replaceFile swaps in new content with a rename so the watcher never
// observes a truncated file.
func replaceFile(t *testing.T, path, content string) {
	t.Helper()
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(content), 0o600))
	require.NoError(t, os.Rename(tmp, path))
}
