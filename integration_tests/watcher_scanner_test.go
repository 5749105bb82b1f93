//go:build integration
// +build integration

package integration_tests

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/vuelens/internal/registry"
	"github.com/conneroisu/vuelens/internal/scanner"
	"github.com/conneroisu/vuelens/internal/watcher"
)

// startWatching wires a watcher to a scanner the way the watch command does:
// changed documents are rescanned, deleted ones removed.
func startWatching(t *testing.T, dir string, s *scanner.ComponentScanner) *int64 {
	t.Helper()

	fw, err := watcher.NewFileWatcher(50 * time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { fw.Stop() })

	var batches int64
	fw.AddFilter(watcher.ExtensionFilter(".vue"))
	fw.AddFilter(watcher.NoNodeModulesFilter)
	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		atomic.AddInt64(&batches, 1)
		for _, event := range events {
			if event.Gone() {
				s.RemoveFile(event.Path)
				continue
			}
			if err := s.ScanFile(event.Path); err != nil {
				return err
			}
		}
		return nil
	})

	require.NoError(t, fw.AddRecursive(dir, scanner.DefaultExcludes...))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, fw.Start(ctx))
	return &batches
}

func TestIntegration_WatcherScanner_PropChange(t *testing.T) {
	dir := t.TempDir()
	button := writeComponent(t, dir, "MyButton.vue", propsComponent("label: string"))

	reg := registry.NewComponentRegistry()
	s := scanner.NewComponentScanner(reg)
	defer s.Close()
	require.NoError(t, s.ScanDirectory(context.Background(), dir))
	assert.Equal(t, []string{"label"}, reg.PropNames("MyButton"))

	batches := startWatching(t, dir, s)

	require.NoError(t, os.WriteFile(button, []byte(propsComponent("label: string; itemCount: number")), 0o644))

	require.Eventually(t, func() bool {
		props := reg.PropNames("MyButton")
		return len(props) == 2 && props[1] == "itemCount"
	}, 5*time.Second, 20*time.Millisecond)
	assert.GreaterOrEqual(t, atomic.LoadInt64(batches), int64(1))
}

func TestIntegration_WatcherScanner_CreateAndDelete(t *testing.T) {
	dir := t.TempDir()
	writeComponent(t, dir, "components/Card.vue", propsComponent("title: string"))

	reg := registry.NewComponentRegistry()
	s := scanner.NewComponentScanner(reg)
	defer s.Close()
	require.NoError(t, s.ScanDirectory(context.Background(), dir))

	events := reg.Watch()
	defer reg.UnWatch(events)

	startWatching(t, dir, s)

	modal := writeComponent(t, dir, "components/todo-modal.vue", propsComponent("open: boolean"))
	require.Eventually(t, func() bool {
		_, ok := reg.Get("TodoModal")
		return ok
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.Remove(modal))
	require.Eventually(t, func() bool {
		_, ok := reg.Get("TodoModal")
		return !ok
	}, 5*time.Second, 20*time.Millisecond)

	// Editors may produce several writes, so updates can appear in between.
	var seen []registry.EventType
	for len(seen) == 0 || seen[len(seen)-1] != registry.EventTypeRemoved {
		select {
		case event := <-events:
			if event.Component.Name == "TodoModal" {
				seen = append(seen, event.Type)
			}
		case <-time.After(time.Second):
			t.Fatalf("missing registry events, got %v", seen)
		}
	}
	assert.Equal(t, registry.EventTypeAdded, seen[0])

	_, ok := reg.Get("Card")
	assert.True(t, ok, "unrelated components stay registered")
}

func TestIntegration_WatcherScanner_IgnoresExcludedDirs(t *testing.T) {
	dir := t.TempDir()
	writeComponent(t, dir, "App.vue", propsComponent("msg: string"))
	require.NoError(t, os.MkdirAll(dir+"/node_modules/lib", 0o755))

	reg := registry.NewComponentRegistry()
	s := scanner.NewComponentScanner(reg)
	defer s.Close()
	require.NoError(t, s.ScanDirectory(context.Background(), dir))

	batches := startWatching(t, dir, s)

	writeComponent(t, dir, "node_modules/lib/Vendor.vue", propsComponent("x: number"))
	writeComponent(t, dir, "notes.txt", "not a component")
	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, int64(0), atomic.LoadInt64(batches))
	_, ok := reg.Get("Vendor")
	assert.False(t, ok)
}
