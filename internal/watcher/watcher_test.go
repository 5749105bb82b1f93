package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTypeString(t *testing.T) {
	testCases := []struct {
		eventType EventType
		expected  string
	}{
		{EventTypeCreated, "created"},
		{EventTypeModified, "modified"},
		{EventTypeDeleted, "deleted"},
		{EventTypeRenamed, "renamed"},
		{EventType(42), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.eventType.String())
		})
	}
}

func TestChangeEventGone(t *testing.T) {
	assert.False(t, ChangeEvent{Type: EventTypeCreated}.Gone())
	assert.False(t, ChangeEvent{Type: EventTypeModified}.Gone())
	assert.True(t, ChangeEvent{Type: EventTypeDeleted}.Gone())
	assert.True(t, ChangeEvent{Type: EventTypeRenamed}.Gone())
}

func TestNewFileWatcher(t *testing.T) {
	watcher, err := NewFileWatcher(100 * time.Millisecond)
	require.NoError(t, err)
	defer watcher.Stop()

	assert.NotNil(t, watcher.watcher)
	assert.NotNil(t, watcher.debouncer)
	assert.Empty(t, watcher.filters)
	assert.Empty(t, watcher.handlers)
	assert.Empty(t, watcher.WatchedPaths())
}

func TestFileWatcherAddPath(t *testing.T) {
	watcher, err := NewFileWatcher(100 * time.Millisecond)
	require.NoError(t, err)
	defer watcher.Stop()

	dir := t.TempDir()
	require.NoError(t, watcher.AddPath(dir))
	require.NoError(t, watcher.AddPath(dir))
	assert.Len(t, watcher.WatchedPaths(), 1)

	assert.Error(t, watcher.AddPath(filepath.Join(dir, "missing")))
	assert.Error(t, watcher.AddPath(""))
	assert.Error(t, watcher.AddPath("bad\x00dir"))
}

func TestFileWatcherAddFile(t *testing.T) {
	watcher, err := NewFileWatcher(100 * time.Millisecond)
	require.NoError(t, err)
	defer watcher.Stop()

	dir := t.TempDir()
	tsconfig := filepath.Join(dir, "tsconfig.json")
	require.NoError(t, os.WriteFile(tsconfig, []byte(`{}`), 0o644))

	require.NoError(t, watcher.AddFile(tsconfig))
	abs, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{abs}, watcher.WatchedPaths())
}

func TestFileWatcherAddRecursive(t *testing.T) {
	watcher, err := NewFileWatcher(100 * time.Millisecond)
	require.NoError(t, err)
	defer watcher.Stop()

	dir := t.TempDir()
	for _, sub := range []string{"src/components", "src/views", "node_modules/vue", ".git/objects"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0o755))
	}

	require.NoError(t, watcher.AddRecursive(dir, "**/node_modules", "**/.*"))

	abs, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		abs,
		filepath.Join(abs, "src"),
		filepath.Join(abs, "src", "components"),
		filepath.Join(abs, "src", "views"),
	}, watcher.WatchedPaths())
}

func TestFileWatcherStartStop(t *testing.T) {
	watcher, err := NewFileWatcher(50 * time.Millisecond)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, watcher.AddPath(dir))
	watcher.AddFilter(ExtensionFilter(".vue"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	batches := make(chan []ChangeEvent, 10)
	watcher.AddHandler(func(events []ChangeEvent) error {
		batches <- events
		return nil
	})

	require.NoError(t, watcher.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	component := filepath.Join(dir, "TodoItem.vue")
	require.NoError(t, os.WriteFile(component, []byte("<template><li/></template>"), 0o644))

	select {
	case events := <-batches:
		require.Len(t, events, 1)
		assert.Equal(t, component, events[0].Path)
	case <-time.After(2 * time.Second):
		t.Fatal("no change event received")
	}

	cancel()
	assert.NoError(t, watcher.Stop())
}

func TestHandleFsnotifyEvent(t *testing.T) {
	watcher, err := NewFileWatcher(time.Hour)
	require.NoError(t, err)
	defer watcher.Stop()

	dir := t.TempDir()
	existing := filepath.Join(dir, "App.vue")
	require.NoError(t, os.WriteFile(existing, []byte("<template/>"), 0o644))

	watcher.AddFilter(ExtensionFilter(".vue"))
	ctx := context.Background()

	watcher.handleFsnotifyEvent(ctx, fsnotify.Event{Name: existing, Op: fsnotify.Chmod})
	watcher.handleFsnotifyEvent(ctx, fsnotify.Event{Name: filepath.Join(dir, "main.ts"), Op: fsnotify.Write})
	assert.Len(t, watcher.debouncer.events, 0)

	watcher.handleFsnotifyEvent(ctx, fsnotify.Event{Name: existing, Op: fsnotify.Write | fsnotify.Chmod})
	watcher.handleFsnotifyEvent(ctx, fsnotify.Event{Name: filepath.Join(dir, "Gone.vue"), Op: fsnotify.Remove})
	require.Len(t, watcher.debouncer.events, 2)

	written := <-watcher.debouncer.events
	assert.Equal(t, EventTypeModified, written.Type)
	assert.Equal(t, int64(len("<template/>")), written.Size)
	assert.False(t, written.ModTime.IsZero())

	removed := <-watcher.debouncer.events
	assert.Equal(t, EventTypeDeleted, removed.Type)
	assert.True(t, removed.ModTime.IsZero())
}

func TestDebouncer(t *testing.T) {
	debouncer := &Debouncer{
		delay:   50 * time.Millisecond,
		events:  make(chan ChangeEvent, 100),
		output:  make(chan []ChangeEvent, 10),
		pending: make([]ChangeEvent, 0),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go debouncer.start(ctx)

	debouncer.events <- ChangeEvent{Path: "b/TodoList.vue", Type: EventTypeCreated}
	debouncer.events <- ChangeEvent{Path: "a/TodoItem.vue", Type: EventTypeModified}
	debouncer.events <- ChangeEvent{Path: "b/TodoList.vue", Type: EventTypeModified}

	select {
	case events := <-debouncer.output:
		assert.Equal(t, []ChangeEvent{
			{Path: "a/TodoItem.vue", Type: EventTypeModified},
			{Path: "b/TodoList.vue", Type: EventTypeModified},
		}, events)
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer did not flush")
	}
}

func TestDebouncerFlushEmpty(t *testing.T) {
	debouncer := &Debouncer{output: make(chan []ChangeEvent, 1)}
	debouncer.flush()
	assert.Len(t, debouncer.output, 0)
}

func TestHandlerErrorsDoNotStopProcessing(t *testing.T) {
	watcher, err := NewFileWatcher(10 * time.Millisecond)
	require.NoError(t, err)
	defer watcher.Stop()

	var mu sync.Mutex
	calls := 0
	watcher.AddHandler(func([]ChangeEvent) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return assert.AnError
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watcher.processEvents(ctx)

	watcher.debouncer.output <- []ChangeEvent{{Path: "A.vue"}}
	watcher.debouncer.output <- []ChangeEvent{{Path: "B.vue"}}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 2
	}, time.Second, 10*time.Millisecond)
}

func TestExtensionFilter(t *testing.T) {
	filter := ExtensionFilter(".vue", ".md")

	testCases := []struct {
		path     string
		expected bool
	}{
		{"src/App.vue", true},
		{"src/App.VUE", true},
		{"docs/intro.md", true},
		{"src/main.ts", false},
		{"tsconfig.json", false},
		{"vue", false},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.expected, filter(tc.path))
		})
	}
}

func TestPathFilter(t *testing.T) {
	filter := PathFilter("/app/tsconfig.json", "/app/configs/base.json")

	assert.True(t, filter("/app/tsconfig.json"))
	assert.True(t, filter("/app/configs/../configs/base.json"))
	assert.False(t, filter("/app/tsconfig.app.json"))
}

func TestAnyFilter(t *testing.T) {
	filter := AnyFilter(PathFilter("/app/tsconfig.json"), ExtensionFilter(".vue"))

	assert.True(t, filter("/app/tsconfig.json"))
	assert.True(t, filter("/app/src/App.vue"))
	assert.False(t, filter("/app/src/main.ts"))
	assert.False(t, AnyFilter()("/app/src/App.vue"))
}

func TestExcludeFilter(t *testing.T) {
	filter := ExcludeFilter("/app", "**/legacy/**", "dist/**")

	assert.True(t, filter("/app/src/App.vue"))
	assert.False(t, filter("/app/src/legacy/Old.vue"))
	assert.False(t, filter("/app/dist/App.vue"))
}

func TestNoNodeModulesFilter(t *testing.T) {
	testCases := []struct {
		path     string
		expected bool
	}{
		{"src/App.vue", true},
		{"node_modules/vue/index.js", false},
		{"/app/node_modules/@vue/runtime/Comp.vue", false},
		{"src/node_modules_backup/App.vue", true},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.expected, NoNodeModulesFilter(tc.path))
		})
	}
}

func TestNoGitFilter(t *testing.T) {
	testCases := []struct {
		path     string
		expected bool
	}{
		{"src/App.vue", true},
		{".git/config", false},
		{"src/.git/App.vue", false},
		{"App.vue", true},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.expected, NoGitFilter(tc.path))
		})
	}
}
