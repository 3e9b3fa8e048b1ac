package generator

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RetroMaximus/crudehelpgen/internal/config"
	"github.com/RetroMaximus/crudehelpgen/internal/state"
)

// Test Plan for Watcher:
// - Creating a module generates its help file after the debounce
// - Modifying a module regenerates its help file
// - Multiple rapid changes are debounced into one regeneration pass
// - Files in ignored directories never trigger generation
// - New directories are added to the watch set automatically
// - Context cancellation stops the watcher quickly
// - Concurrent Stop calls are safe (sync.Once)
// - shouldProcessEvent filters by operation, pattern, and ignore rules

const watchedModule = `class Greeter:
    """A friendly greeter."""

    def greet(self):
        """Say hello."""
        print("hello")
`

type watchEnv struct {
	rootDir   string
	gen       *Generator
	discovery *ModuleDiscovery
	store     state.Store
}

func newWatchEnv(t *testing.T, ignorePatterns []string) *watchEnv {
	t.Helper()

	rootDir := filepath.Join(t.TempDir(), "project")
	require.NoError(t, os.MkdirAll(rootDir, 0755))

	cfg := config.Default()
	cfg.State.Dir = filepath.Join(rootDir, ".helpgen")
	if ignorePatterns != nil {
		cfg.Paths.Ignore = ignorePatterns
	}

	store, err := state.NewJSONStore(cfg.State.Dir)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	gen, err := New(store, cfg, nil, true, false)
	require.NoError(t, err)

	discovery, err := NewModuleDiscovery(rootDir, ".helpgen", cfg.Paths.Modules, cfg.Paths.Ignore)
	require.NoError(t, err)

	return &watchEnv{rootDir: rootDir, gen: gen, discovery: discovery, store: store}
}

func (e *watchEnv) startWatcher(t *testing.T, ctx context.Context) *Watcher {
	t.Helper()
	watcher, err := NewWatcher(e.gen, e.discovery, e.rootDir, 100*time.Millisecond)
	require.NoError(t, err)
	watcher.Start(ctx)
	// Give the watch loop a moment to come up before touching files.
	time.Sleep(100 * time.Millisecond)
	return watcher
}

func TestWatcher_FileCreationGeneratesHelp(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	env := newWatchEnv(t, nil)
	watcher := env.startWatcher(t, ctx)
	defer watcher.Stop()

	module := filepath.Join(env.rootDir, "greeter.py")
	require.NoError(t, os.WriteFile(module, []byte(watchedModule), 0644))

	// Wait for debounce + processing
	time.Sleep(1 * time.Second)

	helpFile := filepath.Join(env.rootDir, "greeter-help.md")
	require.FileExists(t, helpFile)

	content, err := os.ReadFile(helpFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "## Class: `Greeter`")

	fingerprints, err := env.store.LoadFingerprints(module)
	require.NoError(t, err)
	assert.Contains(t, fingerprints, "class_Greeter")
}

func TestWatcher_FileModificationRegenerates(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	env := newWatchEnv(t, nil)

	module := filepath.Join(env.rootDir, "greeter.py")
	require.NoError(t, os.WriteFile(module, []byte(watchedModule), 0644))
	_, err := env.gen.Generate(ctx, module)
	require.NoError(t, err)

	watcher := env.startWatcher(t, ctx)
	defer watcher.Stop()

	edited := `class Greeter:
    """A friendly greeter."""

    def greet(self):
        """Say hello loudly."""
        print("HELLO")
`
	require.NoError(t, os.WriteFile(module, []byte(edited), 0644))

	time.Sleep(1 * time.Second)

	content, err := os.ReadFile(filepath.Join(env.rootDir, "greeter-help.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "Say hello loudly.")
}

func TestWatcher_Debouncing(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	env := newWatchEnv(t, nil)
	watcher := env.startWatcher(t, ctx)
	defer watcher.Stop()

	// Write several modules faster than the debounce interval.
	names := []string{"alpha.py", "beta.py", "gamma.py"}
	for _, name := range names {
		module := filepath.Join(env.rootDir, name)
		require.NoError(t, os.WriteFile(module, []byte(watchedModule), 0644))
		time.Sleep(30 * time.Millisecond)
	}

	time.Sleep(1 * time.Second)

	for _, name := range names {
		helpFile := filepath.Join(env.rootDir, name[:len(name)-3]+"-help.md")
		assert.FileExists(t, helpFile, "help for %s should be generated", name)
	}
}

func TestWatcher_IgnoredPathsDoNotTrigger(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	env := newWatchEnv(t, []string{"vendor/**"})

	vendorDir := filepath.Join(env.rootDir, "vendor")
	require.NoError(t, os.MkdirAll(vendorDir, 0755))

	watcher := env.startWatcher(t, ctx)
	defer watcher.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(vendorDir, "lib.py"), []byte(watchedModule), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(env.rootDir, "app.py"), []byte(watchedModule), 0644))

	time.Sleep(1 * time.Second)

	assert.FileExists(t, filepath.Join(env.rootDir, "app-help.md"))
	assert.NoFileExists(t, filepath.Join(vendorDir, "lib-help.md"))
}

func TestWatcher_NewDirectoriesWatched(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	env := newWatchEnv(t, nil)
	watcher := env.startWatcher(t, ctx)
	defer watcher.Stop()

	newDir := filepath.Join(env.rootDir, "pkg")
	require.NoError(t, os.MkdirAll(newDir, 0755))

	// Wait for the directory to join the watch set.
	time.Sleep(200 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(newDir, "util.py"), []byte(watchedModule), 0644))

	time.Sleep(1 * time.Second)

	assert.FileExists(t, filepath.Join(newDir, "util-help.md"))
}

func TestWatcher_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	env := newWatchEnv(t, nil)
	watcher := env.startWatcher(t, ctx)
	defer watcher.Stop()

	start := time.Now()
	cancel()

	<-watcher.doneCh
	assert.Less(t, time.Since(start), 100*time.Millisecond,
		"watcher should stop quickly on context cancellation")
}

func TestWatcher_ConcurrentStop(t *testing.T) {
	t.Parallel()

	env := newWatchEnv(t, nil)
	watcher, err := NewWatcher(env.gen, env.discovery, env.rootDir, 100*time.Millisecond)
	require.NoError(t, err)

	watcher.Start(context.Background())

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			watcher.Stop()
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
	// Should not panic or deadlock.
}

func TestWatcher_ShouldProcessEvent(t *testing.T) {
	t.Parallel()

	env := newWatchEnv(t, []string{"vendor/**"})

	watcher, err := NewWatcher(env.gen, env.discovery, env.rootDir, 100*time.Millisecond)
	require.NoError(t, err)
	// Not started, so Stop() would block on the loop that never ran.
	defer watcher.watcher.Close()

	tests := []struct {
		name     string
		event    fsnotify.Event
		expected bool
	}{
		{
			name:     "write to python module",
			event:    fsnotify.Event{Name: filepath.Join(env.rootDir, "main.py"), Op: fsnotify.Write},
			expected: true,
		},
		{
			name:     "create python module",
			event:    fsnotify.Event{Name: filepath.Join(env.rootDir, "pkg", "util.py"), Op: fsnotify.Create},
			expected: true,
		},
		{
			name:     "remove python module",
			event:    fsnotify.Event{Name: filepath.Join(env.rootDir, "old.py"), Op: fsnotify.Remove},
			expected: true,
		},
		{
			name:     "chmod only",
			event:    fsnotify.Event{Name: filepath.Join(env.rootDir, "main.py"), Op: fsnotify.Chmod},
			expected: false,
		},
		{
			name:     "generated help file",
			event:    fsnotify.Event{Name: filepath.Join(env.rootDir, "main-help.md"), Op: fsnotify.Write},
			expected: false,
		},
		{
			name:     "module in ignored directory",
			event:    fsnotify.Event{Name: filepath.Join(env.rootDir, "vendor", "lib.py"), Op: fsnotify.Write},
			expected: false,
		},
		{
			name:     "state directory snapshot",
			event:    fsnotify.Event{Name: filepath.Join(env.rootDir, ".helpgen", "main.py.checksums.json"), Op: fsnotify.Write},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, watcher.shouldProcessEvent(tt.event))
		})
	}
}
