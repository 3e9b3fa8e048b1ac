package generator

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a directory tree for module changes and reruns generation
// for the modules that changed. The fingerprint comparison still decides
// whether anything is rewritten, so editor noise that does not change
// semantics only costs a parse.
type Watcher struct {
	gen       *Generator
	discovery *ModuleDiscovery
	rootDir   string
	watcher   *fsnotify.Watcher
	debounce  time.Duration
	stopCh    chan struct{}
	doneCh    chan struct{}
	stopOnce  sync.Once
}

// NewWatcher creates a file watcher over rootDir.
func NewWatcher(gen *Generator, discovery *ModuleDiscovery, rootDir string, debounce time.Duration) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		gen:       gen,
		discovery: discovery,
		rootDir:   rootDir,
		watcher:   watcher,
		debounce:  debounce,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}

	if err := w.addDirectoriesRecursively(rootDir); err != nil {
		watcher.Close()
		return nil, err
	}

	return w, nil
}

// Start begins watching for module changes.
func (w *Watcher) Start(ctx context.Context) {
	go w.watch(ctx)
}

// Stop stops the watcher and waits for the event loop to finish.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		<-w.doneCh
		w.watcher.Close()
	})
}

// watch is the main event loop with debouncing logic.
func (w *Watcher) watch(ctx context.Context) {
	defer close(w.doneCh)

	var debounceTimer *time.Timer
	regenCh := make(chan struct{}, 1)
	changedModules := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// New directories join the watch set.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addDirectoriesRecursively(event.Name); err != nil {
						log.Printf("Warning: failed to watch new directory %s: %v", event.Name, err)
					}
					continue
				}
			}

			if !w.shouldProcessEvent(event) {
				continue
			}

			changedModules[event.Name] = true

			// Reset debounce timer - properly stop and drain
			if debounceTimer != nil {
				if !debounceTimer.Stop() {
					select {
					case <-debounceTimer.C:
					default:
					}
				}
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				select {
				case regenCh <- struct{}{}:
				default:
				}
			})

		case <-regenCh:
			w.regenerate(ctx, changedModules)
			changedModules = make(map[string]bool)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

// regenerate reruns generation for each changed module.
func (w *Watcher) regenerate(ctx context.Context, changedModules map[string]bool) {
	if len(changedModules) == 0 {
		return
	}

	for modulePath := range changedModules {
		if _, err := os.Stat(modulePath); err != nil {
			// Module was removed; its help file stays until the next
			// explicit run over the tree.
			continue
		}
		if _, err := w.gen.Generate(ctx, modulePath); err != nil {
			log.Printf("Error regenerating %s: %v", modulePath, err)
		}
	}
}

// shouldProcessEvent checks if an event concerns a watched module.
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) == 0 {
		return false
	}

	relPath, err := filepath.Rel(w.rootDir, event.Name)
	if err != nil {
		return false
	}
	relPath = filepath.ToSlash(relPath)

	return w.discovery.Matches(relPath)
}

// addDirectoriesRecursively adds all directories in the tree to the watcher.
func (w *Watcher) addDirectoriesRecursively(rootPath string) error {
	return filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Printf("Warning: error accessing %s: %v", path, err)
			return nil
		}

		if !info.IsDir() {
			return nil
		}

		relPath, relErr := filepath.Rel(w.rootDir, path)
		if relErr == nil && path != w.rootDir && w.discovery.shouldIgnore(filepath.ToSlash(relPath)) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			log.Printf("Warning: failed to watch directory %s: %v", path, err)
			return nil
		}

		return nil
	})
}
