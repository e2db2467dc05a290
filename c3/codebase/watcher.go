package codebase

import (
	"os"
	"sort"
	"sync"
	"time"
)

// FileWatcher polls the codebase directories and rescans files whose
// modification time changed.
type FileWatcher struct {
	codebase     *Codebase
	stopCh       chan struct{}
	startOnce    sync.Once
	stopOnce     sync.Once
	done         chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time

	// OnChange, when set, is called after a poll that changed or removed
	// files, with the affected paths.
	OnChange func(changed, removed []string)
}

func NewFileWatcher(c *Codebase, interval time.Duration) *FileWatcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &FileWatcher{
		codebase:     c,
		stopCh:       make(chan struct{}),
		done:         make(chan struct{}),
		pollInterval: interval,
		modTimes:     make(map[string]time.Time),
	}
}

// Start begins polling. Calls after the first, or after Stop, do nothing.
func (w *FileWatcher) Start() {
	w.startOnce.Do(func() {
		go w.run()
	})
}

// Stop ends polling and waits for a poll in progress to finish. It returns at
// once when the watcher was never started.
func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
	w.startOnce.Do(func() {
		close(w.done)
	})
	<-w.done
}

func (w *FileWatcher) run() {
	defer close(w.done)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.Poll()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Poll()
		}
	}
}

// Prime records the modification times of the current source files without
// scanning them, so the first poll only rescans files changed since.
func (w *FileWatcher) Prime() error {
	paths, err := w.codebase.SourceFiles()
	if err != nil {
		return err
	}
	for _, path := range paths {
		if info, err := os.Stat(path); err == nil {
			w.modTimes[path] = info.ModTime()
		}
	}
	return nil
}

// Poll checks every source file once. It is called by the watcher loop and
// may be called directly when no loop is running.
func (w *FileWatcher) Poll() {
	paths, err := w.codebase.SourceFiles()
	if err != nil {
		log.Warningf("watch: %v", err)
		return
	}

	var changed, removed []string
	current := make(map[string]bool, len(paths))
	for _, path := range paths {
		current[path] = true
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		lastMod, known := w.modTimes[path]
		if known && !info.ModTime().After(lastMod) {
			continue
		}
		w.modTimes[path] = info.ModTime()
		if err := w.codebase.ScanFile(path); err != nil {
			log.Warningf("watch: %v", err)
			continue
		}
		changed = append(changed, path)
	}

	for path := range w.modTimes {
		if !current[path] {
			delete(w.modTimes, path)
			w.codebase.RemoveFile(path)
			removed = append(removed, path)
		}
	}

	sort.Strings(removed)

	if len(changed)+len(removed) > 0 {
		log.Debugf("watch: %d changed, %d removed", len(changed), len(removed))
		if w.OnChange != nil {
			w.OnChange(changed, removed)
		}
	}
}
