// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package watcher monitors the watched path for modification events and
// republishes a fresh snapshot.Snapshot into a store.FileStore whenever the
// file changes. It is the background-loop half of the teacher pack's
// commit/eviction worker shape (ticker + stop channel + WaitGroup from
// internal/ratelimiter/core/worker.go), re-aimed at filesystem events
// instead of time-driven commit cycles.
package watcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"linewatch/internal/linewatch/metrics"
	"linewatch/internal/linewatch/store"
	"linewatch/pkg/snapshot"
)

// Default tuning, overridable per-instance for tests.
const (
	DefaultDebounce   = 75 * time.Millisecond
	DefaultMaxBackoff = 2 * time.Second
	DefaultRetries    = 6
)

// Watcher rebuilds and republishes a Snapshot each time the watched path is
// modified, with bounded retry on the editor-rewrite pattern (the file
// disappears momentarily and reappears under the same name).
type Watcher struct {
	path  string
	store *store.FileStore
	log   zerolog.Logger

	debounce   time.Duration
	maxBackoff time.Duration
	retries    int

	fsWatcher *fsnotify.Watcher
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// New constructs a Watcher for path, publishing into fs and logging through
// log. Callers must call Preload before Start so that the store has an
// initial Snapshot before traffic is accepted (spec.md §4.I).
func New(path string, fs *store.FileStore, log zerolog.Logger) *Watcher {
	return &Watcher{
		path:       path,
		store:      fs,
		log:        log,
		debounce:   DefaultDebounce,
		maxBackoff: DefaultMaxBackoff,
		retries:    DefaultRetries,
	}
}

// Preload synchronously reads the watched file once and publishes the
// initial Snapshot. It must succeed before Start is called: spec.md §4.I
// requires the bootstrapper to preload one snapshot before accepting
// traffic.
func (w *Watcher) Preload() error {
	s, err := readSnapshot(w.path)
	if err != nil {
		return fmt.Errorf("watcher: preload %s: %w", w.path, err)
	}
	w.store.Publish(s)
	return nil
}

// Start begins watching the parent directory of the watched path (editor
// rewrites frequently replace the inode, which a direct file watch can
// miss) and republishing a Snapshot on every coalesced burst of events.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: create fsnotify watcher: %w", err)
	}
	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("watcher: watch %s: %w", dir, err)
	}
	w.fsWatcher = fsw
	w.stopChan = make(chan struct{})

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop shuts the watcher down and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	if w.fsWatcher == nil {
		return
	}
	close(w.stopChan)
	_ = w.fsWatcher.Close()
	w.wg.Wait()
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	base := filepath.Base(w.path)
	var debounceTimer *time.Timer
	var debounceC <-chan time.Time

	for {
		select {
		case ev, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.NewTimer(w.debounce)
			debounceC = debounceTimer.C

		case <-debounceC:
			debounceC = nil
			w.rebuildWithRetry()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("file watcher error")

		case <-w.stopChan:
			return
		}
	}
}

// rebuildWithRetry re-reads and republishes the Snapshot, retrying with
// bounded exponential backoff when the watched file is momentarily absent
// (the editor-rewrite pattern spec.md §4.D describes). A persistent failure
// is logged and the prior snapshot stays in force.
func (w *Watcher) rebuildWithRetry() {
	backoff := 10 * time.Millisecond
	var lastErr error

	for attempt := 0; attempt < w.retries; attempt++ {
		s, err := readSnapshot(w.path)
		if err == nil {
			w.store.Publish(s)
			metrics.ObserveSnapshotRebuild(true)
			return
		}
		lastErr = err
		if !errors.Is(err, os.ErrNotExist) {
			break
		}
		time.Sleep(backoff)
		backoff *= 2
		if backoff > w.maxBackoff {
			backoff = w.maxBackoff
		}
	}

	metrics.ObserveSnapshotRebuild(false)
	w.log.Error().Err(lastErr).Str("path", w.path).Msg("giving up rebuilding snapshot; retaining prior snapshot")
}

// ReadFresh builds a brand-new, transient Snapshot straight from disk,
// bypassing the FileStore entirely. It backs reread_on_query = true mode
// (spec.md §4.F step 4): every such request observes the file as of its own
// start time, independent of the watcher's debounce window.
func ReadFresh(path string) (*snapshot.Snapshot, error) {
	return readSnapshot(path)
}

// readSnapshot memory-maps path read-only, copies its contents into a heap
// buffer, releases the mapping, and builds a Snapshot from the copy — the
// map is held only for the duration of the read, per spec.md §5's resource
// lifecycle.
func readSnapshot(path string) (*snapshot.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return snapshot.Build(nil), nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	raw := make([]byte, len(m))
	copy(raw, m)
	if err := m.Unmap(); err != nil {
		return nil, fmt.Errorf("unmap %s: %w", path, err)
	}

	return snapshot.Build(raw), nil
}
