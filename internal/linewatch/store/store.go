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

// Package store holds the process-wide, thread-safe publish/read handle on
// the current file Snapshot. It is the single-key generalization of the
// teacher pack's sync.Map-backed Store: linewatch tracks exactly one
// logical key (the watched file), so an atomic pointer swap is the
// right-sized instrument for the same "atomic publish, wait-free read"
// idiom the teacher's internal/ratelimiter/core.Store demonstrates.
package store

import (
	"sync/atomic"

	"linewatch/pkg/snapshot"
)

// FileStore holds at most one current Snapshot plus a flag recording
// whether it has ever been replaced since boot.
type FileStore struct {
	current     atomic.Pointer[snapshot.Snapshot]
	everUpdated atomic.Bool
}

// New returns an empty FileStore. Current() returns nil until the first
// Publish.
func New() *FileStore {
	return &FileStore{}
}

// Publish atomically replaces the current Snapshot. The very first publish
// (from boot preload) does not flip everUpdated; every later one does,
// matching spec.md §3's "ever_updated" semantics (it tracks whether the
// watched file has changed since boot, not whether it has ever been
// loaded).
func (f *FileStore) Publish(s *snapshot.Snapshot) {
	if f.current.Swap(s) != nil {
		f.everUpdated.Store(true)
	}
}

// Current returns the currently published Snapshot, or nil if nothing has
// been published yet. The load is a single atomic pointer read: wait-free,
// and never torn with respect to a concurrent Publish.
func (f *FileStore) Current() *snapshot.Snapshot {
	return f.current.Load()
}

// WasUpdated reports whether the watched file has been reloaded at least
// once since the initial boot preload.
func (f *FileStore) WasUpdated() bool {
	return f.everUpdated.Load()
}
