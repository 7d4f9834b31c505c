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

// Package snapshot provides a thread-safe, immutable in-memory view of a
// watched text file. It is designed to efficiently answer whole-line
// membership queries against a point-in-time copy of the file, with
// additional ordered/indexed views built lazily and cached on the instance.
package snapshot

import (
	"sort"
	"strings"
	"sync"
)

// Snapshot is an immutable, self-consistent view of a watched file plus any
// derived indices. Once returned from Build, a Snapshot is never mutated;
// its only state changes are the one-time lazy construction of derived
// views, each guarded so concurrent first readers collapse to one build.
type Snapshot struct {
	raw     []byte
	lines   []string
	members map[string]struct{}

	sortedOnce sync.Once
	sorted     []string

	trieOnce sync.Once
	trie     *trieNode

	invertedOnce sync.Once
	inverted     map[string][]int
}

// Build produces a Snapshot from the full byte content of a file. Lines are
// obtained by splitting on '\n' and trimming surrounding whitespace from
// each line; members is derived from the trimmed lines. Empty input yields
// an empty, valid Snapshot that matches nothing.
func Build(raw []byte) *Snapshot {
	rawCopy := make([]byte, len(raw))
	copy(rawCopy, raw)

	parts := strings.Split(string(raw), "\n")
	lines := make([]string, 0, len(parts))
	members := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		line := strings.TrimSpace(p)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		members[line] = struct{}{}
	}

	return &Snapshot{
		raw:     rawCopy,
		lines:   lines,
		members: members,
	}
}

// Raw returns the original file bytes this Snapshot was built from.
func (s *Snapshot) Raw() []byte { return s.raw }

// Lines returns the ordered sequence of trimmed, non-empty lines.
func (s *Snapshot) Lines() []string { return s.lines }

// Members reports whether query (already whitespace-trimmed by the caller)
// equals some line of the Snapshot. This is the default, O(1)-average
// membership test.
func (s *Snapshot) Members(query string) bool {
	_, ok := s.members[query]
	return ok
}

// Len returns the number of non-empty lines backing the Snapshot,
// duplicates included.
func (s *Snapshot) Len() int { return len(s.lines) }

// Sorted returns lines in ascending lexical order, built once per Snapshot
// on first call and cached for the remainder of the Snapshot's life.
func (s *Snapshot) Sorted() []string {
	s.sortedOnce.Do(func() {
		sorted := make([]string, len(s.lines))
		copy(sorted, s.lines)
		sort.Strings(sorted)
		s.sorted = sorted
	})
	return s.sorted
}

type trieNode struct {
	children map[rune]*trieNode
	terminal bool
}

// Trie returns a character trie over every line, built once per Snapshot.
// A line is present in the trie iff its terminal node has terminal == true.
func (s *Snapshot) Trie() *trieNode {
	s.trieOnce.Do(func() {
		root := &trieNode{children: make(map[rune]*trieNode)}
		for _, line := range s.lines {
			node := root
			for _, r := range line {
				child, ok := node.children[r]
				if !ok {
					child = &trieNode{children: make(map[rune]*trieNode)}
					node.children[r] = child
				}
				node = child
			}
			node.terminal = true
		}
		s.trie = root
	})
	return s.trie
}

// TrieContains walks t by the runes of query and reports whether query ends
// on a terminal node.
func TrieContains(t *trieNode, query string) bool {
	node := t
	for _, r := range query {
		child, ok := node.children[r]
		if !ok {
			return false
		}
		node = child
	}
	return node.terminal
}

// Inverted returns a whitespace-tokenized word -> line-index map, built once
// per Snapshot. Note this indexes *words*, not whole lines: membership of a
// multi-word line cannot be recovered from this structure alone.
func (s *Snapshot) Inverted() map[string][]int {
	s.invertedOnce.Do(func() {
		idx := make(map[string][]int)
		for i, line := range s.lines {
			for _, word := range strings.Fields(line) {
				idx[word] = append(idx[word], i)
			}
		}
		s.inverted = idx
	})
	return s.inverted
}
