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

// Package metrics owns the per-request latency log and its optional
// replication fan-out. A single dedicated goroutine drains a buffered
// channel of samples and owns the on-disk JSON file exclusively, the same
// shape as the teacher pack's commit/exporter loop
// (internal/ratelimiter/core/worker.go's commitLoop, and
// telemetry/churn/exporter.go's exporterLoop): one goroutine owns the shared
// resource so callers never take a lock on the hot path.
package metrics

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"linewatch/internal/linewatch/algorithms"
)

// sampleQueueDepth bounds how many in-flight samples the sink will buffer;
// once it is full, Record drops further samples instead of blocking the
// calling worker. Chosen generously
// since a dropped or delayed metric must never affect the client reply
// (spec.md §7), but an unbounded channel risks unbounded memory growth under
// a metrics-write stall.
const sampleQueueDepth = 4096

type sample struct {
	algorithmIndex int
	algorithmName  string
	rereadOnQuery  bool
	elapsedMs      float64
}

// document is the on-disk shape of the metrics file, matching spec.md §6's
// literal field names.
type document struct {
	ExecutionTimesRereadTrue  [][]float64 `json:"execution_times_REREAD_ON_QUERY_true"`
	ExecutionTimesRereadFalse [][]float64 `json:"execution_times_REREAD_ON_QUERY_false"`
	Algorithms                []string    `json:"algorithms"`
}

// Sink is the dispatch.Recorder implementation backing the watched-file
// service: it appends every sample to an in-memory document and periodically
// (on every sample, for simplicity and the strongest durability guarantee)
// flushes the document to disk, plus optionally fans each sample out to a
// Replicator.
type Sink struct {
	path       string
	log        zerolog.Logger
	replicator Replicator

	mu  sync.Mutex
	doc document

	samples chan sample
	done    chan struct{}
}

// NewSink constructs a Sink writing to path. If an existing file is present
// and parses, its contents seed the in-memory document so a restart does not
// lose history. replicator may be nil to disable fan-out.
func NewSink(path string, replicator Replicator, log zerolog.Logger) *Sink {
	s := &Sink{
		path:       path,
		log:        log,
		replicator: replicator,
		samples:    make(chan sample, sampleQueueDepth),
		done:       make(chan struct{}),
	}
	s.doc = loadExisting(path, log)
	return s
}

func loadExisting(path string, log zerolog.Logger) document {
	names := algorithms.Names()
	doc := document{
		ExecutionTimesRereadTrue:  make([][]float64, len(names)),
		ExecutionTimesRereadFalse: make([][]float64, len(names)),
		Algorithms:                names,
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return doc
	}
	var onDisk document
	if err := json.Unmarshal(raw, &onDisk); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("metrics: existing file did not parse, starting fresh")
		return doc
	}
	if len(onDisk.ExecutionTimesRereadTrue) == len(names) {
		doc.ExecutionTimesRereadTrue = onDisk.ExecutionTimesRereadTrue
	}
	if len(onDisk.ExecutionTimesRereadFalse) == len(names) {
		doc.ExecutionTimesRereadFalse = onDisk.ExecutionTimesRereadFalse
	}
	return doc
}

// Start launches the dedicated sink goroutine. Call Stop to drain and exit.
func (s *Sink) Start() {
	go s.loop()
}

// Stop closes the sample channel and waits for the final flush to complete.
func (s *Sink) Stop() {
	close(s.samples)
	<-s.done
}

// Record enqueues one latency sample. It never blocks the caller on disk or
// network I/O; back-pressure is absorbed by sampleQueueDepth.
func (s *Sink) Record(algorithmIndex int, algorithmName string, rereadOnQuery bool, elapsedMs float64) {
	select {
	case s.samples <- sample{algorithmIndex, algorithmName, rereadOnQuery, elapsedMs}:
	default:
		s.log.Warn().Msg("metrics: sample queue full, dropping sample")
	}
}

func (s *Sink) loop() {
	defer close(s.done)
	for smp := range s.samples {
		s.apply(smp)
		if s.replicator != nil {
			if err := s.replicator.Replicate(smp.algorithmName, smp.rereadOnQuery, smp.elapsedMs); err != nil {
				s.log.Warn().Err(err).Msg("metrics: replication failed")
			}
		}
	}
	s.flush()
}

func (s *Sink) apply(smp sample) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := smp.algorithmIndex
	if smp.rereadOnQuery {
		for idx >= len(s.doc.ExecutionTimesRereadTrue) {
			s.doc.ExecutionTimesRereadTrue = append(s.doc.ExecutionTimesRereadTrue, nil)
		}
		s.doc.ExecutionTimesRereadTrue[idx] = append(s.doc.ExecutionTimesRereadTrue[idx], smp.elapsedMs)
	} else {
		for idx >= len(s.doc.ExecutionTimesRereadFalse) {
			s.doc.ExecutionTimesRereadFalse = append(s.doc.ExecutionTimesRereadFalse, nil)
		}
		s.doc.ExecutionTimesRereadFalse[idx] = append(s.doc.ExecutionTimesRereadFalse[idx], smp.elapsedMs)
	}
	s.flushLocked()
}

func (s *Sink) flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushLocked()
}

// flushLocked writes the current document to disk. A write failure is
// logged and otherwise swallowed: spec.md §7 requires metrics write failures
// to never affect the client reply, and by the time we reach this point the
// reply has already been sent.
func (s *Sink) flushLocked() {
	b, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		s.log.Error().Err(err).Msg("metrics: marshal failed")
		return
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("metrics: write failed")
	}
}
