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

// Package dispatch runs the per-connection request state machine: read one
// request, validate it, acquire a snapshot, run the chosen predicate, and
// write exactly one reply. It is the single entry point the server package's
// per-connection worker calls, mirroring the shape of the teacher pack's HTTP
// handler (internal/ratelimiter/api.Server.handleCheckRateLimit) collapsed
// onto a raw-socket, one-shot exchange instead of a long-lived mux.
package dispatch

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"linewatch/internal/linewatch/algorithms"
	"linewatch/internal/linewatch/store"
	"linewatch/internal/linewatch/watcher"
	"linewatch/pkg/snapshot"
)

// PayloadCap bounds how many bytes a single request may occupy on the wire.
const PayloadCap = 4096

// Reply tokens. Exactly one is written per connection; there is no framing
// and no trailing newline.
const (
	ReplyExists   = "STRING EXISTS"
	ReplyNotFound = "STRING NOT FOUND"
	ReplyInternal = "ERROR: An internal error occurred"
)

// Recorder receives one latency sample per completed request. Implementations
// must not block the caller for long and must never surface an error back
// into the request path (spec.md §7: metrics write failure never influences
// the client reply).
type Recorder interface {
	Record(algorithmIndex int, algorithmName string, rereadOnQuery bool, elapsedMs float64)
}

// request is the wire shape of a single query. Unknown fields are ignored by
// encoding/json by default.
type request struct {
	QueryString string `json:"query_string"`
	Algorithm   string `json:"algorithm"`
}

// Dispatcher holds everything one connection's worker needs: where to find a
// snapshot, whether to force a fresh read per request, and where to send
// latency samples.
type Dispatcher struct {
	WatchedPath   string
	Store         *store.FileStore
	RereadOnQuery bool
	Metrics       Recorder
	Log           zerolog.Logger
}

// Handle implements the full per-connection contract of spec.md §4.F. It
// always closes conn before returning. Panics raised by a predicate (the
// "predicate exception" case of spec.md §7) are recovered here and reported
// to the client as the internal-error token.
func (d *Dispatcher) Handle(conn net.Conn) {
	defer conn.Close()

	start := time.Now()

	raw, err := readRequest(conn)
	if err != nil {
		d.Log.Debug().Err(err).Msg("dispatch: read failed")
		_, _ = io.WriteString(conn, ReplyInternal)
		return
	}

	req, ok := parseRequest(raw)
	if !ok {
		d.Log.Debug().Msg("dispatch: malformed request JSON, closing without reply")
		return
	}

	query := strings.TrimSpace(req.QueryString)
	entry := algorithms.Lookup(req.Algorithm)
	if query == "" {
		entry = algorithms.Lookup("default")
	}

	reply, panicked := d.evaluate(entry, query)
	if panicked {
		_, _ = io.WriteString(conn, ReplyInternal)
		return
	}

	if _, err := io.WriteString(conn, reply); err != nil {
		d.Log.Debug().Err(err).Msg("dispatch: write failed, client likely closed mid-request")
		return
	}

	elapsedMs := float64(time.Since(start)) / float64(time.Millisecond)
	if d.Metrics != nil {
		d.Metrics.Record(indexOf(entry.Name), entry.Name, d.RereadOnQuery, elapsedMs)
	}
}

// evaluate acquires the applicable snapshot and runs the predicate, trapping
// any panic so a single bad query cannot take down the acceptor's other
// connections.
func (d *Dispatcher) evaluate(entry algorithms.Entry, query string) (reply string, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			d.Log.Error().Interface("panic", r).Str("algorithm", entry.Name).Msg("dispatch: predicate panicked")
			panicked = true
		}
	}()

	snap, err := d.acquireSnapshot()
	if err != nil {
		d.Log.Error().Err(err).Msg("dispatch: failed to acquire snapshot")
		return "", true
	}

	if entry.Predicate(snap, query) {
		return ReplyExists, false
	}
	return ReplyNotFound, false
}

// acquireSnapshot implements spec.md §4.F step 4: a fresh, transient read in
// reread_on_query mode, otherwise the process-wide published snapshot.
func (d *Dispatcher) acquireSnapshot() (*snapshot.Snapshot, error) {
	if d.RereadOnQuery {
		return watcher.ReadFresh(d.WatchedPath)
	}
	if s := d.Store.Current(); s != nil {
		return s, nil
	}
	return snapshot.Build(nil), nil
}

// readRequest reads up to PayloadCap bytes, trims trailing NUL padding, and
// returns the bytes once they are checked to be valid UTF-8; invalid UTF-8
// is returned as an error. A read longer than the cap is truncated,
// matching the "receive up to the payload cap" wording rather than rejecting
// outright.
func readRequest(conn net.Conn) ([]byte, error) {
	buf := make([]byte, PayloadCap)
	n, err := conn.Read(buf)
	if err != nil && n == 0 {
		return nil, err
	}
	raw := bytes.TrimRight(buf[:n], "\x00")
	if !utf8.Valid(raw) {
		return nil, errors.New("dispatch: request is not valid UTF-8")
	}
	return raw, nil
}

// parseRequest decodes the JSON request body. Malformed JSON is reported via
// ok=false, per spec.md §4.F step 2 ("log, close without reply").
func parseRequest(raw []byte) (request, bool) {
	var req request
	if err := json.Unmarshal(raw, &req); err != nil {
		return request{}, false
	}
	return req, true
}

// indexOf returns the catalogue position of name, or the default's position
// if name is not in the catalogue. This is the "algorithm_index" of
// spec.md §3's MetricRecord.
func indexOf(name string) int {
	for i, n := range algorithms.Names() {
		if n == name {
			return i
		}
	}
	return 0
}
