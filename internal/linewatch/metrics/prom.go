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

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "linewatch_requests_total",
		Help: "Total completed requests, labeled by algorithm and reread mode.",
	}, []string{"algorithm", "reread_on_query"})

	requestLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "linewatch_request_latency_ms",
		Help:    "Per-request latency in milliseconds, labeled by algorithm and reread mode.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100},
	}, []string{"algorithm", "reread_on_query"})

	snapshotRebuildsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "linewatch_snapshot_rebuilds_total",
		Help: "Total number of snapshot rebuilds the watcher has run, including abandoned ones.",
	})

	snapshotRebuildFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "linewatch_snapshot_rebuild_failures_total",
		Help: "Total number of snapshot rebuilds abandoned, leaving the prior snapshot in force.",
	})
)

func init() {
	prometheus.MustRegister(requestsTotal, requestLatency, snapshotRebuildsTotal, snapshotRebuildFailuresTotal)
}

// PromRecorder is a dispatch.Recorder that only feeds Prometheus. It is
// typically composed alongside a Sink via a MultiRecorder so both the
// durable JSON log and the live /metrics endpoint observe every sample.
type PromRecorder struct{}

// Record implements dispatch.Recorder.
func (PromRecorder) Record(_ int, algorithmName string, rereadOnQuery bool, elapsedMs float64) {
	label := rereadBucketLabel(rereadOnQuery)
	requestsTotal.WithLabelValues(algorithmName, label).Inc()
	requestLatency.WithLabelValues(algorithmName, label).Observe(elapsedMs)
}

// ObserveSnapshotRebuild increments the rebuild counters. ok=false marks a
// rebuild the watcher gave up on (retries exhausted, or an error other than
// the file being absent).
func ObserveSnapshotRebuild(ok bool) {
	snapshotRebuildsTotal.Inc()
	if !ok {
		snapshotRebuildFailuresTotal.Inc()
	}
}

func rereadBucketLabel(rereadOnQuery bool) string {
	if rereadOnQuery {
		return "true"
	}
	return "false"
}

// ServeHTTP exposes the registered collectors at "/metrics" on a dedicated
// http.Server bound to addr, and blocks until that server exits. The
// bootstrapper calls it only when the optional metrics_addr knob is set,
// matching the knob the teacher pack's churn module exposes.
func ServeHTTP(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	return srv.ListenAndServe()
}
