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

// Replicator adapters mirror the teacher pack's idempotent persistence
// adapters (internal/ratelimiter/persistence/{redis,kafka,postgres}.go),
// re-aimed at fanning out latency samples instead of rate-limiter commit
// vectors. The watched-file service has no durability requirement of its
// own beyond the JSON metrics log (Sink already owns that); these adapters
// exist for deployments that want samples to land in a shared time-series
// store alongside other services' metrics.
package metrics

import (
	"context"
	"time"
)

const replicateTimeout = 2 * time.Second

// Replicator receives one latency sample at a time. Implementations should
// treat failures as non-fatal to the caller (Sink logs and continues).
type Replicator interface {
	Replicate(algorithmName string, rereadOnQuery bool, elapsedMs float64) error
}

// sampleCtx is the context passed to adapters' underlying clients. A short,
// fixed timeout keeps a stalled backend from ever backing up the sink's
// single goroutine for long.
func sampleCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), replicateTimeout)
}
