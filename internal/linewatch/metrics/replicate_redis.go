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
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisReplicator pushes each sample onto a capped Redis list, one list per
// algorithm/reread-mode pair, using LPUSH+LTRIM so the list never grows
// unbounded. This is the multi-process analogue of the local JSON sink: any
// number of linewatchd processes watching the same file can share one
// rolling latency history.
type RedisReplicator struct {
	client   *redis.Client
	maxLen   int64
	keyspace string
}

// NewRedisReplicator returns a Replicator backed by client. keyspace
// prefixes every Redis key (e.g. "linewatch") so it can share a database
// with unrelated applications. maxLen bounds each list; values <= 0 default
// to 10000.
func NewRedisReplicator(client *redis.Client, keyspace string, maxLen int64) *RedisReplicator {
	if maxLen <= 0 {
		maxLen = 10000
	}
	return &RedisReplicator{client: client, keyspace: keyspace, maxLen: maxLen}
}

// Replicate implements Replicator.
func (r *RedisReplicator) Replicate(algorithmName string, rereadOnQuery bool, elapsedMs float64) error {
	ctx, cancel := sampleCtx()
	defer cancel()

	key := redisSampleKey(r.keyspace, algorithmName, rereadOnQuery)
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, key, elapsedMs)
	pipe.LTrim(ctx, key, 0, r.maxLen-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis replicate %s: %w", key, err)
	}
	return nil
}

func redisSampleKey(keyspace, algorithmName string, rereadOnQuery bool) string {
	mode := "false"
	if rereadOnQuery {
		mode = "true"
	}
	return fmt.Sprintf("%s:latency_ms:%s:reread_%s", keyspace, algorithmName, mode)
}

// loggingRedisReplicator stands in for RedisReplicator when BuildReplicator
// is asked for the "redis" kind without a redis_addr. It lets an operator
// exercise the metrics_replicator wiring end to end before pointing it at a
// real Redis instance.
type loggingRedisReplicator struct {
	log zerolog.Logger
}

func (l loggingRedisReplicator) Replicate(algorithmName string, rereadOnQuery bool, elapsedMs float64) error {
	l.log.Debug().
		Str("algorithm", algorithmName).
		Bool("reread_on_query", rereadOnQuery).
		Float64("elapsed_ms", elapsedMs).
		Msg("redis replicator (no redis_addr configured): sample logged, not sent")
	return nil
}
