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

// Command linewatchd answers "does this exact line exist in the watched
// text file?" over TCP (optionally TLS). It wires the config loader, file
// watcher, file store, request dispatcher, metrics sink, and connection
// acceptor together, in the order spec.md §4.I requires: load config,
// preload one snapshot, publish it, start the watcher, only then start
// accepting traffic.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"linewatch/internal/linewatch/config"
	"linewatch/internal/linewatch/dispatch"
	"linewatch/internal/linewatch/logging"
	"linewatch/internal/linewatch/metrics"
	"linewatch/internal/linewatch/server"
	"linewatch/internal/linewatch/store"
	"linewatch/internal/linewatch/watcher"
)

func main() {
	configPath := flag.String("config", "linewatch.ini", "path to the linewatch INI config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "linewatchd: configuration error: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:      logging.Level(cfg.LogLevel),
		JSONOutput: cfg.LogJSON,
		Output:     os.Stdout,
	})
	log := logging.WithComponent("bootstrap")

	if cfg.AlgorithmsList != "" {
		if names, err := config.LoadAlgorithmsList(cfg.AlgorithmsList); err != nil {
			log.Warn().Err(err).Str("path", cfg.AlgorithmsList).Msg("algorithms_list did not load; using the built-in catalogue order")
		} else {
			log.Info().Strs("algorithms", names).Msg("loaded algorithms_list descriptor")
		}
	}

	rereadOnQuery := true
	if cfg.RereadOnQueryConfig != "" {
		rereadOnQuery, err = config.LoadRereadOnQuery(cfg.RereadOnQueryConfig, cfg.FilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load reread_on_query registry")
		}
	}

	fileStore := store.New()
	w := watcher.New(cfg.FilePath, fileStore, logging.WithComponent("watcher"))
	if err := w.Preload(); err != nil {
		log.Fatal().Err(err).Msg("failed to preload initial snapshot")
	}
	if err := w.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start file watcher")
	}

	replicator, err := metrics.BuildReplicator(cfg.MetricsReplicator, metrics.ReplicatorOptions{
		RedisAddr:     cfg.MetricsRedisAddr,
		RedisKeyspace: cfg.MetricsRedisKeyspace,
		RedisMaxLen:   cfg.MetricsRedisMaxLen,
		KafkaTopic:    cfg.MetricsKafkaTopic,
	}, logging.WithComponent("metrics-replicator"))
	if err != nil {
		log.Fatal().Err(err).Str("metrics_replicator", cfg.MetricsReplicator).Msg("failed to build metrics replicator")
	}

	sink := metrics.NewSink(cfg.MetricsJSONPath, replicator, logging.WithComponent("metrics"))
	sink.Start()
	recorder := metrics.NewMultiRecorder(sink, metrics.PromRecorder{})

	disp := &dispatch.Dispatcher{
		WatchedPath:   cfg.FilePath,
		Store:         fileStore,
		RereadOnQuery: rereadOnQuery,
		Metrics:       recorder,
		Log:           logging.WithComponent("dispatch"),
	}

	acceptor, err := server.Listen(server.Config{
		Addr:        cfg.ListenAddr,
		UseSSL:      cfg.UseSSL,
		SSLCertFile: cfg.SSLCertFile,
		SSLKeyFile:  cfg.SSLKeyFile,
	}, disp, logging.WithComponent("acceptor"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to bind listener")
	}

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.ServeHTTP(cfg.MetricsAddr); err != nil {
				log.Error().Err(err).Msg("prometheus metrics server exited")
			}
		}()
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- acceptor.Serve() }()

	log.Info().
		Str("listen_addr", cfg.ListenAddr).
		Bool("use_ssl", cfg.UseSSL).
		Bool("reread_on_query", rereadOnQuery).
		Str("watched_path", cfg.FilePath).
		Msg("linewatchd ready")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		_ = acceptor.Shutdown()
		// Serve returns once every in-flight connection has finished.
		select {
		case <-serveErr:
		case <-time.After(5 * time.Second):
			log.Warn().Msg("in-flight connections still running after 5s; stopping anyway")
		}
	case err := <-serveErr:
		if err != nil {
			log.Error().Err(err).Msg("acceptor exited unexpectedly")
		}
	}

	_ = acceptor.Shutdown()
	w.Stop()
	sink.Stop()
	log.Info().Msg("linewatchd stopped")
}
