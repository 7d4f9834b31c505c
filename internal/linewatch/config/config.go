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

// Package config loads the static, section-scoped INI configuration that
// wires the rest of linewatch: which file to watch, whether to terminate
// TLS, where the per-file reread registry and metrics log live, and which
// algorithm descriptor to load and log at boot (it does not change the
// metric-bucket order, which is always the catalogue's own).
package config

import (
	"fmt"
	"os"

	"gopkg.in/ini.v1"
)

// Config mirrors the keys of the original config.ini dialect
// (linuxpath, use_ssl, ssl_certfile, ssl_keyfile, reread_on_query_config,
// metrics_json_path, algorithms_list), plus the ambient knobs a Go service
// needs that the Python original hardcoded or omitted, and the
// metrics_replicator family of keys that select metrics.BuildReplicator's
// optional fan-out adapter.
type Config struct {
	FilePath            string
	UseSSL              bool
	SSLCertFile         string
	SSLKeyFile          string
	RereadOnQueryConfig string
	MetricsJSONPath     string
	AlgorithmsList      string

	ListenAddr  string
	MetricsAddr string
	LogLevel    string
	LogJSON     bool

	MetricsReplicator    string
	MetricsRedisAddr     string
	MetricsRedisKeyspace string
	MetricsRedisMaxLen   int64
	MetricsKafkaTopic    string
}

// Load reads the config file at path and validates it. It fails fast if the
// watched file does not exist or TLS is enabled without both a cert and a
// key, matching spec.md §4.A and §7's configuration-error taxonomy.
func Load(path string) (*Config, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}

	sec := firstNonDefaultSection(f)

	cfg := &Config{
		FilePath:            sec.Key("linuxpath").String(),
		UseSSL:              sec.Key("use_ssl").MustBool(false),
		SSLCertFile:         sec.Key("ssl_certfile").String(),
		SSLKeyFile:          sec.Key("ssl_keyfile").String(),
		RereadOnQueryConfig: sec.Key("reread_on_query_config").String(),
		MetricsJSONPath:     sec.Key("metrics_json_path").MustString("metrics.json"),
		AlgorithmsList:      sec.Key("algorithms_list").String(),
		ListenAddr:          sec.Key("listen_addr").MustString(":44445"),
		MetricsAddr:         sec.Key("metrics_addr").String(),
		LogLevel:            sec.Key("log_level").MustString("info"),
		LogJSON:             sec.Key("log_json").MustBool(true),

		MetricsReplicator:    sec.Key("metrics_replicator").String(),
		MetricsRedisAddr:     sec.Key("metrics_redis_addr").String(),
		MetricsRedisKeyspace: sec.Key("metrics_redis_keyspace").MustString("linewatch"),
		MetricsRedisMaxLen:   sec.Key("metrics_redis_max_len").MustInt64(10000),
		MetricsKafkaTopic:    sec.Key("metrics_kafka_topic").MustString("linewatch-samples"),
	}

	if cfg.FilePath == "" {
		return nil, fmt.Errorf("config: linuxpath is required")
	}
	if _, err := os.Stat(cfg.FilePath); err != nil {
		return nil, fmt.Errorf("config: watched file %s: %w", cfg.FilePath, err)
	}
	if cfg.UseSSL && (cfg.SSLCertFile == "" || cfg.SSLKeyFile == "") {
		return nil, fmt.Errorf("config: use_ssl is set but ssl_certfile/ssl_keyfile are incomplete")
	}

	return cfg, nil
}

// firstNonDefaultSection returns the first declared [section], falling back
// to the file's implicit DEFAULT section. The original Python config.py
// iterates config.sections() and lets the last one win for each key; a
// single-section config file (the common case) behaves identically here.
func firstNonDefaultSection(f *ini.File) *ini.Section {
	for _, name := range f.SectionStrings() {
		if name == ini.DefaultSection {
			continue
		}
		return f.Section(name)
	}
	return f.Section(ini.DefaultSection)
}
