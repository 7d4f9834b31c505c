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

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// fileEntry is one entry of the reread registry's "files" map.
type fileEntry struct {
	FilePath       string `json:"file_path"`
	RereadOnQuery  bool   `json:"reread_on_query"`
}

type registry struct {
	Files map[string]fileEntry `json:"files"`
}

// LoadRereadOnQuery loads the per-file reread_on_query flag for dataFilePath
// from the registry at registryPath, creating the registry with a default
// entry (reread_on_query: true) if it is absent. Grounded directly on
// original_source/lib/configuration.py's load_reread_on_query_config,
// including the read-modify-truncate-rewrite shape for an existing file.
func LoadRereadOnQuery(registryPath, dataFilePath string) (bool, error) {
	stem := stemOf(dataFilePath)

	data, err := os.ReadFile(registryPath)
	if os.IsNotExist(err) {
		return true, writeDefaultRegistry(registryPath, stem, dataFilePath)
	}
	if err != nil {
		return true, err
	}

	var reg registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return true, err
	}
	if reg.Files == nil {
		reg.Files = make(map[string]fileEntry)
	}

	if entry, ok := reg.Files[stem]; ok {
		return entry.RereadOnQuery, nil
	}

	reg.Files[stem] = fileEntry{FilePath: dataFilePath, RereadOnQuery: true}
	if err := rewriteRegistry(registryPath, reg); err != nil {
		return true, err
	}
	return true, nil
}

func writeDefaultRegistry(registryPath, stem, dataFilePath string) error {
	reg := registry{Files: map[string]fileEntry{
		stem: {FilePath: dataFilePath, RereadOnQuery: true},
	}}
	return rewriteRegistry(registryPath, reg)
}

func rewriteRegistry(registryPath string, reg registry) error {
	b, err := json.MarshalIndent(reg, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(registryPath, b, 0o644)
}

func stemOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
