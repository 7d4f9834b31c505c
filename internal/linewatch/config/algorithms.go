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
	"fmt"
	"os"
)

type algorithmsDescriptor struct {
	Algorithms []string `json:"algorithms"`
}

// LoadAlgorithmsList reads the ordered algorithm names listed in the
// descriptor at path, grounded on server.py's load_algorithms /
// ALGORITHMS_LIST. Unlike the Python original (which can leave
// ALGORITHMS_LIST as None on any failure), a missing, unreadable or empty
// descriptor here is reported to the caller as an error. The bootstrapper
// only logs the result; metric buckets always follow the built-in
// catalogue order.
func LoadAlgorithmsList(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("config: algorithms_list path not set")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read algorithms list %s: %w", path, err)
	}
	var desc algorithmsDescriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("config: decode algorithms list %s: %w", path, err)
	}
	if len(desc.Algorithms) == 0 {
		return nil, fmt.Errorf("config: algorithms list %s is empty", path)
	}
	return desc.Algorithms, nil
}
