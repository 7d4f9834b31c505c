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

// Package algorithms is the named family of pure membership predicates that
// decide whether a query equals some line of a Snapshot. Every predicate
// must agree on the same contract for every valid input: the catalogue's
// whole point is that callers can swap one for another without changing
// what a query returns, only how it gets there. The one exception is
// inverted_index, which matches whitespace tokens rather than whole lines
// and so agrees with the others only for single-token lines.
package algorithms

import "linewatch/pkg/snapshot"

// Predicate decides whole-line membership of query in s. Implementations
// must be pure: no I/O, no hidden state beyond what is cached on s itself.
type Predicate func(s *snapshot.Snapshot, query string) bool

// Entry names one catalogue member.
type Entry struct {
	Name      string
	Predicate Predicate
}

// catalogue is ordered; this order is always the metric-bucket order. The
// algorithms_list descriptor (see config package) is loaded and logged at
// boot but does not change this order.
var catalogue = []Entry{
	{"default", Default},
	{"hash_table", HashTable},
	{"linear", Linear},
	{"binary", Binary},
	{"jump", Jump},
	{"ternary", Ternary},
	{"exponential", Exponential},
	{"interpolation", Interpolation},
	{"fibonacci", Fibonacci},
	{"tim", Tim},
	{"shell", Shell},
	{"trie", Trie},
	{"inverted_index", InvertedIndex},
	{"graph", Graph},
}

var byName = func() map[string]Entry {
	m := make(map[string]Entry, len(catalogue))
	for _, e := range catalogue {
		m[e.Name] = e
	}
	return m
}()

// Names returns the built-in catalogue's registration order.
func Names() []string {
	names := make([]string, len(catalogue))
	for i, e := range catalogue {
		names[i] = e.Name
	}
	return names
}

// Lookup returns the named entry, falling back to "default" for any name
// not in the catalogue (including the empty string). Unknown algorithm
// names are not a protocol error: spec.md §4.F step 3.
func Lookup(name string) Entry {
	if e, ok := byName[name]; ok {
		return e
	}
	return byName["default"]
}
