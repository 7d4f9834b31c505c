package algorithms

import "linewatch/pkg/snapshot"

// Linear scans Lines() for an exact match, grounded on
// original_source/lib/algorithms/linear_search.py.
func Linear(s *snapshot.Snapshot, query string) bool {
	for _, line := range s.Lines() {
		if line == query {
			return true
		}
	}
	return false
}
