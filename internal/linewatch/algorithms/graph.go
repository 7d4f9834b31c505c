package algorithms

import "linewatch/pkg/snapshot"

// Graph is spec.md's "exponential-over-lines" catalogue entry: an
// exponential search over Sorted() that reports presence only, grounded on
// original_source/lib/graph_search.py (GraphBasedSearch.search, which
// returns an index or -1; linewatch only needs the boolean).
func Graph(s *snapshot.Snapshot, query string) bool {
	return exponentialSearch(s.Sorted(), query)
}
