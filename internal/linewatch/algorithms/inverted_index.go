package algorithms

import "linewatch/pkg/snapshot"

// InvertedIndex reports whether query is present as one of the whitespace
// tokens in the built-on-demand word->positions index. This only agrees
// with whole-line membership when the stored line is itself a single
// token; multi-word lines are indexed as separate words. Grounded on
// original_source/lib/algorithms/inverted_index_search.py, which has the
// same token-vs-line conflation.
func InvertedIndex(s *snapshot.Snapshot, query string) bool {
	_, ok := s.Inverted()[query]
	return ok
}
