package algorithms

import "linewatch/pkg/snapshot"

// Trie walks a character trie built on demand from every line, requiring
// the end-of-word flag on the node the query terminates at. Grounded on
// original_source/lib/algorithms/trie_search.py.
func Trie(s *snapshot.Snapshot, query string) bool {
	return snapshot.TrieContains(s.Trie(), query)
}
