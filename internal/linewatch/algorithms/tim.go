package algorithms

import "linewatch/pkg/snapshot"

// Tim is trivially a binary search: Sorted() is already produced by Go's
// runtime sort (a pattern-defeating, Timsort-adjacent hybrid for the
// []string case), so there is no separate sort step to perform here.
// Grounded on original_source/lib/algorithms/tim_search.py, whose "TimSort
// search" is likewise just sort-then-binary-search.
func Tim(s *snapshot.Snapshot, query string) bool {
	return binarySearch(s.Sorted(), query)
}
