package algorithms

import "linewatch/pkg/snapshot"

// Ternary performs a recursive three-way partition search over Sorted(),
// grounded on original_source/lib/algorithms/ternary_search.py.
func Ternary(s *snapshot.Snapshot, query string) bool {
	return ternarySearch(s.Sorted(), query, 0, len(s.Sorted())-1)
}

func ternarySearch(arr []string, query string, left, right int) bool {
	if left > right {
		return false
	}

	third := (right - left) / 3
	mid1 := left + third
	mid2 := right - third

	if arr[mid1] == query {
		return true
	}
	if arr[mid2] == query {
		return true
	}

	switch {
	case query < arr[mid1]:
		return ternarySearch(arr, query, left, mid1-1)
	case query > arr[mid2]:
		return ternarySearch(arr, query, mid2+1, right)
	default:
		return ternarySearch(arr, query, mid1+1, mid2-1)
	}
}
