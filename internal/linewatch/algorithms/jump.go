package algorithms

import (
	"math"

	"linewatch/pkg/snapshot"
)

// Jump performs a block-size floor(sqrt(n)) jump search over Sorted(),
// falling back to a linear scan within the located block, grounded on
// original_source/lib/algorithms/jump_search.py.
func Jump(s *snapshot.Snapshot, query string) bool {
	sorted := s.Sorted()
	n := len(sorted)
	if n == 0 {
		return false
	}

	step := int(math.Sqrt(float64(n)))
	if step < 1 {
		step = 1
	}

	prev := 0
	curr := step
	for sorted[min(curr, n)-1] < query {
		prev = curr
		curr += step
		if prev >= n {
			return false
		}
	}

	for i := prev; i < min(curr, n); i++ {
		if sorted[i] == query {
			return true
		}
	}
	return false
}
