package algorithms

import "linewatch/pkg/snapshot"

// Shell shell-sorts a private copy of Lines() and then scans it linearly.
// It deliberately does not reuse Snapshot.Sorted(): the original
// original_source/lib/algorithms/shell_search.py sorts its own working copy
// rather than sharing a pre-sorted view, and the result is equivalent to
// Binary/Tim either way since all orderings agree on membership.
func Shell(s *snapshot.Snapshot, query string) bool {
	lines := s.Lines()
	work := make([]string, len(lines))
	copy(work, lines)
	shellSort(work)

	for _, line := range work {
		if line == query {
			return true
		}
	}
	return false
}

func shellSort(arr []string) {
	n := len(arr)
	for gap := n / 2; gap > 0; gap /= 2 {
		for i := gap; i < n; i++ {
			temp := arr[i]
			j := i
			for j >= gap && arr[j-gap] > temp {
				arr[j] = arr[j-gap]
				j -= gap
			}
			arr[j] = temp
		}
	}
}
