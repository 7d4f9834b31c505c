package algorithms

import "linewatch/pkg/snapshot"

// Default is the set-membership predicate: O(1) average, backed by the
// Snapshot's own members map. It is the fallback for empty queries and
// unrecognized algorithm names.
func Default(s *snapshot.Snapshot, query string) bool {
	return s.Members(query)
}

// HashTable is the catalogue's explicitly-named hash-table variant. It is
// identical to Default: both consult the same underlying set, matching
// spec.md's description of "default" and "hash_table" as the same
// structure, addressed under two names for compatibility with the original
// algorithm descriptor.
func HashTable(s *snapshot.Snapshot, query string) bool {
	return s.Members(query)
}
