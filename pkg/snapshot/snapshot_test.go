package snapshot

import "testing"

const sampleFile = "3;0;1;28;0;7;5;0;\n9;0;1;11;0;8;5;0;\n"

func TestBuild_MembersAgreesWithLines(t *testing.T) {
	s := Build([]byte(sampleFile))
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	for _, line := range s.Lines() {
		if !s.Members(line) {
			t.Fatalf("line %q present in Lines() but not Members()", line)
		}
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	s := Build(nil)
	if s.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", s.Len())
	}
	if s.Members("") {
		t.Fatalf("empty query matched empty snapshot")
	}
}

func TestBuild_WhitespaceStripped(t *testing.T) {
	s := Build([]byte("  abc  \n  def\n"))
	if !s.Members("abc") || !s.Members("def") {
		t.Fatalf("expected stripped lines to be members")
	}
}

func TestBuild_DuplicationInsensitive(t *testing.T) {
	a := Build([]byte("x\ny\n"))
	b := Build([]byte("x\nx\ny\n"))
	if a.Members("x") != b.Members("x") || a.Members("y") != b.Members("y") {
		t.Fatalf("duplicate lines changed membership result")
	}
}

func TestSorted_IsPermutationOfLines(t *testing.T) {
	s := Build([]byte(sampleFile))
	sorted := s.Sorted()
	if len(sorted) != len(s.Lines()) {
		t.Fatalf("Sorted() length %d, want %d", len(sorted), len(s.Lines()))
	}
	want := map[string]int{}
	for _, l := range s.Lines() {
		want[l]++
	}
	for _, l := range sorted {
		want[l]--
	}
	for l, n := range want {
		if n != 0 {
			t.Fatalf("Sorted() is not a permutation of Lines() at %q", l)
		}
	}
}

func TestTrie_MatchesMembers(t *testing.T) {
	s := Build([]byte(sampleFile))
	trie := s.Trie()
	for _, line := range s.Lines() {
		if !TrieContains(trie, line) {
			t.Fatalf("trie missing line %q", line)
		}
	}
	if TrieContains(trie, "not-present") {
		t.Fatalf("trie matched a line that was never inserted")
	}
}

func TestInverted_TokenizesOnWhitespace(t *testing.T) {
	s := Build([]byte("hello world\nfoo\n"))
	idx := s.Inverted()
	if _, ok := idx["hello"]; !ok {
		t.Fatalf("expected token %q in inverted index", "hello")
	}
	if _, ok := idx["hello world"]; ok {
		t.Fatalf("inverted index should not key on whole lines")
	}
}
