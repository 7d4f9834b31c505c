package store

import (
	"sync"
	"testing"

	"linewatch/pkg/snapshot"
)

func TestFileStore_PublishAndCurrent(t *testing.T) {
	fs := New()
	if fs.Current() != nil {
		t.Fatalf("expected nil Current() before any Publish")
	}

	s1 := snapshot.Build([]byte("a\nb\n"))
	fs.Publish(s1)
	if fs.Current() != s1 {
		t.Fatalf("Current() did not return the published snapshot")
	}
	if fs.WasUpdated() {
		t.Fatalf("first publish should not count as an update")
	}

	s2 := snapshot.Build([]byte("c\n"))
	fs.Publish(s2)
	if fs.Current() != s2 {
		t.Fatalf("Current() did not return the second published snapshot")
	}
	if !fs.WasUpdated() {
		t.Fatalf("second publish should flip WasUpdated")
	}
}

func TestFileStore_ConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	fs := New()
	fs.Publish(snapshot.Build([]byte("x\n")))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := fs.Current()
			if s == nil {
				t.Errorf("reader observed a nil snapshot mid-swap")
				return
			}
			_ = s.Len()
		}()
	}
	fs.Publish(snapshot.Build([]byte("y\nz\n")))
	wg.Wait()
}
