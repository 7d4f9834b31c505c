package metrics

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeReplicator struct {
	calls int
}

func (f *fakeReplicator) Replicate(algorithmName string, rereadOnQuery bool, elapsedMs float64) error {
	f.calls++
	return nil
}

func TestSink_RecordFlushesToDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metrics.json")
	rep := &fakeReplicator{}

	s := NewSink(path, rep, zerolog.Nop())
	s.Start()
	s.Record(3, "binary", false, 1.5)
	s.Record(3, "binary", false, 2.5)
	s.Stop()

	if rep.calls != 2 {
		t.Fatalf("expected replicator called twice, got %d", rep.calls)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read metrics file: %v", err)
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal metrics file: %v", err)
	}
	if len(doc.ExecutionTimesRereadFalse[3]) != 2 {
		t.Fatalf("expected 2 samples at index 3, got %v", doc.ExecutionTimesRereadFalse[3])
	}
	if len(doc.Algorithms) == 0 {
		t.Fatalf("expected algorithms list to be populated")
	}
}

func TestSink_QueueFullDoesNotBlockCaller(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metrics.json")
	s := NewSink(path, nil, zerolog.Nop())
	// Deliberately not started: the channel fills and Record must not block.
	for i := 0; i < sampleQueueDepth+10; i++ {
		done := make(chan struct{})
		go func() {
			s.Record(0, "default", false, 1)
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatalf("Record blocked on a full queue at iteration %d", i)
		}
	}
}
