package dispatch

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"linewatch/internal/linewatch/store"
	"linewatch/pkg/snapshot"
)

type recordedSample struct {
	index   int
	name    string
	reread  bool
	elapsed float64
}

type fakeRecorder struct {
	samples []recordedSample
}

func (f *fakeRecorder) Record(algorithmIndex int, algorithmName string, rereadOnQuery bool, elapsedMs float64) {
	f.samples = append(f.samples, recordedSample{algorithmIndex, algorithmName, rereadOnQuery, elapsedMs})
}

func roundTrip(t *testing.T, d *Dispatcher, payload []byte) string {
	t.Helper()
	client, server := net.Pipe()

	done := make(chan struct{})
	go func() {
		d.Handle(server)
		close(done)
	}()

	if _, err := client.Write(payload); err != nil {
		t.Fatalf("write request: %v", err)
	}

	buf := make([]byte, PayloadCap)
	_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, err := client.Read(buf)
	client.Close()
	<-done
	if err != nil {
		return ""
	}
	return string(buf[:n])
}

func newDispatcher(t *testing.T, content string, reread bool) (*Dispatcher, *fakeRecorder) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	fs := store.New()
	fs.Publish(snapshot.Build([]byte(content)))

	rec := &fakeRecorder{}
	return &Dispatcher{
		WatchedPath:   path,
		Store:         fs,
		RereadOnQuery: reread,
		Metrics:       rec,
		Log:           zerolog.Nop(),
	}, rec
}

func TestHandle_ExactMatchReturnsExists(t *testing.T) {
	d, rec := newDispatcher(t, "3;0;1;28;0;7;5;0;\n9;0;1;11;0;8;5;0;\n", false)
	payload, _ := json.Marshal(map[string]string{"query_string": "9;0;1;11;0;8;5;0;", "algorithm": "binary"})

	got := roundTrip(t, d, payload)
	if got != ReplyExists {
		t.Fatalf("got %q, want %q", got, ReplyExists)
	}
	if len(rec.samples) != 1 || rec.samples[0].name != "binary" {
		t.Fatalf("unexpected metrics samples: %+v", rec.samples)
	}
}

func TestHandle_MissingLineReturnsNotFound(t *testing.T) {
	d, _ := newDispatcher(t, "3;0;1;28;0;7;5;0;\n9;0;1;11;0;8;5;0;\n", false)
	payload, _ := json.Marshal(map[string]string{"query_string": "nonexistent", "algorithm": "binary"})

	got := roundTrip(t, d, payload)
	if got != ReplyNotFound {
		t.Fatalf("got %q, want %q", got, ReplyNotFound)
	}
}

func TestHandle_UnknownAlgorithmFallsBackToDefault(t *testing.T) {
	d, rec := newDispatcher(t, "9;0;1;11;0;8;5;0;\n", false)
	payload, _ := json.Marshal(map[string]string{"query_string": "9;0;1;11;0;8;5;0;", "algorithm": "not_a_real_algo"})

	got := roundTrip(t, d, payload)
	if got != ReplyExists {
		t.Fatalf("got %q, want %q", got, ReplyExists)
	}
	if len(rec.samples) != 1 || rec.samples[0].name != "default" {
		t.Fatalf("expected fallback to default, got %+v", rec.samples)
	}
}

func TestHandle_EmptyQueryFallsBackToDefaultAndMisses(t *testing.T) {
	d, _ := newDispatcher(t, "abc\n", false)
	payload, _ := json.Marshal(map[string]string{"query_string": "", "algorithm": "binary"})

	got := roundTrip(t, d, payload)
	if got != ReplyNotFound {
		t.Fatalf("got %q, want %q", got, ReplyNotFound)
	}
}

func TestHandle_MalformedJSONClosesWithoutReply(t *testing.T) {
	d, _ := newDispatcher(t, "abc\n", false)
	got := roundTrip(t, d, []byte("{"))
	if got != "" {
		t.Fatalf("expected no reply for malformed JSON, got %q", got)
	}
}

func TestHandle_RereadOnQueryObservesLatestFileContent(t *testing.T) {
	d, _ := newDispatcher(t, "old\n", true)

	if err := os.WriteFile(d.WatchedPath, []byte("new\n"), 0o644); err != nil {
		t.Fatalf("rewrite fixture: %v", err)
	}

	payload, _ := json.Marshal(map[string]string{"query_string": "new", "algorithm": "default"})
	got := roundTrip(t, d, payload)
	if got != ReplyExists {
		t.Fatalf("got %q, want %q (reread_on_query should see the rewritten file)", got, ReplyExists)
	}
}
