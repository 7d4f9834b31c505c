package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoad_MissingWatchedFileFailsFast(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTemp(t, dir, "linewatch.ini", "[server]\nlinuxpath = "+filepath.Join(dir, "missing.txt")+"\n")
	if _, err := Load(cfgPath); err == nil {
		t.Fatalf("expected error for missing watched file")
	}
}

func TestLoad_IncompleteTLSFailsFast(t *testing.T) {
	dir := t.TempDir()
	data := writeTemp(t, dir, "data.txt", "a\nb\n")
	cfgPath := writeTemp(t, dir, "linewatch.ini",
		"[server]\nlinuxpath = "+data+"\nuse_ssl = true\n")
	if _, err := Load(cfgPath); err == nil {
		t.Fatalf("expected error for incomplete TLS config")
	}
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	data := writeTemp(t, dir, "data.txt", "a\nb\n")
	cfgPath := writeTemp(t, dir, "linewatch.ini", "[server]\nlinuxpath = "+data+"\n")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr == "" {
		t.Fatalf("expected a default ListenAddr")
	}
	if cfg.UseSSL {
		t.Fatalf("expected UseSSL to default false")
	}
	if cfg.MetricsReplicator != "" {
		t.Fatalf("expected MetricsReplicator to default to empty (no replication), got %q", cfg.MetricsReplicator)
	}
	if cfg.MetricsRedisKeyspace != "linewatch" {
		t.Fatalf("expected default redis keyspace 'linewatch', got %q", cfg.MetricsRedisKeyspace)
	}
	if cfg.MetricsRedisMaxLen != 10000 {
		t.Fatalf("expected default redis max len 10000, got %d", cfg.MetricsRedisMaxLen)
	}
	if cfg.MetricsKafkaTopic != "linewatch-samples" {
		t.Fatalf("expected default kafka topic, got %q", cfg.MetricsKafkaTopic)
	}
}

func TestLoadRereadOnQuery_CreatesDefaultRegistry(t *testing.T) {
	dir := t.TempDir()
	registryPath := filepath.Join(dir, "reread.json")
	dataPath := writeTemp(t, dir, "data.txt", "a\n")

	got, err := LoadRereadOnQuery(registryPath, dataPath)
	if err != nil {
		t.Fatalf("LoadRereadOnQuery: %v", err)
	}
	if !got {
		t.Fatalf("expected default reread_on_query = true")
	}
	if _, err := os.Stat(registryPath); err != nil {
		t.Fatalf("expected registry file to be created: %v", err)
	}

	// Second call should read back the persisted value, not re-default.
	got2, err := LoadRereadOnQuery(registryPath, dataPath)
	if err != nil {
		t.Fatalf("LoadRereadOnQuery (second): %v", err)
	}
	if got2 != got {
		t.Fatalf("second read %v != first read %v", got2, got)
	}
}

func TestLoadAlgorithmsList_MissingFileErrors(t *testing.T) {
	if _, err := LoadAlgorithmsList(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error for missing algorithms list")
	}
}

func TestLoadAlgorithmsList_Parses(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "algos.json", `{"algorithms": ["default", "binary", "trie"]}`)
	list, err := LoadAlgorithmsList(path)
	if err != nil {
		t.Fatalf("LoadAlgorithmsList: %v", err)
	}
	if len(list) != 3 || list[1] != "binary" {
		t.Fatalf("unexpected list: %v", list)
	}
}
