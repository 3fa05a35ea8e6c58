package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Search.MaxResults != 5 {
		t.Errorf("Search.MaxResults = %d, want 5", cfg.Search.MaxResults)
	}
	if cfg.Corpus.ManifestPath != "corpus/docs.txt" {
		t.Errorf("Corpus.ManifestPath = %q", cfg.Corpus.ManifestPath)
	}
	if cfg.Kafka.Topics.QueryEvents != "query-events" {
		t.Errorf("Kafka.Topics.QueryEvents = %q", cfg.Kafka.Topics.QueryEvents)
	}
	if cfg.Server.ShutdownTimeout != 15*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v", cfg.Server.ShutdownTimeout)
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.RequestsPerWindow != 120 {
		t.Errorf("RateLimit = %+v", cfg.RateLimit)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	content := `
server:
  port: 9999
corpus:
  manifestPath: /data/docs.txt
  documentRoot: /data
search:
  maxResults: 3
logging:
  level: debug
  format: text
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Corpus.ManifestPath != "/data/docs.txt" {
		t.Errorf("Corpus.ManifestPath = %q", cfg.Corpus.ManifestPath)
	}
	if cfg.Search.MaxResults != 3 {
		t.Errorf("Search.MaxResults = %d, want 3", cfg.Search.MaxResults)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	// Values absent from the file keep their defaults.
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q, want default", cfg.Redis.Addr)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load of missing file succeeded")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LSE_SERVER_PORT", "7070")
	t.Setenv("LSE_CORPUS_ROOT", "/srv/corpus")
	t.Setenv("LSE_SEARCH_MAX_RESULTS", "2")
	t.Setenv("LSE_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("LSE_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Corpus.DocumentRoot != "/srv/corpus" {
		t.Errorf("Corpus.DocumentRoot = %q", cfg.Corpus.DocumentRoot)
	}
	if cfg.Search.MaxResults != 2 {
		t.Errorf("Search.MaxResults = %d, want 2", cfg.Search.MaxResults)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("Kafka.Brokers = %v", cfg.Kafka.Brokers)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
}

func TestEnvOverrideIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("LSE_SERVER_PORT", "not-a-number")
	t.Setenv("LSE_SEARCH_MAX_RESULTS", "-1")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want default 8080", cfg.Server.Port)
	}
	if cfg.Search.MaxResults != 5 {
		t.Errorf("Search.MaxResults = %d, want default 5", cfg.Search.MaxResults)
	}
}

func TestPostgresDSN(t *testing.T) {
	dsn := PostgresConfig{
		Host:     "db.local",
		Port:     5433,
		Database: "littlesearch",
		User:     "svc",
		Password: "secret",
		SSLMode:  "require",
	}.DSN()
	want := "host=db.local port=5433 user=svc password=secret dbname=littlesearch sslmode=require"
	if dsn != want {
		t.Errorf("DSN() = %q, want %q", dsn, want)
	}
}
