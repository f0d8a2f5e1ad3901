package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Search.DefaultLimit != 10 {
		t.Errorf("Search.DefaultLimit = %d, want 10", cfg.Search.DefaultLimit)
	}
	if cfg.Corpus.Source != SourceDir {
		t.Errorf("Corpus.Source = %q, want %q", cfg.Corpus.Source, SourceDir)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9999
corpus:
  source: dir
  dir: /data/corpus
redis:
  cacheTTL: 90s
search:
  defaultLimit: 5
  maxResults: 50
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Corpus.Dir != "/data/corpus" {
		t.Errorf("Corpus.Dir = %q, want /data/corpus", cfg.Corpus.Dir)
	}
	if cfg.Redis.CacheTTL != 90*time.Second {
		t.Errorf("Redis.CacheTTL = %v, want 90s", cfg.Redis.CacheTTL)
	}
	if cfg.Search.DefaultLimit != 5 || cfg.Search.MaxResults != 50 {
		t.Errorf("Search = %+v, want 5/50", cfg.Search)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("IR_SERVER_PORT", "7070")
	t.Setenv("IR_CORPUS_DIR", "/env/corpus")
	t.Setenv("IR_LOGGING_LEVEL", "debug")
	t.Setenv("IR_KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Corpus.Dir != "/env/corpus" {
		t.Errorf("Corpus.Dir = %q, want /env/corpus", cfg.Corpus.Dir)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if !cfg.Kafka.Enabled || len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("Kafka = %+v, want enabled with 2 brokers", cfg.Kafka)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "unknown corpus source",
			yaml: "corpus:\n  source: s3\n",
		},
		{
			name: "dir source without dir",
			yaml: "corpus:\n  source: dir\n  dir: \"\"\n",
		},
		{
			name: "postgres source without table",
			yaml: "corpus:\n  source: postgres\n",
		},
		{
			name: "zero max results",
			yaml: "search:\n  maxResults: 0\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.yaml)); err == nil {
				t.Error("Load succeeded, want validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load succeeded on missing file, want error")
	}
}
