package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NORMQA_CONFIG", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MinChunkSize != 100 || cfg.MaxChunkSize != 1500 {
		t.Errorf("size thresholds = %d/%d, want 100/1500", cfg.MinChunkSize, cfg.MaxChunkSize)
	}
	if cfg.MinChunks != 2 || cfg.MinAvgChunkSize != 100 {
		t.Errorf("validation thresholds = %d/%d, want 2/100", cfg.MinChunks, cfg.MinAvgChunkSize)
	}
	if cfg.Port != "8090" {
		t.Errorf("port = %q, want 8090", cfg.Port)
	}
}

func TestLoad_YAMLOverridesEnv(t *testing.T) {
	t.Setenv("MAX_CHUNK_SIZE", "2000")
	path := filepath.Join(t.TempDir(), "normqa.yaml")
	if err := os.WriteFile(path, []byte("max_chunk_size: 1200\ndocs_root: /srv/docs\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NORMQA_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxChunkSize != 1200 {
		t.Errorf("max_chunk_size = %d, want 1200 from file", cfg.MaxChunkSize)
	}
	if cfg.DocsRoot != "/srv/docs" {
		t.Errorf("docs_root = %q", cfg.DocsRoot)
	}
	// Fields absent from the file keep their env/default values.
	if cfg.MinChunkSize != 100 {
		t.Errorf("min_chunk_size = %d, want 100", cfg.MinChunkSize)
	}
}

func TestLoad_BadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte(":\n  - not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NORMQA_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{APIKey: "k", MinChunkSize: 100, MaxChunkSize: 1500}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing API key")
	}

	cfg.APIKey = "k"
	cfg.MinChunkSize = 1500
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for inverted thresholds")
	}
}
