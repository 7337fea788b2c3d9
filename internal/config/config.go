package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string `yaml:"port"`

	// Index service connection (embedding/indexing collaborator)
	IndexURL    string `yaml:"index_url"`
	IndexAPIKey string `yaml:"index_api_key"`

	// Auth
	APIKey string `yaml:"api_key"`

	// Document locations
	DocsRoot      string `yaml:"docs_root"`
	StructuresDir string `yaml:"structures_dir"`
	ReportsDir    string `yaml:"reports_dir"`

	// Chunk size thresholds (in runes)
	MinChunkSize    int `yaml:"min_chunk_size"`
	MaxChunkSize    int `yaml:"max_chunk_size"`
	MinChunks       int `yaml:"min_chunks"`
	MinAvgChunkSize int `yaml:"min_avg_chunk_size"`

	// Queue and upload limits
	MaxQueueSize   int   `yaml:"max_queue_size"`
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// Job state
	JobTTL time.Duration `yaml:"job_ttl"`

	// Directory watcher
	WatchDebounceMs int `yaml:"watch_debounce_ms"`

	// PDF
	PDFFallbackPdftotext bool `yaml:"pdf_fallback_pdftotext"`
}

// Load builds the configuration from environment variables, optionally
// overlaid by a YAML file when NORMQA_CONFIG points at one.
func Load() (Config, error) {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		IndexURL:    envOr("INDEX_URL", "http://localhost:8080"),
		IndexAPIKey: os.Getenv("INDEX_API_KEY"),

		APIKey: os.Getenv("NORMQA_API_KEY"),

		DocsRoot:      envOr("DOCS_ROOT", "data/documents"),
		StructuresDir: envOr("STRUCTURES_DIR", "data/structures"),
		ReportsDir:    envOr("REPORTS_DIR", "data/reports"),

		MinChunkSize:    envInt("MIN_CHUNK_SIZE", 100),
		MaxChunkSize:    envInt("MAX_CHUNK_SIZE", 1500),
		MinChunks:       envInt("MIN_CHUNKS", 2),
		MinAvgChunkSize: envInt("MIN_AVG_CHUNK_SIZE", 100),

		MaxQueueSize:   envInt("MAX_QUEUE_SIZE", 100),
		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		WatchDebounceMs: envInt("WATCH_DEBOUNCE_MS", 500),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if path := os.Getenv("NORMQA_CONFIG"); path != "" {
		if err := readFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.MinChunkSize <= 0 {
		c.MinChunkSize = 100
	}
	if c.MaxChunkSize <= 0 {
		c.MaxChunkSize = 1500
	}
	if c.MinChunks <= 0 {
		c.MinChunks = 2
	}
	if c.MinAvgChunkSize <= 0 {
		c.MinAvgChunkSize = 100
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = 100
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 52428800
	}
	if c.JobTTL <= 0 {
		c.JobTTL = 1 * time.Hour
	}
	if c.WatchDebounceMs <= 0 {
		c.WatchDebounceMs = 500
	}
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("NORMQA_API_KEY is required")
	}
	if c.MinChunkSize >= c.MaxChunkSize {
		return fmt.Errorf("min_chunk_size %d must be below max_chunk_size %d", c.MinChunkSize, c.MaxChunkSize)
	}
	return nil
}

func readFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("unable to open config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("unable to parse config file: %w", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
