package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no config path is given and DOCRAG_CONFIG is unset.
const DefaultFile = "docrag.yaml"

// Config holds all configuration for the application.
//
// IngestRoot, when set, is the only directory tree ingestion may read.
// CORSOrigins lists the browser origins allowed to call the API; requests
// carrying any other Origin are rejected.
type Config struct {
	DBPath            string   `yaml:"db_path"`
	OpenAIAPIKey      string   `yaml:"openai_api_key"`
	OpenAIModel       string   `yaml:"openai_model"`
	OpenAIBaseURL     string   `yaml:"openai_base_url"`
	LocalEmbeddingDim int      `yaml:"local_embedding_dim"`
	ChunkSize         int      `yaml:"chunk_size"`
	ChunkOverlap      int      `yaml:"chunk_overlap"`
	TopK              int      `yaml:"top_k"`
	IngestBatchMode   string   `yaml:"ingest_batch_mode"`
	IngestRoot        string   `yaml:"ingest_root"`
	APIHost           string   `yaml:"api_host"`
	APIPort           string   `yaml:"api_port"`
	CORSOrigins       []string `yaml:"cors_origins"`
	LogLevel          string   `yaml:"log_level"`
	LogFormat         string   `yaml:"log_format"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() *Config {
	return &Config{
		DBPath:            "data/rag.db",
		OpenAIModel:       "text-embedding-3-small",
		LocalEmbeddingDim: 256,
		ChunkSize:         512,
		ChunkOverlap:      64,
		TopK:              6,
		IngestBatchMode:   "run",
		APIHost:           "127.0.0.1",
		APIPort:           "9000",
		LogLevel:          "info",
		LogFormat:         "text",
	}
}

// Load builds a Config from defaults, an optional YAML file and the environment.
// Precedence, lowest first: defaults, YAML file, environment (.env included).
// If path is empty, DOCRAG_CONFIG is used, then ./docrag.yaml. A missing file is
// only an error when it was named explicitly. Load touches no files besides
// the ones it reads; the store creates its own directory when opened.
func Load(path string) (*Config, error) {
	loadDotEnv()

	cfg := Defaults()

	explicit := path != ""
	if !explicit {
		if p := os.Getenv("DOCRAG_CONFIG"); p != "" {
			path = p
			explicit = true
		} else {
			path = DefaultFile
		}
	}
	// A missing default file means defaults and environment only
	if err := readFile(path, cfg); err != nil && (explicit || !errors.Is(err, os.ErrNotExist)) {
		return nil, err
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all values are usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	if c.LocalEmbeddingDim <= 0 {
		return fmt.Errorf("LOCAL_EMBEDDING_DIM must be greater than 0")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be greater than 0")
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("CHUNK_OVERLAP must not be negative")
	}
	if c.TopK <= 0 {
		return fmt.Errorf("TOP_K must be greater than 0")
	}
	switch strings.ToLower(c.IngestBatchMode) {
	case "run", "file":
	default:
		return fmt.Errorf("INGEST_BATCH_MODE must be one of run, file; got %q", c.IngestBatchMode)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error; got %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be one of text, json; got %q", c.LogFormat)
	}
	if _, err := strconv.Atoi(c.APIPort); err != nil {
		return fmt.Errorf("API_PORT must be a valid integer: %w", err)
	}
	for _, origin := range c.CORSOrigins {
		if err := validateOrigin(origin); err != nil {
			return fmt.Errorf("CORS_ORIGINS: %w", err)
		}
	}
	return nil
}

// validateOrigin accepts only a bare scheme://host[:port] origin.
func validateOrigin(origin string) error {
	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("invalid origin %q: %w", origin, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("origin %q must be http(s)://host[:port]", origin)
	}
	if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" || u.User != nil {
		return fmt.Errorf("origin %q must not carry a path, query or credentials", origin)
	}
	return nil
}

// loadDotEnv loads .env from the current directory, then from the first
// parent directory that has one. Variables already set are not overwritten.
func loadDotEnv() {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ { // Limit search depth
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return // Reached filesystem root
		}
		dir = parent
	}
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.OpenAIModel = getEnv("OPENAI_MODEL", cfg.OpenAIModel)
	cfg.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", cfg.OpenAIBaseURL)
	cfg.IngestBatchMode = getEnv("INGEST_BATCH_MODE", cfg.IngestBatchMode)
	cfg.IngestRoot = getEnv("INGEST_ROOT", cfg.IngestRoot)
	cfg.APIHost = getEnv("API_HOST", cfg.APIHost)
	cfg.APIPort = getEnv("API_PORT", cfg.APIPort)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)

	ints := []struct {
		key string
		dst *int
	}{
		{"LOCAL_EMBEDDING_DIM", &cfg.LocalEmbeddingDim},
		{"CHUNK_SIZE", &cfg.ChunkSize},
		{"CHUNK_OVERLAP", &cfg.ChunkOverlap},
		{"TOP_K", &cfg.TopK},
	}
	for _, f := range ints {
		v := os.Getenv(f.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be a valid integer: %w", f.key, err)
		}
		*f.dst = n
	}
	return nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
