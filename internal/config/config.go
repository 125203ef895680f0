// Package config provides configuration loading and structs for the advisor server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	App       AppConfig       `yaml:"app"`
	Server    ServerConfig    `yaml:"server"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	LLM       LLMConfig       `yaml:"llm"`
}

// AppConfig holds the strings reported by the liveness endpoint.
type AppConfig struct {
	Title   string `yaml:"title"`
	Message string `yaml:"message"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

// CorpusConfig describes where the Markdown corpus lives.
type CorpusConfig struct {
	Directory  string   `yaml:"directory"`
	Extensions []string `yaml:"extensions"`
}

// ChunkingConfig holds the chunk window in runes. ChunkOverlap is a pointer so
// an explicit 0 is distinguishable from unset.
type ChunkingConfig struct {
	ChunkSize    int  `yaml:"chunk_size"`
	ChunkOverlap *int `yaml:"chunk_overlap"`
}

// DefaultChunkOverlap is used when chunk_overlap is unset.
const DefaultChunkOverlap = 100

// OverlapOrDefault returns the configured overlap; defaults to DefaultChunkOverlap when unset.
func (c *ChunkingConfig) OverlapOrDefault() int {
	if c.ChunkOverlap != nil {
		return *c.ChunkOverlap
	}
	return DefaultChunkOverlap
}

// EmbeddingConfig selects and configures the sentence embedder.
type EmbeddingConfig struct {
	Backend      string `yaml:"backend"`
	ModelName    string `yaml:"model_name"`
	ModelDir     string `yaml:"model_dir"`
	OnnxFilePath string `yaml:"onnx_file_path"`
	Dimensions   int    `yaml:"dimensions"`
	CacheSize    int    `yaml:"cache_size"`
}

// RetrievalConfig holds vector retrieval settings.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// LLMConfig configures the answer generator. The API key itself is never stored
// here; APIKeyEnv names the environment variable that carries it.
type LLMConfig struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	APIKeyEnv   string        `yaml:"api_key_env"`
	Timeout     time.Duration `yaml:"timeout"`
	Temperature *float32      `yaml:"temperature,omitempty"`
}

// Embedding backends.
const (
	BackendHugot = "hugot"
	BackendHash  = "hash"
)

// APIKey returns the LLM credential from the environment, or "" when unset.
func (l *LLMConfig) APIKey() string {
	return strings.TrimSpace(os.Getenv(l.APIKeyEnv))
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Corpus.Directory = expandPath(cfg.Corpus.Directory, configDir)
	cfg.Embedding.ModelDir = expandPath(cfg.Embedding.ModelDir, configDir)

	return &cfg, nil
}

// LoadOrDefault behaves like Load but returns defaults when path does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate reports settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Chunking.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.Chunking.ChunkSize)
	}
	if overlap := c.Chunking.OverlapOrDefault(); overlap < 0 || overlap >= c.Chunking.ChunkSize {
		return fmt.Errorf("chunk_overlap must be in [0, chunk_size), got %d", overlap)
	}
	switch c.Embedding.Backend {
	case BackendHugot, BackendHash:
	default:
		return fmt.Errorf("unknown embedding backend: %s (supported: hugot, hash)", c.Embedding.Backend)
	}
	if c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("embedding dimensions must be positive, got %d", c.Embedding.Dimensions)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", c.Retrieval.TopK)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	return nil
}

// Addr returns host:port for the HTTP listener.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// expandPath resolves paths starting with "./" against configDir and "~/" against
// the home directory. Other relative paths stay relative to the working directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
