package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the redraft API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Chunking   ChunkingConfig   `yaml:"chunking"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Cascade    CascadeConfig    `yaml:"cascade"`
	Auth       AuthConfig       `yaml:"auth"`
	Storage    StorageConfig    `yaml:"storage"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings. An empty Addrs list
// means no persistence: the corpus lives in memory only.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// EmbeddingConfig holds embedding provider settings. An empty APIKey means
// no dense engine: semantic chunking and dense retrieval degrade to their
// documented fallbacks.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// GenerationConfig holds the generative rewrite provider settings. An empty
// APIKey disables the generative cascade stage.
type GenerationConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	TimeoutSec  int     `yaml:"timeout_sec"`
}

// ChunkingConfig holds chunking strategy parameters. Semantic boundary
// constants are hand-tuned heuristics, exposed here rather than hard-coded.
type ChunkingConfig struct {
	Method      string `yaml:"method"` // adaptive, fixed, sentence, paragraph, semantic
	ChunkSize   int    `yaml:"chunk_size"`
	OverlapSize int    `yaml:"overlap_size"`
	TargetSize  int    `yaml:"target_size"`
	// SemanticSimilarityThreshold: adjacent-sentence cosine below this may
	// open a boundary once the chunk passes SemanticMinFactor of target size.
	SemanticSimilarityThreshold float64 `yaml:"semantic_similarity_threshold"`
	SemanticMinFactor           float64 `yaml:"semantic_min_factor"`
	SemanticMaxFactor           float64 `yaml:"semantic_max_factor"`
}

// RetrievalConfig holds hybrid retrieval parameters.
type RetrievalConfig struct {
	WeightDense  float64 `yaml:"weight_dense"`
	WeightSparse float64 `yaml:"weight_sparse"`
	// PoolMultiplier enlarges per-engine candidate pools before fusion or
	// post-filtering so the final top-k is not under-filled.
	PoolMultiplier int `yaml:"pool_multiplier"`
}

// CascadeConfig holds the suggestion cascade thresholds.
type CascadeConfig struct {
	HighThreshold   float64 `yaml:"high_threshold"`
	MediumThreshold float64 `yaml:"medium_threshold"`
	// ExtendedThreshold is the (lower) acceptance bar for the wider keyword
	// search stage.
	ExtendedThreshold float64 `yaml:"extended_threshold"`
	MaxContextDocs    int     `yaml:"max_context_docs"`
	// LengthSlackWords is how many words a suggestion may exceed the
	// original by before it is treated as a generation run-on.
	LengthSlackWords int `yaml:"length_slack_words"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "redraft:"
	}
	if c.Embedding.TimeoutSec <= 0 {
		c.Embedding.TimeoutSec = 15
	}
	if c.Generation.TimeoutSec <= 0 {
		c.Generation.TimeoutSec = 30
	}
	if c.Chunking.Method == "" {
		c.Chunking.Method = "adaptive"
	}
	if c.Chunking.ChunkSize <= 0 {
		c.Chunking.ChunkSize = 500
	}
	if c.Chunking.OverlapSize < 0 {
		c.Chunking.OverlapSize = 0
	}
	if c.Chunking.TargetSize <= 0 {
		c.Chunking.TargetSize = 600
	}
	if c.Chunking.SemanticSimilarityThreshold <= 0 {
		c.Chunking.SemanticSimilarityThreshold = 0.6
	}
	if c.Chunking.SemanticMinFactor <= 0 {
		c.Chunking.SemanticMinFactor = 0.5
	}
	if c.Chunking.SemanticMaxFactor <= 0 {
		c.Chunking.SemanticMaxFactor = 1.5
	}
	if c.Retrieval.WeightDense <= 0 && c.Retrieval.WeightSparse <= 0 {
		c.Retrieval.WeightDense = 0.7
		c.Retrieval.WeightSparse = 0.3
	}
	if c.Retrieval.PoolMultiplier <= 0 {
		c.Retrieval.PoolMultiplier = 2
	}
	if c.Cascade.HighThreshold <= 0 {
		c.Cascade.HighThreshold = 0.75
	}
	if c.Cascade.MediumThreshold <= 0 {
		c.Cascade.MediumThreshold = 0.5
	}
	if c.Cascade.ExtendedThreshold <= 0 {
		c.Cascade.ExtendedThreshold = 0.4
	}
	if c.Cascade.MaxContextDocs <= 0 {
		c.Cascade.MaxContextDocs = 5
	}
	if c.Cascade.LengthSlackWords <= 0 {
		c.Cascade.LengthSlackWords = 15
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Chunking.OverlapSize >= c.Chunking.ChunkSize {
		return fmt.Errorf(
			"chunking.overlap_size (%d) must be smaller than chunking.chunk_size (%d)",
			c.Chunking.OverlapSize, c.Chunking.ChunkSize,
		)
	}
	switch c.Chunking.Method {
	case "adaptive", "fixed", "sentence", "paragraph", "semantic":
	default:
		return fmt.Errorf("unknown chunking.method %q", c.Chunking.Method)
	}
	if c.Chunking.SemanticMinFactor >= c.Chunking.SemanticMaxFactor {
		return fmt.Errorf(
			"chunking.semantic_min_factor (%g) must be below semantic_max_factor (%g)",
			c.Chunking.SemanticMinFactor, c.Chunking.SemanticMaxFactor,
		)
	}
	if c.Cascade.MediumThreshold > c.Cascade.HighThreshold {
		return fmt.Errorf(
			"cascade.medium_threshold (%g) must not exceed high_threshold (%g)",
			c.Cascade.MediumThreshold, c.Cascade.HighThreshold,
		)
	}
	if c.Cascade.ExtendedThreshold > c.Cascade.MediumThreshold {
		return fmt.Errorf(
			"cascade.extended_threshold (%g) must not exceed medium_threshold (%g)",
			c.Cascade.ExtendedThreshold, c.Cascade.MediumThreshold,
		)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
