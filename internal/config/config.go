package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete auditor configuration, covering crawl
// bounds, the embedding/retrieval stack, question generation, and the
// calibration loop's tuning knobs.
type Config struct {
	Version    int              `yaml:"version" json:"version"`
	Crawl      CrawlConfig      `yaml:"crawl" json:"crawl"`
	Fetch      FetchConfig      `yaml:"fetch" json:"fetch"`
	Chunk      ChunkConfig      `yaml:"chunk" json:"chunk"`
	Embeddings EmbeddingsConfig `yaml:"embeddings" json:"embeddings"`
	Retrieval  RetrievalConfig  `yaml:"retrieval" json:"retrieval"`
	Question   QuestionConfig   `yaml:"question" json:"question"`
	Scoring    ScoringConfig    `yaml:"scoring" json:"scoring"`
	Server     ServerConfig     `yaml:"server" json:"server"`
	Store      StoreConfig      `yaml:"store" json:"store"`
}

// CrawlConfig bounds a single Run's crawl.
type CrawlConfig struct {
	MaxPages      int      `yaml:"max_pages" json:"max_pages"`
	MaxDepth      int      `yaml:"max_depth" json:"max_depth"`
	Concurrency   int      `yaml:"concurrency" json:"concurrency"`
	UserAgent     string   `yaml:"user_agent" json:"user_agent"`
	RespectRobots bool     `yaml:"respect_robots" json:"respect_robots"`
	PriorityPaths []string `yaml:"priority_paths" json:"priority_paths"`
}

// FetchConfig configures the bounded HTTP client shared by the crawler
// and robots.txt fetcher.
type FetchConfig struct {
	TimeoutSeconds    int     `yaml:"timeout_seconds" json:"timeout_seconds"`
	MaxRetries        int     `yaml:"max_retries" json:"max_retries"`
	RateLimitRPS      float64 `yaml:"rate_limit_rps" json:"rate_limit_rps"`
	RateLimitBurst    int     `yaml:"rate_limit_burst" json:"rate_limit_burst"`
	MaxBodyBytes      int64   `yaml:"max_body_bytes" json:"max_body_bytes"`
}

// ChunkConfig bounds the semantic chunker's token targets.
type ChunkConfig struct {
	MinTokens     int `yaml:"min_tokens" json:"min_tokens"`
	MaxTokens     int `yaml:"max_tokens" json:"max_tokens"`
	OverlapTokens int `yaml:"overlap_tokens" json:"overlap_tokens"`
}

// EmbeddingsConfig configures the embedding provider.
type EmbeddingsConfig struct {
	Provider   string `yaml:"provider" json:"provider"`
	Model      string `yaml:"model" json:"model"`
	Dimensions int    `yaml:"dimensions" json:"dimensions"`
	BatchSize  int    `yaml:"batch_size" json:"batch_size"`
	CacheSize  int    `yaml:"cache_size" json:"cache_size"`

	// ModelDownloadTimeout bounds how long the model-backed embedder
	// waits for a one-time weights download before falling back.
	ModelDownloadTimeout time.Duration `yaml:"model_download_timeout" json:"model_download_timeout"`
}

// RetrievalConfig configures hybrid BM25+vector retrieval and RRF fusion.
// Weights and the RRF constant are configurable via:
//  1. User config (~/.config/findablescore/config.yaml) - personal defaults
//  2. Project config (.findablescore.yaml) - per-site tuning
//  3. Env vars (AUDITOR_BM25_WEIGHT, AUDITOR_VECTOR_WEIGHT, AUDITOR_RRF_CONSTANT) - highest precedence
type RetrievalConfig struct {
	// BM25Weight is the fusion weight for lexical matches (0.0-1.0).
	// Must sum to 1.0 with VectorWeight.
	BM25Weight float64 `yaml:"bm25_weight" json:"bm25_weight"`
	// VectorWeight is the fusion weight for semantic matches (0.0-1.0).
	// Must sum to 1.0 with BM25Weight.
	VectorWeight float64 `yaml:"vector_weight" json:"vector_weight"`
	// RRFConstant is the RRF fusion smoothing parameter (k).
	// Default: 60 (industry standard used by Azure AI Search, OpenSearch).
	RRFConstant int `yaml:"rrf_constant" json:"rrf_constant"`
	// BM25K1 and BM25B are the BM25 term-frequency saturation and length
	// normalization parameters.
	BM25K1 float64 `yaml:"bm25_k1" json:"bm25_k1"`
	BM25B  float64 `yaml:"bm25_b" json:"bm25_b"`
	// TopK is how many fused chunks feed a single question's simulation.
	TopK int `yaml:"top_k" json:"top_k"`
	// PerPageCap bounds how many chunks from the same page may appear in
	// one question's retrieved set, so one long page can't dominate.
	PerPageCap int `yaml:"per_page_cap" json:"per_page_cap"`
	// VectorIndexBruteForceThreshold is the corpus size below which the
	// vector index answers queries by brute-force cosine scan instead of
	// building an HNSW graph.
	VectorIndexBruteForceThreshold int `yaml:"vector_index_brute_force_threshold" json:"vector_index_brute_force_threshold"`
}

// QuestionConfig bounds the per-Run question suite.
type QuestionConfig struct {
	MaxDerived     int `yaml:"max_derived" json:"max_derived"`
	MaxCustom      int `yaml:"max_custom" json:"max_custom"`
	BudgetTokens   int `yaml:"budget_tokens" json:"budget_tokens"`
}

// ScoringConfig holds the active pillar weights and progress thresholds
// used by the score calculator, independent of the calibration loop's
// historical samples.
type ScoringConfig struct {
	Weights              map[string]float64 `yaml:"weights" json:"weights"`
	FullyAnswerable       float64            `yaml:"fully_answerable_threshold" json:"fully_answerable_threshold"`
	PartiallyAnswerable   float64            `yaml:"partially_answerable_threshold" json:"partially_answerable_threshold"`
	SignalMatchThreshold  float64            `yaml:"signal_match_threshold" json:"signal_match_threshold"`
}

// ServerConfig configures ambient logging/runtime behavior.
type ServerConfig struct {
	LogLevel string `yaml:"log_level" json:"log_level"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// StoreConfig configures the persistence backend used by cmd/auditctl.
type StoreConfig struct {
	// Driver selects the Store implementation: "sqlite" (default) or "memory".
	Driver string `yaml:"driver" json:"driver"`
	// DSN is the sqlite database path when Driver is "sqlite".
	DSN string `yaml:"dsn" json:"dsn"`
}

// defaultPriorityPaths are crawled first, before breadth-first frontier
// expansion, since they are disproportionately likely to carry the
// structured signals the pillar analyzers look for.
var defaultPriorityPaths = []string{
	"/",
	"/about",
	"/pricing",
	"/faq",
	"/docs",
	"/blog",
	"/contact",
}

// NewConfig creates a new Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Crawl: CrawlConfig{
			MaxPages:      250,
			MaxDepth:      3,
			Concurrency:   defaultConcurrency(),
			UserAgent:     "FindableScoreBot/1.0 (+https://findablescore.example/bot)",
			RespectRobots: true,
			PriorityPaths: defaultPriorityPaths,
		},
		Fetch: FetchConfig{
			TimeoutSeconds: 15,
			MaxRetries:     3,
			RateLimitRPS:   2.0,
			RateLimitBurst: 4,
			MaxBodyBytes:   5 << 20, // 5 MiB
		},
		Chunk: ChunkConfig{
			MinTokens:     100,
			MaxTokens:     512,
			OverlapTokens: 50,
		},
		Embeddings: EmbeddingsConfig{
			Provider:             "static", // static is the zero-dependency default; Validate accepts only "static" or "ollama"
			Model:                "findable-embed-v1",
			Dimensions:           256,
			BatchSize:            32,
			CacheSize:            4096,
			ModelDownloadTimeout: 10 * time.Minute,
		},
		Retrieval: RetrievalConfig{
			BM25Weight:                      0.5,
			VectorWeight:                    0.5,
			RRFConstant:                     60,
			BM25K1:                          1.5,
			BM25B:                           0.75,
			TopK:                            7,
			PerPageCap:                      2,
			VectorIndexBruteForceThreshold:  500,
		},
		Question: QuestionConfig{
			MaxDerived:   5,
			MaxCustom:    5,
			BudgetTokens: 6000,
		},
		Scoring: ScoringConfig{
			Weights: map[string]float64{
				"technical":           15,
				"structure":           20,
				"schema":              15,
				"authority":           15,
				"retrieval":           25,
				"coverage":            10,
				"entity_recognition":  0,
			},
			FullyAnswerable:      0.5,
			PartiallyAnswerable:  0.15,
			SignalMatchThreshold: 0.6,
		},
		Server: ServerConfig{
			LogLevel: "info",
			Debug:    false,
		},
		Store: StoreConfig{
			Driver: "sqlite",
			DSN:    defaultStorePath(),
		},
	}
}

// defaultStorePath returns the default sqlite database path.
func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".findablescore", "auditor.db")
	}
	return filepath.Join(home, ".findablescore", "auditor.db")
}

// GetUserConfigPath returns the path to the user/global configuration file.
// It follows XDG Base Directory specification:
//   - $XDG_CONFIG_HOME/findablescore/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/findablescore/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "findablescore", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "findablescore", "config.yaml")
	}
	return filepath.Join(home, ".config", "findablescore", "config.yaml")
}

// GetUserConfigDir returns the directory containing the user configuration.
func GetUserConfigDir() string {
	return filepath.Dir(GetUserConfigPath())
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// loadUserConfig loads the user/global configuration file if it exists.
// Returns nil config and nil error if the file doesn't exist (that's OK).
func loadUserConfig() (*Config, error) {
	configPath := GetUserConfigPath()

	if !fileExists(configPath) {
		return nil, nil
	}

	cfg := NewConfig()
	if err := cfg.loadYAML(configPath); err != nil {
		return nil, fmt.Errorf("failed to load user config from %s: %w", configPath, err)
	}

	return cfg, nil
}

// Load loads configuration from the specified directory.
// It applies configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User/global config (~/.config/findablescore/config.yaml)
//  3. Project config (.findablescore.yaml in the given directory)
//  4. Environment variables (AUDITOR_*)
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if userCfg, err := loadUserConfig(); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	} else if userCfg != nil {
		cfg.mergeWith(userCfg)
	}

	if err := cfg.loadFromFile(dir); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadFromFile attempts to load configuration from .findablescore.yaml or
// .findablescore.yml.
func (c *Config) loadFromFile(dir string) error {
	yamlPath := filepath.Join(dir, ".findablescore.yaml")
	if _, err := os.Stat(yamlPath); err == nil {
		return c.loadYAML(yamlPath)
	}

	ymlPath := filepath.Join(dir, ".findablescore.yml")
	if _, err := os.Stat(ymlPath); err == nil {
		return c.loadYAML(ymlPath)
	}

	return nil
}

// loadYAML loads and merges configuration from a YAML file.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	// Crawl
	if other.Crawl.MaxPages != 0 {
		c.Crawl.MaxPages = other.Crawl.MaxPages
	}
	if other.Crawl.MaxDepth != 0 {
		c.Crawl.MaxDepth = other.Crawl.MaxDepth
	}
	if other.Crawl.Concurrency != 0 {
		c.Crawl.Concurrency = other.Crawl.Concurrency
	}
	if other.Crawl.UserAgent != "" {
		c.Crawl.UserAgent = other.Crawl.UserAgent
	}
	if len(other.Crawl.PriorityPaths) > 0 {
		c.Crawl.PriorityPaths = other.Crawl.PriorityPaths
	}

	// Fetch
	if other.Fetch.TimeoutSeconds != 0 {
		c.Fetch.TimeoutSeconds = other.Fetch.TimeoutSeconds
	}
	if other.Fetch.MaxRetries != 0 {
		c.Fetch.MaxRetries = other.Fetch.MaxRetries
	}
	if other.Fetch.RateLimitRPS != 0 {
		c.Fetch.RateLimitRPS = other.Fetch.RateLimitRPS
	}
	if other.Fetch.RateLimitBurst != 0 {
		c.Fetch.RateLimitBurst = other.Fetch.RateLimitBurst
	}
	if other.Fetch.MaxBodyBytes != 0 {
		c.Fetch.MaxBodyBytes = other.Fetch.MaxBodyBytes
	}

	// Chunk
	if other.Chunk.MinTokens != 0 {
		c.Chunk.MinTokens = other.Chunk.MinTokens
	}
	if other.Chunk.MaxTokens != 0 {
		c.Chunk.MaxTokens = other.Chunk.MaxTokens
	}
	if other.Chunk.OverlapTokens != 0 {
		c.Chunk.OverlapTokens = other.Chunk.OverlapTokens
	}

	// Embeddings
	if other.Embeddings.Provider != "" {
		c.Embeddings.Provider = other.Embeddings.Provider
	}
	if other.Embeddings.Model != "" {
		c.Embeddings.Model = other.Embeddings.Model
	}
	if other.Embeddings.Dimensions != 0 {
		c.Embeddings.Dimensions = other.Embeddings.Dimensions
	}
	if other.Embeddings.BatchSize != 0 {
		c.Embeddings.BatchSize = other.Embeddings.BatchSize
	}
	if other.Embeddings.CacheSize != 0 {
		c.Embeddings.CacheSize = other.Embeddings.CacheSize
	}
	if other.Embeddings.ModelDownloadTimeout != 0 {
		c.Embeddings.ModelDownloadTimeout = other.Embeddings.ModelDownloadTimeout
	}

	// Retrieval
	if other.Retrieval.BM25Weight != 0 {
		c.Retrieval.BM25Weight = other.Retrieval.BM25Weight
	}
	if other.Retrieval.VectorWeight != 0 {
		c.Retrieval.VectorWeight = other.Retrieval.VectorWeight
	}
	if other.Retrieval.RRFConstant != 0 {
		c.Retrieval.RRFConstant = other.Retrieval.RRFConstant
	}
	if other.Retrieval.BM25K1 != 0 {
		c.Retrieval.BM25K1 = other.Retrieval.BM25K1
	}
	if other.Retrieval.BM25B != 0 {
		c.Retrieval.BM25B = other.Retrieval.BM25B
	}
	if other.Retrieval.TopK != 0 {
		c.Retrieval.TopK = other.Retrieval.TopK
	}
	if other.Retrieval.PerPageCap != 0 {
		c.Retrieval.PerPageCap = other.Retrieval.PerPageCap
	}
	if other.Retrieval.VectorIndexBruteForceThreshold != 0 {
		c.Retrieval.VectorIndexBruteForceThreshold = other.Retrieval.VectorIndexBruteForceThreshold
	}

	// Question
	if other.Question.MaxDerived != 0 {
		c.Question.MaxDerived = other.Question.MaxDerived
	}
	if other.Question.MaxCustom != 0 {
		c.Question.MaxCustom = other.Question.MaxCustom
	}
	if other.Question.BudgetTokens != 0 {
		c.Question.BudgetTokens = other.Question.BudgetTokens
	}

	// Scoring
	if len(other.Scoring.Weights) > 0 {
		c.Scoring.Weights = other.Scoring.Weights
	}
	if other.Scoring.FullyAnswerable != 0 {
		c.Scoring.FullyAnswerable = other.Scoring.FullyAnswerable
	}
	if other.Scoring.PartiallyAnswerable != 0 {
		c.Scoring.PartiallyAnswerable = other.Scoring.PartiallyAnswerable
	}
	if other.Scoring.SignalMatchThreshold != 0 {
		c.Scoring.SignalMatchThreshold = other.Scoring.SignalMatchThreshold
	}

	// Server
	if other.Server.LogLevel != "" {
		c.Server.LogLevel = other.Server.LogLevel
	}
	if other.Server.Debug {
		c.Server.Debug = other.Server.Debug
	}

	// Store
	if other.Store.Driver != "" {
		c.Store.Driver = other.Store.Driver
	}
	if other.Store.DSN != "" {
		c.Store.DSN = other.Store.DSN
	}
}

// applyEnvOverrides applies AUDITOR_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("AUDITOR_BM25_WEIGHT"); v != "" {
		if w, err := parseFloat64(v); err == nil && w >= 0 && w <= 1 {
			c.Retrieval.BM25Weight = w
		}
	}
	if v := os.Getenv("AUDITOR_VECTOR_WEIGHT"); v != "" {
		if w, err := parseFloat64(v); err == nil && w >= 0 && w <= 1 {
			c.Retrieval.VectorWeight = w
		}
	}
	if v := os.Getenv("AUDITOR_RRF_CONSTANT"); v != "" {
		if k, err := strconv.Atoi(v); err == nil && k > 0 {
			c.Retrieval.RRFConstant = k
		}
	}
	if v := os.Getenv("AUDITOR_MAX_PAGES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Crawl.MaxPages = n
		}
	}
	if v := os.Getenv("AUDITOR_EMBEDDINGS_PROVIDER"); v != "" {
		c.Embeddings.Provider = v
	}
	if v := os.Getenv("AUDITOR_EMBEDDINGS_MODEL"); v != "" {
		c.Embeddings.Model = v
	}
	if v := os.Getenv("AUDITOR_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
	if v := os.Getenv("AUDITOR_DEBUG"); v != "" {
		c.Server.Debug = strings.ToLower(v) == "true" || v == "1"
	}
	if v := os.Getenv("AUDITOR_STORE_DSN"); v != "" {
		c.Store.DSN = v
	}
}

// parseFloat64 parses a string to float64, used for config parsing.
func parseFloat64(s string) (float64, error) {
	var f float64
	_, err := fmt.Sscanf(strings.TrimSpace(s), "%f", &f)
	return f, err
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Retrieval.BM25Weight < 0 || c.Retrieval.BM25Weight > 1 {
		return fmt.Errorf("retrieval.bm25_weight must be between 0 and 1, got %f", c.Retrieval.BM25Weight)
	}
	if c.Retrieval.VectorWeight < 0 || c.Retrieval.VectorWeight > 1 {
		return fmt.Errorf("retrieval.vector_weight must be between 0 and 1, got %f", c.Retrieval.VectorWeight)
	}
	sum := c.Retrieval.BM25Weight + c.Retrieval.VectorWeight
	if math.Abs(sum-1.0) > 0.01 {
		return fmt.Errorf("retrieval.bm25_weight + retrieval.vector_weight must equal 1.0, got %.2f", sum)
	}

	if c.Crawl.MaxPages <= 0 {
		return fmt.Errorf("crawl.max_pages must be positive, got %d", c.Crawl.MaxPages)
	}
	if c.Crawl.MaxDepth < 0 {
		return fmt.Errorf("crawl.max_depth must be non-negative, got %d", c.Crawl.MaxDepth)
	}
	if c.Crawl.Concurrency <= 0 {
		return fmt.Errorf("crawl.concurrency must be positive, got %d", c.Crawl.Concurrency)
	}

	if c.Chunk.MinTokens <= 0 || c.Chunk.MaxTokens <= 0 || c.Chunk.MinTokens > c.Chunk.MaxTokens {
		return fmt.Errorf("chunk.min_tokens/max_tokens must be positive and min <= max, got %d/%d", c.Chunk.MinTokens, c.Chunk.MaxTokens)
	}

	validProviders := map[string]bool{"static": true, "ollama": true}
	if !validProviders[strings.ToLower(c.Embeddings.Provider)] {
		return fmt.Errorf("embeddings.provider must be 'static' or 'ollama', got %s", c.Embeddings.Provider)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Server.LogLevel)] {
		return fmt.Errorf("server.log_level must be 'debug', 'info', 'warn', or 'error', got %s", c.Server.LogLevel)
	}

	validDrivers := map[string]bool{"sqlite": true, "memory": true}
	if !validDrivers[strings.ToLower(c.Store.Driver)] {
		return fmt.Errorf("store.driver must be 'sqlite' or 'memory', got %s", c.Store.Driver)
	}

	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadUserConfig loads the user configuration file.
// Returns nil config and nil error if the file doesn't exist.
func LoadUserConfig() (*Config, error) {
	return loadUserConfig()
}

// defaultConcurrency returns a sensible crawl concurrency for the host.
func defaultConcurrency() int {
	n := runtime.NumCPU()
	if n > 8 {
		return 8
	}
	if n < 2 {
		return 2
	}
	return n
}
