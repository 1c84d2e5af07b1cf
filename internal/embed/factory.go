package embed

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/findablescore/auditor/internal/config"
)

// ProviderType represents an embedding provider.
type ProviderType string

const (
	// ProviderOllama uses a local Ollama server for BGE-family embeddings.
	ProviderOllama ProviderType = "ollama"

	// ProviderStatic uses hash-based embeddings: no network, fully
	// deterministic, the default for tests and offline runs.
	ProviderStatic ProviderType = "static"
)

// NewEmbedder builds the Run's embedder from cfg, honoring the
// AUDITOR_EMBEDDER environment variable as a highest-priority override
// (matching the project's AUDITOR_* env var convention used elsewhere in
// internal/config). The result is always wrapped in a CachedEmbedder so
// repeated chunk content and repeated queries within a Run reuse vectors.
func NewEmbedder(ctx context.Context, cfg config.EmbeddingsConfig) (Embedder, error) {
	provider := ParseProvider(cfg.Provider)
	if envProvider := os.Getenv("AUDITOR_EMBEDDER"); envProvider != "" {
		provider = ParseProvider(envProvider)
	}

	var embedder Embedder
	var err error

	switch provider {
	case ProviderOllama:
		embedder, err = newOllamaEmbedder(ctx, cfg)
	default:
		embedder, err = newStaticEmbedder(cfg), nil
	}
	if err != nil {
		return nil, err
	}

	cacheSize := cfg.CacheSize
	if cacheSize <= 0 {
		cacheSize = DefaultEmbeddingCacheSize
	}
	return NewCachedEmbedder(embedder, cacheSize), nil
}

func newStaticEmbedder(cfg config.EmbeddingsConfig) Embedder {
	if cfg.Dimensions == Static768Dimensions {
		return NewStaticEmbedder768()
	}
	return NewStaticEmbedder()
}

func newOllamaEmbedder(ctx context.Context, cfg config.EmbeddingsConfig) (Embedder, error) {
	ollamaCfg := DefaultOllamaConfig()

	if cfg.Model != "" {
		ollamaCfg.Model = cfg.Model
	}
	if cfg.Dimensions > 0 {
		ollamaCfg.Dimensions = cfg.Dimensions
	}
	if cfg.BatchSize > 0 {
		ollamaCfg.BatchSize = cfg.BatchSize
	}

	if host := os.Getenv("AUDITOR_OLLAMA_HOST"); host != "" {
		ollamaCfg.Host = host
	}
	if model := os.Getenv("AUDITOR_OLLAMA_MODEL"); model != "" {
		ollamaCfg.Model = model
	}

	embedder, err := NewOllamaEmbedder(ctx, ollamaCfg)
	if err != nil {
		return nil, fmt.Errorf("ollama embedder unavailable: %w\n\nstart Ollama (ollama serve) and pull %s, or set embeddings.provider: static in config", err, ollamaCfg.Model)
	}
	return embedder, nil
}

// ParseProvider converts a string to ProviderType, defaulting to static
// (the zero-dependency, always-available choice) for anything unrecognized.
func ParseProvider(s string) ProviderType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ollama":
		return ProviderOllama
	case "static", "":
		return ProviderStatic
	default:
		return ProviderStatic
	}
}

// String returns the string representation of ProviderType.
func (p ProviderType) String() string {
	return string(p)
}

// ValidProviders returns all valid provider names.
func ValidProviders() []string {
	return []string{string(ProviderOllama), string(ProviderStatic)}
}

// IsValidProvider checks if a provider name is valid.
func IsValidProvider(s string) bool {
	lower := strings.ToLower(s)
	for _, p := range ValidProviders() {
		if lower == p {
			return true
		}
	}
	return false
}

// EmbedderInfo describes a constructed embedder for diagnostics/logging.
type EmbedderInfo struct {
	Provider   ProviderType
	Model      string
	Dimensions int
	Available  bool
}

// GetInfo returns information about an embedder, unwrapping a
// CachedEmbedder to report the real backing provider.
func GetInfo(ctx context.Context, embedder Embedder) EmbedderInfo {
	info := EmbedderInfo{
		Model:      embedder.ModelName(),
		Dimensions: embedder.Dimensions(),
		Available:  embedder.Available(ctx),
	}

	inner := embedder
	if cached, ok := embedder.(*CachedEmbedder); ok {
		inner = cached.Inner()
	}

	switch inner.(type) {
	case *OllamaEmbedder:
		info.Provider = ProviderOllama
	default:
		info.Provider = ProviderStatic
	}

	return info
}

// MustNewEmbedder creates an embedder and panics on failure. Use only in
// tests or initialization code where failure is fatal.
func MustNewEmbedder(ctx context.Context, cfg config.EmbeddingsConfig) Embedder {
	embedder, err := NewEmbedder(ctx, cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to create embedder: %v", err))
	}
	return embedder
}
