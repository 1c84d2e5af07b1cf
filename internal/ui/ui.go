// Package ui provides terminal progress and status display for a Run.
package ui

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

// Stage represents a pipeline stage of a Run.
type Stage int

const (
	// StageCrawl is the crawl and extraction stage.
	StageCrawl Stage = iota
	// StageChunk is the semantic chunking stage.
	StageChunk
	// StageEmbed is the embedding generation stage.
	StageEmbed
	// StageSimulate is the question-simulation stage.
	StageSimulate
	// StageScore is the pillar scoring and fix generation stage.
	StageScore
	// StageComplete indicates the Run is complete.
	StageComplete
)

// String returns the human-readable stage name.
func (s Stage) String() string {
	switch s {
	case StageCrawl:
		return "Crawling"
	case StageChunk:
		return "Chunking"
	case StageEmbed:
		return "Embedding"
	case StageSimulate:
		return "Simulating"
	case StageScore:
		return "Scoring"
	case StageComplete:
		return "Complete"
	default:
		return "Unknown"
	}
}

// Icon returns the short stage label for plain text output.
func (s Stage) Icon() string {
	switch s {
	case StageCrawl:
		return "CRAWL"
	case StageChunk:
		return "CHUNK"
	case StageEmbed:
		return "EMBED"
	case StageSimulate:
		return "SIM"
	case StageScore:
		return "SCORE"
	case StageComplete:
		return "DONE"
	default:
		return "???"
	}
}

// ProgressEvent represents a progress update.
type ProgressEvent struct {
	Stage       Stage
	Current     int
	Total       int
	CurrentFile string // the page URL being processed, for crawl/chunk/embed stages
	Message     string
}

// ErrorEvent represents an error encountered during a Run.
type ErrorEvent struct {
	File   string // the page URL the error occurred on, if any
	Err    error
	IsWarn bool
}

// StageTimings tracks duration for each pipeline stage.
type StageTimings struct {
	Crawl    time.Duration
	Chunk    time.Duration
	Embed    time.Duration
	Simulate time.Duration
	Score    time.Duration
}

// EmbedderInfo contains embedder backend details.
type EmbedderInfo struct {
	Backend    string // "ollama" or "static"
	Model      string
	Dimensions int
}

// CompletionStats contains final Run statistics.
type CompletionStats struct {
	Pages     int
	Chunks    int
	Questions int
	Duration  time.Duration
	Errors    int
	Warnings  int
	Stages    StageTimings
	Embedder  EmbedderInfo
}

// Renderer defines the interface for progress display.
type Renderer interface {
	// Start initializes the renderer.
	Start(ctx context.Context) error

	// UpdateProgress updates progress display.
	UpdateProgress(event ProgressEvent)

	// AddError adds an error to display.
	AddError(event ErrorEvent)

	// Complete marks rendering as complete with summary.
	Complete(stats CompletionStats)

	// Stop stops the renderer and cleans up.
	Stop() error
}

// Config configures the UI renderer.
type Config struct {
	Output     io.Writer
	ForcePlain bool
	NoColor    bool
}

// ConfigOption is a function that modifies Config.
type ConfigOption func(*Config)

// WithForcePlain forces plain text output.
func WithForcePlain(force bool) ConfigOption {
	return func(c *Config) {
		c.ForcePlain = force
	}
}

// WithNoColor disables color output.
func WithNoColor(noColor bool) ConfigOption {
	return func(c *Config) {
		c.NoColor = noColor
	}
}

// NewConfig creates a new Config with the given output and options.
func NewConfig(output io.Writer, opts ...ConfigOption) Config {
	cfg := Config{
		Output:     output,
		ForcePlain: false,
		NoColor:    false,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// NewRenderer creates a plain text progress renderer. A Run's console
// output is always line-oriented, never a full-screen TUI: a Run can take
// minutes and is routinely piped into a log file or a CI job.
func NewRenderer(cfg Config) Renderer {
	return NewPlainRenderer(cfg)
}

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}

	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	return false
}

// DetectNoColor checks if NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// DetectCI checks if running in a CI environment.
func DetectCI() bool {
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "TRAVIS"}
	for _, v := range ciVars {
		if _, exists := os.LookupEnv(v); exists {
			return true
		}
	}
	return false
}
