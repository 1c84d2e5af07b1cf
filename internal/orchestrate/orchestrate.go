// Package orchestrate sequences the full findability audit pipeline for
// one Run: crawl, extract, chunk, embed, index, simulate, score, and fix,
// owning the per-Run deadline and the worker pools each stage uses
// internally. It is the single place that wires every other internal
// package together, the way internal/index.Runner sequences the teacher's
// scan/chunk/context/embed/index stages behind one Dependencies struct.
package orchestrate

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/findablescore/auditor/internal/auditerrors"
	"github.com/findablescore/auditor/internal/config"
	"github.com/findablescore/auditor/internal/question"
	"github.com/findablescore/auditor/internal/score"
	"github.com/findablescore/auditor/internal/simulate"
	"github.com/findablescore/auditor/internal/ui"
	"github.com/findablescore/auditor/pkg/audit"
)

// noopRenderer discards every progress event. It is the default Progress
// renderer so callers that don't care about live output don't have to
// construct one.
type noopRenderer struct{}

func (noopRenderer) Start(context.Context) error    { return nil }
func (noopRenderer) UpdateProgress(ui.ProgressEvent) {}
func (noopRenderer) AddError(ui.ErrorEvent)          {}
func (noopRenderer) Complete(ui.CompletionStats)     {}
func (noopRenderer) Stop() error                     { return nil }

// defaultDeadline matches audit.DefaultRunOptions' 15 minute ceiling and is
// used whenever a caller leaves RunOptions.Deadline unset.
const defaultDeadline = 15 * time.Minute

// Dependencies are the collaborators a Run needs. Store and Config are
// required; Observer defaults to audit.NullObserver{}, matching the
// core's "scoring never depends on observation" contract. Progress
// defaults to a renderer that discards every event, for callers that run
// headless.
type Dependencies struct {
	Store    audit.Store
	Config   *config.Config
	Observer audit.Observer
	Progress ui.Renderer
}

// Orchestrator runs findability audits end to end.
type Orchestrator struct {
	store    audit.Store
	config   *config.Config
	observer audit.Observer
	progress ui.Renderer
}

// New builds an Orchestrator from Dependencies, defaulting Observer to
// audit.NullObserver{} and Progress to a no-op renderer when unset.
func New(deps Dependencies) (*Orchestrator, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("orchestrate: store is required")
	}
	if deps.Config == nil {
		return nil, fmt.Errorf("orchestrate: config is required")
	}
	observer := deps.Observer
	if observer == nil {
		observer = audit.NullObserver{}
	}
	progress := deps.Progress
	if progress == nil {
		progress = noopRenderer{}
	}
	return &Orchestrator{store: deps.Store, config: deps.Config, observer: observer, progress: progress}, nil
}

// stageTiming tracks duration for each pipeline stage, mirroring
// internal/index.Runner's own stageTiming struct.
type stageTiming struct {
	crawl    time.Duration
	chunk    time.Duration
	embed    time.Duration
	simulate time.Duration
	score    time.Duration
}

// Run executes the full pipeline for one Site and returns its Report. It
// never returns an error for conditions the error-handling design (§7)
// says to recover from locally; those become a degraded Report (zero
// pages) or a partial Run (deadline, cost cap) instead. Run returns an
// error when the Store cannot begin the Run, when the crawl cannot start
// (an unparsable seed domain or a crawler error), or when embedding or
// indexing fails; a failure to persist a later artifact is logged and
// the Run continues.
func (o *Orchestrator) Run(ctx context.Context, site audit.Site, opts audit.RunOptions) (audit.Report, error) {
	opts = applyRunOptionDefaults(opts)
	ctx, cancel := context.WithTimeout(ctx, opts.Deadline)
	defer cancel()

	var timing stageTiming

	_ = o.progress.Start(ctx)
	defer func() { _ = o.progress.Stop() }()

	runID, err := o.store.BeginRun(ctx, site, opts)
	if err != nil {
		return audit.Report{}, fmt.Errorf("orchestrate: begin run: %w", err)
	}

	calibrationConfig, err := o.activeCalibrationConfig(ctx, opts)
	if err != nil {
		slog.Warn("calibration config invalid, falling back to defaults",
			slog.String("run_id", runID), slog.String("error", err.Error()))
		calibrationConfig = audit.DefaultCalibrationConfig()
	}

	o.progress.UpdateProgress(ui.ProgressEvent{Stage: ui.StageCrawl, Message: "crawling " + site.Domain})
	crawlStart := time.Now()
	crawlOut, err := o.crawlAndExtract(ctx, runID, site, opts)
	timing.crawl = time.Since(crawlStart)
	if err != nil {
		return audit.Report{}, fmt.Errorf("orchestrate: crawl: %w", err)
	}

	if len(crawlOut.pages) == 0 {
		_ = o.store.UpdateRunStatus(ctx, runID, audit.RunFailed, audit.Progress{Step: "crawl"})
		return o.zeroPagesReport(runID), nil
	}
	_ = o.store.UpdateRunStatus(ctx, runID, audit.RunRunning, audit.Progress{Step: "extract", Pages: len(crawlOut.pages)})

	o.progress.UpdateProgress(ui.ProgressEvent{Stage: ui.StageChunk, Current: len(crawlOut.pages), Total: len(crawlOut.pages)})
	chunkStart := time.Now()
	chunks, chunkText := o.chunkPages(crawlOut.pages, crawlOut.mainHTML, runID)
	timing.chunk = time.Since(chunkStart)
	_ = o.store.UpdateRunStatus(ctx, runID, audit.RunRunning, audit.Progress{Step: "chunk", Pages: len(crawlOut.pages), Chunks: len(chunks)})
	for _, c := range chunks {
		if err := o.store.PutChunk(ctx, c); err != nil {
			slog.Warn("failed to persist chunk", slog.String("chunk_id", c.ChunkID), slog.String("error", err.Error()))
		}
	}

	o.progress.UpdateProgress(ui.ProgressEvent{Stage: ui.StageEmbed, Total: len(chunks)})
	embedStart := time.Now()
	retriever, embedder, err := o.embedAndIndex(ctx, runID, chunks)
	timing.embed = time.Since(embedStart)
	if err != nil {
		return audit.Report{}, fmt.Errorf("orchestrate: embed/index: %w", err)
	}
	defer embedder.Close()

	questions := question.BuildSuite(site, opts.CustomQuestions)
	_ = o.store.UpdateRunStatus(ctx, runID, audit.RunRunning, audit.Progress{Step: "simulate", Pages: len(crawlOut.pages), Chunks: len(chunks), Questions: len(questions)})
	o.progress.UpdateProgress(ui.ProgressEvent{Stage: ui.StageSimulate, Total: len(questions)})

	simulateStart := time.Now()
	simulator := simulate.New(retriever, chunkText, calibrationConfig.Thresholds, o.config.Retrieval.TopK, opts.QuestionBudgetTokens)
	results := o.simulateQuestions(ctx, simulator, questions, runID)
	timing.simulate = time.Since(simulateStart)
	for _, r := range results {
		if err := o.store.PutSimResult(ctx, r); err != nil {
			slog.Warn("failed to persist sim result", slog.String("question_id", r.QuestionID), slog.String("error", err.Error()))
		}
	}

	// The deadline may have expired anywhere during crawl/chunk/embed/
	// simulate; checked here, once, right before scoring, since
	// Retrieval/Coverage both need to know whether simulation ran to
	// completion before this Run's indexes were read.
	deadlineExceeded := ctx.Err() != nil

	o.progress.UpdateProgress(ui.ProgressEvent{Stage: ui.StageScore})
	scoreStart := time.Now()
	pillarScores := o.runPillars(crawlOut.pages, crawlOut.robotsResults, results, deadlineExceeded)
	for _, p := range pillarScores {
		if err := o.store.PutPillarScore(ctx, p); err != nil {
			slog.Warn("failed to persist pillar score", slog.String("pillar", string(p.Pillar)), slog.String("error", err.Error()))
		}
	}

	report := score.Calculate(runID, pillarScores, calibrationConfig, results)
	report.Fixes, report.ActionCenter = buildFixes(crawlOut.pages, pillarScores, questions, results)
	timing.score = time.Since(scoreStart)

	if err := o.store.PutReport(ctx, report); err != nil {
		slog.Warn("failed to persist report", slog.String("run_id", runID), slog.String("error", err.Error()))
	}

	var costCapHit bool
	if opts.IncludeObservation {
		costCapHit = o.recordCalibrationSamples(ctx, runID, calibrationConfig.ConfigID, questions, results, pillarScores, opts)
	}

	// canceled (deadline) takes precedence over partial (cost cap): the
	// deadline expiring means the Run's own crawl/simulate stages didn't
	// finish, whereas a cost-cap hit only ever truncates the optional
	// observation pass after scoring already completed.
	status := audit.RunCompleted
	switch {
	case deadlineExceeded:
		status = audit.RunCanceled
	case costCapHit:
		status = audit.RunPartial
	}
	_ = o.store.UpdateRunStatus(ctx, runID, status, audit.Progress{
		Step: "done", Pages: len(crawlOut.pages), Chunks: len(chunks), Questions: len(questions),
	})

	o.progress.Complete(ui.CompletionStats{
		Pages:     len(crawlOut.pages),
		Chunks:    len(chunks),
		Questions: len(questions),
		Duration:  timing.crawl + timing.chunk + timing.embed + timing.simulate + timing.score,
		Stages: ui.StageTimings{
			Crawl:    timing.crawl,
			Chunk:    timing.chunk,
			Embed:    timing.embed,
			Simulate: timing.simulate,
			Score:    timing.score,
		},
		Embedder: ui.EmbedderInfo{Backend: embedder.ModelName(), Dimensions: embedder.Dimensions()},
	})

	slog.Info("run_complete",
		slog.String("run_id", runID),
		slog.Int("pages", len(crawlOut.pages)),
		slog.Int("chunks", len(chunks)),
		slog.Int("questions", len(questions)),
		slog.Float64("total_score", report.TotalScore),
		slog.String("level", string(report.Level)),
		slog.Int64("duration_crawl_ms", timing.crawl.Milliseconds()),
		slog.Int64("duration_chunk_ms", timing.chunk.Milliseconds()),
		slog.Int64("duration_embed_ms", timing.embed.Milliseconds()),
		slog.Int64("duration_simulate_ms", timing.simulate.Milliseconds()),
		slog.Int64("duration_score_ms", timing.score.Milliseconds()))

	return report, nil
}

func applyRunOptionDefaults(opts audit.RunOptions) audit.RunOptions {
	defaults := audit.DefaultRunOptions()
	if opts.MaxPages <= 0 {
		opts.MaxPages = defaults.MaxPages
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaults.MaxDepth
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaults.Concurrency
	}
	if opts.QuestionBudgetTokens <= 0 {
		opts.QuestionBudgetTokens = defaults.QuestionBudgetTokens
	}
	if opts.Deadline <= 0 {
		opts.Deadline = defaultDeadline
	}
	return opts
}

func (o *Orchestrator) activeCalibrationConfig(ctx context.Context, opts audit.RunOptions) (audit.CalibrationConfig, error) {
	cfg, err := o.store.GetActiveCalibrationConfig(ctx)
	if err != nil {
		return audit.CalibrationConfig{}, err
	}
	if cfg.ConfigID == "" {
		cfg = audit.DefaultCalibrationConfig()
	}
	if sum := weightSum(cfg.Weights); sum != 0 && (sum < 99.99 || sum > 100.01) {
		return audit.CalibrationConfig{}, auditerrors.New(auditerrors.ErrCodeCalibrationInvalid,
			fmt.Sprintf("calibration weights sum to %.2f, want 100", sum), nil)
	}
	return cfg, nil
}

func weightSum(weights map[audit.Pillar]float64) float64 {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	return sum
}

// zeroPagesReport implements §7's "Zero-pages: Run -> failed; Report
// emitted with total_score=0, level=Not Yet Findable, and a single
// diagnostic fix."
func (o *Orchestrator) zeroPagesReport(runID string) audit.Report {
	return audit.Report{
		RunID:      runID,
		TotalScore: 0,
		Level:      audit.NotYetFindable,
		Fixes: []audit.Fix{{
			ReasonCode:  "site_inaccessible",
			Title:       "Site appears inaccessible to crawlers",
			Explanation: "No page could be fetched and extracted for this site. Check that the domain resolves, responds over HTTP(S), and does not block this crawler's user agent in robots.txt.",
			Priority:    1,
			Effort:      "high",
		}},
	}
}

// newPageID generates a fresh page identifier. Pages are identified by a
// random ID rather than a content hash (unlike Chunk, which is
// content-addressed for dedup) because a Page is unique per URL-per-Run
// regardless of content, and the same URL may legitimately be refetched
// across Runs.
func newPageID() string {
	return uuid.NewString()
}

func parseSeedURL(domain string) (*url.URL, error) {
	candidate := domain
	if !hasScheme(candidate) {
		candidate = "https://" + candidate
	}
	return url.Parse(candidate)
}

func hasScheme(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ':':
			return i > 0
		case '/', '.':
			return false
		}
	}
	return false
}
