package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/findablescore/auditor/pkg/audit"
)

// AuditStore persists one findability-audit database's worth of Runs,
// Pages, Chunks, SimResults, PillarScores, Reports, and calibration data
// in SQLite, following SQLiteBM25Index's own WAL-mode, pure-Go-driver
// connection pattern so the audit database and any BM25/vector indexes
// this process also opens share the same concurrency story.
type AuditStore struct {
	db *sql.DB
}

// Verify interface implementation at compile time.
var _ audit.Store = (*AuditStore)(nil)

// NewAuditStore opens (and migrates) the SQLite database at path. ":memory:"
// is accepted for tests. Nested/structured fields (Progress, RunOptions,
// Page.Headings, PillarScore.Components/Issues, Report.ShowTheMath, and the
// calibration config's weight/threshold maps) are stored as JSON columns
// rather than normalized tables: none of them are queried by sub-field
// anywhere in this codebase, only read back whole by RunID/QuestionID, so
// normalizing them would add migration surface without an actual query to
// justify it.
func NewAuditStore(path string) (*AuditStore, error) {
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}

	s := &AuditStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *AuditStore) Close() error {
	return s.db.Close()
}

func (s *AuditStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id       TEXT PRIMARY KEY,
			site_id      TEXT NOT NULL,
			status       TEXT NOT NULL,
			progress     TEXT NOT NULL,
			options      TEXT NOT NULL,
			started_at   TEXT NOT NULL,
			finished_at  TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS pages (
			page_id  TEXT PRIMARY KEY,
			run_id   TEXT NOT NULL,
			data     TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pages_run_id ON pages(run_id)`,
		`CREATE TABLE IF NOT EXISTS chunks (
			chunk_id TEXT PRIMARY KEY,
			run_id   TEXT NOT NULL,
			page_id  TEXT NOT NULL,
			data     TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_run_id ON chunks(run_id)`,
		`CREATE TABLE IF NOT EXISTS embeddings (
			chunk_id TEXT NOT NULL,
			model_id TEXT NOT NULL,
			vector   TEXT NOT NULL,
			PRIMARY KEY (chunk_id, model_id)
		)`,
		`CREATE TABLE IF NOT EXISTS sim_results (
			run_id      TEXT NOT NULL,
			question_id TEXT NOT NULL,
			data        TEXT NOT NULL,
			PRIMARY KEY (run_id, question_id)
		)`,
		`CREATE TABLE IF NOT EXISTS pillar_scores (
			run_id TEXT NOT NULL,
			pillar TEXT NOT NULL,
			data   TEXT NOT NULL,
			PRIMARY KEY (run_id, pillar)
		)`,
		`CREATE TABLE IF NOT EXISTS reports (
			run_id TEXT PRIMARY KEY,
			data   TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS calibration_configs (
			config_id TEXT PRIMARY KEY,
			status    TEXT NOT NULL,
			data      TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS calibration_samples (
			id          TEXT PRIMARY KEY,
			run_id      TEXT NOT NULL,
			question_id TEXT NOT NULL,
			data        TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *AuditStore) BeginRun(ctx context.Context, site audit.Site, opts audit.RunOptions) (string, error) {
	runID := uuid.NewString()

	progressJSON, err := json.Marshal(audit.Progress{Step: "queued"})
	if err != nil {
		return "", fmt.Errorf("store: marshal progress: %w", err)
	}
	optionsJSON, err := json.Marshal(opts)
	if err != nil {
		return "", fmt.Errorf("store: marshal options: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, site_id, status, progress, options, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, site.SiteID, string(audit.RunQueued), string(progressJSON), string(optionsJSON), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("store: insert run: %w", err)
	}
	return runID, nil
}

func (s *AuditStore) UpdateRunStatus(ctx context.Context, runID string, status audit.RunStatus, progress audit.Progress) error {
	progressJSON, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("store: marshal progress: %w", err)
	}

	var finishedAt interface{}
	if status == audit.RunCompleted || status == audit.RunPartial || status == audit.RunFailed || status == audit.RunCanceled {
		finishedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, progress = ?, finished_at = COALESCE(?, finished_at) WHERE run_id = ?`,
		string(status), string(progressJSON), finishedAt, runID)
	if err != nil {
		return fmt.Errorf("store: update run status: %w", err)
	}
	return nil
}

func (s *AuditStore) PutPage(ctx context.Context, page audit.Page) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("store: marshal page: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO pages (page_id, run_id, data) VALUES (?, ?, ?)
		 ON CONFLICT(page_id) DO UPDATE SET data = excluded.data`,
		page.PageID, page.RunID, string(data))
	if err != nil {
		return fmt.Errorf("store: put page: %w", err)
	}
	return nil
}

func (s *AuditStore) PutChunk(ctx context.Context, chunk audit.Chunk) error {
	data, err := json.Marshal(chunk)
	if err != nil {
		return fmt.Errorf("store: marshal chunk: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO chunks (chunk_id, run_id, page_id, data) VALUES (?, ?, ?, ?)
		 ON CONFLICT(chunk_id) DO UPDATE SET data = excluded.data`,
		chunk.ChunkID, chunk.RunID, chunk.PageID, string(data))
	if err != nil {
		return fmt.Errorf("store: put chunk: %w", err)
	}
	return nil
}

func (s *AuditStore) PutEmbedding(ctx context.Context, chunkID string, modelID string, vector []float32) error {
	data, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("store: marshal embedding: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO embeddings (chunk_id, model_id, vector) VALUES (?, ?, ?)
		 ON CONFLICT(chunk_id, model_id) DO UPDATE SET vector = excluded.vector`,
		chunkID, modelID, string(data))
	if err != nil {
		return fmt.Errorf("store: put embedding: %w", err)
	}
	return nil
}

func (s *AuditStore) PutSimResult(ctx context.Context, result audit.SimResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("store: marshal sim result: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sim_results (run_id, question_id, data) VALUES (?, ?, ?)
		 ON CONFLICT(run_id, question_id) DO UPDATE SET data = excluded.data`,
		result.RunID, result.QuestionID, string(data))
	if err != nil {
		return fmt.Errorf("store: put sim result: %w", err)
	}
	return nil
}

func (s *AuditStore) PutPillarScore(ctx context.Context, score audit.PillarScore) error {
	data, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("store: marshal pillar score: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO pillar_scores (run_id, pillar, data) VALUES (?, ?, ?)
		 ON CONFLICT(run_id, pillar) DO UPDATE SET data = excluded.data`,
		score.RunID, string(score.Pillar), string(data))
	if err != nil {
		return fmt.Errorf("store: put pillar score: %w", err)
	}
	return nil
}

func (s *AuditStore) PutReport(ctx context.Context, report audit.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("store: marshal report: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (run_id, data) VALUES (?, ?)
		 ON CONFLICT(run_id) DO UPDATE SET data = excluded.data`,
		report.RunID, string(data))
	if err != nil {
		return fmt.Errorf("store: put report: %w", err)
	}
	return nil
}

// GetReport reads back a Run's Report, for cmd/auditctl's "report show".
func (s *AuditStore) GetReport(ctx context.Context, runID string) (audit.Report, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM reports WHERE run_id = ?`, runID).Scan(&data)
	if err == sql.ErrNoRows {
		return audit.Report{}, fmt.Errorf("store: no report for run %q", runID)
	}
	if err != nil {
		return audit.Report{}, fmt.Errorf("store: get report: %w", err)
	}
	var report audit.Report
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return audit.Report{}, fmt.Errorf("store: unmarshal report: %w", err)
	}
	return report, nil
}

func (s *AuditStore) GetActiveCalibrationConfig(ctx context.Context) (audit.CalibrationConfig, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM calibration_configs WHERE status = ? ORDER BY config_id LIMIT 1`, string(audit.ConfigActive)).Scan(&data)
	if err == sql.ErrNoRows {
		return audit.CalibrationConfig{}, nil
	}
	if err != nil {
		return audit.CalibrationConfig{}, fmt.Errorf("store: get active calibration config: %w", err)
	}
	var cfg audit.CalibrationConfig
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		return audit.CalibrationConfig{}, fmt.Errorf("store: unmarshal calibration config: %w", err)
	}
	return cfg, nil
}

// PutCalibrationConfig upserts a CalibrationConfig, used by `auditctl
// calibrate optimize`/`experiment` to persist a new candidate or to flip
// an existing one's Status.
func (s *AuditStore) PutCalibrationConfig(ctx context.Context, cfg audit.CalibrationConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("store: marshal calibration config: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO calibration_configs (config_id, status, data) VALUES (?, ?, ?)
		 ON CONFLICT(config_id) DO UPDATE SET status = excluded.status, data = excluded.data`,
		cfg.ConfigID, string(cfg.Status), string(data))
	if err != nil {
		return fmt.Errorf("store: put calibration config: %w", err)
	}
	return nil
}

func (s *AuditStore) PutCalibrationSample(ctx context.Context, sample audit.CalibrationSample) error {
	data, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("store: marshal calibration sample: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO calibration_samples (id, run_id, question_id, data) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), sample.RunID, sample.QuestionID, string(data))
	if err != nil {
		return fmt.Errorf("store: put calibration sample: %w", err)
	}
	return nil
}

// ListCalibrationSamples returns every sample recorded so far, for the
// daily drift job and for `auditctl calibrate optimize`'s grid search.
func (s *AuditStore) ListCalibrationSamples(ctx context.Context) ([]audit.CalibrationSample, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM calibration_samples`)
	if err != nil {
		return nil, fmt.Errorf("store: list calibration samples: %w", err)
	}
	defer rows.Close()

	var samples []audit.CalibrationSample
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("store: scan calibration sample: %w", err)
		}
		var sample audit.CalibrationSample
		if err := json.Unmarshal([]byte(data), &sample); err != nil {
			return nil, fmt.Errorf("store: unmarshal calibration sample: %w", err)
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}
