package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/findablescore/auditor/pkg/audit"
)

func newTestAuditStore(t *testing.T) *AuditStore {
	t.Helper()
	s, err := NewAuditStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAuditStore_BeginRunAssignsIDAndDefaultsToQueued(t *testing.T) {
	s := newTestAuditStore(t)
	ctx := context.Background()

	runID, err := s.BeginRun(ctx, audit.Site{SiteID: "site-1"}, audit.DefaultRunOptions())
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	var status string
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT status FROM runs WHERE run_id = ?`, runID).Scan(&status))
	assert.Equal(t, string(audit.RunQueued), status)
}

func TestAuditStore_PutAndGetReportRoundTrips(t *testing.T) {
	s := newTestAuditStore(t)
	ctx := context.Background()

	report := audit.Report{RunID: "run-1", TotalScore: 62.5, Level: audit.Findable}
	require.NoError(t, s.PutReport(ctx, report))

	got, err := s.GetReport(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, report.TotalScore, got.TotalScore)
	assert.Equal(t, report.Level, got.Level)
}

func TestAuditStore_GetReport_MissingRunErrors(t *testing.T) {
	s := newTestAuditStore(t)
	_, err := s.GetReport(context.Background(), "does-not-exist")
	assert.Error(t, err)
}

func TestAuditStore_GetActiveCalibrationConfig_NoneConfiguredReturnsZeroValue(t *testing.T) {
	s := newTestAuditStore(t)
	cfg, err := s.GetActiveCalibrationConfig(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cfg.ConfigID)
}

func TestAuditStore_PutCalibrationConfig_ThenGetActiveReturnsIt(t *testing.T) {
	s := newTestAuditStore(t)
	ctx := context.Background()

	cfg := audit.DefaultCalibrationConfig()
	require.NoError(t, s.PutCalibrationConfig(ctx, cfg))

	got, err := s.GetActiveCalibrationConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, cfg.ConfigID, got.ConfigID)
	assert.Equal(t, cfg.Weights, got.Weights)
}

func TestAuditStore_PutCalibrationSample_ThenListReturnsIt(t *testing.T) {
	s := newTestAuditStore(t)
	ctx := context.Background()

	sample := audit.CalibrationSample{RunID: "run-1", QuestionID: "q1", ObservedOutcome: audit.OutcomeCorrect}
	require.NoError(t, s.PutCalibrationSample(ctx, sample))

	samples, err := s.ListCalibrationSamples(ctx)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, "q1", samples[0].QuestionID)
}

func TestAuditStore_PutChunkThenPutEmbedding(t *testing.T) {
	s := newTestAuditStore(t)
	ctx := context.Background()

	chunk := audit.Chunk{ChunkID: "c1", PageID: "p1", RunID: "run-1", Text: "hello"}
	require.NoError(t, s.PutChunk(ctx, chunk))
	require.NoError(t, s.PutEmbedding(ctx, "c1", "static-v1", []float32{0.1, 0.2, 0.3}))
}

func TestAuditStore_UpdateRunStatus_SetsFinishedAtOnTerminalStatus(t *testing.T) {
	s := newTestAuditStore(t)
	ctx := context.Background()

	runID, err := s.BeginRun(ctx, audit.Site{SiteID: "site-1"}, audit.DefaultRunOptions())
	require.NoError(t, err)

	err = s.UpdateRunStatus(ctx, runID, audit.RunCompleted, audit.Progress{Step: "done"})
	assert.NoError(t, err)

	var finishedAt sql.NullString
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT finished_at FROM runs WHERE run_id = ?`, runID).Scan(&finishedAt))
	assert.True(t, finishedAt.Valid)
}
