package orchestrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/findablescore/auditor/pkg/audit"
)

// fakeObserver returns one canned response per request, in order.
type fakeObserver struct {
	responses []audit.ObservationResponse
	err       error
}

func (f *fakeObserver) QueryAI(ctx context.Context, requests []audit.ObservationRequest) ([]audit.ObservationResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.responses, nil
}

// fakeStore records every PutCalibrationSample call; every other method
// is a no-op satisfying audit.Store.
type fakeStore struct {
	samples []audit.CalibrationSample
}

func (f *fakeStore) BeginRun(ctx context.Context, site audit.Site, opts audit.RunOptions) (string, error) {
	return "run-1", nil
}
func (f *fakeStore) UpdateRunStatus(ctx context.Context, runID string, status audit.RunStatus, progress audit.Progress) error {
	return nil
}
func (f *fakeStore) PutPage(ctx context.Context, page audit.Page) error { return nil }
func (f *fakeStore) PutChunk(ctx context.Context, chunk audit.Chunk) error { return nil }
func (f *fakeStore) PutEmbedding(ctx context.Context, chunkID, modelID string, vector []float32) error {
	return nil
}
func (f *fakeStore) PutSimResult(ctx context.Context, result audit.SimResult) error { return nil }
func (f *fakeStore) PutPillarScore(ctx context.Context, score audit.PillarScore) error { return nil }
func (f *fakeStore) PutReport(ctx context.Context, report audit.Report) error { return nil }
func (f *fakeStore) GetActiveCalibrationConfig(ctx context.Context) (audit.CalibrationConfig, error) {
	return audit.CalibrationConfig{}, nil
}
func (f *fakeStore) PutCalibrationSample(ctx context.Context, sample audit.CalibrationSample) error {
	f.samples = append(f.samples, sample)
	return nil
}

func TestRecordCalibrationSamples_PersistsOneSamplePerAnsweredQuestion(t *testing.T) {
	store := &fakeStore{}
	observer := &fakeObserver{responses: []audit.ObservationResponse{
		{Cited: true},
		{Mentioned: true},
	}}
	o := &Orchestrator{store: store, observer: observer}

	questions := []audit.Question{
		{QuestionID: "q1", Category: "pricing"},
		{QuestionID: "q2", Category: "support"},
	}
	results := []audit.SimResult{
		{QuestionID: "q1", Answerability: audit.FullyAnswerable, Score: 0.9},
		{QuestionID: "q2", Answerability: audit.Unanswered, Score: 0.1},
	}

	o.recordCalibrationSamples(context.Background(), "run-1", "cfg-1", questions, results, nil, audit.RunOptions{IncludeObservation: true})

	require.Len(t, store.samples, 2)
	assert.Equal(t, "q1", store.samples[0].QuestionID)
	assert.Equal(t, audit.OutcomeCorrect, store.samples[0].ObservedOutcome)
	assert.Equal(t, "q2", store.samples[1].QuestionID)
	assert.Equal(t, audit.OutcomePessimistic, store.samples[1].ObservedOutcome)
}

func TestRecordCalibrationSamples_StopsAtCostCap(t *testing.T) {
	store := &fakeStore{}
	observer := &fakeObserver{responses: []audit.ObservationResponse{
		{Cited: true, CostEstimateUSD: 0.5},
		{Cited: true, CostEstimateUSD: 0.5},
	}}
	o := &Orchestrator{store: store, observer: observer}

	questions := []audit.Question{
		{QuestionID: "q1", Category: "pricing"},
		{QuestionID: "q2", Category: "support"},
	}
	results := []audit.SimResult{
		{QuestionID: "q1", Answerability: audit.FullyAnswerable},
		{QuestionID: "q2", Answerability: audit.FullyAnswerable},
	}

	o.recordCalibrationSamples(context.Background(), "run-1", "cfg-1", questions, results, nil, audit.RunOptions{
		IncludeObservation:    true,
		ObservationCostCapUSD: 0.5,
	})

	assert.Len(t, store.samples, 1)
}

func TestRecordCalibrationSamples_SkipsQuestionsWithNoSimResult(t *testing.T) {
	store := &fakeStore{}
	observer := &fakeObserver{responses: []audit.ObservationResponse{{Cited: true}}}
	o := &Orchestrator{store: store, observer: observer}

	questions := []audit.Question{
		{QuestionID: "q1", Category: "pricing"},
		{QuestionID: "unscored", Category: "support"},
	}
	results := []audit.SimResult{
		{QuestionID: "q1", Answerability: audit.FullyAnswerable},
	}

	o.recordCalibrationSamples(context.Background(), "run-1", "cfg-1", questions, results, nil, audit.RunOptions{IncludeObservation: true})

	require.Len(t, store.samples, 1)
	assert.Equal(t, "q1", store.samples[0].QuestionID)
}
