package audit

import "context"

// Store is the persistence collaborator the core consumes. It owns the
// schema, migrations, and multi-tenant concerns; the core only calls
// these methods in the order described by spec.md §6.
type Store interface {
	BeginRun(ctx context.Context, site Site, opts RunOptions) (runID string, err error)
	UpdateRunStatus(ctx context.Context, runID string, status RunStatus, progress Progress) error

	PutPage(ctx context.Context, page Page) error
	PutChunk(ctx context.Context, chunk Chunk) error
	PutEmbedding(ctx context.Context, chunkID string, modelID string, vector []float32) error
	PutSimResult(ctx context.Context, result SimResult) error
	PutPillarScore(ctx context.Context, score PillarScore) error
	PutReport(ctx context.Context, report Report) error

	GetActiveCalibrationConfig(ctx context.Context) (CalibrationConfig, error)
	PutCalibrationSample(ctx context.Context, sample CalibrationSample) error
}
