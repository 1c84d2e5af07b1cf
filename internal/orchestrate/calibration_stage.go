package orchestrate

import (
	"context"
	"log/slog"

	"github.com/findablescore/auditor/internal/calibrate"
	"github.com/findablescore/auditor/pkg/audit"
)

// observationProvider is the provider label used when no per-site
// provider routing has been configured. RouterObserver skips any provider
// it has no implementation for, and the default NullObserver returns no
// responses, so this is safe even when nothing is wired.
const observationProvider = "default"

// recordCalibrationSamples queries the configured Observer for every
// question this Run simulated and turns each response into a
// CalibrationSample, closing the loop described in §4.12. Observation
// failures are logged and skipped: calibration is a secondary signal,
// never a reason to fail an otherwise-complete Run. It reports whether
// the Run's observation_cost_cap_usd was hit, so the caller can mark the
// Run partial rather than completed.
func (o *Orchestrator) recordCalibrationSamples(ctx context.Context, runID, configID string, questions []audit.Question, results []audit.SimResult, pillarScores []audit.PillarScore, opts audit.RunOptions) (costCapHit bool) {
	resultByQuestion := make(map[string]audit.SimResult, len(results))
	for _, r := range results {
		resultByQuestion[r.QuestionID] = r
	}

	snapshot := make(map[audit.Pillar]float64, len(pillarScores))
	for _, ps := range pillarScores {
		if ps.Evaluated {
			snapshot[ps.Pillar] = ps.Raw
		}
	}

	requests := make([]audit.ObservationRequest, 0, len(questions))
	orderedQuestions := make([]audit.Question, 0, len(questions))
	for _, q := range questions {
		if _, ok := resultByQuestion[q.QuestionID]; !ok {
			continue
		}
		requests = append(requests, audit.ObservationRequest{
			Provider: observationProvider,
			Prompt:   q.Text,
		})
		orderedQuestions = append(orderedQuestions, q)
	}
	if len(requests) == 0 {
		return
	}

	responses, err := o.observer.QueryAI(ctx, requests)
	if err != nil {
		slog.Warn("observation query failed, skipping calibration samples",
			slog.String("run_id", runID), slog.String("error", err.Error()))
		return
	}

	var spentUSD float64
	costCap := opts.ObservationCostCapUSD
	for i, resp := range responses {
		if i >= len(orderedQuestions) {
			break
		}
		spentUSD += resp.CostEstimateUSD
		if costCap > 0 && spentUSD > costCap {
			slog.Info("observation cost cap reached, truncating calibration pass",
				slog.String("run_id", runID), slog.Float64("spent_usd", spentUSD))
			costCapHit = true
			break
		}

		q := orderedQuestions[i]
		sample := calibrate.BuildSample(runID, q, resultByQuestion[q.QuestionID], outcomeFromResponse(resp), snapshot)
		sample.ConfigID = configID
		if err := o.store.PutCalibrationSample(ctx, sample); err != nil {
			slog.Warn("failed to persist calibration sample",
				slog.String("run_id", runID), slog.String("question_id", q.QuestionID), slog.String("error", err.Error()))
		}
	}
	return costCapHit
}

// outcomeFromResponse maps an ObservationResponse's Mentioned/Cited bits
// to the three-way ObservationOutcome calibrate.BuildSample expects,
// preferring the stronger signal (Cited implies Mentioned).
func outcomeFromResponse(resp audit.ObservationResponse) calibrate.ObservationOutcome {
	switch {
	case resp.Cited:
		return calibrate.ObservationCited
	case resp.Mentioned:
		return calibrate.ObservationMentioned
	default:
		return calibrate.ObservationOmitted
	}
}
