package calibrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPromote_RejectsBelowHoldoutFloor(t *testing.T) {
	assert.Equal(t, StageRejectedHoldout, Promote(0.3))
}

func TestPromote_AdvancesToABAboveFloor(t *testing.T) {
	assert.Equal(t, StageAwaitingAB, Promote(0.6))
}

func TestActivate_TreatmentWinnerActivates(t *testing.T) {
	assert.Equal(t, StageActive, Activate(ExperimentResult{Winner: "treatment"}))
}

func TestActivate_ControlWinnerDemotesCandidate(t *testing.T) {
	assert.Equal(t, StageDemoted, Activate(ExperimentResult{Winner: "control"}))
}
