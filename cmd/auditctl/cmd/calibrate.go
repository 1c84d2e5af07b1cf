package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/findablescore/auditor/internal/calibrate"
	"github.com/findablescore/auditor/pkg/audit"
)

func newCalibrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Tune and validate scoring weights and thresholds against stored observations",
	}

	cmd.AddCommand(newCalibrateOptimizeCmd())
	cmd.AddCommand(newCalibrateExperimentCmd())
	return cmd
}

func newCalibrateOptimizeCmd() *cobra.Command {
	var (
		configDir string
		name      string
		holdout   float64
	)

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Grid-search pillar weights and thresholds against stored calibration samples",
		Long: `optimize splits the stored calibration samples into a training and a
holdout set, grid-searches pillar weights and answerability thresholds on the
training set, and reports the candidate with the best holdout accuracy. A
candidate that clears the holdout floor is persisted as a validated
calibration config awaiting an A/B experiment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configDir)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			st, err := openStore(cfg)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			samples, err := st.ListCalibrationSamples(cmd.Context())
			if err != nil {
				return fmt.Errorf("list calibration samples: %w", err)
			}
			if len(samples) == 0 {
				return fmt.Errorf("no calibration samples recorded yet; run audits with --observe first")
			}

			train, holdoutSet := splitSamples(samples, holdout)

			weightCandidate, weightOK := calibrate.OptimizeWeights(train, holdoutSet)
			thresholdCandidate, thresholdOK := calibrate.OptimizeThresholds(train, holdoutSet, audit.DefaultThresholds())
			if weightOK && weightCandidate.Accuracy <= calibrate.ReplayWeightedAccuracy(holdoutSet, audit.DefaultWeights()) {
				weightOK = false
			}
			if thresholdOK && thresholdCandidate.Accuracy <= calibrate.ReplayAccuracy(holdoutSet, audit.DefaultThresholds()) {
				thresholdOK = false
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Samples:    %d train, %d holdout\n", len(train), len(holdoutSet))
			if weightOK {
				fmt.Fprintf(out, "Weights:    %v (holdout accuracy %.3f)\n", weightCandidate.Weights, weightCandidate.Accuracy)
			} else {
				fmt.Fprintln(out, "Weights:    no candidate beat the default")
			}
			if thresholdOK {
				fmt.Fprintf(out, "Thresholds: %+v (holdout accuracy %.3f)\n", thresholdCandidate.Thresholds, thresholdCandidate.Accuracy)
			} else {
				fmt.Fprintln(out, "Thresholds: no candidate beat the default")
			}

			if !weightOK && !thresholdOK {
				return nil
			}

			candidate := audit.CalibrationConfig{
				ConfigID:   uuid.NewString(),
				Name:       name,
				Status:     audit.ConfigDraft,
				Weights:    audit.DefaultWeights(),
				Thresholds: audit.DefaultThresholds(),
			}
			if weightOK {
				candidate.Weights = weightCandidate.Weights
			}
			if thresholdOK {
				candidate.Thresholds = thresholdCandidate.Thresholds
			}

			stage := calibrate.Promote(holdoutAccuracy(weightOK, weightCandidate.Accuracy, thresholdOK, thresholdCandidate.Accuracy))
			if stage == calibrate.StageRejectedHoldout {
				fmt.Fprintln(out, "Result:     rejected at holdout, not persisted")
				return nil
			}
			candidate.Status = audit.ConfigValidated

			if err := st.PutCalibrationConfig(cmd.Context(), candidate); err != nil {
				return fmt.Errorf("put calibration config: %w", err)
			}
			fmt.Fprintf(out, "Result:     saved as %s, awaiting an A/B experiment\n", candidate.ConfigID)
			return nil
		},
	}

	cmd.Flags().StringVar(&configDir, "config-dir", "", "Directory to load .findablescore.yaml from (default: current directory)")
	cmd.Flags().StringVar(&name, "name", "optimized", "Name to give the candidate calibration config")
	cmd.Flags().Float64Var(&holdout, "holdout", 0.2, "Fraction of samples reserved for holdout validation")

	return cmd
}

func newCalibrateExperimentCmd() *cobra.Command {
	var (
		configDir        string
		improvementFloor float64
	)

	cmd := &cobra.Command{
		Use:   "experiment <control-config-id> <treatment-config-id>",
		Short: "Evaluate a control/treatment A/B split of stored calibration samples",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			controlID, treatmentID := args[0], args[1]

			cfg, err := loadConfig(configDir)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			st, err := openStore(cfg)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			samples, err := st.ListCalibrationSamples(cmd.Context())
			if err != nil {
				return fmt.Errorf("list calibration samples: %w", err)
			}

			control := samplesForConfig(samples, controlID)
			treatment := samplesForConfig(samples, treatmentID)

			result := calibrate.Evaluate(control, treatment, improvementFloor)
			stage := calibrate.Activate(result)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Control:    %d samples, accuracy %.3f\n", len(control), result.ControlAccuracy)
			fmt.Fprintf(out, "Treatment:  %d samples, accuracy %.3f\n", len(treatment), result.TreatmentAccuracy)
			fmt.Fprintf(out, "p-value:    %.4f\n", result.PValue)
			fmt.Fprintf(out, "Winner:     %q\n", result.Winner)
			fmt.Fprintf(out, "Stage:      %s\n", stage)
			return nil
		},
	}

	cmd.Flags().StringVar(&configDir, "config-dir", "", "Directory to load .findablescore.yaml from (default: current directory)")
	cmd.Flags().Float64Var(&improvementFloor, "improvement-floor", 0.02, "Minimum accuracy lift treatment must show over control to win")

	return cmd
}

func splitSamples(samples []audit.CalibrationSample, holdoutFraction float64) (train, holdout []audit.CalibrationSample) {
	if holdoutFraction <= 0 || holdoutFraction >= 1 {
		holdoutFraction = 0.2
	}
	cut := int(float64(len(samples)) * (1 - holdoutFraction))
	return samples[:cut], samples[cut:]
}

func samplesForConfig(samples []audit.CalibrationSample, configID string) []audit.CalibrationSample {
	var matched []audit.CalibrationSample
	for _, s := range samples {
		if s.ConfigID == configID {
			matched = append(matched, s)
		}
	}
	return matched
}

func holdoutAccuracy(weightOK bool, weightAcc float64, thresholdOK bool, thresholdAcc float64) float64 {
	switch {
	case weightOK && thresholdOK:
		return (weightAcc + thresholdAcc) / 2
	case weightOK:
		return weightAcc
	case thresholdOK:
		return thresholdAcc
	default:
		return 0
	}
}
