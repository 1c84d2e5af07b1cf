package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Inspect stored audit reports",
	}

	cmd.AddCommand(newReportShowCmd())
	return cmd
}

func newReportShowCmd() *cobra.Command {
	var configDir string

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print a previously computed report by run ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := args[0]

			cfg, err := loadConfig(configDir)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			st, err := openStore(cfg)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			report, err := st.GetReport(cmd.Context(), runID)
			if err != nil {
				return fmt.Errorf("get report: %w", err)
			}

			printReportSummary(cmd, report)
			return nil
		},
	}

	cmd.Flags().StringVar(&configDir, "config-dir", "", "Directory to load .findablescore.yaml from (default: current directory)")
	return cmd
}
