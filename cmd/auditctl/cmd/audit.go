package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/findablescore/auditor/internal/orchestrate"
	"github.com/findablescore/auditor/internal/ui"
	"github.com/findablescore/auditor/pkg/audit"
)

func newAuditCmd() *cobra.Command {
	var (
		siteID         string
		businessModel  string
		maxPages       int
		maxDepth       int
		concurrency    int
		configDir      string
		observe        bool
		observeCostCap float64
		quiet          bool
	)

	cmd := &cobra.Command{
		Use:   "audit <domain>",
		Short: "Run a findability audit against a domain",
		Long: `audit crawls the given domain, builds its hybrid search index,
simulates a suite of real-world AI questions against it, scores the result
across the seven findability pillars, and prints the resulting report.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			domain := args[0]

			cfg, err := loadConfig(configDir)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			st, err := openStore(cfg)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			deps := orchestrate.Dependencies{Store: st, Config: cfg}
			if !quiet {
				deps.Progress = ui.NewRenderer(ui.NewConfig(cmd.ErrOrStderr(), ui.WithNoColor(ui.DetectNoColor())))
			}
			orch, err := orchestrate.New(deps)
			if err != nil {
				return fmt.Errorf("build orchestrator: %w", err)
			}

			site := audit.Site{
				SiteID:        siteID,
				Domain:        domain,
				BusinessModel: businessModel,
				PlanCaps: audit.PlanCaps{
					MaxPages:              maxPages,
					MaxDepth:              maxDepth,
					ObservationCostCapUSD: observeCostCap,
				},
			}
			opts := audit.DefaultRunOptions()
			if maxPages > 0 {
				opts.MaxPages = maxPages
			}
			if maxDepth > 0 {
				opts.MaxDepth = maxDepth
			}
			if concurrency > 0 {
				opts.Concurrency = concurrency
			}
			opts.IncludeObservation = observe
			opts.ObservationCostCapUSD = observeCostCap

			report, err := orch.Run(cmd.Context(), site, opts)
			if err != nil {
				return fmt.Errorf("run audit: %w", err)
			}

			printReportSummary(cmd, report)
			return nil
		},
	}

	cmd.Flags().StringVar(&siteID, "site-id", "", "Site identifier to associate with this run")
	cmd.Flags().StringVar(&businessModel, "business-model", "", "Business model hint used to tailor the question suite")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "Override the crawl's max page count")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Override the crawl's max depth")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Override the crawl's concurrency")
	cmd.Flags().StringVar(&configDir, "config-dir", "", "Directory to load .findablescore.yaml from (default: current directory)")
	cmd.Flags().BoolVar(&observe, "observe", false, "Run the observation pass after scoring; auditctl wires no AI provider, so the default observer records no calibration samples")
	cmd.Flags().Float64Var(&observeCostCap, "observe-cost-cap", 0, "USD cap on observation spend for this run")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress live stage progress output")

	return cmd
}

func printReportSummary(cmd *cobra.Command, report audit.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:            %s\n", report.RunID)
	fmt.Fprintf(out, "Total score:    %.1f / %.1f\n", report.TotalScore, report.EvaluatedMax)
	fmt.Fprintf(out, "Level:          %s\n", report.Level)
	if report.NextMilestone > 0 {
		fmt.Fprintf(out, "Next milestone: %d\n", report.NextMilestone)
	}
	fmt.Fprintf(out, "Questions:      %d answered, %d partial, %d unanswered\n",
		report.QuestionsAnswered, report.QuestionsPartial, report.QuestionsUnanswered)
	fmt.Fprintln(out, "\nPillars:")
	for _, ps := range report.PillarScores {
		if !ps.Evaluated {
			fmt.Fprintf(out, "  %-20s not evaluated\n", ps.Pillar)
			continue
		}
		fmt.Fprintf(out, "  %-20s raw=%.1f weighted=%.1f level=%s\n", ps.Pillar, ps.Raw, ps.Weighted, ps.Level)
	}
	if len(report.ActionCenter.HighPriority) > 0 {
		fmt.Fprintln(out, "\nHigh priority fixes:")
		for _, f := range report.ActionCenter.HighPriority {
			fmt.Fprintf(out, "  - %s\n", f.Title)
		}
	}
}
