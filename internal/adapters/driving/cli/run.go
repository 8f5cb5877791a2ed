package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/seals-cli/internal/core/domain"
)

var (
	runFlags  experimentFlags
	runFigure string
	runExport string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the automated experiment",
	Long: `Runs the active learning experiment with the ground-truth oracle:
MaxEnt-SEALS against the MaxEnt-All, Random-All and FullSupervision
baselines, averaged over several repetitions.

Uses a synthetic rare-concept dataset unless --data points at an
embedding file.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runFlags.register(runCmd)
	runCmd.Flags().StringVar(&runFigure, "figure", "", "write the comparison figure PNG to this path")
	runCmd.Flags().StringVar(&runExport, "export", "", "write the full results JSON to this path")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	if resultStore == nil {
		return errors.New("result store not configured")
	}

	cfg := configuredExperiment(cmd, &runFlags)
	source, err := runFlags.datasetSource(cfg.Seed)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := newExperimentService(source, resultStore)
	run, err := svc.Run(ctx, cfg)
	if err != nil {
		return fmt.Errorf("experiment failed: %w", err)
	}

	outputRunSummary(cmd, run)

	if runExport != "" {
		if err := exportJSON(runExport, run); err != nil {
			return err
		}
		cmd.Printf("Results written to %s\n", runExport)
	}
	if runFigure != "" {
		if runPlotter == nil {
			return errors.New("plotter not configured")
		}
		if err := runPlotter.Render(run, runFigure); err != nil {
			return fmt.Errorf("figure failed: %w", err)
		}
		cmd.Printf("Figure written to %s\n", runFigure)
	}

	return nil
}

var (
	summaryHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	summaryBestStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// outputRunSummary prints the final-round metrics per algorithm,
// averaged over repetitions. Styling only when stdout is a terminal.
func outputRunSummary(cmd *cobra.Command, run *domain.RunResult) {
	styled := term.IsTerminal(int(os.Stdout.Fd()))

	cmd.Printf("Run %s\n\n", run.ID)

	header := fmt.Sprintf("  %-18s %8s %10s %10s %10s", "ALGORITHM", "LABELS", "RECALL", "AVG PREC", "POSITIVES")
	if styled {
		header = summaryHeaderStyle.Render(header)
	}
	cmd.Println(header)

	bestRecall := -1.0
	for _, alg := range run.Algorithms() {
		if alg == domain.AlgorithmFullSupervision {
			continue
		}
		if mean := run.MeanSeries(alg); len(mean) > 0 && mean[len(mean)-1].Recall > bestRecall {
			bestRecall = mean[len(mean)-1].Recall
		}
	}

	for _, alg := range run.Algorithms() {
		mean := run.MeanSeries(alg)
		if len(mean) == 0 {
			continue
		}
		last := mean[len(mean)-1]
		row := fmt.Sprintf("  %-18s %8d %10.3f %10.3f %10d",
			alg, last.Labeled, last.Recall, last.AveragePrecision, last.Positives)
		if styled && alg != domain.AlgorithmFullSupervision && last.Recall == bestRecall {
			row = summaryBestStyle.Render(row)
		}
		cmd.Println(row)
	}
	cmd.Println()
}
