package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	resultsJSON   bool
	resultsFigure string
)

var resultsCmd = &cobra.Command{
	Use:   "results [run-id]",
	Short: "List stored runs or inspect one",
	Long: `Without arguments, lists all stored experiment runs newest first.
With a run id, prints that run's final metrics, exports it as JSON, or
renders its comparison figure.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResults,
}

func init() {
	resultsCmd.Flags().BoolVar(&resultsJSON, "json", false, "output the full run as JSON")
	resultsCmd.Flags().StringVar(&resultsFigure, "figure", "", "write the comparison figure PNG to this path")
	rootCmd.AddCommand(resultsCmd)
}

func runResults(cmd *cobra.Command, args []string) error {
	if resultStore == nil {
		return errors.New("result store not configured")
	}

	ctx := context.Background()

	if len(args) == 0 {
		return outputRunList(cmd, ctx)
	}

	run, err := resultStore.GetRun(ctx, args[0])
	if err != nil {
		return fmt.Errorf("run %s: %w", args[0], err)
	}

	if resultsJSON {
		data, err := json.MarshalIndent(run, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal run: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if resultsFigure != "" {
		if runPlotter == nil {
			return errors.New("plotter not configured")
		}
		if err := runPlotter.Render(run, resultsFigure); err != nil {
			return fmt.Errorf("figure failed: %w", err)
		}
		cmd.Printf("Figure written to %s\n", resultsFigure)
		return nil
	}

	outputRunSummary(cmd, run)
	return nil
}

func outputRunList(cmd *cobra.Command, ctx context.Context) error {
	runs, err := resultStore.ListRuns(ctx)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No stored runs.")
		return nil
	}

	cmd.Println("Runs:")
	cmd.Println()
	for _, run := range runs {
		cmd.Printf("  %s  %s\n", run.ID, run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		cmd.Printf("      rounds=%d batch=%d neighbours=%d repetitions=%d seed=%d\n",
			run.Config.Rounds, run.Config.BatchSize, run.Config.Neighbours,
			run.Config.Repetitions, run.Config.Seed)
	}
	cmd.Println()
	return nil
}
