package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/seals-cli/internal/adapters/driving/dashboard"
	"github.com/custodia-labs/seals-cli/internal/core/domain"
	"github.com/custodia-labs/seals-cli/internal/core/ports/driven"
	"github.com/custodia-labs/seals-cli/internal/core/services"
)

var (
	labelFlags experimentFlags
	labelPort  int
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Run the experiment with manual labeling",
	Long: `Runs a single-repetition MaxEnt-SEALS experiment where you provide
the labels through a local web dashboard instead of the ground-truth
oracle. The loop blocks on each candidate until you label it.`,
	Args: cobra.NoArgs,
	RunE: runLabel,
}

func init() {
	labelFlags.register(labelCmd)
	labelCmd.Flags().IntVar(&labelPort, "port", dashboard.DefaultPort, "dashboard listen port")
	rootCmd.AddCommand(labelCmd)
}

func runLabel(cmd *cobra.Command, _ []string) error {
	if resultStore == nil {
		return errors.New("result store not configured")
	}

	cfg := configuredExperiment(cmd, &labelFlags)
	// A human labels one repetition, without the automated baselines.
	cfg.Repetitions = 1
	cfg.Baselines = false

	source, err := labelFlags.datasetSource(cfg.Seed)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := make(chan *services.LabelingSession, 1)
	svc := services.NewExperimentService(
		source,
		resultStore,
		newIndexFactory(),
		newClassifierFactory(),
		func(train *domain.Dataset) driven.Oracle {
			session := services.NewLabelingSession(train, cfg.LabelBudget())
			sessions <- session
			return session
		},
	)

	type outcome struct {
		run *domain.RunResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		run, err := svc.Run(ctx, cfg)
		done <- outcome{run: run, err: err}
	}()

	var session *services.LabelingSession
	select {
	case session = <-sessions:
	case result := <-done:
		// Run failed before the oracle was ever needed.
		return result.err
	}
	defer session.Close()

	srv := dashboard.NewServer(session, labelPort)
	if err := srv.Start(); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	cmd.Printf("Open %s to label candidates (%d labels total).\n", srv.URL(), cfg.LabelBudget())
	cmd.Println("Press Ctrl+C to abort.")

	result := <-done
	if result.err != nil {
		return fmt.Errorf("experiment failed: %w", result.err)
	}

	outputRunSummary(cmd, result.run)
	return nil
}
