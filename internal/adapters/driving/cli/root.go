// Package cli implements the seals command-line interface.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/seals-cli/internal/adapters/driven/classifier/logistic"
	configfile "github.com/custodia-labs/seals-cli/internal/adapters/driven/config/file"
	datafile "github.com/custodia-labs/seals-cli/internal/adapters/driven/dataset/file"
	"github.com/custodia-labs/seals-cli/internal/adapters/driven/dataset/synthetic"
	"github.com/custodia-labs/seals-cli/internal/adapters/driven/index/flat"
	"github.com/custodia-labs/seals-cli/internal/adapters/driven/oracle/groundtruth"
	"github.com/custodia-labs/seals-cli/internal/adapters/driven/plot/gonumplot"
	"github.com/custodia-labs/seals-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/seals-cli/internal/core/domain"
	"github.com/custodia-labs/seals-cli/internal/core/ports/driven"
	"github.com/custodia-labs/seals-cli/internal/core/services"
	"github.com/custodia-labs/seals-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "0.1.0"

// Services wired in Execute. Tests swap these for mocks.
var (
	configStore  driven.ConfigStore
	resultStore  driven.ResultStore
	runPlotter   driven.Plotter
	closeResults func() error
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "seals",
	Short: "Active search for rare concepts",
	Long: `Runs the MaxEnt-SEALS active learning experiment: a logistic
regression classifier is grown from a handful of labeled seeds by
repeatedly labeling the most uncertain candidates among the nearest
neighbours of everything labeled so far.

Results are stored locally and can be listed, exported as JSON, and
rendered as comparison figures against the baselines.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute wires the production services and runs the root command.
func Execute() error {
	if err := initServices(); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer func() {
		if closeResults != nil {
			if err := closeResults(); err != nil {
				logger.Warn("Closing result store: %v", err)
			}
		}
	}()

	return rootCmd.Execute()
}

// initServices builds the default adapter stack: TOML config in
// ~/.seals, SQLite results in ~/.seals/data, PNG figures.
func initServices() error {
	cs, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("config store: %w", err)
	}
	configStore = cs

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("result store: %w", err)
	}
	resultStore = store
	closeResults = store.Close

	runPlotter = gonumplot.NewPlotter()
	return nil
}

// newIndexFactory returns the production vector index factory.
func newIndexFactory() driven.IndexFactory {
	return func(dim int) driven.VectorIndex { return flat.New(dim) }
}

// newClassifierFactory returns the production classifier factory.
func newClassifierFactory() driven.ClassifierFactory {
	return func(dim int) driven.Classifier { return logistic.New(dim, logistic.DefaultOptions()) }
}

// newExperimentService assembles the experiment driver over the given
// dataset source with the automated ground-truth oracle.
var newExperimentService = func(source driven.DatasetSource, store driven.ResultStore) *services.ExperimentService {
	return services.NewExperimentService(
		source,
		store,
		newIndexFactory(),
		newClassifierFactory(),
		func(train *domain.Dataset) driven.Oracle { return groundtruth.New(train) },
	)
}

// configuredExperiment builds the experiment configuration: defaults,
// overridden by the config file, overridden by flags the caller set.
func configuredExperiment(cmd *cobra.Command, flags *experimentFlags) domain.ExperimentConfig {
	cfg := domain.DefaultExperimentConfig()

	if configStore != nil {
		if v := configStore.GetInt("experiment.rounds"); v > 0 {
			cfg.Rounds = v
		}
		if v := configStore.GetInt("experiment.batch_size"); v > 0 {
			cfg.BatchSize = v
		}
		if v := configStore.GetInt("experiment.seed_size"); v > 0 {
			cfg.SeedSize = v
		}
		if v := configStore.GetInt("experiment.seed_positives"); v > 0 {
			cfg.SeedPositives = v
		}
		if v := configStore.GetInt("experiment.neighbours"); v > 0 {
			cfg.Neighbours = v
		}
		if v := configStore.GetInt("experiment.repetitions"); v > 0 {
			cfg.Repetitions = v
		}
		if v := configStore.GetFloat("experiment.test_fraction"); v > 0 && v < 1 {
			cfg.TestFraction = v
		}
	}

	set := cmd.Flags().Changed
	if set("rounds") {
		cfg.Rounds = flags.rounds
	}
	if set("batch") {
		cfg.BatchSize = flags.batch
	}
	if set("seed-size") {
		cfg.SeedSize = flags.seedSize
	}
	if set("seed-positives") {
		cfg.SeedPositives = flags.seedPositives
	}
	if set("neighbours") {
		cfg.Neighbours = flags.neighbours
	}
	if set("repetitions") {
		cfg.Repetitions = flags.repetitions
	}
	if set("test-fraction") {
		cfg.TestFraction = flags.testFraction
	}
	if set("seed") {
		cfg.Seed = flags.seed
	}
	cfg.Baselines = !flags.noBaselines

	return cfg
}

// experimentFlags holds the tunables shared by run and label.
type experimentFlags struct {
	rounds        int
	batch         int
	seedSize      int
	seedPositives int
	neighbours    int
	repetitions   int
	testFraction  float64
	seed          int64
	noBaselines   bool

	dataPath   string
	labelsPath string
	dim        int
	size       int
	positives  int
	separation float64
}

// register adds the shared flags to cmd.
func (f *experimentFlags) register(cmd *cobra.Command) {
	defaults := domain.DefaultExperimentConfig()
	cmd.Flags().IntVar(&f.rounds, "rounds", defaults.Rounds, "labeling rounds")
	cmd.Flags().IntVar(&f.batch, "batch", defaults.BatchSize, "labels per round")
	cmd.Flags().IntVar(&f.seedSize, "seed-size", defaults.SeedSize, "initial labeled seed set size")
	cmd.Flags().IntVar(&f.seedPositives, "seed-positives", defaults.SeedPositives, "known positives in the seed set")
	cmd.Flags().IntVar(&f.neighbours, "neighbours", defaults.Neighbours, "nearest neighbours per labeled point")
	cmd.Flags().IntVar(&f.repetitions, "repetitions", defaults.Repetitions, "independent repeats to average over")
	cmd.Flags().Float64Var(&f.testFraction, "test-fraction", defaults.TestFraction, "held-out evaluation fraction")
	cmd.Flags().Int64Var(&f.seed, "seed", defaults.Seed, "random seed")
	cmd.Flags().BoolVar(&f.noBaselines, "no-baselines", false, "skip the baseline algorithms")

	cmd.Flags().StringVar(&f.dataPath, "data", "", "embedding file (.f32, .f16 or .csv); synthetic data when empty")
	cmd.Flags().StringVar(&f.labelsPath, "labels", "", "labels file for .f32/.f16 embeddings")
	cmd.Flags().IntVar(&f.dim, "dim", 256, "embedding dimensionality")
	cmd.Flags().IntVar(&f.size, "size", 10000, "synthetic dataset size")
	cmd.Flags().IntVar(&f.positives, "positives", 100, "synthetic positive count")
	cmd.Flags().Float64Var(&f.separation, "separation", 4.0, "synthetic positive cluster separation")
}

// datasetSource picks the dataset source the flags describe.
func (f *experimentFlags) datasetSource(seed int64) (driven.DatasetSource, error) {
	if f.dataPath == "" {
		gen := synthetic.Default(seed)
		gen.Size = f.size
		gen.Dim = f.dim
		gen.Positives = f.positives
		gen.Separation = f.separation
		return gen, nil
	}

	switch strings.ToLower(filepath.Ext(f.dataPath)) {
	case ".csv":
		return datafile.NewCSVSource(f.dataPath), nil
	case ".f32", ".f16":
		if f.labelsPath == "" {
			return nil, fmt.Errorf("--labels is required with %s embeddings", filepath.Ext(f.dataPath))
		}
		return datafile.NewMatrixSource(f.dataPath, f.labelsPath, f.dim), nil
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", filepath.Ext(f.dataPath))
	}
}

// exportJSON writes v as indented JSON to path.
func exportJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
