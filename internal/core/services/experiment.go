package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/seals-cli/internal/core/domain"
	"github.com/custodia-labs/seals-cli/internal/core/ports/driven"
	"github.com/custodia-labs/seals-cli/internal/core/ports/driving"
	"github.com/custodia-labs/seals-cli/internal/logger"
)

// Ensure ExperimentService implements the interface.
var _ driving.ExperimentService = (*ExperimentService)(nil)

// ExperimentService drives the experiment: it loads the dataset, builds
// the index, runs the SEALS loop and the baselines for each repetition,
// and records round metrics through the result store.
type ExperimentService struct {
	source        driven.DatasetSource
	results       driven.ResultStore
	newIndex      driven.IndexFactory
	newClassifier driven.ClassifierFactory
	newOracle     driven.OracleFactory
}

// NewExperimentService creates the experiment driver.
func NewExperimentService(
	source driven.DatasetSource,
	results driven.ResultStore,
	newIndex driven.IndexFactory,
	newClassifier driven.ClassifierFactory,
	newOracle driven.OracleFactory,
) *ExperimentService {
	return &ExperimentService{
		source:        source,
		results:       results,
		newIndex:      newIndex,
		newClassifier: newClassifier,
		newOracle:     newOracle,
	}
}

// algorithmSpec describes one line on the figure.
type algorithmSpec struct {
	name        string
	restrict    bool
	newStrategy func(rng *rand.Rand) SelectionStrategy
}

// Run executes one experiment and returns the completed result.
func (s *ExperimentService) Run(ctx context.Context, cfg domain.ExperimentConfig) (*domain.RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger.Section("Experiment")
	dataset, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	logger.Info("Dataset: %d examples, dim %d, %d positives", dataset.Len(), dataset.Dim(), dataset.Positives())

	if dataset.Positives() == 0 {
		return nil, fmt.Errorf("%w: dataset has no positive examples", domain.ErrEmptyDataset)
	}

	run := &domain.RunResult{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Config:    cfg,
	}
	if err := s.results.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}

	specs := []algorithmSpec{
		{
			name:        domain.AlgorithmSEALS,
			restrict:    true,
			newStrategy: func(*rand.Rand) SelectionStrategy { return NewMaxEntropyStrategy() },
		},
	}
	if cfg.Baselines {
		specs = append(specs,
			algorithmSpec{
				name:        domain.AlgorithmMaxEntAll,
				restrict:    false,
				newStrategy: func(*rand.Rand) SelectionStrategy { return NewMaxEntropyStrategy() },
			},
			algorithmSpec{
				name:        domain.AlgorithmRandomAll,
				restrict:    false,
				newStrategy: func(rng *rand.Rand) SelectionStrategy { return NewRandomStrategy(rng) },
			},
		)
	}

	for rep := 0; rep < cfg.Repetitions; rep++ {
		if err := s.runRepetition(ctx, run, rep, dataset, specs); err != nil {
			return nil, fmt.Errorf("repetition %d: %w", rep, err)
		}
	}

	return run, nil
}

// runRepetition executes every algorithm once over a fresh split, seed
// set and index, all derived deterministically from the config seed.
func (s *ExperimentService) runRepetition(
	ctx context.Context,
	run *domain.RunResult,
	rep int,
	dataset *domain.Dataset,
	specs []algorithmSpec,
) error {
	cfg := run.Config
	rng := rand.New(rand.NewSource(cfg.Seed + int64(rep)))

	trainIdx, testIdx, err := stratifiedSplit(rng, dataset, cfg.TestFraction)
	if err != nil {
		return err
	}
	train, err := dataset.Subset(trainIdx)
	if err != nil {
		return fmt.Errorf("train split: %w", err)
	}
	test, err := dataset.Subset(testIdx)
	if err != nil {
		return fmt.Errorf("test split: %w", err)
	}
	logger.Info("Repetition %d: train %d (%d positives), test %d (%d positives)",
		rep, train.Len(), train.Positives(), test.Len(), test.Positives())

	seedIDs, err := seedSet(rng, train, cfg.SeedSize, cfg.SeedPositives)
	if err != nil {
		return err
	}

	// One index per repetition, shared by every algorithm.
	index := s.newIndex(train.Dim())
	if err := index.Build(ctx, train.Vectors()); err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	logger.Debug("Index built over %d vectors", index.Len())

	oracle := s.newOracle(train)

	for algIdx, spec := range specs {
		algRng := rand.New(rand.NewSource(cfg.Seed + int64(rep)*1000003 + int64(algIdx)*101))
		series, err := s.runAlgorithm(ctx, run.ID, rep, cfg, spec, train, test, index, oracle, seedIDs, algRng)
		if err != nil {
			return fmt.Errorf("%s: %w", spec.name, err)
		}
		run.Series = append(run.Series, *series)
	}

	if cfg.Baselines {
		series, err := s.runFullSupervision(ctx, run.ID, rep, cfg, train, test)
		if err != nil {
			return fmt.Errorf("%s: %w", domain.AlgorithmFullSupervision, err)
		}
		run.Series = append(run.Series, *series)
	}

	return nil
}

// runAlgorithm executes the round loop for one learner configuration.
// Per round: retrain, evaluate, select, label, absorb. Evaluation
// happens after retraining and before the new batch joins the pool, so
// round N scores a classifier trained on N batches.
func (s *ExperimentService) runAlgorithm(
	ctx context.Context,
	runID string,
	rep int,
	cfg domain.ExperimentConfig,
	spec algorithmSpec,
	train, test *domain.Dataset,
	index driven.VectorIndex,
	oracle driven.Oracle,
	seedIDs []uint32,
	rng *rand.Rand,
) (*domain.Series, error) {
	logger.Section(spec.name)

	learner := NewLearner(train, index, s.newClassifier(train.Dim()), spec.newStrategy(rng), cfg.Neighbours, spec.restrict)

	for _, id := range seedIDs {
		if err := s.labelInto(ctx, learner, oracle, id); err != nil {
			return nil, fmt.Errorf("seed labeling: %w", err)
		}
	}

	log := &domain.MetricsLog{}
	for round := 0; round < cfg.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := learner.Fit(ctx); err != nil {
			return nil, fmt.Errorf("round %d: %w", round, err)
		}

		m, err := evaluate(ctx, learner.Classifier(), test, round, learner.Pool().LabeledCount(), learner.Positives())
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", round, err)
		}
		if err := log.Append(m); err != nil {
			return nil, err
		}
		if err := s.results.AppendRound(ctx, runID, spec.name, rep, m); err != nil {
			return nil, fmt.Errorf("round %d: persist metrics: %w", round, err)
		}
		logger.Info("Round %d: labeled=%d positives=%d recall=%.3f ap=%.3f",
			round, m.Labeled, m.Positives, m.Recall, m.AveragePrecision)

		batch, err := learner.SelectBatch(ctx, cfg.BatchSize)
		if err != nil {
			if errors.Is(err, domain.ErrPoolExhausted) {
				logger.Info("Unlabeled pool exhausted after round %d", round)
				break
			}
			return nil, fmt.Errorf("round %d: %w", round, err)
		}

		for _, id := range batch {
			if err := s.labelInto(ctx, learner, oracle, id); err != nil {
				return nil, fmt.Errorf("round %d: %w", round, err)
			}
		}
	}

	return &domain.Series{Algorithm: spec.name, Repetition: rep, Rounds: log.Rounds()}, nil
}

// runFullSupervision trains once on the fully labeled training split
// and replicates the scores across all rounds, giving the constant
// upper-reference line from the figure.
func (s *ExperimentService) runFullSupervision(
	ctx context.Context,
	runID string,
	rep int,
	cfg domain.ExperimentConfig,
	train, test *domain.Dataset,
) (*domain.Series, error) {
	logger.Section(domain.AlgorithmFullSupervision)

	classifier := s.newClassifier(train.Dim())
	if err := classifier.Fit(ctx, train.Vectors(), train.Labels()); err != nil {
		return nil, fmt.Errorf("fit on full training split: %w", err)
	}

	base, err := evaluate(ctx, classifier, test, 0, train.Len(), train.Positives())
	if err != nil {
		return nil, err
	}

	log := &domain.MetricsLog{}
	for round := 0; round < cfg.Rounds; round++ {
		m := base
		m.Round = round
		if err := log.Append(m); err != nil {
			return nil, err
		}
		if err := s.results.AppendRound(ctx, runID, domain.AlgorithmFullSupervision, rep, m); err != nil {
			return nil, fmt.Errorf("persist metrics: %w", err)
		}
	}

	return &domain.Series{Algorithm: domain.AlgorithmFullSupervision, Repetition: rep, Rounds: log.Rounds()}, nil
}

// labelInto asks the oracle for one label and feeds it to the learner.
func (s *ExperimentService) labelInto(ctx context.Context, learner *Learner, oracle driven.Oracle, id uint32) error {
	label, err := oracle.Label(ctx, id)
	if err != nil {
		return fmt.Errorf("label %d: %w", id, err)
	}
	if err := learner.Observe(ctx, id, label); err != nil {
		return fmt.Errorf("observe %d: %w", id, err)
	}
	return nil
}

// stratifiedSplit shuffles positives and negatives separately and holds
// out fraction of each for the test split, so both splits keep positive
// examples whenever the dataset has enough of them.
func stratifiedSplit(rng *rand.Rand, dataset *domain.Dataset, fraction float64) (train, test []uint32, err error) {
	var pos, neg []uint32
	for i := 0; i < dataset.Len(); i++ {
		if dataset.Label(i) == 1 {
			pos = append(pos, uint32(i))
		} else {
			neg = append(neg, uint32(i))
		}
	}

	rng.Shuffle(len(pos), func(i, j int) { pos[i], pos[j] = pos[j], pos[i] })
	rng.Shuffle(len(neg), func(i, j int) { neg[i], neg[j] = neg[j], neg[i] })

	testPos := int(float64(len(pos)) * fraction)
	if testPos == 0 && len(pos) > 1 {
		testPos = 1
	}
	testNeg := int(float64(len(neg)) * fraction)
	if testNeg == 0 && len(neg) > 1 {
		testNeg = 1
	}

	test = append(test, pos[:testPos]...)
	test = append(test, neg[:testNeg]...)
	train = append(train, pos[testPos:]...)
	train = append(train, neg[testNeg:]...)

	if len(train) == 0 || len(test) == 0 {
		return nil, nil, fmt.Errorf("%w: dataset too small to split", domain.ErrEmptyDataset)
	}

	// Subset preserves order, so shuffle the train side once more to
	// avoid a positives-first layout.
	rng.Shuffle(len(train), func(i, j int) { train[i], train[j] = train[j], train[i] })

	return train, test, nil
}

// seedSet picks the initial labeled set for a repetition: seedPositives
// known positives plus random negatives, identical for every algorithm.
// Ids are positions in the training split.
func seedSet(rng *rand.Rand, train *domain.Dataset, seedSize, seedPositives int) ([]uint32, error) {
	pos := train.PositiveIndices()
	if len(pos) < seedPositives {
		return nil, fmt.Errorf("training split has %d positives, need %d for the seed set", len(pos), seedPositives)
	}

	var neg []uint32
	for i := 0; i < train.Len(); i++ {
		if train.Label(i) == 0 {
			neg = append(neg, uint32(i))
		}
	}
	if len(neg) < seedSize-seedPositives {
		return nil, fmt.Errorf("training split has %d negatives, need %d for the seed set", len(neg), seedSize-seedPositives)
	}

	rng.Shuffle(len(pos), func(i, j int) { pos[i], pos[j] = pos[j], pos[i] })
	rng.Shuffle(len(neg), func(i, j int) { neg[i], neg[j] = neg[j], neg[i] })

	out := make([]uint32, 0, seedSize)
	out = append(out, pos[:seedPositives]...)
	out = append(out, neg[:seedSize-seedPositives]...)
	return out, nil
}
