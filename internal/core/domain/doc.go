// Package domain defines the core entities for the SEALS experiment runner.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types:
//
//   - Dataset: An immutable collection of feature vectors with labels
//   - Pool: The labeled/unlabeled partition of dataset indices
//   - MetricsLog: The append-only per-round score record
//   - RunResult: A completed experiment run with all algorithm series
//   - ExperimentConfig: Tunables for a run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import the Go
// standard library and the roaring bitmap library used to represent
// index sets. All other packages depend on domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, github.com/RoaringBitmap/roaring
//   - Cannot Import: Any internal/ package, any adapter dependency
package domain
