// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DatasetSource: Loads the feature vectors and labels
//   - VectorIndex: Nearest-neighbour search over feature vectors
//   - Classifier: Binary classifier retrained each round
//   - Oracle: Supplies ground-truth labels on request
//   - ResultStore: Run and round-metrics persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - Plotter: Figure rendering. Without it, runs still produce a
//     metrics log and JSON export; only the plot file is skipped.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
