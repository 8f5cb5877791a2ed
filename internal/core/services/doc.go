// Package services implements the driving port interfaces.
// Services contain the core experiment logic - the SEALS learner, the
// selection strategies, the baselines and the round loop - and
// orchestrate calls to driven ports (adapters).
//
// Services are pure Go with no CGO dependencies.
package services
