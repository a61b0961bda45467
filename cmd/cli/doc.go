// Package cli constructs the branchsweep command-line interface, wiring the
// Cobra command hierarchy, the embedded default configuration, and the zap
// logger shared by the branch commands.
package cli
