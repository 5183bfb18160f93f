// Package ptxgen provides public constants for external tools integrating
// with the ptxgen CLI.
package ptxgen

// Exit codes returned by the ptxgen CLI.
// These constants allow build scripts to check exit codes symbolically
// rather than using magic numbers.
const (
	// ExitSuccess indicates the command completed normally. A generate run
	// that counted per-unit compile failures still exits with this code.
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure: a missing compiler executable
	// or input directory, or a pruning postcondition that did not hold.
	ExitFailure = 1

	// ExitConfigError indicates a configuration error (invalid config file,
	// invalid flag combination, etc.).
	ExitConfigError = 2
)
