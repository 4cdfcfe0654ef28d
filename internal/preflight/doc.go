// Package preflight checks that the external tools a development session
// relies on are installed and recent enough.
//
// Each Requirement names a command, the command line that prints its
// version and the minimum version accepted. A check ends in one of four
// states:
//   - ok: installed and new enough
//   - outdated: installed but older than required
//   - missing: the command is not on PATH
//   - error: installed but its version could not be read
//
// Use the Checker type to run all checks:
//
//	checker := preflight.New(preflight.WithRunner(toolchain.NewShellRunner()))
//	results := checker.RunAll(ctx)
//	if checker.HasFailures(results) {
//	    // Handle failures
//	}
package preflight
