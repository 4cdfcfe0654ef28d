package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	dsberrors "github.com/Aman-CERP/dev-session-buddy/internal/errors"
	"github.com/Aman-CERP/dev-session-buddy/internal/preflight"
	"github.com/Aman-CERP/dev-session-buddy/internal/toolchain"
	"github.com/Aman-CERP/dev-session-buddy/internal/ui"
)

// stateDir holds data kept between runs, such as the doctor marker.
func stateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".dev-session-buddy")
	}
	return filepath.Join(home, ".dev-session-buddy")
}

// newRunner is replaced in tests.
var newRunner = func() toolchain.Runner { return toolchain.NewShellRunner() }

func newDoctorCmd(opts *rootOptions) *cobra.Command {
	var (
		verbose    bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check development environment setup",
		Long: `Check that the tools a development session relies on are installed
and recent enough.

Default checks:
  - Node.js >= 16.0.0
  - npm >= 8.0.0
  - Git >= 2.0.0
  - yq >= 4.0.0

The list can be replaced under doctor.tools in the user configuration.
Exits with status 1 if any tool is missing, outdated or reports no version.`,
		Example: `  # Run diagnostics
  dev-session-buddy doctor

  # Show required versions too
  dev-session-buddy doctor --verbose

  # JSON output for scripting
  dev-session-buddy doctor --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts, verbose, jsonOutput)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show required versions")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runDoctor(cmd *cobra.Command, opts *rootOptions, verbose, jsonOutput bool) error {
	cfg, err := opts.settings()
	if err != nil {
		return err
	}

	checker := preflight.New(
		preflight.WithRunner(newRunner()),
		preflight.WithRequirements(cfg.Doctor.Tools),
		preflight.WithVerbose(verbose),
		preflight.WithOutput(cmd.OutOrStdout()),
		preflight.WithStyles(ui.StylesFor(cmd.OutOrStdout())),
	)

	results := checker.RunAll(cmd.Context())
	for _, r := range results {
		slog.Debug("doctor check",
			slog.String("tool", r.Name),
			slog.String("status", string(r.Status)),
			slog.String("version", r.Version))
	}

	dir := stateDir()
	failed := checker.HasFailures(results)

	if jsonOutput {
		if err := outputDoctorJSON(cmd, checker, results); err != nil {
			return err
		}
	} else {
		checker.PrintResults(results)
		if age := preflight.MarkerAge(dir); age > 0 && failed {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nLast successful check: %s ago\n", formatDuration(age))
		}
	}

	if failed {
		if err := preflight.ClearMarker(dir); err != nil {
			slog.Debug("failed to clear doctor marker", slog.String("error", err.Error()))
		}
		return dsberrors.CommandError("environment check failed", nil).
			WithSuggestion("Install or upgrade the tools marked above, then run 'dev-session-buddy doctor' again")
	}

	if err := preflight.MarkPassed(dir); err != nil {
		slog.Debug("failed to mark doctor as passed", slog.String("error", err.Error()))
	}
	return nil
}

// doctorJSON is the structure for JSON output.
type doctorJSON struct {
	Status string                  `json:"status"`
	Checks []preflight.CheckResult `json:"checks"`
	Errors []string                `json:"errors,omitempty"`
}

func outputDoctorJSON(cmd *cobra.Command, checker *preflight.Checker, results []preflight.CheckResult) error {
	out := doctorJSON{
		Status: checker.SummaryStatus(results),
		Checks: results,
	}
	for _, r := range results {
		if r.IsFailure() {
			out.Errors = append(out.Errors, r.Name+": "+r.Message)
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// formatDuration renders d in the largest whole unit.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Hour:
		return "less than 1 hour"
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	default:
		return plural(int(d.Hours()/24), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
