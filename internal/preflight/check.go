package preflight

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Aman-CERP/dev-session-buddy/internal/toolchain"
	"github.com/Aman-CERP/dev-session-buddy/internal/ui"
)

// CheckStatus represents the result of a tool check.
type CheckStatus string

const (
	// StatusOK indicates the tool is installed and new enough.
	StatusOK CheckStatus = "ok"
	// StatusOutdated indicates the installed version is below the requirement.
	StatusOutdated CheckStatus = "outdated"
	// StatusMissing indicates the tool is not installed.
	StatusMissing CheckStatus = "missing"
	// StatusError indicates the installed version could not be determined.
	StatusError CheckStatus = "error"
)

// Icon returns the single character shown next to a result.
func (s CheckStatus) Icon() string {
	switch s {
	case StatusOK:
		return "✓"
	case StatusOutdated:
		return "!"
	default:
		return "✗"
	}
}

// CheckResult holds the result of a single tool check.
type CheckResult struct {
	Name     string      `json:"name"`
	Status   CheckStatus `json:"status"`
	Version  string      `json:"version,omitempty"`
	Required string      `json:"required,omitempty"`
	Message  string      `json:"message,omitempty"`
}

// IsFailure returns true for every status other than ok.
func (r CheckResult) IsFailure() bool {
	return r.Status != StatusOK
}

// Checker runs tool checks.
type Checker struct {
	runner       toolchain.Runner
	requirements []Requirement
	verbose      bool
	output       io.Writer
	styles       ui.Styles
}

// Option configures a Checker.
type Option func(*Checker)

// WithRunner sets the command runner used to check tools.
func WithRunner(r toolchain.Runner) Option {
	return func(c *Checker) {
		c.runner = r
	}
}

// WithRequirements replaces the default tool list.
func WithRequirements(reqs []Requirement) Option {
	return func(c *Checker) {
		c.requirements = reqs
	}
}

// WithVerbose enables verbose output.
func WithVerbose(verbose bool) Option {
	return func(c *Checker) {
		c.verbose = verbose
	}
}

// WithOutput sets the output writer.
func WithOutput(w io.Writer) Option {
	return func(c *Checker) {
		c.output = w
	}
}

// WithStyles sets the styles used by PrintResults.
func WithStyles(s ui.Styles) Option {
	return func(c *Checker) {
		c.styles = s
	}
}

// New creates a new Checker with the given options.
func New(opts ...Option) *Checker {
	c := &Checker{
		runner:       toolchain.NewShellRunner(),
		requirements: DefaultRequirements(),
		output:       os.Stdout,
		styles:       ui.NoColorStyles(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Requirements returns the tools this Checker checks.
func (c *Checker) Requirements() []Requirement {
	return c.requirements
}

// RunAll checks every requirement in order and returns the results.
func (c *Checker) RunAll(ctx context.Context) []CheckResult {
	results := make([]CheckResult, 0, len(c.requirements))
	for _, req := range c.requirements {
		results = append(results, c.Check(ctx, req))
	}
	return results
}

// Check inspects a single tool.
func (c *Checker) Check(ctx context.Context, req Requirement) CheckResult {
	result := CheckResult{Name: req.Name}

	if !toolchain.CommandExists(ctx, c.runner, req.Command) {
		result.Status = StatusMissing
		result.Message = fmt.Sprintf("%s is not installed", req.Name)
		return result
	}

	version, ok := toolchain.ToolVersion(ctx, c.runner, req.VersionCommand)
	if !ok || version == "" {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Could not determine %s version", req.Name)
		return result
	}

	result.Version = version
	result.Required = req.Required
	if toolchain.CheckVersion(version, req.Required) {
		result.Status = StatusOK
		return result
	}

	result.Status = StatusOutdated
	result.Message = fmt.Sprintf("%s version %s does not meet requirement %s", req.Name, version, req.Required)
	return result
}

// HasFailures returns true if any tool is missing, outdated or errored.
func (c *Checker) HasFailures(results []CheckResult) bool {
	for _, r := range results {
		if r.IsFailure() {
			return true
		}
	}
	return false
}

// SummaryStatus returns "ready" when every check passed and "failed" otherwise.
func (c *Checker) SummaryStatus(results []CheckResult) string {
	if c.HasFailures(results) {
		return "failed"
	}
	return "ready"
}

// PrintResults prints check results to the configured output.
func (c *Checker) PrintResults(results []CheckResult) {
	_, _ = fmt.Fprintln(c.output, c.styles.Header.Render("Dev Session Buddy Environment Check"))
	_, _ = fmt.Fprintln(c.output)

	for _, r := range results {
		line := r.Name
		if r.Version != "" {
			line += ": " + r.Version
		}
		_, _ = fmt.Fprintf(c.output, "%s %s\n", c.icon(r.Status), line)
		if r.Message != "" {
			_, _ = fmt.Fprintf(c.output, "  %s\n", c.styles.Dim.Render(r.Message))
		}
		if c.verbose && r.Required != "" {
			_, _ = fmt.Fprintf(c.output, "  %s\n", c.styles.Label.Render("required "+r.Required))
		}
	}

	_, _ = fmt.Fprintln(c.output)
	status := c.SummaryStatus(results)
	_, _ = fmt.Fprintf(c.output, "Status: %s\n", strings.ToUpper(status))

	var failed []string
	for _, r := range results {
		if r.IsFailure() {
			failed = append(failed, r.Name+": "+string(r.Status))
		}
	}
	if len(failed) > 0 {
		_, _ = fmt.Fprintln(c.output)
		_, _ = fmt.Fprintf(c.output, "%d problem(s):\n", len(failed))
		for _, f := range failed {
			_, _ = fmt.Fprintf(c.output, "  - %s\n", f)
		}
	}
}

func (c *Checker) icon(status CheckStatus) string {
	switch status {
	case StatusOK:
		return c.styles.Success.Render(status.Icon())
	case StatusOutdated:
		return c.styles.Warning.Render(status.Icon())
	default:
		return c.styles.Error.Render(status.Icon())
	}
}
