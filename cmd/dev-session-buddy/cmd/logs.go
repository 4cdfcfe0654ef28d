package cmd

import (
	"context"
	"fmt"
	"io"
	"regexp"

	"github.com/spf13/cobra"

	dsberrors "github.com/Aman-CERP/dev-session-buddy/internal/errors"
	"github.com/Aman-CERP/dev-session-buddy/internal/logging"
	"github.com/Aman-CERP/dev-session-buddy/internal/ui"
)

type logsOptions struct {
	follow  bool
	lines   int
	level   string
	filter  string
	noColor bool
	logFile string
}

func newLogsCmd() *cobra.Command {
	var opts logsOptions

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "View debug logs",
		Long: `View the debug log written by commands run with --debug.

By default, shows the last 50 lines of ~/.dev-session-buddy/logs/cli.log.
Use -f to follow new entries (like 'tail -f').`,
		Example: `  dev-session-buddy logs                    # Show last 50 lines
  dev-session-buddy logs -n 100             # Show last 100 lines
  dev-session-buddy logs -f                 # Follow logs in real-time
  dev-session-buddy logs --level error      # Show only error logs
  dev-session-buddy logs --filter template  # Filter by pattern`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogs(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.follow, "follow", "f", false, "Follow log output (like tail -f)")
	cmd.Flags().IntVarP(&opts.lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().StringVar(&opts.level, "level", "", "Filter by log level (debug|info|warn|error)")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "Filter by keyword/pattern (regex)")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().StringVar(&opts.logFile, "file", "", "Path to log file")

	return cmd
}

func runLogs(ctx context.Context, stdout, stderr io.Writer, opts logsOptions) error {
	if opts.lines < 1 {
		return dsberrors.ValidationError(fmt.Sprintf("--lines must be positive, got %d", opts.lines), nil)
	}

	path, err := logging.FindLogFile(opts.logFile)
	if err != nil {
		return dsberrors.Wrap(dsberrors.ErrCodeFileNotFound, err)
	}

	var pattern *regexp.Regexp
	if opts.filter != "" {
		pattern, err = regexp.Compile(opts.filter)
		if err != nil {
			return dsberrors.ValidationError("invalid filter pattern", err)
		}
	}

	styles := ui.StylesFor(stdout)
	if opts.noColor {
		styles = ui.NoColorStyles()
	}
	viewer := logging.NewViewer(logging.ViewerConfig{
		Level:   opts.level,
		Pattern: pattern,
		Styles:  styles,
	}, stdout)

	_, _ = fmt.Fprintf(stderr, "Log file: %s\n", path)
	if opts.follow {
		_, _ = fmt.Fprintln(stderr, "Following... (Ctrl+C to stop)")
	}
	_, _ = fmt.Fprintln(stderr, "---")

	if opts.follow {
		return followLogs(ctx, stdout, stderr, viewer, path)
	}

	entries, err := viewer.Tail(path, opts.lines)
	if err != nil {
		return dsberrors.ReadError("failed to read log file", err).WithDetail("path", path)
	}
	viewer.Print(entries)
	return nil
}

// followLogs prints new entries until ctx is cancelled.
func followLogs(ctx context.Context, stdout, stderr io.Writer, viewer *logging.Viewer, path string) error {
	entries := make(chan logging.LogEntry, 100)
	errCh := make(chan error, 1)

	go func() {
		errCh <- viewer.Follow(ctx, path, entries)
	}()

	for {
		select {
		case entry := <-entries:
			_, _ = fmt.Fprintln(stdout, viewer.FormatEntry(entry))
		case err := <-errCh:
			return err
		case <-ctx.Done():
			_, _ = fmt.Fprintln(stderr, "\n---")
			_, _ = fmt.Fprintln(stderr, "Stopped.")
			return nil
		}
	}
}
