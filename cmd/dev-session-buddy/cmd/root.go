// Package cmd provides the CLI commands for dev-session-buddy.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/dev-session-buddy/internal/config"
	dsberrors "github.com/Aman-CERP/dev-session-buddy/internal/errors"
	"github.com/Aman-CERP/dev-session-buddy/internal/logging"
	"github.com/Aman-CERP/dev-session-buddy/internal/template"
	"github.com/Aman-CERP/dev-session-buddy/internal/ui"
	"github.com/Aman-CERP/dev-session-buddy/pkg/version"
)

// rootOptions holds the global flags and process-wide hooks shared by all commands.
type rootOptions struct {
	debug        bool
	templatesDir string

	// interactive reports whether prompts may read from the given input.
	interactive func(io.Reader) bool

	loggingCleanup func()
}

func newRootOptions() *rootOptions {
	return &rootOptions{interactive: canPrompt}
}

// canPrompt reports whether r is a terminal outside CI.
func canPrompt(r io.Reader) bool {
	return ui.IsInteractive(r) && !ui.DetectCI()
}

// bind registers the global flags and logging hooks on cmd.
func (o *rootOptions) bind(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(&o.debug, "debug", false, "Enable debug logging to ~/.dev-session-buddy/logs/")
	cmd.PersistentFlags().StringVar(&o.templatesDir, "templates-dir", "", "Templates root directory (overrides configuration)")

	cmd.PersistentPreRunE = o.startLogging
	cmd.PersistentPostRunE = func(*cobra.Command, []string) error {
		o.stopLogging()
		return nil
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
}

// startLogging installs the debug file logger, or a discard logger without --debug.
func (o *rootOptions) startLogging(cmd *cobra.Command, _ []string) error {
	if !o.debug {
		slog.SetDefault(logging.Discard())
		return nil
	}

	cfg := logging.DebugConfig()
	if settings, err := config.Load(); err == nil {
		cfg.Level = settings.Logging.Level
	}

	logger, cleanup, err := logging.Setup(cfg)
	if err != nil {
		return fmt.Errorf("failed to setup debug logging: %w", err)
	}
	o.loggingCleanup = cleanup
	slog.SetDefault(logger)
	slog.Info("debug logging enabled",
		slog.String("command", cmd.CommandPath()),
		slog.String("log_file", cfg.FilePath),
		slog.String("version", version.Version))
	return nil
}

func (o *rootOptions) stopLogging() {
	if o.loggingCleanup != nil {
		slog.Debug("debug logging stopped")
		o.loggingCleanup()
		o.loggingCleanup = nil
	}
}

// settings loads the tool configuration and applies --templates-dir.
func (o *rootOptions) settings() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.templatesDir != "" {
		cfg.Templates.Root = o.templatesDir
	}
	return cfg, nil
}

// templatesRoot returns the configured templates root, extracting the
// built-in templates when none is configured. release must be called once
// the templates have been read.
func (o *rootOptions) templatesRoot(ctx context.Context, cfg *config.Config) (root string, release func(), err error) {
	if cfg.Templates.Root != "" {
		root, err = filepath.Abs(cfg.Templates.Root)
		return root, func() {}, err
	}
	b, err := template.OpenBuiltin(ctx)
	if err != nil {
		return "", nil, dsberrors.InternalError("failed to prepare built-in templates", err)
	}
	release = func() {
		if err := b.Release(); err != nil {
			slog.Warn("failed to release template cache", slog.String("error", err.Error()))
		}
	}
	return b.Root, release, nil
}

// NewRootCmd creates the root command for the dev-session-buddy CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newRootOptions())
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev-session-buddy",
		Short: "Dev Session Buddy - Your AI-Powered Development Companion",
		Long: `Dev Session Buddy scaffolds projects from templates and checks that
your development environment has the tools a session needs.

Start with 'dev-session-buddy doctor', then 'dev-session-buddy init' in an
existing project or 'dev-session-buddy create <name>' for a new one.`,
		Version: version.Version,
	}

	cmd.SetVersionTemplate("dev-session-buddy version {{.Version}}\n")
	opts.bind(cmd)

	cmd.AddCommand(newDoctorCmd(opts))
	cmd.AddCommand(newInitCmd(opts))
	cmd.AddCommand(newCreateCmd(opts, "create [name]"))
	cmd.AddCommand(newTemplatesCmd(opts))
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newLogsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// newCreateRootCmd creates the standalone create-dev-session-buddy command.
func newCreateRootCmd(opts *rootOptions) *cobra.Command {
	cmd := newCreateCmd(opts, "create-dev-session-buddy [name]")
	cmd.Version = version.Version
	cmd.SetVersionTemplate("create-dev-session-buddy version {{.Version}}\n")
	opts.bind(cmd)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	opts := newRootOptions()
	return execute(newRootCmd(opts), opts)
}

// ExecuteCreate runs the standalone create command.
func ExecuteCreate() error {
	opts := newRootOptions()
	return execute(newCreateRootCmd(opts), opts)
}

func execute(cmd *cobra.Command, opts *rootOptions) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ran, err := cmd.ExecuteContextC(ctx)
	if err != nil {
		logFailure(ctx, err)
		opts.printError(cmd.ErrOrStderr(), err, wantsJSON(ran))
	}
	// PersistentPostRunE is skipped when RunE fails
	opts.stopLogging()
	return err
}

// logFailure records err in the debug log. Validation failures are user
// mistakes and log at WARN.
func logFailure(ctx context.Context, err error) {
	level := slog.LevelError
	if dsberrors.GetCategory(err) == dsberrors.CategoryValidation {
		level = slog.LevelWarn
	}
	slog.Log(ctx, level, "command failed", slog.Any("error", dsberrors.FormatForLog(err)))
}

// printError writes err as JSON for --json runs, with its cause under
// --debug, and in the short CLI form otherwise.
func (o *rootOptions) printError(w io.Writer, err error, asJSON bool) {
	switch {
	case asJSON:
		data, jerr := dsberrors.FormatJSON(err)
		if jerr == nil {
			_, _ = fmt.Fprintln(w, string(data))
			return
		}
	case o.debug:
		_, _ = fmt.Fprintln(w, dsberrors.FormatForUser(err, true))
		return
	}
	_, _ = fmt.Fprint(w, dsberrors.FormatForCLI(err))
}

// wantsJSON reports whether cmd ran with --json set.
func wantsJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}
	f := cmd.Flags().Lookup("json")
	return f != nil && f.Changed && f.Value.String() == "true"
}
