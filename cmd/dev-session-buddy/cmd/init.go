package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/dev-session-buddy/internal/config"
	dsberrors "github.com/Aman-CERP/dev-session-buddy/internal/errors"
	"github.com/Aman-CERP/dev-session-buddy/internal/output"
	"github.com/Aman-CERP/dev-session-buddy/internal/preflight"
	"github.com/Aman-CERP/dev-session-buddy/internal/template"
)

// templateFlags are the -f/-p flags shared by init and create.
type templateFlags struct {
	framework string
	preset    string
}

func (f *templateFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.framework, "framework", "f", "", "Framework to use (minimal, vue)")
	cmd.Flags().StringVarP(&f.preset, "preset", "p", "", "Configuration preset (minimal, full, team)")
}

// resolve fills unset flags from the tool configuration.
func (f templateFlags) resolve(cfg *config.Config) (framework, preset string) {
	framework, preset = f.framework, f.preset
	if framework == "" {
		framework = cfg.Templates.DefaultFramework
	}
	if preset == "" {
		preset = cfg.Templates.DefaultPreset
	}
	return framework, preset
}

func newInitCmd(opts *rootOptions) *cobra.Command {
	var flags templateFlags

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize Dev Session Buddy in an existing project",
		Long: `Apply a template to the current directory.

Template files are copied next to your existing files (files with the same
name are overwritten) and dev-session-buddy.yaml is written with the
template configuration, the chosen preset and a creation timestamp.`,
		Example: `  # Minimal template with the full preset
  dev-session-buddy init

  # Vue template with the team preset
  dev-session-buddy init -f vue -p team`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return dsberrors.InternalError("failed to get current directory", err)
			}
			return runInit(cmd, opts, flags, cwd)
		},
	}

	flags.bind(cmd)
	return cmd
}

func runInit(cmd *cobra.Command, opts *rootOptions, flags templateFlags, projectDir string) error {
	out := output.New(cmd.OutOrStdout())

	if _, err := applyTemplate(cmd.Context(), opts, flags, projectDir); err != nil {
		out.Error("Initialization failed")
		return err
	}

	out.Success("Dev Session Buddy initialized successfully!")
	out.Steps("Next steps:",
		"Review the configuration in "+template.ConfigFile,
		"Run ./session-start.sh to begin your development session",
	)
	if preflight.NeedsCheck(stateDir()) {
		out.Newline()
		out.Dim("Tip: run 'dev-session-buddy doctor' to check your environment")
	}
	return nil
}

// applyTemplate resolves settings and templates root, then applies the template.
func applyTemplate(ctx context.Context, opts *rootOptions, flags templateFlags, projectDir string) (*template.Result, error) {
	cfg, err := opts.settings()
	if err != nil {
		return nil, err
	}
	root, release, err := opts.templatesRoot(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer release()
	framework, preset := flags.resolve(cfg)

	slog.Debug("applying template",
		slog.String("project_dir", projectDir),
		slog.String("framework", framework),
		slog.String("preset", preset),
		slog.String("templates_root", root))

	locator := template.NewLocator(root)
	result, err := template.NewManager(locator).ApplyWithResult(projectDir, framework, preset)
	if err != nil {
		return nil, withTemplateHint(err, locator, framework)
	}
	return result, nil
}

// withTemplateHint suggests the available templates when framework does not exist.
func withTemplateHint(err error, locator *template.Locator, framework string) error {
	var be *dsberrors.BuddyError
	if !errors.As(err, &be) || be.Suggestion != "" {
		return err
	}

	available, listErr := locator.Available()
	if listErr != nil || slices.Contains(available, framework) {
		return err
	}
	if len(available) == 0 {
		be.WithSuggestion("No templates found in " + locator.Root())
		return err
	}
	be.WithSuggestion("Available templates: " + strings.Join(available, ", "))
	return err
}
