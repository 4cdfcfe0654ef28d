package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	dsberrors "github.com/Aman-CERP/dev-session-buddy/internal/errors"
	"github.com/Aman-CERP/dev-session-buddy/internal/output"
	"github.com/Aman-CERP/dev-session-buddy/internal/template"
	"github.com/Aman-CERP/dev-session-buddy/internal/ui"
)

func newCreateCmd(opts *rootOptions, use string) *cobra.Command {
	var flags templateFlags

	cmd := &cobra.Command{
		Use:   use,
		Short: "Create a new project with Dev Session Buddy",
		Long: `Create a new project directory under the current directory and apply
a template to it.

When no name is given and the terminal is interactive, the name is asked for.`,
		Example: `  # Create ./my-app from the minimal template
  dev-session-buddy create my-app

  # Create a Vue project with the team preset
  dev-session-buddy create my-app -f vue -p team`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) > 0 {
				name = args[0]
			}
			return runCreate(cmd, opts, flags, name)
		},
	}

	flags.bind(cmd)
	return cmd
}

func runCreate(cmd *cobra.Command, opts *rootOptions, flags templateFlags, name string) error {
	name, err := projectName(cmd, opts, name)
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return dsberrors.InternalError("failed to get current directory", err)
	}

	out := output.New(cmd.OutOrStdout())
	out.Statusf("→", "Creating new project in %s", filepath.Join(cwd, name))

	result, err := applyTemplate(cmd.Context(), opts, flags, filepath.Join(cwd, name))
	if err != nil {
		out.Error("Project creation failed")
		return err
	}

	out.Success("Project created successfully!")
	out.Steps("Next steps:", nextSteps(name, result)...)
	return nil
}

// projectName validates name, asking for it when empty on an interactive terminal.
func projectName(cmd *cobra.Command, opts *rootOptions, name string) (string, error) {
	if name != "" {
		return strings.TrimSpace(name), validateProjectName(name)
	}

	in := cmd.InOrStdin()
	if !opts.interactive(in) {
		return "", dsberrors.New(dsberrors.ErrCodeInvalidProjectName, "project name is required", nil).
			WithSuggestion("Pass the name as an argument, e.g. 'dev-session-buddy create my-app'")
	}

	answer, err := ui.Prompt(cmd.OutOrStdout(), in, "What is your project name?", validateProjectName)
	if err != nil {
		return "", dsberrors.New(dsberrors.ErrCodeInvalidProjectName, "no project name given", err)
	}
	return strings.TrimSpace(answer), nil
}

// validateProjectName accepts a single directory name below the current directory.
func validateProjectName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return dsberrors.New(dsberrors.ErrCodeInvalidProjectName, "Project name is required", nil)
	}
	if name == "." || strings.ContainsAny(name, `/\`) || !filepath.IsLocal(name) {
		return dsberrors.New(dsberrors.ErrCodeInvalidProjectName,
			fmt.Sprintf("invalid project name %q: use a single directory name", name), nil)
	}
	return nil
}

// nextSteps depends on whether the template produced an npm project.
func nextSteps(name string, result *template.Result) []string {
	steps := []string{"cd " + name}
	for _, path := range result.Generated {
		if filepath.Base(path) == template.ManifestFile {
			return append(steps, "npm install", "npm run dev")
		}
	}
	return append(steps, "./session-start.sh")
}
