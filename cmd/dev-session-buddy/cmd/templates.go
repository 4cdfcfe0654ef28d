package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	dsberrors "github.com/Aman-CERP/dev-session-buddy/internal/errors"
	"github.com/Aman-CERP/dev-session-buddy/internal/output"
	"github.com/Aman-CERP/dev-session-buddy/internal/template"
)

func newTemplatesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect available templates",
	}
	cmd.AddCommand(newTemplatesListCmd(opts))
	return cmd
}

// templatesJSON is the structure for JSON output.
type templatesJSON struct {
	Root      string   `json:"root"`
	Default   string   `json:"default"`
	Presets   []string `json:"presets"`
	Templates []string `json:"templates"`
}

func newTemplatesListCmd(opts *rootOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List templates in the templates root",
		Long: `List the frameworks that can be passed to --framework.

A framework is any directory under the templates root holding a
config-template.yaml. The default framework is marked with '*'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.settings()
			if err != nil {
				return err
			}
			root, release, err := opts.templatesRoot(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer release()

			names, err := template.NewLocator(root).Available()
			if err != nil {
				return dsberrors.ReadError("failed to list templates", err).WithDetail("root", root)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(templatesJSON{
					Root:      root,
					Default:   cfg.Templates.DefaultFramework,
					Presets:   template.Presets(),
					Templates: append([]string{}, names...),
				})
			}

			out := output.New(cmd.OutOrStdout())
			out.Statusf("", "Templates root: %s", root)
			out.Newline()
			if len(names) == 0 {
				out.Warning("No templates found")
				return nil
			}
			for _, name := range names {
				marker := " "
				if name == cfg.Templates.DefaultFramework {
					marker = "*"
				}
				_, _ = fmt.Fprintf(out.Out(), "%s %s\n", marker, name)
			}
			out.Newline()
			out.Dim("Presets: " + strings.Join(template.Presets(), ", "))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
