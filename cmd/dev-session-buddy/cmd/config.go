package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/dev-session-buddy/configs"
	"github.com/Aman-CERP/dev-session-buddy/internal/config"
	dsberrors "github.com/Aman-CERP/dev-session-buddy/internal/errors"
	"github.com/Aman-CERP/dev-session-buddy/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage user configuration",
		Long: `Manage the user configuration file.

User configuration holds settings that apply to every project on this
machine:
  - Templates root and default framework/preset
  - Tools checked by 'doctor'
  - Debug log level

Configuration precedence (lowest to highest):
  1. Hardcoded defaults
  2. User config (~/.config/dev-session-buddy/config.yaml)
  3. Environment variables (DSB_*)
  4. Command-line flags`,
		Example: `  # Create user config from template
  dev-session-buddy config init

  # Show effective configuration
  dev-session-buddy config show

  # Print user config file path
  dev-session-buddy config path`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigBackupCmd())
	cmd.AddCommand(newConfigRestoreCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create user configuration file",
		Long: `Create the user configuration file from a commented template.

The file is created at ~/.config/dev-session-buddy/config.yaml
(or $XDG_CONFIG_HOME/dev-session-buddy/config.yaml if XDG_CONFIG_HOME is set).

With --force an existing file is backed up and missing settings are
filled with their defaults. Existing values are kept.`,
		Example: `  # Create user config
  dev-session-buddy config init

  # Add settings introduced by a newer version
  dev-session-buddy config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Upgrade an existing configuration")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var (
		jsonOutput bool
		source     string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long: `Show the configuration after merging defaults, the user file and
environment variables.`,
		Example: `  # Show merged configuration
  dev-session-buddy config show

  # Show as JSON
  dev-session-buddy config show --json

  # Show only the user file
  dev-session-buddy config show --source user`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, jsonOutput, source)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&source, "source", "merged", "Config source: merged, user, defaults")

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print user config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), config.GetUserConfigPath())
			return err
		},
	}
}

func newConfigBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Back up the user config file",
		Long: fmt.Sprintf(`Copy the user config file to a timestamped backup next to it.
Only the %d newest backups are kept.`, config.MaxBackups),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := output.New(cmd.OutOrStdout())
			path, err := config.BackupUserConfig()
			if err != nil {
				return dsberrors.IOError("failed to back up user configuration", err)
			}
			if path == "" {
				out.Warning("No user configuration file found")
				out.Statusf("", "Expected at: %s", config.GetUserConfigPath())
				return nil
			}
			out.Success("Configuration backed up")
			out.Statusf("", "Backup: %s", path)
			return nil
		},
	}
}

func newConfigRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore [backup]",
		Short: "Restore the user config file from a backup",
		Long: `Restore the user config file from a backup. Without an argument the
newest backup is used. The current file is backed up first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigRestore(cmd, args)
		},
	}
}

func runConfigInit(cmd *cobra.Command, force bool) error {
	out := output.New(cmd.OutOrStdout())
	configPath := config.GetUserConfigPath()

	if config.UserConfigExists() {
		if !force {
			out.Warning("User configuration already exists")
			out.Statusf("", "Location: %s", configPath)
			out.Dim("Use --force to upgrade with new defaults (preserves your settings)")
			return nil
		}
		return runConfigUpgrade(out, configPath)
	}

	if err := os.MkdirAll(config.GetUserConfigDir(), 0o755); err != nil {
		return dsberrors.ConfigSaveError(err).WithDetail("path", configPath)
	}
	if err := os.WriteFile(configPath, []byte(configs.UserConfigTemplate), 0o644); err != nil {
		return dsberrors.ConfigSaveError(err).WithDetail("path", configPath)
	}

	out.Success("Created user configuration")
	out.Statusf("", "Location: %s", configPath)
	out.Steps("Next steps:",
		"Edit the file to customize settings",
		"Run 'dev-session-buddy config show' to verify",
	)
	return nil
}

// runConfigUpgrade backs up the existing file and fills in missing settings.
func runConfigUpgrade(out *output.Writer, configPath string) error {
	backupPath, err := config.BackupUserConfig()
	if err != nil {
		return dsberrors.IOError("failed to back up user configuration", err)
	}

	existing, err := config.ReadFile(configPath)
	if err != nil {
		return err
	}
	added := existing.MergeNewDefaults()

	if err := existing.WriteYAML(configPath); err != nil {
		return err
	}

	out.Success("Configuration upgraded")
	out.Statusf("", "Location: %s", configPath)
	out.Statusf("", "Backup: %s", backupPath)
	out.Newline()

	if len(added) == 0 {
		out.Success("Your configuration is already up to date")
		return nil
	}
	out.Status("", "New options added with defaults:")
	for _, field := range added {
		out.Statusf("", "  - %s", field)
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, jsonOutput bool, source string) error {
	out := output.New(cmd.OutOrStdout())

	var (
		cfg        *config.Config
		sourceDesc string
		err        error
	)

	switch source {
	case "merged":
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		sourceDesc = "merged (defaults + user + env)"

	case "user":
		configPath := config.GetUserConfigPath()
		if !config.UserConfigExists() {
			out.Warning("No user configuration file found")
			out.Statusf("", "Expected at: %s", configPath)
			out.Dim("Run 'dev-session-buddy config init' to create one")
			return nil
		}
		cfg, err = config.ReadFile(configPath)
		if err != nil {
			return err
		}
		sourceDesc = fmt.Sprintf("user (%s)", configPath)

	case "defaults":
		cfg = config.NewConfig()
		sourceDesc = "defaults (hardcoded)"

	default:
		return dsberrors.ValidationError(fmt.Sprintf("invalid source: %s", source), nil).
			WithSuggestion("Use one of: merged, user, defaults")
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return dsberrors.InternalError("failed to marshal config", err)
	}
	out.Statusf("", "Configuration source: %s", sourceDesc)
	out.Newline()
	_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
	return err
}

func runConfigRestore(cmd *cobra.Command, args []string) error {
	out := output.New(cmd.OutOrStdout())

	var backupPath string
	if len(args) > 0 {
		backupPath = args[0]
	} else {
		backups, err := config.ListUserConfigBackups()
		if err != nil {
			return dsberrors.ReadError("failed to list backups", err)
		}
		if len(backups) == 0 {
			out.Warning("No configuration backups found")
			out.Dim("Run 'dev-session-buddy config backup' to create one")
			return nil
		}
		backupPath = backups[0]
	}

	if err := config.RestoreUserConfig(backupPath); err != nil {
		return dsberrors.IOError("failed to restore user configuration", err).
			WithDetail("backup", backupPath)
	}

	out.Success("Configuration restored")
	out.Statusf("", "From: %s", backupPath)
	out.Statusf("", "Location: %s", config.GetUserConfigPath())
	return nil
}
