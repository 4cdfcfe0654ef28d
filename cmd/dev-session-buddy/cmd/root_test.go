package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/dev-session-buddy/internal/config"
	dsberrors "github.com/Aman-CERP/dev-session-buddy/internal/errors"
	"github.com/Aman-CERP/dev-session-buddy/internal/logging"
	"github.com/Aman-CERP/dev-session-buddy/internal/template"
	"github.com/Aman-CERP/dev-session-buddy/pkg/version"
	"github.com/Aman-CERP/dev-session-buddy/templates"
)

// cliResult captures one command invocation.
type cliResult struct {
	stdout string
	stderr string
	err    error
}

// isolate points HOME and the XDG config and cache directories at a temp dir
// and clears the DSB_* overrides. It returns the temp home.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Cleanup(xdg.Reload)
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, ".cache"))
	xdg.Reload()
	for _, env := range []string{
		config.EnvTemplatesRoot,
		config.EnvDefaultFramework,
		config.EnvDefaultPreset,
		config.EnvLogLevel,
	} {
		t.Setenv(env, "")
	}
	return home
}

// builtinTemplates extracts the embedded templates into a temp dir.
func builtinTemplates(t *testing.T) string {
	t.Helper()
	b, err := template.ExtractBuiltin(context.Background(), templates.FS, t.TempDir(), "test", false)
	require.NoError(t, err)
	return b.Root
}

// runCLI executes the dev-session-buddy command with args. The prompt is
// enabled only when stdin is non-nil.
func runCLI(t *testing.T, stdin io.Reader, args ...string) cliResult {
	t.Helper()
	opts := newRootOptions()
	opts.interactive = func(io.Reader) bool { return stdin != nil }
	return runWith(newRootCmd(opts), opts, stdin, args...)
}

func runWith(cmd *cobra.Command, opts *rootOptions, stdin io.Reader, args ...string) cliResult {
	var stdout, stderr bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	cmd.SetIn(stdin)

	err := execute(cmd, opts)
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	// Given: the root command
	cmd := NewRootCmd()

	// Then: every top-level command is registered
	names := make(map[string]bool)
	for _, sc := range cmd.Commands() {
		names[sc.Name()] = true
	}
	for _, want := range []string{"doctor", "init", "create", "templates", "config", "logs", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestRootCmd_GlobalFlags(t *testing.T) {
	cmd := NewRootCmd()

	debug := cmd.PersistentFlags().Lookup("debug")
	require.NotNil(t, debug)
	assert.Equal(t, "false", debug.DefValue)

	dir := cmd.PersistentFlags().Lookup("templates-dir")
	require.NotNil(t, dir)
	assert.Empty(t, dir.DefValue)
}

func TestRootCmd_VersionFlag(t *testing.T) {
	isolate(t)

	res := runCLI(t, nil, "--version")

	require.NoError(t, res.err)
	assert.Equal(t, "dev-session-buddy version "+version.Version+"\n", res.stdout)
}

func TestVersionCmd_Outputs(t *testing.T) {
	isolate(t)

	t.Run("default", func(t *testing.T) {
		res := runCLI(t, nil, "version")
		require.NoError(t, res.err)
		assert.Equal(t, version.String()+"\n", res.stdout)
	})

	t.Run("short", func(t *testing.T) {
		res := runCLI(t, nil, "version", "--short")
		require.NoError(t, res.err)
		assert.Equal(t, version.Short()+"\n", res.stdout)
	})

	t.Run("json", func(t *testing.T) {
		res := runCLI(t, nil, "version", "--json")
		require.NoError(t, res.err)

		var info version.BuildInfo
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &info))
		assert.Equal(t, version.Name, info.Name)
		assert.Equal(t, version.Version, info.Version)
	})
}

func TestExecute_PrintsStructuredError(t *testing.T) {
	// Given: an isolated home and an unknown framework
	isolate(t)
	t.Chdir(t.TempDir())
	root := builtinTemplates(t)

	// When: running init
	res := runCLI(t, nil, "init", "--templates-dir", root, "-f", "nope")

	// Then: the error is printed with code and hint
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "Error: failed to apply template")
	assert.Contains(t, res.stderr, "Hint: Available templates: minimal, vue")
	assert.Contains(t, res.stderr, "Code: ERR_502_TEMPLATE_APPLICATION")
}

func TestDebugFlag_WritesLogFile(t *testing.T) {
	// Given: an isolated home
	home := isolate(t)
	t.Chdir(t.TempDir())
	root := builtinTemplates(t)

	// When: running a command with --debug
	res := runCLI(t, nil, "init", "--debug", "--templates-dir", root)
	require.NoError(t, res.err)

	// Then: the debug log holds the run
	data, err := os.ReadFile(filepath.Join(home, ".dev-session-buddy", "logs", logging.LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "debug logging enabled")
	assert.Contains(t, string(data), "applying template")
}

func TestDebugFlag_RespectsConfiguredLevel(t *testing.T) {
	// Given: log level warn from the environment
	home := isolate(t)
	t.Setenv(config.EnvLogLevel, "WARN")
	t.Chdir(t.TempDir())
	root := builtinTemplates(t)

	// When: running with --debug
	res := runCLI(t, nil, "init", "--debug", "--templates-dir", root)
	require.NoError(t, res.err)

	// Then: debug and info records are dropped
	data, err := os.ReadFile(filepath.Join(home, ".dev-session-buddy", "logs", logging.LogFileName))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "applying template")
	assert.NotContains(t, string(data), "debug logging enabled")
}

func TestWithoutDebug_NoLogFile(t *testing.T) {
	home := isolate(t)
	t.Chdir(t.TempDir())
	root := builtinTemplates(t)

	res := runCLI(t, nil, "init", "--templates-dir", root)
	require.NoError(t, res.err)

	_, err := os.Stat(filepath.Join(home, ".dev-session-buddy", "logs", logging.LogFileName))
	assert.True(t, os.IsNotExist(err))
}

func TestCreateRootCmd_StandaloneUsage(t *testing.T) {
	opts := newRootOptions()
	cmd := newCreateRootCmd(opts)

	assert.Equal(t, "create-dev-session-buddy", cmd.Name())
	assert.NotNil(t, cmd.Flags().Lookup("framework"))
	assert.NotNil(t, cmd.Flags().Lookup("preset"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("debug"))
}

func TestExecute_JSONErrorOutput(t *testing.T) {
	// Given: a templates root that is a file
	isolate(t)
	root := filepath.Join(t.TempDir(), "templates")
	require.NoError(t, os.WriteFile(root, []byte("x"), 0o644))

	// When: listing templates as JSON
	res := runCLI(t, nil, "templates", "list", "--json", "--templates-dir", root)

	// Then: the error is written to stderr as JSON
	require.Error(t, res.err)
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stderr), &out))
	assert.Equal(t, dsberrors.ErrCodeReadFailed, out["code"])
	assert.Equal(t, "failed to list templates", out["message"])
	assert.Equal(t, "IO", out["category"])
	assert.Equal(t, map[string]any{"root": root}, out["details"])
	assert.NotContains(t, res.stderr, "Hint:")
}

func TestExecute_DebugShowsCause(t *testing.T) {
	// Given: an unknown framework
	home := isolate(t)
	t.Chdir(t.TempDir())
	root := builtinTemplates(t)

	// When: running init with --debug
	res := runCLI(t, nil, "init", "--debug", "--templates-dir", root, "-f", "nope")

	// Then: the cause and suggestion are printed
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "Error: failed to apply template")
	assert.Contains(t, res.stderr, "Suggestion: Available templates: minimal, vue")
	assert.Contains(t, res.stderr, "Cause: [ERR_104_CONFIG_LOAD]")
	assert.Contains(t, res.stderr, "[ERR_502_TEMPLATE_APPLICATION]")

	// And: the failure is logged as an error
	data, err := os.ReadFile(filepath.Join(home, ".dev-session-buddy", "logs", logging.LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"level":"ERROR","msg":"command failed"`)
}

func TestExecute_ValidationFailureLogsWarning(t *testing.T) {
	home := isolate(t)
	t.Chdir(t.TempDir())

	res := runCLI(t, nil, "create", "a/b", "--debug")

	require.Error(t, res.err)
	data, err := os.ReadFile(filepath.Join(home, ".dev-session-buddy", "logs", logging.LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"level":"WARN","msg":"command failed"`)
	assert.Contains(t, string(data), dsberrors.ErrCodeInvalidProjectName)
}

func TestTemplatesRoot_ReleasesBuiltinCache(t *testing.T) {
	// Given: no configured templates root
	isolate(t)

	// When: listing the built-in templates
	res := runCLI(t, nil, "templates", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Templates root: "+filepath.Join(template.DefaultCacheDir(), version.Short()))

	// Then: the cache lock is free for the next run
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	b, err := template.ExtractBuiltin(ctx, templates.FS, template.DefaultCacheDir(), version.Short(), true)
	require.NoError(t, err)
	require.NoError(t, b.Release())
}

func TestCanPrompt_DisabledInCI(t *testing.T) {
	t.Setenv("CI", "true")

	assert.False(t, canPrompt(strings.NewReader("name\n")))
	assert.False(t, canPrompt(os.Stdin))
}
