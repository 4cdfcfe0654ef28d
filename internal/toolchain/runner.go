package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"al.essio.dev/pkg/shellescape"
)

// Runner executes a command line and returns its standard output.
type Runner interface {
	Run(ctx context.Context, commandLine string) (string, error)
}

// ShellRunner runs command lines through the host shell.
type ShellRunner struct {
	// Shell is the interpreter invoked with "-c". Defaults to "sh".
	Shell string
}

// NewShellRunner returns a runner using sh.
func NewShellRunner() *ShellRunner {
	return &ShellRunner{Shell: "sh"}
}

// Run executes commandLine via "<shell> -c" and returns its stdout.
func (r *ShellRunner) Run(ctx context.Context, commandLine string) (string, error) {
	shell := r.Shell
	if shell == "" {
		shell = "sh"
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, shell, "-c", commandLine)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return stdout.String(), fmt.Errorf("run %q: %w: %s", commandLine, err, msg)
		}
		return stdout.String(), fmt.Errorf("run %q: %w", commandLine, err)
	}
	return stdout.String(), nil
}

// CommandExists reports whether name resolves to a command on the host.
// Any failure, including a broken shell, is reported as false.
func CommandExists(ctx context.Context, r Runner, name string) bool {
	if name == "" {
		return false
	}
	_, err := r.Run(ctx, "command -v "+shellescape.Quote(name))
	return err == nil
}

// ToolVersion runs commandLine and returns its trimmed output.
// The boolean is false when the command fails for any reason.
func ToolVersion(ctx context.Context, r Runner, commandLine string) (string, bool) {
	out, err := r.Run(ctx, commandLine)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(out), true
}
