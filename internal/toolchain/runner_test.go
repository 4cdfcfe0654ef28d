package toolchain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner answers command lines from a fixed table.
type fakeRunner struct {
	outputs map[string]string
	calls   []string
}

func (f *fakeRunner) Run(_ context.Context, commandLine string) (string, error) {
	f.calls = append(f.calls, commandLine)
	out, ok := f.outputs[commandLine]
	if !ok {
		return "", errors.New("exit status 127")
	}
	return out, nil
}

func TestCommandExists_UsesCommandV(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{"command -v git": "/usr/bin/git\n"}}

	assert.True(t, CommandExists(context.Background(), r, "git"))
	assert.False(t, CommandExists(context.Background(), r, "node"))
	assert.Equal(t, []string{"command -v git", "command -v node"}, r.calls)
}

func TestCommandExists_QuotesName(t *testing.T) {
	r := &fakeRunner{}

	assert.False(t, CommandExists(context.Background(), r, "git; rm -rf /"))
	require.Len(t, r.calls, 1)
	assert.Equal(t, "command -v 'git; rm -rf /'", r.calls[0])
}

func TestCommandExists_EmptyName(t *testing.T) {
	r := &fakeRunner{}

	assert.False(t, CommandExists(context.Background(), r, ""))
	assert.Empty(t, r.calls)
}

func TestToolVersion(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{"node --version": "  v18.17.1\n"}}

	v, ok := ToolVersion(context.Background(), r, "node --version")
	assert.True(t, ok)
	assert.Equal(t, "v18.17.1", v)

	v, ok = ToolVersion(context.Background(), r, "npm --version")
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestShellRunner_Run(t *testing.T) {
	r := NewShellRunner()

	out, err := r.Run(context.Background(), "echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestShellRunner_FailureIsError(t *testing.T) {
	r := NewShellRunner()

	_, err := r.Run(context.Background(), "exit 3")
	assert.Error(t, err)
}

func TestShellRunner_MissingCommand(t *testing.T) {
	ctx := context.Background()
	r := NewShellRunner()

	assert.False(t, CommandExists(ctx, r, "definitely-not-a-real-command-dsb"))
	assert.True(t, CommandExists(ctx, r, "sh"))

	_, ok := ToolVersion(ctx, r, "definitely-not-a-real-command-dsb --version")
	assert.False(t, ok)
}

func TestShellRunner_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewShellRunner().Run(ctx, "echo never")
	assert.Error(t, err)
}
