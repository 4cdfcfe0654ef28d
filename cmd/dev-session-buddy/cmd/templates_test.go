package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/dev-session-buddy/internal/config"
)

func TestTemplatesListCmd_MarksDefault(t *testing.T) {
	// Given: the built-in templates
	isolate(t)
	root := builtinTemplates(t)

	// When: listing templates
	res := runCLI(t, nil, "templates", "list", "--templates-dir", root)

	// Then: both frameworks are listed with minimal marked as default
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Templates root: "+root)
	assert.Contains(t, res.stdout, "* minimal\n")
	assert.Contains(t, res.stdout, "  vue\n")
	assert.Contains(t, res.stdout, "Presets: minimal, full, team")
}

func TestTemplatesListCmd_JSON(t *testing.T) {
	isolate(t)
	t.Setenv(config.EnvDefaultFramework, "vue")
	root := builtinTemplates(t)

	res := runCLI(t, nil, "templates", "list", "--json", "--templates-dir", root)

	require.NoError(t, res.err)
	var out templatesJSON
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	assert.Equal(t, root, out.Root)
	assert.Equal(t, "vue", out.Default)
	assert.Equal(t, []string{"minimal", "vue"}, out.Templates)
	assert.Equal(t, []string{"minimal", "full", "team"}, out.Presets)
}

func TestTemplatesListCmd_EmptyRoot(t *testing.T) {
	isolate(t)

	res := runCLI(t, nil, "templates", "list", "--templates-dir", t.TempDir())

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "No templates found")
}
