package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/dev-session-buddy/internal/document"
)

func TestVueManifest_Order(t *testing.T) {
	m := VueManifest("/work/demo", document.NewMap())

	assert.Equal(t,
		[]string{"name", "version", "private", "type", "scripts", "dependencies", "devDependencies"},
		m.Keys())
	v, _ := m.Get("name")
	assert.Equal(t, "demo", v)
}

func TestVueManifest_ExtraDependenciesDoNotOverride(t *testing.T) {
	base, err := document.Parse([]byte("dependencies:\n  required: [vue, pinia, 7]\n  dev: [vite, '']\n"))
	require.NoError(t, err)

	m := VueManifest("/work/demo", base)

	v, _ := m.GetPath("dependencies.vue")
	assert.Equal(t, "^3.4.0", v)
	v, _ = m.GetPath("dependencies.pinia")
	assert.Equal(t, "latest", v)
	v, _ = m.GetPath("devDependencies.vite")
	assert.Equal(t, "^5.0.0", v)
	deps, _ := m.Get("devDependencies")
	assert.Equal(t, len(vueDevDependencies), deps.(*document.Map).Len())
}

func TestPackageName(t *testing.T) {
	assert.Equal(t, "demo", packageName("/tmp/Demo"))
	assert.Equal(t, "my-cool-app", packageName("/tmp/My Cool  App/"))
	assert.Equal(t, "app", packageName("/"))
}
