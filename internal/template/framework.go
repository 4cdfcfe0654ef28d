package template

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Aman-CERP/dev-session-buddy/internal/document"
)

// PostProcessor runs framework specific setup after the template files and
// project configuration are in place. It returns the paths it wrote.
type PostProcessor func(projectDir string, base *document.Map) ([]string, error)

// ManifestFile is the package manifest written for JavaScript frameworks.
const ManifestFile = "package.json"

// Version ranges for the packages every Vue project gets.
var (
	vueDependencies = [][2]string{
		{"vue", "^3.4.0"},
	}
	vueDevDependencies = [][2]string{
		{"@vitejs/plugin-vue", "^5.0.0"},
		{"eslint", "^8.57.0"},
		{"eslint-plugin-vue", "^9.20.0"},
		{"vite", "^5.0.0"},
		{"vitest", "^1.2.0"},
	}
)

// extraDependencyVersion is the range used for packages listed by name only in
// the base configuration.
const extraDependencyVersion = "latest"

// VueManifest builds the package.json document for a Vue project in
// projectDir. Packages listed under dependencies.required and
// dependencies.dev in base are added to the matching section.
func VueManifest(projectDir string, base *document.Map) *document.Map {
	scripts := document.NewMap()
	scripts.Set("dev", "vite")
	scripts.Set("build", "vite build")
	scripts.Set("preview", "vite preview")
	scripts.Set("test", "vitest")
	scripts.Set("lint", "eslint . --ext .vue,.js,.jsx,.cjs,.mjs --fix")

	deps := document.NewMap()
	for _, d := range vueDependencies {
		deps.Set(d[0], d[1])
	}
	devDeps := document.NewMap()
	for _, d := range vueDevDependencies {
		devDeps.Set(d[0], d[1])
	}
	addNamed(deps, base.Strings("dependencies.required"))
	addNamed(devDeps, base.Strings("dependencies.dev"))

	m := document.NewMap()
	m.Set("name", packageName(projectDir))
	m.Set("version", "0.1.0")
	m.Set("private", true)
	m.Set("type", "module")
	m.Set("scripts", scripts)
	m.Set("dependencies", deps)
	m.Set("devDependencies", devDeps)
	return m
}

// WriteVueManifest writes VueManifest to <projectDir>/package.json,
// replacing any existing manifest.
func WriteVueManifest(projectDir string, base *document.Map) ([]string, error) {
	data, err := json.MarshalIndent(VueManifest(projectDir, base), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ManifestFile, err)
	}
	path := filepath.Join(projectDir, ManifestFile)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return nil, fmt.Errorf("write %s: %w", ManifestFile, err)
	}
	return []string{path}, nil
}

// addNamed adds each package not already present with extraDependencyVersion.
func addNamed(section *document.Map, names []string) {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, exists := section.Get(name); !exists {
			section.Set(name, extraDependencyVersion)
		}
	}
}

// packageName derives an npm package name from the project directory.
func packageName(projectDir string) string {
	name := strings.ToLower(filepath.Base(filepath.Clean(projectDir)))
	name = strings.Join(strings.Fields(name), "-")
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "app"
	}
	return name
}
