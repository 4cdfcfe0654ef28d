package template

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	dsberrors "github.com/Aman-CERP/dev-session-buddy/internal/errors"
)

// BaseConfigFile is the reserved base configuration file inside a template.
const BaseConfigFile = "config-template.yaml"

// Locator maps framework names to template directories under a fixed root.
type Locator struct {
	root string
}

// NewLocator returns a Locator for templates stored under root.
func NewLocator(root string) *Locator {
	return &Locator{root: root}
}

// Root returns the templates root directory.
func (l *Locator) Root() string {
	return l.root
}

// Path returns the template directory for framework.
// It does not check that the directory exists.
func (l *Locator) Path(framework string) string {
	return filepath.Join(l.root, framework)
}

// Dir is Path for names that denote a single directory directly under the
// root. Empty names, "." and names containing separators or ".." fail with a
// validation error.
func (l *Locator) Dir(framework string) (string, error) {
	if framework == "" || framework == "." ||
		!filepath.IsLocal(framework) || filepath.Base(framework) != framework {
		return "", dsberrors.ValidationError(fmt.Sprintf("invalid framework %q", framework), nil)
	}
	return l.Path(framework), nil
}

// Available lists the frameworks under the root that contain a base
// configuration, sorted by name. A missing root yields no frameworks.
func (l *Locator) Available() ([]string, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := os.Stat(filepath.Join(l.root, entry.Name(), BaseConfigFile))
		if err != nil || info.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}
