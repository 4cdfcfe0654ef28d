package template

import (
	"fmt"
	"strings"

	"github.com/Aman-CERP/dev-session-buddy/internal/document"
	dsberrors "github.com/Aman-CERP/dev-session-buddy/internal/errors"
)

// Preset names a configuration transformation applied to a template's base
// configuration.
type Preset string

const (
	// PresetMinimal drops optional tooling and relaxes coverage and
	// documentation requirements.
	PresetMinimal Preset = "minimal"
	// PresetFull keeps the base configuration unchanged.
	PresetFull Preset = "full"
	// PresetTeam adds a code review policy with two reviewers.
	PresetTeam Preset = "team"

	// DefaultPreset is used when no preset is given.
	DefaultPreset = PresetFull

	// presetDefaultAlias is accepted as a name for DefaultPreset.
	presetDefaultAlias = "default"
)

// Presets returns the preset names in display order.
func Presets() []string {
	return []string{string(PresetMinimal), string(PresetFull), string(PresetTeam)}
}

// ParsePreset resolves name to a Preset. The empty string and "default" are
// DefaultPreset.
func ParsePreset(name string) (Preset, error) {
	switch p := Preset(strings.TrimSpace(name)); p {
	case "", presetDefaultAlias:
		return DefaultPreset, nil
	case PresetMinimal, PresetFull, PresetTeam:
		return p, nil
	default:
		return "", dsberrors.New(dsberrors.ErrCodeUnknownPreset,
			fmt.Sprintf("unknown preset %q", name), nil).
			WithSuggestion("Use one of: " + strings.Join(Presets(), ", "))
	}
}

// Apply returns a copy of base with the preset's rules applied. base is not
// modified. Sections a rule touches are created when absent, so every preset
// works on any configuration shape.
func (p Preset) Apply(base *document.Map) *document.Map {
	out := base.Clone()
	if out == nil {
		out = document.NewMap()
	}

	switch p {
	case PresetMinimal:
		out.DeletePath("tools.optional")
		out.SetPath("testing.coverage", 0)
		out.SetPath("documentation.required", false)
	case PresetTeam:
		out.SetPath("standards.review.required", true)
		out.SetPath("standards.review.minReviewers", 2)
	}
	return out
}
