// Package templates embeds the built-in project templates.
//
// Each top-level directory is one framework template: a config-template.yaml
// base configuration plus the files copied into new projects. The CLI
// extracts this tree into the user cache directory when no templates root is
// configured (see internal/template/builtin.go).
package templates

import "embed"

// FS holds every built-in template, dotfiles included.
//
//go:embed all:minimal all:vue
var FS embed.FS
