// Package configs provides the embedded configuration template for dev-session-buddy.
//
// The template is embedded at build time so that `dev-session-buddy config init`
// works from source builds and binary releases alike.
//
// Configuration hierarchy (see internal/config Load()):
//  1. Hardcoded defaults (internal/config NewConfig())
//  2. User config (~/.config/dev-session-buddy/config.yaml)
//  3. Environment variables (DSB_*)
//
// To modify the template, edit user-config.example.yaml and rebuild.
package configs

import _ "embed"

// UserConfigTemplate is the template for user-level configuration.
// Created by: `dev-session-buddy config init` at ~/.config/dev-session-buddy/config.yaml
//
//go:embed user-config.example.yaml
var UserConfigTemplate string
