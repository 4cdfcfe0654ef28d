// Package toolchain parses and compares tool version strings and queries the
// host for installed commands.
//
// All subprocess access goes through the Runner interface so callers and
// tests can substitute deterministic fakes for the real shell.
package toolchain
