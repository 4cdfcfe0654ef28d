// Package logging provides opt-in file-based logging with rotation for dev-session-buddy.
// When the --debug flag is set, JSON logs are written to ~/.dev-session-buddy/logs/cli.log
// and can be read back with `dev-session-buddy logs`.
//
// Without --debug the CLI installs a discard logger so that library code can log
// freely without touching the terminal.
package logging
