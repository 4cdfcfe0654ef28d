// Package main provides the entry point for the dev-session-buddy CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/dev-session-buddy/cmd/dev-session-buddy/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
