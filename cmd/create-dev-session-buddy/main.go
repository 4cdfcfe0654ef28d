// Package main provides the create-dev-session-buddy entry point, a
// shortcut for `dev-session-buddy create`.
package main

import (
	"os"

	"github.com/Aman-CERP/dev-session-buddy/cmd/dev-session-buddy/cmd"
)

func main() {
	if err := cmd.ExecuteCreate(); err != nil {
		os.Exit(1)
	}
}
