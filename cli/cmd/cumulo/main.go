// Cumulo CLI - command-line interface for the Cumulo platform.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/cumulo-ai/cumulo-go/cli/commands"
)

// ExitCoder is an interface for errors that have an exit code.
type ExitCoder interface {
	ExitCode() int
}

func main() {
	// Load .env if present; a missing file is not an error.
	_ = godotenv.Load()

	if err := commands.Execute(); err != nil {
		if ec, ok := err.(ExitCoder); ok {
			os.Exit(ec.ExitCode())
		}
		os.Exit(1)
	}
}
