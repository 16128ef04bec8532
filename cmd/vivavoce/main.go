// Package main provides the vivavoce interview station CLI.
//
// Usage:
//
//	vivavoce [flags] <command> [args]
//
// Commands:
//
//	analyze   - Analyze a resume into an interview profile
//	interview - Run a live spoken interview
//	devices   - List audio input and output devices
//	version   - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/vivavoce-ai/vivavoce/cmd/vivavoce/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
