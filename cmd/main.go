// Package main provides the CLI entry point for the proxy log analyzer
// Subcommands:
// 1. list - Print every entry passing the filter
// 2. group - Count entries per parameter value with percentages
// 3. traffic - Sum the transferred bytes
// 4. sql - Execute read-only SQL queries against the parsed entries
package main

import (
	"fmt"
	"os"

	"proxy-log-analyzer/internal/commands"
)

func main() {
	rootCmd := commands.NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
