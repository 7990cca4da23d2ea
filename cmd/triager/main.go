// Package main provides the entry point for the triager CLI.
package main

import (
	"fmt"
	"os"

	"github.com/lectern-hq/lectern-reader-agent/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
