// Package main provides the entry point for the auditctl CLI, the
// command-line driver for the findability audit pipeline.
package main

import (
	"os"

	"github.com/findablescore/auditor/cmd/auditctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
