// Package main provides the entry point for the nomina CLI tool.
package main

import (
	"github.com/nomina-io/nomina/cmd/nomina/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
