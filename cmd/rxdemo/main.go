// Package main is the entry point for rxdemo, the rxcore example walkthrough.
package main

import (
	"fmt"
	"os"

	"github.com/xinjiayu/rxcore/cmd/rxdemo/cmd"
)

// Version information (set by ldflags during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cmd.SetVersionInfo(Version, BuildTime, GitCommit)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
