package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yacobolo/cssusage/internal/cssusage"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/cssusage
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of cssusage and its reference extractors",
	Example: `  cssusage version
  cssusage version | head -1`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "cssusage %s\n", version)
		fmt.Fprintf(out, "extractors: %s\n", strings.Join(extractorNames(), ", "))
	},
}

// extractorNames lists the built-in extractors in the order they run
func extractorNames() []string {
	extractors := cssusage.DefaultExtractors(cssusage.DefaultHeuristics())
	names := make([]string, len(extractors))
	for i, ex := range extractors {
		names[i] = ex.Name
	}
	return names
}
