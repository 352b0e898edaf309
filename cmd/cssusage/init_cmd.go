package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .cssusage.yaml config file",
	Long:  `Create a .cssusage.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(defaultConfigPath); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", defaultConfigPath)
		}

		if err := os.WriteFile(defaultConfigPath, []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", defaultConfigPath)
		return nil
	},
}

const defaultConfig = `# cssusage configuration

# Inputs
css:
  - styles.css             # files or globs, e.g. "assets/**/*.css"
dir: .                     # source tree to scan

# Output
output: output.csv         # "-" for stdout
output-format: csv         # csv | condensed | json | issues | summary | full
verbose: false

# Source walking
scan:
  extensions: [".html", ".htm", ".php", ".js", ".jsx", ".ts", ".tsx"]
  exclude:
    - "**/node_modules"
    - "**/.git"
    - "**/vendor"
  gitignore: true
  skip-comments: true      # ignore lines starting with //
  workers: 0               # 0 = one per CPU

# Static string resolution
heuristics:
  concat-depth: 8          # string literals joined per concatenation
  continuation-lines: 2    # extra lines joined for a continued statement

# Reporting
report:
  suggest-distance: 2      # "did you mean" edit distance, 0 = off
  strict: false            # exit 1 when selectors are unused
  threshold: 0.0           # with strict: minimum usage percentage instead
  max-issues: 0            # 0 = unlimited
  print-lines: true
  print-linter-name: true
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
