package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/yacobolo/cssusage/internal/cssusage"
)

// errStrict signals a strict-mode failure after the report was written
var errStrict = errors.New("strict mode")

var analyzeCmd = &cobra.Command{
	Use:   "analyze [css-file] [source-dir]",
	Short: "Report selector usage as CSV, JSON or lint-style issues",
	Long: `Parse the CSS files, scan the source tree and write one row per selector
with the first file and line that references it.
Positional arguments override the css and dir settings.`,
	Example: `  # Report every selector of styles.css used under ./src
  cssusage analyze styles.css src

  # Glob several stylesheets and print unused selectors as lint issues
  cssusage analyze --css 'assets/**/*.css' --dir site --output-format issues

  # Fail CI when less than 80% of the selectors are used
  cssusage analyze --strict --threshold 80`,
	Args: cobra.MaximumNArgs(2),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringSlice("css", []string{"styles.css"}, "CSS files or glob patterns")
	f.String("dir", ".", "Source directory to scan")
	f.StringP("output", "o", "", `Report file (default "output.csv" for csv formats, stdout otherwise; "-" for stdout)`)
	f.String("output-format", "", "Output format: csv|condensed|json|issues|summary|full")
	f.StringSlice("extensions", cssusage.DefaultExtensions, "File extensions to scan")
	f.StringSlice("exclude", cssusage.DefaultExclude, "Glob patterns to exclude, relative to the source directory")
	f.Bool("gitignore", true, "Skip files ignored by the source directory's .gitignore")
	f.Int("workers", 0, "Parallel file workers (0 = one per CPU)")
	f.Bool("skip-comments", true, "Ignore lines starting with //")
	f.Int("concat-depth", 8, "Max string literals joined per concatenation")
	f.Int("continuation-lines", 2, "Max extra lines joined for a continued statement")
	f.Int("suggest-distance", 2, "Max edit distance for unused selector suggestions (0 = off)")
	f.Bool("strict", false, "Exit 1 if any selector is unused (CI mode)")
	f.Float64("threshold", 0.0, "Minimum usage percentage for strict mode")
	f.Int("max-issues", 0, "Max issues to show (0 = unlimited)")
	f.Bool("print-lines", true, "Show the declaring CSS line with issues")
	f.Bool("print-linter-name", true, "Show (cssusage) suffix on issues")

	_ = analyzeCmd.RegisterFlagCompletionFunc("output-format", cobra.FixedCompletions(
		[]string{"csv", "condensed", "json", "issues", "summary", "full"}, cobra.ShellCompDirectiveNoFileComp))
	_ = analyzeCmd.RegisterFlagCompletionFunc("extensions", cobra.FixedCompletions(
		cssusage.DefaultExtensions, cobra.ShellCompDirectiveNoFileComp))
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	verbose := getBoolWithFallback("verbose", "verbose", false)
	quiet := getBoolWithFallback("quiet", "quiet", false)
	logger := newLogger(verbose, quiet)

	config := buildAnalyzeConfig(logger)
	if len(args) > 0 {
		config.CSSInputs = []string{args[0]}
	}
	if len(args) > 1 {
		config.SourceDir = args[1]
	}

	result, err := cssusage.Analyze(cmd.Context(), config)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	outputFormat := getStringWithFallback("output-format", "output-format", "")
	format := cssusage.DetermineOutputFormat(outputFormat, quiet)
	target := outputTarget(getStringWithFallback("output", "output", ""), format)

	if err := writeReport(cmd.OutOrStdout(), target, result, format, buildOutputOptions()); err != nil {
		return err
	}

	if target != "-" && !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d selectors (%d used, %d unused) to %s\n",
			result.Selectors, result.Used, result.Unused, target)
	}

	// Exit code logic
	if getBoolWithFallback("strict", "report.strict", false) {
		threshold := getFloat64WithFallback("threshold", "report.threshold", 0.0)
		if threshold > 0 {
			if result.UsagePercentage < threshold {
				return fmt.Errorf("%w: usage %.1f%% is below threshold %.1f%%",
					errStrict, result.UsagePercentage, threshold)
			}
		} else if result.Unused > 0 {
			return fmt.Errorf("%w: %d unused selectors", errStrict, result.Unused)
		}
	}

	return nil
}

// outputTarget resolves where a format is written: report formats default to
// output.csv, terminal formats to stdout ("-")
func outputTarget(output string, format cssusage.OutputFormat) string {
	if output != "" {
		return output
	}
	if format == cssusage.OutputCSV || format == cssusage.OutputCondensed {
		return "output.csv"
	}
	return "-"
}

// writeReport writes the formatted result to stdout or a file
func writeReport(stdout io.Writer, target string, result *cssusage.Result, format cssusage.OutputFormat, opts cssusage.OutputOptions) error {
	if target == "-" {
		return cssusage.WriteOutput(stdout, result, format, opts)
	}

	// Files never get terminal colors
	opts.UseColors = false

	// #nosec G304 - path comes from trusted configuration
	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}

	if err := cssusage.WriteOutput(f, result, format, opts); err != nil {
		_ = f.Close()
		return fmt.Errorf("write report %s: %w", target, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report %s: %w", target, err)
	}
	return nil
}
