package cssusage

import (
	"fmt"
	"io"
)

// DetermineOutputFormat maps a format name to an OutputFormat.
// Quiet runs write the CSV report only; unknown names fall back to the default.
func DetermineOutputFormat(formatFlag string, quiet bool) OutputFormat {
	if quiet {
		return OutputCSV
	}

	switch formatFlag {
	case "csv":
		return OutputCSV
	case "condensed", "count":
		return OutputCondensed
	case "json":
		return OutputJSON
	case "issues":
		return OutputIssues
	case "summary":
		return OutputSummary
	case "full":
		return OutputFull
	}

	return DetermineDefaultOutputFormat()
}

// DetermineDefaultOutputFormat returns the default output format
func DetermineDefaultOutputFormat() OutputFormat {
	return OutputCSV
}

// WriteOutput writes the result in the given format
func WriteOutput(w io.Writer, result *Result, format OutputFormat, opts OutputOptions) error {
	switch format {
	case OutputCSV:
		return WriteCSV(w, result.Rows)

	case OutputCondensed:
		return WriteCondensedCSV(w, result.Rows)

	case OutputJSON:
		return WriteJSON(w, result)

	case OutputIssues:
		issues, truncated := limitIssues(BuildIssues(result.Rows), opts.MaxIssues)
		reporter := NewReporter(w, opts)
		reporter.PrintIssues(issues)
		reporter.PrintSummary(issues, truncated)

	case OutputSummary:
		verboseReporter := NewVerboseReporter(w, opts.UseColors)
		verboseReporter.PrintStatistics(result)
		verboseReporter.PrintUsageProgress(result)
		verboseReporter.PrintSuggestions(result)
		verboseReporter.PrintWarnings(result)

	case OutputFull:
		issues, truncated := limitIssues(BuildIssues(result.Rows), opts.MaxIssues)
		reporter := NewReporter(w, opts)
		reporter.PrintIssues(issues)
		reporter.PrintSummary(issues, truncated)

		verboseReporter := NewVerboseReporter(w, reporter.UseColors())
		verboseReporter.PrintStatistics(result)
		verboseReporter.PrintUsageProgress(result)
		verboseReporter.PrintSuggestions(result)
		verboseReporter.PrintWarnings(result)

	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	return nil
}
