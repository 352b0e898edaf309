package cssusage

import (
	"fmt"
	"io"
	"strings"
)

// maxListedSuggestions caps the "did you mean" section
const maxListedSuggestions = 10

// VerboseReporter prints run statistics
type VerboseReporter struct {
	w         io.Writer
	useColors bool
}

// NewVerboseReporter creates a verbose reporter
func NewVerboseReporter(w io.Writer, useColors bool) *VerboseReporter {
	return &VerboseReporter{
		w:         w,
		useColors: useColors,
	}
}

// PrintStatistics outputs selector and file counts
func (r *VerboseReporter) PrintStatistics(result *Result) {
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "CSS Usage Statistics", r.useColors))
	fmt.Fprintln(r.w, "--------------------")

	fmt.Fprintf(r.w, "Stylesheets:     %d\n", result.CSSFiles)
	fmt.Fprintf(r.w, "Selectors:       %d\n", result.Selectors)
	fmt.Fprintf(r.w, "Used:            %s\n",
		RenderStyle(StyleGreen, fmt.Sprintf("%d (%.1f%%)", result.Used, result.UsagePercentage), r.useColors))
	fmt.Fprintf(r.w, "Unused:          %s\n",
		RenderStyle(StyleRed, fmt.Sprintf("%d", result.Unused), r.useColors))
	fmt.Fprintf(r.w, "Files Scanned:   %d\n", result.FilesScanned)
	fmt.Fprintf(r.w, "Files Skipped:   %d\n", result.FilesSkipped)

	byKind := make(map[Kind][2]int) // used, total
	for _, row := range result.Rows {
		counts := byKind[row.Kind]
		if row.Used() {
			counts[0]++
		}
		counts[1]++
		byKind[row.Kind] = counts
	}
	for _, kind := range []Kind{KindClass, KindID, KindElement} {
		if counts, ok := byKind[kind]; ok {
			fmt.Fprintf(r.w, "  %-14s %d/%d used\n", string(kind)+":", counts[0], counts[1])
		}
	}
}

// PrintUsageProgress shows the used share as a bar
func (r *VerboseReporter) PrintUsageProgress(result *Result) {
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Selector Usage", r.useColors))
	fmt.Fprintln(r.w, "--------------")
	fmt.Fprintln(r.w, progressBar(result.UsagePercentage))
}

// PrintSuggestions lists unused selectors with a close referenced token
func (r *VerboseReporter) PrintSuggestions(result *Result) {
	var lines []string
	for _, row := range result.Rows {
		if row.Suggestion != "" {
			lines = append(lines, fmt.Sprintf("%s → %s", row.Selector, row.Suggestion))
		}
	}
	if len(lines) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleGreen, "Possible Typos", r.useColors))
	fmt.Fprintln(r.w, "--------------")

	for i, line := range lines {
		if i >= maxListedSuggestions {
			fmt.Fprintf(r.w, "... and %d more\n", len(lines)-maxListedSuggestions)
			break
		}
		fmt.Fprintf(r.w, "%d. %s\n", i+1, line)
	}
}

// PrintWarnings shows files that could not be scanned
func (r *VerboseReporter) PrintWarnings(result *Result) {
	if len(result.Warnings) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleYellow, "Warnings", r.useColors))
	fmt.Fprintln(r.w, "--------")

	for _, warning := range result.Warnings {
		fmt.Fprintf(r.w, "• %s\n", warning)
	}
}

// progressBar renders a 20-cell bar followed by the percentage
func progressBar(percentage float64) string {
	const barWidth = 20
	filled := int(percentage / 100 * barWidth)

	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < barWidth; i++ {
		if i < filled {
			b.WriteString("█")
		} else {
			b.WriteString("░")
		}
	}
	fmt.Fprintf(&b, "] %.1f%%", percentage)
	return b.String()
}
