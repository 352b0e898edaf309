// Package cssusage reports where CSS selectors are used in HTML, PHP and
// JavaScript sources.
//
// Every class, id and element selector declared in the given stylesheets is
// paired with the first file and line that references it, or marked unused.
//
// # Analysis
//
//	result, err := cssusage.Analyze(ctx, cssusage.Config{
//		CSSInputs:        []string{"assets/**/*.css"},
//		SourceDir:        "site",
//		Exclude:          cssusage.DefaultExclude,
//		RespectGitignore: true,
//	})
//
// # Reports
//
//	err = cssusage.WriteOutput(os.Stdout, result, cssusage.OutputCSV, cssusage.OutputOptions{})
//
// # CLI Tool
//
// cssusage also provides a CLI tool. Install with:
//
//	go install github.com/yacobolo/cssusage/cmd/cssusage@latest
package cssusage

import (
	"context"
	"io"

	core "github.com/yacobolo/cssusage/internal/cssusage"
)

// Public types
type (
	Config          = core.Config
	Result          = core.Result
	ReportRow       = core.ReportRow
	SelectorRecord  = core.SelectorRecord
	UsageOccurrence = core.UsageOccurrence
	Kind            = core.Kind
	Heuristics      = core.Heuristics
	OutputFormat    = core.OutputFormat
	OutputOptions   = core.OutputOptions
	Issue           = core.Issue
)

// Selector kinds
const (
	KindClass   = core.KindClass
	KindID      = core.KindID
	KindElement = core.KindElement
)

// Output formats
const (
	OutputCSV       = core.OutputCSV
	OutputCondensed = core.OutputCondensed
	OutputJSON      = core.OutputJSON
	OutputIssues    = core.OutputIssues
	OutputSummary   = core.OutputSummary
	OutputFull      = core.OutputFull
)

var (
	// ErrInputNotFound is returned when a CSS input or the source directory is missing.
	ErrInputNotFound = core.ErrInputNotFound

	// DefaultExtensions are the source file types scanned when none are configured.
	DefaultExtensions = core.DefaultExtensions
	// DefaultExclude skips dependency and VCS directories.
	DefaultExclude = core.DefaultExclude
)

// Analyze extracts the selectors of config.CSSInputs and finds their first
// reference under config.SourceDir.
func Analyze(ctx context.Context, config Config) (*Result, error) {
	return core.Analyze(ctx, config)
}

// ExtractSelectors returns the simple selectors declared in a stylesheet.
func ExtractSelectors(content, definedIn string) []SelectorRecord {
	return core.ExtractSelectors(content, definedIn)
}

// DetermineOutputFormat maps a format name to an OutputFormat.
func DetermineOutputFormat(requested string, quiet bool) OutputFormat {
	return core.DetermineOutputFormat(requested, quiet)
}

// WriteOutput writes result to w in the given format.
func WriteOutput(w io.Writer, result *Result, format OutputFormat, opts OutputOptions) error {
	return core.WriteOutput(w, result, format, opts)
}

// BuildIssues reports each unused selector at its declaration.
func BuildIssues(rows []ReportRow) []Issue {
	return core.BuildIssues(rows)
}
