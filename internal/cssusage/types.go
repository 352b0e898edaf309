package cssusage

import (
	"errors"
	"log/slog"
	"strings"
)

// Kind classifies a simple selector
type Kind string

// Selector kinds, derived from the leading character of the selector text
const (
	KindClass   Kind = "class"   // .name
	KindID      Kind = "id"      // #name
	KindElement Kind = "element" // name
)

var (
	// ErrInputNotFound is returned when a required top-level input (CSS file or source root) is missing.
	ErrInputNotFound = errors.New("input not found")
	// ErrBinaryFile is returned by ReadSource for files that do not look like text.
	ErrBinaryFile = errors.New("binary file")
)

// SelectorRecord is one simple selector declared in a stylesheet
type SelectorRecord struct {
	Selector  string // ".nav-item", "#header", "li"
	Kind      Kind
	DefinedIn string // CSS file path
	Line      int    // 1-based line of the rule prelude
}

// Name returns the selector without its kind prefix ("nav-item" for ".nav-item")
func (r SelectorRecord) Name() string {
	switch r.Kind {
	case KindClass:
		return strings.TrimPrefix(r.Selector, ".")
	case KindID:
		return strings.TrimPrefix(r.Selector, "#")
	}
	return r.Selector
}

// newRecord builds a record from a selector string, deriving its kind
func newRecord(selector, definedIn string, line int) SelectorRecord {
	kind := KindElement
	switch {
	case strings.HasPrefix(selector, "."):
		kind = KindClass
	case strings.HasPrefix(selector, "#"):
		kind = KindID
	}
	return SelectorRecord{Selector: selector, Kind: kind, DefinedIn: definedIn, Line: line}
}

// Reference is a statically determinable selector reference found in source text
type Reference struct {
	Kind Kind
	Name string // bare token: "nav-item", "header", "li"
}

// Selector renders the reference in CSS syntax
func (r Reference) Selector() string {
	switch r.Kind {
	case KindClass:
		return "." + r.Name
	case KindID:
		return "#" + r.Name
	}
	return r.Name
}

// UsageOccurrence is the location of a reference
type UsageOccurrence struct {
	File       string
	LineNumber int    // 1-based
	LineText   string // trimmed source line
}

// ReportRow pairs a selector with its first occurrence, if any
type ReportRow struct {
	SelectorRecord
	Occurrence *UsageOccurrence // nil when unused
	Count      int              // referencing statements across the corpus
	Suggestion string           // closest referenced token for unused selectors
}

// Used reports whether an occurrence was recorded
func (r ReportRow) Used() bool {
	return r.Occurrence != nil
}

// SourceFile is a candidate target file split into lines
type SourceFile struct {
	Path  string
	Lines []string
}

// Heuristics bounds the static resolution of constructed strings
type Heuristics struct {
	MaxConcatLiterals int // literals joined per concatenation chain
	ContinuationLines int // extra physical lines joined for an explicitly continued statement
}

// DefaultHeuristics returns the bounds used when none are configured
func DefaultHeuristics() Heuristics {
	return Heuristics{
		MaxConcatLiterals: 8,
		ContinuationLines: 2,
	}
}

// Config holds analysis configuration
type Config struct {
	CSSInputs        []string // CSS files or doublestar globs, processed in order
	SourceDir        string   // Root of the target corpus
	Extensions       []string // Accepted target extensions (default: DefaultExtensions)
	Exclude          []string // doublestar patterns relative to SourceDir
	RespectGitignore bool     // Honour SourceDir/.gitignore
	Workers          int      // Parallel indexing workers (0 = GOMAXPROCS)
	Heuristics       Heuristics
	SkipComments     bool // Ignore lines starting with //
	SuggestDistance  int  // Max edit distance for suggestions (0 = disabled)
	Logger           *slog.Logger
}

// Result contains the report rows and run statistics
type Result struct {
	Rows            []ReportRow
	CSSFiles        int
	FilesScanned    int
	FilesSkipped    int
	Selectors       int
	Used            int
	Unused          int
	UsagePercentage float64
	Warnings        []string
}

// OutputFormat represents the report output format
type OutputFormat string

const (
	// OutputCSV writes one row per selector with its first occurrence
	OutputCSV OutputFormat = "csv"
	// OutputCondensed writes one row per selector with an occurrence count
	OutputCondensed OutputFormat = "condensed"
	// OutputJSON exports structured data in JSON format
	OutputJSON OutputFormat = "json"
	// OutputIssues lists unused selectors in golangci-lint format
	OutputIssues OutputFormat = "issues"
	// OutputSummary shows statistics only
	OutputSummary OutputFormat = "summary"
	// OutputFull shows issues and statistics
	OutputFull OutputFormat = "full"
)
