package cssusage

import (
	"fmt"
	"strings"
)

// LinterName labels issues produced by the usage check
const LinterName = "cssusage"

// Issue represents a single finding in golangci-lint format
type Issue struct {
	FromLinter  string       `json:"FromLinter"`  // "cssusage"
	Text        string       `json:"Text"`        // "unused selector \".btn-primary\""
	Severity    string       `json:"Severity"`    // "", "warning", "error"
	SourceLines []string     `json:"SourceLines"` // CSS line declaring the selector
	Pos         IssuePos     `json:"Pos"`
	Replacement *Replacement `json:"Replacement"` // Suggested selector, if any
}

// IssuePos specifies the exact location of an issue
type IssuePos struct {
	Filename string `json:"Filename"` // "assets/css/styles.css"
	Line     int    `json:"Line"`     // 12
	Column   int    `json:"Column"`   // 1-based start of the selector in the line
}

// Replacement is a likely intended selector for an unused one
type Replacement struct {
	NewText string // ".btn-primary"
}

// IssueSeverity constants
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = ""
)

// Issue messages
const (
	IssueUnusedSelector = "unused selector %q"
	IssueDidYouMean     = "unused selector %q (did you mean %q?)"
)

// BuildIssues reports every unused row at its CSS declaration.
// Stylesheets are read once each to attach the declaring line.
func BuildIssues(rows []ReportRow) []Issue {
	cssLines := make(map[string][]string)

	var issues []Issue
	for _, row := range rows {
		if row.Used() {
			continue
		}

		lines, ok := cssLines[row.DefinedIn]
		if !ok {
			// Unreadable stylesheets just lose their source lines
			if file, err := ReadSource(row.DefinedIn); err == nil {
				lines = file.Lines
			}
			cssLines[row.DefinedIn] = lines
		}

		issue := Issue{
			FromLinter: LinterName,
			Text:       fmt.Sprintf(IssueUnusedSelector, row.Selector),
			Severity:   SeverityWarning,
			Pos: IssuePos{
				Filename: row.DefinedIn,
				Line:     row.Line,
				Column:   1,
			},
		}

		if row.Suggestion != "" {
			issue.Text = fmt.Sprintf(IssueDidYouMean, row.Selector, row.Suggestion)
			issue.Replacement = &Replacement{NewText: row.Suggestion}
		}

		if row.Line > 0 && row.Line <= len(lines) {
			line := strings.TrimRight(lines[row.Line-1], "\r")
			issue.SourceLines = []string{line}
			if col := selectorColumn(line, row.Selector); col > 0 {
				issue.Pos.Column = col
			}
		}

		issues = append(issues, issue)
	}

	return issues
}

// selectorColumn finds the 1-based column of selector as a whole token in line
func selectorColumn(line, selector string) int {
	for from := 0; from < len(line); {
		i := strings.Index(line[from:], selector)
		if i < 0 {
			return 0
		}
		start := from + i
		end := start + len(selector)
		startOK := start == 0 || !isSelectorByte(selector[0]) || !isSelectorByte(line[start-1])
		endOK := end == len(line) || !isSelectorByte(line[end])
		if startOK && endOK {
			return start + 1
		}
		from = start + 1
	}
	return 0
}

func isSelectorByte(c byte) bool {
	return isIdentByte(c) || c == '-' || c >= 0x80
}
