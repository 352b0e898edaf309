package cssusage

import (
	"encoding/json"
	"io"
	"time"
)

// JSONOutput represents the structured JSON export schema
type JSONOutput struct {
	Version   string         `json:"version"`
	Timestamp string         `json:"timestamp"`
	Summary   JSONSummary    `json:"summary"`
	Selectors []JSONSelector `json:"selectors"`
	Warnings  []string       `json:"warnings"`
}

// JSONSummary contains run statistics
type JSONSummary struct {
	CSSFiles        int     `json:"css_files"`
	FilesScanned    int     `json:"files_scanned"`
	FilesSkipped    int     `json:"files_skipped"`
	Selectors       int     `json:"selectors"`
	Used            int     `json:"used"`
	Unused          int     `json:"unused"`
	UsagePercentage float64 `json:"usage_percentage"`
}

// JSONSelector is one report row
type JSONSelector struct {
	Selector   string          `json:"selector"`
	Kind       Kind            `json:"kind"`
	DefinedIn  string          `json:"defined_in"`
	Line       int             `json:"line"`
	Used       bool            `json:"used"`
	Count      int             `json:"count"`
	Occurrence *JSONOccurrence `json:"occurrence,omitempty"`
	Suggestion string          `json:"suggestion,omitempty"`
}

// JSONOccurrence is the first reference to a selector
type JSONOccurrence struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Source string `json:"source"`
}

// WriteJSON writes the result as indented JSON
func WriteJSON(w io.Writer, result *Result) error {
	output := buildJSONOutput(result)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// buildJSONOutput converts a Result to JSONOutput
func buildJSONOutput(result *Result) JSONOutput {
	selectors := make([]JSONSelector, len(result.Rows))
	for i, row := range result.Rows {
		selectors[i] = JSONSelector{
			Selector:   row.Selector,
			Kind:       row.Kind,
			DefinedIn:  row.DefinedIn,
			Line:       row.Line,
			Used:       row.Used(),
			Count:      row.Count,
			Suggestion: row.Suggestion,
		}
		if row.Used() {
			selectors[i].Occurrence = &JSONOccurrence{
				File:   row.Occurrence.File,
				Line:   row.Occurrence.LineNumber,
				Source: row.Occurrence.LineText,
			}
		}
	}

	warnings := result.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return JSONOutput{
		Version:   "1.0",
		Timestamp: time.Now().Format(time.RFC3339),
		Summary: JSONSummary{
			CSSFiles:        result.CSSFiles,
			FilesScanned:    result.FilesScanned,
			FilesSkipped:    result.FilesSkipped,
			Selectors:       result.Selectors,
			Used:            result.Used,
			Unused:          result.Unused,
			UsagePercentage: result.UsagePercentage,
		},
		Selectors: selectors,
		Warnings:  warnings,
	}
}
