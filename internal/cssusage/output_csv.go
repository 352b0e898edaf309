package cssusage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var (
	csvHeader          = []string{"CSS Element", "Defined In", "Used?", "File", "Line Number", "Line of Code"}
	condensedCSVHeader = []string{"CSS Element", "Defined In", "Used?", "Count"}
)

// WriteCSV writes one row per selector with its first occurrence.
// Unused rows have an empty file, line number 0 and empty text.
func WriteCSV(w io.Writer, rows []ReportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range rows {
		file, line, text := "", 0, ""
		if row.Used() {
			file, line, text = row.Occurrence.File, row.Occurrence.LineNumber, row.Occurrence.LineText
		}
		record := []string{row.Selector, row.DefinedIn, usedLabel(row), file, strconv.Itoa(line), text}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %s: %w", row.Selector, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCondensedCSV writes one row per selector with its referencing line count
func WriteCondensedCSV(w io.Writer, rows []ReportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(condensedCSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range rows {
		record := []string{row.Selector, row.DefinedIn, usedLabel(row), strconv.Itoa(row.Count)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %s: %w", row.Selector, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func usedLabel(row ReportRow) string {
	if row.Used() {
		return "YES"
	}
	return "NO"
}
