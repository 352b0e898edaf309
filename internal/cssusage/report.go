package cssusage

import (
	"sort"

	"github.com/hbollon/go-edlib"
)

// Aggregate pairs every record with its first occurrence across the indexes.
// Rows keep record order; a repeated (Selector, DefinedIn) pair collapses to
// its first record. Indexes must be in walker order.
func Aggregate(records []SelectorRecord, indexes []*FileIndex) []ReportRow {
	type recordKey struct{ selector, definedIn string }
	seen := make(map[recordKey]bool, len(records))

	rows := make([]ReportRow, 0, len(records))
	for _, rec := range records {
		key := recordKey{rec.Selector, rec.DefinedIn}
		if seen[key] {
			continue
		}
		seen[key] = true

		row := ReportRow{SelectorRecord: rec}
		for _, idx := range indexes {
			if idx == nil {
				continue
			}
			if row.Occurrence == nil {
				if occ, ok := idx.Lookup(rec); ok {
					row.Occurrence = &occ
				}
			}
			row.Count += idx.Count(rec)
		}
		rows = append(rows, row)
	}

	return rows
}

// Suggest fills Suggestion on unused class and id rows with the closest
// referenced token of the same kind within maxDistance edits.
// Ties go to the lexicographically smallest token; maxDistance <= 0 disables.
func Suggest(rows []ReportRow, indexes []*FileIndex, maxDistance int) {
	if maxDistance <= 0 {
		return
	}

	vocabulary := make(map[Kind][]string)
	seen := make(map[Reference]bool)
	for _, idx := range indexes {
		if idx == nil {
			continue
		}
		for _, ref := range idx.References() {
			if ref.Kind == KindElement || seen[ref] {
				continue
			}
			seen[ref] = true
			vocabulary[ref.Kind] = append(vocabulary[ref.Kind], ref.Name)
		}
	}
	for kind := range vocabulary {
		sort.Strings(vocabulary[kind])
	}

	for i := range rows {
		row := &rows[i]
		if row.Used() || row.Kind == KindElement {
			continue
		}

		name := row.Name()
		best, bestDist := "", maxDistance+1
		for _, candidate := range vocabulary[row.Kind] {
			if candidate == name {
				continue
			}
			dist := edlib.LevenshteinDistance(name, candidate)
			if dist < bestDist {
				best, bestDist = candidate, dist
			}
		}

		if best != "" {
			row.Suggestion = Reference{Kind: row.Kind, Name: best}.Selector()
		}
	}
}
