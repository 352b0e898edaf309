package cssusage

import (
	"regexp"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Comment lines to skip
var commentPattern = regexp.MustCompile(`^\s*//`)

// MatcherOptions configures a Matcher
type MatcherOptions struct {
	Heuristics   Heuristics
	SkipComments bool
	Extractors   []Extractor // nil = DefaultExtractors(Heuristics)
}

// hit is the first line referencing a token plus the number of referencing statements
type hit struct {
	line  int
	text  string
	count int
}

// lineIndex is the content-derived part of a file index. It is shared between
// files with identical contents and never modified after construction.
type lineIndex map[Reference]*hit

// FileIndex records, for each reference found in a file, its first line
type FileIndex struct {
	Path string
	refs lineIndex
}

// Matcher builds file indexes and answers first-occurrence queries.
// It is safe for concurrent use.
type Matcher struct {
	opts MatcherOptions

	mu    sync.Mutex
	cache map[uint64]lineIndex // keyed by content hash
}

// NewMatcher creates a matcher. Zero heuristics fall back to DefaultHeuristics.
func NewMatcher(opts MatcherOptions) *Matcher {
	if opts.Heuristics == (Heuristics{}) {
		opts.Heuristics = DefaultHeuristics()
	}
	if opts.Extractors == nil {
		opts.Extractors = DefaultExtractors(opts.Heuristics)
	}
	return &Matcher{
		opts:  opts,
		cache: make(map[uint64]lineIndex),
	}
}

// Index scans a file once into a FileIndex
func (m *Matcher) Index(file SourceFile) *FileIndex {
	key := contentHash(file.Lines)

	m.mu.Lock()
	refs, ok := m.cache[key]
	m.mu.Unlock()

	if !ok {
		refs = m.scanLines(file.Lines)
		m.mu.Lock()
		m.cache[key] = refs
		m.mu.Unlock()
	}

	return &FileIndex{Path: file.Path, refs: refs}
}

// Match reports the first line of file that references rec
func (m *Matcher) Match(rec SelectorRecord, file SourceFile) (UsageOccurrence, bool) {
	return m.Index(file).Lookup(rec)
}

// Lookup returns the first occurrence of rec in the indexed file
func (idx *FileIndex) Lookup(rec SelectorRecord) (UsageOccurrence, bool) {
	h, ok := idx.refs[Reference{Kind: rec.Kind, Name: rec.Name()}]
	if !ok {
		return UsageOccurrence{}, false
	}
	return UsageOccurrence{File: idx.Path, LineNumber: h.line, LineText: h.text}, true
}

// Count returns the number of lines referencing rec
func (idx *FileIndex) Count(rec SelectorRecord) int {
	if h, ok := idx.refs[Reference{Kind: rec.Kind, Name: rec.Name()}]; ok {
		return h.count
	}
	return 0
}

// References returns every reference found in the file, in no particular order
func (idx *FileIndex) References() []Reference {
	refs := make([]Reference, 0, len(idx.refs))
	for ref := range idx.refs {
		refs = append(refs, ref)
	}
	return refs
}

// scanLines runs the extractors over every logical line. A statement continued
// over several lines is scanned once; each reference is reported on the first
// physical line of the statement that contains it.
func (m *Matcher) scanLines(lines []string) lineIndex {
	refs := make(lineIndex)
	h := m.opts.Heuristics

	for i := 0; i < len(lines); {
		if m.opts.SkipComments && commentPattern.MatchString(lines[i]) {
			i++
			continue
		}

		end := statementEnd(lines, i, h.ContinuationLines)
		text := resolveTemplates(strings.Join(lines[i:end+1], " "), h)

		// A statement counts once per reference
		seen := make(map[Reference]bool)
		for _, ex := range m.opts.Extractors {
			for _, ref := range ex.Extract(text) {
				if ref.Name == "" || strings.Contains(ref.Name, opaque) || seen[ref] {
					continue
				}
				seen[ref] = true

				if existing, ok := refs[ref]; ok {
					existing.count++
					continue
				}
				n := lineContaining(lines, i, end, ref.Name)
				refs[ref] = &hit{line: n + 1, text: strings.TrimSpace(lines[n]), count: 1}
			}
		}

		i = end + 1
	}

	return refs
}

// statementEnd returns the index of the last line of the statement starting at
// lines[i], following at most limit explicit concatenation continuations
func statementEnd(lines []string, i, limit int) int {
	end := i
	for end-i < limit && end+1 < len(lines) {
		if !continuesAfter(lines[end]) && !continuesBefore(lines[end+1]) {
			break
		}
		end++
	}
	return end
}

// lineContaining returns the first line in lines[from:to+1] that contains
// name, or from when the token is only assembled across lines
func lineContaining(lines []string, from, to int, name string) int {
	for k := from; k <= to; k++ {
		if strings.Contains(lines[k], name) {
			return k
		}
	}
	return from
}

// continuesAfter reports whether a line ends with a string literal followed by
// a concatenation operator: 'abc' .  or  "abc" +
func continuesAfter(line string) bool {
	t := strings.TrimSpace(line)
	if !strings.HasSuffix(t, ".") && !strings.HasSuffix(t, "+") {
		return false
	}
	rest := strings.TrimSpace(t[:len(t)-1])
	return rest != "" && isQuote(rest[len(rest)-1])
}

// continuesBefore reports whether a line starts with a concatenation operator
// followed by a string literal: . 'abc'  or  + "abc"
func continuesBefore(line string) bool {
	t := strings.TrimSpace(line)
	if !strings.HasPrefix(t, ".") && !strings.HasPrefix(t, "+") {
		return false
	}
	rest := strings.TrimSpace(t[1:])
	return rest != "" && isQuote(rest[0])
}

// contentHash hashes a file's lines for the index cache
func contentHash(lines []string) uint64 {
	d := xxhash.New()
	for _, line := range lines {
		_, _ = d.WriteString(line)
		_, _ = d.WriteString("\n")
	}
	return d.Sum64()
}
