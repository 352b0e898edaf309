// Package cssusage reports where the selectors declared in CSS stylesheets are
// used in a corpus of markup, template and script files.
//
// # Pipeline
//
//  1. Stylesheets are tokenized and every simple selector is recorded:
//     "nav ul li.nav-item" yields nav, ul, li and .nav-item.
//  2. The source tree is walked (extension filter, exclude globs, .gitignore).
//  3. Each file is indexed once: for every class, id and element reference the
//     first line it appears on.
//  4. Records are paired with the indexes in walker order, so the first line of
//     the first file that references a selector wins.
//
// # Static resolution
//
// References are matched on whole tokens, exactly and case-sensitively:
//
//	<div class="nav-item">             uses .nav-item, not .nav
//	<?= 'active' ?>                    resolves to active
//	'<div class="a ' . 'b">'           uses .a and .b
//	"<button class='$class'>"          uses nothing ($class is unknown)
//
// Anything that is not a string literal becomes opaque and never matches.
package cssusage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// Analyze runs one analysis: extract selectors, walk and index the sources,
// aggregate the report. Missing inputs are fatal; per-file problems become warnings.
func Analyze(ctx context.Context, config Config) (*Result, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if config.Heuristics == (Heuristics{}) {
		config.Heuristics = DefaultHeuristics()
	}

	cssFiles, err := ResolveCSSInputs(config.CSSInputs)
	if err != nil {
		return nil, err
	}

	walker, err := NewWalker(config.SourceDir, WalkOptions{
		Extensions:       config.Extensions,
		Exclude:          config.Exclude,
		RespectGitignore: config.RespectGitignore,
	})
	if err != nil {
		return nil, err
	}

	// Extract selector records, CSS files in the order given
	var records []SelectorRecord
	for _, path := range cssFiles {
		fileRecords, err := ParseFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		logger.Debug("extracted selectors", "file", path, "count", len(fileRecords))
		records = append(records, fileRecords...)
	}

	result := &Result{CSSFiles: len(cssFiles)}

	// Collect paths first so indexes can be stored by walker position
	var paths []string
	for path, err := range walker.Paths() {
		if err != nil {
			result.addWarning(logger, path, err)
			continue
		}
		paths = append(paths, path)
	}

	indexes, warnings, err := indexFiles(ctx, paths, config)
	if err != nil {
		return nil, err
	}
	for i, warn := range warnings {
		if warn != nil {
			result.addWarning(logger, paths[i], warn)
			continue
		}
		result.FilesScanned++
	}

	result.Rows = Aggregate(records, indexes)
	Suggest(result.Rows, indexes, config.SuggestDistance)
	result.computeStats()

	logger.Debug("analysis complete",
		"selectors", result.Selectors,
		"used", result.Used,
		"files", result.FilesScanned)

	return result, nil
}

// indexFiles reads and indexes every path in parallel. Slot i of both returned
// slices belongs to paths[i]; a file that failed has a nil index and its error.
func indexFiles(ctx context.Context, paths []string, config Config) ([]*FileIndex, []error, error) {
	matcher := NewMatcher(MatcherOptions{
		Heuristics:   config.Heuristics,
		SkipComments: config.SkipComments,
	})

	indexes := make([]*FileIndex, len(paths))
	warnings := make([]error, len(paths))

	workers := config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			file, err := ReadSource(path)
			if err != nil {
				warnings[i] = err
				return nil
			}
			indexes[i] = matcher.Index(file)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("indexing aborted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("indexing aborted: %w", err)
	}

	return indexes, warnings, nil
}

// ResolveCSSInputs expands CSS paths and doublestar globs in order, dropping
// duplicates. A path that does not exist or a glob without matches is fatal.
func ResolveCSSInputs(inputs []string) ([]string, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no CSS input given: %w", ErrInputNotFound)
	}

	var files []string
	seen := make(map[string]bool)

	for _, input := range inputs {
		if !hasGlobMeta(input) {
			info, err := os.Stat(input)
			if err != nil || info.IsDir() {
				return nil, fmt.Errorf("CSS file %s: %w", input, ErrInputNotFound)
			}
			if !seen[input] {
				seen[input] = true
				files = append(files, input)
			}
			continue
		}

		matches, err := doublestar.FilepathGlob(input, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid CSS pattern %q: %w", input, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("CSS pattern %q matched no files: %w", input, ErrInputNotFound)
		}

		// Sort for deterministic output
		sort.Strings(matches)
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				files = append(files, match)
			}
		}
	}

	return files, nil
}

// hasGlobMeta reports whether a path contains doublestar pattern syntax
func hasGlobMeta(path string) bool {
	for i := 0; i < len(path); i++ {
		switch path[i] {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

func (r *Result) addWarning(logger *slog.Logger, path string, err error) {
	logger.Warn("skipping file", "path", path, "error", err)
	r.Warnings = append(r.Warnings, err.Error())
	r.FilesSkipped++
}

func (r *Result) computeStats() {
	r.Selectors = len(r.Rows)
	for _, row := range r.Rows {
		if row.Used() {
			r.Used++
		}
	}
	r.Unused = r.Selectors - r.Used
	if r.Selectors > 0 {
		r.UsagePercentage = float64(r.Used) / float64(r.Selectors) * 100
	}
}
