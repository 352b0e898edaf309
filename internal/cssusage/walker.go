package cssusage

import (
	"bytes"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// binarySniffLen is how much of a file is inspected for NUL bytes
const binarySniffLen = 8000

var (
	// DefaultExtensions are the target file types scanned for references
	DefaultExtensions = []string{".html", ".htm", ".php", ".js", ".jsx", ".ts", ".tsx"}

	// DefaultExclude prunes dependency and VCS directories
	DefaultExclude = []string{"**/node_modules", "**/.git", "**/vendor"}
)

// WalkOptions filters the files a Walker yields
type WalkOptions struct {
	Extensions       []string // nil = DefaultExtensions
	Exclude          []string // doublestar patterns relative to the root
	RespectGitignore bool
}

// Walker enumerates candidate target files under a root directory
type Walker struct {
	root       string
	extensions map[string]bool
	exclude    []string
	gitignore  *ignore.GitIgnore
}

// NewWalker validates the root and the exclude patterns
func NewWalker(root string, opts WalkOptions) (*Walker, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("source directory %s: %w", root, ErrInputNotFound)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source directory %s is not a directory: %w", root, ErrInputNotFound)
	}

	exts := opts.Extensions
	if exts == nil {
		exts = DefaultExtensions
	}
	w := &Walker{
		root:       root,
		extensions: make(map[string]bool, len(exts)),
	}
	for _, ext := range exts {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		w.extensions[strings.ToLower(ext)] = true
	}

	for _, pattern := range opts.Exclude {
		pattern = filepath.ToSlash(pattern)
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
		w.exclude = append(w.exclude, pattern)
	}

	if opts.RespectGitignore {
		// Gracefully degrade - no .gitignore is fine
		if gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
			w.gitignore = gi
		}
	}

	return w, nil
}

// Paths yields accepted file paths in lexical order. Unreadable directories are
// yielded as errors and skipped; the walk continues.
func (w *Walker) Paths() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		_ = filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if !yield(path, fmt.Errorf("walk %s: %w", path, err)) {
					return filepath.SkipAll
				}
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if path == w.root {
				return nil
			}

			rel, relErr := filepath.Rel(w.root, path)
			if relErr != nil {
				return nil
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if w.excluded(rel) || w.ignored(rel+"/") {
					return filepath.SkipDir
				}
				return nil
			}

			// Symlinks and other non-regular entries are not followed
			if !d.Type().IsRegular() {
				return nil
			}
			if !w.extensions[strings.ToLower(filepath.Ext(path))] {
				return nil
			}
			if w.excluded(rel) || w.ignored(rel) {
				return nil
			}

			if !yield(path, nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// excluded reports whether a root-relative path matches an exclude pattern
func (w *Walker) excluded(rel string) bool {
	for _, pattern := range w.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (w *Walker) ignored(rel string) bool {
	return w.gitignore != nil && w.gitignore.MatchesPath(rel)
}

// ReadSource reads a target file and splits it into lines
func ReadSource(path string) (SourceFile, error) {
	// #nosec G304 - path comes from the directory walk
	content, err := os.ReadFile(path)
	if err != nil {
		return SourceFile{Path: path}, fmt.Errorf("read %s: %w", path, err)
	}

	if isBinary(content) {
		return SourceFile{Path: path}, fmt.Errorf("%s: %w", path, ErrBinaryFile)
	}

	return SourceFile{Path: path, Lines: splitLines(string(content))}, nil
}

// isBinary reports whether content has a NUL byte near its start
func isBinary(content []byte) bool {
	sniff := content
	if len(sniff) > binarySniffLen {
		sniff = sniff[:binarySniffLen]
	}
	return bytes.IndexByte(sniff, 0) >= 0
}

// splitLines splits on '\n'. A trailing newline does not add an empty line;
// '\r' is left for the caller to trim.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

