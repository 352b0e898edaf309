package cssusage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates files (slash-separated relative paths) under dir
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// relPaths collects walker paths relative to root
func relPaths(t *testing.T, w *Walker, root string) []string {
	t.Helper()
	var out []string
	for path, err := range w.Paths() {
		require.NoError(t, err)
		rel, err := filepath.Rel(root, path)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestWalker_Paths(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"index.html":                 "<p>",
		"about.htm":                  "<p>",
		"src/app.js":                 "x",
		"src/view.tsx":               "x",
		"src/types.d.ts":             "x",
		"src/readme.md":              "x",
		"lib/page.php":               "x",
		"node_modules/pkg/index.js":  "x",
		"vendor/lib/x.php":           "x",
		"assets/styles.css":          ".a{}",
		"deep/node_modules/y/z.html": "x",
	})

	w, err := NewWalker(root, WalkOptions{Exclude: DefaultExclude})
	require.NoError(t, err)

	// Lexical order
	assert.Equal(t, []string{
		"about.htm",
		"index.html",
		"lib/page.php",
		"src/app.js",
		"src/types.d.ts",
		"src/view.tsx",
	}, relPaths(t, w, root))
}

func TestWalker_CustomExtensionsAndExclude(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.vue":            "x",
		"b.html":           "x",
		"gen/c.vue":        "x",
		"templates/d.TWIG": "x",
	})

	w, err := NewWalker(root, WalkOptions{
		Extensions: []string{"vue", ".twig"},
		Exclude:    []string{"gen/**"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.vue", "templates/d.TWIG"}, relPaths(t, w, root))
}

func TestWalker_Gitignore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore":     "dist/\n*.min.js\n",
		"app.js":         "x",
		"app.min.js":     "x",
		"dist/bundle.js": "x",
	})

	w, err := NewWalker(root, WalkOptions{RespectGitignore: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"app.js"}, relPaths(t, w, root))

	w, err = NewWalker(root, WalkOptions{RespectGitignore: false})
	require.NoError(t, err)
	assert.Equal(t, []string{"app.js", "app.min.js", "dist/bundle.js"}, relPaths(t, w, root))
}

func TestNewWalker_Errors(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file.html")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := NewWalker(filepath.Join(root, "missing"), WalkOptions{})
	require.ErrorIs(t, err, ErrInputNotFound)

	_, err = NewWalker(file, WalkOptions{})
	require.ErrorIs(t, err, ErrInputNotFound)

	_, err = NewWalker(root, WalkOptions{Exclude: []string{"[unclosed"}})
	require.Error(t, err)
}

func TestReadSource_LinesAndBinary(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.html": "line one\r\nline two\n",
		"b.js":   "bin\x00ary",
	})

	file, err := ReadSource(filepath.Join(root, "a.html"))
	require.NoError(t, err)
	assert.Equal(t, []string{"line one\r", "line two"}, file.Lines)

	file, err = ReadSource(filepath.Join(root, "b.js"))
	assert.True(t, errors.Is(err, ErrBinaryFile))
	assert.Equal(t, filepath.Join(root, "b.js"), file.Path)
	assert.Empty(t, file.Lines)
}

// symlinkOrSkip creates link pointing at target, skipping where symlinks are unavailable
func symlinkOrSkip(t *testing.T, target, link string) {
	t.Helper()
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
}

func TestWalker_SymlinksNotFollowed(t *testing.T) {
	t.Run("symlinked file", func(t *testing.T) {
		root := t.TempDir()
		outside := t.TempDir()
		writeTree(t, root, map[string]string{"real.html": "x"})
		writeTree(t, outside, map[string]string{"shared.html": "x"})

		symlinkOrSkip(t, filepath.Join(outside, "shared.html"), filepath.Join(root, "linked.html"))
		symlinkOrSkip(t, filepath.Join(root, "real.html"), filepath.Join(root, "alias.html"))

		w, err := NewWalker(root, WalkOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{"real.html"}, relPaths(t, w, root))
	})

	t.Run("directory cycle", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{"pages/index.html": "x"})

		symlinkOrSkip(t, root, filepath.Join(root, "pages", "loop"))
		symlinkOrSkip(t, filepath.Join(root, "pages"), filepath.Join(root, "pages-link"))

		w, err := NewWalker(root, WalkOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{"pages/index.html"}, relPaths(t, w, root))
	})
}

func TestWalker_StopsEarly(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.html": "x",
		"b.html": "x",
		"c.html": "x",
	})

	w, err := NewWalker(root, WalkOptions{})
	require.NoError(t, err)

	count := 0
	for range w.Paths() {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestReadSource(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.html")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	file, err := ReadSource(empty)
	require.NoError(t, err)
	assert.Empty(t, file.Lines)

	_, err = ReadSource(filepath.Join(dir, "missing.html"))
	require.Error(t, err)
}
