package cssusage

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classRecord(name string) SelectorRecord {
	return newRecord("."+name, "styles.css", 1)
}

func TestMatcher_FirstOccurrence(t *testing.T) {
	m := NewMatcher(MatcherOptions{SkipComments: true})
	file := SourceFile{
		Path: "index.html",
		Lines: []string{
			"<html>",
			"  <div class=\"container\">",
			"    <p class=\"container lead\">\r",
		},
	}

	occ, ok := m.Match(classRecord("container"), file)
	require.True(t, ok)
	assert.Equal(t, UsageOccurrence{File: "index.html", LineNumber: 2, LineText: `<div class="container">`}, occ)

	occ, ok = m.Match(classRecord("lead"), file)
	require.True(t, ok)
	assert.Equal(t, 3, occ.LineNumber)
	assert.Equal(t, `<p class="container lead">`, occ.LineText)

	_, ok = m.Match(classRecord("missing"), file)
	assert.False(t, ok)

	idx := m.Index(file)
	assert.Equal(t, 2, idx.Count(classRecord("container")))
	assert.Equal(t, 0, idx.Count(classRecord("missing")))
}

func TestMatcher_Kinds(t *testing.T) {
	m := NewMatcher(MatcherOptions{})
	file := SourceFile{
		Path: "app.js",
		Lines: []string{
			`const el = document.getElementById('header');`,
			`el.innerHTML = '<span class="badge">';`,
		},
	}
	idx := m.Index(file)

	_, ok := idx.Lookup(newRecord("#header", "styles.css", 1))
	assert.True(t, ok)

	occ, ok := idx.Lookup(newRecord("span", "styles.css", 1))
	require.True(t, ok)
	assert.Equal(t, 2, occ.LineNumber)

	// An id reference does not satisfy a class selector of the same name
	_, ok = idx.Lookup(classRecord("header"))
	assert.False(t, ok)
}

func TestMatcher_SkipComments(t *testing.T) {
	file := SourceFile{
		Path:  "app.js",
		Lines: []string{`// el.classList.add('ghost');`},
	}

	_, ok := NewMatcher(MatcherOptions{SkipComments: true}).Match(classRecord("ghost"), file)
	assert.False(t, ok)

	_, ok = NewMatcher(MatcherOptions{SkipComments: false}).Match(classRecord("ghost"), file)
	assert.True(t, ok)
}

func TestMatcher_Continuation(t *testing.T) {
	file := SourceFile{
		Path: "page.php",
		Lines: []string{
			`$html = '<div class="panel ' .`,
			`         'panel--wide">';`,
			`$x = 1;`,
		},
	}

	t.Run("continued statement reports the line holding the token", func(t *testing.T) {
		m := NewMatcher(MatcherOptions{Heuristics: DefaultHeuristics()})
		idx := m.Index(file)

		occ, ok := idx.Lookup(classRecord("panel--wide"))
		require.True(t, ok)
		assert.Equal(t, 2, occ.LineNumber)
		assert.Equal(t, `'panel--wide">';`, occ.LineText)

		occ, ok = idx.Lookup(classRecord("panel"))
		require.True(t, ok)
		assert.Equal(t, 1, occ.LineNumber)
		assert.Equal(t, `$html = '<div class="panel ' .`, occ.LineText)

		// The statement is counted once, not once per physical line
		assert.Equal(t, 1, idx.Count(classRecord("panel--wide")))
	})

	t.Run("token assembled across lines reports the first line", func(t *testing.T) {
		split := SourceFile{
			Path: "split.php",
			Lines: []string{
				`echo '<p class="hi' .`,
				`     'ghlight">';`,
			},
		}
		occ, ok := NewMatcher(MatcherOptions{}).Match(classRecord("highlight"), split)
		require.True(t, ok)
		assert.Equal(t, 1, occ.LineNumber)
	})

	t.Run("continuation disabled", func(t *testing.T) {
		m := NewMatcher(MatcherOptions{Heuristics: Heuristics{MaxConcatLiterals: 8, ContinuationLines: 0}})
		_, ok := m.Match(classRecord("panel--wide"), file)
		assert.False(t, ok)
	})
}

func TestMatcher_LeadingOperatorContinuation(t *testing.T) {
	file := SourceFile{
		Path: "widget.js",
		Lines: []string{
			`const html = '<li class="menu-item '`,
			`  + 'menu-item--active">';`,
		},
	}

	m := NewMatcher(MatcherOptions{})
	occ, ok := m.Match(classRecord("menu-item--active"), file)
	require.True(t, ok)
	assert.Equal(t, 2, occ.LineNumber)

	occ, ok = m.Match(classRecord("menu-item"), file)
	require.True(t, ok)
	assert.Equal(t, 1, occ.LineNumber)
}

func TestMatcher_SharedIndexForIdenticalContent(t *testing.T) {
	m := NewMatcher(MatcherOptions{})
	lines := []string{`<b class="x">`}

	a := m.Index(SourceFile{Path: "a.html", Lines: lines})
	b := m.Index(SourceFile{Path: "b.html", Lines: lines})

	occA, ok := a.Lookup(classRecord("x"))
	require.True(t, ok)
	occB, ok := b.Lookup(classRecord("x"))
	require.True(t, ok)

	// Same line data, each reported under its own path
	assert.Equal(t, "a.html", occA.File)
	assert.Equal(t, "b.html", occB.File)
	assert.Len(t, m.cache, 1)
}

func TestMatcher_ConcurrentIndex(t *testing.T) {
	m := NewMatcher(MatcherOptions{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			idx := m.Index(SourceFile{Path: "x.html", Lines: []string{`<i class="icon">`}})
			_, ok := idx.Lookup(classRecord("icon"))
			assert.True(t, ok)
		}()
	}
	wg.Wait()
}

func TestStatementEnd(t *testing.T) {
	lines := []string{
		`'a' .`,
		`'b' .`,
		`'c' .`,
		`'d';`,
	}

	assert.Equal(t, 2, statementEnd(lines, 0, 2))
	assert.Equal(t, 3, statementEnd(lines, 2, 2))
	assert.Equal(t, 0, statementEnd(lines, 0, 0))
	assert.Equal(t, 3, statementEnd(lines, 3, 2))
}

func TestLineContaining(t *testing.T) {
	lines := []string{`x = '<b class="a ' .`, `'b">';`}
	assert.Equal(t, 1, lineContaining(lines, 0, 1, "b\""))
	assert.Equal(t, 0, lineContaining(lines, 0, 1, "a"))
	assert.Equal(t, 0, lineContaining(lines, 0, 1, "missing"))
}
