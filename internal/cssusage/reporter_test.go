package cssusage

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCaretIndicator(t *testing.T) {
	reporter := &Reporter{}

	tests := []struct {
		name       string
		sourceLine string
		column     int
		want       string
	}{
		{
			name:       "selector after a comma",
			sourceLine: ".btn-primry, .btn {}",
			column:     14,
			want:       "             ^", // 13 spaces + caret
		},
		{
			name:       "tab indented nested rule",
			sourceLine: "\t\t.card__title {",
			column:     3,
			want:       "\t\t^",
		},
		{
			name:       "start of line",
			sourceLine: ".card {}",
			column:     1,
			want:       "^",
		},
		{
			name:       "column 0 fallback",
			sourceLine: "some line",
			column:     0,
			want:       "^",
		},
		{
			name:       "column beyond line length",
			sourceLine: "short",
			column:     100,
			want:       "     ^", // Pads to line length only
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reporter.buildCaretIndicator(tt.sourceLine, tt.column)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestReporter_PrintIssuesSorted(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(&buf, OutputOptions{PrintLinterName: true})

	reporter.PrintIssues([]Issue{
		{FromLinter: LinterName, Text: "second", Pos: IssuePos{Filename: "b.css", Line: 1, Column: 1}},
		{FromLinter: LinterName, Text: "first", Pos: IssuePos{Filename: "a.css", Line: 9, Column: 3}},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "a.css:9:3: first (cssusage)", lines[0])
	assert.Equal(t, "b.css:1:1: second (cssusage)", lines[1])
}

func TestReporter_PrintSummary(t *testing.T) {
	issues := []Issue{{Text: "a"}, {Text: "b"}, {Text: "c"}}

	t.Run("truncated", func(t *testing.T) {
		kept, truncated := limitIssues(issues, 1)
		require.Len(t, kept, 1)
		require.Equal(t, 2, truncated)

		var buf bytes.Buffer
		NewReporter(&buf, OutputOptions{}).PrintSummary(kept, truncated)
		assert.Contains(t, buf.String(), "3 issues (2 issues truncated):")
		assert.Contains(t, buf.String(), "* cssusage: 3")
	})

	t.Run("no issues", func(t *testing.T) {
		var buf bytes.Buffer
		NewReporter(&buf, OutputOptions{}).PrintSummary(nil, 0)
		assert.Equal(t, "\n0 issues:\n", buf.String())
	})
}

func TestLimitIssues(t *testing.T) {
	issues := []Issue{{Text: "a"}, {Text: "b"}}

	kept, truncated := limitIssues(issues, 0)
	assert.Len(t, kept, 2)
	assert.Equal(t, 0, truncated)

	kept, truncated = limitIssues(issues, 5)
	assert.Len(t, kept, 2)
	assert.Equal(t, 0, truncated)
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "[░░░░░░░░░░░░░░░░░░░░] 0.0%", progressBar(0))
	assert.Equal(t, "[██████████░░░░░░░░░░] 50.0%", progressBar(50))
	assert.Equal(t, "[████████████████████] 100.0%", progressBar(100))
}

func TestShouldUseColors(t *testing.T) {
	assert.True(t, ShouldUseColors(true))

	t.Setenv("NO_COLOR", "1")
	t.Setenv("FORCE_COLOR", "1")
	assert.False(t, ShouldUseColors(false))

	t.Setenv("NO_COLOR", "")
	assert.True(t, ShouldUseColors(false))
}

func TestRenderStyle(t *testing.T) {
	assert.Equal(t, "plain", RenderStyle(StyleRed, "plain", false))
}
