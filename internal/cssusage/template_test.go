package cssusage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalExpr(t *testing.T) {
	h := DefaultHeuristics()

	tests := []struct {
		name        string
		expr        string
		want        string
		wantLiteral bool
	}{
		{
			name:        "single quoted literal",
			expr:        `'active'`,
			want:        "active",
			wantLiteral: true,
		},
		{
			name:        "php concatenation",
			expr:        `'<div class="container ' . 'header">'`,
			want:        `<div class="container header">`,
			wantLiteral: true,
		},
		{
			name:        "js concatenation",
			expr:        `"nav" + "-item"`,
			want:        "nav-item",
			wantLiteral: true,
		},
		{
			name:        "variable operand is opaque",
			expr:        `'btn-' . $size`,
			want:        "btn-" + opaque,
			wantLiteral: true,
		},
		{
			name:        "adjacent opaque operands collapse",
			expr:        `'a ' + obj.prop + fn(x)`,
			want:        "a " + opaque,
			wantLiteral: true,
		},
		{
			name:        "double quoted interpolation",
			expr:        `"btn $class"`,
			want:        "btn " + opaque,
			wantLiteral: true,
		},
		{
			name:        "braced interpolation",
			expr:        `"item {$row['class']}"`,
			want:        "item " + opaque,
			wantLiteral: true,
		},
		{
			name:        "template literal substitution",
			expr:        "`card ${kind}`",
			want:        "card " + opaque,
			wantLiteral: true,
		},
		{
			name:        "escaped quotes",
			expr:        `"<div class=\"x\">"`,
			want:        `<div class="x">`,
			wantLiteral: true,
		},
		{
			name:        "ternary branches are separate tokens",
			expr:        `$on ? 'open' : 'closed'`,
			want:        opaque + " open closed",
			wantLiteral: true,
		},
		{
			name:        "no literal",
			expr:        `$class`,
			want:        opaque,
			wantLiteral: false,
		},
		{
			name:        "stops at terminator",
			expr:        `'a'; 'b'`,
			want:        "a",
			wantLiteral: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, literal, _ := evalExpr(tt.expr, 0, h)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.wantLiteral, literal)
		})
	}
}

func TestEvalExpr_ConcatBound(t *testing.T) {
	h := Heuristics{MaxConcatLiterals: 2, ContinuationLines: 0}

	got, literal, _ := evalExpr(`'a' . 'b' . 'c'`, 0, h)
	require.True(t, literal)
	assert.Equal(t, "ab"+opaque, got)
}

func TestResolveTemplates(t *testing.T) {
	h := DefaultHeuristics()

	tests := []struct {
		name string
		line string
		want string
	}{
		{
			name: "php short echo",
			line: `<li class="<?= 'active' ?>">`,
			want: `<li class="active">`,
		},
		{
			name: "php short echo with variable",
			line: `<li class="<?= $cls ?>">`,
			want: `<li class="` + opaque + `">`,
		},
		{
			name: "php block with echo",
			line: `<?php echo '<div class="wrap">'; ?>`,
			want: `<div class="wrap">`,
		},
		{
			name: "php block without output",
			line: `<?php if ($x): ?><p class="note">`,
			want: `<p class="note">`,
		},
		{
			name: "echo argument list",
			line: `<?php echo '<span class="a ', 'b">'; ?>`,
			want: `<span class="a b">`,
		},
		{
			name: "asp style echo",
			line: `<div id="<%= "main" %>">`,
			want: `<div id="main">`,
		},
		{
			name: "mustache expression",
			line: `<p class="{{ 'lead' }}">`,
			want: `<p class="lead">`,
		},
		{
			name: "template literal region",
			line: "<i class=\"${'icon'}\">",
			want: `<i class="icon">`,
		},
		{
			name: "unterminated region runs to end of line",
			line: `<div class="x <?= $y`,
			want: `<div class="x ` + opaque,
		},
		{
			name: "plain markup untouched",
			line: `<div class="container">`,
			want: `<div class="container">`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, resolveTemplates(tt.line, h))
		})
	}
}

func TestLiteralChains(t *testing.T) {
	h := DefaultHeuristics()

	got := literalChains(`echo '<div class="container ' . 'header">Mixed</div>';`, h)
	require.Equal(t, []string{`<div class="container header">Mixed</div>`}, got)

	got = literalChains(`$class = "btn-primary";`, h)
	require.Equal(t, []string{"btn-primary"}, got)

	got = literalChains(`no strings here`, h)
	require.Empty(t, got)
}

func TestStatementOutput(t *testing.T) {
	h := DefaultHeuristics()

	assert.Equal(t, "ab", statementOutput(`echo 'a'; print('b');`, h))
	assert.Equal(t, "", statementOutput(`$echoed = 'x';`, h))
	assert.Equal(t, "", statementOutput(`if ($x) {`, h))
}
