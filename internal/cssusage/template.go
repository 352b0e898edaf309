package cssusage

import (
	"strings"
)

// opaque stands in for text whose value is not statically known. It is not a
// valid selector character, so a token containing it never matches.
const opaque = "�"

// templateRegion is an embedded output or code region inside markup
type templateRegion struct {
	open, close string
	statements  bool // body is code; only echo/print output counts
}

// Checked in order; longer openers sharing a prefix come first
var templateRegions = []templateRegion{
	{open: "<?=", close: "?>"},
	{open: "<?php", close: "?>", statements: true},
	{open: "<?", close: "?>", statements: true},
	{open: "<%=", close: "%>"},
	{open: "<%", close: "%>", statements: true},
	{open: "{{", close: "}}"},
	{open: "${", close: "}"},
}

// resolveTemplates replaces every template region in text with its static output.
// Non-literal output becomes opaque; an unterminated region runs to the end of text.
func resolveTemplates(text string, h Heuristics) string {
	if !strings.ContainsAny(text, "<{$") {
		return text
	}

	var b strings.Builder
	for i := 0; i < len(text); {
		region, ok := regionAt(text, i)
		if !ok {
			b.WriteByte(text[i])
			i++
			continue
		}

		bodyStart := i + len(region.open)
		end := findClose(text, bodyStart, region.close)
		var body string
		if end < 0 {
			body = text[bodyStart:]
			i = len(text)
		} else {
			body = text[bodyStart:end]
			i = end + len(region.close)
		}

		if region.statements {
			b.WriteString(statementOutput(body, h))
		} else {
			value, _, _ := evalExpr(body, 0, h)
			b.WriteString(value)
		}
	}

	return b.String()
}

// regionAt returns the template region opening at text[i], if any
func regionAt(text string, i int) (templateRegion, bool) {
	for _, r := range templateRegions {
		if strings.HasPrefix(text[i:], r.open) {
			return r, true
		}
	}
	return templateRegion{}, false
}

// findClose returns the index of close at or after from, skipping string literals
func findClose(s string, from int, close string) int {
	for i := from; i < len(s); {
		if isQuote(s[i]) {
			_, i = readLiteral(s, i, DefaultHeuristics())
			continue
		}
		if strings.HasPrefix(s[i:], close) {
			return i
		}
		i++
	}
	return -1
}

// statementOutput returns the concatenated static output of the echo and
// print statements in a block of PHP-like code
func statementOutput(code string, h Heuristics) string {
	var b strings.Builder

	for i := 0; i < len(code); {
		c := code[i]
		if isQuote(c) {
			_, i = readLiteral(code, i, h)
			continue
		}

		kw := keywordAt(code, i, "echo", "print")
		if kw == "" {
			i++
			continue
		}

		// Arguments: echo 'a', 'b'; each is a concatenation expression
		pos := i + len(kw)
		for {
			value, _, stop := evalExpr(code, pos, h)
			b.WriteString(value)
			if stop >= len(code) || code[stop] != ',' {
				i = stop + 1
				break
			}
			pos = stop + 1
		}
	}

	return b.String()
}

// keywordAt reports which keyword, if any, starts at s[i] as a whole word
func keywordAt(s string, i int, keywords ...string) string {
	if i > 0 && isIdentByte(s[i-1]) {
		return ""
	}
	for _, kw := range keywords {
		end := i + len(kw)
		if strings.HasPrefix(s[i:], kw) && (end == len(s) || !isIdentByte(s[end])) {
			return kw
		}
	}
	return ""
}

// literalChains resolves every concatenation chain that starts with a string literal
func literalChains(text string, h Heuristics) []string {
	var chains []string

	for i := 0; i < len(text); {
		if !isQuote(text[i]) {
			i++
			continue
		}
		value, literal, stop := evalExpr(text, i, h)
		if literal {
			chains = append(chains, value)
		}
		if stop <= i {
			stop = i + 1
		}
		i = stop
	}

	return chains
}

// evalExpr resolves the concatenation expression starting at s[i]. Operands
// joined by '.' or '+' are concatenated; string literals contribute their
// decoded text and everything else is opaque. Operands that are not joined by
// an operator (ternary branches, for instance) are separated by a space.
// It returns the value, whether any literal contributed, and the index of the
// top-level terminator (';', ',', or a closing bracket) or len(s).
func evalExpr(s string, i int, h Heuristics) (string, bool, int) {
	var b strings.Builder
	literals := 0
	written := false    // an operand has been written
	joined := false     // a concatenation operator follows the last operand
	lastOpaque := false // the last operand written was opaque

	writeOperand := func(text string, isOpaque bool) {
		if written && !joined {
			b.WriteByte(' ')
		} else if isOpaque && lastOpaque {
			// Adjacent opaque operands collapse
			joined = false
			return
		}
		b.WriteString(text)
		written = true
		joined = false
		lastOpaque = isOpaque
	}

	for i < len(s) {
		c := s[i]
		switch {
		case isSpace(c):
			i++

		case c == '.' || c == '+':
			joined = true
			i++

		case strings.IndexByte(";,)]}", c) >= 0:
			return b.String(), literals > 0, i

		case strings.IndexByte("?:|&", c) >= 0:
			// Alternatives: cond ? 'a' : 'b', a || 'b'
			joined = false
			i++

		case isQuote(c):
			text, end := readLiteral(s, i, h)
			if literals < h.MaxConcatLiterals {
				literals++
				writeOperand(text, false)
			} else {
				writeOperand(opaque, true)
			}
			i = end

		case c == '(':
			// Parenthesized sub-expression
			value, literal, _ := evalExpr(s, i+1, h)
			if literal {
				literals++
				writeOperand(value, false)
			} else {
				writeOperand(opaque, true)
			}
			i = skipGroup(s, i)

		default:
			i = skipTerm(s, i)
			writeOperand(opaque, true)
		}
	}

	return b.String(), literals > 0, len(s)
}

// readLiteral decodes the string literal starting at s[i] and returns its text
// and the index after the closing quote. Interpolations ($var, {$expr}, ${expr})
// are opaque.
func readLiteral(s string, i int, h Heuristics) (string, int) {
	quote := s[i]
	var b strings.Builder

	j := i + 1
	for j < len(s) {
		c := s[j]
		switch {
		case c == '\\' && j+1 < len(s):
			switch s[j+1] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(s[j+1])
			}
			j += 2

		case c == quote:
			return b.String(), j + 1

		case quote == '"' && c == '$' && j+1 < len(s) && (isIdentStart(s[j+1]) || s[j+1] == '{'):
			// "$class", "${name}"
			j++
			if s[j] == '{' {
				j = skipGroup(s, j)
			} else {
				for j < len(s) && (isIdentByte(s[j]) || s[j] == '-' && j+1 < len(s) && s[j+1] == '>') {
					if s[j] == '-' {
						j++
					}
					j++
				}
			}
			b.WriteString(opaque)

		case quote == '"' && c == '{' && j+1 < len(s) && s[j+1] == '$':
			// "{$row['class']}"
			j = skipGroup(s, j)
			b.WriteString(opaque)

		case quote == '`' && c == '$' && j+1 < len(s) && s[j+1] == '{':
			// `${expr}`
			value, literal, _ := evalExpr(s, j+2, h)
			if literal {
				b.WriteString(value)
			} else {
				b.WriteString(opaque)
			}
			j = skipGroup(s, j+1)

		default:
			b.WriteByte(c)
			j++
		}
	}

	// Unterminated literal runs to the end of the text
	return b.String(), len(s)
}

// skipGroup returns the index after the bracket closing the one at s[i]
func skipGroup(s string, i int) int {
	depth := 0
	for j := i; j < len(s); {
		c := s[j]
		switch {
		case isQuote(c):
			_, j = readLiteral(s, j, DefaultHeuristics())
			continue
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
			if depth == 0 {
				return j + 1
			}
		}
		j++
	}
	return len(s)
}

// skipTerm returns the index after a non-literal operand (identifier, variable,
// number, call or index expression)
func skipTerm(s string, i int) int {
	j := i
	for j < len(s) {
		c := s[j]
		switch {
		case c == '(' || c == '[' || c == '{':
			j = skipGroup(s, j)
		case isSpace(c) || isQuote(c) || strings.IndexByte(".+;,)]}?:|&", c) >= 0:
			if j == i {
				return i + 1
			}
			return j
		default:
			j++
		}
	}
	return j
}

func isQuote(c byte) bool {
	return c == '"' || c == '\'' || c == '`'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentByte(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}
