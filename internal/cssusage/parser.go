package cssusage

import (
	"fmt"
	"os"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// groupAtRules are at-rules whose blocks contain style rules
var groupAtRules = map[string]bool{
	"@media":          true,
	"@supports":       true,
	"@layer":          true,
	"@container":      true,
	"@document":       true,
	"@scope":          true,
	"@starting-style": true,
}

// token is a lexed CSS token with its text copied out of the lexer buffer
type token struct {
	tt   css.TokenType
	data string
}

// parserState maintains context while extracting selectors
type parserState struct {
	lexer    *css.Lexer
	filename string
	line     int
	records  []SelectorRecord
	seen     map[string]bool // Deduplicate selectors within the file
	pending  []token         // Tokens to re-read before the lexer resumes
}

// ExtractSelectors parses CSS content and returns its simple selectors in declaration order.
// Malformed input never fails; the result is whatever could be recovered.
func ExtractSelectors(content string, filename string) []SelectorRecord {
	state := &parserState{
		lexer:    css.NewLexer(parse.NewInputString(content)),
		filename: filename,
		line:     1,
		seen:     make(map[string]bool),
	}

	var prelude []token
	preludeLine := 0
	depth := 0 // open group at-rule blocks

	for {
		tt, text := state.next()
		if tt == css.ErrorToken {
			// ErrorToken at EOF is normal - just break
			break
		}

		switch tt {
		case css.CommentToken:
			continue

		case css.LeftBraceToken:
			switch {
			case isGroupRule(prelude):
				depth++
			case len(prelude) > 0 && prelude[0].tt == css.AtKeywordToken:
				// @font-face, @keyframes, @page ... hold no selectors
				state.skipBlock()
			default:
				state.addPrelude(prelude, preludeLine)
				state.skipBlock()
			}
			prelude = nil

		case css.RightBraceToken:
			// Closes a group block; a stray brace is ignored
			if depth > 0 {
				depth--
			}
			prelude = nil

		case css.SemicolonToken:
			// @import, @charset, @layer a, b;
			prelude = nil

		default:
			if len(prelude) == 0 {
				if tt == css.WhitespaceToken {
					continue
				}
				preludeLine = state.line - strings.Count(text, "\n")
			}
			prelude = append(prelude, token{tt: tt, data: text})
		}
	}

	return state.records
}

// ParseFile reads and parses a single CSS file
func ParseFile(path string) ([]SelectorRecord, error) {
	// #nosec G304 - path comes from trusted configuration
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return ExtractSelectors(string(content), path), nil
}

// SimpleSelectors decomposes a selector list (".nav li.item, #main") into references
func SimpleSelectors(selector string) []Reference {
	lexer := css.NewLexer(parse.NewInputString(selector))

	var tokens []token
	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			break
		}
		if tt == css.CommentToken {
			continue
		}
		tokens = append(tokens, token{tt: tt, data: string(text)})
	}

	var refs []Reference
	for _, group := range splitSelectorGroups(tokens) {
		refs = append(refs, decomposeSelector(group)...)
	}
	return refs
}

// next returns the next token and keeps the line counter current
func (s *parserState) next() (css.TokenType, string) {
	var tt css.TokenType
	var text string
	if len(s.pending) > 0 {
		tt, text = s.pending[0].tt, s.pending[0].data
		s.pending = s.pending[1:]
	} else {
		var data []byte
		tt, data = s.lexer.Next()
		text = string(data)
	}
	s.line += strings.Count(text, "\n")
	return tt, text
}

// skipBlock consumes tokens up to the brace closing the block just opened.
// A block still open at end of input ends at its first '}' and parsing
// resumes after it: ".a { color: red; .b { } .c { }" still yields .c.
func (s *parserState) skipBlock() {
	var consumed []token
	var lines []int // line counter after each consumed token

	depth := 1
	for depth > 0 {
		tt, text := s.next()
		switch tt {
		case css.ErrorToken:
			s.resumeAfterFirstClose(consumed, lines)
			return
		case css.LeftBraceToken:
			depth++
		case css.RightBraceToken:
			depth--
		}
		consumed = append(consumed, token{tt: tt, data: text})
		lines = append(lines, s.line)
	}
}

// resumeAfterFirstClose queues the tokens after the first '}' of an
// unterminated block for re-reading. Without a '}' the block swallows the rest.
func (s *parserState) resumeAfterFirstClose(consumed []token, lines []int) {
	for i, t := range consumed {
		if t.tt != css.RightBraceToken {
			continue
		}
		rest := make([]token, 0, len(consumed)-i-1+len(s.pending))
		rest = append(rest, consumed[i+1:]...)
		s.pending = append(rest, s.pending...)
		s.line = lines[i]
		return
	}
}

// addPrelude records every simple selector of a rule prelude
func (s *parserState) addPrelude(prelude []token, line int) {
	for _, group := range splitSelectorGroups(prelude) {
		for _, ref := range decomposeSelector(group) {
			selector := ref.Selector()
			if s.seen[selector] {
				continue
			}
			s.seen[selector] = true
			s.records = append(s.records, newRecord(selector, s.filename, line))
		}
	}
}

// isGroupRule reports whether a prelude opens a conditional group at-rule
func isGroupRule(prelude []token) bool {
	if len(prelude) == 0 || prelude[0].tt != css.AtKeywordToken {
		return false
	}
	return groupAtRules[strings.ToLower(prelude[0].data)]
}

// splitSelectorGroups splits a selector list on commas outside brackets and parentheses
func splitSelectorGroups(tokens []token) [][]token {
	var groups [][]token
	var current []token
	depth := 0

	for _, t := range tokens {
		switch t.tt {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			if depth > 0 {
				depth--
			}
		case css.CommaToken:
			if depth == 0 {
				groups = append(groups, current)
				current = nil
				continue
			}
		}
		current = append(current, t)
	}

	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

// decomposeSelector extracts the class, id and element parts of one complex selector.
// Combinators, pseudo-classes/elements and attribute selectors yield nothing.
func decomposeSelector(tokens []token) []Reference {
	var refs []Reference

	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		switch t.tt {
		case css.DelimToken:
			if t.data == "." && i+1 < len(tokens) && tokens[i+1].tt == css.IdentToken {
				refs = append(refs, Reference{Kind: KindClass, Name: tokens[i+1].data})
				i++
			}

		case css.HashToken:
			if len(t.data) > 1 {
				refs = append(refs, Reference{Kind: KindID, Name: t.data[1:]})
			}

		case css.IdentToken:
			refs = append(refs, Reference{Kind: KindElement, Name: t.data})

		case css.ColonToken:
			// :hover, ::before, :not(...)
			j := i + 1
			if j < len(tokens) && tokens[j].tt == css.ColonToken {
				j++
			}
			if j < len(tokens) {
				switch tokens[j].tt {
				case css.IdentToken:
					i = j
					if j+1 < len(tokens) && tokens[j+1].tt == css.LeftParenthesisToken {
						i = skipBalanced(tokens, j+1)
					}
				case css.FunctionToken:
					i = skipBalanced(tokens, j)
				}
			}

		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			i = skipBalanced(tokens, i)
		}
	}

	return refs
}

// skipBalanced returns the index of the token closing the bracket opened at tokens[start]
func skipBalanced(tokens []token, start int) int {
	depth := 0
	for i := start; i < len(tokens); i++ {
		switch tokens[i].tt {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(tokens) - 1
}
