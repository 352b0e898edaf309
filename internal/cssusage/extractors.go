package cssusage

import (
	"regexp"
	"strings"
)

// Extractor finds candidate selector references in one logical line of source text.
// Extract must be pure: same text in, same references out.
type Extractor struct {
	Name    string
	Extract func(text string) []Reference
}

// attrAssign matches "=" and a double, single, backtick quoted or unquoted
// value. Groups: spacing before and after "=", then the four value forms.
const attrAssign = `(\s*)=(\s*)(?:"([^"]*)"|'([^']*)'|` + "`([^`]*)`" + `|([^\s"'=<>` + "`" + `]+))`

var (
	// The name must not be the tail of a longer name (data-class, grid),
	// a PHP variable ($class) or a property (el.className)
	classAttrPattern = regexp.MustCompile(`(?:^|[^\w$.-])(class|className)` + attrAssign)
	idAttrPattern    = regexp.MustCompile(`(?:^|[^\w$.-])(id)` + attrAssign)

	// <tag followed by '>' or '/>', an attribute name, or end of text.
	// "a <b && c" is a comparison.
	markupTagPattern = regexp.MustCompile(`<([A-Za-z][A-Za-z0-9-]*)(?:\s*/?>|\s+[A-Za-z_:@][\w:.@-]*(?:\s|=|/?>|$)|$)`)
)

// declarationKeywords introduce variables named like attributes: var id = 'x'
var declarationKeywords = []string{"var", "let", "const"}

// callPattern is a call or assignment whose first argument names selectors of one kind
type callPattern struct {
	name     string
	regex    *regexp.Regexp
	kind     Kind
	multiArg bool // every argument is a value (classList.add('a', 'b'))
}

var (
	// DOM and jQuery APIs that take bare class, id or tag names
	domCallPatterns = []callPattern{
		{
			name:     "classList method",
			regex:    regexp.MustCompile(`\.classList\.(?:add|remove|toggle|replace|contains)\s*\(`),
			kind:     KindClass,
			multiArg: true,
		},
		{
			name:  "jQuery class method",
			regex: regexp.MustCompile(`\.(?:addClass|removeClass|toggleClass|hasClass)\s*\(`),
			kind:  KindClass,
		},
		{
			name:  "className assignment",
			regex: regexp.MustCompile(`\.className\s*\+?=`),
			kind:  KindClass,
		},
		{
			name:  "id assignment",
			regex: regexp.MustCompile(`\.id\s*=`),
			kind:  KindID,
		},
		{
			name:  "setAttribute class",
			regex: regexp.MustCompile(`\.setAttribute\s*\(\s*["'` + "`" + `]class["'` + "`" + `]\s*,`),
			kind:  KindClass,
		},
		{
			name:  "setAttribute id",
			regex: regexp.MustCompile(`\.setAttribute\s*\(\s*["'` + "`" + `]id["'` + "`" + `]\s*,`),
			kind:  KindID,
		},
		{
			name:  "getElementById",
			regex: regexp.MustCompile(`\bgetElementById\s*\(`),
			kind:  KindID,
		},
		{
			name:  "getElementsByClassName",
			regex: regexp.MustCompile(`\bgetElementsByClassName\s*\(`),
			kind:  KindClass,
		},
		{
			name:  "tag name call",
			regex: regexp.MustCompile(`\b(?:getElementsByTagName|createElement)\s*\(`),
			kind:  KindElement,
		},
	}

	// APIs whose first argument is a CSS selector string
	queryCallPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:querySelector|querySelectorAll|closest|matches)\s*\(`),
		regexp.MustCompile(`(?:^|[^\w$.])(?:\$|jQuery)\s*\(`),
		regexp.MustCompile(`\.(?:find|children|parents|siblings|filter|not|is|has)\s*\(`),
	}
)

// DefaultExtractors returns the built-in extractors bound to the given heuristics
func DefaultExtractors(h Heuristics) []Extractor {
	return []Extractor{
		{Name: "html-attrs", Extract: extractHTMLAttrs},
		{Name: "markup-tags", Extract: extractMarkupTags},
		{Name: "dom-calls", Extract: func(text string) []Reference { return extractDOMCalls(text, h) }},
		{Name: "query-args", Extract: func(text string) []Reference { return extractQueryArgs(text, h) }},
		{Name: "string-literals", Extract: func(text string) []Reference { return extractStringLiterals(text, h) }},
	}
}

// extractHTMLAttrs finds class/className and id attribute values
func extractHTMLAttrs(text string) []Reference {
	var refs []Reference

	for _, value := range attrValues(classAttrPattern, text) {
		refs = append(refs, classRefs(value)...)
	}
	for _, value := range attrValues(idAttrPattern, text) {
		if ref, ok := singleRef(KindID, value); ok {
			refs = append(refs, ref)
		}
	}

	return refs
}

// attrValues returns the values of the attribute matches of re that are not
// variable assignments. A spaced "=" (class = "x") only counts after a '<'.
func attrValues(re *regexp.Regexp, text string) []string {
	var values []string

	for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
		before := text[:loc[2]]
		if declaredBefore(before) {
			continue
		}
		spaced := loc[5] > loc[4] || loc[7] > loc[6]
		if spaced && !strings.Contains(before, "<") {
			continue
		}

		for g := 4; g <= 7; g++ {
			start, end := loc[2*g], loc[2*g+1]
			if start >= 0 && end > start {
				values = append(values, text[start:end])
				break
			}
		}
	}

	return values
}

// declaredBefore reports whether prefix ends with a declaration keyword
func declaredBefore(prefix string) bool {
	p := strings.TrimRight(prefix, " \t")
	for _, kw := range declarationKeywords {
		if !strings.HasSuffix(p, kw) {
			continue
		}
		if rest := len(p) - len(kw); rest == 0 || !isIdentByte(p[rest-1]) {
			return true
		}
	}
	return false
}

// extractMarkupTags finds opening and closing-free tag names
func extractMarkupTags(text string) []Reference {
	var refs []Reference
	for _, m := range markupTagPattern.FindAllStringSubmatch(text, -1) {
		refs = append(refs, Reference{Kind: KindElement, Name: m[1]})
	}
	return refs
}

// extractMarkup applies the attribute and tag rules to resolved text
func extractMarkup(text string) []Reference {
	return append(extractHTMLAttrs(text), extractMarkupTags(text)...)
}

// extractDOMCalls resolves the arguments of DOM and jQuery class/id/tag APIs
func extractDOMCalls(text string, h Heuristics) []Reference {
	var refs []Reference

	for _, p := range domCallPatterns {
		for _, loc := range p.regex.FindAllStringIndex(text, -1) {
			pos := loc[1]
			// "el.id == x" is a comparison
			if text[pos-1] == '=' && pos < len(text) && text[pos] == '=' {
				continue
			}

			for {
				value, literal, stop := evalExpr(text, pos, h)
				if literal {
					switch p.kind {
					case KindClass:
						refs = append(refs, classRefs(value)...)
					default:
						if ref, ok := singleRef(p.kind, value); ok {
							refs = append(refs, ref)
						}
					}
				}
				if !p.multiArg || stop >= len(text) || text[stop] != ',' {
					break
				}
				pos = stop + 1
			}
		}
	}

	return refs
}

// extractQueryArgs decomposes literal selector arguments of query APIs
func extractQueryArgs(text string, h Heuristics) []Reference {
	var refs []Reference

	for _, re := range queryCallPatterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			value, literal, _ := evalExpr(text, loc[1], h)
			if !literal {
				continue
			}

			// $('<div class="x">') builds markup
			if strings.HasPrefix(strings.TrimSpace(value), "<") {
				refs = append(refs, extractMarkup(value)...)
				continue
			}

			for _, ref := range SimpleSelectors(value) {
				if !strings.Contains(ref.Name, opaque) {
					refs = append(refs, ref)
				}
			}
		}
	}

	return refs
}

// extractStringLiterals scans resolved literal chains and echo output as markup
func extractStringLiterals(text string, h Heuristics) []Reference {
	var refs []Reference

	for _, chain := range literalChains(text, h) {
		refs = append(refs, extractMarkup(chain)...)
	}
	if out := statementOutput(text, h); out != "" {
		refs = append(refs, extractMarkup(out)...)
	}

	return refs
}

// classRefs splits a class list on whitespace. Tokens touched by an opaque
// value or by leftover quotes and sigils of unresolved source are dropped.
func classRefs(value string) []Reference {
	var refs []Reference
	for _, name := range strings.Fields(value) {
		if strings.Contains(name, opaque) || strings.ContainsAny(name, "\"'`$") {
			continue
		}
		refs = append(refs, Reference{Kind: KindClass, Name: name})
	}
	return refs
}

// singleRef accepts a value holding exactly one static token
func singleRef(kind Kind, value string) (Reference, bool) {
	name := strings.TrimSpace(value)
	if name == "" || strings.Contains(name, opaque) || strings.ContainsAny(name, " \t\r\n") {
		return Reference{}, false
	}
	return Reference{Kind: kind, Name: name}, true
}
