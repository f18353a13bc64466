package textlib

import (
	"regexp"
	"strings"

	"github.com/gowikibot/wikibot/internal/model"
)

// linkRe matches [[prefix:target]] links with an optional leading colon
// and optional pipe text. A leading colon marks an inline article link,
// never an interwiki.
var linkRe = regexp.MustCompile(`\[\[(:?)\s*([A-Za-z][A-Za-z-]*)\s*:\s*([^\]|]+?)\s*(?:\|[^\]]*)?\]\]`)

// skipRe matches spans whose content must never be interpreted:
// nowiki/pre blocks and HTML comments.
var skipRe = regexp.MustCompile(`(?s)<nowiki>.*?</nowiki>|<pre>.*?</pre>|<!--.*?-->`)

// ExtractLinks returns the interwiki links present in text, in source
// order. isCode decides which prefixes count as language codes; the
// caller passes the family's membership test.
func ExtractLinks(text string, isCode func(string) bool) []model.LangLink {
	var links []model.LangLink
	for _, m := range linkRe.FindAllStringSubmatchIndex(maskSkippedSpans(text), -1) {
		colon := text[m[2]:m[3]]
		code := strings.ToLower(text[m[4]:m[5]])
		target := text[m[6]:m[7]]
		if colon == ":" || !isCode(code) {
			continue
		}
		title := model.NormalizeTitle(model.SectionlessTitle(target))
		if title == "" {
			continue
		}
		links = append(links, model.LangLink{Code: code, Title: title})
	}
	return links
}

// ReplaceLinks removes every interwiki link from text and appends the new
// set as one block at the bottom of the page, one link per line. links
// must already be in the family's sort order. An empty set just strips
// the old links.
func ReplaceLinks(text string, links []model.LangLink, isCode func(string) bool) string {
	stripped := removeLinks(text, isCode)
	stripped = strings.TrimRight(stripped, " \t\n")

	if len(links) == 0 {
		if stripped == "" {
			return ""
		}
		return stripped + "\n"
	}

	lines := make([]string, 0, len(links))
	for _, l := range links {
		lines = append(lines, l.Wikitext())
	}
	block := strings.Join(lines, "\n")

	if stripped == "" {
		return block + "\n"
	}
	return stripped + "\n\n" + block + "\n"
}

// removeLinks deletes interwiki links from text, including a trailing
// newline when the link stood on its own line.
func removeLinks(text string, isCode func(string) bool) string {
	masked := maskSkippedSpans(text)
	matches := linkRe.FindAllStringSubmatchIndex(masked, -1)

	var b strings.Builder
	b.Grow(len(text))
	prev := 0
	for _, m := range matches {
		colon := text[m[2]:m[3]]
		code := strings.ToLower(text[m[4]:m[5]])
		if colon == ":" || !isCode(code) {
			continue
		}
		start, end := m[0], m[1]
		// Swallow one trailing newline so removed link lines don't
		// leave blank lines behind.
		if end < len(text) && text[end] == '\n' {
			end++
		}
		b.WriteString(text[prev:start])
		prev = end
	}
	b.WriteString(text[prev:])
	return b.String()
}

// maskSkippedSpans blanks out nowiki/pre/comment spans so the link regex
// cannot match inside them. The returned string has the same length as
// the input, so match indexes remain valid against the original.
func maskSkippedSpans(text string) string {
	return skipRe.ReplaceAllStringFunc(text, func(s string) string {
		return strings.Repeat(" ", len(s))
	})
}
